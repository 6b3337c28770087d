// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
)

func TestRecoveryApproveRejectsDivergedPrestate(t *testing.T) {
	req := RecoveryRequest{AccountID: ids.AccountId{1}, Prestate: ids.Hash32{0xAA}, Threshold: 2}
	_, err := Approve(req, ids.GuardianId{2}, ids.Hash32{0xBB}, []byte("sig"))
	require.ErrorIs(t, err, aurerr.ErrPrestateDiverged)
}

func TestRecoveryThresholdAndCommit(t *testing.T) {
	req := RecoveryRequest{AccountID: ids.AccountId{1}, Prestate: ids.Hash32{0xAA}, Threshold: 2}
	g1, g2, g3 := ids.GuardianId{1}, ids.GuardianId{2}, ids.GuardianId{3}

	grant1, err := Approve(req, g1, req.Prestate, []byte("s1"))
	require.NoError(t, err)
	grant2, err := Approve(req, g2, req.Prestate, []byte("s2"))
	require.NoError(t, err)

	grants := map[ids.GuardianId]ids.Hash32{g1: grant1.GrantHash, g2: grant2.GrantHash}
	prestates := map[ids.GuardianId]ids.Hash32{g1: req.Prestate, g2: req.Prestate}
	require.False(t, CheckThreshold(RecoveryRequest{AccountID: req.AccountID, Prestate: req.Prestate, Threshold: 3}, grants, prestates))
	require.True(t, CheckThreshold(req, grants, prestates))

	// A stale-prestate grant from a third guardian never counts.
	prestates[g3] = ids.Hash32{0xCC}
	grants[g3] = ids.Hash32{0xDD}
	require.True(t, CheckThreshold(req, grants, prestates))

	commit := Commit(req)
	require.Equal(t, req.AccountID, commit.AccountID)
	require.Equal(t, req.Prestate, commit.Prestate)
}

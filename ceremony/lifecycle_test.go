// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package ceremony

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aura-net/aura/consensus"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
)

func TestNewCeremonyIDDeterministic(t *testing.T) {
	prestate := ids.Hash32{1}
	op := ids.Hash32{2}
	nonce := []byte("nonce")

	a := NewCeremonyID(prestate, op, nonce)
	b := NewCeremonyID(prestate, op, nonce)
	require.Equal(t, a, b)

	c := NewCeremonyID(prestate, op, []byte("different"))
	require.NotEqual(t, a, c)
}

func TestLifecycleA1ToA3(t *testing.T) {
	prestate := ids.Hash32{1}
	op := ids.Hash32{2}
	state := New(prestate, op, []byte("n"), 2)
	require.Equal(t, TierA1Provisional, state.Tier)

	ackSet := map[ids.AuthorityId]struct{}{{1}: {}, {2}: {}}
	state, err := AdvanceToConvergence(state, ids.ContextId{1}, ids.OperationId{1}, prestate, 1, ackSet, 10)
	require.NoError(t, err)
	require.Equal(t, TierA2CoordinatorSafe, state.Tier)
	require.NotNil(t, state.Convergence)

	resultID := ids.Hash32{0xAA}
	state = ApplyShare(state, consensus.ShareProposal{Witness: ids.AuthorityId{1}, ResultID: resultID, PrestateHash: prestate, Share: []byte{1}})
	state = ApplyShare(state, consensus.ShareProposal{Witness: ids.AuthorityId{2}, ResultID: resultID, PrestateHash: prestate, Share: []byte{2}})
	state = CheckThreshold(state)
	require.Equal(t, consensus.PhaseThresholdReached, state.Consensus.Phase)

	state.Consensus = consensus.Commit(state.Consensus, resultID)

	transcript := DkgTranscript{Epoch: 1, MembershipHash: ids.Hash32{3}, TranscriptHash: ids.Hash32{4}}
	state, err = CommitTranscript(state, transcript)
	require.NoError(t, err)
	require.Equal(t, TierA3ConsensusFinalized, state.Tier)
	require.Equal(t, transcript, *state.Transcript)
}

func TestAdvanceToConvergenceCoordEpochRollover(t *testing.T) {
	prestate := ids.Hash32{1}
	state := New(prestate, ids.Hash32{2}, []byte("n"), 2)

	state, err := AdvanceToConvergence(state, ids.ContextId{1}, ids.OperationId{1}, prestate, 3, nil, 10)
	require.NoError(t, err)

	// Re-observing the same coordinator epoch is an idempotent no-op.
	state, err = AdvanceToConvergence(state, ids.ContextId{1}, ids.OperationId{1}, prestate, 3, nil, 10)
	require.NoError(t, err)

	// A coordinator epoch advance after the cert was issued diverges the
	// ceremony instead of silently continuing.
	_, err = AdvanceToConvergence(state, ids.ContextId{1}, ids.OperationId{1}, prestate, 4, nil, 10)
	require.ErrorIs(t, err, aurerr.ErrPrestateDiverged)
}

func TestAdvanceToConvergencePrestateMismatch(t *testing.T) {
	state := New(ids.Hash32{1}, ids.Hash32{2}, []byte("n"), 2)
	_, err := AdvanceToConvergence(state, ids.ContextId{1}, ids.OperationId{1}, ids.Hash32{9}, 1, nil, 10)
	require.Error(t, err)
}

func TestCommitTranscriptRequiresConsensusCommit(t *testing.T) {
	state := New(ids.Hash32{1}, ids.Hash32{2}, []byte("n"), 2)
	_, err := CommitTranscript(state, DkgTranscript{})
	require.Error(t, err)
}

func TestRevertUndoesA2ButNotA3(t *testing.T) {
	prestate := ids.Hash32{1}
	state := New(prestate, ids.Hash32{2}, []byte("n"), 2)
	state, err := AdvanceToConvergence(state, ids.ContextId{1}, ids.OperationId{1}, prestate, 1, nil, 10)
	require.NoError(t, err)

	state, err = Revert(state)
	require.NoError(t, err)
	require.Equal(t, TierA1Provisional, state.Tier)
	require.Nil(t, state.Convergence)
	require.True(t, state.Reverted)

	// A reverted ceremony must not silently re-converge.
	_, err = AdvanceToConvergence(state, ids.ContextId{1}, ids.OperationId{1}, prestate, 1, nil, 10)
	require.Error(t, err)
}

func TestResolveCeremonyOrderDeterministic(t *testing.T) {
	var lo, hi [32]byte
	hi[0] = 0xFF
	a := ids.CeremonyId{1}
	b := ids.CeremonyId{2}

	require.Equal(t, a, ResolveCeremonyOrder(lo, a, hi, b))
	require.Equal(t, a, ResolveCeremonyOrder(lo, a, hi, b))
	require.Equal(t, ResolveCeremonyOrder(lo, a, lo, b), ResolveCeremonyOrder(lo, a, lo, b), "ties must resolve the same way every time")
}

// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aura-net/aura/ids"
)

func witness(b byte) ids.AuthorityId { return ids.AuthorityId{b} }

func TestApplyShareAccumulatesConsistentProposals(t *testing.T) {
	state := New(ids.Hash32{1})
	result := ids.Hash32{0xAA}
	prestate := ids.Hash32{0xBB}

	state = ApplyShare(state, ShareProposal{Witness: witness(1), ResultID: result, PrestateHash: prestate, Share: []byte{1}})
	state = ApplyShare(state, ShareProposal{Witness: witness(2), ResultID: result, PrestateHash: prestate, Share: []byte{2}})

	require.Len(t, state.Proposals, 2)
	require.Empty(t, state.Equivocators)
	require.Equal(t, PhaseCollecting, state.Phase)
}

func TestApplyShareDetectsEquivocation(t *testing.T) {
	state := New(ids.Hash32{1})
	w := witness(1)
	state = ApplyShare(state, ShareProposal{Witness: w, ResultID: ids.Hash32{1}, PrestateHash: ids.Hash32{9}, Share: []byte{1}})
	state = ApplyShare(state, ShareProposal{Witness: w, ResultID: ids.Hash32{2}, PrestateHash: ids.Hash32{9}, Share: []byte{2}})

	require.Empty(t, state.Proposals, "both conflicting proposals must be dropped")
	require.Contains(t, state.Equivocators, w)
}

func TestApplyShareDuplicateIsNoop(t *testing.T) {
	state := New(ids.Hash32{1})
	w := witness(1)
	p := ShareProposal{Witness: w, ResultID: ids.Hash32{1}, PrestateHash: ids.Hash32{9}, Share: []byte{1}}
	state = ApplyShare(state, p)
	state = ApplyShare(state, p)
	require.Len(t, state.Proposals, 1)
	require.Empty(t, state.Equivocators)
}

func TestCheckThresholdReachesQuorum(t *testing.T) {
	state := New(ids.Hash32{1})
	result := ids.Hash32{0xAA}
	prestate := ids.Hash32{0xBB}
	for i := byte(1); i <= 3; i++ {
		state = ApplyShare(state, ShareProposal{Witness: witness(i), ResultID: result, PrestateHash: prestate, Share: []byte{i}})
	}

	state = CheckThreshold(state, 3)
	require.Equal(t, PhaseThresholdReached, state.Phase)
	require.Equal(t, PathPrimary, state.Path.Kind)

	state = CheckThreshold(state, 10)
	require.Equal(t, PhaseThresholdReached, state.Phase, "CheckThreshold must never downgrade")
}

func TestScenarioE5EquivocationStillCommitsIfThresholdHolds(t *testing.T) {
	state := New(ids.Hash32{1})
	result := ids.Hash32{0xAA}
	prestate := ids.Hash32{0xBB}

	faulty := witness(9)
	state = ApplyShare(state, ShareProposal{Witness: faulty, ResultID: ids.Hash32{1}, PrestateHash: prestate, Share: []byte{1}})
	state = ApplyShare(state, ShareProposal{Witness: faulty, ResultID: ids.Hash32{2}, PrestateHash: prestate, Share: []byte{2}})
	require.Contains(t, state.Equivocators, faulty)

	for i := byte(1); i <= 3; i++ {
		state = ApplyShare(state, ShareProposal{Witness: witness(i), ResultID: result, PrestateHash: prestate, Share: []byte{i}})
	}

	state = CheckThreshold(state, 3)
	require.Equal(t, PhaseThresholdReached, state.Phase)

	state = Commit(state, result)
	require.Equal(t, PhaseCommitted, state.Phase)
	require.Equal(t, result, state.Commit.ResultID)

	require.NoError(t, CheckInvariants(state, nil))
}

func TestScenarioE5EquivocationBelowThresholdFails(t *testing.T) {
	state := New(ids.Hash32{1})
	result := ids.Hash32{0xAA}
	prestate := ids.Hash32{0xBB}

	faulty := witness(9)
	state = ApplyShare(state, ShareProposal{Witness: faulty, ResultID: ids.Hash32{1}, PrestateHash: prestate, Share: []byte{1}})
	state = ApplyShare(state, ShareProposal{Witness: faulty, ResultID: ids.Hash32{2}, PrestateHash: prestate, Share: []byte{2}})

	state = ApplyShare(state, ShareProposal{Witness: witness(1), ResultID: result, PrestateHash: prestate, Share: []byte{1}})

	state = CheckThreshold(state, 2)
	require.Equal(t, PhaseCollecting, state.Phase)

	state = FailConsensus(state)
	require.Equal(t, PhaseFailed, state.Phase)
}

func TestTerminalPhaseIsImmutableToFurtherShares(t *testing.T) {
	state := New(ids.Hash32{1})
	state = Commit(state, ids.Hash32{1})
	before := state

	state = ApplyShare(state, ShareProposal{Witness: witness(1), ResultID: ids.Hash32{2}})
	require.Equal(t, before.Phase, state.Phase)
	require.Equal(t, before.Commit, state.Commit)

	state2 := FailConsensus(state)
	require.Equal(t, PhaseCommitted, state2.Phase, "FailConsensus must never override an existing Committed state")
}

func TestMergeUnionsProposalsAndEquivocators(t *testing.T) {
	a := New(ids.Hash32{1})
	a = ApplyShare(a, ShareProposal{Witness: witness(1), ResultID: ids.Hash32{1}, PrestateHash: ids.Hash32{9}, Share: []byte{1}})

	b := New(ids.Hash32{1})
	b = ApplyShare(b, ShareProposal{Witness: witness(2), ResultID: ids.Hash32{1}, PrestateHash: ids.Hash32{9}, Share: []byte{2}})

	merged := Merge(a, b)
	require.Len(t, merged.Proposals, 2)

	reverse := Merge(b, a)
	require.Len(t, reverse.Proposals, 2)
}

func TestMergeDetectsConflictAsEquivocation(t *testing.T) {
	w := witness(1)
	a := New(ids.Hash32{1})
	a = ApplyShare(a, ShareProposal{Witness: w, ResultID: ids.Hash32{1}, PrestateHash: ids.Hash32{9}, Share: []byte{1}})

	b := New(ids.Hash32{1})
	b = ApplyShare(b, ShareProposal{Witness: w, ResultID: ids.Hash32{2}, PrestateHash: ids.Hash32{9}, Share: []byte{2}})

	merged := Merge(a, b)
	require.Contains(t, merged.Equivocators, w)
	require.NotContains(t, merged.Proposals, w)
}

func TestMergePhaseTakesMax(t *testing.T) {
	a := New(ids.Hash32{1})
	b := TriggerFallback(New(ids.Hash32{1}))

	merged := Merge(a, b)
	require.Equal(t, PhaseFallbackTriggered, merged.Phase)
}

func TestCheckInvariantsFlagsDivergentCommits(t *testing.T) {
	committed := Commit(New(ids.Hash32{1}), ids.Hash32{1})
	prior := &CommitFact{ConsensusID: ids.Hash32{1}, ResultID: ids.Hash32{2}}
	require.Error(t, CheckInvariants(committed, prior))
}

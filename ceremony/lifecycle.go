// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package ceremony

import (
	"bytes"
	"fmt"

	"github.com/aura-net/aura/auratime"
	"github.com/aura-net/aura/consensus"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
)

// ApplyShare folds one witness's share proposal into the ceremony's
// embedded consensus core.
func ApplyShare(state State, proposal consensus.ShareProposal) State {
	state.Consensus = consensus.ApplyShare(state.Consensus, proposal)
	return state
}

// CheckThreshold advances the embedded consensus core toward
// ThresholdReached; it does not by itself advance the ceremony's Tier —
// that happens explicitly via AdvanceToConvergence/CommitTranscript once
// the caller (the runtime composing this package) has gathered the
// corresponding tier-specific evidence.
func CheckThreshold(state State) State {
	state.Consensus = consensus.CheckThreshold(state.Consensus, state.Threshold)
	return state
}

// AdvanceToConvergence produces the A2 ConvergenceCert once a quorum of
// acknowledgments (ackSet) has landed within window, fencing the ceremony
// at coordEpoch. Fails with PrestateDiverged if the
// ceremony's bound prestate does not match prestate.
func AdvanceToConvergence(state State, context ids.ContextId, opID ids.OperationId, prestate ids.Hash32, coordEpoch uint64, ackSet map[ids.AuthorityId]struct{}, window uint32) (State, error) {
	if state.Reverted {
		return state, fmt.Errorf("%w: ceremony was reverted from A2", aurerr.ErrPrestateDiverged)
	}
	if !bytes.Equal(prestate.Bytes(), state.PrestateHash.Bytes()) {
		return state, fmt.Errorf("%w: convergence prestate does not match ceremony prestate", aurerr.ErrPrestateDiverged)
	}
	if state.Tier >= TierA2CoordinatorSafe {
		// A coordinator-epoch advance observed after the cert was issued
		// means the coordinator rolled over mid-ceremony; the soft-safe
		// cert no longer describes a live coordinator, so the ceremony
		// diverges rather than silently continuing.
		if state.Convergence != nil && coordEpoch != state.Convergence.CoordEpoch {
			return state, fmt.Errorf("%w: coordinator epoch moved from %d to %d mid-ceremony", aurerr.ErrPrestateDiverged, state.Convergence.CoordEpoch, coordEpoch)
		}
		return state, nil
	}
	ackCopy := make(map[ids.AuthorityId]struct{}, len(ackSet))
	for a := range ackSet {
		ackCopy[a] = struct{}{}
	}
	state.Tier = TierA2CoordinatorSafe
	state.Convergence = &ConvergenceCert{
		Context:    context,
		OpID:       opID,
		Prestate:   prestate,
		CoordEpoch: coordEpoch,
		AckSet:     ackCopy,
		Window:     window,
	}
	return state, nil
}

// Revert undoes an A2 ConvergenceCert via an explicit ReversionFact, the
// only sanctioned way to undo A2. A ceremony already at A3
// cannot be reverted — consensus finalization is final.
func Revert(state State) (State, error) {
	if state.Tier == TierA3ConsensusFinalized {
		return state, fmt.Errorf("%w: cannot revert a consensus-finalized ceremony", aurerr.ErrInvariantBroken)
	}
	state.Tier = TierA1Provisional
	state.Convergence = nil
	state.Reverted = true
	return state, nil
}

// CommitTranscript finalizes the ceremony at A3 once the consensus core has
// committed a result and a BFT-DKG transcript is available.
// Fails with ThresholdNotMet if the embedded consensus core has not yet
// reached Committed.
func CommitTranscript(state State, transcript DkgTranscript) (State, error) {
	if state.Consensus.Phase != consensus.PhaseCommitted {
		return state, fmt.Errorf("%w: consensus core has not committed", aurerr.ErrThresholdNotMet)
	}
	state.Tier = TierA3ConsensusFinalized
	state.Transcript = &transcript
	return state, nil
}

// ResolveCeremonyOrder decides which of two ceremonies sharing a prestate
// but proposing different ops wins: ordered
// deterministically by (OrderTime, CeremonyId), loser superseded. Returns
// the winning CeremonyId; the caller records a CeremonySuperseded fact for
// the other.
func ResolveCeremonyOrder(aOrder auratime.OrderTime, aID ids.CeremonyId, bOrder auratime.OrderTime, bID ids.CeremonyId) ids.CeremonyId {
	if auratime.Less(aOrder, bOrder) {
		return aID
	}
	if auratime.Less(bOrder, aOrder) {
		return bID
	}
	if bytes.Compare(aID[:], bID[:]) <= 0 {
		return aID
	}
	return bID
}

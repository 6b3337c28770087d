// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package consensus implements the pure, effect-free share-proposal
// agreement state machine within a threshold ceremony. Every
// transition here takes a ConsensusState and returns a new one; nothing in
// this package touches storage, the network, or the clock, so every
// transition is directly checkable against reference traces.
package consensus

import (
	"bytes"

	"github.com/aura-net/aura/ids"
)

// Phase is ConsensusState's lifecycle position, totally (pre-)ordered as
// Collecting < ThresholdReached < FallbackTriggered < Committed ≡ Failed
//: Committed and Failed share the terminal rank since both
// are terminal outcomes a CRDT merge treats as equally far along, and
// further along than every other phase, even though they are distinct states.
type Phase uint8

const (
	PhaseCollecting Phase = iota
	PhaseThresholdReached
	PhaseFallbackTriggered
	PhaseCommitted
	PhaseFailed
)

// rank gives Phase's position in the merge total order; Committed and
// Failed both rank 3.
func (p Phase) rank() int {
	switch p {
	case PhaseCollecting:
		return 0
	case PhaseThresholdReached:
		return 1
	case PhaseFallbackTriggered:
		return 2
	default: // PhaseCommitted, PhaseFailed
		return 3
	}
}

// String renders the phase name for diagnostics.
func (p Phase) String() string {
	switch p {
	case PhaseCollecting:
		return "Collecting"
	case PhaseThresholdReached:
		return "ThresholdReached"
	case PhaseFallbackTriggered:
		return "FallbackTriggered"
	case PhaseCommitted:
		return "Committed"
	case PhaseFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// ShareProposal is one witness's contribution toward a ceremony result.
type ShareProposal struct {
	Witness      ids.AuthorityId
	ResultID     ids.Hash32
	PrestateHash ids.Hash32
	Share        []byte
}

func (p ShareProposal) sameContent(o ShareProposal) bool {
	return p.ResultID == o.ResultID && p.PrestateHash == o.PrestateHash && bytes.Equal(p.Share, o.Share)
}

// PathKind records which finalization path a ceremony took once decided.
type PathKind uint8

const (
	PathUndetermined PathKind = iota
	PathPrimary
	PathFallback
)

// PathSelection names the chosen path, once ThresholdReached or
// FallbackTriggered decides it.
type PathSelection struct {
	Kind PathKind
}

// CommitFact is the terminal commit evidence,
// present once Phase reaches Committed.
type CommitFact struct {
	ConsensusID ids.Hash32
	ResultID    ids.Hash32
}

// ConsensusState is the full state of one ceremony's share-proposal
// agreement. The zero value is not valid; construct with
// New.
type ConsensusState struct {
	ConsensusID  ids.Hash32
	Phase        Phase
	Proposals    map[ids.AuthorityId]ShareProposal
	Equivocators map[ids.AuthorityId]struct{}
	Commit       *CommitFact
	Path         PathSelection
}

// New constructs an empty ConsensusState in PhaseCollecting for the given
// consensus id (typically a CeremonyId's Hash32 form).
func New(consensusID ids.Hash32) ConsensusState {
	return ConsensusState{
		ConsensusID:  consensusID,
		Phase:        PhaseCollecting,
		Proposals:    make(map[ids.AuthorityId]ShareProposal),
		Equivocators: make(map[ids.AuthorityId]struct{}),
	}
}

func (s ConsensusState) clone() ConsensusState {
	out := ConsensusState{
		ConsensusID:  s.ConsensusID,
		Phase:        s.Phase,
		Proposals:    make(map[ids.AuthorityId]ShareProposal, len(s.Proposals)),
		Equivocators: make(map[ids.AuthorityId]struct{}, len(s.Equivocators)),
		Path:         s.Path,
	}
	for k, v := range s.Proposals {
		out.Proposals[k] = v
	}
	for k := range s.Equivocators {
		out.Equivocators[k] = struct{}{}
	}
	if s.Commit != nil {
		c := *s.Commit
		out.Commit = &c
	}
	return out
}

// ApplyShare folds one witness's proposal into state: a
// fresh or matching-content proposal from a non-equivocator witness is
// recorded; a conflicting proposal for a witness that already has one
// evicts both and marks the witness an Equivocator. Terminal states
// (Committed/Failed) are immutable: ApplyShare is a no-op once reached.
func ApplyShare(state ConsensusState, proposal ShareProposal) ConsensusState {
	if state.Phase.rank() >= PhaseCommitted.rank() {
		return state
	}
	next := state.clone()
	if _, equivocator := next.Equivocators[proposal.Witness]; equivocator {
		return next
	}
	if existing, ok := next.Proposals[proposal.Witness]; ok {
		if existing.sameContent(proposal) {
			return next
		}
		delete(next.Proposals, proposal.Witness)
		next.Equivocators[proposal.Witness] = struct{}{}
		return next
	}
	next.Proposals[proposal.Witness] = proposal
	return next
}

// consistentGroups partitions active (non-equivocator) proposals by their
// (ResultID, PrestateHash) pair, since a "consistent proposal set" is one
// agreeing on the result being proposed.
func consistentGroups(state ConsensusState) map[[2]ids.Hash32][]ids.AuthorityId {
	groups := make(map[[2]ids.Hash32][]ids.AuthorityId)
	for witness, p := range state.Proposals {
		key := [2]ids.Hash32{p.ResultID, p.PrestateHash}
		groups[key] = append(groups[key], witness)
	}
	return groups
}

// CheckThreshold reports whether the largest consistent proposal group
// meets threshold and, if so, advances Phase to ThresholdReached along with
// PathPrimary. It never downgrades an
// already-further-along phase.
func CheckThreshold(state ConsensusState, threshold int) ConsensusState {
	if state.Phase.rank() >= PhaseThresholdReached.rank() {
		return state
	}
	best := 0
	for _, witnesses := range consistentGroups(state) {
		if len(witnesses) > best {
			best = len(witnesses)
		}
	}
	if best < threshold {
		return state
	}
	next := state.clone()
	next.Phase = PhaseThresholdReached
	next.Path = PathSelection{Kind: PathPrimary}
	return next
}

// TriggerFallback forces FallbackTriggered when progress stalls within the
// ceremony's window. A no-op once a
// terminal phase is reached.
func TriggerFallback(state ConsensusState) ConsensusState {
	if state.Phase.rank() >= PhaseFallbackTriggered.rank() {
		return state
	}
	next := state.clone()
	next.Phase = PhaseFallbackTriggered
	next.Path = PathSelection{Kind: PathFallback}
	return next
}

// Commit finalizes state as Committed with resultID once the caller (the
// ceremony runtime, after verifying the aggregated signature) is satisfied
// a result is final. A no-op if already terminal.
func Commit(state ConsensusState, resultID ids.Hash32) ConsensusState {
	if state.Phase.rank() >= PhaseCommitted.rank() {
		return state
	}
	next := state.clone()
	next.Phase = PhaseCommitted
	next.Commit = &CommitFact{ConsensusID: state.ConsensusID, ResultID: resultID}
	return next
}

// FailConsensus terminates state as Failed. A no-op if already Committed,
// preserving the Agreement invariant that a consensus id never loses a commit
// once reached.
func FailConsensus(state ConsensusState) ConsensusState {
	if state.Phase == PhaseCommitted {
		return state
	}
	next := state.clone()
	next.Phase = PhaseFailed
	return next
}

// Merge joins two views of the same consensus id as a CRDT: union of
// proposals, union of equivocators, and the phase of higher rank. When both
// sides are independently terminal with distinct commits, the Agreement
// invariant has already been violated upstream; Merge resolves the tie
// deterministically by keeping the smaller ResultID so replicas converge, and
// callers should surface CheckInvariants's error regardless.
func Merge(a, b ConsensusState) ConsensusState {
	out := a.clone()
	for witness, p := range b.Proposals {
		if _, isEquivocator := out.Equivocators[witness]; isEquivocator {
			continue
		}
		if existing, ok := out.Proposals[witness]; ok {
			if !existing.sameContent(p) {
				delete(out.Proposals, witness)
				out.Equivocators[witness] = struct{}{}
			}
			continue
		}
		out.Proposals[witness] = p
	}
	for witness := range b.Equivocators {
		delete(out.Proposals, witness)
		out.Equivocators[witness] = struct{}{}
	}

	if b.Phase.rank() > out.Phase.rank() {
		out.Phase = b.Phase
		out.Path = b.Path
		out.Commit = cloneCommit(b.Commit)
	} else if b.Phase.rank() == out.Phase.rank() && out.Phase.rank() == PhaseCommitted.rank() {
		out.Commit = reconcileCommit(out.Commit, b.Commit)
		if out.Commit != nil {
			out.Phase = PhaseCommitted
		}
	}
	return out
}

func cloneCommit(c *CommitFact) *CommitFact {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// reconcileCommit picks a deterministic winner when merging two terminal
// sides: Committed (non-nil commit) beats Failed (nil commit); between two
// distinct commits, the smaller ResultID wins so every replica converges on
// the same answer even though that answer signals an upstream Agreement
// violation the caller must still detect via CheckInvariants.
func reconcileCommit(a, b *CommitFact) *CommitFact {
	switch {
	case a == nil:
		return cloneCommit(b)
	case b == nil:
		return cloneCommit(a)
	case bytes.Compare(a.ResultID.Bytes(), b.ResultID.Bytes()) <= 0:
		return cloneCommit(a)
	default:
		return cloneCommit(b)
	}
}

// Invariant violations CheckInvariants can report.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string { return "consensus: invariant violated: " + e.Reason }

// CheckInvariants enforces the state machine's three invariants: Agreement (no
// two Committed states for this consensus id with different result ids —
// checked by comparing state against a prior observed commit, since a
// single ConsensusState only ever carries one), Validity (every witness
// with an active proposal actually has one recorded), and
// Equivocation-soundness (every equivocator has no active proposal, since
// ApplyShare/Merge always evict on conflict).
func CheckInvariants(state ConsensusState, priorCommit *CommitFact) error {
	if state.Commit != nil && priorCommit != nil && state.Commit.ConsensusID == priorCommit.ConsensusID && state.Commit.ResultID != priorCommit.ResultID {
		return &InvariantViolation{Reason: "two distinct committed result ids for the same consensus id"}
	}
	for witness := range state.Equivocators {
		if _, stillActive := state.Proposals[witness]; stillActive {
			return &InvariantViolation{Reason: "equivocator " + witness.String() + " still has an active proposal"}
		}
	}
	return nil
}

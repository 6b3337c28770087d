// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ceremony implements Aura's threshold ceremony runtime:
// prestate-bound FROST DKG, signing, and reshare, coordinated through a
// three-tier finalization lifecycle (A1 Provisional, A2 Coordinator-safe, A3
// Consensus-finalized). It composes package consensus (the pure share-proposal
// state machine) with package auracrypto's FROST primitives; each tier layers
// its evidence over the last rather than replacing it.
package ceremony

import (
	"github.com/aura-net/aura/auracrypto"
	"github.com/aura-net/aura/auratime"
	"github.com/aura-net/aura/consensus"
	"github.com/aura-net/aura/ids"
)

// Tier is a ceremony's finalization milestone. Tiers only
// advance, never regress, except via an explicit ReversionFact undoing A2.
type Tier uint8

const (
	TierA1Provisional Tier = iota
	TierA2CoordinatorSafe
	TierA3ConsensusFinalized
)

func (t Tier) String() string {
	switch t {
	case TierA1Provisional:
		return "A1Provisional"
	case TierA2CoordinatorSafe:
		return "A2CoordinatorSafe"
	case TierA3ConsensusFinalized:
		return "A3ConsensusFinalized"
	default:
		return "Unknown"
	}
}

// NewCeremonyID binds a ceremony to its prestate and proposed operation:
// CeremonyId = Blake3("aura/ceremony" || prestate_hash || op_hash ||
// nonce). Two calls with identical inputs yield the same id,
// making replay detection and same-ceremony recognition free.
func NewCeremonyID(prestateHash, opHash ids.Hash32, nonce []byte) ids.CeremonyId {
	h := auracrypto.Hash("aura/ceremony", prestateHash.Bytes(), opHash.Bytes(), nonce)
	return ids.CeremonyId(h)
}

// ConvergenceCert is produced at the A2 tier once a quorum of
// acknowledgments lands within a window. Only an explicit
// ReversionFact may undo it.
type ConvergenceCert struct {
	Context    ids.ContextId
	OpID       ids.OperationId
	Prestate   ids.Hash32
	CoordEpoch uint64
	AckSet     map[ids.AuthorityId]struct{}
	Window     uint32
}

// DkgTranscript is the BFT-DKG evidence committed at the A3 tier: every
// dealer's package plus the transcript hash signers co-signed, from which
// shares are recoverable.
type DkgTranscript struct {
	Epoch          uint64
	MembershipHash ids.Hash32
	Cutoff         auratime.OrderTime
	Packages       []auracrypto.DealerPackage
	TranscriptHash ids.Hash32
}

// State is one ceremony instance's full runtime state: its tier, the
// embedded pure consensus core tracking share agreement, and whichever
// tier-specific evidence has been produced so far.
type State struct {
	CeremonyID   ids.CeremonyId
	PrestateHash ids.Hash32
	OpHash       ids.Hash32
	Threshold    int
	Tier         Tier
	Consensus    consensus.ConsensusState
	Convergence  *ConvergenceCert
	Transcript   *DkgTranscript
	Reverted     bool
}

// New constructs a fresh ceremony at tier A1, bound to prestateHash and
// opHash, requiring threshold signers to finalize.
func New(prestateHash, opHash ids.Hash32, nonce []byte, threshold int) State {
	id := NewCeremonyID(prestateHash, opHash, nonce)
	return State{
		CeremonyID:   id,
		PrestateHash: prestateHash,
		OpHash:       opHash,
		Threshold:    threshold,
		Tier:         TierA1Provisional,
		Consensus:    consensus.New(ids.Hash32(id)),
	}
}

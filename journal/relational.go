// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package journal

import (
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/tree"
)

// Protocol-level relational facts: facts that participate directly in
// reduction and therefore belong to the journal's closed set, as opposed
// to Generic domain facts.

// AttestedOpFact carries a commitment-tree mutation into the journal; the
// OR-set of these, reduced via package tree, yields TreeState (glossary
// "OpLog").
type AttestedOpFact struct {
	Op tree.AttestedOp
}

func (AttestedOpFact) relationalFactMarker() {}
func (AttestedOpFact) Kind() string { return "attested_op" }

// ContactFormed is emitted reciprocally into both parties' journals when an
// invitation is accepted.
type ContactFormed struct {
	A, B     ids.AuthorityId
	Nickname string
}

func (ContactFormed) relationalFactMarker() {}
func (ContactFormed) Kind() string { return "contact_formed" }

// GuardianBinding establishes a guardian relationship for an account.
type GuardianBinding struct {
	AccountID   ids.AccountId
	GuardianID  ids.GuardianId
	BindingHash ids.Hash32
}

func (GuardianBinding) relationalFactMarker() {}
func (GuardianBinding) Kind() string { return "guardian_binding" }

// RecoveryGrant is a guardian's signed approval of a recovery request bound
// to a prestate.
type RecoveryGrant struct {
	AccountID  ids.AccountId
	GuardianID ids.GuardianId
	Prestate   ids.Hash32
	GrantHash  ids.Hash32
}

func (RecoveryGrant) relationalFactMarker() {}
func (RecoveryGrant) Kind() string { return "recovery_grant" }

// RecoveryCommit finalizes an M-of-N recovery once the threshold of grants
// is reached.
type RecoveryCommit struct {
	AccountID ids.AccountId
	Prestate  ids.Hash32
}

func (RecoveryCommit) relationalFactMarker() {}
func (RecoveryCommit) Kind() string { return "recovery_commit" }

// CeremonyCommitted records a threshold ceremony's Committed outcome.
type CeremonyCommitted struct {
	CeremonyID ids.CeremonyId
	ResultID   ids.Hash32
}

func (CeremonyCommitted) relationalFactMarker() {}
func (CeremonyCommitted) Kind() string { return "ceremony_committed" }

// CeremonyAborted records a ceremony's terminal Aborted outcome.
type CeremonyAborted struct {
	CeremonyID ids.CeremonyId
	Reason     string
}

func (CeremonyAborted) relationalFactMarker() {}
func (CeremonyAborted) Kind() string { return "ceremony_aborted" }

// CeremonySuperseded records that, among two ceremonies sharing a prestate
// but disagreeing on op, this one lost the deterministic ordering.
type CeremonySuperseded struct {
	CeremonyID ids.CeremonyId
	WinningID  ids.CeremonyId
}

func (CeremonySuperseded) relationalFactMarker() {}
func (CeremonySuperseded) Kind() string { return "ceremony_superseded" }

// EquivocationEvidence records a signer who submitted two distinct shares
// for the same (ceremony, round).
type EquivocationEvidence struct {
	CeremonyID ids.CeremonyId
	Round      uint32
	Signer     ids.AuthorityId
	ShareHashA ids.Hash32
	ShareHashB ids.Hash32
}

func (EquivocationEvidence) relationalFactMarker() {}
func (EquivocationEvidence) Kind() string { return "equivocation_evidence" }

// ChannelPolicy carries per-channel overrides (skip window, etc).
type ChannelPolicy struct {
	Channel    ids.ChannelId
	SkipWindow uint32
}

func (ChannelPolicy) relationalFactMarker() {}
func (ChannelPolicy) Kind() string { return "amp_channel_policy" }

// ProposedChannelEpochBump is the optimistic (pre-consensus) proposal to
// advance a channel's epoch.
type ProposedChannelEpochBump struct {
	Channel     ids.ChannelId
	FromEpoch   uint64
	ToEpoch     uint64
	Proposer    ids.AuthorityId
	ProposalRef ids.Hash32
}

func (ProposedChannelEpochBump) relationalFactMarker() {}
func (ProposedChannelEpochBump) Kind() string { return "amp_proposed_epoch_bump" }

// CommittedChannelEpochBump is the consensus-finalized epoch advance; only
// this variant changes the ratchet.
type CommittedChannelEpochBump struct {
	Channel      ids.ChannelId
	Epoch        uint64
	CkCommitment ids.Hash32
	WinningRef   ids.Hash32
}

func (CommittedChannelEpochBump) relationalFactMarker() {}
func (CommittedChannelEpochBump) Kind() string { return "amp_committed_epoch_bump" }

// LeakageEvent accounts for privacy-budget consumption when an operation is
// observable at a given visibility tier.
type LeakageEvent struct {
	Authority  ids.AuthorityId
	Visibility string // Self | Peer | Neighbor | External
	Cost       uint64
}

func (LeakageEvent) relationalFactMarker() {}
func (LeakageEvent) Kind() string { return "leakage_event" }

// FlowReceipt is a hash-chained charge receipt: an auditable chain rather
// than a bare charge/deny boolean.
type FlowReceipt struct {
	Context         ids.ContextId
	From, To        ids.AuthorityId
	Epoch           uint64
	Cost            uint64
	Spent           uint64
	PrevReceiptHash ids.Hash32
}

func (FlowReceipt) relationalFactMarker() {}
func (FlowReceipt) Kind() string { return "flow_receipt" }

// OtaReadiness records a device's readiness reply to a proposed OTA
// activation.
type OtaReadiness struct {
	Version string
	Device  ids.DeviceId
	Ready   bool
}

func (OtaReadiness) relationalFactMarker() {}
func (OtaReadiness) Kind() string { return "ota_readiness" }

// OtaActivationCommitted finalizes a HardFork activation once M-of-N
// readiness is reached; its Epoch is a barrier for subsequent mutations.
type OtaActivationCommitted struct {
	Version string
	Epoch   uint64
}

func (OtaActivationCommitted) relationalFactMarker() {}
func (OtaActivationCommitted) Kind() string { return "ota_activation_committed" }

// SnapshotCommitted records a quorum-signed GC cut.
type SnapshotCommitted struct {
	CutOrder   ids.Hash32 // OrderTime of the cut, content-hashed for storage
	MerkleRoot ids.Hash32
}

func (SnapshotCommitted) relationalFactMarker() {}
func (SnapshotCommitted) Kind() string { return "snapshot_committed" }

// ConvergenceCertIssued records a ceremony's A2 Coordinator-safe milestone
//: a quorum of acknowledgments within a window, short of
// full BFT-DKG finalization.
type ConvergenceCertIssued struct {
	CeremonyID ids.CeremonyId
	Context    ids.ContextId
	OpID       ids.OperationId
	Prestate   ids.Hash32
	CoordEpoch uint64
	AckSet     []ids.AuthorityId
	Window     uint32
}

func (ConvergenceCertIssued) relationalFactMarker() {}
func (ConvergenceCertIssued) Kind() string { return "convergence_cert_issued" }

// ReversionFact is the sole explicit mechanism that may undo an A2
// Coordinator-safe milestone.
type ReversionFact struct {
	CeremonyID ids.CeremonyId
	Reason     string
}

func (ReversionFact) relationalFactMarker() {}
func (ReversionFact) Kind() string { return "reversion" }

// DkgTranscriptCommit finalizes a ceremony's A3 Consensus-finalized tier
//: a BFT-DKG transcript committed such that shares are
// recoverable from it.
type DkgTranscriptCommit struct {
	CeremonyID     ids.CeremonyId
	Epoch          uint64
	MembershipHash ids.Hash32
	TranscriptHash ids.Hash32
}

func (DkgTranscriptCommit) relationalFactMarker() {}
func (DkgTranscriptCommit) Kind() string { return "dkg_transcript_commit" }

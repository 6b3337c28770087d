// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package guard implements the ordered guard chain every state-mutating
// operation and network send passes through: CapGuard →
// FlowGuard → LeakGuard → JournalCoupler → Transport. The chain itself is a
// pure function from a GuardSnapshot to a GuardOutcome; an executor outside
// this package (package runtime) performs the resulting EffectCommands.
package guard

import (
	"github.com/aura-net/aura/auratime"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/journal"
)

// AuthorizationOp names the action a capability token is checked against,
// e.g. "invitation:send".
type AuthorizationOp string

// ResourceScope names the resource an AuthorizationOp targets, e.g. a
// ContextId or ChannelId rendered as a scope string.
type ResourceScope string

// Visibility is the privacy-leakage annotation an operation carries
//: who can observe that the operation happened.
type Visibility uint8

const (
	VisibilitySelf Visibility = iota
	VisibilityPeer
	VisibilityNeighbor
	VisibilityExternal
)

// FlowHint is what FlowGuard charges against a FlowBudget.
type FlowHint struct {
	Context ids.ContextId
	Peer    ids.AuthorityId
	Cost    uint64
}

// GuardSnapshot is the pure input to the guard chain: a
// read-only view of authorization, budget, and timing state, assembled by
// the caller before invoking Evaluate.
type GuardSnapshot struct {
	Authority    ids.AuthorityId
	Context      ids.ContextId
	Now          auratime.PhysicalClock
	Order        auratime.OrderTime // obtained from OrderClockEffects before Evaluate, so the chain itself stays pure
	Capabilities CapabilitySet
	FlowUsed     uint64
	FlowLimit    uint64
	LeakBudget   uint64
	LeakCost     map[Visibility]uint64
}

// Decision is the guard chain's terminal verdict.
type Decision struct {
	Allowed bool
	Reason  error
}

// Allow constructs an affirmative Decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny constructs a negative Decision carrying the failing guard's error.
func Deny(reason error) Decision { return Decision{Allowed: false, Reason: reason} }

// EffectCommand is the closed set of side effects the guard chain may request
// once a request clears every guard. An executor outside this package performs
// these; the guard chain itself never touches effects.NetworkEffects or
// effects.StorageEffects directly.
type EffectCommand interface {
	effectCommandMarker()
}

// EmitFactCommand asks the executor to merge a fact into the journal.
type EmitFactCommand struct {
	Fact journal.Fact
}

func (EmitFactCommand) effectCommandMarker() {}

// SendCommand asks the executor to perform a network send, only ever
// produced after JournalCoupler succeeds.
type SendCommand struct {
	Peer    ids.AuthorityId
	Payload []byte
}

func (SendCommand) effectCommandMarker() {}

// IssueReceiptCommand asks the executor to persist a FlowGuard receipt.
type IssueReceiptCommand struct {
	Receipt journal.FlowReceipt
}

func (IssueReceiptCommand) effectCommandMarker() {}

// GuardOutcome is the guard chain's full pure result.
type GuardOutcome struct {
	Decision Decision
	Effects  []EffectCommand
}

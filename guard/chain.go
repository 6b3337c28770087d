// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package guard

import (
	"github.com/aura-net/aura/auratime"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/journal"
)

// Request bundles everything a caller must supply to Evaluate: the
// capability/resource the operation needs, its flow charge, its privacy
// visibility, and the delta facts/send it wants to perform if every guard
// allows it. Request is the pure input the whole chain
// folds over in one pass.
type Request struct {
	Op              AuthorizationOp
	Scope           ResourceScope
	Flow            FlowHint
	FlowEpoch       uint64
	PrevReceiptHash ids.Hash32
	Visibility      Visibility
	DeltaFacts      []journal.Fact
	SendPeer        ids.AuthorityId
	SendPayload     []byte
}

// Evaluate runs the full ordered guard chain — CapGuard, FlowGuard,
// LeakGuard, JournalCoupler, Transport — as a single pure
// function from (snapshot, req) to GuardOutcome. The first guard to deny
// short-circuits the rest; no EffectCommand is ever produced for a denied
// request, so a caller can never accidentally send without having charged.
func Evaluate(snapshot GuardSnapshot, req Request) GuardOutcome {
	if d := CapGuard(snapshot, req.Op, req.Scope); !d.Allowed {
		return GuardOutcome{Decision: d}
	}

	flowDecision, receipt := FlowGuard(snapshot, req.Flow, req.FlowEpoch, req.PrevReceiptHash)
	if !flowDecision.Allowed {
		return GuardOutcome{Decision: flowDecision}
	}

	leakDecision, leakage := LeakGuard(snapshot, req.Visibility)
	if !leakDecision.Allowed {
		return GuardOutcome{Decision: leakDecision}
	}

	ts := auratime.NewOrder(snapshot.Order)
	effectsCmds := JournalCoupler(snapshot.Order, ts, req.DeltaFacts, receipt, leakage)

	if len(req.SendPayload) > 0 || !req.SendPeer.IsEmpty() {
		effectsCmds = append(effectsCmds, SendCommand{Peer: req.SendPeer, Payload: req.SendPayload})
	}

	return GuardOutcome{Decision: Allow(), Effects: effectsCmds}
}

// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package guard

import (
	"github.com/aura-net/aura/auratime"
	"github.com/aura-net/aura/journal"
)

// JournalCoupler is the guard chain's fourth stage: it sequences the delta
// facts an operation produces, plus any receipt FlowGuard issued and any
// LeakGuard accounting event, ahead of the eventual transport send in the
// returned EffectCommand list. JournalCoupler itself never touches the journal
// — it is pure, like every other guard — it only fixes the order the executor
// (package runtime) must perform the resulting commands in: every
// EmitFactCommand here must be applied and merged successfully before the
// executor proceeds to any SendCommand appended after it, which is what makes
// "charge-before-send" a property of command ORDER rather than of
// JournalCoupler performing I/O itself. If the executor's merge of these facts
// fails, it must abort before running any subsequent SendCommand.
//
// order and ts stamp the receipt/leakage facts; both are obtained by the
// caller from OrderClockEffects/PhysicalTimeEffects before Evaluate runs,
// keeping this function itself free of suspension points. A malformed
// receipt/leakage payload cannot occur here (both are built internally
// from already-validated GuardSnapshot fields), so fact construction
// errors are not surfaced to callers.
func JournalCoupler(order auratime.OrderTime, ts auratime.TimeStamp, deltaFacts []journal.Fact, receipt *journal.FlowReceipt, leakage *journal.LeakageEvent) []EffectCommand {
	var cmds []EffectCommand
	for _, f := range deltaFacts {
		cmds = append(cmds, EmitFactCommand{Fact: f})
	}
	if receipt != nil {
		if f, err := journal.NewFact(order, ts, journal.FactContent{Relational: *receipt}, nil); err == nil {
			cmds = append(cmds, EmitFactCommand{Fact: f})
		}
		cmds = append(cmds, IssueReceiptCommand{Receipt: *receipt})
	}
	if leakage != nil {
		if f, err := journal.NewFact(order, ts, journal.FactContent{Relational: *leakage}, nil); err == nil {
			cmds = append(cmds, EmitFactCommand{Fact: f})
		}
	}
	return cmds
}

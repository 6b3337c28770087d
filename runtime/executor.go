// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"context"
	"fmt"

	"github.com/aura-net/aura/effects"
	"github.com/aura-net/aura/guard"
	"github.com/aura-net/aura/journal"
)

// Executor performs the EffectCommands an allowed guard-chain evaluation
// produced, strictly in command order (JournalCoupler puts the delta and
// receipt fact merges first, then the receipt apply, then the leakage fact
// merge, and the network send last). If a merge or the receipt apply
// fails, remaining commands — the send included — are abandoned, which is
// what turns the guard chain's command ordering into the runtime's
// charge-before-send guarantee.
type Executor struct {
	Journal *journal.Journal
	Flow    *guard.FlowLedger
	Network effects.NetworkEffects
	Metrics *Metrics
}

// NewExecutor wires an Executor over the node's journal, flow ledger, and
// network effect. Metrics may be nil for callers that do not export any.
func NewExecutor(j *journal.Journal, flow *guard.FlowLedger, network effects.NetworkEffects, metrics *Metrics) *Executor {
	return &Executor{Journal: j, Flow: flow, Network: network, Metrics: metrics}
}

// Execute performs outcome's commands. A denied outcome performs nothing
// and returns the denying guard's reason.
func (e *Executor) Execute(ctx context.Context, outcome guard.GuardOutcome) error {
	if !outcome.Decision.Allowed {
		if e.Metrics != nil {
			e.Metrics.GuardDenied.Inc()
		}
		return outcome.Decision.Reason
	}
	if e.Metrics != nil {
		e.Metrics.GuardAllowed.Inc()
	}

	for _, cmd := range outcome.Effects {
		switch c := cmd.(type) {
		case guard.EmitFactCommand:
			if err := e.Journal.Append(ctx, c.Fact); err != nil {
				return fmt.Errorf("runtime: aborting effects, fact merge failed: %w", err)
			}
			if e.Metrics != nil {
				if leak, ok := c.Fact.Content.Relational.(journal.LeakageEvent); ok {
					e.Metrics.LeakageBudgetSpent.Add(float64(leak.Cost))
				}
			}
		case guard.IssueReceiptCommand:
			if err := e.Flow.Apply(c.Receipt); err != nil {
				return fmt.Errorf("runtime: aborting effects, receipt apply failed: %w", err)
			}
			if e.Metrics != nil {
				e.Metrics.FlowBudgetSpent.Add(float64(c.Receipt.Cost))
			}
		case guard.SendCommand:
			if err := e.Network.Send(ctx, c.Peer.String(), c.Payload); err != nil {
				return fmt.Errorf("runtime: transport send failed: %w", err)
			}
		}
	}
	return nil
}

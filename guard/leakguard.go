// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package guard

import (
	"fmt"

	"github.com/aura-net/aura/internal/aurerr"
	"github.com/aura-net/aura/journal"
)

// LeakGuard accounts for privacy-leakage consumption when an operation is
// observable at visibility. snapshot.LeakBudget is the remaining
// budget for the acting authority; snapshot.LeakCost maps each visibility
// tier to its per-operation cost, since External visibility should
// typically cost more budget than Self. A zero entry for visibility is
// treated as free.
func LeakGuard(snapshot GuardSnapshot, visibility Visibility) (Decision, *journal.LeakageEvent) {
	cost := snapshot.LeakCost[visibility]
	if cost > snapshot.LeakBudget {
		return Deny(fmt.Errorf("%w: visibility %s costs %d, only %d remain", aurerr.ErrLeakageBudgetExhausted, visibilityName(visibility), cost, snapshot.LeakBudget)), nil
	}
	event := journal.LeakageEvent{
		Authority:  snapshot.Authority,
		Visibility: visibilityName(visibility),
		Cost:       cost,
	}
	return Allow(), &event
}

func visibilityName(v Visibility) string {
	switch v {
	case VisibilitySelf:
		return "Self"
	case VisibilityPeer:
		return "Peer"
	case VisibilityNeighbor:
		return "Neighbor"
	case VisibilityExternal:
		return "External"
	default:
		return "Unknown"
	}
}

// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aura-net/aura/auratime"
	"github.com/aura-net/aura/effects/effecttest"
	"github.com/aura-net/aura/guard"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/journal"
)

func executorFixture(t *testing.T, peerName string) (*Executor, *effecttest.LoopbackNetwork) {
	t.Helper()
	fabric := effecttest.NewLoopbackFabric("self", peerName)
	j := journal.New(effecttest.NewMemoryStorage(), nil)
	return NewExecutor(j, guard.NewFlowLedger(), fabric["self"], nil), fabric[peerName]
}

func allowedOutcome(t *testing.T, peer ids.AuthorityId) guard.GuardOutcome {
	t.Helper()
	snap := guard.GuardSnapshot{
		Authority:    ids.AuthorityId{1},
		Context:      ids.ContextId{2},
		Now:          auratime.PhysicalClock{Millis: 1000},
		Order:        auratime.OrderTime{9},
		Capabilities: guard.CapabilitySet{guard.NewCapabilityToken(guard.GrantFact("invitation:send", "*"))},
		FlowLimit:    100,
		LeakBudget:   10,
	}
	outcome := guard.Evaluate(snap, guard.Request{
		Op:          "invitation:send",
		Scope:       "ctx",
		Flow:        guard.FlowHint{Context: snap.Context, Peer: peer, Cost: 5},
		SendPeer:    peer,
		SendPayload: []byte("payload"),
	})
	require.True(t, outcome.Decision.Allowed)
	return outcome
}

func TestExecutorPerformsChargeBeforeSend(t *testing.T) {
	ctx := context.Background()
	peer := ids.AuthorityId{3}
	exec, peerNet := executorFixture(t, peer.String())

	outcome := allowedOutcome(t, peer)
	require.NoError(t, exec.Execute(ctx, outcome))

	// The receipt landed in the flow ledger and its fact in the journal.
	spent, _ := exec.Flow.Observed(ids.ContextId{2}, peer, 0)
	require.Equal(t, uint64(5), spent)
	require.NotZero(t, exec.Journal.Len())

	// The send reached the peer.
	_, payload, err := peerNet.Recv(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), payload)
}

func TestExecutorDeniedOutcomeDoesNothing(t *testing.T) {
	ctx := context.Background()
	peer := ids.AuthorityId{3}
	exec, _ := executorFixture(t, peer.String())

	snap := guard.GuardSnapshot{Now: auratime.PhysicalClock{Millis: 1}}
	outcome := guard.Evaluate(snap, guard.Request{Op: "invitation:send", Scope: "ctx", SendPeer: peer})
	require.False(t, outcome.Decision.Allowed)

	require.Error(t, exec.Execute(ctx, outcome))
	require.Zero(t, exec.Journal.Len())
}

func TestExecutorExecuteIsIdempotentForReplayedOutcome(t *testing.T) {
	ctx := context.Background()
	peer := ids.AuthorityId{3}
	exec, peerNet := executorFixture(t, peer.String())

	outcome := allowedOutcome(t, peer)
	require.NoError(t, exec.Execute(ctx, outcome))
	factsAfterFirst := exec.Journal.Len()

	// Replaying the same outcome re-sends (transport is at-least-once) but
	// neither double-charges the ledger nor duplicates journal facts.
	require.NoError(t, exec.Execute(ctx, outcome))
	spent, _ := exec.Flow.Observed(ids.ContextId{2}, peer, 0)
	require.Equal(t, uint64(5), spent)
	require.Equal(t, factsAfterFirst, exec.Journal.Len())

	for i := 0; i < 2; i++ {
		_, _, err := peerNet.Recv(ctx)
		require.NoError(t, err)
	}
}

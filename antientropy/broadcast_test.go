// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package antientropy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aura-net/aura/effects/effecttest"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/tree"
)

func TestBroadcasterPushSendsFullOpToCaughtUpPeers(t *testing.T) {
	fabric := effecttest.NewLoopbackFabric("a", "b")
	b := NewBroadcaster(fabric["a"])

	op := sampleOp(1)
	require.NoError(t, b.Push(context.Background(), []string{"b"}, op, 1024, 5))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, payload, err := fabric["b"].Recv(ctx)
	require.NoError(t, err)

	msg, err := DecodeSyncMessage(payload)
	require.NoError(t, err)
	require.Equal(t, SyncOpPush, msg.Kind)
}

func TestBroadcasterPushSendsDigestOnlyToLaggingPeers(t *testing.T) {
	fabric := effecttest.NewLoopbackFabric("a", "b")
	b := NewBroadcaster(fabric["a"])
	b.MarkLagging("b")

	op := sampleOp(1)
	require.NoError(t, b.Push(context.Background(), []string{"b"}, op, 1024, 5))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, payload, err := fabric["b"].Recv(ctx)
	require.NoError(t, err)

	msg, err := DecodeSyncMessage(payload)
	require.NoError(t, err)
	require.Equal(t, SyncDigest, msg.Kind)

	b.ClearLagging("b")
	require.False(t, b.isLagging("b"))
}

func TestBroadcasterAckTracksPerCidAcknowledgers(t *testing.T) {
	b := NewBroadcaster(effecttest.NewLoopbackFabric("a")["a"])
	cid := ids.Hash32{7}

	require.Empty(t, b.Acked(cid))
	b.Ack(cid, "b")
	b.Ack(cid, "c")
	require.ElementsMatch(t, []string{"b", "c"}, b.Acked(cid))
}

var _ = tree.AttestedOp{}

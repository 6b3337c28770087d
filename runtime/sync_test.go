// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aura-net/aura/antientropy"
	"github.com/aura-net/aura/effects/effecttest"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/journal"
	"github.com/aura-net/aura/tree"
)

func syncFixture(t *testing.T) (*Runtime, *effecttest.LoopbackNetwork) {
	t.Helper()
	fabric := effecttest.NewLoopbackFabric("node-a", "node-b")
	clock := effecttest.NewFixedClock(0)
	deps := Dependencies{
		Storage:  effecttest.NewMemoryStorage(),
		Network:  fabric["node-a"],
		Physical: clock,
		Order:    clock,
		Random:   effecttest.NewDeterministicRandom(1),
		Crypto:   effecttest.CryptoAdapter{},
	}
	rt, err := New(testConfig(), deps, journal.NewFactRegistry())
	require.NoError(t, err)
	return rt, fabric["node-b"]
}

func syncOp(epoch uint64) tree.AttestedOp {
	return tree.AttestedOp{Op: tree.TreeOp{ParentEpoch: epoch, Kind: tree.OpRotateEpoch}, SignerCount: 2}
}

func TestHandleSyncMessageMergesPushedOp(t *testing.T) {
	ctx := context.Background()
	rt, _ := syncFixture(t)

	op := syncOp(1)
	wire, err := antientropy.EncodeSyncMessage(antientropy.NewOpPushMessage(op))
	require.NoError(t, err)

	require.NoError(t, rt.HandleSyncMessage(ctx, "node-b", wire))
	held, ok := rt.Sync.OpByCID(tree.OpHash(op))
	require.True(t, ok)
	require.Equal(t, op, held)

	// Re-delivery is a duplicate, not a second pull.
	require.NoError(t, rt.HandleSyncMessage(ctx, "node-b", wire))
	require.Equal(t, float64(1), counterValue(t, rt.Metrics.SyncOpsPulled))
}

func TestHandleSyncMessageAnswersDigestWithMissingOps(t *testing.T) {
	ctx := context.Background()
	rt, peerNet := syncFixture(t)

	op := syncOp(2)
	push, err := antientropy.EncodeSyncMessage(antientropy.NewOpPushMessage(op))
	require.NoError(t, err)
	require.NoError(t, rt.HandleSyncMessage(ctx, "node-b", push))

	// The peer advertises an empty digest; node-a must push the op it
	// holds that the digest does not cover.
	empty := antientropy.NewBloomDigest(nil, 64, 3)
	digestWire, err := antientropy.EncodeSyncMessage(antientropy.NewDigestMessage(empty))
	require.NoError(t, err)
	require.NoError(t, rt.HandleSyncMessage(ctx, "node-b", digestWire))

	_, payload, err := peerNet.Recv(ctx)
	require.NoError(t, err)
	reply, err := antientropy.DecodeSyncMessage(payload)
	require.NoError(t, err)
	require.Equal(t, antientropy.SyncOpPush, reply.Kind)
	require.Equal(t, op, *reply.Op)
	require.Equal(t, float64(1), counterValue(t, rt.Metrics.SyncOpsPushed))
}

func TestHandleSyncMessageAnswersOpRequest(t *testing.T) {
	ctx := context.Background()
	rt, peerNet := syncFixture(t)

	op := syncOp(3)
	push, err := antientropy.EncodeSyncMessage(antientropy.NewOpPushMessage(op))
	require.NoError(t, err)
	require.NoError(t, rt.HandleSyncMessage(ctx, "node-b", push))

	req, err := antientropy.EncodeSyncMessage(antientropy.NewOpRequestMessage(tree.OpHash(op)))
	require.NoError(t, err)
	require.NoError(t, rt.HandleSyncMessage(ctx, "node-b", req))

	_, payload, err := peerNet.Recv(ctx)
	require.NoError(t, err)
	reply, err := antientropy.DecodeSyncMessage(payload)
	require.NoError(t, err)
	require.Equal(t, antientropy.SyncOpPush, reply.Kind)

	// Requesting an unknown cid is silently ignored.
	unknown, err := antientropy.EncodeSyncMessage(antientropy.NewOpRequestMessage(ids.Hash32{0xEE}))
	require.NoError(t, err)
	require.NoError(t, rt.HandleSyncMessage(ctx, "node-b", unknown))
}

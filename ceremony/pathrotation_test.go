// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package ceremony

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aura-net/aura/effects/effecttest"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/tree"
)

func TestDerivePathRotationBuildsOpWithDerivedKey(t *testing.T) {
	ctx := context.Background()
	rnd := effecttest.NewDeterministicRandom(21)
	device := ids.DeviceId{1}

	rotation, err := DerivePathRotation(ctx, rnd, device, 3)
	require.NoError(t, err)
	require.NotEmpty(t, rotation.LeafPublicKey)

	op := rotation.Op(4, ids.Hash32{7}, []bool{false, true}, 1)
	require.Equal(t, tree.OpRotatePath, op.Kind)
	require.Equal(t, uint64(4), op.ParentEpoch)
	require.Equal(t, rotation.LeafPublicKey, op.NewPathKey)
}

func TestPathRotationCommitReplacesAndZeroizesPrior(t *testing.T) {
	ctx := context.Background()
	rnd := effecttest.NewDeterministicRandom(23)
	secure := effecttest.NewMemorySecureStorage()
	device := ids.DeviceId{2}

	first, err := DerivePathRotation(ctx, rnd, device, 2)
	require.NoError(t, err)
	require.NoError(t, first.Commit(ctx, secure, device))

	sealed1, err := secure.OpenSealed(ctx, pathSecretKey(device))
	require.NoError(t, err)
	priorCopy := append([]byte(nil), sealed1...)

	// A second rotation replaces the sealed secret; the prior one it read
	// back is wiped in place.
	second, err := DerivePathRotation(ctx, rnd, device, 2)
	require.NoError(t, err)
	require.NoError(t, second.Commit(ctx, secure, device))

	sealed2, err := secure.OpenSealed(ctx, pathSecretKey(device))
	require.NoError(t, err)
	require.NotEqual(t, priorCopy, sealed2, "commit must install the fresh leaf secret")

	// The chain levels above the leaf were zeroized on commit.
	require.Len(t, second.secrets, 1)
}

func TestPathRotationUpperLevelsZeroizedOnCommit(t *testing.T) {
	ctx := context.Background()
	rnd := effecttest.NewDeterministicRandom(29)
	secure := effecttest.NewMemorySecureStorage()
	device := ids.DeviceId{3}

	rotation, err := DerivePathRotation(ctx, rnd, device, 3)
	require.NoError(t, err)
	require.Len(t, rotation.secrets, 4)

	// Keep aliases to the upper-level slices; Commit must wipe them.
	upper := rotation.secrets[1:]
	require.NoError(t, rotation.Commit(ctx, secure, device))
	for _, s := range upper {
		for _, b := range s {
			require.Zero(t, b, "upper path secrets must be zeroized after commit")
		}
	}
}

func TestPathRotationDiscardZeroizesEverything(t *testing.T) {
	ctx := context.Background()
	rnd := effecttest.NewDeterministicRandom(31)
	device := ids.DeviceId{4}

	rotation, err := DerivePathRotation(ctx, rnd, device, 2)
	require.NoError(t, err)
	all := rotation.secrets
	rotation.Discard()
	for _, s := range all {
		for _, b := range s {
			require.Zero(t, b)
		}
	}
}

// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package ceremony

import (
	"context"
	"fmt"

	"github.com/aura-net/aura/auracrypto"
	"github.com/aura-net/aura/effects"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
	"github.com/aura-net/aura/tree"
)

// pathSecretKeyPrefix scopes a device's sealed leaf path secret in
// SecureStorageEffects.
const pathSecretKeyPrefix = "path_secret:"

func pathSecretKey(device ids.DeviceId) string {
	return pathSecretKeyPrefix + device.String()
}

// PathRotation is the secret side of an OpRotatePath mutation: a fresh
// chain of path secrets from the affected leaf up to the root, each level
// derived by HKDF from the one below it, plus the new leaf public key the
// TreeOp binds into the tree. The secrets never leave this process; only
// the public key is journaled.
type PathRotation struct {
	LeafPublicKey []byte
	secrets       [][]byte // leaf first, root last
}

// DerivePathRotation draws a fresh leaf path secret from rand and derives
// one secret per tree level toward the root via
// auracrypto.DerivePathSecret, depth being the number of branch levels
// above the leaf.
func DerivePathRotation(ctx context.Context, rand effects.RandomEffects, device ids.DeviceId, depth int) (*PathRotation, error) {
	seed, err := rand.RandomBytes32(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", aurerr.ErrKeyDerivationFailed, err)
	}
	leafSecret := append([]byte(nil), seed[:]...)
	auracrypto.Zeroize(seed[:])

	secrets := [][]byte{leafSecret}
	cur := leafSecret
	for level := 1; level <= depth; level++ {
		next, err := auracrypto.DerivePathSecret(cur, fmt.Sprintf("%s/%d", device, level))
		if err != nil {
			zeroizeAll(secrets)
			return nil, err
		}
		secrets = append(secrets, next)
		cur = next
	}

	pub, err := auracrypto.PublicKeyFromSecret(leafSecret)
	if err != nil {
		zeroizeAll(secrets)
		return nil, err
	}
	return &PathRotation{LeafPublicKey: pub, secrets: secrets}, nil
}

// Op builds the OpRotatePath mutation carrying the rotation's new leaf
// public key, bound to the parent tree state it was derived against.
func (r *PathRotation) Op(parentEpoch uint64, parentCommitment ids.Hash32, leafPath []bool, version uint16) tree.TreeOp {
	return tree.TreeOp{
		ParentEpoch:      parentEpoch,
		ParentCommitment: parentCommitment,
		Kind:             tree.OpRotatePath,
		Version:          version,
		LeafPath:         leafPath,
		NewPathKey:       append([]byte(nil), r.LeafPublicKey...),
	}
}

// Commit seals the new leaf secret for device via SecureStorageEffects,
// then zeroizes the prior sealed secret and every in-memory level of the
// new chain above the leaf. After Commit only the sealed leaf secret
// survives: the replaced path can no longer be re-derived, which is what
// makes the rotation forward-secret.
func (r *PathRotation) Commit(ctx context.Context, secure effects.SecureStorageEffects, device ids.DeviceId) error {
	if len(r.secrets) == 0 {
		return fmt.Errorf("%w: rotation already committed", aurerr.ErrInvariantBroken)
	}

	prior, err := secure.OpenSealed(ctx, pathSecretKey(device))
	if err == nil {
		auracrypto.Zeroize(prior)
	}

	if err := secure.StoreSealed(ctx, pathSecretKey(device), r.secrets[0]); err != nil {
		return fmt.Errorf("%w: %v", aurerr.ErrSecureStoreUnavailable, err)
	}

	zeroizeAll(r.secrets[1:])
	r.secrets = r.secrets[:1]
	return nil
}

// Discard zeroizes every secret of an uncommitted rotation, for the path
// where the ceremony carrying its op aborts or loses a sibling race.
func (r *PathRotation) Discard() {
	zeroizeAll(r.secrets)
	r.secrets = nil
}

func zeroizeAll(secrets [][]byte) {
	for _, s := range secrets {
		auracrypto.Zeroize(s)
	}
}

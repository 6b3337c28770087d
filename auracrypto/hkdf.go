// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package auracrypto

import (
	"crypto/sha256"
	"fmt"
	"io"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/hkdf"

	"github.com/aura-net/aura/internal/aurerr"
)

// DeriveKey derives outLen bytes from secret using HKDF-SHA256 with the
// given salt and info, used throughout Aura for path-secret rotation
// and AMP ratchet chain-key derivation.
func DeriveKey(secret, salt, info []byte, outLen int) ([]byte, error) {
	r := hkdf.New(sha256.New, secret, salt, info)
	out := make([]byte, outLen)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("%w: hkdf expand: %v", aurerr.ErrKeyDerivationFailed, err)
	}
	return out, nil
}

// DerivePathSecret derives a fresh path secret for a commitment-tree leaf
// rotation. Prior path secrets must be zeroized by the caller once the new
// secret has been derived and stored via SecureStorageEffects.
func DerivePathSecret(parentSecret []byte, leafTag string) ([]byte, error) {
	return DeriveKey(parentSecret, []byte("aura/path-rotation"), []byte(leafTag), 32)
}

// PublicKeyFromSecret derives the Ed25519 public key bound into the tree
// for a 32-byte path secret: the secret reduces to a scalar, the key is
// its base-point multiple.
func PublicKeyFromSecret(secret []byte) ([]byte, error) {
	if len(secret) != 32 {
		return nil, fmt.Errorf("%w: path secret must be 32 bytes", aurerr.ErrKeyDerivationFailed)
	}
	var seed [32]byte
	copy(seed[:], secret)
	s := ScalarFromSeed(seed)
	pub := edwards25519.NewIdentityPoint().ScalarBaseMult(s.s)
	Zeroize(seed[:])
	return pub.Bytes(), nil
}

// Zeroize overwrites b in place. Go cannot guarantee the compiler won't
// elide a dead store, but this is the best-effort the core provides;
// CryptoEffects implementations backed by real secure memory should prefer
// their own zeroizing containers.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

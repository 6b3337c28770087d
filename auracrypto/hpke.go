// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package auracrypto

import (
	"fmt"

	"golang.org/x/crypto/curve25519"

	"github.com/aura-net/aura/internal/aurerr"
)

// Sealed is an HPKE-sealed payload: the sender's ephemeral X25519 public
// key plus the AEAD ciphertext. It is how per-recipient secrets (dealer
// shares, invitation payloads) travel when no prior channel key exists.
type Sealed struct {
	Enc        [32]byte
	Ciphertext []byte
}

// HpkeKeyPair derives an X25519 key pair from a 32-byte seed (e.g. a
// RandomEffects.RandomBytes32 draw). The seed is the private key; it must
// be zeroized by the caller when no longer needed.
func HpkeKeyPair(seed [32]byte) (priv, pub [32]byte, err error) {
	pubSlice, err := curve25519.X25519(seed[:], curve25519.Basepoint)
	if err != nil {
		return priv, pub, fmt.Errorf("%w: hpke keygen: %v", aurerr.ErrKeyDerivationFailed, err)
	}
	copy(pub[:], pubSlice)
	return seed, pub, nil
}

// hpkeExpand stretches the raw DH shared secret into an AEAD key and
// nonce, bound to both public keys so a transcript mix-up changes the key.
func hpkeExpand(shared []byte, enc, recipient [32]byte) (key, nonce []byte, err error) {
	info := make([]byte, 0, 64)
	info = append(info, enc[:]...)
	info = append(info, recipient[:]...)
	okm, err := DeriveKey(shared, []byte("aura/hpke/v1"), info, KeySize+NonceSize)
	if err != nil {
		return nil, nil, err
	}
	return okm[:KeySize], okm[KeySize:], nil
}

// HpkeSeal encrypts plaintext to recipientPub under a one-shot ephemeral
// key derived from ephemeralSeed, which must be fresh entropy per call.
// The nonce is derived rather than random: the key is unique per ephemeral
// exchange, so it is never reused.
func HpkeSeal(recipientPub, ephemeralSeed [32]byte, aad, plaintext []byte) (Sealed, error) {
	ephPriv, ephPub, err := HpkeKeyPair(ephemeralSeed)
	if err != nil {
		return Sealed{}, err
	}
	shared, err := curve25519.X25519(ephPriv[:], recipientPub[:])
	if err != nil {
		return Sealed{}, fmt.Errorf("%w: hpke dh: %v", aurerr.ErrKeyDerivationFailed, err)
	}
	key, nonce, err := hpkeExpand(shared, ephPub, recipientPub)
	if err != nil {
		return Sealed{}, err
	}
	ct, err := Seal(key, nonce, aad, plaintext)
	if err != nil {
		return Sealed{}, err
	}
	Zeroize(shared)
	Zeroize(key)
	return Sealed{Enc: ephPub, Ciphertext: ct}, nil
}

// HpkeOpen decrypts a Sealed payload with the recipient's private key.
func HpkeOpen(recipientPriv [32]byte, sealed Sealed, aad []byte) ([]byte, error) {
	_, recipientPub, err := HpkeKeyPair(recipientPriv)
	if err != nil {
		return nil, err
	}
	shared, err := curve25519.X25519(recipientPriv[:], sealed.Enc[:])
	if err != nil {
		return nil, fmt.Errorf("%w: hpke dh: %v", aurerr.ErrKeyDerivationFailed, err)
	}
	key, nonce, err := hpkeExpand(shared, sealed.Enc, recipientPub)
	if err != nil {
		return nil, err
	}
	out, err := Open(key, nonce, aad, sealed.Ciphertext)
	Zeroize(shared)
	Zeroize(key)
	if err != nil {
		return nil, err
	}
	return out, nil
}

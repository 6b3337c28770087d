// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package auracrypto

import (
	"fmt"

	"github.com/aura-net/aura/internal/aurerr"
	"golang.org/x/crypto/chacha20poly1305"
)

// NonceSize is the XChaCha20-Poly1305 nonce length, matching AmpHeader's
// 24-byte nonce field.
const NonceSize = chacha20poly1305.NonceSizeX

// KeySize is the AEAD key length.
const KeySize = chacha20poly1305.KeySize

// Seal encrypts plaintext under key/nonce, authenticating aad, using
// XChaCha20-Poly1305.
func Seal(key, nonce, aad, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: new aead: %v", aurerr.ErrAEADFailed, err)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: bad nonce length", aurerr.ErrAEADFailed)
	}
	return aead.Seal(nil, nonce, plaintext, aad), nil
}

// Open decrypts and authenticates ciphertext produced by Seal.
func Open(key, nonce, aad, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: new aead: %v", aurerr.ErrAEADFailed, err)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: bad nonce length", aurerr.ErrAEADFailed)
	}
	out, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", aurerr.ErrAEADFailed, err)
	}
	return out, nil
}

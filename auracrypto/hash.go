// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package auracrypto implements Aura's cryptographic primitives: Blake3
// content hashing, HKDF key derivation, AEAD sealing, a Merkle/commitment
// helper, and FROST Ed25519 threshold signing (in frost.go). All primitives
// are pure functions over caller-supplied bytes; the entropy and I/O boundary
// lives in the effects package, so every entropy draw goes through
// RandomEffects.
package auracrypto

import (
	"github.com/aura-net/aura/ids"
	"github.com/zeebo/blake3"
)

// domainTag is mixed into every hash so Aura's content-addressing can never
// collide with a hash produced for an unrelated purpose, even over
// identical bytes.
const domainTag = "aura/v1/"

// Hash returns the Blake3 digest of tag||data as a Hash32, the canonical
// content hash used for fact and tree-op addressing. The tag is written
// with a 4-byte little-endian length prefix, so moving bytes across the
// tag/data boundary changes the digest.
func Hash(tag string, data ...[]byte) ids.Hash32 {
	h := blake3.New()
	_, _ = h.Write([]byte(domainTag))
	n := len(tag)
	_, _ = h.Write([]byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)})
	_, _ = h.Write([]byte(tag))
	for _, d := range data {
		_, _ = h.Write(d)
	}
	var sum ids.Hash32
	copy(sum[:], h.Sum(nil))
	return sum
}

// HashBytes is Hash without a domain tag, used for wire-level
// content-addressing where the caller has already applied framing (e.g.
// the canonical fact envelope bytes).
func HashBytes(data []byte) ids.Hash32 {
	sum := blake3.Sum256(data)
	return ids.Hash32(sum)
}

// Commitment computes a branch-node commitment:
// Blake3(tag || left.commit || right.commit || policy-bytes).
func Commitment(tag string, left, right ids.Hash32, policyBytes []byte) ids.Hash32 {
	return Hash(tag, left.Bytes(), right.Bytes(), policyBytes)
}

// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package auracrypto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aura-net/aura/ids"
)

func TestHashIsDeterministicAndTagSeparated(t *testing.T) {
	a := Hash("tag-a", []byte("payload"))
	require.Equal(t, a, Hash("tag-a", []byte("payload")))

	// Same bytes under a different tag must land elsewhere.
	require.NotEqual(t, a, Hash("tag-b", []byte("payload")))

	// Tag/data boundary must matter: "ab"+"c" != "a"+"bc".
	require.NotEqual(t, Hash("ab", []byte("c")), Hash("a", []byte("bc")))
}

func TestHashBytesDiffersFromTaggedHash(t *testing.T) {
	payload := []byte("payload")
	require.NotEqual(t, HashBytes(payload), Hash("", payload))
}

func TestCommitmentSensitiveToEveryInput(t *testing.T) {
	left := ids.Hash32{1}
	right := ids.Hash32{2}
	policy := []byte{3}

	base := Commitment("branch", left, right, policy)
	require.NotEqual(t, base, Commitment("branch", right, left, policy))
	require.NotEqual(t, base, Commitment("branch", left, right, []byte{4}))
	require.NotEqual(t, base, Commitment("leaf", left, right, policy))
}

func TestMerkleRoot(t *testing.T) {
	leaves := []ids.Hash32{{1}, {2}, {3}}

	root := MerkleRoot(leaves)
	require.Equal(t, root, MerkleRoot(leaves), "root must be deterministic")

	// Order matters: a Merkle root commits to the sequence.
	require.NotEqual(t, root, MerkleRoot([]ids.Hash32{{3}, {2}, {1}}))

	// Odd leaf counts are handled by duplicating the trailing node, so a
	// three-leaf root differs from the two-leaf prefix.
	require.NotEqual(t, root, MerkleRoot(leaves[:2]))

	// Empty input has a fixed, non-zero sentinel root.
	empty := MerkleRoot(nil)
	require.Equal(t, empty, MerkleRoot([]ids.Hash32{}))
	require.False(t, empty.IsEmpty())
}

func TestDeriveKeyLengthsAndDomains(t *testing.T) {
	secret := []byte("root secret")

	k1, err := DeriveKey(secret, []byte("salt"), []byte("info-1"), 32)
	require.NoError(t, err)
	require.Len(t, k1, 32)

	k2, err := DeriveKey(secret, []byte("salt"), []byte("info-2"), 32)
	require.NoError(t, err)
	require.NotEqual(t, k1, k2, "distinct info must derive distinct keys")

	again, err := DeriveKey(secret, []byte("salt"), []byte("info-1"), 32)
	require.NoError(t, err)
	require.Equal(t, k1, again)
}

func TestDerivePathSecretPerLeaf(t *testing.T) {
	parent := []byte("parent path secret")
	s1, err := DerivePathSecret(parent, "leaf/0")
	require.NoError(t, err)
	s2, err := DerivePathSecret(parent, "leaf/1")
	require.NoError(t, err)
	require.NotEqual(t, s1, s2)
	require.Len(t, s1, 32)
}

func TestZeroize(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	Zeroize(b)
	require.Equal(t, []byte{0, 0, 0, 0}, b)
}

// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package auracrypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHpkeSealOpenRoundTrip(t *testing.T) {
	recipientPriv, recipientPub, err := HpkeKeyPair(seed(0x41))
	require.NoError(t, err)

	aad := []byte("ceremony-id")
	sealed, err := HpkeSeal(recipientPub, seed(0x42), aad, []byte("dealer share"))
	require.NoError(t, err)

	out, err := HpkeOpen(recipientPriv, sealed, aad)
	require.NoError(t, err)
	require.Equal(t, []byte("dealer share"), out)
}

func TestHpkeOpenWrongKeyFails(t *testing.T) {
	_, recipientPub, err := HpkeKeyPair(seed(0x41))
	require.NoError(t, err)
	otherPriv, _, err := HpkeKeyPair(seed(0x43))
	require.NoError(t, err)

	sealed, err := HpkeSeal(recipientPub, seed(0x42), nil, []byte("secret"))
	require.NoError(t, err)

	_, err = HpkeOpen(otherPriv, sealed, nil)
	require.Error(t, err)
}

func TestHpkeOpenWrongAadFails(t *testing.T) {
	recipientPriv, recipientPub, err := HpkeKeyPair(seed(0x41))
	require.NoError(t, err)

	sealed, err := HpkeSeal(recipientPub, seed(0x42), []byte("ceremony-a"), []byte("secret"))
	require.NoError(t, err)

	_, err = HpkeOpen(recipientPriv, sealed, []byte("ceremony-b"))
	require.Error(t, err)
}

func TestHpkeTamperedCiphertextFails(t *testing.T) {
	recipientPriv, recipientPub, err := HpkeKeyPair(seed(0x41))
	require.NoError(t, err)

	sealed, err := HpkeSeal(recipientPub, seed(0x42), nil, []byte("secret"))
	require.NoError(t, err)
	sealed.Ciphertext[0] ^= 0xFF

	_, err = HpkeOpen(recipientPriv, sealed, nil)
	require.Error(t, err)
}

func TestHpkeDistinctEphemeralsDiverge(t *testing.T) {
	_, recipientPub, err := HpkeKeyPair(seed(0x41))
	require.NoError(t, err)

	s1, err := HpkeSeal(recipientPub, seed(0x42), nil, []byte("secret"))
	require.NoError(t, err)
	s2, err := HpkeSeal(recipientPub, seed(0x44), nil, []byte("secret"))
	require.NoError(t, err)

	require.NotEqual(t, s1.Enc, s2.Enc)
	require.NotEqual(t, s1.Ciphertext, s2.Ciphertext)
}

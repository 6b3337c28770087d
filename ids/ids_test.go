// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package ids

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromBytesRoundTrip(t *testing.T) {
	raw := make([]byte, Size)
	for i := range raw {
		raw[i] = byte(i)
	}
	id, err := FromBytes(raw)
	require.NoError(t, err)
	require.Equal(t, raw, id.Bytes())
	require.False(t, id.IsEmpty())
}

func TestFromBytesRejectsWrongLength(t *testing.T) {
	_, err := FromBytes(make([]byte, Size-1))
	require.ErrorIs(t, err, ErrInvalidLength)

	_, err = FromBytes(make([]byte, Size+1))
	require.ErrorIs(t, err, ErrInvalidLength)
}

func TestFromHexRoundTrip(t *testing.T) {
	id := ID{0xde, 0xad, 0xbe, 0xef}
	decoded, err := FromHex(id.String())
	require.NoError(t, err)
	require.Equal(t, id, decoded)
}

func TestFromHexRejectsGarbage(t *testing.T) {
	_, err := FromHex("not-hex")
	require.Error(t, err)

	_, err = FromHex("abcd") // valid hex, wrong length
	require.ErrorIs(t, err, ErrInvalidLength)
}

func TestEqualConstantTimeMatchesOperator(t *testing.T) {
	a := ID{1, 2, 3}
	b := ID{1, 2, 3}
	c := ID{1, 2, 4}
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestBytesReturnsCopy(t *testing.T) {
	id := ID{7}
	b := id.Bytes()
	b[0] = 99
	require.Equal(t, byte(7), id[0], "mutating the returned slice must not touch the id")
}

func TestHash32IsDistinctFromID(t *testing.T) {
	h, err := Hash32FromBytes(make([]byte, Size))
	require.NoError(t, err)
	require.True(t, h.IsEmpty())
}

// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package amp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aura-net/aura/auratest"
	"github.com/aura-net/aura/ids"
)

func sampleHeader() AmpHeader {
	h := AmpHeader{
		Channel:    auratest.Channel("wire-channel"),
		ChanEpoch:  3,
		Generation: 41,
		AadHash:    ids.Hash32(auratest.SeededID("aad")),
	}
	for i := range h.Nonce {
		h.Nonce[i] = byte(i)
	}
	return h
}

func TestHeaderCanonicalIsFixedWidth(t *testing.T) {
	buf := sampleHeader().Canonical()
	require.Len(t, buf, HeaderSize)
}

func TestHeaderCanonicalLayout(t *testing.T) {
	h := sampleHeader()
	buf := h.Canonical()

	require.Equal(t, ids.ID(h.Channel).Bytes(), buf[:32])
	// ChanEpoch and Generation are little-endian u64s.
	require.Equal(t, []byte{3, 0, 0, 0, 0, 0, 0, 0}, buf[32:40])
	require.Equal(t, []byte{41, 0, 0, 0, 0, 0, 0, 0}, buf[40:48])
	require.Equal(t, h.Nonce[:], buf[48:72])
	require.Equal(t, h.AadHash.Bytes(), buf[72:104])
}

func TestHeaderParseRoundTrip(t *testing.T) {
	h := sampleHeader()
	decoded, err := ParseHeader(h.Canonical())
	require.NoError(t, err)
	require.Equal(t, h, decoded)

	_, err = ParseHeader(h.Canonical()[:HeaderSize-1])
	require.Error(t, err)
}

func TestMessageParseRoundTrip(t *testing.T) {
	m := AmpMessage{SchemaVersion: 1, Header: sampleHeader(), Payload: []byte("ciphertext")}
	decoded, err := ParseMessage(m.Canonical())
	require.NoError(t, err)
	require.Equal(t, m, decoded)
}

func TestMessageParseRejectsUnknownSchema(t *testing.T) {
	m := AmpMessage{SchemaVersion: 2, Header: sampleHeader(), Payload: []byte("x")}
	_, err := ParseMessage(m.Canonical())
	require.Error(t, err)
}

func TestMessageParseRejectsLengthMismatch(t *testing.T) {
	m := AmpMessage{SchemaVersion: 1, Header: sampleHeader(), Payload: []byte("ciphertext")}
	buf := m.Canonical()
	_, err := ParseMessage(buf[:len(buf)-1])
	require.Error(t, err)
}

func TestHeaderCanonicalDistinguishesFields(t *testing.T) {
	base := sampleHeader().Canonical()

	bumped := sampleHeader()
	bumped.ChanEpoch++
	require.NotEqual(t, base, bumped.Canonical())

	advanced := sampleHeader()
	advanced.Generation++
	require.NotEqual(t, base, advanced.Canonical())
}

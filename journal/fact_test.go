// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package journal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aura-net/aura/auratime"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
)

func sampleEnvelope() FactEnvelope {
	return FactEnvelope{
		TypeID:        "app/note",
		SchemaVersion: 3,
		Encoding:      EncodingJSON,
		Payload:       []byte(`{"text":"hello"}`),
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env := sampleEnvelope()
	decoded, err := ParseEnvelope(env.Canonical())
	require.NoError(t, err)
	require.Equal(t, env, decoded)
}

func TestEnvelopeRoundTripEmptyPayload(t *testing.T) {
	env := FactEnvelope{TypeID: "app/marker", SchemaVersion: 1, Encoding: EncodingCBOR, Payload: []byte{}}
	decoded, err := ParseEnvelope(env.Canonical())
	require.NoError(t, err)
	require.Equal(t, env, decoded)
}

func TestParseEnvelopeRejectsTruncation(t *testing.T) {
	buf := sampleEnvelope().Canonical()
	for _, cut := range []int{0, 2, len(buf) / 2, len(buf) - 1} {
		_, err := ParseEnvelope(buf[:cut])
		require.ErrorIs(t, err, aurerr.ErrDecodeFailed, "prefix of %d bytes must not parse", cut)
	}
}

func TestParseEnvelopeRejectsTrailingBytes(t *testing.T) {
	buf := append(sampleEnvelope().Canonical(), 0xFF)
	_, err := ParseEnvelope(buf)
	require.ErrorIs(t, err, aurerr.ErrDecodeFailed)
}

func TestDecodePayloadDispatch(t *testing.T) {
	env := sampleEnvelope()

	var out struct {
		Text string `json:"text"`
	}
	require.NoError(t, env.DecodePayload("app/note", 3, &out))
	require.Equal(t, "hello", out.Text)

	require.ErrorIs(t, env.DecodePayload("app/other", 3, &out), aurerr.ErrUnknownTypeID)
	require.ErrorIs(t, env.DecodePayload("app/note", 2, &out), aurerr.ErrVersionMismatch)

	garbled := env
	garbled.Payload = []byte("not json")
	require.ErrorIs(t, garbled.DecodePayload("app/note", 3, &out), aurerr.ErrDecodeFailed)
}

func TestFactHashBindsParents(t *testing.T) {
	content := FactContent{Relational: ContactFormed{A: ids.AuthorityId{1}, B: ids.AuthorityId{2}, Nickname: "n"}}
	ts := auratime.NewOrder(order(1))

	orphan, err := NewFact(order(1), ts, content, nil)
	require.NoError(t, err)
	child, err := NewFact(order(1), ts, content, []ids.Hash32{{9}})
	require.NoError(t, err)
	require.NotEqual(t, orphan.Hash(), child.Hash(), "same content under different parents must be distinct facts")
}

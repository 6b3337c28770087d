// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package amp implements Aura's Authenticated Messaging Protocol: a
// per-channel symmetric ratchet deriving per-message keys by HKDF from a chain
// key, with a skip window tolerating out-of-order delivery and channel epochs
// that only ever advance via a committed, consensus-finalized epoch-bump fact
// (never a bare proposal). Built directly over auracrypto's HKDF/AEAD
// primitives.
package amp

import (
	"fmt"

	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
)

// HeaderSize is the AmpHeader's fixed-width wire length:
// 32 (channel) + 8 (chan_epoch) + 8 (generation) + 24 (nonce) + 32 (aad_hash).
const HeaderSize = 32 + 8 + 8 + 24 + 32

// AmpHeader is the per-message authenticated header.
type AmpHeader struct {
	Channel    ids.ChannelId
	ChanEpoch  uint64
	Generation uint64
	Nonce      [24]byte
	AadHash    ids.Hash32
}

// Canonical renders the header to its fixed-width wire form: length-prefix
// free since every field is a fixed size (length prefixing applies to the
// wrapping AmpMessage's payload, not to this fixed-shape header).
func (h AmpHeader) Canonical() []byte {
	buf := make([]byte, 0, HeaderSize)
	buf = append(buf, ids.ID(h.Channel).Bytes()...)
	buf = appendUint64(buf, h.ChanEpoch)
	buf = appendUint64(buf, h.Generation)
	buf = append(buf, h.Nonce[:]...)
	buf = append(buf, h.AadHash.Bytes()...)
	return buf
}

func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return append(buf, b[:]...)
}

// ParseHeader decodes the fixed-width form produced by Canonical.
func ParseHeader(b []byte) (AmpHeader, error) {
	if len(b) != HeaderSize {
		return AmpHeader{}, fmt.Errorf("%w: amp header is %d bytes, want %d", aurerr.ErrDecodeFailed, len(b), HeaderSize)
	}
	var h AmpHeader
	copy(h.Channel[:], b[:32])
	h.ChanEpoch = readUint64(b[32:40])
	h.Generation = readUint64(b[40:48])
	copy(h.Nonce[:], b[48:72])
	copy(h.AadHash[:], b[72:104])
	return h, nil
}

func readUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// AmpMessage is the full wire message: `{ schema_version=1,
// header, payload }`, payload being opaque ciphertext.
type AmpMessage struct {
	SchemaVersion uint16
	Header        AmpHeader
	Payload       []byte
}

// Canonical renders the message to its wire form: schema version, the
// fixed-width header, then the length-prefixed ciphertext payload.
func (m AmpMessage) Canonical() []byte {
	buf := make([]byte, 0, 2+HeaderSize+4+len(m.Payload))
	buf = append(buf, byte(m.SchemaVersion), byte(m.SchemaVersion>>8))
	buf = append(buf, m.Header.Canonical()...)
	n := uint32(len(m.Payload))
	buf = append(buf, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
	return append(buf, m.Payload...)
}

// ParseMessage decodes the wire form produced by Canonical, rejecting
// schema versions this build does not speak.
func ParseMessage(b []byte) (AmpMessage, error) {
	if len(b) < 2+HeaderSize+4 {
		return AmpMessage{}, fmt.Errorf("%w: truncated amp message", aurerr.ErrDecodeFailed)
	}
	version := uint16(b[0]) | uint16(b[1])<<8
	if version != 1 {
		return AmpMessage{}, fmt.Errorf("%w: amp schema v%d, want v1", aurerr.ErrVersionMismatch, version)
	}
	header, err := ParseHeader(b[2 : 2+HeaderSize])
	if err != nil {
		return AmpMessage{}, err
	}
	rest := b[2+HeaderSize:]
	n := uint32(rest[0]) | uint32(rest[1])<<8 | uint32(rest[2])<<16 | uint32(rest[3])<<24
	rest = rest[4:]
	if uint32(len(rest)) != n {
		return AmpMessage{}, fmt.Errorf("%w: amp payload is %d bytes, length prefix says %d", aurerr.ErrDecodeFailed, len(rest), n)
	}
	return AmpMessage{
		SchemaVersion: version,
		Header:        header,
		Payload:       append([]byte(nil), rest...),
	}, nil
}

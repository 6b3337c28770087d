// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ids defines the content-addressed and entropy-derived identifiers
// shared across every Aura component: principals, scopes, and the 32-byte
// content hash that anchors facts, tree commitments, and ceremony state.
package ids

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

// Size is the byte length of every identifier and content hash in Aura.
const Size = 32

// ErrInvalidLength is returned when decoding a byte slice or hex string of
// the wrong length into an identifier.
var ErrInvalidLength = errors.New("ids: invalid length")

// ID is the common 256-bit representation backing every identifier type.
// It is deliberately a plain array so identifier types built from it are
// comparable and usable as map keys.
type ID [Size]byte

// Empty is the zero-valued ID.
var Empty ID

// String renders the identifier as lowercase hex, a compact
// human-readable debug form.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns a copy of the identifier's underlying bytes.
func (id ID) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, id[:])
	return out
}

// IsEmpty reports whether the identifier is the zero value.
func (id ID) IsEmpty() bool {
	return id == Empty
}

// Equal performs a constant-time comparison between two identifiers. Plain
// `==` is fine for routing/map-key purposes; Equal exists for call sites
// that compare values derived from secrets (e.g. capability attenuation
// hashes) where timing shouldn't leak.
func (id ID) Equal(other ID) bool {
	return subtle.ConstantTimeCompare(id[:], other[:]) == 1
}

// FromBytes builds an ID from an exact Size-length slice.
func FromBytes(b []byte) (ID, error) {
	var id ID
	if len(b) != Size {
		return id, ErrInvalidLength
	}
	copy(id[:], b)
	return id, nil
}

// FromHex decodes a hex-encoded identifier.
func FromHex(s string) (ID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Empty, err
	}
	return FromBytes(b)
}

// Hash32 is the content hash of canonical fact/op bytes (Blake3). It is a
// distinct type from ID, even though both are 32 bytes, so that a content
// hash can never be silently accepted where a principal identifier is
// expected — the compiler catches the mix-up.
type Hash32 ID

// String renders the hash as lowercase hex.
func (h Hash32) String() string { return ID(h).String() }

// Bytes returns a copy of the hash's bytes.
func (h Hash32) Bytes() []byte { return ID(h).Bytes() }

// IsEmpty reports whether the hash is the zero value.
func (h Hash32) IsEmpty() bool { return h == Hash32(Empty) }

// Identifier types. Each wraps the common ID representation; the distinct
// Go types prevent passing, say, a ChannelId where an AuthorityId is
// expected.
type (
	// AuthorityId identifies a principal: a quorum-backed user or service.
	AuthorityId ID
	// DeviceId identifies a single device belonging to an authority.
	DeviceId ID
	// ContextId identifies a relational container scoping capabilities and
	// channels between authorities.
	ContextId ID
	// ChannelId identifies an AMP channel.
	ChannelId ID
	// SessionId identifies a runtime session (sync round, ceremony round).
	SessionId ID
	// AccountId identifies an account undergoing guardian recovery.
	AccountId ID
	// GuardianId identifies a guardian authority.
	GuardianId ID
	// CeremonyId identifies a threshold ceremony instance.
	CeremonyId ID
	// OperationId identifies a tree mutation intent/proposal.
	OperationId ID
)

func (a AuthorityId) String() string  { return ID(a).String() }
func (d DeviceId) String() string     { return ID(d).String() }
func (c ContextId) String() string    { return ID(c).String() }
func (c ChannelId) String() string    { return ID(c).String() }
func (s SessionId) String() string    { return ID(s).String() }
func (a AccountId) String() string    { return ID(a).String() }
func (g GuardianId) String() string   { return ID(g).String() }
func (c CeremonyId) String() string   { return ID(c).String() }
func (o OperationId) String() string  { return ID(o).String() }

func (a AuthorityId) IsEmpty() bool  { return a == AuthorityId(Empty) }
func (d DeviceId) IsEmpty() bool     { return d == DeviceId(Empty) }
func (c ContextId) IsEmpty() bool    { return c == ContextId(Empty) }
func (c ChannelId) IsEmpty() bool    { return c == ChannelId(Empty) }
func (s SessionId) IsEmpty() bool    { return s == SessionId(Empty) }
func (a AccountId) IsEmpty() bool    { return a == AccountId(Empty) }
func (g GuardianId) IsEmpty() bool   { return g == GuardianId(Empty) }
func (c CeremonyId) IsEmpty() bool   { return c == CeremonyId(Empty) }
func (o OperationId) IsEmpty() bool  { return o == OperationId(Empty) }

// AuthorityIdFromBytes builds an AuthorityId from raw bytes, e.g. entropy
// drawn via RandomEffects.
func AuthorityIdFromBytes(b []byte) (AuthorityId, error) {
	id, err := FromBytes(b)
	return AuthorityId(id), err
}

// DeviceIdFromBytes builds a DeviceId from raw bytes.
func DeviceIdFromBytes(b []byte) (DeviceId, error) {
	id, err := FromBytes(b)
	return DeviceId(id), err
}

// Hash32FromBytes builds a Hash32 from raw bytes, typically the output of
// auracrypto.Hash.
func Hash32FromBytes(b []byte) (Hash32, error) {
	id, err := FromBytes(b)
	return Hash32(id), err
}

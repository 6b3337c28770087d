// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package journal implements Aura's append-only, content-addressed fact log
//: the sole durable, replicated substrate from which
// every derived view (membership, capabilities, channel epochs, social
// topology) is produced by deterministic reduction. Facts reference their
// causal parents by content hash, never by pointer, so live state lives in
// arenas keyed by hash rather than an in-memory object graph.
package journal

import (
	"encoding/json"
	"fmt"

	"github.com/aura-net/aura/auracrypto"
	"github.com/aura-net/aura/auratime"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
)

// Encoding selects the wire representation of a Generic fact's payload.
type Encoding uint8

const (
	EncodingJSON Encoding = iota
	EncodingCBOR
	EncodingBincode
)

// FactEnvelope is the canonical wire & storage form of a fact's content.
// Envelope bytes (via Canonical) are the
// input to content hashing, and unknown type ids are preserved verbatim for
// forward compatibility.
type FactEnvelope struct {
	TypeID        string
	SchemaVersion uint16
	Encoding      Encoding
	Payload       []byte
}

// Canonical renders the envelope into its length-prefixed canonical byte
// form, the input to content hashing.
func (e FactEnvelope) Canonical() []byte {
	buf := make([]byte, 0, len(e.TypeID)+len(e.Payload)+16)
	buf = appendLenPrefixed(buf, []byte(e.TypeID))
	buf = append(buf, byte(e.SchemaVersion), byte(e.SchemaVersion>>8))
	buf = append(buf, byte(e.Encoding))
	buf = appendLenPrefixed(buf, e.Payload)
	return buf
}

func appendLenPrefixed(buf, data []byte) []byte {
	n := uint32(len(data))
	buf = append(buf, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
	return append(buf, data...)
}

func readLenPrefixed(b []byte) (data, rest []byte, err error) {
	if len(b) < 4 {
		return nil, nil, fmt.Errorf("%w: truncated length prefix", aurerr.ErrDecodeFailed)
	}
	n := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	b = b[4:]
	if uint32(len(b)) < n {
		return nil, nil, fmt.Errorf("%w: payload shorter than its length prefix", aurerr.ErrDecodeFailed)
	}
	return b[:n], b[n:], nil
}

// ParseEnvelope decodes the canonical byte form produced by Canonical.
// Trailing bytes are an error: the envelope is a complete frame, not a
// stream prefix.
func ParseEnvelope(b []byte) (FactEnvelope, error) {
	typeID, rest, err := readLenPrefixed(b)
	if err != nil {
		return FactEnvelope{}, err
	}
	if len(rest) < 3 {
		return FactEnvelope{}, fmt.Errorf("%w: truncated envelope header", aurerr.ErrDecodeFailed)
	}
	version := uint16(rest[0]) | uint16(rest[1])<<8
	encoding := Encoding(rest[2])
	payload, rest, err := readLenPrefixed(rest[3:])
	if err != nil {
		return FactEnvelope{}, err
	}
	if len(rest) != 0 {
		return FactEnvelope{}, fmt.Errorf("%w: %d trailing bytes after envelope", aurerr.ErrDecodeFailed, len(rest))
	}
	return FactEnvelope{
		TypeID:        string(typeID),
		SchemaVersion: version,
		Encoding:      encoding,
		Payload:       append([]byte{}, payload...),
	}, nil
}

// DecodePayload checks the envelope against the expected (type id, schema
// version) and unmarshals its payload into out. Dispatch failures are
// typed: a wrong type id fails with UnknownTypeID, a wrong version with
// VersionMismatch, and a payload that does not parse with DecodeFailed.
// Only JSON-encoded payloads are decoded here; CBOR/Bincode envelopes are
// preserved verbatim for their registered reducers.
func (e FactEnvelope) DecodePayload(typeID string, schemaVersion uint16, out any) error {
	if e.TypeID != typeID {
		return fmt.Errorf("%w: envelope carries %q, want %q", aurerr.ErrUnknownTypeID, e.TypeID, typeID)
	}
	if e.SchemaVersion != schemaVersion {
		return fmt.Errorf("%w: envelope schema v%d, want v%d", aurerr.ErrVersionMismatch, e.SchemaVersion, schemaVersion)
	}
	if e.Encoding != EncodingJSON {
		return fmt.Errorf("%w: no decoder for encoding %d", aurerr.ErrDecodeFailed, e.Encoding)
	}
	if err := json.Unmarshal(e.Payload, out); err != nil {
		return fmt.Errorf("%w: %v", aurerr.ErrDecodeFailed, err)
	}
	return nil
}

// RelationalFact is the closed set of protocol-intrinsic facts that
// participate directly in reduction. Extensible domain
// facts must go through Generic + FactRegistry instead. The marker method
// keeps this a closed sum type the way a Rust enum would be, while still
// giving each variant its own named Go type.
type RelationalFact interface {
	relationalFactMarker()
	Kind() string
}

// FactContent is the sum over protocol-intrinsic (Relational) and
// extensible domain (Generic) fact payloads.
type FactContent struct {
	Relational RelationalFact
	Generic    *FactEnvelope
}

// IsGeneric reports whether this content is a Generic (registry-dispatched)
// fact rather than a built-in RelationalFact.
func (c FactContent) IsGeneric() bool { return c.Generic != nil }

// canonicalBytes renders FactContent for hashing: either the relational
// fact's JSON-canonical form tagged by Kind, or the generic envelope's
// canonical bytes.
func (c FactContent) canonicalBytes() ([]byte, error) {
	if c.Generic != nil {
		return c.Generic.Canonical(), nil
	}
	if c.Relational == nil {
		return nil, fmt.Errorf("%w: empty fact content", aurerr.ErrMalformedFact)
	}
	payload, err := json.Marshal(c.Relational)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", aurerr.ErrEncodeFailed, err)
	}
	env := FactEnvelope{TypeID: "relational/" + c.Relational.Kind(), SchemaVersion: 1, Encoding: EncodingJSON, Payload: payload}
	return env.Canonical(), nil
}

// Fact is the sole unit of durable state. Facts are immutable
// and content-addressed; Hash is computed, never set directly, by NewFact.
type Fact struct {
	Order     auratime.OrderTime
	Timestamp auratime.TimeStamp
	Content   FactContent
	Parents   []ids.Hash32
	hash      ids.Hash32
	hashSet   bool
}

// NewFact constructs a Fact and computes its content hash over the
// canonical envelope bytes plus its order and parent links, so two facts
// with identical content but different causal parents are distinct facts.
func NewFact(order auratime.OrderTime, ts auratime.TimeStamp, content FactContent, parents []ids.Hash32) (Fact, error) {
	body, err := content.canonicalBytes()
	if err != nil {
		return Fact{}, err
	}
	parentBytes := make([]byte, 0, len(parents)*ids.Size)
	for _, p := range parents {
		parentBytes = append(parentBytes, p.Bytes()...)
	}
	h := auracrypto.Hash("journal/fact", order[:], body, parentBytes)
	f := Fact{Order: order, Timestamp: ts, Content: content, Parents: append([]ids.Hash32(nil), parents...), hash: h, hashSet: true}
	return f, nil
}

// Hash returns the fact's content hash, computed once at construction.
func (f Fact) Hash() ids.Hash32 {
	if !f.hashSet {
		panic("journal: Hash() called on a zero-value Fact")
	}
	return f.hash
}

// Less implements the journal's total fact order: (order, content-hash).
func Less(a, b Fact) bool {
	if a.Order != b.Order {
		return auratime.Less(a.Order, b.Order)
	}
	ah, bh := a.Hash(), b.Hash()
	for i := 0; i < ids.Size; i++ {
		if ah[i] != bh[i] {
			return ah[i] < bh[i]
		}
	}
	return false
}

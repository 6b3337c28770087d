// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package auratime carries Aura's four time domains.
// Ordering for facts uses OrderTime only so wall-clock leakage never
// crosses an authority boundary; the other domains exist for diagnostics,
// causal tracking, and ceremony deadlines.
package auratime

import (
	"bytes"
	"errors"

	"github.com/aura-net/aura/ids"
)

// Domain tags which of the four time representations a TimeStamp carries.
type Domain uint8

const (
	// DomainPhysical carries a wall-clock millisecond timestamp with
	// optional uncertainty, produced by PhysicalTimeEffects.
	DomainPhysical Domain = iota
	// DomainLogical carries a per-device vector clock.
	DomainLogical
	// DomainOrder carries an opaque, privacy-preserving ordering token.
	DomainOrder
	// DomainRange carries a [lo, hi] bound, used when only an interval is
	// known (e.g. a reconstructed historical fact).
	DomainRange
)

// ErrIncomparable is returned by Compare when the two timestamps are from
// different domains, or from DomainLogical with no causal relationship.
var ErrIncomparable = errors.New("auratime: incomparable")

// PhysicalClock is a wall-clock reading in milliseconds since epoch, with an
// optional uncertainty bound in milliseconds (0 means "exact").
type PhysicalClock struct {
	Millis      int64
	Uncertainty int64
}

// VectorClock maps each device to the highest logical counter it has
// observed from itself. Comparison is the standard partial order: A <= B
// iff every entry of A is <= the corresponding entry of B.
type VectorClock map[ids.DeviceId]uint64

// Clone returns an independent copy of the vector clock.
func (vc VectorClock) Clone() VectorClock {
	out := make(VectorClock, len(vc))
	for k, v := range vc {
		out[k] = v
	}
	return out
}

// Advance returns a copy of vc with device's counter incremented by one
// (or set to 1 if absent).
func (vc VectorClock) Advance(device ids.DeviceId) VectorClock {
	out := vc.Clone()
	out[device] = out[device] + 1
	return out
}

// Merge returns the pointwise maximum of two vector clocks (the join in the
// vector-clock semilattice).
func (vc VectorClock) Merge(other VectorClock) VectorClock {
	out := vc.Clone()
	for k, v := range other {
		if cur, ok := out[k]; !ok || v > cur {
			out[k] = v
		}
	}
	return out
}

// compareVector reports -1 if a < b, 0 if a == b, 1 if a > b, and ok=false
// if the two are concurrent (neither dominates the other).
func compareVector(a, b VectorClock) (result int, ok bool) {
	aLessOrEq, bLessOrEq := true, true
	keys := make(map[ids.DeviceId]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	for k := range keys {
		av, bv := a[k], b[k]
		if av > bv {
			aLessOrEq = false
		}
		if bv > av {
			bLessOrEq = false
		}
	}
	switch {
	case aLessOrEq && bLessOrEq:
		return 0, true
	case aLessOrEq:
		return -1, true
	case bLessOrEq:
		return 1, true
	default:
		return 0, false
	}
}

// OrderToken is the opaque 32-byte ordering value used by DomainOrder.
type OrderToken [32]byte

// Range is an inclusive [Lo, Hi] bound over opaque order tokens, used when
// only an interval of possible order is known.
type Range struct {
	Lo OrderToken
	Hi OrderToken
}

// TimeStamp is the tagged union over the four time domains. Exactly one of
// the domain-specific fields is meaningful, selected by Domain.
type TimeStamp struct {
	Domain    Domain
	Physical  PhysicalClock
	Logical   VectorClock
	Order     OrderToken
	RangeSpan Range
}

// NewPhysical builds a DomainPhysical timestamp.
func NewPhysical(millis, uncertainty int64) TimeStamp {
	return TimeStamp{Domain: DomainPhysical, Physical: PhysicalClock{Millis: millis, Uncertainty: uncertainty}}
}

// NewLogical builds a DomainLogical timestamp.
func NewLogical(vc VectorClock) TimeStamp {
	return TimeStamp{Domain: DomainLogical, Logical: vc.Clone()}
}

// NewOrder builds a DomainOrder timestamp.
func NewOrder(tok OrderToken) TimeStamp {
	return TimeStamp{Domain: DomainOrder, Order: tok}
}

// NewRange builds a DomainRange timestamp.
func NewRange(lo, hi OrderToken) TimeStamp {
	return TimeStamp{Domain: DomainRange, RangeSpan: Range{Lo: lo, Hi: hi}}
}

// Compare orders two timestamps within the same domain. Cross-domain
// comparisons, and logical comparisons between concurrent vector clocks,
// return ErrIncomparable.
func Compare(a, b TimeStamp) (int, error) {
	if a.Domain != b.Domain {
		return 0, ErrIncomparable
	}
	switch a.Domain {
	case DomainPhysical:
		switch {
		case a.Physical.Millis < b.Physical.Millis:
			return -1, nil
		case a.Physical.Millis > b.Physical.Millis:
			return 1, nil
		default:
			return 0, nil
		}
	case DomainOrder:
		return bytes.Compare(a.Order[:], b.Order[:]), nil
	case DomainLogical:
		result, ok := compareVector(a.Logical, b.Logical)
		if !ok {
			return 0, ErrIncomparable
		}
		return result, nil
	case DomainRange:
		// Ranges compare by their lower bound; overlapping ranges with
		// distinct bounds are still totally ordered for fact-sequencing
		// purposes (ties broken by content hash upstream).
		return bytes.Compare(a.RangeSpan.Lo[:], b.RangeSpan.Lo[:]), nil
	default:
		return 0, ErrIncomparable
	}
}

// OrderTime is the sequencing key actually used for fact ordering. It is
// always a DomainOrder token, never derived from wall-clock or logical
// time, so the journal's total order never leaks physical time across an
// authority boundary.
type OrderTime = OrderToken

// Less provides the total order over OrderTime used to sequence facts.
func Less(a, b OrderTime) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package auratest provides deterministic fixtures shared by tests across
// the module: seeded identifiers, order tokens, and fact builders. Nothing
// here draws entropy; two test runs construct byte-identical fixtures.
package auratest

import (
	"testing"

	"github.com/aura-net/aura/auracrypto"
	"github.com/aura-net/aura/auratime"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/journal"
)

// SeededID derives a stable 32-byte identifier from a label, so fixture
// ids read meaningfully in failure output while staying reproducible.
func SeededID(label string) ids.ID {
	return ids.ID(auracrypto.Hash("auratest/id", []byte(label)))
}

// Authority returns a deterministic AuthorityId for label.
func Authority(label string) ids.AuthorityId { return ids.AuthorityId(SeededID(label)) }

// Device returns a deterministic DeviceId for label.
func Device(label string) ids.DeviceId { return ids.DeviceId(SeededID(label)) }

// Channel returns a deterministic ChannelId for label.
func Channel(label string) ids.ChannelId { return ids.ChannelId(SeededID(label)) }

// Context returns a deterministic ContextId for label.
func Context(label string) ids.ContextId { return ids.ContextId(SeededID(label)) }

// Order returns an order token whose leading byte is n, giving tests a
// compact way to pin relative fact order.
func Order(n byte) auratime.OrderTime {
	var o auratime.OrderTime
	o[0] = n
	return o
}

// Fact builds a relational fact at Order(n), failing the test on a
// malformed payload rather than returning an error.
func Fact(t testing.TB, n byte, content journal.RelationalFact) journal.Fact {
	t.Helper()
	f, err := journal.NewFact(Order(n), auratime.NewOrder(Order(n)), journal.FactContent{Relational: content}, nil)
	if err != nil {
		t.Fatalf("building fixture fact: %v", err)
	}
	return f
}

// ContactFact is the most common fixture fact: a ContactFormed between two
// labeled authorities at Order(n).
func ContactFact(t testing.TB, n byte, a, b string) journal.Fact {
	t.Helper()
	return Fact(t, n, journal.ContactFormed{A: Authority(a), B: Authority(b), Nickname: b})
}

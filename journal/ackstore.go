// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package journal

import (
	"sync"

	"github.com/aura-net/aura/ids"
)

// AckStorage tracks, per fact, which authorities have acknowledged having
// merged it. Acks merge by set union, the same join-semilattice
// discipline as the journal itself, so AckStorage tolerates the same
// out-of-order, duplicate delivery anti-entropy produces.
type AckStorage struct {
	mu   sync.RWMutex
	acks map[ids.Hash32]map[ids.AuthorityId]struct{}
}

// NewAckStorage constructs an empty AckStorage.
func NewAckStorage() *AckStorage {
	return &AckStorage{acks: make(map[ids.Hash32]map[ids.AuthorityId]struct{})}
}

// Ack records that authority has observed fact h. Repeated calls for the
// same (h, authority) pair are idempotent.
func (a *AckStorage) Ack(h ids.Hash32, authority ids.AuthorityId) {
	a.mu.Lock()
	defer a.mu.Unlock()
	set, ok := a.acks[h]
	if !ok {
		set = make(map[ids.AuthorityId]struct{})
		a.acks[h] = set
	}
	set[authority] = struct{}{}
}

// Merge unions other into a, the join operation used when reconciling
// ack state received from a peer during anti-entropy.
func (a *AckStorage) Merge(other *AckStorage) {
	other.mu.RLock()
	defer other.mu.RUnlock()
	for h, set := range other.acks {
		for authority := range set {
			a.Ack(h, authority)
		}
	}
}

// Acked returns the set of authorities that have acknowledged h.
func (a *AckStorage) Acked(h ids.Hash32) []ids.AuthorityId {
	a.mu.RLock()
	defer a.mu.RUnlock()
	set := a.acks[h]
	out := make([]ids.AuthorityId, 0, len(set))
	for authority := range set {
		out = append(out, authority)
	}
	return out
}

// Count reports how many distinct authorities have acknowledged h.
func (a *AckStorage) Count(h ids.Hash32) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.acks[h])
}

// SafeToPrune reports whether every authority in required has acknowledged
// h, the precondition Snapshot GC checks before dropping a
// fact from the live log. An empty required set is never considered safe:
// pruning with no known ack requirement is indistinguishable from pruning
// with an incomplete one, so callers must supply the authority set
// explicitly.
func (a *AckStorage) SafeToPrune(h ids.Hash32, required []ids.AuthorityId) bool {
	if len(required) == 0 {
		return false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	set := a.acks[h]
	for _, authority := range required {
		if _, ok := set[authority]; !ok {
			return false
		}
	}
	return true
}

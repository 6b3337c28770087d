// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package journal

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aura-net/aura/effects"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
)

// storageKeyPrefix namespaces journal facts within the shared StorageEffects
// keyspace.
const storageKeyPrefix = "journal/fact:"

func storageKey(h ids.Hash32) string {
	return storageKeyPrefix + h.String()
}

// Journal is Aura's append-only, content-addressed fact log.
// It is an OR-set keyed by content hash: Append/Merge are idempotent,
// commutative, and associative, so any two replicas
// that have observed the same set of facts converge to the same state
// regardless of arrival order. Durable storage is delegated to
// effects.StorageEffects; Journal itself only holds the in-memory index used
// for fast lookup, ordering, and subscriber fan-out.
type Journal struct {
	mu       sync.RWMutex
	storage  effects.StorageEffects
	registry *FactRegistry
	facts    map[ids.Hash32]Fact
	subs     map[int]chan Fact
	nextSub  int
}

// New constructs a Journal backed by storage, dispatching Generic facts
// through registry (which may be nil if the caller registers no domain
// reducers).
func New(storage effects.StorageEffects, registry *FactRegistry) *Journal {
	if registry == nil {
		registry = NewFactRegistry()
	}
	return &Journal{
		storage:  storage,
		registry: registry,
		facts:    make(map[ids.Hash32]Fact),
		subs:     make(map[int]chan Fact),
	}
}

// Append inserts a single fact. It is a no-op (not an error) if the fact's
// hash is already present, since the journal is an idempotent OR-set.
func (j *Journal) Append(ctx context.Context, f Fact) error {
	_, err := j.Merge(ctx, []Fact{f})
	return err
}

// Merge folds a batch of facts — typically received from anti-entropy — into
// the journal, returning how many were newly observed. Merge is the
// journal's join operation: idempotent, commutative, and associative over
// any partition of the input across calls.
func (j *Journal) Merge(ctx context.Context, fs []Fact) (added int, err error) {
	var newlyAdded []Fact

	j.mu.Lock()
	for _, f := range fs {
		h := f.Hash()
		if _, ok := j.facts[h]; ok {
			continue
		}
		j.facts[h] = f
		newlyAdded = append(newlyAdded, f)
	}
	j.mu.Unlock()

	for _, f := range newlyAdded {
		body, encErr := f.Content.canonicalBytes()
		if encErr != nil {
			return added, fmt.Errorf("%w: %v", aurerr.ErrEncodeFailed, encErr)
		}
		if err := j.storage.Put(ctx, storageKey(f.Hash()), body); err != nil {
			return added, fmt.Errorf("%w: %v", aurerr.ErrStorageIO, err)
		}
		added++
	}

	if added > 0 {
		j.notify(newlyAdded)
	}
	return added, nil
}

// GetFact looks up a fact by content hash.
func (j *Journal) GetFact(h ids.Hash32) (Fact, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	f, ok := j.facts[h]
	return f, ok
}

// Has reports whether h is already present, the question anti-entropy's
// Bloom-digest reconciliation asks before requesting a peer resend it.
func (j *Journal) Has(h ids.Hash32) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, ok := j.facts[h]
	return ok
}

// All returns every fact currently held, sorted by the journal's total
// order. Reduction
// always walks facts in this
// order so replicas that have merged the same set reduce to the same
// result regardless of arrival order.
func (j *Journal) All() []Fact {
	j.mu.RLock()
	out := make([]Fact, 0, len(j.facts))
	for _, f := range j.facts {
		out = append(out, f)
	}
	j.mu.RUnlock()
	sort.Slice(out, func(i, k int) bool { return Less(out[i], out[k]) })
	return out
}

// Len reports the number of facts held.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.facts)
}

// Digest returns the set of content hashes held, the input to anti-entropy's
// Bloom-filter digest construction.
func (j *Journal) Digest() []ids.Hash32 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]ids.Hash32, 0, len(j.facts))
	for h := range j.facts {
		out = append(out, h)
	}
	return out
}

// Registry returns the Generic-fact dispatch registry, so callers can
// register domain reducers before facts start arriving.
func (j *Journal) Registry() *FactRegistry { return j.registry }

// Subscribe returns a channel receiving every fact newly merged after the
// call, and a cancel function that must be called to release it. Each
// subscriber gets a buffered channel, dropped (not blocked on) when full,
// since Subscribe is a best-effort notification path, not journal's
// source of truth.
func (j *Journal) Subscribe() (<-chan Fact, func()) {
	j.mu.Lock()
	id := j.nextSub
	j.nextSub++
	ch := make(chan Fact, 256)
	j.subs[id] = ch
	j.mu.Unlock()

	cancel := func() {
		j.mu.Lock()
		if c, ok := j.subs[id]; ok {
			delete(j.subs, id)
			close(c)
		}
		j.mu.Unlock()
	}
	return ch, cancel
}

func (j *Journal) notify(fs []Fact) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	for _, f := range fs {
		for _, ch := range j.subs {
			select {
			case ch <- f:
			default:
				// slow subscriber; drop rather than block ingestion.
			}
		}
	}
}

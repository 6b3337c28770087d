// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package journal

import (
	"context"
	"fmt"
	"sync"

	"github.com/aura-net/aura/auratime"
	"github.com/aura-net/aura/internal/aurerr"
)

// DomainFactReducer folds one Generic fact envelope into an arbitrary
// application view, keyed by TypeID.
// State is an opaque accumulator the reducer owns; Fold returns the
// updated accumulator.
type DomainFactReducer interface {
	TypeID() string
	Zero() any
	Fold(ctx context.Context, state any, env FactEnvelope, order auratime.OrderTime) (any, error)
}

// FactRegistry dispatches Generic facts to application-registered reducers
// by TypeID, so new domain fact kinds can be added without touching the
// closed RelationalFact set.
type FactRegistry struct {
	mu       sync.RWMutex
	reducers map[string]DomainFactReducer
}

// NewFactRegistry constructs an empty registry.
func NewFactRegistry() *FactRegistry {
	return &FactRegistry{reducers: make(map[string]DomainFactReducer)}
}

// Register adds a reducer for its declared TypeID. Registering the same
// TypeID twice replaces the previous reducer.
func (r *FactRegistry) Register(reducer DomainFactReducer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reducers[reducer.TypeID()] = reducer
}

// Lookup returns the reducer for typeID.
func (r *FactRegistry) Lookup(typeID string) (DomainFactReducer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reducer, ok := r.reducers[typeID]
	return reducer, ok
}

// Fold applies the registered reducer for env.TypeID against state.
// Unknown type ids are folded to a no-op unless strict is true, for
// forward compatibility: unrecognized Generic facts
// are preserved in the journal but silently skipped by reduction rather
// than rejected, so older replicas tolerate newer fact kinds.
func (r *FactRegistry) Fold(ctx context.Context, state any, env FactEnvelope, order auratime.OrderTime, strict bool) (any, error) {
	reducer, ok := r.Lookup(env.TypeID)
	if !ok {
		if strict {
			return state, fmt.Errorf("%w: %s", aurerr.ErrUnknownTypeID, env.TypeID)
		}
		return state, nil
	}
	return reducer.Fold(ctx, state, env, order)
}

// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aura-net/aura/internal/diagnostics"
)

// CancellationToken lets a long-running task observe that the node is
// shutting down without importing the task registry itself.
type CancellationToken interface {
	Done() <-chan struct{}
	Err() error
}

// TaskRegistry runs the node's background loops (anti-entropy reconciler,
// AMP session pumps, ceremony timeout sweepers) under one errgroup so a
// single task's fatal error tears the whole node down, and Stop cancels
// every task's context and waits for all of them to return.
type TaskRegistry struct {
	mu     sync.Mutex
	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
	log    *diagnostics.Logger
	names  []string
}

// NewTaskRegistry builds a registry deriving its root context from parent.
func NewTaskRegistry(parent context.Context, log *diagnostics.Logger) *TaskRegistry {
	ctx, cancel := context.WithCancel(parent)
	group, ctx := errgroup.WithContext(ctx)
	return &TaskRegistry{group: group, ctx: ctx, cancel: cancel, log: log}
}

// Go registers a named task; fn must return promptly once its context is
// canceled. A task that returns a non-nil error cancels every other task's
// context via the errgroup.
func (r *TaskRegistry) Go(name string, fn func(ctx context.Context) error) {
	r.mu.Lock()
	r.names = append(r.names, name)
	r.mu.Unlock()

	r.group.Go(func() error {
		if err := fn(r.ctx); err != nil {
			r.log.Error(r.ctx, "task exited with error", diagnostics.Fields("task", name, "err", err)...)
			return fmt.Errorf("task %q: %w", name, err)
		}
		return nil
	})
}

// Stop cancels every task's context and blocks until all have returned,
// returning the first non-nil error observed (if any).
func (r *TaskRegistry) Stop() error {
	r.cancel()
	return r.group.Wait()
}

// Context returns the registry's cancellation-aware root context, usable
// as a CancellationToken.
func (r *TaskRegistry) Context() context.Context { return r.ctx }

// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aura-net/aura/antientropy"
	"github.com/aura-net/aura/effects"
	"github.com/aura-net/aura/guard"
	"github.com/aura-net/aura/internal/diagnostics"
	"github.com/aura-net/aura/journal"
	"github.com/aura-net/aura/tree"
)

// Dependencies are the concrete effect implementations supplied by the
// embedder. Storage, Network, Physical, Order, Random, and Crypto are
// required; New rejects a Dependencies missing any of them. Secure and
// Logical are optional, needed only by callers that exercise guardian
// recovery key sealing or the logical-clock domain, respectively.
type Dependencies struct {
	Storage  effects.StorageEffects
	Secure   effects.SecureStorageEffects
	Network  effects.NetworkEffects
	Physical effects.PhysicalTimeEffects
	Logical  effects.LogicalClockEffects
	Order    effects.OrderClockEffects
	Random   effects.RandomEffects
	Crypto   effects.CryptoEffects
	Verify   tree.Verifier
}

// Runtime is the single composition root wiring every Aura package into a
// running node. It holds no business logic of
// its own: it only constructs, registers, and supervises the packages that
// do (journal, guard, antientropy, amp, protocol, ceremony).
type Runtime struct {
	Config   *AuraConfig
	Deps     Dependencies
	Log      *diagnostics.Logger
	Registry prometheus.Registerer
	Metrics  *Metrics

	Journal  *journal.Journal
	Acks     *journal.AckStorage
	Sessions *SessionManager
	Sync     *antientropy.Reconciler
	Gossip   *antientropy.Broadcaster
	Flow     *guard.FlowLedger
	Exec     *Executor

	tasks *TaskRegistry
}

// New assembles a Runtime from cfg and deps, backing its journal with the
// caller-supplied registry and wiring anti-entropy and metrics. It
// registers no fact kinds itself.
func New(cfg *AuraConfig, deps Dependencies, registry *journal.FactRegistry) (*Runtime, error) {
	if deps.Storage == nil || deps.Network == nil || deps.Physical == nil || deps.Order == nil || deps.Random == nil || deps.Crypto == nil {
		return nil, fmt.Errorf("runtime: incomplete Dependencies: storage, network, physical clock, order clock, random, and crypto effects are all required")
	}

	log := diagnostics.New(diagnostics.ParseLevel(cfg.LogLevel))

	promReg := prometheus.NewRegistry()
	metrics, err := NewMetrics(cfg.Metrics.Namespace, promReg)
	if err != nil {
		return nil, fmt.Errorf("runtime: registering metrics: %w", err)
	}

	store := antientropy.NewMemoryStore()
	reconciler := antientropy.NewReconciler(store, deps.Verify)
	gossip := antientropy.NewBroadcaster(deps.Network)

	j := journal.New(deps.Storage, registry)
	flow := guard.NewFlowLedger()

	return &Runtime{
		Config:   cfg,
		Deps:     deps,
		Log:      log,
		Registry: promReg,
		Metrics:  metrics,
		Journal:  j,
		Acks:     journal.NewAckStorage(),
		Sessions: NewSessionManager(metrics),
		Sync:     reconciler,
		Gossip:   gossip,
		Flow:     flow,
		Exec:     NewExecutor(j, flow, deps.Network, metrics),
	}, nil
}

// Start launches the node's background loops under a fresh TaskRegistry
// derived from ctx: periodic anti-entropy reconciliation rounds against
// every connected peer. Start is idempotent only in the
// sense that calling it twice produces two independent task sets; callers
// should Stop before calling Start again.
func (r *Runtime) Start(ctx context.Context) {
	r.tasks = NewTaskRegistry(ctx, r.Log)
	r.tasks.Go("antientropy-sync-loop", r.runSyncLoop)
	r.tasks.Go("antientropy-recv-loop", r.runRecvLoop)
}

// Stop cancels and waits for every background task.
func (r *Runtime) Stop() error {
	if r.tasks == nil {
		return nil
	}
	return r.tasks.Stop()
}

func (r *Runtime) runSyncLoop(ctx context.Context) error {
	interval := r.Config.SyncConfig.Interval.Duration()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		peers, err := r.Deps.Network.ConnectedPeers(ctx)
		if err != nil {
			r.Log.Warn(ctx, "sync loop: listing connected peers failed", diagnostics.Fields("err", err)...)
		} else {
			for _, peer := range peers {
				r.runSyncRound(ctx, peer)
			}
			r.Metrics.SyncRounds.Add(float64(len(peers)))
		}

		if err := r.Deps.Physical.SleepMs(ctx, interval.Milliseconds()); err != nil {
			return err
		}
	}
}

// runRecvLoop drains inbound sync traffic and dispatches each message to
// HandleSyncMessage, completing the round-trip runSyncRound opens.
func (r *Runtime) runRecvLoop(ctx context.Context) error {
	for {
		peer, payload, err := r.Deps.Network.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.Log.Warn(ctx, "recv loop: receive failed", diagnostics.Fields("err", err)...)
			continue
		}
		if err := r.HandleSyncMessage(ctx, peer, payload); err != nil {
			r.Log.Warn(ctx, "recv loop: handling sync message failed", diagnostics.Fields("peer", peer, "err", err)...)
		}
	}
}

// HandleSyncMessage dispatches one inbound sync wire message: a digest is
// answered by pushing every op the peer's digest is missing, a pushed op
// is verified and merged, and an op request is answered with the op when
// held.
func (r *Runtime) HandleSyncMessage(ctx context.Context, peer string, payload []byte) error {
	msg, err := antientropy.DecodeSyncMessage(payload)
	if err != nil {
		return err
	}
	switch msg.Kind {
	case antientropy.SyncDigest:
		if msg.Digest == nil {
			return nil
		}
		ops := r.Sync.OpsToPush(*msg.Digest)
		for _, op := range ops {
			wire, err := antientropy.EncodeSyncMessage(antientropy.NewOpPushMessage(op))
			if err != nil {
				return err
			}
			if err := r.Deps.Network.Send(ctx, peer, wire); err != nil {
				return err
			}
		}
		if len(ops) > 0 {
			r.Metrics.SyncOpsPushed.Add(float64(len(ops)))
		}
	case antientropy.SyncOpPush:
		if msg.Op == nil {
			return nil
		}
		result := r.Sync.MergeBatch([]tree.AttestedOp{*msg.Op})
		if result.Applied > 0 {
			r.Metrics.SyncOpsPulled.Add(float64(result.Applied))
		}
	case antientropy.SyncOpRequest:
		if msg.Request == nil {
			return nil
		}
		op, ok := r.Sync.OpByCID(*msg.Request)
		if !ok {
			return nil
		}
		wire, err := antientropy.EncodeSyncMessage(antientropy.NewOpPushMessage(op))
		if err != nil {
			return err
		}
		if err := r.Deps.Network.Send(ctx, peer, wire); err != nil {
			return err
		}
		r.Metrics.SyncOpsPushed.Inc()
	}
	return nil
}

// runSyncRound advertises this node's digest to peer; the peer answers
// through HandleSyncMessage on its own recv loop.
func (r *Runtime) runSyncRound(ctx context.Context, peer string) {
	digest := r.Sync.LocalDigest(r.Config.SyncConfig.BloomBits, r.Config.SyncConfig.BloomHashes)
	payload, err := antientropy.EncodeSyncMessage(antientropy.NewDigestMessage(digest))
	if err != nil {
		r.Log.Error(ctx, "sync round: encoding digest failed", diagnostics.Fields("err", err)...)
		return
	}
	if err := r.Deps.Network.Send(ctx, peer, payload); err != nil {
		r.Log.Warn(ctx, "sync round: send failed", diagnostics.Fields("peer", peer, "err", err)...)
	}
}

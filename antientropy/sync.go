// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package antientropy

import (
	"sync"

	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/tree"
)

// SyncPayloadKind selects which variant a SyncMessage carries.
type SyncPayloadKind uint8

const (
	SyncDigest SyncPayloadKind = iota
	SyncOpPush
	SyncOpRequest
)

// SyncMessage is the sync wire message: `{ schema_version,
// payload: OneOf{Digest, OpPush, OpRequest} }`.
type SyncMessage struct {
	SchemaVersion uint16
	Kind          SyncPayloadKind
	Digest        *BloomDigest
	Op            *tree.AttestedOp
	Request       *ids.Hash32
}

// NewDigestMessage wraps a digest for the wire.
func NewDigestMessage(d BloomDigest) SyncMessage {
	return SyncMessage{SchemaVersion: 1, Kind: SyncDigest, Digest: &d}
}

// NewOpPushMessage wraps a single AttestedOp to push.
func NewOpPushMessage(op tree.AttestedOp) SyncMessage {
	return SyncMessage{SchemaVersion: 1, Kind: SyncOpPush, Op: &op}
}

// NewOpRequestMessage asks the peer to push the op identified by cid.
func NewOpRequestMessage(cid ids.Hash32) SyncMessage {
	return SyncMessage{SchemaVersion: 1, Kind: SyncOpRequest, Request: &cid}
}

// Store is the minimal view of local AttestedOp state antientropy needs:
// enough to build a digest, look an op up by cid, and accept one that
// verifies. package tree's AttestedOp set (the OR-set fed to
// tree.Reduce) is the concrete backing; Store lets this package stay
// independent of how the caller holds that set.
type Store interface {
	AllOps() []tree.AttestedOp
	HasOp(cid ids.Hash32) bool
	AddOp(op tree.AttestedOp) (applied bool)
}

// MemoryStore is a simple in-memory Store, sufficient as the default
// wiring; a production store typically layers this over effects.
// StorageEffects at the journal level instead, since AttestedOps are
// ultimately journaled as AttestedOpFact (package journal).
type MemoryStore struct {
	mu  sync.RWMutex
	ops map[ids.Hash32]tree.AttestedOp
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ops: make(map[ids.Hash32]tree.AttestedOp)}
}

func (s *MemoryStore) AllOps() []tree.AttestedOp {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]tree.AttestedOp, 0, len(s.ops))
	for _, op := range s.ops {
		out = append(out, op)
	}
	return out
}

func (s *MemoryStore) HasOp(cid ids.Hash32) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ops[cid]
	return ok
}

func (s *MemoryStore) AddOp(op tree.AttestedOp) bool {
	cid := tree.OpHash(op)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ops[cid]; ok {
		return false
	}
	s.ops[cid] = op
	return true
}

// Reconciler runs one side of a pull-based anti-entropy round; the
// requestor drives.
type Reconciler struct {
	store  Store
	verify tree.Verifier
}

// NewReconciler builds a Reconciler over store, verifying incoming ops
// with verify before accepting them.
func NewReconciler(store Store, verify tree.Verifier) *Reconciler {
	return &Reconciler{store: store, verify: verify}
}

// LocalDigest builds this reconciler's BloomDigest to advertise, sized m
// bits with k hash rounds.
func (r *Reconciler) LocalDigest(m, k uint32) BloomDigest {
	ops := r.store.AllOps()
	cids := make([]ids.Hash32, len(ops))
	for i, op := range ops {
		cids[i] = tree.OpHash(op)
	}
	return NewBloomDigest(cids, m, k)
}

// OpsToPush computes which locally held ops the remote digest is
// missing, as the requestor would ahead of pushing them.
func (r *Reconciler) OpsToPush(remote BloomDigest) []tree.AttestedOp {
	local := r.LocalDigest(remote.M, remote.K)
	wanted := ComputeOpsToPush(local, remote)
	wantedSet := make(map[ids.Hash32]struct{}, len(wanted))
	for _, cid := range wanted {
		wantedSet[cid] = struct{}{}
	}
	var out []tree.AttestedOp
	for _, op := range r.store.AllOps() {
		if _, ok := wantedSet[tree.OpHash(op)]; ok {
			out = append(out, op)
		}
	}
	return out
}

// OpByCID returns the locally held op with the given content hash, for
// answering an OpRequest.
func (r *Reconciler) OpByCID(cid ids.Hash32) (tree.AttestedOp, bool) {
	for _, op := range r.store.AllOps() {
		if tree.OpHash(op) == cid {
			return op, true
		}
	}
	return tree.AttestedOp{}, false
}

// MergeResult reports how many ops a MergeBatch call actually applied vs.
// found already present, so a subsequent pass of the same batch reports
// applied == 0.
type MergeResult struct {
	Applied    int
	Duplicates int
	Rejected   int
}

// MergeBatch verifies and applies a batch of incoming ops. Idempotent:
// re-merging the same batch reports Applied == 0 on the second call. An op
// whose aggregate signature fails Verifier is counted Rejected, not applied —
// anti-entropy never merges an op it cannot authenticate against the tree it
// is bound to.
func (r *Reconciler) MergeBatch(ops []tree.AttestedOp) MergeResult {
	var result MergeResult
	for _, op := range ops {
		if r.verify != nil && !r.verify(op.Op.ParentEpoch, op.Op.ParentCommitment, op) {
			result.Rejected++
			continue
		}
		if r.store.AddOp(op) {
			result.Applied++
		} else {
			result.Duplicates++
		}
	}
	return result
}

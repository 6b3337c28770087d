// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package antientropy

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/aura-net/aura/effects"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
	"github.com/aura-net/aura/tree"
)

// Broadcaster eagerly pushes newly produced AttestedOps to the connected
// neighborhood, tracking acknowledgments for
// delivery bookkeeping and backing off a peer to digest-only advertising
// once that peer is known to be lagging.
type Broadcaster struct {
	net effects.NetworkEffects

	mu      sync.Mutex
	lagging map[string]struct{}
	acked   map[ids.Hash32]map[string]struct{}
}

// NewBroadcaster wraps net for eager push broadcast.
func NewBroadcaster(net effects.NetworkEffects) *Broadcaster {
	return &Broadcaster{
		net:     net,
		lagging: make(map[string]struct{}),
		acked:   make(map[ids.Hash32]map[string]struct{}),
	}
}

// MarkLagging flags peer as behind its flow-receipt-derived rate budget;
// subsequent Push calls send that peer only a digest rather than the full
// op.
func (b *Broadcaster) MarkLagging(peer string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lagging[peer] = struct{}{}
}

// ClearLagging removes peer's backoff once it has caught up.
func (b *Broadcaster) ClearLagging(peer string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.lagging, peer)
}

func (b *Broadcaster) isLagging(peer string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.lagging[peer]
	return ok
}

// Push broadcasts op to peers: a lagging peer receives only a digest over
// the single op's cid (cheap, lets it request the full op once it catches
// up); every other peer receives the op itself.
func (b *Broadcaster) Push(ctx context.Context, peers []string, op tree.AttestedOp, m, k uint32) error {
	cid := tree.OpHash(op)
	full, err := EncodeSyncMessage(NewOpPushMessage(op))
	if err != nil {
		return err
	}
	digestMsg, err := EncodeSyncMessage(NewDigestMessage(NewBloomDigest([]ids.Hash32{cid}, m, k)))
	if err != nil {
		return err
	}

	sorted := append([]string(nil), peers...)
	sort.Strings(sorted)
	for _, peer := range sorted {
		payload := full
		if b.isLagging(peer) {
			payload = digestMsg
		}
		if err := b.net.Send(ctx, peer, payload); err != nil {
			return fmt.Errorf("%w: broadcast to %s: %v", aurerr.ErrNetworkIO, peer, err)
		}
	}
	return nil
}

// Ack records that peer acknowledged cid, closing the delivery-tracking
// loop.
func (b *Broadcaster) Ack(cid ids.Hash32, peer string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.acked[cid]
	if !ok {
		set = make(map[string]struct{})
		b.acked[cid] = set
	}
	set[peer] = struct{}{}
}

// Acked returns which peers have acknowledged cid.
func (b *Broadcaster) Acked(cid ids.Hash32) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	set := b.acked[cid]
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// EncodeSyncMessage renders msg to its wire bytes. A plain JSON envelope is
// used (as elsewhere in this module, see journal.FactEnvelope's Encoding
// enum) rather than a bincode/protobuf framing, since no such codec is
// wired into this module's dependency set.
func EncodeSyncMessage(msg SyncMessage) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", aurerr.ErrEncodeFailed, err)
	}
	return b, nil
}

// DecodeSyncMessage parses wire bytes produced by EncodeSyncMessage.
func DecodeSyncMessage(b []byte) (SyncMessage, error) {
	var msg SyncMessage
	if err := json.Unmarshal(b, &msg); err != nil {
		return SyncMessage{}, fmt.Errorf("%w: %v", aurerr.ErrDecodeFailed, err)
	}
	return msg, nil
}

// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package guard

import (
	"fmt"
	"sync"

	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
	"github.com/aura-net/aura/journal"
)

type flowKey struct {
	Context ids.ContextId
	Peer    ids.AuthorityId
	Epoch   uint64
}

type flowEntry struct {
	Spent uint64
	Head  ids.Hash32
}

// FlowLedger tracks observed flow spend per (context, peer, epoch) and the
// head of each receipt chain. Apply is compare-and-swap on the chain head:
// a receipt is accepted only if its PrevReceiptHash matches the current
// head, so two racing executors cannot double-apply a charge. Re-applying
// the head receipt itself is a no-op, making Apply idempotent within a
// (context, peer, epoch).
type FlowLedger struct {
	mu      sync.Mutex
	entries map[flowKey]flowEntry
}

// NewFlowLedger constructs an empty ledger.
func NewFlowLedger() *FlowLedger {
	return &FlowLedger{entries: make(map[flowKey]flowEntry)}
}

// Observed returns the spend and receipt-chain head already recorded for
// (context, peer, epoch), the values a caller folds into GuardSnapshot's
// FlowUsed and a Request's PrevReceiptHash before Evaluate.
func (l *FlowLedger) Observed(context ids.ContextId, peer ids.AuthorityId, epoch uint64) (spent uint64, head ids.Hash32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.entries[flowKey{Context: context, Peer: peer, Epoch: epoch}]
	return e.Spent, e.Head
}

// Apply advances the receipt chain for the receipt's (context, peer,
// epoch). A receipt whose hash already is the head is accepted silently; a
// receipt chained to anything other than the current head fails with
// InvariantBroken, signalling the caller to rebuild its snapshot from
// Observed and re-evaluate.
func (l *FlowLedger) Apply(r journal.FlowReceipt) error {
	key := flowKey{Context: r.Context, Peer: r.To, Epoch: r.Epoch}
	h := ReceiptHash(r)

	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.entries[key]
	if e.Head == h {
		return nil
	}
	if r.PrevReceiptHash != e.Head {
		return fmt.Errorf("%w: receipt chained to %s, ledger head is %s", aurerr.ErrInvariantBroken, r.PrevReceiptHash, e.Head)
	}
	l.entries[key] = flowEntry{Spent: r.Spent, Head: h}
	return nil
}

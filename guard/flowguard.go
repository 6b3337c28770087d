// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package guard

import (
	"fmt"

	"github.com/aura-net/aura/auracrypto"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
	"github.com/aura-net/aura/journal"
)

// FlowGuard charges hint against the budget snapshot describes: pure
// evaluation only — it neither mutates nor reads a shared ledger directly.
// snapshot.FlowUsed/FlowLimit are the ledger's already-observed spend for
// (hint.Context, hint.Peer, epoch), supplied by the caller; the hash-chained
// Receipt FlowGuard returns must be applied to the ledger (FlowLedger.Apply)
// by the executor once JournalCoupler also succeeds, preserving
// "charge-before-send" without FlowGuard itself performing I/O.
func FlowGuard(snapshot GuardSnapshot, hint FlowHint, epoch uint64, prevReceiptHash ids.Hash32) (Decision, *journal.FlowReceipt) {
	spent := snapshot.FlowUsed + hint.Cost
	if spent > snapshot.FlowLimit {
		return Deny(fmt.Errorf("%w: %d exceeds limit %d for (%s,%s,%d)", aurerr.ErrBudgetExceeded, spent, snapshot.FlowLimit, hint.Context, hint.Peer, epoch)), nil
	}
	receipt := journal.FlowReceipt{
		Context:         hint.Context,
		From:            snapshot.Authority,
		To:              hint.Peer,
		Epoch:           epoch,
		Cost:            hint.Cost,
		Spent:           spent,
		PrevReceiptHash: prevReceiptHash,
	}
	return Allow(), &receipt
}

// ReceiptHash computes the content hash chaining one receipt to the next,
// the link FlowGuard's PrevReceiptHash argument and ReceiptChain both rely
// on.
func ReceiptHash(r journal.FlowReceipt) ids.Hash32 {
	var epochB, costB, spentB [8]byte
	for i := 0; i < 8; i++ {
		epochB[i] = byte(r.Epoch >> (8 * i))
		costB[i] = byte(r.Cost >> (8 * i))
		spentB[i] = byte(r.Spent >> (8 * i))
	}
	return auracrypto.Hash("aura/flow/receipt",
		r.Context[:], r.From[:], r.To[:],
		epochB[:], costB[:], spentB[:], r.PrevReceiptHash.Bytes())
}

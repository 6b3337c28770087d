// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package protocol

import (
	"github.com/aura-net/aura/auracrypto"
	"github.com/aura-net/aura/auratime"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/journal"
)

// Cut is a proposed garbage-collection boundary: every fact at or before
// Order is eligible for pruning once the cut is quorum-signed and
// committed.
type Cut struct {
	Order auratime.OrderTime
}

// cutHash content-addresses a Cut for SnapshotCommitted's CutOrder field.
func cutHash(cut Cut) ids.Hash32 {
	return auracrypto.HashBytes(cut.Order[:])
}

// CommitSnapshot produces the SnapshotCommitted fact once a quorum has
// signed cut.
// merkleRoot commits to the full state as of the cut, letting a peer
// restoring from the snapshot verify it without replaying the pruned facts.
func CommitSnapshot(cut Cut, merkleRoot ids.Hash32) journal.SnapshotCommitted {
	return journal.SnapshotCommitted{CutOrder: cutHash(cut), MerkleRoot: merkleRoot}
}

// CanPrune reports whether fact may be dropped from the live log given a
// committed cut. Three independent gates, ALL of which must hold:
// 1. fact.Order must not be after cut.Order (only facts covered by the
// cut are even candidates);
// 2. acks.SafeToPrune must hold for fact against requiredAcceptors;
// 3. localProtocolVersion must be >= minSupportedVersion — peers at
// lower protocol versions refuse prune and continue to merge, since an
// older peer may not understand the pruned fact's schema well enough to
// safely drop it.
func CanPrune(fact journal.Fact, cut Cut, acks *journal.AckStorage, requiredAcceptors []ids.AuthorityId, localProtocolVersion, minSupportedVersion uint16) bool {
	if auratime.Less(cut.Order, fact.Order) {
		return false
	}
	if localProtocolVersion < minSupportedVersion {
		return false
	}
	return acks.SafeToPrune(fact.Hash(), requiredAcceptors)
}

// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package auracrypto

import "github.com/aura-net/aura/ids"

// MerkleRoot folds a list of leaf hashes into a single root using the same
// domain-tagged Blake3 combinator as tree commitments (Commitment). Internal
// nodes are hashed under the "merkle/node" tag; leaves are taken as given
// and are not re-hashed, so a single-leaf root is the leaf itself. Used by
// the snapshot/GC cut to commit to
// the set of facts below a cut without transmitting all of them.
func MerkleRoot(leaves []ids.Hash32) ids.Hash32 {
	if len(leaves) == 0 {
		return Hash("merkle/empty")
	}
	level := make([]ids.Hash32, len(leaves))
	copy(level, leaves)
	for len(level) > 1 {
		next := make([]ids.Hash32, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, Hash("merkle/node", level[i].Bytes(), level[i+1].Bytes()))
			} else {
				next = append(next, Hash("merkle/node", level[i].Bytes(), level[i].Bytes()))
			}
		}
		level = next
	}
	return level[0]
}

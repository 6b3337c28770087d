// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package antientropy implements Aura's digest-based peer reconciliation and
// broadcast: each peer advertises a BloomDigest over its
// AttestedOp content hashes, sync is pull-based (the requestor drives), and
// merge is idempotent so repeated reconciliation rounds converge without
// re-applying anything. The digest is a small, false-positive-tolerant
// index in front of the authoritative set, not a replacement for it.
package antientropy

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/aura-net/aura/auracrypto"
	"github.com/aura-net/aura/ids"
)

// BloomDigest is the wire form a peer advertises:
// CIDs is the exact content-hash set the reconciliation formula operates
// over; Bits/M/K is a real Bloom filter over the same set,
// used to cheaply test membership without scanning CIDs — useful once a
// peer's journal is large enough that transmitting Bits alone (and
// following up with OpRequest for anything MayContain can't rule out) is
// cheaper than transmitting every CID.
type BloomDigest struct {
	CIDs []ids.Hash32
	Bits *bitset.BitSet
	M    uint32
	K    uint32
}

// bitIndex computes the i'th of k hash positions for cid within an m-bit
// filter, using auracrypto.Hash with an index-tagged domain so the k
// positions are independent without needing k separate hash functions.
func bitIndex(cid ids.Hash32, i uint32, m uint32) uint {
	h := auracrypto.Hash("antientropy/bloom", cid.Bytes(), []byte{byte(i), byte(i >> 8)})
	var v uint64
	for j := 0; j < 8; j++ {
		v = v<<8 | uint64(h[j])
	}
	return uint(v % uint64(m))
}

// NewBloomDigest builds a digest over cids sized to m bits and k hash
// rounds. Typical defaults (k=7, m sized for a 1% false-positive rate at
// the expected set size) are the caller's choice; NewBloomDigest does not
// pick them itself since the right tradeoff depends on journal size, which
// this package does not track.
func NewBloomDigest(cids []ids.Hash32, m, k uint32) BloomDigest {
	bits := bitset.New(uint(m))
	for _, cid := range cids {
		for i := uint32(0); i < k; i++ {
			bits.Set(bitIndex(cid, i, m))
		}
	}
	cidsCopy := make([]ids.Hash32, len(cids))
	copy(cidsCopy, cids)
	return BloomDigest{CIDs: cidsCopy, Bits: bits, M: m, K: k}
}

// MayContain reports whether cid might be a member of the digest's set: a
// false "false" never occurs (no false negatives), but a true "true" may be
// a false positive. Used as a cheap pre-filter before consulting CIDs.
func (d BloomDigest) MayContain(cid ids.Hash32) bool {
	if d.Bits == nil || d.M == 0 {
		return false
	}
	for i := uint32(0); i < d.K; i++ {
		if !d.Bits.Test(bitIndex(cid, i, d.M)) {
			return false
		}
	}
	return true
}

// cidSet indexes CIDs for exact set-membership tests, the authoritative
// form the reconciliation formula operates over.
func (d BloomDigest) cidSet() map[ids.Hash32]struct{} {
	set := make(map[ids.Hash32]struct{}, len(d.CIDs))
	for _, c := range d.CIDs {
		set[c] = struct{}{}
	}
	return set
}

// ComputeOpsToPush computes the reconciliation set
// `{ op | cid(op) ∈ local.cids ∧ cid(op) ∉ remote.cids }`: the ops the
// local peer holds that the remote peer's digest does not yet cover, and
// therefore should push.
func ComputeOpsToPush(local, remote BloomDigest) []ids.Hash32 {
	remoteSet := remote.cidSet()
	var out []ids.Hash32
	for _, cid := range local.CIDs {
		if _, ok := remoteSet[cid]; !ok {
			out = append(out, cid)
		}
	}
	return out
}

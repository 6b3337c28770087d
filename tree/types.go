// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package tree implements Aura's commitment tree: a
// binary policy tree of devices/guardians, deterministically
// reduced from the OR-set of AttestedOp facts in the journal. Branches
// link their children by pointer and store a commitment hash over them.
// Each leaf sits at the path its AddLeaf op names; the reducer neither
// rebalances the tree nor checks that it stays left-balanced.
package tree

import (
	"github.com/aura-net/aura/ids"
)

// Role distinguishes a device leaf from a guardian leaf.
type Role uint8

const (
	RoleDevice Role = iota
	RoleGuardian
)

// PolicyKind selects the policy variant.
type PolicyKind uint8

const (
	// PolicyAll requires every leaf under the branch to co-sign.
	PolicyAll PolicyKind = iota
	// PolicyThreshold requires M of N leaves under the branch.
	PolicyThreshold
	// PolicyAny requires a single leaf under the branch.
	PolicyAny
)

// Policy is a meet-semilattice over authorization requirements
//: All ⊓ Threshold{m,n} ⊓ Any, refinement is
// smaller (more restrictive).
type Policy struct {
	Kind PolicyKind
	M    uint16 // meaningful when Kind == PolicyThreshold
	N    uint16
}

// rank orders policies from least to most restrictive for the Refine meet:
// Any(loosest) < Threshold < All(strictest). Refine always returns the more
// restrictive (smaller, in the semilattice) of the two.
func (p Policy) rank() int {
	switch p.Kind {
	case PolicyAny:
		return 0
	case PolicyThreshold:
		return 1
	case PolicyAll:
		return 2
	default:
		return 0
	}
}

// Refine computes the meet of two policies: the more restrictive of the
// two. Two Threshold policies
// refine to the one requiring proportionally more signers.
func (p Policy) Refine(other Policy) Policy {
	if p.Kind == PolicyThreshold && other.Kind == PolicyThreshold {
		// Compare required fraction m/n; ties keep the larger m.
		if p.M*other.N > other.M*p.N || (p.M*other.N == other.M*p.N && p.M >= other.M) {
			return p
		}
		return other
	}
	if p.rank() >= other.rank() {
		return p
	}
	return other
}

// Satisfies reports whether a coalition of size signerCount (drawn from the
// leaves under this branch) meets the policy.
func (p Policy) Satisfies(signerCount, totalLeaves uint16) bool {
	switch p.Kind {
	case PolicyAll:
		return signerCount >= totalLeaves
	case PolicyAny:
		return signerCount >= 1
	case PolicyThreshold:
		return signerCount >= p.M
	default:
		return false
	}
}

// LeafNode is a device or guardian leaf in the commitment tree.
type LeafNode struct {
	ID        ids.ID
	Role      Role
	PublicKey []byte
}

// BranchNode is an internal node carrying a policy and the commitment to
// its subtree.
type BranchNode struct {
	Policy     Policy
	Commitment ids.Hash32
	Left       *Node
	Right      *Node
}

// Node is a tagged union of leaf/branch, forming the binary policy
// tree. A nil *Node represents an absent child.
type Node struct {
	Leaf   *LeafNode
	Branch *BranchNode
}

// Commitment returns the content hash committed to by this node: a leaf's
// public key hash, or a branch's stored commitment.
func (n *Node) Commitment(leafHash func(*LeafNode) ids.Hash32) ids.Hash32 {
	if n == nil {
		return ids.Hash32{}
	}
	if n.Leaf != nil {
		return leafHash(n.Leaf)
	}
	return n.Branch.Commitment
}

// TreeOpKind enumerates the mutation kinds a TreeOp may carry.
type TreeOpKind uint8

const (
	OpAddLeaf TreeOpKind = iota
	OpRemoveLeaf
	OpRotatePath
	OpRotateEpoch
	OpChangePolicy
)

// TreeOp is the un-signed mutation payload.
type TreeOp struct {
	ParentEpoch      uint64
	ParentCommitment ids.Hash32
	Kind             TreeOpKind
	Version          uint16

	// Operands, populated according to Kind.
	LeafPath   []bool // left=false, right=true, root-to-target path
	NewLeaf    *LeafNode
	NewPolicy  *Policy
	NewPathKey []byte // fresh leaf public key bound by RotatePath
}

// AttestedOp wraps a TreeOp with its aggregated FROST signature.
// Valid iff AggSig verifies against the group public key
// bound to (ParentEpoch, ParentCommitment). Its content hash is
// computed by OpHash.
type AttestedOp struct {
	Op          TreeOp
	AggSig      []byte
	SignerCount uint16
}

// State is the reduced commitment-tree state.
type State struct {
	Root       *Node
	Epoch      uint64
	Commitment ids.Hash32
	Superseded []ids.Hash32 // hashes of AttestedOps that lost a sibling race
}

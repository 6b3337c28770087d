// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package tree

import (
	"bytes"
	"fmt"

	"github.com/aura-net/aura/auracrypto"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
)

// parentKey identifies the tree state an AttestedOp is bound to.
type parentKey struct {
	epoch      uint64
	commitment ids.Hash32
}

// Verifier checks an AttestedOp's aggregate signature against the group
// public key committed at (parentEpoch, parentCommitment).
// Supplied by the caller (runtime composition), since the
// group key lives in the ceremony/commitment layer, not in this package.
type Verifier func(parentEpoch uint64, parentCommitment ids.Hash32, op AttestedOp) bool

// genesisCommitment is the commitment of the empty tree at epoch 0.
func genesisCommitment() ids.Hash32 {
	return auracrypto.Hash("tree/genesis")
}

// leafHash is the content hash committed to by a leaf: its id, role, and
// public key, so path rotation (which changes PublicKey) changes every
// ancestor's commitment.
func leafHash(l *LeafNode) ids.Hash32 {
	if l == nil {
		return ids.Hash32{}
	}
	return auracrypto.Hash("tree/leaf", l.ID[:], []byte{byte(l.Role)}, l.PublicKey)
}

func policyBytes(p Policy) []byte {
	return []byte{byte(p.Kind), byte(p.M), byte(p.M >> 8), byte(p.N), byte(p.N >> 8)}
}

// recomputeCommitment walks the subtree bottom-up recomputing every branch
// commitment from its children and policy:
// commitment = Blake3(tag || left.commit || right.commit || policy-bytes).
func recomputeCommitment(n *Node) ids.Hash32 {
	if n == nil {
		return ids.Hash32{}
	}
	if n.Leaf != nil {
		return leafHash(n.Leaf)
	}
	left := recomputeCommitment(n.Branch.Left)
	right := recomputeCommitment(n.Branch.Right)
	n.Branch.Commitment = auracrypto.Commitment("tree/branch", left, right, policyBytes(n.Branch.Policy))
	return n.Branch.Commitment
}

// OpHash computes AttestedOp's content hash: the identity anti-entropy's
// Bloom digest advertises cids over, and the sibling lexicographic
// tie-break input (largest hash wins).
func OpHash(op AttestedOp) ids.Hash32 { return opHash(op) }

// opHash is OpHash's unexported implementation, kept so in-package callers
// don't pay an extra indirection.
func opHash(op AttestedOp) ids.Hash32 {
	buf := new(bytes.Buffer)
	var epochB [8]byte
	for i := 0; i < 8; i++ {
		epochB[i] = byte(op.Op.ParentEpoch >> (8 * i))
	}
	buf.Write(epochB[:])
	buf.Write(op.Op.ParentCommitment.Bytes())
	buf.WriteByte(byte(op.Op.Kind))
	buf.WriteByte(byte(op.Op.Version))
	for _, bit := range op.Op.LeafPath {
		if bit {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	}
	if op.Op.NewLeaf != nil {
		buf.Write(leafHash(op.Op.NewLeaf).Bytes())
	}
	if op.Op.NewPolicy != nil {
		buf.Write(policyBytes(*op.Op.NewPolicy))
	}
	buf.Write(op.Op.NewPathKey)
	buf.Write(op.AggSig)
	return auracrypto.Hash("tree/attested-op", buf.Bytes())
}

// navigate returns the *Node pointer slot at path, creating intermediate
// branch nodes (with PolicyAll until overridden) as needed when create is
// true.
func navigate(root **Node, path []bool, create bool) (**Node, error) {
	cur := root
	for _, bit := range path {
		if *cur == nil {
			if !create {
				return nil, fmt.Errorf("%w: path does not exist", aurerr.ErrInvariantBroken)
			}
			*cur = &Node{Branch: &BranchNode{Policy: Policy{Kind: PolicyAll}}}
		}
		if (*cur).Leaf != nil {
			return nil, fmt.Errorf("%w: path descends through a leaf", aurerr.ErrInvariantBroken)
		}
		if bit {
			cur = &(*cur).Branch.Right
		} else {
			cur = &(*cur).Branch.Left
		}
	}
	return cur, nil
}

func countLeaves(n *Node) uint16 {
	if n == nil {
		return 0
	}
	if n.Leaf != nil {
		return 1
	}
	return countLeaves(n.Branch.Left) + countLeaves(n.Branch.Right)
}

// apply performs one TreeOpKind mutation against root, returning the new
// root and bumped epoch. It is intentionally conservative: invariant
// violations return InvariantBroken rather than silently repairing state.
func apply(root *Node, epoch uint64, op TreeOp) (*Node, uint64, error) {
	switch op.Kind {
	case OpAddLeaf:
		if op.NewLeaf == nil {
			return nil, 0, fmt.Errorf("%w: AddLeaf missing leaf", aurerr.ErrInvariantBroken)
		}
		slot, err := navigate(&root, op.LeafPath, true)
		if err != nil {
			return nil, 0, err
		}
		if *slot != nil {
			return nil, 0, fmt.Errorf("%w: AddLeaf target occupied", aurerr.ErrInvariantBroken)
		}
		*slot = &Node{Leaf: op.NewLeaf}
		return root, epoch + 1, nil

	case OpRemoveLeaf:
		slot, err := navigate(&root, op.LeafPath, false)
		if err != nil {
			return nil, 0, err
		}
		if *slot == nil || (*slot).Leaf == nil {
			return nil, 0, fmt.Errorf("%w: RemoveLeaf target is not a leaf", aurerr.ErrInvariantBroken)
		}
		*slot = nil
		return root, epoch + 1, nil

	case OpRotatePath:
		slot, err := navigate(&root, op.LeafPath, false)
		if err != nil {
			return nil, 0, err
		}
		if *slot == nil || (*slot).Leaf == nil {
			return nil, 0, fmt.Errorf("%w: RotatePath target is not a leaf", aurerr.ErrInvariantBroken)
		}
		(*slot).Leaf.PublicKey = op.NewPathKey
		return root, epoch + 1, nil

	case OpRotateEpoch:
		// Pure epoch bump with no structural change, used to fence
		// subsequent mutations (e.g. after an OTA HardFork commit).
		return root, epoch + 1, nil

	case OpChangePolicy:
		if op.NewPolicy == nil {
			return nil, 0, fmt.Errorf("%w: ChangePolicy missing policy", aurerr.ErrInvariantBroken)
		}
		slot, err := navigate(&root, op.LeafPath, false)
		if err != nil {
			return nil, 0, err
		}
		if *slot == nil || (*slot).Branch == nil {
			return nil, 0, fmt.Errorf("%w: ChangePolicy target is not a branch", aurerr.ErrInvariantBroken)
		}
		(*slot).Branch.Policy = *op.NewPolicy
		return root, epoch + 1, nil

	default:
		return nil, 0, fmt.Errorf("%w: unknown op kind", aurerr.ErrInvariantBroken)
	}
}

// Reduce derives TreeState from an OR-set of AttestedOps.
// Ops not reachable from genesis by a chain of valid parent bindings are
// simply never applied (they remain in the OR-set but outside the reduced
// frontier); ops that lose a same-parent sibling race are recorded in
// State.Superseded. Reduce is deterministic and confluent: any permutation
// of ops that is itself a valid input set produces identical output.
func Reduce(ops []AttestedOp, verify Verifier) (State, error) {
	byParent := make(map[parentKey][]AttestedOp)
	for _, op := range ops {
		if verify != nil && !verify(op.Op.ParentEpoch, op.Op.ParentCommitment, op) {
			continue // invalid-signature ops are dropped, not erred
		}
		k := parentKey{epoch: op.Op.ParentEpoch, commitment: op.Op.ParentCommitment}
		byParent[k] = append(byParent[k], op)
	}

	state := State{Root: nil, Epoch: 0, Commitment: genesisCommitment()}

	for {
		k := parentKey{epoch: state.Epoch, commitment: state.Commitment}
		candidates, ok := byParent[k]
		if !ok || len(candidates) == 0 {
			break
		}

		winner := candidates[0]
		winnerHash := opHash(winner)
		for _, c := range candidates[1:] {
			ch := opHash(c)
			if bytes.Compare(ch.Bytes(), winnerHash.Bytes()) > 0 {
				state.Superseded = append(state.Superseded, winnerHash)
				winner, winnerHash = c, ch
			} else {
				state.Superseded = append(state.Superseded, ch)
			}
		}

		newRoot, newEpoch, err := apply(state.Root, state.Epoch, winner.Op)
		if err != nil {
			return state, err
		}
		recomputeCommitment(newRoot)
		state.Root = newRoot
		state.Epoch = newEpoch
		state.Commitment = recomputeCommitment(newRoot)
		if state.Root == nil {
			state.Commitment = genesisCommitment()
		}
	}

	return state, nil
}

// AuthorizedSignerCount reports how many leaves (by count, not weight) sit
// under the branch reached by path, for evaluating Policy.Satisfies.
func AuthorizedSignerCount(root *Node, path []bool) (total uint16, err error) {
	slot, err := navigate(&root, path, false)
	if err != nil {
		return 0, err
	}
	return countLeaves(*slot), nil
}

// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package journal

import (
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/tree"
)

// MembershipView is the reduced membership/commitment-tree facet of journal
// state, produced by folding every
// AttestedOpFact through tree.Reduce. Kept alongside the other built-in
// views rather than only inside package tree, since callers generally want
// all four views from one pass over the journal.
type MembershipView struct {
	Tree tree.State
}

// CapabilityView tracks guardian bindings and the most recent recovery
// state per account.
type CapabilityView struct {
	Guardians map[ids.AccountId][]ids.GuardianId
	Grants    map[ids.AccountId]map[ids.GuardianId]ids.Hash32 // guardian -> grant hash, keyed per prestate implicitly by latest grant
	Committed map[ids.AccountId]ids.Hash32 // account -> committed prestate
}

// ChannelEpochView is AMP's reduced per-channel epoch state:
// only CommittedChannelEpochBump facts advance Epoch; Proposed facts are
// visible for diagnostics but never change it.
type ChannelEpochView struct {
	Epoch     map[ids.ChannelId]uint64
	CkCommit  map[ids.ChannelId]ids.Hash32
	Proposals map[ids.ChannelId][]ProposedChannelEpochBump
	Policy    map[ids.ChannelId]ChannelPolicy
}

// SocialView is the social-topology facet: the bounded contact graph
// consumed by invitation and recovery.
type SocialView struct {
	Contacts map[ids.AuthorityId]map[ids.AuthorityId]string // authority -> peer -> nickname
}

// Views bundles every built-in reduced view.
type Views struct {
	Membership MembershipView
	Capability CapabilityView
	Channel    ChannelEpochView
	Social     SocialView
}

func newViews() Views {
	return Views{
		Capability: CapabilityView{
			Guardians: make(map[ids.AccountId][]ids.GuardianId),
			Grants:    make(map[ids.AccountId]map[ids.GuardianId]ids.Hash32),
			Committed: make(map[ids.AccountId]ids.Hash32),
		},
		Channel: ChannelEpochView{
			Epoch:     make(map[ids.ChannelId]uint64),
			CkCommit:  make(map[ids.ChannelId]ids.Hash32),
			Proposals: make(map[ids.ChannelId][]ProposedChannelEpochBump),
			Policy:    make(map[ids.ChannelId]ChannelPolicy),
		},
		Social: SocialView{
			Contacts: make(map[ids.AuthorityId]map[ids.AuthorityId]string),
		},
	}
}

// ReduceViews folds every fact the journal currently holds, in its total
// order, into the four built-in views. AttestedOpFacts are
// collected and handed to tree.Reduce as a batch, since tree state isn't an
// incremental fold the way the other three views are — a later op can
// supersede an earlier one's sibling.
func (j *Journal) ReduceViews(verify tree.Verifier) (Views, error) {
	facts := j.All()
	views := newViews()

	var treeOps []tree.AttestedOp
	for _, f := range facts {
		rel := f.Content.Relational
		if rel == nil {
			continue
		}
		switch v := rel.(type) {
		case AttestedOpFact:
			treeOps = append(treeOps, v.Op)

		case ContactFormed:
			addContact(views.Social.Contacts, v.A, v.B, v.Nickname)
			addContact(views.Social.Contacts, v.B, v.A, v.Nickname)

		case GuardianBinding:
			views.Capability.Guardians[v.AccountID] = append(views.Capability.Guardians[v.AccountID], v.GuardianID)

		case RecoveryGrant:
			m, ok := views.Capability.Grants[v.AccountID]
			if !ok {
				m = make(map[ids.GuardianId]ids.Hash32)
				views.Capability.Grants[v.AccountID] = m
			}
			m[v.GuardianID] = v.GrantHash

		case RecoveryCommit:
			views.Capability.Committed[v.AccountID] = v.Prestate

		case ChannelPolicy:
			views.Channel.Policy[v.Channel] = v

		case ProposedChannelEpochBump:
			views.Channel.Proposals[v.Channel] = append(views.Channel.Proposals[v.Channel], v)

		case CommittedChannelEpochBump:
			if v.Epoch > views.Channel.Epoch[v.Channel] {
				views.Channel.Epoch[v.Channel] = v.Epoch
				views.Channel.CkCommit[v.Channel] = v.CkCommitment
			}
		}
	}

	treeState, err := tree.Reduce(treeOps, verify)
	if err != nil {
		return views, err
	}
	views.Membership = MembershipView{Tree: treeState}
	return views, nil
}

func addContact(m map[ids.AuthorityId]map[ids.AuthorityId]string, from, to ids.AuthorityId, nickname string) {
	peers, ok := m[from]
	if !ok {
		peers = make(map[ids.AuthorityId]string)
		m[from] = peers
	}
	peers[to] = nickname
}

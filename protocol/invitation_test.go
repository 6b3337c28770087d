// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aura-net/aura/auratime"
	"github.com/aura-net/aura/ids"
)

func nonce32(b byte) []byte {
	n := make([]byte, 32)
	n[0] = b
	return n
}

func TestInvitationIssueExportParseAcceptRoundTrip(t *testing.T) {
	sender := ids.AuthorityId{1}
	accepter := ids.AuthorityId{2}
	expiry := auratime.PhysicalClock{Millis: 1000}
	now := auratime.PhysicalClock{Millis: 500}

	inv, err := Issue(sender, InvitationType{Kind: InvitationContact, Nickname: "alice"}, expiry, nonce32(9), nil)
	require.NoError(t, err)

	code, err := Export(inv)
	require.NoError(t, err)

	parsed, err := Parse(code)
	require.NoError(t, err)
	require.Equal(t, inv.Sender, parsed.Sender)
	require.Equal(t, inv.Type.Nickname, parsed.Type.Nickname)

	facts, err := Accept(parsed, accepter, now)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	contact, ok := facts[0].(interface{ Kind() string })
	require.True(t, ok)
	require.Equal(t, "contact_formed", contact.Kind())
}

func TestInvitationAcceptRejectsExpired(t *testing.T) {
	sender := ids.AuthorityId{1}
	accepter := ids.AuthorityId{2}
	inv, err := Issue(sender, InvitationType{Kind: InvitationContact}, auratime.PhysicalClock{Millis: 100}, nonce32(1), nil)
	require.NoError(t, err)

	_, err = Accept(inv, accepter, auratime.PhysicalClock{Millis: 200})
	require.Error(t, err)
}

func TestInvitationGuardianKindEmitsBinding(t *testing.T) {
	sender := ids.AuthorityId{1}
	accepter := ids.AuthorityId{2}
	account := ids.AccountId{3}
	inv, err := Issue(sender, InvitationType{Kind: InvitationGuardian, AccountID: account}, auratime.PhysicalClock{Millis: 1000}, nonce32(2), nil)
	require.NoError(t, err)

	facts, err := Accept(inv, accepter, auratime.PhysicalClock{Millis: 1})
	require.NoError(t, err)
	require.Len(t, facts, 2)
	binding, ok := facts[1].(interface{ Kind() string })
	require.True(t, ok)
	require.Equal(t, "guardian_binding", binding.Kind())
}

// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewScriptRejectsNonLinearRole(t *testing.T) {
	_, err := NewScript("bad", []Transition{
		{From: "a", Role: "sender", To: "b"},
		{From: "a", Role: "sender", To: "c"},
	}, []Step{"b", "c"})
	require.Error(t, err)
}

func TestInvitationScriptHappyPath(t *testing.T) {
	script, err := InvitationScript()
	require.NoError(t, err)

	sender := NewSession(script, "sender", "open")
	_, err = sender.Advance()
	require.NoError(t, err)
	require.Equal(t, Step("issued"), sender.Step())

	accepter := NewSession(script, "accepter", "issued")
	_, err = accepter.Advance()
	require.NoError(t, err)
	require.True(t, accepter.Done())
}

func TestInvitationScriptRejectsOutOfOrderRole(t *testing.T) {
	script, err := InvitationScript()
	require.NoError(t, err)

	accepter := NewSession(script, "accepter", "open")
	_, err = accepter.Advance()
	require.Error(t, err)
}

func TestRecoveryScriptAllowsRepeatedApprovalsThenCommit(t *testing.T) {
	script, err := RecoveryScript()
	require.NoError(t, err)

	guardian := NewSession(script, "guardian", "requested")
	_, err = guardian.Advance()
	require.NoError(t, err)
	require.Equal(t, Step("approving"), guardian.Step())

	second := NewSession(script, "guardian", "approving")
	_, err = second.Advance()
	require.NoError(t, err)
	require.Equal(t, Step("approving"), second.Step())

	coordinator := NewSession(script, "coordinator", "approving")
	_, err = coordinator.Advance()
	require.NoError(t, err)
	require.True(t, coordinator.Done())
}

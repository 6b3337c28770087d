// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package guard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aura-net/aura/auratime"
	"github.com/aura-net/aura/internal/aurerr"
)

func capSnapshot(tokens ...CapabilityToken) GuardSnapshot {
	return GuardSnapshot{Now: auratime.PhysicalClock{Millis: 1000}, Capabilities: tokens}
}

func TestCapGuardExactGrant(t *testing.T) {
	snap := capSnapshot(NewCapabilityToken(GrantFact("invitation:send", "ctx/7")))
	require.True(t, CapGuard(snap, "invitation:send", "ctx/7").Allowed)

	d := CapGuard(snap, "invitation:send", "ctx/8")
	require.False(t, d.Allowed)
	require.ErrorIs(t, d.Reason, aurerr.ErrPermissionDenied)

	d = CapGuard(snap, "invitation:accept", "ctx/7")
	require.False(t, d.Allowed)
	require.ErrorIs(t, d.Reason, aurerr.ErrPermissionDenied)
}

func TestCapGuardPatternGrants(t *testing.T) {
	snap := capSnapshot(NewCapabilityToken(GrantFact("sync:push", "ctx/alpha/*")))
	require.True(t, CapGuard(snap, "sync:push", "ctx/alpha/chan1").Allowed)
	require.False(t, CapGuard(snap, "sync:push", "ctx/beta/chan1").Allowed)

	wild := capSnapshot(NewCapabilityToken(GrantFact("sync:push", "*")))
	require.True(t, CapGuard(wild, "sync:push", "anything").Allowed)
}

func TestCapGuardExpiry(t *testing.T) {
	expired := NewCapabilityToken(GrantFact("invitation:send", "*"), ExpiryFact(500))
	d := CapGuard(capSnapshot(expired), "invitation:send", "ctx")
	require.False(t, d.Allowed)
	require.ErrorIs(t, d.Reason, aurerr.ErrCapabilityExpired)

	live := NewCapabilityToken(GrantFact("invitation:send", "*"), ExpiryFact(2000))
	require.True(t, CapGuard(capSnapshot(live), "invitation:send", "ctx").Allowed)
}

func TestCapGuardAttenuationNarrowsResource(t *testing.T) {
	broad := NewCapabilityToken(GrantFact("sync:push", "*"))
	narrowed := broad.Attenuate(Block{Checks: []Check{CheckResource("ctx/alpha/*")}})

	require.True(t, CapGuard(capSnapshot(narrowed), "sync:push", "ctx/alpha/chan1").Allowed)

	d := CapGuard(capSnapshot(narrowed), "sync:push", "ctx/beta/chan1")
	require.False(t, d.Allowed)
	require.ErrorIs(t, d.Reason, aurerr.ErrCapabilityAttenuationViolated)

	// The original token is untouched by the delegation.
	require.True(t, CapGuard(capSnapshot(broad), "sync:push", "ctx/beta/chan1").Allowed)
}

func TestCapGuardAttenuationNarrowsOperationAndTime(t *testing.T) {
	token := NewCapabilityToken(GrantFact("invitation:send", "*"), GrantFact("invitation:accept", "*")).
		Attenuate(Block{Checks: []Check{CheckOperation("invitation:accept"), CheckBefore(900)}})

	// Operation check: only accept survives the delegation.
	earlier := GuardSnapshot{Now: auratime.PhysicalClock{Millis: 800}, Capabilities: CapabilitySet{token}}
	require.True(t, CapGuard(earlier, "invitation:accept", "ctx").Allowed)
	require.False(t, CapGuard(earlier, "invitation:send", "ctx").Allowed)

	// Time check: past the delegated bound even accept is refused.
	d := CapGuard(capSnapshot(token), "invitation:accept", "ctx")
	require.False(t, d.Allowed)
	require.ErrorIs(t, d.Reason, aurerr.ErrCapabilityAttenuationViolated)
}

func TestCapGuardDatalogRuleDerivation(t *testing.T) {
	// An authority rule granting every operation the token holds a
	// role-grant fact for, the classic "rights from roles" Datalog shape.
	token := CapabilityToken{Authority: Block{
		Facts: []DatalogFact{
			{Predicate: "role_grant", Terms: []string{"courier", "sync:push"}},
			{Predicate: "role_grant", Terms: []string{"courier", "sync:pull"}},
			{Predicate: "holds_role", Terms: []string{"courier"}},
		},
		Rules: []Rule{{
			Head: DatalogFact{Predicate: "right", Terms: []string{"$op", "*"}},
			Body: []DatalogFact{
				{Predicate: "holds_role", Terms: []string{"$r"}},
				{Predicate: "role_grant", Terms: []string{"$r", "$op"}},
			},
		}},
	}}

	snap := capSnapshot(token)
	require.True(t, CapGuard(snap, "sync:push", "ctx").Allowed)
	require.True(t, CapGuard(snap, "sync:pull", "ctx").Allowed)
	require.False(t, CapGuard(snap, "invitation:send", "ctx").Allowed)
}

func TestCapGuardSecondTokenCanAuthorize(t *testing.T) {
	expired := NewCapabilityToken(GrantFact("invitation:send", "*"), ExpiryFact(1))
	fresh := NewCapabilityToken(GrantFact("invitation:send", "*"))
	require.True(t, CapGuard(capSnapshot(expired, fresh), "invitation:send", "ctx").Allowed)
}

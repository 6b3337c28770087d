// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/aura-net/aura/amp"
	"github.com/aura-net/aura/ceremony"
	"github.com/aura-net/aura/effects/effecttest"
	"github.com/aura-net/aura/ids"
)

func TestSessionManagerRatchetLifecycle(t *testing.T) {
	sm := NewSessionManager(nil)
	channel := ids.ChannelId{1}

	_, ok := sm.Ratchet(channel)
	require.False(t, ok)

	key := make([]byte, 32)
	sm.PutRatchet(channel, amp.NewRatchet(channel, 1, key, 8))

	r, ok := sm.Ratchet(channel)
	require.True(t, ok)
	require.Equal(t, channel, r.Channel)

	sm.DropRatchet(channel)
	_, ok = sm.Ratchet(channel)
	require.False(t, ok)
}

func TestSessionManagerCeremonyLifecycle(t *testing.T) {
	sm := NewSessionManager(nil)
	state := ceremony.New(ids.Hash32{1}, ids.Hash32{2}, make([]byte, 32), 3)

	sm.OpenCeremony(&state)
	require.Len(t, sm.Ceremonies(), 1)

	got, ok := sm.Ceremony(state.CeremonyID)
	require.True(t, ok)
	require.Equal(t, state.Threshold, got.Threshold)

	sm.CompleteCeremony(state.CeremonyID)
	require.Empty(t, sm.Ceremonies())
}

func TestSessionManagerCountsCeremonyAndAMPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics("aura_test_sessions", reg)
	require.NoError(t, err)
	sm := NewSessionManager(metrics)

	state := ceremony.New(ids.Hash32{1}, ids.Hash32{2}, make([]byte, 32), 2)
	sm.OpenCeremony(&state)
	sm.AbortCeremony(state.CeremonyID)

	channel := ids.ChannelId{4}
	key := make([]byte, 32)
	sm.PutRatchet(channel, amp.NewRatchet(channel, 1, key, 4))

	ctx := context.Background()
	rnd := effecttest.NewDeterministicRandom(7)
	msg, err := sm.Encrypt(ctx, channel, rnd, nil, []byte("payload"))
	require.NoError(t, err)

	out, err := sm.Decrypt(channel, nil, msg)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), out)

	// Replaying a consumed generation is a rejection.
	_, err = sm.Decrypt(channel, nil, msg)
	require.Error(t, err)

	require.Equal(t, float64(1), counterValue(t, metrics.CeremoniesStarted))
	require.Equal(t, float64(1), counterValue(t, metrics.CeremoniesAborted))
	require.Equal(t, float64(1), counterValue(t, metrics.AMPEncrypted))
	require.Equal(t, float64(1), counterValue(t, metrics.AMPDecrypted))
	require.Equal(t, float64(1), counterValue(t, metrics.AMPRejected))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package amp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aura-net/aura/effects/effecttest"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
)

func rootKey() []byte {
	k := make([]byte, 32)
	for i := range k {
		k[i] = byte(i + 1)
	}
	return k
}

func TestRatchetRoundTrip(t *testing.T) {
	ctx := context.Background()
	rand := effecttest.NewDeterministicRandom(7)
	channel := ids.ChannelId{1}

	sender := NewRatchet(channel, 1, rootKey(), 4)
	receiver := NewRatchet(channel, 1, rootKey(), 4)

	aad := []byte("channel-aad")
	msg, err := sender.Encrypt(ctx, rand, aad, []byte("hello aura"))
	require.NoError(t, err)

	plaintext, err := receiver.Decrypt(aad, msg)
	require.NoError(t, err)
	require.Equal(t, []byte("hello aura"), plaintext)
}

func TestRatchetToleratesOutOfOrderWithinWindow(t *testing.T) {
	ctx := context.Background()
	rand := effecttest.NewDeterministicRandom(9)
	channel := ids.ChannelId{2}

	sender := NewRatchet(channel, 1, rootKey(), 4)
	receiver := NewRatchet(channel, 1, rootKey(), 4)

	var msgs []AmpMessage
	for i := 0; i < 3; i++ {
		m, err := sender.Encrypt(ctx, rand, nil, []byte{byte(i)})
		require.NoError(t, err)
		msgs = append(msgs, m)
	}

	// Deliver generation 2 before 0 and 1.
	out, err := receiver.Decrypt(nil, msgs[2])
	require.NoError(t, err)
	require.Equal(t, []byte{2}, out)

	out0, err := receiver.Decrypt(nil, msgs[0])
	require.NoError(t, err)
	require.Equal(t, []byte{0}, out0)

	out1, err := receiver.Decrypt(nil, msgs[1])
	require.NoError(t, err)
	require.Equal(t, []byte{1}, out1)
}

func TestRatchetRejectsBeyondSkipWindow(t *testing.T) {
	ctx := context.Background()
	rand := effecttest.NewDeterministicRandom(3)
	channel := ids.ChannelId{3}

	sender := NewRatchet(channel, 1, rootKey(), 2)
	receiver := NewRatchet(channel, 1, rootKey(), 2)

	var last AmpMessage
	for i := 0; i < 5; i++ {
		m, err := sender.Encrypt(ctx, rand, nil, []byte{byte(i)})
		require.NoError(t, err)
		last = m
	}

	_, err := receiver.Decrypt(nil, last)
	require.ErrorIs(t, err, aurerr.ErrWindowExceeded)
}

func TestRatchetRejectsEpochMismatch(t *testing.T) {
	ctx := context.Background()
	rand := effecttest.NewDeterministicRandom(5)
	channel := ids.ChannelId{4}

	sender := NewRatchet(channel, 1, rootKey(), 4)
	receiver := NewRatchet(channel, 2, rootKey(), 4)

	msg, err := sender.Encrypt(ctx, rand, nil, []byte("x"))
	require.NoError(t, err)

	_, err = receiver.Decrypt(nil, msg)
	require.Error(t, err)
}

func TestRatchetEpochBumpResetsState(t *testing.T) {
	ctx := context.Background()
	rand := effecttest.NewDeterministicRandom(11)
	channel := ids.ChannelId{5}

	sender := NewRatchet(channel, 1, rootKey(), 4)
	receiver := NewRatchet(channel, 1, rootKey(), 4)

	newKey := rootKey()
	newKey[0] = 0xFF
	sender.ApplyEpochBump(2, newKey)
	receiver.ApplyEpochBump(2, newKey)

	msg, err := sender.Encrypt(ctx, rand, nil, []byte("post-bump"))
	require.NoError(t, err)
	out, err := receiver.Decrypt(nil, msg)
	require.NoError(t, err)
	require.Equal(t, []byte("post-bump"), out)
}

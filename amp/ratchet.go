// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package amp

import (
	"context"
	"fmt"

	"github.com/aura-net/aura/auracrypto"
	"github.com/aura-net/aura/effects"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
)

// Ratchet owns one channel's symmetric send/receive state. Generation
// strictly increases on Encrypt; Decrypt tolerates up to SkipWindow
// messages arriving out of order by deriving and caching the message keys
// for any generations skipped over. A Ratchet is owned by a single task
// per channel; it is not safe for concurrent use.
type Ratchet struct {
	Channel    ids.ChannelId
	ChanEpoch  uint64
	ChainKey   []byte
	NextSend   uint64
	SkipWindow uint32

	// Highest generation accepted so far on the receive side, and cached
	// message keys for generations skipped over but not yet consumed.
	highestRecv uint64
	haveRecv    bool
	skipped     map[uint64][]byte
}

// NewRatchet starts a fresh ratchet for channel at chanEpoch, rooted at
// rootKey (typically derived from the ceremony/consensus-committed
// ck_commitment for this epoch).
func NewRatchet(channel ids.ChannelId, chanEpoch uint64, rootKey []byte, skipWindow uint32) *Ratchet {
	return &Ratchet{
		Channel:    channel,
		ChanEpoch:  chanEpoch,
		ChainKey:   append([]byte(nil), rootKey...),
		SkipWindow: skipWindow,
		skipped:    make(map[uint64][]byte),
	}
}

// deriveChain performs one HKDF ratchet step from chainKey: it derives the
// generation-th message key and returns the chain key that follows it (so
// callers can fold forward without re-deriving from the root each time).
func deriveChain(chainKey []byte, generation uint64) (msgKey, nextChainKey []byte, err error) {
	info := []byte{byte(generation), byte(generation >> 8), byte(generation >> 16), byte(generation >> 24),
		byte(generation >> 32), byte(generation >> 40), byte(generation >> 48), byte(generation >> 56)}
	msgKey, err = auracrypto.DeriveKey(chainKey, []byte("aura/amp/msg"), info, auracrypto.KeySize)
	if err != nil {
		return nil, nil, err
	}
	nextChainKey, err = auracrypto.DeriveKey(chainKey, []byte("aura/amp/chain"), info, len(chainKey))
	if err != nil {
		return nil, nil, err
	}
	return msgKey, nextChainKey, nil
}

// Encrypt advances the ratchet one generation and seals plaintext under
// the freshly derived message key. aad is additional
// authenticated data (e.g. channel metadata); its hash goes into the
// header so a tampered aad is detectable even before AEAD verification.
func (r *Ratchet) Encrypt(ctx context.Context, rand effects.RandomEffects, aad, plaintext []byte) (AmpMessage, error) {
	msgKey, nextChain, err := deriveChain(r.ChainKey, r.NextSend)
	if err != nil {
		return AmpMessage{}, fmt.Errorf("%w: %v", aurerr.ErrKeyDerivationFailed, err)
	}
	nonceBytes, err := rand.RandomBytes(ctx, auracrypto.NonceSize)
	if err != nil {
		return AmpMessage{}, fmt.Errorf("%w: %v", aurerr.ErrKeyDerivationFailed, err)
	}
	var nonce [24]byte
	copy(nonce[:], nonceBytes)

	ciphertext, err := auracrypto.Seal(msgKey, nonce[:], aad, plaintext)
	if err != nil {
		return AmpMessage{}, err
	}

	header := AmpHeader{
		Channel:    r.Channel,
		ChanEpoch:  r.ChanEpoch,
		Generation: r.NextSend,
		Nonce:      nonce,
		AadHash:    auracrypto.HashBytes(aad),
	}
	r.ChainKey = nextChain
	r.NextSend++

	return AmpMessage{SchemaVersion: 1, Header: header, Payload: ciphertext}, nil
}

// Decrypt authenticates and opens msg. Fails with
// EpochMismatch if msg.ChanEpoch differs from the ratchet's current epoch
// (only a committed epoch bump, via ApplyEpochBump, may change it); with
// WindowExceeded if the generation is more than SkipWindow past the next
// expected one; with RatchetStale if the generation was already consumed
// or is at or below the highest accepted one without a cached key; or
// with AEADFailed if authentication fails.
func (r *Ratchet) Decrypt(aad []byte, msg AmpMessage) ([]byte, error) {
	if msg.Header.Channel != r.Channel {
		return nil, fmt.Errorf("%w: amp message for channel %s on ratchet %s", aurerr.ErrEpochMismatch, msg.Header.Channel, r.Channel)
	}
	if msg.Header.ChanEpoch != r.ChanEpoch {
		return nil, fmt.Errorf("%w: amp message epoch %d, ratchet at %d", aurerr.ErrEpochMismatch, msg.Header.ChanEpoch, r.ChanEpoch)
	}

	gen := msg.Header.Generation

	if key, ok := r.skipped[gen]; ok {
		out, err := auracrypto.Open(key, msg.Header.Nonce[:], aad, msg.Payload)
		if err != nil {
			return nil, err
		}
		delete(r.skipped, gen)
		return out, nil
	}

	if r.haveRecv && gen <= r.highestRecv {
		return nil, fmt.Errorf("%w: generation %d already consumed or behind skip window", aurerr.ErrRatchetStale, gen)
	}

	start := uint64(0)
	if r.haveRecv {
		start = r.highestRecv + 1
	}
	if gen-start > uint64(r.SkipWindow) {
		return nil, fmt.Errorf("%w: generation %d exceeds skip window %d past %d", aurerr.ErrWindowExceeded, gen, r.SkipWindow, start)
	}

	chain := r.ChainKey
	var msgKey []byte
	for g := start; g <= gen; g++ {
		var err error
		var next []byte
		msgKey, next, err = deriveChain(chain, g)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", aurerr.ErrKeyDerivationFailed, err)
		}
		if g != gen {
			r.skipped[g] = msgKey
		}
		chain = next
	}

	out, err := auracrypto.Open(msgKey, msg.Header.Nonce[:], aad, msg.Payload)
	if err != nil {
		return nil, err
	}

	r.ChainKey = chain
	r.highestRecv = gen
	r.haveRecv = true
	r.pruneSkipped()
	return out, nil
}

// pruneSkipped drops any cached skipped-generation keys that have fallen
// behind the current skip window, bounding the cache's size.
func (r *Ratchet) pruneSkipped() {
	if !r.haveRecv || r.highestRecv < uint64(r.SkipWindow) {
		return
	}
	floor := r.highestRecv - uint64(r.SkipWindow)
	for g := range r.skipped {
		if g < floor {
			delete(r.skipped, g)
		}
	}
}

// ApplyEpochBump rekeys the ratchet at a new committed epoch. Resets Generation
// counters and skip-window state, since a new epoch starts a fresh chain.
func (r *Ratchet) ApplyEpochBump(newEpoch uint64, newRootKey []byte) {
	r.ChanEpoch = newEpoch
	r.ChainKey = append([]byte(nil), newRootKey...)
	r.NextSend = 0
	r.highestRecv = 0
	r.haveRecv = false
	r.skipped = make(map[uint64][]byte)
}

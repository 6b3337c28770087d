// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/aura-net/aura/amp"
	"github.com/aura-net/aura/ceremony"
	"github.com/aura-net/aura/effects"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
)

func errNoRatchet(channel ids.ChannelId) error {
	return fmt.Errorf("%w: no live ratchet for channel %s", aurerr.ErrRatchetStale, channel)
}

// SessionManager is the runtime's single owner of live, in-memory protocol
// state keyed by identifier: AMP ratchets per channel and ceremony state
// per ceremony id. It is also where ceremony and AMP metrics are counted,
// since the packages underneath it are pure and never touch a registry.
type SessionManager struct {
	metrics *Metrics

	mu         sync.RWMutex
	ratchets   map[ids.ChannelId]*amp.Ratchet
	ceremonies map[ids.CeremonyId]*ceremony.State
}

// NewSessionManager constructs an empty manager. metrics may be nil for
// callers that do not export any.
func NewSessionManager(metrics *Metrics) *SessionManager {
	return &SessionManager{
		metrics:    metrics,
		ratchets:   make(map[ids.ChannelId]*amp.Ratchet),
		ceremonies: make(map[ids.CeremonyId]*ceremony.State),
	}
}

// PutRatchet installs or replaces the ratchet for channel.
func (s *SessionManager) PutRatchet(channel ids.ChannelId, r *amp.Ratchet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratchets[channel] = r
}

// Ratchet returns the live ratchet for channel, if any.
func (s *SessionManager) Ratchet(channel ids.ChannelId) (*amp.Ratchet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.ratchets[channel]
	return r, ok
}

// DropRatchet removes channel's ratchet, e.g. once a contact is removed.
func (s *SessionManager) DropRatchet(channel ids.ChannelId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ratchets, channel)
}

// Encrypt seals plaintext on channel's ratchet. The write lock is held
// across the ratchet advance since a ratchet is single-writer state.
func (s *SessionManager) Encrypt(ctx context.Context, channel ids.ChannelId, rand effects.RandomEffects, aad, plaintext []byte) (amp.AmpMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ratchets[channel]
	if !ok {
		return amp.AmpMessage{}, errNoRatchet(channel)
	}
	msg, err := r.Encrypt(ctx, rand, aad, plaintext)
	if err != nil {
		s.countAMPRejected()
		return amp.AmpMessage{}, err
	}
	if s.metrics != nil {
		s.metrics.AMPEncrypted.Inc()
	}
	return msg, nil
}

// Decrypt opens msg on channel's ratchet. Rejections (stale generation,
// epoch mismatch, failed AEAD) are counted before the error surfaces.
func (s *SessionManager) Decrypt(channel ids.ChannelId, aad []byte, msg amp.AmpMessage) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ratchets[channel]
	if !ok {
		return nil, errNoRatchet(channel)
	}
	out, err := r.Decrypt(aad, msg)
	if err != nil {
		s.countAMPRejected()
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.AMPDecrypted.Inc()
	}
	return out, nil
}

// BumpChannelEpoch rekeys channel's ratchet at a committed epoch bump.
func (s *SessionManager) BumpChannelEpoch(channel ids.ChannelId, newEpoch uint64, newRootKey []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ratchets[channel]
	if !ok {
		return errNoRatchet(channel)
	}
	r.ApplyEpochBump(newEpoch, newRootKey)
	return nil
}

func (s *SessionManager) countAMPRejected() {
	if s.metrics != nil {
		s.metrics.AMPRejected.Inc()
	}
}

// OpenCeremony installs a freshly created ceremony's state.
func (s *SessionManager) OpenCeremony(state *ceremony.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ceremonies[state.CeremonyID] = state
	if s.metrics != nil {
		s.metrics.CeremoniesStarted.Inc()
	}
}

// PutCeremony installs or replaces ceremony state by its CeremonyID
// without counting a start, for updates to an already-open ceremony.
func (s *SessionManager) PutCeremony(state *ceremony.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ceremonies[state.CeremonyID] = state
}

// Ceremony returns the live state for id, if any.
func (s *SessionManager) Ceremony(id ids.CeremonyId) (*ceremony.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.ceremonies[id]
	return st, ok
}

// CompleteCeremony removes a ceremony's in-memory state after it reaches
// A3; the terminal outcome is already durable in the journal.
func (s *SessionManager) CompleteCeremony(id ids.CeremonyId) {
	s.dropCeremony(id)
	if s.metrics != nil {
		s.metrics.CeremoniesCompleted.Inc()
	}
}

// AbortCeremony removes a ceremony's in-memory state after a timeout,
// supersession, or explicit abort fact.
func (s *SessionManager) AbortCeremony(id ids.CeremonyId) {
	s.dropCeremony(id)
	if s.metrics != nil {
		s.metrics.CeremoniesAborted.Inc()
	}
}

func (s *SessionManager) dropCeremony(id ids.CeremonyId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ceremonies, id)
}

// Ceremonies returns a snapshot of every live ceremony id, e.g. for a
// timeout sweeper task to iterate without holding the manager's lock.
func (s *SessionManager) Ceremonies() []ids.CeremonyId {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ids.CeremonyId, 0, len(s.ceremonies))
	for id := range s.ceremonies {
		out = append(out, id)
	}
	return out
}

// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package effecttest provides in-memory fakes for every effects interface:
// production types are exercised against deterministic, in-process fakes
// instead of a generated mock framework.
package effecttest

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aura-net/aura/auracrypto"
	"github.com/aura-net/aura/auratime"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
)

// MemoryStorage is an in-memory StorageEffects fake.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStorage constructs an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: key %q not found", aurerr.ErrStorageIO, key)
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryStorage) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryStorage) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

// MemorySecureStorage is an in-memory SecureStorageEffects fake. It does
// not actually seal anything — production backends (Keychain/TPM) are
// external collaborators.
type MemorySecureStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemorySecureStorage() *MemorySecureStorage {
	return &MemorySecureStorage{data: make(map[string][]byte)}
}

func (m *MemorySecureStorage) StoreSealed(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *MemorySecureStorage) OpenSealed(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: key %q not sealed", aurerr.ErrSecureStoreUnavailable, key)
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemorySecureStorage) DeleteSealed(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// LoopbackNetwork is a NetworkEffects fake connecting named peers via
// in-process channels, enough to exercise anti-entropy and AMP protocol
// logic without a real transport.
type LoopbackNetwork struct {
	self  string
	mu    sync.Mutex
	peers map[string]chan frame
}

type frame struct {
	from    string
	payload []byte
}

// NewLoopbackFabric builds a set of interconnected LoopbackNetworks, one
// per name, each able to Send to any other and Recv its own inbox.
func NewLoopbackFabric(names ...string) map[string]*LoopbackNetwork {
	inboxes := make(map[string]chan frame, len(names))
	for _, n := range names {
		inboxes[n] = make(chan frame, 256)
	}
	out := make(map[string]*LoopbackNetwork, len(names))
	for _, n := range names {
		out[n] = &LoopbackNetwork{self: n, peers: inboxes}
	}
	return out
}

func (l *LoopbackNetwork) Send(ctx context.Context, peer string, payload []byte) error {
	l.mu.Lock()
	inbox, ok := l.peers[peer]
	l.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: unknown peer %q", aurerr.ErrNetworkIO, peer)
	}
	select {
	case inbox <- frame{from: l.self, payload: payload}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *LoopbackNetwork) Recv(ctx context.Context) (string, []byte, error) {
	select {
	case f := <-l.peers[l.self]:
		return f.from, f.payload, nil
	case <-ctx.Done():
		return "", nil, ctx.Err()
	}
}

func (l *LoopbackNetwork) ConnectedPeers(_ context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for n := range l.peers {
		if n != l.self {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out, nil
}

// FixedClock is a deterministic PhysicalTimeEffects/OrderClockEffects fake
// that advances monotonically on each call instead of reading the OS
// clock, so tests stay reproducible.
type FixedClock struct {
	mu     sync.Mutex
	millis int64
	order  uint64
}

// NewFixedClock starts the clock at startMillis.
func NewFixedClock(startMillis int64) *FixedClock {
	return &FixedClock{millis: startMillis}
}

func (c *FixedClock) PhysicalTime(_ context.Context) (auratime.PhysicalClock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.millis++
	return auratime.PhysicalClock{Millis: c.millis}, nil
}

func (c *FixedClock) SleepMs(_ context.Context, ms int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.millis += ms
	return nil
}

// Next implements OrderClockEffects with a monotonically increasing
// counter hashed into an opaque token, so even the test double never
// exposes ordering structure in the token bytes.
func (c *FixedClock) Next(_ context.Context) (auratime.OrderToken, error) {
	c.mu.Lock()
	c.order++
	n := c.order
	c.mu.Unlock()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(n >> (8 * i))
	}
	return sha256.Sum256(buf[:]), nil
}

// SequentialLogicalClock is a deterministic LogicalClockEffects fake
// scoped to one device.
type SequentialLogicalClock struct {
	mu      sync.Mutex
	current auratime.VectorClock
	device  [32]byte
}

func NewSequentialLogicalClock(device [32]byte) *SequentialLogicalClock {
	return &SequentialLogicalClock{current: auratime.VectorClock{}, device: device}
}

func (c *SequentialLogicalClock) Advance(_ context.Context) (auratime.VectorClock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Advance(ids.DeviceId(c.device))
	return c.current.Clone(), nil
}

func (c *SequentialLogicalClock) Current(_ context.Context) (auratime.VectorClock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Clone(), nil
}

// DeterministicRandom is a RandomEffects fake driven by a counter-keyed
// hash instead of OS entropy, so ceremony/DKG tests are reproducible.
type DeterministicRandom struct {
	mu      sync.Mutex
	counter uint64
	seed    byte
}

func NewDeterministicRandom(seed byte) *DeterministicRandom {
	return &DeterministicRandom{seed: seed}
}

func (r *DeterministicRandom) next() []byte {
	r.mu.Lock()
	r.counter++
	n := r.counter
	r.mu.Unlock()
	var buf [9]byte
	buf[0] = r.seed
	for i := 0; i < 8; i++ {
		buf[1+i] = byte(n >> (8 * i))
	}
	sum := sha256.Sum256(buf[:])
	return sum[:]
}

func (r *DeterministicRandom) RandomBytes(_ context.Context, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		out = append(out, r.next()...)
	}
	return out[:n], nil
}

func (r *DeterministicRandom) RandomBytes32(ctx context.Context) ([32]byte, error) {
	var out [32]byte
	b, _ := r.RandomBytes(ctx, 32)
	copy(out[:], b)
	return out, nil
}

func (r *DeterministicRandom) RandomUint64(ctx context.Context) (uint64, error) {
	b, _ := r.RandomBytes(ctx, 8)
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v, nil
}

// CryptoAdapter implements effects.CryptoEffects over the pure-Go
// auracrypto package, the default wiring used by runtime composition when
// no HSM-backed implementation is supplied.
type CryptoAdapter struct{}

func (CryptoAdapter) Hash(tag string, data ...[]byte) ([]byte, error) {
	h := auracrypto.Hash(tag, data...)
	return h.Bytes(), nil
}

func (CryptoAdapter) SignEd25519(_ context.Context, key, message []byte) ([]byte, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: bad ed25519 key length", aurerr.ErrSignatureInvalid)
	}
	return ed25519.Sign(ed25519.PrivateKey(key), message), nil
}

func (CryptoAdapter) VerifyEd25519(_ context.Context, pub, message, sig []byte) (bool, error) {
	if len(pub) != ed25519.PublicKeySize {
		return false, fmt.Errorf("%w: bad ed25519 public key length", aurerr.ErrSignatureInvalid)
	}
	return ed25519.Verify(ed25519.PublicKey(pub), message, sig), nil
}

func (CryptoAdapter) AEADSeal(_ context.Context, key, nonce, aad, plaintext []byte) ([]byte, error) {
	return auracrypto.Seal(key, nonce, aad, plaintext)
}

func (CryptoAdapter) AEADOpen(_ context.Context, key, nonce, aad, ciphertext []byte) ([]byte, error) {
	return auracrypto.Open(key, nonce, aad, ciphertext)
}

func (CryptoAdapter) HKDF(_ context.Context, secret, salt, info []byte, outLen int) ([]byte, error) {
	return auracrypto.DeriveKey(secret, salt, info, outLen)
}

// NoopConsole discards everything; used where tests don't care about
// diagnostics output.
type NoopConsole struct{}

func (NoopConsole) Error(context.Context, string, ...any) {}
func (NoopConsole) Warn(context.Context, string, ...any) {}
func (NoopConsole) Info(context.Context, string, ...any) {}
func (NoopConsole) Debug(context.Context, string, ...any) {}

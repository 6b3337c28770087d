// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package effects defines the abstract effect interfaces Aura's core
// consumes from external collaborators. Every boundary where the core
// would otherwise touch I/O, wall-clock time, or OS randomness is an
// interface here instead: production code is built against these
// interfaces, tests run against effecttest's in-memory fakes, and concrete
// platform backends (Keychain, TPM, TCP, WS) are assembled outside this
// module.
package effects

import (
	"context"

	"github.com/aura-net/aura/auratime"
)

// StorageEffects is the at-most-once-per-key durable storage boundary.
// Keys follow a scoped-prefix convention (e.g. "frost_keys:{device}").
type StorageEffects interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// SecureStorageEffects seals/opens key material (FROST shares, path
// secrets, session keys) through a platform secure enclave. May fail with
// an error wrapping aurerr.ErrSecureStoreUnavailable.
type SecureStorageEffects interface {
	StoreSealed(ctx context.Context, key string, value []byte) error
	OpenSealed(ctx context.Context, key string) ([]byte, error)
	DeleteSealed(ctx context.Context, key string) error
}

// NetworkEffects is the injected transport boundary; concrete TCP/WS/HTTPS
// transports are out of scope and live outside this module.
type NetworkEffects interface {
	Send(ctx context.Context, peer string, payload []byte) error
	Recv(ctx context.Context) (peer string, payload []byte, err error)
	ConnectedPeers(ctx context.Context) ([]string, error)
}

// PhysicalTimeEffects is the sole source of wall-clock readings and
// sleeping; direct system-time calls in core logic are forbidden.
type PhysicalTimeEffects interface {
	PhysicalTime(ctx context.Context) (auratime.PhysicalClock, error)
	SleepMs(ctx context.Context, ms int64) error
}

// LogicalClockEffects is the sole source of this device's logical-clock
// advances.
type LogicalClockEffects interface {
	Advance(ctx context.Context) (auratime.VectorClock, error)
	Current(ctx context.Context) (auratime.VectorClock, error)
}

// OrderClockEffects is the sole source of opaque order tokens used to
// sequence facts without leaking physical time across authority
// boundaries.
type OrderClockEffects interface {
	Next(ctx context.Context) (auratime.OrderToken, error)
}

// RandomEffects is the only entropy source allowed in core logic.
type RandomEffects interface {
	RandomBytes(ctx context.Context, n int) ([]byte, error)
	RandomBytes32(ctx context.Context) ([32]byte, error)
	RandomUint64(ctx context.Context) (uint64, error)
}

// CryptoEffects groups the crypto operations the core calls through an
// effect boundary rather than directly, so that a platform-accelerated or
// HSM-backed implementation can be substituted without touching core
// logic. The default implementation (in auracrypto) is a pure-Go adapter.
type CryptoEffects interface {
	Hash(tag string, data ...[]byte) ([]byte, error)
	SignEd25519(ctx context.Context, key, message []byte) ([]byte, error)
	VerifyEd25519(ctx context.Context, pub, message, sig []byte) (bool, error)
	AEADSeal(ctx context.Context, key, nonce, aad, plaintext []byte) ([]byte, error)
	AEADOpen(ctx context.Context, key, nonce, aad, ciphertext []byte) ([]byte, error)
	HKDF(ctx context.Context, secret, salt, info []byte, outLen int) ([]byte, error)
}

// ConsoleEffects is diagnostics-only; it must never be load-bearing for
// control flow.
type ConsoleEffects interface {
	Error(ctx context.Context, msg string, fields ...any)
	Warn(ctx context.Context, msg string, fields ...any)
	Info(ctx context.Context, msg string, fields ...any)
	Debug(ctx context.Context, msg string, fields ...any)
}

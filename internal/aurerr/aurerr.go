// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package aurerr collects the sentinel error values shared across Aura's
// components. Each component wraps the relevant sentinel with
// call-site context via fmt.Errorf("...: %w",...); callers use errors.Is
// to branch on kind.
package aurerr

import "errors"

// Invalid input.
var (
	ErrMalformedFact = errors.New("aura: malformed fact")
	ErrUnknownTypeID = errors.New("aura: unknown fact type id at strict boundary")
	ErrInvalidID     = errors.New("aura: invalid identifier")
	ErrSizeLimit     = errors.New("aura: size limit exceeded")
)

// Cryptographic.
var (
	ErrSignatureInvalid    = errors.New("aura: signature invalid")
	ErrAEADFailed          = errors.New("aura: AEAD seal/open failed")
	ErrKeyDerivationFailed = errors.New("aura: key derivation failed")
)

// Authorization.
var (
	ErrPermissionDenied              = errors.New("aura: permission denied")
	ErrCapabilityExpired             = errors.New("aura: capability expired")
	ErrCapabilityAttenuationViolated = errors.New("aura: capability attenuation violated")
)

// Flow / privacy.
var (
	ErrBudgetExceeded         = errors.New("aura: flow budget exceeded")
	ErrLeakageBudgetExhausted = errors.New("aura: leakage budget exhausted")
)

// Consistency.
var (
	ErrParentMismatch   = errors.New("aura: parent mismatch")
	ErrPrestateDiverged = errors.New("aura: prestate diverged")
	ErrEpochMismatch    = errors.New("aura: epoch mismatch")
	ErrInvariantBroken  = errors.New("aura: invariant broken")
)

// Consensus.
var (
	ErrThresholdNotMet    = errors.New("aura: threshold not met")
	ErrEquivocation       = errors.New("aura: equivocation detected")
	ErrCeremonyAborted    = errors.New("aura: ceremony aborted")
	ErrCeremonySuperseded = errors.New("aura: ceremony superseded")
)

// Resource.
var (
	ErrTimeout                = errors.New("aura: timeout")
	ErrSecureStoreUnavailable = errors.New("aura: secure store unavailable")
	ErrStorageIO              = errors.New("aura: storage I/O error")
	ErrNetworkIO              = errors.New("aura: network I/O error")
)

// Serialization.
var (
	ErrEncodeFailed    = errors.New("aura: encode failed")
	ErrDecodeFailed    = errors.New("aura: decode failed")
	ErrVersionMismatch = errors.New("aura: version mismatch")
)

// Journal-specific.
var (
	ErrInvalidFact    = errors.New("aura: invalid fact")
	ErrReductionCycle = errors.New("aura: reduction cycle detected")
)

// Tree-specific.
var (
	ErrPolicyViolation = errors.New("aura: policy violation")
)

// AMP-specific.
var (
	ErrRatchetStale   = errors.New("aura: ratchet stale")
	ErrWindowExceeded = errors.New("aura: skip window exceeded")
)

// Ceremony-specific.
var (
	ErrInvalidShare = errors.New("aura: invalid share")
)

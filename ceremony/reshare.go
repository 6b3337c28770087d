// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package ceremony

import (
	"context"
	"fmt"

	"github.com/aura-net/aura/auracrypto"
	"github.com/aura-net/aura/effects"
	"github.com/aura-net/aura/internal/aurerr"
)

// ReshareContribution wraps auracrypto.ReshareDeal, drawing the fresh
// polynomial coefficients from RandomEffects. Each member of the current
// quorum contributes one; recipients combine them with
// auracrypto.CombineShares exactly as in a DKG, and the group public key
// carries over unchanged.
func ReshareContribution(ctx context.Context, rand effects.RandomEffects, oldShare *auracrypto.Scalar, self auracrypto.ParticipantIndex, quorum []auracrypto.ParticipantIndex, newThreshold int, newRecipients []auracrypto.ParticipantIndex) (*auracrypto.DealerPackage, error) {
	extra := make([][32]byte, newThreshold-1)
	for i := range extra {
		seed, err := rand.RandomBytes32(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", aurerr.ErrKeyDerivationFailed, err)
		}
		extra[i] = seed
	}

	pkg, err := auracrypto.ReshareDeal(oldShare, self, quorum, newThreshold, newRecipients, extra)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", aurerr.ErrInvalidShare, err)
	}
	return pkg, nil
}

// SealShareTo encrypts a dealer's per-recipient share to the recipient's
// HPKE public key, binding it to the ceremony via aad (typically the
// CeremonyId bytes). This is the form shares take inside a published
// dealer package; the Feldman commitment vector stays public, the shares
// do not.
func SealShareTo(ctx context.Context, rand effects.RandomEffects, recipientPub [32]byte, share *auracrypto.Scalar, aad []byte) (auracrypto.Sealed, error) {
	seed, err := rand.RandomBytes32(ctx)
	if err != nil {
		return auracrypto.Sealed{}, fmt.Errorf("%w: %v", aurerr.ErrKeyDerivationFailed, err)
	}
	sealed, err := auracrypto.HpkeSeal(recipientPub, seed, aad, share.Bytes())
	if err != nil {
		return auracrypto.Sealed{}, err
	}
	return sealed, nil
}

// OpenShareFrom decrypts a sealed share with the recipient's HPKE private
// key and decodes it back into a scalar.
func OpenShareFrom(recipientPriv [32]byte, sealed auracrypto.Sealed, aad []byte) (*auracrypto.Scalar, error) {
	raw, err := auracrypto.HpkeOpen(recipientPriv, sealed, aad)
	if err != nil {
		return nil, err
	}
	share, err := auracrypto.ScalarFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", aurerr.ErrInvalidShare, err)
	}
	auracrypto.Zeroize(raw)
	return share, nil
}

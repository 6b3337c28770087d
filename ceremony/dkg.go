// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package ceremony

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aura-net/aura/auracrypto"
	"github.com/aura-net/aura/auratime"
	"github.com/aura-net/aura/effects"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
)

// DealerContribution wraps auracrypto.Deal, drawing the dealer's secret
// coefficient and every extra polynomial coefficient from RandomEffects
// rather than ambient OS entropy.
func DealerContribution(ctx context.Context, rand effects.RandomEffects, threshold int, recipients []auracrypto.ParticipantIndex) (*auracrypto.DealerPackage, error) {
	coeff0Seed, err := rand.RandomBytes32(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", aurerr.ErrKeyDerivationFailed, err)
	}
	coeff0 := auracrypto.ScalarFromSeed(coeff0Seed)

	extra := make([][32]byte, threshold-1)
	for i := range extra {
		seed, err := rand.RandomBytes32(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", aurerr.ErrKeyDerivationFailed, err)
		}
		extra[i] = seed
	}

	pkg, err := auracrypto.Deal(coeff0, threshold, recipients, extra)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", aurerr.ErrInvalidShare, err)
	}
	return pkg, nil
}

// canonicalPackageBytes serializes a DealerPackage's public portion — the
// dealer index and Feldman commitment vector — for transcript hashing.
// Shares are deliberately excluded: they are per-recipient secrets
// exchanged over an already-secure channel (see auracrypto.DealerPackage's
// doc comment), and a publicly verifiable transcript must never commit to
// secret material.
func canonicalPackageBytes(idx auracrypto.ParticipantIndex, commitment []auracrypto.Point) []byte {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(idx))
	buf.WriteByte(byte(idx >> 8))
	for _, p := range commitment {
		buf.Write(p.Bytes())
	}
	return buf.Bytes()
}

// DealerEntry pairs a dealer's index with its published Feldman commitment
// vector, the unit BuildTranscript hashes over.
type DealerEntry struct {
	Dealer     auracrypto.ParticipantIndex
	Commitment []auracrypto.Point
}

// BuildTranscript computes the transcript hash over every dealer's public
// commitment vector and binds it to the membership and cutoff the ceremony
// agreed on. Entries must be supplied in a stable order
// (e.g. sorted by Dealer) by the caller, since the hash is order-sensitive.
func BuildTranscript(epoch uint64, membershipHash ids.Hash32, cutoff auratime.OrderTime, entries []DealerEntry) DkgTranscript {
	buf := new(bytes.Buffer)
	for _, e := range entries {
		buf.Write(canonicalPackageBytes(e.Dealer, e.Commitment))
	}
	transcriptHash := auracrypto.Hash("aura/dkg/transcript", []byte{
		byte(epoch), byte(epoch >> 8), byte(epoch >> 16), byte(epoch >> 24),
		byte(epoch >> 32), byte(epoch >> 40), byte(epoch >> 48), byte(epoch >> 56),
	}, membershipHash.Bytes(), cutoff[:], buf.Bytes())

	return DkgTranscript{
		Epoch:          epoch,
		MembershipHash: membershipHash,
		Cutoff:         cutoff,
		TranscriptHash: transcriptHash,
	}
}

// SigningRound carries one coordinator-side signing attempt's round-1 and
// round-2 state: round 1 collects hiding/binding
// commitments, round 2 collects signature shares, then the coordinator
// aggregates.
type SigningRound struct {
	Message     []byte
	GroupPublic auracrypto.Point
	Signers     []auracrypto.ParticipantIndex
	Commitments []auracrypto.SigningCommitment
	Shares      []*auracrypto.Scalar
}

// NewSigningRound starts a round bound to message and the signer set.
func NewSigningRound(message []byte, groupPublic auracrypto.Point, signers []auracrypto.ParticipantIndex) *SigningRound {
	return &SigningRound{Message: message, GroupPublic: groupPublic, Signers: signers}
}

// AddCommitment records one participant's round-1 nonce commitment.
func (r *SigningRound) AddCommitment(c auracrypto.SigningCommitment) {
	r.Commitments = append(r.Commitments, c)
}

// AddShare records one participant's round-2 signature share, computed via
// auracrypto.SignShare using the round's now-complete Commitments and
// Signers.
func (r *SigningRound) AddShare(share *auracrypto.Scalar) {
	r.Shares = append(r.Shares, share)
}

// Finalize aggregates the collected shares and verifies the result against
// GroupPublic, failing with InvalidShare if verification does not hold.
func (r *SigningRound) Finalize() (auracrypto.Signature, error) {
	sig := auracrypto.Aggregate(r.Commitments, r.Message, r.Shares)
	if !auracrypto.VerifyAggregate(r.GroupPublic, r.Message, sig) {
		return auracrypto.Signature{}, fmt.Errorf("%w: aggregated signature failed verification", aurerr.ErrInvalidShare)
	}
	return sig, nil
}

// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package auracrypto

import (
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/aura-net/aura/internal/aurerr"
)

// FROST implements threshold Schnorr signing over Ed25519: DKG produces
// per-participant shares and a group
// public key; Sign is a two-round protocol; Aggregate/VerifyAggregate close
// the loop. Round-trip state (nonces, commitments) is caller-managed so the
// ceremony runtime (package ceremony) can persist it across suspension
// points.

// Scalar is a FROST/Ed25519 scalar, wrapping edwards25519.Scalar so callers
// outside this package never need the underlying library's import path.
type Scalar struct{ s *edwards25519.Scalar }

// Point is a FROST/Ed25519 group element.
type Point struct{ p *edwards25519.Point }

// ParticipantIndex identifies a DKG/signing participant by their Shamir
// x-coordinate (1-indexed; 0 is reserved for the secret itself).
type ParticipantIndex uint16

// DealerPackage is what one dealer publishes during DKG: a Feldman/Pedersen
// verification vector (commitment to each polynomial coefficient) plus, for
// each recipient, a private share the dealer computed for them. Encryption
// of shares-per-authority
// is layered on by the ceremony package via AEAD; this struct holds the
// plaintext share values exchanged over an already-secure channel.
type DealerPackage struct {
	DealerIndex ParticipantIndex
	Commitment  []Point // verification vector, degree = threshold-1
	Shares      map[ParticipantIndex]*Scalar
}

// scalarFromUniform reduces 64 bytes of input into a scalar, used to derive
// per-participant polynomial coefficients deterministically from seed
// material supplied by RandomEffects.
func scalarFromUniform(seed [64]byte) *Scalar {
	s, err := edwards25519.NewScalar().SetUniformBytes(seed[:])
	if err != nil {
		// SetUniformBytes only fails on wrong-length input; seed is fixed
		// size, so this is unreachable.
		panic("auracrypto: uniform scalar reduction failed: " + err.Error())
	}
	return &Scalar{s: s}
}

// ScalarFromSeed derives a deterministic scalar from 32 bytes of entropy
// (e.g. from RandomEffects.RandomBytes32), used as a polynomial coefficient
// during DKG dealing.
func ScalarFromSeed(seed32 [32]byte) *Scalar {
	var wide [64]byte
	copy(wide[:32], seed32[:])
	h := sha512.Sum512(append([]byte("aura/frost/coeff"), seed32[:]...))
	copy(wide[32:], h[:32])
	return scalarFromUniform(wide)
}

func scalarFromUint16(i uint16) *edwards25519.Scalar {
	var b [32]byte
	b[0] = byte(i)
	b[1] = byte(i >> 8)
	s, _ := edwards25519.NewScalar().SetCanonicalBytes(b[:])
	return s
}

// evalPolynomial evaluates sum(coeffs[k] * x^k) in the scalar field, where
// coeffs[0] is the secret term.
func evalPolynomial(coeffs []*edwards25519.Scalar, x uint16) *edwards25519.Scalar {
	result := edwards25519.NewScalar()
	xs := scalarFromUint16(x)
	power, _ := edwards25519.NewScalar().SetCanonicalBytes(oneBytes())
	for _, c := range coeffs {
		term := edwards25519.NewScalar().Multiply(c, power)
		result = edwards25519.NewScalar().Add(result, term)
		power = edwards25519.NewScalar().Multiply(power, xs)
	}
	return result
}

func oneBytes() []byte {
	b := make([]byte, 32)
	b[0] = 1
	return b
}

// Deal generates a dealer's contribution to a threshold-of-total DKG: a
// random degree-(threshold-1) polynomial, its Feldman commitment vector,
// and one Shamir share per participant in recipients.
func Deal(secretCoeff0 *Scalar, threshold int, recipients []ParticipantIndex, extraRandomCoeffs [][32]byte) (*DealerPackage, error) {
	if threshold < 1 {
		return nil, fmt.Errorf("%w: frost threshold must be >= 1", aurerr.ErrInvalidShare)
	}
	if len(extraRandomCoeffs) != threshold-1 {
		return nil, fmt.Errorf("%w: need %d extra coefficients, got %d", aurerr.ErrInvalidShare, threshold-1, len(extraRandomCoeffs))
	}

	coeffs := make([]*edwards25519.Scalar, threshold)
	coeffs[0] = secretCoeff0.s
	for i := 1; i < threshold; i++ {
		coeffs[i] = ScalarFromSeed(extraRandomCoeffs[i-1]).s
	}

	commitment := make([]Point, threshold)
	for i, c := range coeffs {
		commitment[i] = Point{p: edwards25519.NewIdentityPoint().ScalarBaseMult(c)}
	}

	shares := make(map[ParticipantIndex]*Scalar, len(recipients))
	for _, idx := range recipients {
		v := evalPolynomial(coeffs, uint16(idx))
		shares[idx] = &Scalar{s: v}
	}

	return &DealerPackage{Commitment: commitment, Shares: shares}, nil
}

// VerifyShare checks that a received share is consistent with the dealer's
// published Feldman commitment vector: share*B == sum(commitment[k] * x^k).
func VerifyShare(commitment []Point, recipient ParticipantIndex, share *Scalar) bool {
	lhs := edwards25519.NewIdentityPoint().ScalarBaseMult(share.s)

	rhs := edwards25519.NewIdentityPoint()
	xs := scalarFromUint16(uint16(recipient))
	power, _ := edwards25519.NewScalar().SetCanonicalBytes(oneBytes())
	for _, c := range commitment {
		term := edwards25519.NewIdentityPoint().ScalarMult(power, c.p)
		rhs = edwards25519.NewIdentityPoint().Add(rhs, term)
		power = edwards25519.NewScalar().Multiply(power, xs)
	}
	return lhs.Equal(rhs) == 1
}

// CombineShares sums the per-dealer shares a participant received into
// their final signing share, and sums the dealers' constant-term
// commitments into the group public key. Every dealer must contribute a
// share for every participant and a commitment vector of the same degree.
func CombineShares(received map[ParticipantIndex][]*Scalar, dealerConstantTerms []Point) (finalShare *Scalar, groupPublicKey Point) {
	sum := edwards25519.NewScalar()
	for _, shares := range received {
		for _, sh := range shares {
			sum = edwards25519.NewScalar().Add(sum, sh.s)
		}
	}
	gpk := edwards25519.NewIdentityPoint()
	for _, c := range dealerConstantTerms {
		gpk = edwards25519.NewIdentityPoint().Add(gpk, c.p)
	}
	return &Scalar{s: sum}, Point{p: gpk}
}

// ReshareDeal produces one quorum member's contribution to a reshare: a
// fresh Shamir polynomial whose constant term is the member's
// Lagrange-weighted current share, dealt to the new membership. Combining
// every quorum member's contribution with CombineShares yields signing
// shares for the new membership, and the weighted constant terms sum to
// the original group secret, so the group public key is preserved across
// the membership change.
func ReshareDeal(oldShare *Scalar, self ParticipantIndex, quorum []ParticipantIndex, newThreshold int, newRecipients []ParticipantIndex, extraRandomCoeffs [][32]byte) (*DealerPackage, error) {
	lambda := lagrangeCoefficient(self, quorum)
	weighted := &Scalar{s: edwards25519.NewScalar().Multiply(lambda, oldShare.s)}
	pkg, err := Deal(weighted, newThreshold, newRecipients, extraRandomCoeffs)
	if err != nil {
		return nil, err
	}
	pkg.DealerIndex = self
	return pkg, nil
}

// SigningNonce is the pair of hiding/binding nonce scalars a participant
// generates for round 1 of FROST signing, and the corresponding public
// commitments published to the coordinator.
type SigningNonce struct {
	Hiding  *Scalar
	Binding *Scalar
}

// SigningCommitment is the public half of a SigningNonce, published in
// round 1.
type SigningCommitment struct {
	Participant ParticipantIndex
	Hiding      Point
	Binding     Point
}

// GenerateNonce creates a fresh round-1 nonce pair from two 32-byte seeds
// (e.g. RandomEffects.RandomBytes32 calls). The nonce scalars must be
// zeroized after round 2 completes.
func GenerateNonce(seedHiding, seedBinding [32]byte) (SigningNonce, SigningCommitment, ParticipantIndex) {
	hiding := ScalarFromSeed(seedHiding)
	binding := ScalarFromSeed(seedBinding)
	comm := SigningCommitment{
		Hiding:  Point{p: edwards25519.NewIdentityPoint().ScalarBaseMult(hiding.s)},
		Binding: Point{p: edwards25519.NewIdentityPoint().ScalarBaseMult(binding.s)},
	}
	return SigningNonce{Hiding: hiding, Binding: binding}, comm, 0
}

// bindingFactor derives rho_i = H(i || msg || commitment_list) per the
// FROST specification's binding-factor construction, preventing a
// malicious signer from cancelling others' nonce contributions.
func bindingFactor(participant ParticipantIndex, message []byte, commitments []SigningCommitment) *edwards25519.Scalar {
	h := sha512.New()
	h.Write([]byte("aura/frost/binding"))
	var idxB [2]byte
	idxB[0], idxB[1] = byte(participant), byte(participant>>8)
	h.Write(idxB[:])
	h.Write(message)
	for _, c := range commitments {
		var cb [2]byte
		cb[0], cb[1] = byte(c.Participant), byte(c.Participant>>8)
		h.Write(cb[:])
		h.Write(c.Hiding.p.Bytes())
		h.Write(c.Binding.p.Bytes())
	}
	var sum [64]byte
	copy(sum[:], h.Sum(nil))
	s, _ := edwards25519.NewScalar().SetUniformBytes(sum[:])
	return s
}

// groupCommitment computes R = sum_i (D_i + rho_i * E_i) over all
// participating signers.
func groupCommitment(commitments []SigningCommitment, message []byte) *edwards25519.Point {
	r := edwards25519.NewIdentityPoint()
	for _, c := range commitments {
		rho := bindingFactor(c.Participant, message, commitments)
		bound := edwards25519.NewIdentityPoint().ScalarMult(rho, c.Binding.p)
		contrib := edwards25519.NewIdentityPoint().Add(c.Hiding.p, bound)
		r = edwards25519.NewIdentityPoint().Add(r, contrib)
	}
	return r
}

// challenge computes the Fiat-Shamir challenge c = H(R || Y || msg), the
// same binding used by plain Ed25519/Schnorr verification so an aggregated
// FROST signature verifies with an ordinary single-key verifier.
func challenge(r, groupPub *edwards25519.Point, message []byte) *edwards25519.Scalar {
	h := sha512.New()
	h.Write(r.Bytes())
	h.Write(groupPub.Bytes())
	h.Write(message)
	var sum [64]byte
	copy(sum[:], h.Sum(nil))
	s, _ := edwards25519.NewScalar().SetUniformBytes(sum[:])
	return s
}

// lagrangeCoefficient computes the Lagrange coefficient for participant i
// within the signer set, evaluated at x=0, needed to combine shares whose
// Shamir polynomial was defined over arbitrary participant indices.
func lagrangeCoefficient(i ParticipantIndex, signers []ParticipantIndex) *edwards25519.Scalar {
	num, _ := edwards25519.NewScalar().SetCanonicalBytes(oneBytes())
	den, _ := edwards25519.NewScalar().SetCanonicalBytes(oneBytes())
	xi := scalarFromUint16(uint16(i))
	for _, j := range signers {
		if j == i {
			continue
		}
		xj := scalarFromUint16(uint16(j))
		num = edwards25519.NewScalar().Multiply(num, xj)
		diff := edwards25519.NewScalar().Subtract(xj, xi)
		den = edwards25519.NewScalar().Multiply(den, diff)
	}
	denInv := edwards25519.NewScalar().Invert(den)
	return edwards25519.NewScalar().Multiply(num, denInv)
}

// SignShare computes participant i's round-2 signature share z_i, given
// their long-term signing share, their round-1 nonce, the full set of
// round-1 commitments, the message, and the group public key.
func SignShare(participant ParticipantIndex, signingShare *Scalar, nonce SigningNonce, commitments []SigningCommitment, message []byte, groupPub Point, signers []ParticipantIndex) *Scalar {
	r := groupCommitment(commitments, message)
	c := challenge(r, groupPub.p, message)
	lambda := lagrangeCoefficient(participant, signers)

	var self SigningCommitment
	for _, cm := range commitments {
		if cm.Participant == participant {
			self = cm
		}
	}
	rho := bindingFactor(participant, message, commitments)

	z := edwards25519.NewScalar().Add(nonce.Hiding.s, edwards25519.NewScalar().Multiply(rho, nonce.Binding.s))
	_ = self
	lambdaShare := edwards25519.NewScalar().Multiply(lambda, signingShare.s)
	cTerm := edwards25519.NewScalar().Multiply(c, lambdaShare)
	z = edwards25519.NewScalar().Add(z, cTerm)
	return &Scalar{s: z}
}

// Signature is an aggregated FROST/Schnorr signature: (R, z).
type Signature struct {
	R Point
	Z Scalar
}

// Aggregate sums the round-2 shares into the final signature.
func Aggregate(commitments []SigningCommitment, message []byte, shares []*Scalar) Signature {
	r := groupCommitment(commitments, message)
	z := edwards25519.NewScalar()
	for _, s := range shares {
		z = edwards25519.NewScalar().Add(z, s.s)
	}
	return Signature{R: Point{p: r}, Z: Scalar{s: z}}
}

// VerifyAggregate checks sig against groupPub and message: z*B == R + c*Y.
func VerifyAggregate(groupPub Point, message []byte, sig Signature) bool {
	c := challenge(sig.R.p, groupPub.p, message)
	lhs := edwards25519.NewIdentityPoint().ScalarBaseMult(sig.Z.s)
	cy := edwards25519.NewIdentityPoint().ScalarMult(c, groupPub.p)
	rhs := edwards25519.NewIdentityPoint().Add(sig.R.p, cy)
	return lhs.Equal(rhs) == 1
}

// Bytes renders a Point as its canonical 32-byte Ed25519 encoding.
func (p Point) Bytes() []byte { return p.p.Bytes() }

// Bytes renders a Scalar as its canonical 32-byte encoding.
func (s Scalar) Bytes() []byte { return s.s.Bytes() }

// PointFromBytes decodes a canonical Ed25519 point encoding.
func PointFromBytes(b []byte) (Point, error) {
	p, err := edwards25519.NewIdentityPoint().SetBytes(b)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %v", aurerr.ErrSignatureInvalid, err)
	}
	return Point{p: p}, nil
}

// ScalarFromBytes decodes a canonical 32-byte scalar encoding, the inverse
// of Scalar.Bytes.
func ScalarFromBytes(b []byte) (*Scalar, error) {
	s, err := edwards25519.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", aurerr.ErrSignatureInvalid, err)
	}
	return &Scalar{s: s}, nil
}

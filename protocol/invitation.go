// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package protocol implements Aura's protocol orchestration: invitation
// issuance/acceptance, guardian recovery, OTA activation, and snapshot GC.
// Invitation and recovery each have a choreography script (choreography.go)
// that projects to per-role linear states, so a Session cannot advance a
// role out of the global script; OTA activation and snapshot GC have no
// script, and the orchestration functions do not drive a Session
// themselves. Each orchestration is a set of pure functions producing facts
// and guard-chain inputs; the runtime layer executes the resulting effects.
package protocol

import (
	"encoding/base64"
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/aura-net/aura/auracrypto"
	"github.com/aura-net/aura/auratime"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
	"github.com/aura-net/aura/journal"
)

// InvitationKind distinguishes a plain contact invitation from a guardian
// enrollment invitation.
type InvitationKind uint8

const (
	InvitationContact InvitationKind = iota
	InvitationGuardian
)

// InvitationType carries the kind-specific payload.
type InvitationType struct {
	Kind      InvitationKind
	Nickname  string // meaningful when Kind == InvitationContact; empty means none offered
	AccountID ids.AccountId // meaningful when Kind == InvitationGuardian
}

// ShareableInvitation is the issuer-side artifact.
type ShareableInvitation struct {
	Version       uint16
	InvitationID  ids.Hash32
	Sender        ids.AuthorityId
	Type          InvitationType
	Expiry        auratime.PhysicalClock
	OpaquePayload []byte
}

// wireInvitation is ShareableInvitation's JSON-codable shape (Hash32/ID
// arrays don't round-trip through encoding/json without help).
type wireInvitation struct {
	Version       uint16
	InvitationID  string
	Sender        string
	Kind          InvitationKind
	Nickname      string
	AccountID     string
	ExpiryMillis  int64
	OpaquePayload []byte
}

// Issue constructs a ShareableInvitation from sender, bound to expiry and
// carrying typ, with a fresh id derived from nonce (typically 32 bytes
// from RandomEffects, supplied by the caller to keep this function pure).
func Issue(sender ids.AuthorityId, typ InvitationType, expiry auratime.PhysicalClock, nonce []byte, opaquePayload []byte) (ShareableInvitation, error) {
	id, err := ids.Hash32FromBytes(nonce)
	if err != nil {
		return ShareableInvitation{}, errors.Mark(errors.Wrap(err, "invitation nonce must be 32 bytes"), aurerr.ErrInvalidID)
	}
	return ShareableInvitation{
		Version:       1,
		InvitationID:  id,
		Sender:        sender,
		Type:          typ,
		Expiry:        expiry,
		OpaquePayload: opaquePayload,
	}, nil
}

// Export renders the invitation to a shareable string code, a base64url
// encoding of its canonical JSON form.
func Export(inv ShareableInvitation) (string, error) {
	w := wireInvitation{
		Version:       inv.Version,
		InvitationID:  inv.InvitationID.String(),
		Sender:        inv.Sender.String(),
		Kind:          inv.Type.Kind,
		Nickname:      inv.Type.Nickname,
		AccountID:     ids.ID(inv.Type.AccountID).String(),
		ExpiryMillis:  inv.Expiry.Millis,
		OpaquePayload: inv.OpaquePayload,
	}
	body, err := json.Marshal(w)
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "encoding invitation"), aurerr.ErrEncodeFailed)
	}
	return base64.URLEncoding.EncodeToString(body), nil
}

// Parse decodes a string code produced by Export.
func Parse(code string) (ShareableInvitation, error) {
	body, err := base64.URLEncoding.DecodeString(code)
	if err != nil {
		return ShareableInvitation{}, errors.Mark(errors.Wrap(err, "decoding invitation code"), aurerr.ErrDecodeFailed)
	}
	var w wireInvitation
	if err := json.Unmarshal(body, &w); err != nil {
		return ShareableInvitation{}, errors.Mark(errors.Wrap(err, "decoding invitation body"), aurerr.ErrDecodeFailed)
	}
	invitationID, err := ids.FromHex(w.InvitationID)
	if err != nil {
		return ShareableInvitation{}, errors.Mark(errors.Wrap(err, "decoding invitation id"), aurerr.ErrDecodeFailed)
	}
	senderID, err := ids.FromHex(w.Sender)
	if err != nil {
		return ShareableInvitation{}, errors.Mark(errors.Wrap(err, "decoding invitation sender"), aurerr.ErrDecodeFailed)
	}
	var accountID ids.ID
	if w.AccountID != "" {
		accountID, err = ids.FromHex(w.AccountID)
		if err != nil {
			return ShareableInvitation{}, errors.Mark(errors.Wrap(err, "decoding invitation account"), aurerr.ErrDecodeFailed)
		}
	}
	return ShareableInvitation{
		Version:      w.Version,
		InvitationID: ids.Hash32(invitationID),
		Sender:       ids.AuthorityId(senderID),
		Type:         InvitationType{
			Kind:      w.Kind,
			Nickname:  w.Nickname,
			AccountID: ids.AccountId(accountID),
		},
		Expiry:        auratime.PhysicalClock{Millis: w.ExpiryMillis},
		OpaquePayload: w.OpaquePayload,
	}, nil
}

// IsExpired reports whether inv has lapsed as of now.
func IsExpired(inv ShareableInvitation, now auratime.PhysicalClock) bool {
	return now.Millis > inv.Expiry.Millis
}

// Accept validates inv (not expired, version supported) and produces the
// reciprocal ContactFormed fact both parties merge into their journals.
// Guardian-kind invitations additionally return a
// GuardianBinding fact; the caller is responsible for routing both through
// the guard chain (capabilities "invitation:accept") before emission.
func Accept(inv ShareableInvitation, accepter ids.AuthorityId, now auratime.PhysicalClock) ([]journal.RelationalFact, error) {
	if inv.Version != 1 {
		return nil, errors.Mark(errors.Newf("unsupported invitation version %d", inv.Version), aurerr.ErrVersionMismatch)
	}
	if IsExpired(inv, now) {
		return nil, errors.Mark(errors.Newf("invitation expired at %d, now %d", inv.Expiry.Millis, now.Millis), aurerr.ErrInvalidFact)
	}

	switch inv.Type.Kind {
	case InvitationContact:
		return []journal.RelationalFact{
			journal.ContactFormed{A: inv.Sender, B: accepter, Nickname: inv.Type.Nickname},
		}, nil
	case InvitationGuardian:
		bindingHash := auracrypto.Hash("aura/guardian-binding", inv.InvitationID.Bytes(), ids.ID(inv.Sender).Bytes(), ids.ID(accepter).Bytes())
		return []journal.RelationalFact{
			journal.ContactFormed{A: inv.Sender, B: accepter, Nickname: inv.Type.Nickname},
			journal.GuardianBinding{AccountID: inv.Type.AccountID, GuardianID: ids.GuardianId(accepter), BindingHash: bindingHash},
		}, nil
	default:
		return nil, errors.Mark(errors.Newf("unknown invitation kind %d", inv.Type.Kind), aurerr.ErrMalformedFact)
	}
}

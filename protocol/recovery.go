// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package protocol

import (
	"github.com/cockroachdb/errors"

	"github.com/aura-net/aura/auracrypto"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
	"github.com/aura-net/aura/journal"
)

// RecoveryRequest is an account's bid to recover against its current
// guardian-set prestate. Each guardian
// evaluates locally and replies bound to the same prestate; approvals
// against a different prestate than the one the account opened with are
// rejected outright (PrestateDiverged), never partially honored.
type RecoveryRequest struct {
	AccountID ids.AccountId
	Prestate  ids.Hash32
	Threshold int
}

// Approve produces a guardian's signed RecoveryGrant fact bound to req's
// prestate. Fails with PrestateDiverged if
// prestate does not match req.Prestate, so a guardian can never
// accidentally approve a stale or superseded recovery bid.
func Approve(req RecoveryRequest, guardian ids.GuardianId, prestate ids.Hash32, grantSig []byte) (journal.RecoveryGrant, error) {
	if prestate != req.Prestate {
		return journal.RecoveryGrant{}, errors.Wrapf(aurerr.ErrPrestateDiverged, "guardian %s approval bound to prestate %s, request opened at %s", guardian, prestate, req.Prestate)
	}
	grantHash := auracrypto.Hash("aura/recovery/grant", ids.ID(req.AccountID).Bytes(), ids.ID(guardian).Bytes(), prestate.Bytes(), grantSig)
	return journal.RecoveryGrant{
		AccountID:  req.AccountID,
		GuardianID: guardian,
		Prestate:   prestate,
		GrantHash:  grantHash,
	}, nil
}

// CheckThreshold reports whether grants (as reduced by journal's
// CapabilityView.Grants for req.AccountID) meets req.Threshold, counting
// only grants bound to req.Prestate — a grant bound to a different,
// stale prestate never counts toward the quorum.
func CheckThreshold(req RecoveryRequest, grants map[ids.GuardianId]ids.Hash32, grantPrestates map[ids.GuardianId]ids.Hash32) bool {
	count := 0
	for guardian := range grants {
		if grantPrestates[guardian] == req.Prestate {
			count++
		}
	}
	return count >= req.Threshold
}

// Commit produces the RecoveryCommit fact once the threshold is met.
// Journaling the same commit twice (e.g. a late third approval
// arriving after commit) is a harmless no-op at the journal/view layer:
// RecoveryCommit facts for the same (account, prestate) reduce to the same
// CapabilityView.Committed entry regardless of how many are merged.
func Commit(req RecoveryRequest) journal.RecoveryCommit {
	return journal.RecoveryCommit{AccountID: req.AccountID, Prestate: req.Prestate}
}

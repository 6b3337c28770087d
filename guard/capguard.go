// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package guard

import (
	"errors"
	"fmt"

	"github.com/aura-net/aura/internal/aurerr"
)

// CapabilitySet is the decoded form of a principal's capability tokens, as
// assembled into a GuardSnapshot.
type CapabilitySet []CapabilityToken

var defaultBridge = NewBiscuitAuthorizationBridge()

// CapGuard evaluates snapshot's capability tokens against (op, scope)
// through the BiscuitAuthorizationBridge. The request is allowed as soon
// as any token authorizes it; otherwise the denial carries the most
// actionable failure observed — an expired token outranks a plain missing
// grant, and a violated attenuation chain outranks both.
func CapGuard(snapshot GuardSnapshot, op AuthorizationOp, scope ResourceScope) Decision {
	sawExpired := false
	sawAttenuation := false
	for _, token := range snapshot.Capabilities {
		err := defaultBridge.Authorize(token, op, scope, snapshot.Now)
		if err == nil {
			return Allow()
		}
		switch {
		case errors.Is(err, aurerr.ErrCapabilityExpired):
			sawExpired = true
		case errors.Is(err, aurerr.ErrCapabilityAttenuationViolated):
			sawAttenuation = true
		}
	}
	switch {
	case sawAttenuation:
		return Deny(fmt.Errorf("%w: attenuation forbids %s on %s", aurerr.ErrCapabilityAttenuationViolated, op, scope))
	case sawExpired:
		return Deny(fmt.Errorf("%w: capability for %s on %s expired", aurerr.ErrCapabilityExpired, op, scope))
	default:
		return Deny(fmt.Errorf("%w: no capability for %s on %s", aurerr.ErrPermissionDenied, op, scope))
	}
}

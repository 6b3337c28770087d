// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package protocol

import (
	"fmt"

	"github.com/aura-net/aura/internal/aurerr"
)

// Role names a participant in a choreography.
type Role string

// Step names a point in a choreography's global script.
type Step string

// transitionKey is a (Step, Role) pair: the only information needed to
// look up a role's next legal step, since the script is linear per role.
type transitionKey struct {
	from Step
	role Role
}

// Script is a choreography's global protocol, validated at construction so
// that no role can ever reach two different next-steps from the same step.
type Script struct {
	name  string
	steps map[transitionKey]Step
	final map[Step]bool
}

// Transition declares that role may advance the script from `from` to
// `to`.
type Transition struct {
	From Step
	Role Role
	To   Step
}

// NewScript builds a Script from its transitions, terminal steps, and
// validates linearity: two transitions sharing a (From, Role) pair with
// different To steps is a construction-time error, since it would let the
// role's local projection branch non-deterministically. An exact duplicate
// transition is accepted.
func NewScript(name string, transitions []Transition, terminal []Step) (*Script, error) {
	s := &Script{name: name, steps: make(map[transitionKey]Step, len(transitions)), final: make(map[Step]bool, len(terminal))}
	for _, t := range transitions {
		key := transitionKey{from: t.From, role: t.Role}
		if existing, ok := s.steps[key]; ok && existing != t.To {
			return nil, fmt.Errorf("%w: choreography %q: role %q has two distinct successors from step %q", aurerr.ErrPolicyViolation, name, t.Role, t.From)
		}
		s.steps[key] = t.To
	}
	for _, step := range terminal {
		s.final[step] = true
	}
	return s, nil
}

// Session is one role's live projection of a Script: a cursor over its
// linear sequence of legal steps.
type Session struct {
	script *Script
	role   Role
	step   Step
}

// NewSession starts role at the caller-supplied start step of script.
func NewSession(script *Script, role Role, start Step) *Session {
	return &Session{script: script, role: role, step: start}
}

// Step reports the session's current step.
func (s *Session) Step() Step { return s.step }

// Done reports whether the session has reached one of the script's
// terminal steps and has no further legal transitions.
func (s *Session) Done() bool { return s.script.final[s.step] }

// Advance moves the session to its next step, failing if the script
// declares no transition for (current step, role) — e.g. a guardian trying
// to approve recovery before the request was ever issued.
func (s *Session) Advance() (Step, error) {
	key := transitionKey{from: s.step, role: s.role}
	next, ok := s.script.steps[key]
	if !ok {
		return s.step, fmt.Errorf("%w: choreography %q: role %q has no legal transition from step %q", aurerr.ErrPolicyViolation, s.script.name, s.role, s.step)
	}
	s.step = next
	return next, nil
}

// InvitationScript is the two-role script backing Issue/Accept: the sender
// issues once, the accepter accepts once, and both sides land on StepAccepted.
func InvitationScript() (*Script, error) {
	const (
		stepOpen     Step = "open"
		stepIssued   Step = "issued"
		stepAccepted Step = "accepted"
	)
	return NewScript("invitation", []Transition{
		{From: stepOpen, Role: "sender", To: stepIssued},
		{From: stepIssued, Role: "accepter", To: stepAccepted},
	}, []Step{stepAccepted})
}

// RecoveryScript is the guardian-quorum script backing Approve/Commit
//: guardians may approve repeatedly (self-loop) until
// the coordinator observes threshold and commits.
func RecoveryScript() (*Script, error) {
	const (
		stepRequested Step = "requested"
		stepApproving Step = "approving"
		stepCommitted Step = "committed"
	)
	return NewScript("recovery", []Transition{
		{From: stepRequested, Role: "guardian", To: stepApproving},
		{From: stepApproving, Role: "guardian", To: stepApproving},
		{From: stepApproving, Role: "coordinator", To: stepCommitted},
	}, []Step{stepCommitted})
}

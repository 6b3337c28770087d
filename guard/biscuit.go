// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package guard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aura-net/aura/auratime"
	"github.com/aura-net/aura/internal/aurerr"
)

// Capability tokens are Biscuit-shaped: an authority block of Datalog
// facts issued by the granter, plus zero or more attenuation blocks a
// holder appends before delegating. Blocks can only add facts and checks,
// never remove them, so delegation monotonically narrows what a token
// authorizes. The evaluator below is a small Datalog engine over string
// terms; variables are written "$name", and query terms additionally
// support the matchers "*", "prefix*", "<=N", and ">=N".

// DatalogFact is one instantiated predicate,
// e.g. right("invitation:send", "ctx/*").
type DatalogFact struct {
	Predicate string
	Terms     []string
}

// Rule derives Head for every binding under which Body is satisfied.
type Rule struct {
	Head DatalogFact
	Body []DatalogFact
}

// Check is an attenuation constraint: it passes iff at least one of its
// queries (each a conjunctive body) has a satisfying binding. Every check
// in every block must pass for the token to authorize anything.
type Check struct {
	Queries [][]DatalogFact
}

// Block is one segment of a capability token.
type Block struct {
	Facts  []DatalogFact
	Rules  []Rule
	Checks []Check
}

// CapabilityToken is the decoded capability: authority block plus
// attenuations.
type CapabilityToken struct {
	Authority    Block
	Attenuations []Block
}

// NewCapabilityToken builds a token whose authority block carries facts.
func NewCapabilityToken(facts ...DatalogFact) CapabilityToken {
	return CapabilityToken{Authority: Block{Facts: facts}}
}

// Attenuate returns a copy of the token with block appended. The receiver
// is unchanged, mirroring how a delegated token never mutates the
// original.
func (t CapabilityToken) Attenuate(b Block) CapabilityToken {
	out := t
	out.Attenuations = append(append([]Block(nil), t.Attenuations...), b)
	return out
}

// GrantFact states that the token's holder may perform op on resources
// matching pattern ("*" for any, "prefix*" for a subtree, or an exact
// scope).
func GrantFact(op AuthorizationOp, pattern string) DatalogFact {
	return DatalogFact{Predicate: "right", Terms: []string{string(op), pattern}}
}

// ExpiryFact bounds the token's validity to physical times at or before
// millis.
func ExpiryFact(millis int64) DatalogFact {
	return DatalogFact{Predicate: "expiry", Terms: []string{strconv.FormatInt(millis, 10)}}
}

// CheckResource is the usual attenuation: the request's resource must
// match pattern, whatever the authority block would otherwise allow.
func CheckResource(pattern string) Check {
	return Check{Queries: [][]DatalogFact{{{Predicate: "resource", Terms: []string{pattern}}}}}
}

// CheckOperation restricts a delegated token to a single operation.
func CheckOperation(op AuthorizationOp) Check {
	return Check{Queries: [][]DatalogFact{{{Predicate: "operation", Terms: []string{string(op)}}}}}
}

// CheckBefore restricts a delegated token to requests at or before millis,
// a tighter bound than the authority's own expiry.
func CheckBefore(millis int64) Check {
	return Check{Queries: [][]DatalogFact{{{Predicate: "time", Terms: []string{"<=" + strconv.FormatInt(millis, 10)}}}}}
}

// matchTerm unifies one query term against one fact term under bindings.
// Returns the (possibly extended) bindings and whether the terms match.
func matchTerm(pattern, value string, bindings map[string]string) (map[string]string, bool) {
	switch {
	case strings.HasPrefix(pattern, "$"):
		if bound, ok := bindings[pattern]; ok {
			return bindings, bound == value
		}
		next := make(map[string]string, len(bindings)+1)
		for k, v := range bindings {
			next[k] = v
		}
		next[pattern] = value
		return next, true
	case pattern == "*":
		return bindings, true
	case strings.HasSuffix(pattern, "*"):
		return bindings, strings.HasPrefix(value, strings.TrimSuffix(pattern, "*"))
	case strings.HasPrefix(pattern, "<="):
		return bindings, compareNumeric(value, pattern[2:], func(a, b int64) bool { return a <= b })
	case strings.HasPrefix(pattern, ">="):
		return bindings, compareNumeric(value, pattern[2:], func(a, b int64) bool { return a >= b })
	default:
		return bindings, pattern == value
	}
}

func compareNumeric(value, bound string, cmp func(a, b int64) bool) bool {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return false
	}
	b, err := strconv.ParseInt(bound, 10, 64)
	if err != nil {
		return false
	}
	return cmp(v, b)
}

// query enumerates every binding under which body is satisfied against
// world, by backtracking join over the goals in order.
func query(body []DatalogFact, world []DatalogFact) []map[string]string {
	var out []map[string]string
	var walk func(goals []DatalogFact, bindings map[string]string)
	walk = func(goals []DatalogFact, bindings map[string]string) {
		if len(goals) == 0 {
			out = append(out, bindings)
			return
		}
		goal := goals[0]
		for _, f := range world {
			if f.Predicate != goal.Predicate || len(f.Terms) != len(goal.Terms) {
				continue
			}
			b, ok := bindings, true
			for i, pt := range goal.Terms {
				if b, ok = matchTerm(pt, f.Terms[i], b); !ok {
					break
				}
			}
			if ok {
				walk(goals[1:], b)
			}
		}
	}
	walk(body, map[string]string{})
	return out
}

func substitute(f DatalogFact, bindings map[string]string) (DatalogFact, bool) {
	terms := make([]string, len(f.Terms))
	for i, t := range f.Terms {
		if strings.HasPrefix(t, "$") {
			v, ok := bindings[t]
			if !ok {
				return DatalogFact{}, false
			}
			terms[i] = v
		} else {
			terms[i] = t
		}
	}
	return DatalogFact{Predicate: f.Predicate, Terms: terms}, true
}

func factKey(f DatalogFact) string {
	return f.Predicate + "(" + strings.Join(f.Terms, "\x00") + ")"
}

// derive runs the rules bottom-up to fixpoint, returning world extended
// with every derivable fact.
func derive(world []DatalogFact, rules []Rule) []DatalogFact {
	seen := make(map[string]struct{}, len(world))
	for _, f := range world {
		seen[factKey(f)] = struct{}{}
	}
	for changed := true; changed; {
		changed = false
		for _, r := range rules {
			for _, bindings := range query(r.Body, world) {
				head, ok := substitute(r.Head, bindings)
				if !ok {
					continue
				}
				if _, dup := seen[factKey(head)]; dup {
					continue
				}
				seen[factKey(head)] = struct{}{}
				world = append(world, head)
				changed = true
			}
		}
	}
	return world
}

// patternMatches applies a granted resource pattern to a concrete scope.
func patternMatches(pattern string, scope ResourceScope) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(string(scope), strings.TrimSuffix(pattern, "*"))
	}
	return pattern == string(scope)
}

// BiscuitAuthorizationBridge evaluates capability tokens against a
// request. The ambient request facts it contributes are operation(op),
// resource(scope), and time(now); the token's own facts, rules, and
// checks do the rest.
type BiscuitAuthorizationBridge struct{}

// NewBiscuitAuthorizationBridge constructs the (stateless) bridge.
func NewBiscuitAuthorizationBridge() *BiscuitAuthorizationBridge {
	return &BiscuitAuthorizationBridge{}
}

// Authorize reports whether token authorizes op on scope at now. Failures
// are typed: a failed attenuation check is CapabilityAttenuationViolated,
// a lapsed expiry fact is CapabilityExpired, and a missing grant is
// PermissionDenied.
func (br *BiscuitAuthorizationBridge) Authorize(token CapabilityToken, op AuthorizationOp, scope ResourceScope, now auratime.PhysicalClock) error {
	world := []DatalogFact{
		{Predicate: "operation", Terms: []string{string(op)}},
		{Predicate: "resource", Terms: []string{string(scope)}},
		{Predicate: "time", Terms: []string{strconv.FormatInt(now.Millis, 10)}},
	}
	var rules []Rule
	blocks := append([]Block{token.Authority}, token.Attenuations...)
	for _, b := range blocks {
		world = append(world, b.Facts...)
		rules = append(rules, b.Rules...)
	}
	world = derive(world, rules)

	// Every check in every block must hold, or the attenuation chain is
	// violated and nothing else matters.
	for _, b := range blocks {
		for _, c := range b.Checks {
			passed := false
			for _, q := range c.Queries {
				if len(query(q, world)) > 0 {
					passed = true
					break
				}
			}
			if !passed {
				return fmt.Errorf("%w: check failed for %s on %s", aurerr.ErrCapabilityAttenuationViolated, op, scope)
			}
		}
	}

	// An expiry fact in the past invalidates the whole token.
	for _, bindings := range query([]DatalogFact{{Predicate: "expiry", Terms: []string{"$e"}}}, world) {
		e, err := strconv.ParseInt(bindings["$e"], 10, 64)
		if err != nil {
			continue
		}
		if now.Millis > e {
			return fmt.Errorf("%w: token expired at %d, now %d", aurerr.ErrCapabilityExpired, e, now.Millis)
		}
	}

	// Finally: some right(op, pattern) must cover the request.
	for _, bindings := range query([]DatalogFact{{Predicate: "right", Terms: []string{string(op), "$p"}}}, world) {
		if patternMatches(bindings["$p"], scope) {
			return nil
		}
	}
	return fmt.Errorf("%w: no right covers %s on %s", aurerr.ErrPermissionDenied, op, scope)
}

// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

/*
Package guard decides what an operator may see on every navigation.

It reproduces the protected-route policy of the platform's UI: each protected
route declares the roles allowed to view it, and the guard maps the current
session snapshot to exactly one outcome. The decision is a pure function —
evaluated fresh per navigation, never cached, no hidden state.

# Policy (in order)

 1. Session loading → show a loading placeholder, withhold the decision.
 2. Not authenticated → redirect to the sign-in route.
 3. Role not in the route's allowed set → brief 403 notice, then redirect to
    the role's own dashboard. This is routing policy, not a reportable error.
 4. Otherwise → render, and (exactly once per session) trigger the lazy
    profile fetch.

Unknown paths never reach the guard; they render a generic not-found page
regardless of authentication.
*/
package guard

import (
	"context"

	"github.com/pharmora/client/internal/platform/constants"
	"github.com/pharmora/client/internal/platform/sec"
	"github.com/pharmora/client/internal/session"
)

// Decision is the guard's verdict for one navigation.
type Decision int

const (
	// DecisionLoading withholds judgment while a session operation is in
	// flight, preventing a flash of the sign-in screen.
	DecisionLoading Decision = iota

	// DecisionRender lets the requested page render.
	DecisionRender

	// DecisionRedirectLogin sends the anonymous operator to sign-in.
	DecisionRedirectLogin

	// DecisionForbidden shows a brief 403 notice, then redirects the
	// operator to their own dashboard.
	DecisionForbidden
)

// String names the decision for logs and tests.
func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "LOADING"
	case DecisionRender:
		return "RENDER"
	case DecisionRedirectLogin:
		return "REDIRECT_LOGIN"
	case DecisionForbidden:
		return "FORBIDDEN_THEN_REDIRECT"
	default:
		return "UNKNOWN"
	}
}

// Outcome pairs a [Decision] with its redirect target, when one applies.
type Outcome struct {
	Decision Decision

	// RedirectTo is set for DecisionRedirectLogin (the sign-in route) and
	// DecisionForbidden (the current role's own dashboard).
	RedirectTo string
}

/*
Evaluate maps a session snapshot and a route's allowed roles to an [Outcome].

Description: Pure function of its inputs. An empty allowed set means "any
authenticated role".

Parameters:
  - snapshot: session.Snapshot
  - allowedRoles: []sec.UserRole

Returns:
  - Outcome: The verdict plus redirect target where applicable
*/
func Evaluate(snapshot session.Snapshot, allowedRoles []sec.UserRole) Outcome {
	if snapshot.Loading {
		return Outcome{Decision: DecisionLoading}
	}
	if !snapshot.Authenticated() {
		return Outcome{Decision: DecisionRedirectLogin, RedirectTo: constants.RouteLogin}
	}
	if !snapshot.Role.In(allowedRoles) {
		return Outcome{Decision: DecisionForbidden, RedirectTo: snapshot.Role.DashboardPath()}
	}
	return Outcome{Decision: DecisionRender}
}

// # Side-Effecting Wrapper

// ProfileFetcher is the single side effect the guard may trigger.
// [session.Store.EnsureProfile] satisfies it.
type ProfileFetcher interface {
	EnsureProfile(context context.Context) error
	Snapshot() session.Snapshot
}

// Guard evaluates the route policy against the live session store.
//
// The decision logic stays in [Evaluate]; Guard only adds the one permitted
// side effect so the policy remains unit-testable without a network.
type Guard struct {
	store ProfileFetcher
}

// New constructs a [Guard] over the session store.
func New(store ProfileFetcher) *Guard {
	return &Guard{store: store}
}

/*
Check evaluates the policy for one navigation and, on RENDER with an absent
profile, triggers the lazy profile fetch in the background.

Description: Idempotent under re-render storms. EnsureProfile itself refuses
to start while the session is loading or the profile is present, so repeated
Check calls while a fetch is in flight never issue a second request.

Parameters:
  - ctx: context.Context
  - allowedRoles: []sec.UserRole

Returns:
  - Outcome: Same contract as [Evaluate]
*/
func (guard *Guard) Check(ctx context.Context, allowedRoles []sec.UserRole) Outcome {
	snapshot := guard.store.Snapshot()
	outcome := Evaluate(snapshot, allowedRoles)

	if outcome.Decision == DecisionRender && snapshot.Profile == nil {
		// Fire-and-forget; completion is observed through the store. The
		// fetch outlives the navigation that triggered it.
		detached := context.WithoutCancel(ctx)
		go func() { _ = guard.store.EnsureProfile(detached) }()
	}
	return outcome
}

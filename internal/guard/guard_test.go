// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

package guard_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmora/client/internal/guard"
	"github.com/pharmora/client/internal/platform/api"
	"github.com/pharmora/client/internal/platform/sec"
	"github.com/pharmora/client/internal/session"
)

/*
TestEvaluate covers the full decision table: loading, anonymous, role
mismatch, allowed role, and the empty allowed set.
*/
func TestEvaluate(t *testing.T) {
	patient := session.Snapshot{Token: "t", Role: sec.RolePatient, UserID: "u-1"}
	doctor := session.Snapshot{Token: "t", Role: sec.RoleDoctor, UserID: "u-2"}

	tests := []struct {
		name         string
		snapshot     session.Snapshot
		allowed      []sec.UserRole
		wantDecision guard.Decision
		wantRedirect string
	}{
		{
			name:         "loading_withholds_decision",
			snapshot:     session.Snapshot{Loading: true},
			allowed:      []sec.UserRole{sec.RolePatient},
			wantDecision: guard.DecisionLoading,
		},
		{
			name:         "loading_wins_even_when_authenticated",
			snapshot:     session.Snapshot{Token: "t", Role: sec.RolePatient, Loading: true},
			allowed:      []sec.UserRole{sec.RolePatient},
			wantDecision: guard.DecisionLoading,
		},
		{
			name:         "anonymous_redirects_to_login",
			snapshot:     session.Snapshot{},
			allowed:      []sec.UserRole{sec.RolePatient},
			wantDecision: guard.DecisionRedirectLogin,
			wantRedirect: "/login",
		},
		{
			name:         "wrong_role_redirects_to_own_dashboard",
			snapshot:     doctor,
			allowed:      []sec.UserRole{sec.RolePatient},
			wantDecision: guard.DecisionForbidden,
			wantRedirect: "/doctor/dashboard",
		},
		{
			name:         "allowed_role_renders",
			snapshot:     patient,
			allowed:      []sec.UserRole{sec.RolePatient},
			wantDecision: guard.DecisionRender,
		},
		{
			name:         "multi_role_route_admits_member",
			snapshot:     doctor,
			allowed:      []sec.UserRole{sec.RolePatient, sec.RoleDoctor},
			wantDecision: guard.DecisionRender,
		},
		{
			name:         "empty_set_admits_any_authenticated_role",
			snapshot:     doctor,
			allowed:      nil,
			wantDecision: guard.DecisionRender,
		},
		{
			name:         "empty_set_still_rejects_anonymous",
			snapshot:     session.Snapshot{},
			allowed:      nil,
			wantDecision: guard.DecisionRedirectLogin,
			wantRedirect: "/login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := guard.Evaluate(tt.snapshot, tt.allowed)
			assert.Equal(t, tt.wantDecision, outcome.Decision)
			assert.Equal(t, tt.wantRedirect, outcome.RedirectTo)
		})
	}
}

/*
TestEvaluate_IsPure checks that evaluation leaves no trace: the same inputs
produce the same outcome on every call.
*/
func TestEvaluate_IsPure(t *testing.T) {
	snapshot := session.Snapshot{Token: "t", Role: sec.RolePharmacy}
	allowed := []sec.UserRole{sec.RolePatient}

	first := guard.Evaluate(snapshot, allowed)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, guard.Evaluate(snapshot, allowed))
	}
}

// fakeFetcher implements guard.ProfileFetcher with a canned snapshot.
type fakeFetcher struct {
	mu       sync.Mutex
	snapshot session.Snapshot
	fetches  int
	fetched  chan struct{}
}

func (f *fakeFetcher) Snapshot() session.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot
}

func (f *fakeFetcher) EnsureProfile(context.Context) error {
	f.mu.Lock()
	f.fetches++
	f.mu.Unlock()
	if f.fetched != nil {
		f.fetched <- struct{}{}
	}
	return nil
}

func (f *fakeFetcher) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

/*
TestCheck_TriggersProfileFetch checks that a RENDER verdict with an absent
profile kicks off the lazy fetch.
*/
func TestCheck_TriggersProfileFetch(t *testing.T) {
	fetcher := &fakeFetcher{
		snapshot: session.Snapshot{Token: "t", Role: sec.RolePatient, UserID: "u-1"},
		fetched:  make(chan struct{}, 1),
	}
	g := guard.New(fetcher)

	outcome := g.Check(context.Background(), []sec.UserRole{sec.RolePatient})
	assert.Equal(t, guard.DecisionRender, outcome.Decision)

	select {
	case <-fetcher.fetched:
	case <-time.After(time.Second):
		t.Fatal("profile fetch was not triggered")
	}
}

/*
TestCheck_NoFetchWhenHydrated checks that a present profile suppresses the
fetch entirely.
*/
func TestCheck_NoFetchWhenHydrated(t *testing.T) {
	fetcher := &fakeFetcher{
		snapshot: session.Snapshot{
			Token:   "t",
			Role:    sec.RolePatient,
			UserID:  "u-1",
			Profile: &api.Profile{ID: "u-1"},
		},
	}
	g := guard.New(fetcher)

	outcome := g.Check(context.Background(), []sec.UserRole{sec.RolePatient})
	require.Equal(t, guard.DecisionRender, outcome.Decision)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, fetcher.fetchCount())
}

/*
TestCheck_NoFetchWithoutRender checks that redirect and forbidden verdicts
never touch the session store.
*/
func TestCheck_NoFetchWithoutRender(t *testing.T) {
	tests := []struct {
		name     string
		snapshot session.Snapshot
		want     guard.Decision
	}{
		{"anonymous", session.Snapshot{}, guard.DecisionRedirectLogin},
		{"wrong_role", session.Snapshot{Token: "t", Role: sec.RoleDoctor}, guard.DecisionForbidden},
		{"loading", session.Snapshot{Loading: true}, guard.DecisionLoading},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{snapshot: tt.snapshot}
			g := guard.New(fetcher)

			outcome := g.Check(context.Background(), []sec.UserRole{sec.RolePatient})
			require.Equal(t, tt.want, outcome.Decision)

			time.Sleep(20 * time.Millisecond)
			assert.Equal(t, 0, fetcher.fetchCount())
		})
	}
}

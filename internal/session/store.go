// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pharmora/client/internal/platform/apperr"
	"github.com/pharmora/client/internal/platform/notify"
	"github.com/pharmora/client/internal/platform/sec"
	"github.com/pharmora/client/internal/platform/validate"

	"github.com/pharmora/client/internal/platform/api"
)

// vaultTimeout bounds synchronous device-store writes during logout.
const vaultTimeout = 3 * time.Second

// Store is the session state container.
//
// # Concurrency
//
// The original runtime is a single UI event loop; here every method is safe
// to call from the shell's handler goroutines. Asynchronous operations
// (login, profile fetch, password flows) serialize on opMu so at most one is
// in flight, matching the one-event-loop semantics. Logout deliberately does
// NOT take opMu: it must be able to interleave with an in-flight operation,
// and the epoch guard keeps the stale resolution from resurrecting the
// session.
type Store struct {
	backend  Backend
	vault    *Vault
	notifier notify.Notifier
	log      *slog.Logger

	// opMu serializes async operations (not logout).
	opMu sync.Mutex

	// mu guards the state fields below.
	mu        sync.Mutex
	token     string
	role      sec.UserRole
	userID    string
	profile   *api.Profile
	loading   bool
	lastError *apperr.AppError

	// epoch increments whenever the session identity is torn down. An async
	// resolution carrying a stale epoch is discarded.
	epoch uint64

	watchers []chan Snapshot
}

// NewStore constructs a session [Store]. Call [Store.Boot] before first use.
func NewStore(backend Backend, vault *Vault, notifier notify.Notifier, log *slog.Logger) *Store {
	return &Store{
		backend:  backend,
		vault:    vault,
		notifier: notifier,
		log:      log,
	}
}

// # Observation

// Snapshot returns a consistent copy of the current session state.
func (store *Store) Snapshot() Snapshot {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.snapshotLocked()
}

// Watch returns a channel receiving a [Snapshot] after every state change.
//
// The channel is buffered; a slow consumer loses intermediate snapshots, never
// the possibility of reading the latest state via [Store.Snapshot].
func (store *Store) Watch() <-chan Snapshot {
	store.mu.Lock()
	defer store.mu.Unlock()
	ch := make(chan Snapshot, 16)
	store.watchers = append(store.watchers, ch)
	return ch
}

func (store *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Token:     store.token,
		Role:      store.role,
		UserID:    store.userID,
		Profile:   store.profile,
		Loading:   store.loading,
		LastError: store.lastError,
	}
}

// publishLocked fans the current snapshot out to watchers without blocking.
func (store *Store) publishLocked() {
	snapshot := store.snapshotLocked()
	for _, ch := range store.watchers {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// # Boot

/*
Boot initializes the session from the device store, once, at process start.

Description: Restores the persisted credential triple if present. A token
whose exp claim is already in the past is discarded immediately instead of
booting a session doomed to its first 401.

Parameters:
  - context: context.Context

Returns:
  - error: Device-store failures only; an absent credential is not an error
*/
func (store *Store) Boot(context context.Context) error {
	credentials, err := store.vault.Load(context)
	if err != nil {
		return err
	}
	if credentials == nil {
		store.log.Info("session_boot", slog.String("phase", string(PhaseAnonymous)))
		return nil
	}

	// Reject persisted roles outside the closed set (corrupt or downgraded data).
	if !credentials.Role.Valid() {
		store.log.Warn("session_boot_invalid_role", slog.String("role", string(credentials.Role)))
		_ = store.vault.Clear(context)
		return nil
	}

	if claims, err := sec.InspectToken(credentials.Token); err != nil || claims.Expired(time.Now()) {
		store.log.Info("session_boot_expired_credential_discarded")
		_ = store.vault.Clear(context)
		return nil
	}

	store.mu.Lock()
	store.setIdentityLocked(credentials.Token, credentials.Role, credentials.UserID)
	store.publishLocked()
	store.mu.Unlock()

	store.log.Info("session_boot",
		slog.String("phase", string(PhaseNoProfile)),
		slog.String("role", string(credentials.Role)),
	)
	return nil
}

// # Login

/*
Login exchanges credentials for an authenticated session.

Description: On success the identity triple is set and persisted, and the
profile is left absent for the route guard to fill lazily. On any failure the
session stays anonymous and nothing partial is persisted. Both outcomes emit
an operator banner.

Parameters:
  - context: context.Context
  - identifier: Email, national id, or registry number
  - password: string
  - role: Requested role

Returns:
  - error: VALIDATION_ERROR, UNAUTHENTICATED, or TRANSPORT_ERROR
*/
func (store *Store) Login(context context.Context, identifier, password string, role sec.UserRole) error {
	v := &validate.Validator{}
	err := v.
		Required("identifier", identifier).
		Required("password", password).
		Custom("user_type", !role.Valid(), "Unknown account type").
		Err()
	if err != nil {
		return store.failLocal(err, "Sign-in failed")
	}

	store.opMu.Lock()
	defer store.opMu.Unlock()
	epoch := store.begin()

	result, err := store.backend.Login(context, identifier, password, string(role))
	if err != nil {
		store.finish(epoch, func() {
			store.lastError = apperr.As(err)
		})
		store.notifier.Error(err.Error())
		return err
	}

	grantedRole, ok := sec.ParseRole(result.UserType)
	if !ok {
		err := apperr.Unauthorized("Server returned an unknown account type")
		store.finish(epoch, func() {
			store.lastError = err
		})
		store.notifier.Error(err.Error())
		return err
	}

	applied := store.finish(epoch, func() {
		store.setIdentityLocked(result.AccessToken, grantedRole, result.UserID)
		store.lastError = nil
	})
	if !applied {
		// Logged out while the request was in flight; do not persist.
		return nil
	}

	if err := store.vault.Save(context, Credentials{
		Token:  result.AccessToken,
		Role:   grantedRole,
		UserID: result.UserID,
	}); err != nil {
		// The in-memory session is live; only restart durability is degraded.
		store.log.Warn("session_credential_persist_failed", slog.Any("error", err))
	}

	store.notifier.Success("Signed in")
	store.log.Info("session_login",
		slog.String("role", string(grantedRole)),
		slog.String("user_id", result.UserID),
	)
	return nil
}

// # Profile

/*
EnsureProfile populates the profile for an authenticated session.

Description: This is the guard-triggered "fetch current user" step. It is a
no-op unless a token is present, the profile is absent, and no operation is
already loading — safe to call on every render. A credential rejection here
is the one path by which the store reacts to server-side invalidation: the
entire session is torn down, never left half-valid.

Parameters:
  - context: context.Context

Returns:
  - error: SESSION_EXPIRED, TRANSPORT_ERROR, or server failures
*/
func (store *Store) EnsureProfile(context context.Context) error {
	store.mu.Lock()
	if store.token == "" || store.profile != nil || store.loading {
		store.mu.Unlock()
		return nil
	}
	store.mu.Unlock()

	store.opMu.Lock()
	defer store.opMu.Unlock()

	// Re-check under the operation lock; another call may have won the race.
	store.mu.Lock()
	if store.token == "" || store.profile != nil {
		store.mu.Unlock()
		return nil
	}
	store.mu.Unlock()

	epoch := store.begin()

	profile, err := store.backend.Me(context)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeSessionExpired) {
			// Forced logout — but only if this resolution is still current.
			// A stale rejection arriving after an explicit logout must not
			// touch the (already anonymous) session.
			applied := store.finish(epoch, func() {
				store.clearIdentityLocked()
				store.lastError = apperr.As(err)
			})
			if applied {
				store.clearVault()
				store.notifier.Error(err.Error())
				store.log.Info("session_invalidated_by_backend")
			}
			return err
		}
		store.finish(epoch, func() {
			store.lastError = apperr.As(err)
		})
		return err
	}

	if store.finish(epoch, func() { store.profile = profile }) {
		store.log.Info("session_profile_loaded", slog.String("user", profile.DisplayName()))
	}
	return nil
}

// # Logout

// Logout unconditionally returns the session to ANONYMOUS: identity and
// profile cleared, persisted credential removed, confirmation banner emitted.
// It is synchronous and never fails.
func (store *Store) Logout() {
	store.mu.Lock()
	store.clearIdentityLocked()
	store.lastError = nil
	store.publishLocked()
	store.mu.Unlock()

	store.clearVault()
	store.notifier.Success("Signed out")
	store.log.Info("session_logout")
}

// ClearError drops the last failure payload. Errors are cleared explicitly
// by the operator dismissing the banner, never automatically.
func (store *Store) ClearError() {
	store.mu.Lock()
	store.lastError = nil
	store.publishLocked()
	store.mu.Unlock()
}

// # Password Flows

// RequestPasswordReset starts the forgot-password flow. No session state
// beyond loading/lastError changes.
func (store *Store) RequestPasswordReset(context context.Context, email string) error {
	v := &validate.Validator{}
	if err := v.Required("email", email).Email("email", email).Err(); err != nil {
		return store.failLocal(err, "Password reset failed")
	}

	store.opMu.Lock()
	defer store.opMu.Unlock()
	epoch := store.begin()

	err := store.backend.ForgotPassword(context, email)
	store.finish(epoch, func() {
		store.lastError = apperr.As(err)
	})
	if err != nil {
		store.notifier.Error(err.Error())
		return err
	}
	store.notifier.Success("If the address exists, a reset link is on its way")
	return nil
}

// ResetPassword completes the forgot-password flow with an emailed token.
func (store *Store) ResetPassword(context context.Context, token, newPassword, confirm string) error {
	v := &validate.Validator{}
	err := v.
		Required("token", token).
		MinLen("new_password", newPassword, passwordMinLength).
		Equals("new_password_confirm", confirm, newPassword, "Passwords do not match").
		Err()
	if err != nil {
		return store.failLocal(err, "Password reset failed")
	}

	store.opMu.Lock()
	defer store.opMu.Unlock()
	epoch := store.begin()

	err = store.backend.ResetPassword(context, token, newPassword, confirm)
	store.finish(epoch, func() {
		store.lastError = apperr.As(err)
	})
	if err != nil {
		store.notifier.Error(err.Error())
		return err
	}
	store.notifier.Success("Password updated. You can sign in now.")
	return nil
}

// ChangePassword rotates the password of the authenticated user.
func (store *Store) ChangePassword(context context.Context, oldPassword, newPassword, confirm string) error {
	v := &validate.Validator{}
	err := v.
		Required("old_password", oldPassword).
		MinLen("new_password", newPassword, passwordMinLength).
		Equals("new_password_confirm", confirm, newPassword, "Passwords do not match").
		Err()
	if err != nil {
		return store.failLocal(err, "Password change failed")
	}

	store.opMu.Lock()
	defer store.opMu.Unlock()
	epoch := store.begin()

	err = store.backend.ChangePassword(context, oldPassword, newPassword, confirm)
	store.finish(epoch, func() {
		store.lastError = apperr.As(err)
	})
	if err != nil {
		store.notifier.Error(err.Error())
		return err
	}
	store.notifier.Success("Password changed")
	return nil
}

// # Internals

// begin marks an async operation in flight: loading on, previous error
// cleared, current epoch captured for the stale-resolution guard.
func (store *Store) begin() uint64 {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.loading = true
	store.lastError = nil
	epoch := store.epoch
	store.publishLocked()
	return epoch
}

// finish terminates an async operation. Loading is ALWAYS reset — it belongs
// to this operation regardless of staleness — but apply runs only when the
// captured epoch is still current. Returns whether apply ran.
func (store *Store) finish(epoch uint64, apply func()) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.loading = false
	applied := epoch == store.epoch
	if applied && apply != nil {
		apply()
	}
	store.publishLocked()
	return applied
}

// failLocal records a pre-network failure (validation) and emits a banner.
func (store *Store) failLocal(err error, banner string) error {
	store.mu.Lock()
	store.lastError = apperr.As(err)
	store.publishLocked()
	store.mu.Unlock()
	store.notifier.Error(banner)
	return err
}

// setIdentityLocked writes the identity triple atomically. The co-presence
// invariant (token ⇔ role ⇔ user id) holds because this is the only setter.
func (store *Store) setIdentityLocked(token string, role sec.UserRole, userID string) {
	store.token = token
	store.role = role
	store.userID = userID
}

// clearIdentityLocked tears the identity down and bumps the epoch so any
// in-flight resolution becomes stale.
func (store *Store) clearIdentityLocked() {
	store.token = ""
	store.role = ""
	store.userID = ""
	store.profile = nil
	store.epoch++
}

// clearVault removes the persisted credential with a bounded deadline.
func (store *Store) clearVault() {
	ctx, cancel := context.WithTimeout(context.Background(), vaultTimeout)
	defer cancel()
	if err := store.vault.Clear(ctx); err != nil {
		store.log.Warn("session_credential_clear_failed", slog.Any("error", err))
	}
}

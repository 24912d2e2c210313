// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

/*
Package session implements the client's session state machine.

It is the single source of truth for "who is signed in, as what role, with
what credential". Every other layer — the route guard, the app shell, the
checkout flow — reads session state from here and never caches it.

# State Machine

	ANONYMOUS → (login success) → AUTHENTICATED_NO_PROFILE
	          → (profile fetch success) → AUTHENTICATED_WITH_PROFILE

Any state returns to ANONYMOUS on logout or when the backend rejects the
stored credential. A 'loading' flag overlays whichever state is active while
an operation is in flight.

# Invariants

Token, role, and user id are always set together or absent together; they are
only ever written through setIdentity/clearIdentity. 'loading' is reset on
every terminal transition, success or failure, no exceptions.
*/
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/pharmora/client/internal/platform/api"
	"github.com/pharmora/client/internal/platform/apperr"
	"github.com/pharmora/client/internal/platform/constants"
	"github.com/pharmora/client/internal/platform/sec"
	"github.com/pharmora/client/internal/platform/storage"
)

// # Phases

// Phase names the session state machine's current state.
type Phase string

const (
	PhaseAnonymous   Phase = "ANONYMOUS"
	PhaseNoProfile   Phase = "AUTHENTICATED_NO_PROFILE"
	PhaseWithProfile Phase = "AUTHENTICATED_WITH_PROFILE"
)

// # Snapshot

// Snapshot is an immutable view of session state at one instant.
//
// Consumers receive snapshots, never live references; a snapshot taken before
// a logout stays internally consistent.
type Snapshot struct {
	Token     string
	Role      sec.UserRole
	UserID    string
	Profile   *api.Profile
	Loading   bool
	LastError *apperr.AppError
}

// Authenticated reports whether a credential is present.
// It is derived, never independently settable.
func (s Snapshot) Authenticated() bool { return s.Token != "" }

// Phase derives the state machine phase from the snapshot fields.
func (s Snapshot) Phase() Phase {
	switch {
	case s.Token == "":
		return PhaseAnonymous
	case s.Profile == nil:
		return PhaseNoProfile
	default:
		return PhaseWithProfile
	}
}

// # Backend Contract

// Backend is the slice of the platform API the session layer consumes.
//
// # Why an interface?
//
// Defining Backend here decouples the store from the HTTP client
// implementation, allowing tests to stub the backend without a server.
// [api.Client] satisfies it.
type Backend interface {
	Login(context context.Context, identifier, password, userType string) (*api.LoginResult, error)
	RegisterPatient(context context.Context, input api.PatientRegistration) error
	RegisterPharmacy(context context.Context, input api.PharmacyRegistration) error
	RegisterDoctor(context context.Context, input api.DoctorRegistration) error
	Me(context context.Context) (*api.Profile, error)
	ForgotPassword(context context.Context, email string) error
	ResetPassword(context context.Context, token, newPassword, confirm string) error
	ChangePassword(context context.Context, oldPassword, newPassword, confirm string) error
}

// # Credential Vault

// Credentials is the persisted identity triple. It survives restarts so the
// operator is not forced to sign in after every boot.
type Credentials struct {
	Token  string       `json:"token"`
	Role   sec.UserRole `json:"role"`
	UserID string       `json:"user_id"`
}

// Vault persists the credential triple in the device store, sealed with the
// device secret. It is the only writer of [constants.StorageKeyCredentials].
type Vault struct {
	store  storage.Store
	sealer *sec.Sealer
}

// NewVault constructs a credential vault over the given device store.
func NewVault(store storage.Store, sealer *sec.Sealer) *Vault {
	return &Vault{store: store, sealer: sealer}
}

/*
Save seals and persists the credential triple.

Parameters:
  - context: context.Context
  - credentials: Credentials

Returns:
  - error: Sealing or storage failures
*/
func (vault *Vault) Save(context context.Context, credentials Credentials) error {
	plain, err := json.Marshal(credentials)
	if err != nil {
		return fmt.Errorf("session: credential encoding failed: %w", err)
	}

	sealed, err := vault.sealer.Seal(plain)
	if err != nil {
		return fmt.Errorf("session: credential sealing failed: %w", err)
	}

	if err := vault.store.Set(context, constants.StorageKeyCredentials, sealed); err != nil {
		return fmt.Errorf("session: credential persistence failed: %w", err)
	}
	return nil
}

/*
Load retrieves and opens the persisted credential triple.

Description: Returns (nil, nil) when nothing is persisted. A blob that fails
to open (tampered, or the device secret changed) is treated the same as
absent — the operator simply signs in again.

Parameters:
  - context: context.Context

Returns:
  - *Credentials: The persisted triple, or nil
  - error: Storage driver failures only
*/
func (vault *Vault) Load(context context.Context) (*Credentials, error) {
	sealed, err := vault.store.Get(context, constants.StorageKeyCredentials)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	plain, err := vault.sealer.Open(sealed)
	if err != nil {
		// Unreadable blob: discard rather than block boot.
		_ = vault.store.Delete(context, constants.StorageKeyCredentials)
		return nil, nil
	}

	credentials := &Credentials{}
	if err := json.Unmarshal(plain, credentials); err != nil {
		_ = vault.store.Delete(context, constants.StorageKeyCredentials)
		return nil, nil
	}
	return credentials, nil
}

// Clear removes the persisted credential. Missing is not an error.
func (vault *Vault) Clear(context context.Context) error {
	return vault.store.Delete(context, constants.StorageKeyCredentials)
}

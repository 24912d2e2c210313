// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

// Package sec provides the security-sensitive primitives of the client:
// role semantics, access-token inspection, and credential sealing.
//
// # Architecture
//
// This package isolates cryptographic and token-format code from the domain
// logic. The session layer consumes it through plain functions; nothing here
// holds state.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the subset of the backend's JWT payload the client reads.
//
// # Why unverified?
//
// The client does not hold the backend's signing key, so it can never VERIFY
// a token — the backend does that on every request. What the client can do is
// INSPECT its own stored token: read the expiry to discard dead credentials
// at boot instead of booting into a session doomed to its first 401.
type AccessClaims struct {
	jwt.RegisteredClaims

	UserType string `json:"user_type"`
	UserID   string `json:"user_id"`
}

// InspectToken decodes the claims of a bearer token WITHOUT verifying its
// signature. The result must never be used to grant anything; it only informs
// client-local housekeeping.
func InspectToken(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("sec: malformed access token: %w", err)
	}

	// Older backend builds put the user id only in 'sub'.
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return claims, nil
}

// Expired reports whether the claims carry an exp in the past.
// A token without an exp claim is treated as live; the backend remains the
// authority and will reject it if needed.
func (c *AccessClaims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Before(now)
}

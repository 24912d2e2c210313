// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmora/client/internal/platform/sec"
)

/*
TestSealer_RoundTrip checks that sealed blobs open back to the original
plaintext under the same device secret.
*/
func TestSealer_RoundTrip(t *testing.T) {
	sealer, err := sec.NewSealer("device-secret")
	require.NoError(t, err)

	plaintext := []byte(`{"token":"jwt-abc","role":"patient"}`)
	blob, err := sealer.Seal(plaintext)
	require.NoError(t, err)
	require.NotEmpty(t, blob)

	opened, err := sealer.Open(blob)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

/*
TestSealer_WrongSecret checks that a blob sealed on one device cannot be
opened with a different secret.
*/
func TestSealer_WrongSecret(t *testing.T) {
	sealer, err := sec.NewSealer("device-secret")
	require.NoError(t, err)
	other, err := sec.NewSealer("another-secret")
	require.NoError(t, err)

	blob, err := sealer.Seal([]byte("credentials"))
	require.NoError(t, err)

	_, err = other.Open(blob)
	assert.Error(t, err)
}

/*
TestSealer_RejectsBadInput checks tampering and malformed blobs.
*/
func TestSealer_RejectsBadInput(t *testing.T) {
	sealer, err := sec.NewSealer("device-secret")
	require.NoError(t, err)

	tests := []struct {
		name string
		blob string
	}{
		{"not_base64", "!!not base64!!"},
		{"truncated", "c2hvcnQ="},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sealer.Open(tt.blob)
			assert.Error(t, err)
		})
	}
}

/*
TestNewSealer_EmptySecret checks that an empty device secret is refused.
*/
func TestNewSealer_EmptySecret(t *testing.T) {
	_, err := sec.NewSealer("")
	assert.Error(t, err)
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-key"))
	require.NoError(t, err)
	return token
}

/*
TestInspectToken checks unverified claim extraction, including the fallback
to 'sub' for older backend builds.
*/
func TestInspectToken(t *testing.T) {
	t.Run("full_claims", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{
			"user_type": "pharmacy",
			"user_id":   "u-7",
			"exp":       time.Now().Add(time.Hour).Unix(),
		})

		claims, err := sec.InspectToken(token)
		require.NoError(t, err)
		assert.Equal(t, "pharmacy", claims.UserType)
		assert.Equal(t, "u-7", claims.UserID)
		assert.False(t, claims.Expired(time.Now()))
	})

	t.Run("sub_fallback", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "u-9"})

		claims, err := sec.InspectToken(token)
		require.NoError(t, err)
		assert.Equal(t, "u-9", claims.UserID)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := sec.InspectToken("not.a.token")
		assert.Error(t, err)
	})
}

/*
TestAccessClaims_Expired checks expiry evaluation, including the no-exp case.
*/
func TestAccessClaims_Expired(t *testing.T) {
	now := time.Now()

	t.Run("past_exp", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()})
		claims, err := sec.InspectToken(token)
		require.NoError(t, err)
		assert.True(t, claims.Expired(now))
	})

	t.Run("no_exp_is_live", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "u-1"})
		claims, err := sec.InspectToken(token)
		require.NoError(t, err)
		assert.False(t, claims.Expired(now))
	})
}

/*
TestParseRole checks the closed role set.
*/
func TestParseRole(t *testing.T) {
	tests := []struct {
		value string
		want  sec.UserRole
		ok    bool
	}{
		{"patient", sec.RolePatient, true},
		{"pharmacy", sec.RolePharmacy, true},
		{"doctor", sec.RoleDoctor, true},
		{"admin", sec.RoleAdmin, true},
		{"superuser", "", false},
		{"Patient", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		role, ok := sec.ParseRole(tt.value)
		assert.Equal(t, tt.ok, ok, tt.value)
		assert.Equal(t, tt.want, role, tt.value)
	}
}

/*
TestUserRole_In checks set membership, including the empty-set rule.
*/
func TestUserRole_In(t *testing.T) {
	assert.True(t, sec.RolePatient.In([]sec.UserRole{sec.RolePatient, sec.RoleDoctor}))
	assert.False(t, sec.RoleAdmin.In([]sec.UserRole{sec.RolePatient, sec.RoleDoctor}))
	assert.True(t, sec.RoleAdmin.In(nil), "empty set admits every valid role")
}

/*
TestUserRole_DashboardPath checks the role → home route mapping.
*/
func TestUserRole_DashboardPath(t *testing.T) {
	assert.Equal(t, "/patient/dashboard", sec.RolePatient.DashboardPath())
	assert.Equal(t, "/admin/dashboard", sec.RoleAdmin.DashboardPath())
}

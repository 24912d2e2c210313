// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

package sec

import "github.com/pharmora/client/internal/platform/constants"

// # User Roles

// UserRole represents the account type a session was opened as.
//
// Unlike hierarchical role systems, the platform's roles are peers: a doctor
// is not "more" than a patient. Route access is decided by membership in a
// route's allowed set, never by comparison.
type UserRole string

const (
	// Orders medicine, owns the cart
	RolePatient UserRole = "patient"

	// Fulfils orders, manages stock; requires admin approval after registration
	RolePharmacy UserRole = "pharmacy"

	// Issues prescriptions
	RoleDoctor UserRole = "doctor"

	// Platform operations: approvals, oversight
	RoleAdmin UserRole = "admin"
)

// # Parsing & Navigation

// ParseRole validates a wire value against the closed role set.
// It returns false for anything outside {patient, pharmacy, doctor, admin}.
func ParseRole(value string) (UserRole, bool) {
	role := UserRole(value)
	switch role {
	case RolePatient, RolePharmacy, RoleDoctor, RoleAdmin:
		return role, true
	}
	return "", false
}

// Valid reports whether the role belongs to the closed role set.
func (r UserRole) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// DashboardPath returns the role's own landing route, e.g. "/patient/dashboard".
//
// This is the redirect target when a role navigates to a route it is not
// allowed to see.
func (r UserRole) DashboardPath() string {
	return "/" + string(r) + constants.DashboardPathSuffix
}

// In reports whether the role is a member of the given allowed set.
// An empty set admits every valid role.
func (r UserRole) In(allowed []UserRole) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// AllRoles returns the closed role set, in display order.
func AllRoles() []UserRole {
	return []UserRole{RolePatient, RolePharmacy, RoleDoctor, RoleAdmin}
}

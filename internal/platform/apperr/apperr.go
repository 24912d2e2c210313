// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

/*
Package apperr defines the centralized error handling framework for the
Pharmora client.

It provides a rich error type that bridges the gap between low-level transport
failures and the failure categories the client surfaces to the operator.

Architecture:

  - AppError: A struct containing a machine-readable Code and a user-friendly message.
  - Taxonomy: Validation, Unauthenticated, Forbidden, SessionExpired, Transport.
  - Mapping: Explicit mapping from backend HTTP status codes to [AppError].

Every failure that leaves the session or cart layer is wrapped as an [AppError]
so that callers can switch on the category rather than string-match messages.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeSessionExpired  = "SESSION_EXPIRED"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeTransport       = "TRANSPORT_ERROR"
	CodeServer          = "SERVER_ERROR"
)

// AppError is the canonical error type for the Pharmora client.
//
// It carries the HTTP status received from the backend (zero for client-local
// failures), a machine-readable code, an operator-safe message, and an
// optional slice of field-level validation errors.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "SESSION_EXPIRED").
	Code string `json:"code"`
	// Message is a human-readable description safe to show to the operator.
	Message string `json:"error"`
	// Status is the backend HTTP status that produced this error, or zero
	// when the failure happened before any network call.
	Status int `json:"-"`
	// Cause is the underlying error, used for logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR results.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the form field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the operator-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// FieldMap flattens Details into a field-name → message map for form rendering.
func (e *AppError) FieldMap() map[string]string {
	if len(e.Details) == 0 {
		return nil
	}
	m := make(map[string]string, len(e.Details))
	for _, d := range e.Details {
		// First failure per field wins, matching form display behavior.
		if _, ok := m[d.Field]; !ok {
			m[d.Field] = d.Message
		}
	}
	return m
}

// # Client-Local Failures

// ValidationError creates an [AppError] with optional per-field details.
// It is raised before any network call is made.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: msg,
		Details: details,
	}
}

// Transport creates an [AppError] for a network-level failure (DNS, timeout,
// connection refused). The operation made no durable state change.
func Transport(cause error) *AppError {
	return &AppError{
		Code:    CodeTransport,
		Message: "Could not reach the server. Check your connection and retry.",
		Cause:   cause,
	}
}

// SessionExpired creates an [AppError] signalling that the backend rejected
// the bearer credential. The session must be torn down in full.
func SessionExpired() *AppError {
	return &AppError{
		Code:    CodeSessionExpired,
		Message: "Your session has expired. Please sign in again.",
		Status:  http.StatusUnauthorized,
	}
}

// # Backend Failures

// Unauthorized creates an [AppError] for rejected credentials (bad password,
// role mismatch, pending approval). The session stays anonymous.
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:    CodeUnauthenticated,
		Message: msg,
		Status:  http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: msg,
		Status:  http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for duplicate-identity rejections.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: msg,
		Status:  http.StatusConflict,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: resource + " not found",
		Status:  http.StatusNotFound,
	}
}

// FromStatus maps a backend HTTP status and its detail message to an [AppError].
//
// # Mapping
//
//   - 400 → VALIDATION_ERROR (server-side rejection of the payload)
//   - 401, 403 → UNAUTHENTICATED (credential/role/approval rejection)
//   - 404 → NOT_FOUND
//   - 409 → CONFLICT
//   - anything else → SERVER_ERROR
func FromStatus(status int, detail string) *AppError {
	if detail == "" {
		detail = http.StatusText(status)
	}
	switch status {
	case http.StatusBadRequest:
		return &AppError{Code: CodeValidation, Message: detail, Status: status}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AppError{Code: CodeUnauthenticated, Message: detail, Status: status}
	case http.StatusNotFound:
		return &AppError{Code: CodeNotFound, Message: detail, Status: status}
	case http.StatusConflict:
		return &AppError{Code: CodeConflict, Message: detail, Status: status}
	default:
		return &AppError{
			Code:    CodeServer,
			Message: fmt.Sprintf("Server error (%d): %s", status, detail),
			Status:  status,
		}
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsCode reports whether err carries the given [AppError] code.
func IsCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

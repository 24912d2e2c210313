// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// This package runs BEFORE any network call: a registration form that fails
// validation produces a field-name → message map and never leaves the device.
// It ensures the session layer only sends semantically plausible payloads.
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pharmora/client/internal/platform/apperr"
)

var (
	// tcknRegex matches the shape of a national identity number: 11 digits,
	// first digit non-zero. The checksum is verified separately.
	tcknRegex = regexp.MustCompile(`^[1-9][0-9]{10}$`)

	// phoneRegex matches a Turkish mobile/landline number, with optional
	// +90 or leading-zero prefix.
	phoneRegex = regexp.MustCompile(`^(\+90|0)?[1-9][0-9]{9}$`)

	// ibanRegex matches a Turkish IBAN: "TR" followed by 24 digits.
	ibanRegex = regexp.MustCompile(`^TR[0-9]{24}$`)

	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// Email fails if the value is not a valid RFC 5322 email address.
func (v *Validator) Email(field, value string) *Validator {
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// NationalID fails unless the value is a structurally valid TC identity
// number: 11 digits, non-zero first digit, and both checksum digits correct.
//
// # Checksum
//
// d10 = ((d1+d3+d5+d7+d9)*7 - (d2+d4+d6+d8)) mod 10
// d11 = (d1+...+d10) mod 10
func (v *Validator) NationalID(field, value string) *Validator {
	if !tcknRegex.MatchString(value) {
		v.add(field, "Must be an 11-digit identity number")
		return v
	}

	digits := make([]int, 11)
	for i, r := range value {
		digits[i] = int(r - '0')
	}

	odd := digits[0] + digits[2] + digits[4] + digits[6] + digits[8]
	even := digits[1] + digits[3] + digits[5] + digits[7]

	check1 := ((odd*7-even)%10 + 10) % 10
	sum := 0
	for _, d := range digits[:10] {
		sum += d
	}
	check2 := sum % 10

	if check1 != digits[9] || check2 != digits[10] {
		v.add(field, "Identity number checksum is invalid")
	}
	return v
}

// Phone fails unless the value is a plausible Turkish phone number.
// Spaces are ignored before matching.
func (v *Validator) Phone(field, value string) *Validator {
	cleaned := strings.ReplaceAll(value, " ", "")
	if !phoneRegex.MatchString(cleaned) {
		v.add(field, "Must be a valid phone number (05XXXXXXXXX)")
	}
	return v
}

// IBAN fails unless the value is shaped like a Turkish IBAN (TR + 24 digits).
// Spaces are ignored and the value is upper-cased before matching.
func (v *Validator) IBAN(field, value string) *Validator {
	cleaned := strings.ToUpper(strings.ReplaceAll(value, " ", ""))
	if !ibanRegex.MatchString(cleaned) {
		v.add(field, "Must be a valid TR IBAN (TR followed by 24 digits)")
	}
	return v
}

// Equals fails if the two values differ. Used for password confirmation.
func (v *Validator) Equals(field, value, other, message string) *Validator {
	if value != other {
		v.add(field, message)
	}
	return v
}

// OneOf fails if the value is not in the allowed set of strings.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom adds a failure with a custom message if the condition is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method — call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// NormalizeIBAN strips spaces and upper-cases an IBAN for transmission.
func NormalizeIBAN(value string) string {
	return strings.ToUpper(strings.ReplaceAll(value, " ", ""))
}

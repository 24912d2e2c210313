// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmora/client/internal/platform/api"
	"github.com/pharmora/client/internal/platform/apperr"
	"github.com/pharmora/client/internal/session"
)

// validPatient returns a patient form that passes every rule.
// "10000000146" satisfies the identity-number checksum.
func validPatient() session.PatientInput {
	return session.PatientInput{
		PatientRegistration: api.PatientRegistration{
			NationalID:   "10000000146",
			FirstName:    "Ayşe",
			LastName:     "Yılmaz",
			Email:        "ayse@example.com",
			Phone:        "05321234567",
			City:         "İstanbul",
			District:     "Kadıköy",
			Neighborhood: "Moda",
			Street:       "Caferağa Mah. No: 12",
			Password:     "secret1",
		},
		PasswordConfirm: "secret1",
	}
}

/*
TestRegisterPatient_Success checks the happy path, and that acceptance does
NOT authenticate: registration and login stay decoupled.
*/
func TestRegisterPatient_Success(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.store.RegisterPatient(context.Background(), validPatient()))

	snapshot := f.store.Snapshot()
	assert.Equal(t, session.PhaseAnonymous, snapshot.Phase())
	assert.False(t, snapshot.Loading)
	assert.Nil(t, snapshot.LastError)
}

/*
TestRegisterPatient_ValidationFailure checks that an invalid form produces a
field-level error map and never reaches the network.
*/
func TestRegisterPatient_ValidationFailure(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*session.PatientInput)
		badField string
	}{
		{"bad_national_id_checksum", func(in *session.PatientInput) { in.NationalID = "12345678901" }, "tc_no"},
		{"bad_national_id_shape", func(in *session.PatientInput) { in.NationalID = "01234567890" }, "tc_no"},
		{"bad_email", func(in *session.PatientInput) { in.Email = "not-an-email" }, "email"},
		{"bad_phone", func(in *session.PatientInput) { in.Phone = "123" }, "telefon"},
		{"short_password", func(in *session.PatientInput) { in.Password, in.PasswordConfirm = "abc", "abc" }, "password"},
		{"mismatched_confirm", func(in *session.PatientInput) { in.PasswordConfirm = "different" }, "password_confirm"},
		{"missing_city", func(in *session.PatientInput) { in.City = "" }, "il"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			input := validPatient()
			tt.mutate(&input)

			err := f.store.RegisterPatient(context.Background(), input)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			assert.Contains(t, ae.FieldMap(), tt.badField)
			assert.Equal(t, 0, f.backend.registerCalls, "invalid form must not reach the network")
		})
	}
}

/*
TestRegisterPharmacy_NormalizesIBAN checks that the IBAN reaches the wire
stripped of spaces and upper-cased.
*/
func TestRegisterPharmacy_NormalizesIBAN(t *testing.T) {
	f := newFixture(t)

	var sent api.PharmacyRegistration
	f.backend.registerPharmacyFn = func(_ context.Context, input api.PharmacyRegistration) error {
		sent = input
		return nil
	}

	input := session.PharmacyInput{
		PharmacyRegistration: api.PharmacyRegistration{
			RegistryNo:   "ECZ-4411",
			PharmacyName: "Moda Eczanesi",
			Email:        "moda@example.com",
			Phone:        "05321234567",
			City:         "İstanbul",
			District:     "Kadıköy",
			Neighborhood: "Moda",
			Street:       "Caferağa Mah. No: 12",
			IBAN:         "tr33 0006 1005 1978 6457 8413 26",
			Password:     "secret1",
		},
		PasswordConfirm: "secret1",
	}

	require.NoError(t, f.store.RegisterPharmacy(context.Background(), input))
	assert.Equal(t, "TR330006100519786457841326", sent.IBAN)
}

/*
TestRegisterDoctor_Conflict checks that a duplicate-identity rejection
surfaces as CONFLICT and leaves the session anonymous.
*/
func TestRegisterDoctor_Conflict(t *testing.T) {
	f := newFixture(t)
	f.backend.registerDoctorFn = func(context.Context, api.DoctorRegistration) error {
		return apperr.Conflict("Bu TC kimlik numarası zaten kayıtlı")
	}

	input := session.DoctorInput{
		DoctorRegistration: api.DoctorRegistration{
			NationalID: "10000000146",
			FirstName:  "Mehmet",
			LastName:   "Demir",
			Email:      "mehmet@example.com",
			Phone:      "05321234567",
			Specialty:  "Kardiyoloji",
			DiplomaNo:  "DIP-2210",
			Password:   "secret1",
		},
		PasswordConfirm: "secret1",
	}

	err := f.store.RegisterDoctor(context.Background(), input)
	require.Error(t, err)

	snapshot := f.store.Snapshot()
	assert.Equal(t, session.PhaseAnonymous, snapshot.Phase())
	require.NotNil(t, snapshot.LastError)
	assert.Equal(t, apperr.CodeConflict, snapshot.LastError.Code)
	assert.False(t, snapshot.Loading)
}

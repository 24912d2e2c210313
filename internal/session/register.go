// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

package session

import (
	"context"

	"github.com/pharmora/client/internal/platform/api"
	"github.com/pharmora/client/internal/platform/apperr"
	"github.com/pharmora/client/internal/platform/constants"
	"github.com/pharmora/client/internal/platform/validate"
)

// passwordMinLength is the registration password floor.
const passwordMinLength = constants.PasswordMinLength

// # Registration Inputs
//
// Registration is decoupled from login: acceptance never authenticates the
// caller, and a pharmacy additionally waits for admin approval before its
// first successful sign-in. Each input embeds the wire payload plus the
// confirmation field that never leaves the device.

// PatientInput is the patient registration form.
type PatientInput struct {
	api.PatientRegistration
	PasswordConfirm string `json:"password_confirm"`
}

// PharmacyInput is the pharmacy registration form.
type PharmacyInput struct {
	api.PharmacyRegistration
	PasswordConfirm string `json:"password_confirm"`
}

// DoctorInput is the doctor registration form.
type DoctorInput struct {
	api.DoctorRegistration
	PasswordConfirm string `json:"password_confirm"`
}

/*
RegisterPatient validates and submits a patient registration.

Description: Validation failures surface as a field-level error map and make
no network call. Server acceptance is acknowledged with a banner; the session
stays anonymous either way.

Parameters:
  - context: context.Context
  - input: PatientInput

Returns:
  - error: VALIDATION_ERROR, CONFLICT, or TRANSPORT_ERROR
*/
func (store *Store) RegisterPatient(context context.Context, input PatientInput) error {
	v := &validate.Validator{}
	err := v.
		NationalID("tc_no", input.NationalID).
		Required("ad", input.FirstName).
		MinLen("ad", input.FirstName, 2).
		Required("soyad", input.LastName).
		MinLen("soyad", input.LastName, 2).
		Email("email", input.Email).
		Phone("telefon", input.Phone).
		Required("il", input.City).
		Required("ilce", input.District).
		Required("mahalle", input.Neighborhood).
		MinLen("adres", input.Street, 5).
		MinLen("password", input.Password, passwordMinLength).
		Equals("password_confirm", input.PasswordConfirm, input.Password, "Passwords do not match").
		Err()
	if err != nil {
		return store.failLocal(err, "Registration failed")
	}

	store.opMu.Lock()
	defer store.opMu.Unlock()
	epoch := store.begin()

	err = store.backend.RegisterPatient(context, input.PatientRegistration)
	store.finish(epoch, func() {
		store.lastError = apperr.As(err)
	})
	if err != nil {
		store.notifier.Error(err.Error())
		return err
	}

	store.notifier.Success("Registration complete. You can sign in now.")
	return nil
}

/*
RegisterPharmacy validates and submits a pharmacy registration.

Description: Same contract as RegisterPatient, with the pharmacy-specific
fields (registry number, pharmacy name, IBAN). The IBAN is normalized
(spaces stripped, upper-cased) before transmission. Acceptance leaves the
account pending admin approval; the approval lifecycle is entirely
server-side and this store only ever sees its outcome as a login failure
reason.

Parameters:
  - context: context.Context
  - input: PharmacyInput

Returns:
  - error: VALIDATION_ERROR, CONFLICT, or TRANSPORT_ERROR
*/
func (store *Store) RegisterPharmacy(context context.Context, input PharmacyInput) error {
	v := &validate.Validator{}
	err := v.
		Required("sicil_no", input.RegistryNo).
		Required("eczane_adi", input.PharmacyName).
		Email("email", input.Email).
		Phone("telefon", input.Phone).
		Required("il", input.City).
		Required("ilce", input.District).
		Required("mahalle", input.Neighborhood).
		MinLen("adres", input.Street, 5).
		IBAN("iban", input.IBAN).
		MinLen("password", input.Password, passwordMinLength).
		Equals("password_confirm", input.PasswordConfirm, input.Password, "Passwords do not match").
		Err()
	if err != nil {
		return store.failLocal(err, "Registration failed")
	}

	payload := input.PharmacyRegistration
	payload.IBAN = validate.NormalizeIBAN(payload.IBAN)

	store.opMu.Lock()
	defer store.opMu.Unlock()
	epoch := store.begin()

	err = store.backend.RegisterPharmacy(context, payload)
	store.finish(epoch, func() {
		store.lastError = apperr.As(err)
	})
	if err != nil {
		store.notifier.Error(err.Error())
		return err
	}

	store.notifier.Success("Registration received. Awaiting admin approval.")
	return nil
}

/*
RegisterDoctor validates and submits a doctor registration.

Parameters:
  - context: context.Context
  - input: DoctorInput

Returns:
  - error: VALIDATION_ERROR, CONFLICT, or TRANSPORT_ERROR
*/
func (store *Store) RegisterDoctor(context context.Context, input DoctorInput) error {
	v := &validate.Validator{}
	err := v.
		NationalID("tc_no", input.NationalID).
		Required("ad", input.FirstName).
		MinLen("ad", input.FirstName, 2).
		Required("soyad", input.LastName).
		MinLen("soyad", input.LastName, 2).
		Email("email", input.Email).
		Phone("telefon", input.Phone).
		Required("uzmanlik", input.Specialty).
		Required("diploma_no", input.DiplomaNo).
		MinLen("password", input.Password, passwordMinLength).
		Equals("password_confirm", input.PasswordConfirm, input.Password, "Passwords do not match").
		Err()
	if err != nil {
		return store.failLocal(err, "Registration failed")
	}

	store.opMu.Lock()
	defer store.opMu.Unlock()
	epoch := store.begin()

	err = store.backend.RegisterDoctor(context, input.DoctorRegistration)
	store.finish(epoch, func() {
		store.lastError = apperr.As(err)
	})
	if err != nil {
		store.notifier.Error(err.Error())
		return err
	}

	store.notifier.Success("Registration complete. You can sign in now.")
	return nil
}

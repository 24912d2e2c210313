// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

package api

// # Wire Types
//
// Field names follow the backend's contract verbatim. The backend is the
// source of truth for this shape; the client only mirrors it.

// LoginResult is the payload of a successful POST /api/auth/login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	UserType    string `json:"user_type"`
	UserID      string `json:"user_id"`
}

// Profile is the authenticated user record returned by GET /api/auth/me.
//
// Role-specific fields are populated only for the matching user type; the
// rest decode to their zero values.
type Profile struct {
	ID         string `json:"id"`
	UserType   string `json:"user_type"`
	Email      string `json:"email"`
	NationalID string `json:"tc_no,omitempty"`
	FirstName  string `json:"ad,omitempty"`
	LastName   string `json:"soyad,omitempty"`
	Phone      string `json:"telefon,omitempty"`

	// Address (cascading selector output in the original UI)
	City         string `json:"il,omitempty"`
	District     string `json:"ilce,omitempty"`
	Neighborhood string `json:"mahalle,omitempty"`
	Street       string `json:"adres,omitempty"`

	// Pharmacy-only fields
	PharmacyName string `json:"eczane_adi,omitempty"`
	RegistryNo   string `json:"sicil_no,omitempty"`
	IBAN         string `json:"iban,omitempty"`

	// Doctor-only fields
	Specialty string `json:"uzmanlik,omitempty"`
	DiplomaNo string `json:"diploma_no,omitempty"`
}

// DisplayName returns a human-readable name for the profile.
func (p *Profile) DisplayName() string {
	if p.PharmacyName != "" {
		return p.PharmacyName
	}
	name := p.FirstName
	if p.LastName != "" {
		if name != "" {
			name += " "
		}
		name += p.LastName
	}
	if name == "" {
		return p.Email
	}
	return name
}

// PatientRegistration is the body of POST /api/auth/register/patient.
type PatientRegistration struct {
	NationalID   string `json:"tc_no"`
	FirstName    string `json:"ad"`
	LastName     string `json:"soyad"`
	Email        string `json:"email"`
	Phone        string `json:"telefon"`
	City         string `json:"il"`
	District     string `json:"ilce"`
	Neighborhood string `json:"mahalle"`
	Street       string `json:"adres"`
	Password     string `json:"password"`
}

// PharmacyRegistration is the body of POST /api/auth/register/pharmacy.
// Acceptance puts the pharmacy into a pending-approval state server-side.
type PharmacyRegistration struct {
	RegistryNo   string `json:"sicil_no"`
	PharmacyName string `json:"eczane_adi"`
	Email        string `json:"email"`
	Phone        string `json:"telefon"`
	City         string `json:"il"`
	District     string `json:"ilce"`
	Neighborhood string `json:"mahalle"`
	Street       string `json:"adres"`
	IBAN         string `json:"iban"`
	Password     string `json:"password"`
}

// DoctorRegistration is the body of POST /api/auth/register/doctor.
type DoctorRegistration struct {
	NationalID string `json:"tc_no"`
	FirstName  string `json:"ad"`
	LastName   string `json:"soyad"`
	Email      string `json:"email"`
	Phone      string `json:"telefon"`
	Specialty  string `json:"uzmanlik"`
	DiplomaNo  string `json:"diploma_no"`
	Password   string `json:"password"`
}

// errorBody is the backend's failure envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

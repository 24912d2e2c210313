// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

/*
Package api is the client's gateway to the platform's REST backend.

It owns the HTTP transport concerns so the session layer never touches
net/http directly:

  - Bearer injection: every authenticated call carries the current token.
  - Throttling: a token-bucket limiter keeps the client polite toward the API.
  - Error mapping: HTTP failures become [apperr.AppError] values with the
    client-side taxonomy (transport vs. credential vs. server failure).

The package implements, but does not define, the session layer's Backend
contract; tests stub that contract instead of standing up HTTP servers.
*/
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/pharmora/client/internal/platform/apperr"
	"github.com/pharmora/client/internal/platform/constants"
)

// TokenSource yields the current bearer token, or "" when anonymous.
//
// The session store owns the token; the client pulls it per request so a
// logout between two calls is always respected.
type TokenSource func() string

// Client talks to the Pharmora platform backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	token      TokenSource
	log        *slog.Logger
}

// NewClient constructs a backend [Client].
//
// # Parameters
//   - baseURL: Backend origin, e.g. "https://api.pharmora.app".
//   - token: Source of the current bearer token (may return "").
//   - log: Structured logger for transport events.
func NewClient(baseURL string, token TokenSource, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: constants.DefaultRequestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(constants.DefaultAPIRateLimit), constants.DefaultAPIRateBurst),
		token:      token,
		log:        log,
	}
}

// # Authentication Endpoints

/*
Login exchanges credentials for a bearer token.

Parameters:
  - context: context.Context
  - identifier: Email, national id, or registry number
  - password: string
  - userType: Wire value of the requested role

Returns:
  - *LoginResult: Token, role, and user id on success
  - error: [apperr.AppError] — UNAUTHENTICATED on rejection, TRANSPORT_ERROR offline
*/
func (client *Client) Login(context context.Context, identifier, password, userType string) (*LoginResult, error) {
	body := map[string]string{
		"identifier": identifier,
		"password":   password,
		"user_type":  userType,
	}

	var result LoginResult
	if err := client.do(context, http.MethodPost, constants.EndpointLogin, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RegisterPatient submits a patient registration. Acceptance does not
// authenticate the caller.
func (client *Client) RegisterPatient(context context.Context, input PatientRegistration) error {
	return client.do(context, http.MethodPost, constants.EndpointRegisterPatient, input, nil)
}

// RegisterPharmacy submits a pharmacy registration. Acceptance leaves the
// account pending admin approval server-side.
func (client *Client) RegisterPharmacy(context context.Context, input PharmacyRegistration) error {
	return client.do(context, http.MethodPost, constants.EndpointRegisterPharmacy, input, nil)
}

// RegisterDoctor submits a doctor registration.
func (client *Client) RegisterDoctor(context context.Context, input DoctorRegistration) error {
	return client.do(context, http.MethodPost, constants.EndpointRegisterDoctor, input, nil)
}

/*
Me fetches the authenticated user's full profile.

Description: A 401 here means the backend no longer honors the stored token;
it is reported as SESSION_EXPIRED so the session layer tears itself down.

Parameters:
  - context: context.Context

Returns:
  - *Profile: Hydrated profile
  - error: SESSION_EXPIRED, TRANSPORT_ERROR, or server failures
*/
func (client *Client) Me(context context.Context) (*Profile, error) {
	var profile Profile
	err := client.do(context, http.MethodGet, constants.EndpointMe, nil, &profile)
	if err != nil {
		ae := apperr.As(err)
		if ae != nil && ae.Status == http.StatusUnauthorized {
			return nil, apperr.SessionExpired()
		}
		return nil, err
	}
	return &profile, nil
}

// # Password Endpoints

// ForgotPassword asks the backend to start the reset flow for email.
func (client *Client) ForgotPassword(context context.Context, email string) error {
	body := map[string]string{"email": email}
	return client.do(context, http.MethodPost, constants.EndpointForgotPassword, body, nil)
}

// ResetPassword completes the reset flow with an emailed token.
func (client *Client) ResetPassword(context context.Context, token, newPassword, confirm string) error {
	body := map[string]string{
		"token":                token,
		"new_password":         newPassword,
		"new_password_confirm": confirm,
	}
	return client.do(context, http.MethodPost, constants.EndpointResetPassword, body, nil)
}

// ChangePassword rotates the authenticated user's password.
func (client *Client) ChangePassword(context context.Context, oldPassword, newPassword, confirm string) error {
	body := map[string]string{
		"old_password":         oldPassword,
		"new_password":         newPassword,
		"new_password_confirm": confirm,
	}
	return client.do(context, http.MethodPost, constants.EndpointChangePassword, body, nil)
}

// # Transport Core

// do executes one request: throttle, encode, send, decode, map errors.
func (client *Client) do(ctx context.Context, method, path string, body, out any) error {

	// Client-side throttle. A canceled context aborts the wait.
	if err := client.limiter.Wait(ctx); err != nil {
		return apperr.Transport(err)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: request encoding failed: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: request construction failed: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token := client.token(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		client.log.Warn("api_transport_failure",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err),
		)
		return apperr.Transport(err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode >= http.StatusBadRequest {
		return client.mapFailure(response, method, path)
	}

	if out != nil {
		if err := json.NewDecoder(response.Body).Decode(out); err != nil {
			return apperr.Transport(fmt.Errorf("api: response decoding failed: %w", err))
		}
	}
	return nil
}

// mapFailure converts a non-2xx response to the client error taxonomy.
func (client *Client) mapFailure(response *http.Response, method, path string) error {
	var body errorBody
	// Decode failures leave Detail empty; the status mapping still applies.
	_ = json.NewDecoder(response.Body).Decode(&body)

	appError := apperr.FromStatus(response.StatusCode, body.Detail)
	client.log.Debug("api_request_rejected",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", response.StatusCode),
		slog.String("code", appError.Code),
	)
	return appError
}

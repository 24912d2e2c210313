// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

/*
Package constants provides centralized, immutable values for the client runtime.

It defines default timeouts, storage keys, and cross-cutting route paths that
are shared between different layers of the client.

Categories:

  - Backend Timing: deadlines and throttling for calls to the platform API.
  - Storage Keys: fixed keys under which client state is persisted on-device.
  - Navigation: the route table of the app shell.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "pharmora-client"
	AppVersion = "0.1.0-dev"
)

// # Backend Timing

const (
	// DefaultRequestTimeout is the per-call deadline for backend API requests.
	DefaultRequestTimeout = 15 * time.Second

	// DefaultAPIRateLimit is the sustained requests-per-second the client
	// allows itself toward the backend.
	DefaultAPIRateLimit = 10.0

	// DefaultAPIRateBurst is the short burst capacity of the client throttle.
	DefaultAPIRateBurst = 20

	// ShutdownTimeout is how long the app shell waits for in-flight requests
	// to complete during shutdown.
	ShutdownTimeout = 10 * time.Second
)

// # Storage Keys

// Fixed keys under which the client persists state in the device store.
const (
	StorageKeyCredentials = "session:credentials"
	StorageKeyCart        = "cart:snapshot"
)

// # Navigation

// Public routes of the app shell.
const (
	RouteLogin            = "/login"
	RouteRegisterPatient  = "/register/patient"
	RouteRegisterPharmacy = "/register/pharmacy"
	RouteForgotPassword   = "/forgot-password"
	RouteResetPassword    = "/reset-password"
)

// DashboardPathSuffix appended to "/{role}" forms a role's home route.
const DashboardPathSuffix = "/dashboard"

// # Validation Limits

const (
	// PasswordMinLength is the minimum accepted password length at registration.
	PasswordMinLength = 6

	// CartLineMaxQuantity mirrors the backend's per-line quantity ceiling.
	CartLineMaxQuantity = 100
)

// # Backend Endpoints

const (
	EndpointLogin            = "/api/auth/login"
	EndpointRegisterPatient  = "/api/auth/register/patient"
	EndpointRegisterPharmacy = "/api/auth/register/pharmacy"
	EndpointRegisterDoctor   = "/api/auth/register/doctor"
	EndpointMe               = "/api/auth/me"
	EndpointForgotPassword   = "/api/auth/forgot-password"
	EndpointResetPassword    = "/api/auth/reset-password"
	EndpointChangePassword   = "/api/auth/change-password"
)

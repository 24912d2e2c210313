// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

/*
Package app is the navigable surface of the client: the route table, the
guard middleware, and the thin page handlers.

It reproduces the original UI's navigation model. Protected routes declare
their allowed roles; the guard middleware turns the policy verdict into HTTP:

  - LOADING → 200 with a loading placeholder body.
  - REDIRECT_LOGIN → 302 to /login.
  - FORBIDDEN_THEN_REDIRECT → 403 notice carrying the operator's own
    dashboard as the follow-up target.
  - RENDER → the page handler runs.

Pages themselves are deliberately thin — presentation is not this
repository's problem. Handlers read store state and render JSON.
*/
package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pharmora/client/internal/guard"
	"github.com/pharmora/client/internal/platform/respond"
	"github.com/pharmora/client/internal/platform/sec"
)

// NewRouter wires the full route table of the app shell.
func NewRouter(handler *Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	// ── Public Routes ─────────────────────────────────────────────────────
	router.Get("/", handler.Home)
	router.Post("/login", handler.Login)
	router.Post("/logout", handler.Logout)
	router.Post("/register/patient", handler.RegisterPatient)
	router.Post("/register/pharmacy", handler.RegisterPharmacy)
	router.Post("/register/doctor", handler.RegisterDoctor)
	router.Post("/forgot-password", handler.ForgotPassword)
	router.Post("/reset-password", handler.ResetPassword)
	router.Get("/session", handler.Session)
	router.Get("/notifications", handler.Notifications)

	// ── Patient Routes ────────────────────────────────────────────────────
	router.Route("/patient", func(r chi.Router) {
		r.Use(handler.Protect(sec.RolePatient))
		r.Get("/dashboard", handler.PatientDashboard)
		r.Get("/cart", handler.CartView)
		r.Post("/cart/items", handler.CartAdd)
		r.Put("/cart/items/{itemID}", handler.CartUpdate)
		r.Delete("/cart/items/{itemID}", handler.CartRemove)
		r.Delete("/cart", handler.CartClear)
		r.Post("/cart/checkout", handler.CartCheckout)
	})

	// ── Pharmacy Routes ───────────────────────────────────────────────────
	router.Route("/pharmacy", func(r chi.Router) {
		r.Use(handler.Protect(sec.RolePharmacy))
		r.Get("/dashboard", handler.RoleDashboard)
	})

	// ── Doctor Routes ─────────────────────────────────────────────────────
	router.Route("/doctor", func(r chi.Router) {
		r.Use(handler.Protect(sec.RoleDoctor))
		r.Get("/dashboard", handler.RoleDashboard)
	})

	// ── Admin Routes ──────────────────────────────────────────────────────
	router.Route("/admin", func(r chi.Router) {
		r.Use(handler.Protect(sec.RoleAdmin))
		r.Get("/dashboard", handler.RoleDashboard)
	})

	// ── Shared Authenticated Routes ───────────────────────────────────────
	// Empty allowed set: any authenticated role.
	router.Route("/account", func(r chi.Router) {
		r.Use(handler.Protect())
		r.Get("/profile", handler.Profile)
		r.Post("/change-password", handler.ChangePassword)
	})

	// Nonexistent paths fall outside the guard entirely: generic not-found
	// regardless of auth state.
	router.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.JSON(writer, http.StatusNotFound, respond.ErrorEnvelope{
			Error: "Page not found",
			Code:  "NOT_FOUND",
		})
	})

	return router
}

// Protect returns the guard middleware for a route group.
//
// The allowed set is declared per group, exactly like the original's
// ProtectedRoute element; passing no roles admits any authenticated role.
func (handler *Handler) Protect(allowed ...sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			outcome := handler.guard.Check(request.Context(), allowed)

			switch outcome.Decision {
			case guard.DecisionLoading:
				respond.JSON(writer, http.StatusOK, map[string]string{"status": "loading"})
			case guard.DecisionRedirectLogin:
				http.Redirect(writer, request, outcome.RedirectTo, http.StatusFound)
			case guard.DecisionForbidden:
				respond.Forbidden(writer, outcome.RedirectTo)
			case guard.DecisionRender:
				next.ServeHTTP(writer, request)
			}
		})
	}
}

// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/pharmora/client/internal/cart"
	"github.com/pharmora/client/internal/guard"
	"github.com/pharmora/client/internal/platform/constants"
	"github.com/pharmora/client/internal/platform/notify"
	"github.com/pharmora/client/internal/platform/respond"
	"github.com/pharmora/client/internal/platform/sec"
	"github.com/pharmora/client/internal/platform/validate"
	"github.com/pharmora/client/internal/session"
	"github.com/pharmora/client/pkg/money"
)

// Handler carries the stores every page handler reads.
type Handler struct {
	sessions *session.Store
	cart     *cart.PersistentStore
	guard    *guard.Guard
	feed     *notify.Feed
	log      *slog.Logger
}

// NewHandler wires the page handlers to their stores.
func NewHandler(sessions *session.Store, cartStore *cart.PersistentStore, g *guard.Guard, feed *notify.Feed, log *slog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		cart:     cartStore,
		guard:    g,
		feed:     feed,
		log:      log,
	}
}

// # Session Views

// sessionView is the shell's rendering of a session snapshot.
// The token itself never leaves the session layer.
type sessionView struct {
	Authenticated bool          `json:"authenticated"`
	Phase         session.Phase `json:"phase"`
	Role          sec.UserRole  `json:"role,omitempty"`
	UserID        string        `json:"user_id,omitempty"`
	Loading       bool          `json:"loading"`
	Error         any           `json:"error,omitempty"`
	DisplayName   string        `json:"display_name,omitempty"`
}

func viewOf(snapshot session.Snapshot) sessionView {
	view := sessionView{
		Authenticated: snapshot.Authenticated(),
		Phase:         snapshot.Phase(),
		Role:          snapshot.Role,
		UserID:        snapshot.UserID,
		Loading:       snapshot.Loading,
	}
	if snapshot.LastError != nil {
		view.Error = snapshot.LastError
	}
	if snapshot.Profile != nil {
		view.DisplayName = snapshot.Profile.DisplayName()
	}
	return view
}

// Home redirects to the operator's dashboard, or to sign-in when anonymous.
func (handler *Handler) Home(writer http.ResponseWriter, request *http.Request) {
	snapshot := handler.sessions.Snapshot()
	if snapshot.Authenticated() {
		http.Redirect(writer, request, snapshot.Role.DashboardPath(), http.StatusFound)
		return
	}
	http.Redirect(writer, request, constants.RouteLogin, http.StatusFound)
}

// Session renders the current session snapshot.
func (handler *Handler) Session(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, viewOf(handler.sessions.Snapshot()))
}

// Notifications renders the recent banner feed.
func (handler *Handler) Notifications(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.feed.Recent())
}

// # Auth Handlers

type loginForm struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	UserType   string `json:"user_type"`
}

// Login signs the operator in and lands them on their dashboard route.
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {
	var form loginForm
	if err := json.NewDecoder(request.Body).Decode(&form); err != nil {
		respond.Error(writer, validate.ErrInvalidJSON)
		return
	}

	role, _ := sec.ParseRole(form.UserType)
	if err := handler.sessions.Login(request.Context(), form.Identifier, form.Password, role); err != nil {
		respond.Error(writer, err)
		return
	}

	snapshot := handler.sessions.Snapshot()
	respond.OK(writer, map[string]any{
		"session":  viewOf(snapshot),
		"redirect": snapshot.Role.DashboardPath(),
	})
}

// Logout tears the session down and empties the cart, including its
// persisted snapshot: on a shared kiosk the next operator must not inherit
// the previous one's lines. Always succeeds.
func (handler *Handler) Logout(writer http.ResponseWriter, request *http.Request) {
	handler.sessions.Logout()
	handler.cart.Clear()
	respond.OK(writer, map[string]string{"redirect": constants.RouteLogin})
}

// RegisterPatient submits a patient registration form.
func (handler *Handler) RegisterPatient(writer http.ResponseWriter, request *http.Request) {
	var input session.PatientInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, validate.ErrInvalidJSON)
		return
	}
	if err := handler.sessions.RegisterPatient(request.Context(), input); err != nil {
		respond.Error(writer, err)
		return
	}
	respond.Created(writer, map[string]string{"redirect": constants.RouteLogin})
}

// RegisterPharmacy submits a pharmacy registration form.
func (handler *Handler) RegisterPharmacy(writer http.ResponseWriter, request *http.Request) {
	var input session.PharmacyInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, validate.ErrInvalidJSON)
		return
	}
	if err := handler.sessions.RegisterPharmacy(request.Context(), input); err != nil {
		respond.Error(writer, err)
		return
	}
	respond.Created(writer, map[string]string{"redirect": constants.RouteLogin})
}

// RegisterDoctor submits a doctor registration form.
func (handler *Handler) RegisterDoctor(writer http.ResponseWriter, request *http.Request) {
	var input session.DoctorInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, validate.ErrInvalidJSON)
		return
	}
	if err := handler.sessions.RegisterDoctor(request.Context(), input); err != nil {
		respond.Error(writer, err)
		return
	}
	respond.Created(writer, map[string]string{"redirect": constants.RouteLogin})
}

type forgotForm struct {
	Email string `json:"email"`
}

// ForgotPassword starts the reset flow.
func (handler *Handler) ForgotPassword(writer http.ResponseWriter, request *http.Request) {
	var form forgotForm
	if err := json.NewDecoder(request.Body).Decode(&form); err != nil {
		respond.Error(writer, validate.ErrInvalidJSON)
		return
	}
	if err := handler.sessions.RequestPasswordReset(request.Context(), form.Email); err != nil {
		respond.Error(writer, err)
		return
	}
	respond.NoContent(writer)
}

type resetForm struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	PasswordConfirm string `json:"new_password_confirm"`
}

// ResetPassword completes the reset flow.
func (handler *Handler) ResetPassword(writer http.ResponseWriter, request *http.Request) {
	var form resetForm
	if err := json.NewDecoder(request.Body).Decode(&form); err != nil {
		respond.Error(writer, validate.ErrInvalidJSON)
		return
	}
	if err := handler.sessions.ResetPassword(request.Context(), form.Token, form.NewPassword, form.PasswordConfirm); err != nil {
		respond.Error(writer, err)
		return
	}
	respond.NoContent(writer)
}

type changePasswordForm struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	PasswordConfirm string `json:"new_password_confirm"`
}

// ChangePassword rotates the authenticated operator's password.
func (handler *Handler) ChangePassword(writer http.ResponseWriter, request *http.Request) {
	var form changePasswordForm
	if err := json.NewDecoder(request.Body).Decode(&form); err != nil {
		respond.Error(writer, validate.ErrInvalidJSON)
		return
	}
	if err := handler.sessions.ChangePassword(request.Context(), form.OldPassword, form.NewPassword, form.PasswordConfirm); err != nil {
		respond.Error(writer, err)
		return
	}
	respond.NoContent(writer)
}

// # Dashboards & Profile

// RoleDashboard is the minimal landing page for pharmacy/doctor/admin roles.
func (handler *Handler) RoleDashboard(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, viewOf(handler.sessions.Snapshot()))
}

// PatientDashboard adds the cart summary to the landing page.
func (handler *Handler) PatientDashboard(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]any{
		"session":    viewOf(handler.sessions.Snapshot()),
		"cart_items": handler.cart.ItemCount(),
		"cart_total": money.FormatTRY(handler.cart.Total()),
	})
}

// Profile renders the lazily-fetched user record.
func (handler *Handler) Profile(writer http.ResponseWriter, request *http.Request) {
	snapshot := handler.sessions.Snapshot()
	if snapshot.Profile == nil {
		// The guard has already triggered the fetch; the page polls.
		respond.JSON(writer, http.StatusOK, map[string]string{"status": "loading"})
		return
	}
	respond.OK(writer, snapshot.Profile)
}

// # Cart Handlers

// cartLineView decorates a line with formatted amounts.
type cartLineView struct {
	cart.Line
	SubtotalDisplay string `json:"subtotal_display"`
}

// CartView renders the cart with totals.
func (handler *Handler) CartView(writer http.ResponseWriter, request *http.Request) {
	lines := handler.cart.Lines()
	views := make([]cartLineView, len(lines))
	for i, line := range lines {
		views[i] = cartLineView{Line: line, SubtotalDisplay: money.FormatTRY(line.Subtotal())}
	}
	respond.OK(writer, map[string]any{
		"lines":         views,
		"item_count":    handler.cart.ItemCount(),
		"total":         handler.cart.Total(),
		"total_display": money.FormatTRY(handler.cart.Total()),
	})
}

// CartAdd merges an item into the cart.
func (handler *Handler) CartAdd(writer http.ResponseWriter, request *http.Request) {
	var line cart.Line
	if err := json.NewDecoder(request.Body).Decode(&line); err != nil {
		respond.Error(writer, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	err := v.
		Required("item_id", line.ItemID).
		Custom("quantity", line.Quantity < 1, "Quantity must be at least 1").
		Custom("quantity", line.Quantity > constants.CartLineMaxQuantity,
			fmt.Sprintf("Quantity must not exceed %d", constants.CartLineMaxQuantity)).
		Custom("unit_price", line.UnitPrice < 0, "Unit price must not be negative").
		Err()
	if err != nil {
		respond.Error(writer, err)
		return
	}

	handler.cart.Add(line)
	respond.Created(writer, map[string]int{"item_count": handler.cart.ItemCount()})
}

// CartUpdate sets a line's quantity absolutely; zero or below removes it.
func (handler *Handler) CartUpdate(writer http.ResponseWriter, request *http.Request) {
	var form struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(request.Body).Decode(&form); err != nil {
		respond.Error(writer, validate.ErrInvalidJSON)
		return
	}
	handler.cart.UpdateQuantity(chi.URLParam(request, "itemID"), form.Quantity)
	respond.NoContent(writer)
}

// CartRemove deletes a line; unknown ids are a silent no-op.
func (handler *Handler) CartRemove(writer http.ResponseWriter, request *http.Request) {
	handler.cart.Remove(chi.URLParam(request, "itemID"))
	respond.NoContent(writer)
}

// CartClear empties the cart.
func (handler *Handler) CartClear(writer http.ResponseWriter, request *http.Request) {
	handler.cart.Clear()
	respond.NoContent(writer)
}

// CartCheckout freezes the cart into the snapshot the checkout flow consumes.
// Payment and order creation live server-side, outside this repository.
func (handler *Handler) CartCheckout(writer http.ResponseWriter, request *http.Request) {
	snapshot := handler.cart.Checkout()
	respond.OK(writer, snapshot)
}

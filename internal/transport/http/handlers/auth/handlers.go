package authhandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/audit"
	"workforce/internal/domain/auth"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
	Audit   shared.AuditRecorder
}

func NewHandler(service *auth.Service, auditSvc shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	MFACode  string `json:"mfaCode" validate:"omitempty,len=6,numeric"`
}

type refreshRequest struct {
	Token string `json:"token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type resetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type mfaCodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/refresh", h.handleRefresh)
		r.Post("/request-reset", h.handleRequestReset)
		r.Post("/reset", h.handleReset)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Post("/logout", h.handleLogout)
			r.Get("/me", h.handleMe)
			r.Post("/change-password", h.handleChangePassword)
			r.Post("/mfa/setup", h.handleMFASetup)
			r.Post("/mfa/enable", h.handleMFAEnable)
			r.Post("/mfa/disable", h.handleMFADisable)
		})
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	result, err := h.Service.Login(r.Context(), payload.Email, payload.Password, payload.MFACode)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, "Login successful")
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload refreshRequest
	if err := shared.Decode(r, &payload, true); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	raw := strings.TrimSpace(payload.Token)
	if raw == "" {
		raw = bearerToken(r)
	}
	if raw == "" {
		shared.WriteError(w, r, auth.ErrSessionExpired)
		return
	}
	token, err := h.Service.Refresh(r.Context(), raw)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"token": token}, "Session refreshed")
}

func bearerToken(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	h.Service.Logout(r.Context(), user)
	api.Success(w, nil, "Logged out")
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	me, err := h.Service.Me(r.Context(), user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, me, "")
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload changePasswordRequest
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if err := h.Service.ChangePassword(r.Context(), user.UserID, payload.CurrentPassword, payload.NewPassword); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionPasswordChanged, "user", user.UserID, nil, nil)
	api.Success(w, nil, "Password changed successfully")
}

// handleRequestReset answers the same way whether or not the email exists.
func (h *Handler) handleRequestReset(w http.ResponseWriter, r *http.Request) {
	var payload resetRequest
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.Service.RequestReset(r.Context(), payload.Email)
	api.Success(w, nil, "If the account exists, a reset link has been sent")
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	var payload resetPasswordRequest
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if err := h.Service.ResetPassword(r.Context(), payload.Token, payload.NewPassword); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, nil, "Password has been reset")
}

func (h *Handler) handleMFASetup(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	setup, err := h.Service.SetupMFA(r.Context(), user)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, setup, "Scan the code and confirm with a one-time password")
}

func (h *Handler) handleMFAEnable(w http.ResponseWriter, r *http.Request) {
	h.setMFA(w, r, true)
}

func (h *Handler) handleMFADisable(w http.ResponseWriter, r *http.Request) {
	h.setMFA(w, r, false)
}

func (h *Handler) setMFA(w http.ResponseWriter, r *http.Request, enabled bool) {
	user, _ := middleware.GetUser(r.Context())
	var payload mfaCodeRequest
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if err := h.Service.SetMFA(r.Context(), user, payload.Code, enabled); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionMFAChanged, "user", user.UserID, nil, map[string]bool{"enabled": enabled})
	message := "MFA disabled"
	if enabled {
		message = "MFA enabled"
	}
	api.Success(w, map[string]bool{"mfaEnabled": enabled}, message)
}

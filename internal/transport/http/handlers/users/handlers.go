package usershandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/audit"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/users"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Service *users.Service
	Perms   middleware.PermissionStore
	Audit   shared.AuditRecorder
}

func NewHandler(service *users.Service, perms middleware.PermissionStore, auditSvc shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermUsersManage, h.Perms))
		r.Get("/", h.handleList)
		r.Get("/stats", h.handleStats)
		r.Put("/{userID}/role", h.handleUpdateRole)
		r.Put("/{userID}/toggle-active", h.handleToggleActive)
		r.Delete("/{userID}", h.handleDelete)
		r.Post("/{userID}/reset-password", h.handleResetPassword)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := users.ListFilter{Role: q.Get("role"), Search: q.Get("search")}
	if raw := q.Get("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err == nil {
			filter.IsActive = &active
		}
	}
	list, err := h.Service.List(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, list, "")
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, stats, "")
}

func (h *Handler) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload users.RoleInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	before, after, err := h.Service.UpdateRole(r.Context(), chi.URLParam(r, "userID"), payload.Role)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionUserRoleChanged, "user", after.ID,
		map[string]string{"role": before.Role}, map[string]string{"role": after.Role})
	api.Success(w, after, "User role updated successfully")
}

func (h *Handler) handleToggleActive(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	before, after, err := h.Service.ToggleActive(r.Context(), user.UserID, chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionUserStatusChanged, "user", after.ID,
		map[string]string{"status": before.Status}, map[string]string{"status": after.Status})
	message := "User deactivated successfully"
	if after.IsActive {
		message = "User activated successfully"
	}
	api.Success(w, after, message)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	deleted, err := h.Service.Delete(r.Context(), user.UserID, chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionUserDeleted, "user", deleted.ID, deleted, nil)
	api.Success(w, nil, "User deleted successfully")
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload users.ResetPasswordInput
	if err := shared.Decode(r, &payload, true); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	userID := chi.URLParam(r, "userID")
	reset, err := h.Service.ResetPassword(r.Context(), userID, payload.NewPassword)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionUserPasswordReset, "user", userID, nil, nil)
	api.Success(w, reset, "Password reset successfully")
}

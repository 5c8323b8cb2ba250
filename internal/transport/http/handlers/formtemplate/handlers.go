package formtemplatehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/audit"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/formtemplate"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Service *formtemplate.Service
	Perms   middleware.PermissionStore
	Audit   shared.AuditRecorder
}

func NewHandler(service *formtemplate.Service, perms middleware.PermissionStore, auditSvc shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

// RegisterRoutes leaves GET public so applicants can render the form.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/form-template", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermFormsWrite, h.Perms)).Put("/", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermFormsWrite, h.Perms)).Post("/reset", h.handleReset)
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.Service.Get(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	message := "Form template retrieved successfully"
	if tpl.IsDefault {
		message = "Default form template retrieved"
	}
	api.Success(w, tpl, message)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload formtemplate.UpdateInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	before, _ := h.Service.Get(r.Context())
	tpl, err := h.Service.Update(r.Context(), payload, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionFormTemplateUpdated, "form_template", "application", before, tpl)
	api.Success(w, tpl, "Form template updated successfully")
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	tpl, err := h.Service.Reset(r.Context(), user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionFormTemplateReset, "form_template", "application", nil, nil)
	api.Success(w, tpl, "Form template reset to default")
}

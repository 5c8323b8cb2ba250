package applicationshandler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/application"
	"workforce/internal/domain/audit"
	"workforce/internal/domain/auth"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Service *application.Service
	Perms   middleware.PermissionStore
	Audit   shared.AuditRecorder
}

func NewHandler(service *application.Service, perms middleware.PermissionStore, auditSvc shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/applications", func(r chi.Router) {
		r.Post("/", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermApplicationsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermApplicationsRead, h.Perms)).Get("/{applicationID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermApplicationsReview, h.Perms)).Post("/{applicationID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermApplicationsReview, h.Perms)).Post("/{applicationID}/reject", h.handleReject)
	})
}

// handleSubmit is public. The raw form is kept alongside the extracted fields.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		shared.WriteError(w, r, shared.ErrInvalidPayload)
		return
	}
	if !json.Valid(raw) {
		shared.WriteError(w, r, shared.ErrInvalidPayload)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	var payload application.SubmitInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	payload.FormData = json.RawMessage(raw)

	id, err := h.Service.Submit(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, map[string]string{"applicationId": id}, "Application submitted successfully")
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, limit := shared.ParsePage(r)
	result, err := h.Service.List(r.Context(), application.ListFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, "")
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	app, err := h.Service.Get(r.Context(), chi.URLParam(r, "applicationID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, app, "")
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "applicationID")
	out, err := h.Service.Approve(r.Context(), id, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionApplicationApproved, "application", id, nil, map[string]string{
		"freelancerId": out.FreelancerID,
		"email":        out.Email,
	})
	api.Success(w, out, "Application approved and freelancer account created")
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "applicationID")
	var payload application.RejectInput
	if err := shared.Decode(r, &payload, true); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if err := shared.Validate(&payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	app, err := h.Service.Reject(r.Context(), id, user.UserID, payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionApplicationRejected, "application", id, nil, map[string]any{
		"reason": app.RejectionReason,
	})
	api.Success(w, app, "Application rejected")
}

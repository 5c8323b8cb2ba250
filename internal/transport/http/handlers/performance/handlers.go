package performancehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/audit"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/performance"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Service *performance.Service
	Perms   middleware.PermissionStore
	Audit   shared.AuditRecorder
}

func NewHandler(service *performance.Service, perms middleware.PermissionStore, auditSvc shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/performance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPerformanceRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermPerformanceWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermPerformanceRead, h.Perms)).Get("/freelancer/{freelancerID}/summary", h.handleSummary)
		r.With(middleware.RequirePermission(auth.PermPerformanceRead, h.Perms)).Get("/{recordID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermPerformanceWrite, h.Perms)).Put("/{recordID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermPerformanceDelete, h.Perms)).Delete("/{recordID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := shared.ParsePage(r)
	result, err := h.Service.List(r.Context(), performance.ListFilter{
		FreelancerID: q.Get("freelancerId"),
		ProjectID:    q.Get("projectId"),
		RecordType:   q.Get("recordType"),
		Month:        shared.QueryInt(r, "month"),
		Year:         shared.QueryInt(r, "year"),
		SortBy:       q.Get("sortBy"),
		SortOrder:    q.Get("sortOrder"),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, "")
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload performance.CreateInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	rec, err := h.Service.Create(r.Context(), payload, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionPerformanceCreated, "performance_record", rec.ID, nil, rec)
	api.Created(w, rec, "Performance record created successfully")
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context(), chi.URLParam(r, "freelancerID"), performance.SummaryFilter{
		ProjectID: r.URL.Query().Get("projectId"),
		Month:     shared.QueryInt(r, "month"),
		Year:      shared.QueryInt(r, "year"),
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, summary, "")
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Get(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, rec, "")
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "recordID")
	var payload performance.UpdateInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	rec, err := h.Service.Update(r.Context(), id, payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionPerformanceUpdated, "performance_record", id, nil, rec)
	api.Success(w, rec, "Performance record updated successfully")
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "recordID")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionPerformanceDeleted, "performance_record", id, nil, nil)
	api.Success(w, nil, "Performance record deleted successfully")
}

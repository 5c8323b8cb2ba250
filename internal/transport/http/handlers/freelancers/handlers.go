package freelancershandler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/audit"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/freelancer"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Service *freelancer.Service
	Perms   middleware.PermissionStore
	Audit   shared.AuditRecorder
}

func NewHandler(service *freelancer.Service, perms middleware.PermissionStore, auditSvc shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/freelancers", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermFreelancersRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermFreelancersRead, h.Perms)).Get("/stats", h.handleStats)
		r.With(middleware.RequirePermission(auth.PermFreelancersRead, h.Perms)).Get("/export.csv", h.handleExport)
		r.With(middleware.RequirePermission(auth.PermFreelancersRead, h.Perms)).Get("/{freelancerID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermFreelancersWrite, h.Perms)).Put("/{freelancerID}", h.handleUpdate)
	})
}

func filterFrom(r *http.Request) freelancer.ListFilter {
	q := r.URL.Query()
	page, limit := shared.ParsePage(r)
	return freelancer.ListFilter{
		Status:           q.Get("status"),
		Tier:             q.Get("tier"),
		Grade:            q.Get("grade"),
		Country:          q.Get("country"),
		City:             q.Get("city"),
		OnboardingStatus: q.Get("onboardingStatus"),
		AvailabilityType: q.Get("availabilityType"),
		Search:           q.Get("search"),
		Page:             page,
		Limit:            limit,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.List(r.Context(), filterFrom(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, "")
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, stats, "")
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Service.Export(r.Context(), filterFrom(r), &buf); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=freelancers.csv")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("freelancer export write failed", "err", err)
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	f, err := h.Service.Get(r.Context(), chi.URLParam(r, "freelancerID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, f, "")
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload freelancer.UpdateInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	before, after, err := h.Service.Update(r.Context(), chi.URLParam(r, "freelancerID"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionFreelancerUpdated, "freelancer", after.ID, before, after)
	api.Success(w, after, "Freelancer updated successfully")
}

package portalhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/audit"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/freelancer"
	"workforce/internal/domain/payment"
	"workforce/internal/domain/performance"
	"workforce/internal/domain/portal"
	"workforce/internal/domain/project"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

// Handler serves the signed-in freelancer's own data. Every route resolves
// the freelancer from the session, never from the URL.
type Handler struct {
	Portal      *portal.Service
	Freelancers *freelancer.Service
	Projects    *project.Service
	Performance *performance.Service
	Payments    *payment.Service
	Perms       middleware.PermissionStore
	Audit       shared.AuditRecorder
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portal", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermPortalAccess, h.Perms))
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/profile", h.handleProfile)
		r.Put("/profile", h.handleUpdateProfile)
		r.Get("/projects", h.handleProjects)
		r.Post("/projects/{projectID}/apply", h.handleApply)
		r.Get("/assignments", h.handleAssignments)
		r.Get("/performance", h.handlePerformance)
		r.Get("/payments", h.handlePayments)
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) (freelancer.Freelancer, bool) {
	user, _ := middleware.GetUser(r.Context())
	f, err := h.Portal.Me(r.Context(), user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return freelancer.Freelancer{}, false
	}
	return f, true
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	dashboard, err := h.Portal.Dashboard(r.Context(), user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, dashboard, "")
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	f, ok := h.me(w, r)
	if !ok {
		return
	}
	api.Success(w, f, "")
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload freelancer.ProfileInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	f, err := h.Freelancers.UpdateProfile(r.Context(), user.UserID, payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionFreelancerUpdated, "freelancer", f.ID, nil, payload)
	api.Success(w, f, "Profile updated successfully")
}

func (h *Handler) handleProjects(w http.ResponseWriter, r *http.Request) {
	f, ok := h.me(w, r)
	if !ok {
		return
	}
	available, err := h.Projects.Available(r.Context(), f.ID, f.Status)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, available, "")
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	f, ok := h.me(w, r)
	if !ok {
		return
	}
	var payload project.ApplyInput
	if err := shared.Decode(r, &payload, true); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if err := shared.Validate(&payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	assignment, err := h.Projects.Apply(r.Context(), f.ID, chi.URLParam(r, "projectID"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, assignment, "Application submitted successfully")
}

func (h *Handler) handleAssignments(w http.ResponseWriter, r *http.Request) {
	f, ok := h.me(w, r)
	if !ok {
		return
	}
	items, err := h.Projects.AssignmentsFor(r.Context(), f.ID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, items, "")
}

func (h *Handler) handlePerformance(w http.ResponseWriter, r *http.Request) {
	f, ok := h.me(w, r)
	if !ok {
		return
	}
	result, err := h.Performance.ForFreelancer(r.Context(), f.ID, performance.SummaryFilter{
		ProjectID: r.URL.Query().Get("projectId"),
		Month:     shared.QueryInt(r, "month"),
		Year:      shared.QueryInt(r, "year"),
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, "")
}

func (h *Handler) handlePayments(w http.ResponseWriter, r *http.Request) {
	f, ok := h.me(w, r)
	if !ok {
		return
	}
	result, err := h.Payments.ForFreelancer(r.Context(), f.ID, shared.QueryInt(r, "year"), r.URL.Query().Get("status"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, "")
}

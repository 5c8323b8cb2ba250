package projectshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/audit"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/project"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Service *project.Service
	Perms   middleware.PermissionStore
	Audit   shared.AuditRecorder
}

func NewHandler(service *project.Service, perms middleware.PermissionStore, auditSvc shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermProjectsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermProjectsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermProjectsRead, h.Perms)).Get("/{projectID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermProjectsWrite, h.Perms)).Put("/{projectID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermProjectsWrite, h.Perms)).Delete("/{projectID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermProjectsWrite, h.Perms)).Post("/{projectID}/assign", h.handleAssign)
		r.With(middleware.RequirePermission(auth.PermProjectsWrite, h.Perms)).Delete("/{projectID}/assign/{freelancerID}", h.handleUnassign)
		r.With(middleware.RequirePermission(auth.PermProjectsWrite, h.Perms)).Put("/{projectID}/assignments/{freelancerID}", h.handleReview)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := shared.ParsePage(r)
	result, err := h.Service.List(r.Context(), project.ListFilter{
		Status:    q.Get("status"),
		Vertical:  q.Get("vertical"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, "")
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload project.CreateInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	p, err := h.Service.Create(r.Context(), payload, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionProjectCreated, "project", p.ID, nil, p)
	api.Created(w, p, "Project created successfully")
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Get(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, p, "")
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload project.UpdateInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	before, after, err := h.Service.Update(r.Context(), chi.URLParam(r, "projectID"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionProjectUpdated, "project", after.ID, before, after)
	api.Success(w, after, "Project updated successfully")
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	p, err := h.Service.Delete(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionProjectDeleted, "project", p.ID, p, nil)
	api.Success(w, nil, "Project deleted successfully")
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload project.AssignInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	a, err := h.Service.Assign(r.Context(), chi.URLParam(r, "projectID"), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionAssignmentCreated, "project_assignment", a.ID, nil, a)
	api.Created(w, a, "Freelancer assigned successfully")
}

func (h *Handler) handleUnassign(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	a, err := h.Service.Unassign(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "freelancerID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionAssignmentRemoved, "project_assignment", a.ID, a, nil)
	api.Success(w, nil, "Freelancer removed from project")
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload project.ReviewInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	before, after, err := h.Service.Review(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "freelancerID"), payload, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionAssignmentReviewed, "project_assignment", after.ID, before, after)
	message := "Application rejected"
	if after.Status == project.AssignmentActive {
		message = "Application approved"
	}
	api.Success(w, after, message)
}

package tieringhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/audit"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/tiering"
	"workforce/internal/platform/jobs"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

// JobRunner is satisfied by *jobs.Service.
type JobRunner interface {
	RunNow(ctx context.Context, jobType, triggeredBy string, run jobs.RunFunc) (any, error)
}

type Handler struct {
	Service *tiering.Service
	Perms   middleware.PermissionStore
	Audit   shared.AuditRecorder
	Jobs    JobRunner
}

func NewHandler(service *tiering.Service, perms middleware.PermissionStore, auditSvc shared.AuditRecorder, runner JobRunner) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Jobs: runner}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tiering", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTieringRead, h.Perms)).Get("/stats", h.handleStats)
		r.With(middleware.RequirePermission(auth.PermTieringRead, h.Perms)).Post("/calculate/{freelancerID}", h.handleCalculate)
		r.With(middleware.RequirePermission(auth.PermTieringApply, h.Perms)).Put("/apply/{freelancerID}", h.handleApply)
		r.With(middleware.RequirePermission(auth.PermTieringBulk, h.Perms)).Post("/calculate-all", h.handleCalculateAll)
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, stats, "")
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.Calculate(r.Context(), chi.URLParam(r, "freelancerID"), tiering.Options{
		Period:    r.URL.Query().Get("period"),
		ProjectID: r.URL.Query().Get("projectId"),
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, "Tier calculation completed")
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload tiering.ApplyInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	result, err := h.Service.Apply(r.Context(), chi.URLParam(r, "freelancerID"), payload, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionTierApplied, "freelancer", result.Freelancer.ID,
		map[string]string{"tierGrade": result.Change.From}, result.Change)
	api.Success(w, result, "Tier/Grade updated successfully")
}

// handleCalculateAll runs the bulk pass through the job runner so manual and
// scheduled recalculations share the same run history.
func (h *Handler) handleCalculateAll(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload tiering.BulkOptions
	if err := shared.Decode(r, &payload, true); err != nil {
		shared.WriteError(w, r, err)
		return
	}

	run := func(ctx context.Context) (any, error) {
		return h.Service.Bulk(ctx, payload)
	}
	var (
		out any
		err error
	)
	if h.Jobs != nil {
		out, err = h.Jobs.RunNow(r.Context(), jobs.JobTierRecalculation, user.UserID, run)
	} else {
		out, err = run(r.Context())
	}
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	result, ok := out.(tiering.BulkResult)
	if !ok {
		shared.WriteError(w, r, apperr.Unexpected("Bulk calculation returned no result", nil))
		return
	}
	if payload.AutoApply && result.Summary.Updated > 0 {
		shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionTierBulk, "freelancer", "bulk", nil, result.Summary)
	}
	api.Success(w, result, "Bulk tier calculation completed")
}

package dashboardhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/auth"
	"workforce/internal/domain/dashboard"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Service *dashboard.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *dashboard.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermDashboardRead, h.Perms))
		r.Get("/stats", h.handleStats)
		r.Get("/performance-overview", h.handlePerformanceOverview)
		r.Get("/payment-stats", h.handlePaymentStats)
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, stats, "Dashboard statistics retrieved successfully")
}

func (h *Handler) handlePerformanceOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Service.PerformanceOverview(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, overview, "Performance overview retrieved successfully")
}

func (h *Handler) handlePaymentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.PaymentStats(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, stats, "Payment statistics retrieved successfully")
}

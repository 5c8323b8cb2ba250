package paymentshandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/audit"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/payment"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

const createEndpoint = "payments.create"

var errKeyReused = apperr.New(apperr.KindConflict, "Idempotency key was already used with a different payload")

// IdempotencyStore is satisfied by *middleware.IdempotencyStore.
type IdempotencyStore interface {
	Check(ctx context.Context, userID, endpoint, key, requestHash string) (middleware.StoredResponse, bool, error)
	Save(ctx context.Context, userID, endpoint, key, requestHash string, response middleware.StoredResponse) error
}

type Handler struct {
	Service     *payment.Service
	Perms       middleware.PermissionStore
	Audit       shared.AuditRecorder
	Idempotency IdempotencyStore
}

func NewHandler(service *payment.Service, perms middleware.PermissionStore, auditSvc shared.AuditRecorder, idem IdempotencyStore) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Idempotency: idem}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payments", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPaymentsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermPaymentsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermPaymentsWrite, h.Perms)).Post("/calculate", h.handleCalculate)
		r.With(middleware.RequirePermission(auth.PermPaymentsRead, h.Perms)).Get("/stats", h.handleStats)
		r.With(middleware.RequirePermission(auth.PermPaymentsRead, h.Perms)).Get("/export.csv", h.handleExport)
		r.With(middleware.RequirePermission(auth.PermPaymentsRead, h.Perms)).Get("/export/line-items.csv", h.handleExportLineItems)
		r.With(middleware.RequirePermission(auth.PermPaymentsRead, h.Perms)).Get("/{paymentID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermPaymentsRead, h.Perms)).Get("/{paymentID}/statement.pdf", h.handleStatement)
		r.With(middleware.RequirePermission(auth.PermPaymentsWrite, h.Perms)).Put("/{paymentID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermPaymentsDelete, h.Perms)).Delete("/{paymentID}", h.handleDelete)
	})
}

func filterFrom(r *http.Request) payment.ListFilter {
	q := r.URL.Query()
	page, limit := shared.ParsePage(r)
	return payment.ListFilter{
		FreelancerID: q.Get("freelancerId"),
		Status:       q.Get("status"),
		Month:        shared.QueryInt(r, "month"),
		Year:         shared.QueryInt(r, "year"),
		SortBy:       q.Get("sortBy"),
		SortOrder:    q.Get("sortOrder"),
		Page:         page,
		Limit:        limit,
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

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var payload payment.CalculateInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	calc, err := h.Service.Calculate(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, calc, "Payment calculated successfully")
}

// handleCreate replays the stored response when the Idempotency-Key header
// repeats an earlier request with the same body.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		shared.WriteError(w, r, shared.ErrInvalidPayload)
		return
	}

	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	requestHash := middleware.RequestHash(raw)
	if key != "" && h.Idempotency != nil {
		stored, found, err := h.Idempotency.Check(r.Context(), user.UserID, createEndpoint, key, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			shared.WriteError(w, r, errKeyReused)
			return
		}
		if err != nil {
			slog.Warn("idempotency check failed", "err", err)
		}
		if found {
			replay(w, stored)
			return
		}
	}

	r.Body = io.NopCloser(bytes.NewReader(raw))
	var payload payment.CreateInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	p, err := h.Service.Create(r.Context(), payload, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionPaymentCreated, "payment", p.ID, nil, p)

	envelope := api.Envelope{Success: true, Message: "Payment created successfully", Data: p}
	if key != "" && h.Idempotency != nil {
		body, err := json.Marshal(envelope)
		if err != nil {
			slog.Warn("idempotency response marshal failed", "err", err)
		} else if err := h.Idempotency.Save(r.Context(), user.UserID, createEndpoint, key, requestHash, middleware.StoredResponse{Status: http.StatusCreated, Body: body}); err != nil {
			slog.Warn("idempotency save failed", "err", err)
		}
	}
	api.WriteJSON(w, http.StatusCreated, envelope)
}

func replay(w http.ResponseWriter, stored middleware.StoredResponse) {
	status := stored.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(status)
	if _, err := w.Write(stored.Body); err != nil {
		slog.Warn("idempotent replay write failed", "err", err)
	}
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context(), shared.QueryInt(r, "year"), shared.QueryInt(r, "month"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, stats, "")
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Service.ExportPayments(r.Context(), filterFrom(r), &buf); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	writeAttachment(w, "text/csv", "payments.csv", buf.Bytes())
}

func (h *Handler) handleExportLineItems(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Service.ExportLineItems(r.Context(), filterFrom(r), &buf); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	writeAttachment(w, "text/csv", "payment-line-items.csv", buf.Bytes())
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if _, err := w.Write(data); err != nil {
		slog.Warn("attachment write failed", "filename", filename, "err", err)
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Get(r.Context(), chi.URLParam(r, "paymentID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, p, "")
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	data, p, err := h.Service.Statement(r.Context(), chi.URLParam(r, "paymentID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	writeAttachment(w, "application/pdf", "payment-"+p.ID+".pdf", data)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload payment.UpdateInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	before, after, err := h.Service.Update(r.Context(), chi.URLParam(r, "paymentID"), payload, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionPaymentUpdated, "payment", after.ID, before, after)
	api.Success(w, after, "Payment updated successfully")
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	p, err := h.Service.Delete(r.Context(), chi.URLParam(r, "paymentID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, user.UserID, audit.ActionPaymentDeleted, "payment", p.ID, p, nil)
	api.Success(w, nil, "Payment deleted successfully")
}

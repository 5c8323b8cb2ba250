package notificationshandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/notifications"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

// Handler serves the signed-in user's own notifications.
type Handler struct {
	Service *notifications.Service
}

func NewHandler(service *notifications.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleList)
		r.Get("/unread-count", h.handleUnreadCount)
		r.Put("/read-all", h.handleMarkAllRead)
		r.Put("/{notificationID}/read", h.handleMarkRead)
		r.Delete("/{notificationID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	items, total, err := h.Service.List(r.Context(), user.UserID, shared.QueryBool(r, "unreadOnly"), page.Limit, page.Offset)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, map[string]any{"notifications": items, "total": total}, "")
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	count, err := h.Service.UnreadCount(r.Context(), user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]int{"count": count}, "")
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Service.MarkRead(r.Context(), user.UserID, chi.URLParam(r, "notificationID")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, nil, "Notification marked as read")
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	updated, err := h.Service.MarkAllRead(r.Context(), user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]int64{"updated": updated}, "All notifications marked as read")
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Service.Delete(r.Context(), user.UserID, chi.URLParam(r, "notificationID")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, nil, "Notification deleted")
}

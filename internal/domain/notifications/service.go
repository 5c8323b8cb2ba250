package notifications

import (
	"context"
	"log/slog"

	"workforce/internal/domain/apperr"
	"workforce/internal/platform/email"
)

var ErrNotificationNotFound = apperr.NotFound("Notification not found")

type Service struct {
	store       StoreAPI
	Mailer      email.Mailer
	DefaultFrom string
}

func New(store StoreAPI, mailer email.Mailer) *Service {
	return &Service{store: store, Mailer: mailer, DefaultFrom: "no-reply@example.com"}
}

// Notify records an in-app notification and logs instead of failing, so
// callers can fire it after their primary write has committed.
func (s *Service) Notify(ctx context.Context, in Input) {
	if s == nil || in.UserID == "" {
		return
	}
	if err := s.store.CreateNotification(ctx, in); err != nil {
		slog.Warn("notification create failed", "type", in.Type, "userId", in.UserID, "err", err)
	}
}

// Email sends a best-effort message to a user by id.
func (s *Service) Email(ctx context.Context, userID, subject, body string) {
	if s == nil || s.Mailer == nil || userID == "" {
		return
	}
	to, err := s.store.UserEmail(ctx, userID)
	if err != nil {
		slog.Warn("notification email lookup failed", "userId", userID, "err", err)
		return
	}
	s.EmailAddress(ctx, to, subject, body)
}

func (s *Service) EmailAddress(ctx context.Context, to, subject, body string) {
	if s == nil || s.Mailer == nil || to == "" {
		return
	}
	if err := s.Mailer.Send(ctx, s.DefaultFrom, to, subject, body); err != nil {
		slog.Warn("notification email send failed", "to", to, "err", err)
	}
}

func (s *Service) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]Notification, int, error) {
	items, err := s.store.ListNotifications(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, apperr.FromStore(err, nil)
	}
	total, err := s.store.CountNotifications(ctx, userID, unreadOnly)
	if err != nil {
		return nil, 0, apperr.FromStore(err, nil)
	}
	return items, total, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := s.store.CountNotifications(ctx, userID, true)
	if err != nil {
		return 0, apperr.FromStore(err, nil)
	}
	return count, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	ok, err := s.store.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return apperr.FromStore(err, ErrNotificationNotFound)
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	count, err := s.store.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, apperr.FromStore(err, nil)
	}
	return count, nil
}

func (s *Service) Delete(ctx context.Context, userID, notificationID string) error {
	ok, err := s.store.DeleteNotification(ctx, userID, notificationID)
	if err != nil {
		return apperr.FromStore(err, ErrNotificationNotFound)
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

package application

import (
	"context"
	"strings"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/notifications"
	"workforce/internal/platform/email"
)

// Notifier is satisfied by *notifications.Service. Applicants have no user
// account until approval, so mail goes to the address directly.
type Notifier interface {
	Notify(ctx context.Context, in notifications.Input)
	EmailAddress(ctx context.Context, to, subject, body string)
}

// StatsInvalidator drops cached freelancer counts after provisioning.
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context)
}

type Service struct {
	store    StoreAPI
	notifier Notifier
	stats    StatsInvalidator
	LoginURL string
	// NewPassword generates the temporary credential; tests replace it.
	NewPassword func() string
}

func NewService(store StoreAPI, notifier Notifier, stats StatsInvalidator, loginURL string) *Service {
	return &Service{
		store:       store,
		notifier:    notifier,
		stats:       stats,
		LoginURL:    loginURL,
		NewPassword: auth.TemporaryPassword,
	}
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func (s *Service) Submit(ctx context.Context, in SubmitInput) (string, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.Email == "" || in.FirstName == "" || in.LastName == "" ||
		strings.TrimSpace(in.Phone) == "" || strings.TrimSpace(in.City) == "" || strings.TrimSpace(in.Country) == "" {
		return "", ErrMissingFields
	}

	applied, registered, err := s.store.EmailInUse(ctx, in.Email)
	if err != nil {
		return "", apperr.FromStore(err, nil)
	}
	if applied {
		return "", ErrDuplicateApplication
	}
	if registered {
		return "", ErrEmailRegistered
	}

	id, err := s.store.CreateApplication(ctx, in)
	if err != nil {
		if apperr.IsUniqueViolation(err) {
			return "", ErrDuplicateApplication
		}
		return "", apperr.FromStore(err, nil)
	}

	if s.notifier != nil {
		msg := email.ApplicationReceived(in.FirstName)
		s.notifier.EmailAddress(ctx, in.Email, msg.Subject, msg.Body)
	}
	return id, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return ListResult{}, ErrInvalidStatus
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	items, total, err := s.store.ListApplications(ctx, filter)
	if err != nil {
		return ListResult{}, apperr.FromStore(err, nil)
	}
	return ListResult{
		Applications: items,
		Page:         filter.Page,
		Limit:        filter.Limit,
		TotalCount:   total,
		TotalPages:   (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return Application{}, apperr.FromStore(err, ErrApplicationNotFound)
	}
	return app, nil
}

// Approve provisions the freelancer account. The temporary password is
// returned once and emailed; only its hash is stored.
func (s *Service) Approve(ctx context.Context, id, reviewerID string) (Provisioned, error) {
	app, err := s.Get(ctx, id)
	if err != nil {
		return Provisioned{}, err
	}
	if app.Status != StatusPending {
		return Provisioned{}, ErrAlreadyReviewed
	}

	password := s.NewPassword()
	hash, err := auth.HashPassword(password)
	if err != nil {
		return Provisioned{}, apperr.Unexpected("Failed to hash password", err)
	}

	out, err := s.store.Approve(ctx, app, reviewerID, hash)
	if err != nil {
		if apperr.IsUniqueViolation(err) {
			return Provisioned{}, ErrEmailRegistered
		}
		return Provisioned{}, apperr.FromStore(err, ErrApplicationNotFound)
	}
	out.TemporaryPassword = password

	if s.stats != nil {
		s.stats.InvalidateStats(ctx)
	}
	if s.notifier != nil {
		msg := email.ApplicationApproved(app.FirstName, out.FreelancerID, app.Email, password, s.LoginURL)
		s.notifier.EmailAddress(ctx, app.Email, msg.Subject, msg.Body)
		s.notifier.Notify(ctx, notifications.Input{
			UserID:      out.UserID,
			Type:        notifications.TypeApplicationApproved,
			Title:       "Welcome aboard",
			Message:     "Your application was approved. Your freelancer ID is " + out.FreelancerID,
			Link:        "/freelancer/dashboard",
			RelatedID:   out.FreelancerRowID,
			RelatedType: notifications.RelatedFreelancer,
		})
	}
	return out, nil
}

func (s *Service) Reject(ctx context.Context, id, reviewerID string, in RejectInput) (Application, error) {
	app, err := s.Get(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if app.Status != StatusPending {
		return Application{}, ErrAlreadyReviewed
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = defaultRejectionReason
	}

	ok, err := s.store.Reject(ctx, app.ID, reviewerID, reason)
	if err != nil {
		return Application{}, apperr.FromStore(err, ErrApplicationNotFound)
	}
	if !ok {
		return Application{}, ErrAlreadyReviewed
	}

	if s.notifier != nil {
		msg := email.ApplicationRejected(app.FirstName, reason)
		s.notifier.EmailAddress(ctx, app.Email, msg.Subject, msg.Body)
	}
	return s.Get(ctx, app.ID)
}

package users

import (
	"context"
	"log/slog"
	"strings"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/auth"
)

// StatsInvalidator drops cached freelancer and tier counts once an account
// with a freelancer profile is removed.
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context)
}

type Service struct {
	store StoreAPI
	stats StatsInvalidator
}

func NewService(store StoreAPI, stats StatsInvalidator) *Service {
	return &Service{store: store, stats: stats}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]User, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	users, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, apperr.FromStore(err, nil)
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	u, err := s.store.Get(ctx, id)
	if err != nil {
		return User{}, apperr.FromStore(err, ErrUserNotFound)
	}
	return u, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return Stats{}, apperr.FromStore(err, nil)
	}
	return stats, nil
}

func validRole(role string) bool {
	for _, candidate := range auth.Roles() {
		if candidate == role {
			return true
		}
	}
	return false
}

// UpdateRole revokes the user's sessions, since a refreshed token keeps the
// role it was issued with.
func (s *Service) UpdateRole(ctx context.Context, id, role string) (User, User, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return User{}, User{}, ErrRoleRequired
	}
	if !validRole(role) {
		return User{}, User{}, ErrInvalidRole
	}
	before, err := s.Get(ctx, id)
	if err != nil {
		return User{}, User{}, err
	}
	if err := s.store.SetRole(ctx, before.ID, role); err != nil {
		return User{}, User{}, apperr.FromStore(err, ErrUserNotFound)
	}
	s.revoke(ctx, before.ID)
	after, err := s.Get(ctx, before.ID)
	if err != nil {
		return User{}, User{}, err
	}
	return before, after, nil
}

// ToggleActive flips ACTIVE and INACTIVE. Inactive accounts cannot log in.
func (s *Service) ToggleActive(ctx context.Context, actorID, id string) (User, User, error) {
	before, err := s.Get(ctx, id)
	if err != nil {
		return User{}, User{}, err
	}
	if before.ID == actorID {
		return User{}, User{}, ErrSelfDeactivation
	}
	next := StatusActive
	if before.IsActive {
		next = StatusInactive
	}
	if err := s.store.SetStatus(ctx, before.ID, next); err != nil {
		return User{}, User{}, apperr.FromStore(err, ErrUserNotFound)
	}
	if next == StatusInactive {
		s.revoke(ctx, before.ID)
	}
	after, err := s.Get(ctx, before.ID)
	if err != nil {
		return User{}, User{}, err
	}
	return before, after, nil
}

// Delete is the only path that removes a freelancer: the profile, its
// assignments, performance and payment records cascade with the account.
func (s *Service) Delete(ctx context.Context, actorID, id string) (User, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if existing.ID == actorID {
		return User{}, ErrSelfDeletion
	}
	if err := s.store.Delete(ctx, existing.ID); err != nil {
		return User{}, apperr.FromStore(err, ErrUserNotFound)
	}
	if existing.Freelancer != nil && s.stats != nil {
		s.stats.InvalidateStats(ctx)
	}
	return existing, nil
}

// ResetPassword sets newPassword, or a generated temporary password when it
// is empty, and returns the password so an admin can pass it on.
func (s *Service) ResetPassword(ctx context.Context, id, newPassword string) (PasswordReset, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return PasswordReset{}, err
	}
	password := newPassword
	if password == "" {
		password = auth.TemporaryPassword()
	} else if err := auth.ValidatePassword(password); err != nil {
		return PasswordReset{}, apperr.Validation("Invalid password", apperr.FieldIssue{Field: "newPassword", Reason: err.Error()})
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return PasswordReset{}, apperr.Unexpected("failed to hash password", err)
	}
	if err := s.store.SetPassword(ctx, existing.ID, hash); err != nil {
		return PasswordReset{}, apperr.FromStore(err, ErrUserNotFound)
	}
	s.revoke(ctx, existing.ID)
	return PasswordReset{Email: existing.Email, TemporaryPassword: password}, nil
}

func (s *Service) revoke(ctx context.Context, userID string) {
	if err := s.store.RevokeSessions(ctx, userID); err != nil {
		slog.Warn("session revoke failed", "userId", userID, "err", err)
	}
}

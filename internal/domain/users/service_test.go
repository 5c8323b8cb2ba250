package users

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/auth"
)

type fakeStore struct {
	users    map[string]User
	hashes   map[string]string
	revoked  []string
	deleted  []string
	listSeen ListFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: map[string]User{
			"admin-1": {ID: "admin-1", Email: "admin@test.local", Role: auth.RoleAdmin, Status: StatusActive, IsActive: true},
			"user-2": {ID: "user-2", Email: "ada@example.com", Role: auth.RoleFreelancer, Status: StatusActive, IsActive: true,
				Freelancer: &FreelancerRef{ID: "fl-1", FreelancerCode: "FL-0001"}},
			"user-3": {ID: "user-3", Email: "qa@test.local", Role: auth.RoleQA, Status: StatusInactive},
		},
		hashes: map[string]string{},
	}
}

func (f *fakeStore) List(_ context.Context, filter ListFilter) ([]User, error) {
	f.listSeen = filter
	out := []User{}
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (User, error) {
	u, ok := f.users[id]
	if !ok {
		return User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeStore) Stats(context.Context) (Stats, error) {
	return Stats{Total: len(f.users)}, nil
}

func (f *fakeStore) SetRole(_ context.Context, id, role string) error {
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Role = role
	f.users[id] = u
	return nil
}

func (f *fakeStore) SetStatus(_ context.Context, id, status string) error {
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Status = status
	u.IsActive = status == StatusActive
	f.users[id] = u
	return nil
}

func (f *fakeStore) SetPassword(_ context.Context, id, hash string) error {
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	f.hashes[id] = hash
	return nil
}

func (f *fakeStore) RevokeSessions(_ context.Context, id string) error {
	f.revoked = append(f.revoked, id)
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type countingStats struct{ calls int }

func (c *countingStats) InvalidateStats(context.Context) { c.calls++ }

func TestUpdateRole(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	before, after, err := svc.UpdateRole(context.Background(), "user-3", auth.RoleFinance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before.Role != auth.RoleQA || after.Role != auth.RoleFinance {
		t.Fatalf("expected QA -> FINANCE, got %s -> %s", before.Role, after.Role)
	}
	if len(store.revoked) != 1 || store.revoked[0] != "user-3" {
		t.Fatalf("expected sessions of user-3 revoked, got %v", store.revoked)
	}

	tests := []struct {
		name string
		id   string
		role string
		want error
	}{
		{name: "missing role", id: "user-3", role: " ", want: ErrRoleRequired},
		{name: "unknown role", id: "user-3", role: "OWNER", want: ErrInvalidRole},
		{name: "unknown user", id: "nope", role: auth.RoleQA, want: ErrUserNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.UpdateRole(context.Background(), tc.id, tc.role)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestToggleActive(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	_, after, err := svc.ToggleActive(context.Background(), "admin-1", "user-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.IsActive || after.Status != StatusInactive {
		t.Fatalf("expected user-2 deactivated, got %+v", after)
	}
	if len(store.revoked) != 1 {
		t.Fatalf("expected deactivation to revoke sessions, got %v", store.revoked)
	}

	_, after, err = svc.ToggleActive(context.Background(), "admin-1", "user-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !after.IsActive {
		t.Fatal("expected user-2 reactivated")
	}
	if len(store.revoked) != 1 {
		t.Fatalf("did not expect activation to revoke sessions, got %v", store.revoked)
	}

	if _, _, err := svc.ToggleActive(context.Background(), "admin-1", "admin-1"); !errors.Is(err, ErrSelfDeactivation) {
		t.Fatalf("expected self deactivation error, got %v", err)
	}
}

func TestDeleteCascadesFreelancerStats(t *testing.T) {
	store := newFakeStore()
	stats := &countingStats{}
	svc := NewService(store, stats)

	if _, err := svc.Delete(context.Background(), "admin-1", "admin-1"); !errors.Is(err, ErrSelfDeletion) {
		t.Fatalf("expected self deletion error, got %v", err)
	}

	deleted, err := svc.Delete(context.Background(), "admin-1", "user-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted.Freelancer == nil || deleted.Freelancer.FreelancerCode != "FL-0001" {
		t.Fatalf("expected the deleted freelancer profile, got %+v", deleted.Freelancer)
	}
	if stats.calls != 1 {
		t.Fatalf("expected stats invalidated once, got %d", stats.calls)
	}

	if _, err := svc.Delete(context.Background(), "admin-1", "user-3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.calls != 1 {
		t.Fatalf("did not expect stats invalidation for a staff account, got %d", stats.calls)
	}

	if _, err := svc.Delete(context.Background(), "admin-1", "user-2"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	reset, err := svc.ResetPassword(context.Background(), "user-2", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reset.Email != "ada@example.com" {
		t.Fatalf("expected email ada@example.com, got %s", reset.Email)
	}
	if err := auth.ValidatePassword(reset.TemporaryPassword); err != nil {
		t.Fatalf("generated password is weak: %v", err)
	}
	if err := auth.CheckPassword(store.hashes["user-2"], reset.TemporaryPassword); err != nil {
		t.Fatalf("stored hash does not match: %v", err)
	}
	if len(store.revoked) != 1 {
		t.Fatalf("expected sessions revoked, got %v", store.revoked)
	}

	reset, err = svc.ResetPassword(context.Background(), "user-2", "Chosen123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reset.TemporaryPassword != "Chosen123" {
		t.Fatalf("expected the chosen password back, got %s", reset.TemporaryPassword)
	}

	_, err = svc.ResetPassword(context.Background(), "user-2", "short")
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListTrimsSearch(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	users, err := svc.List(context.Background(), ListFilter{Search: "  ada  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	if store.listSeen.Search != "ada" {
		t.Fatalf("expected trimmed search, got %q", store.listSeen.Search)
	}
}

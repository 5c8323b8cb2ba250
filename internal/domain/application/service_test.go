package application

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5"

	"workforce/internal/domain/auth"
	"workforce/internal/domain/freelancer"
	"workforce/internal/domain/notifications"
)

type fakeStore struct {
	apps        map[string]Application
	users       map[string]bool
	provisioned int
	nextID      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{apps: map[string]Application{}, users: map[string]bool{}}
}

func (f *fakeStore) EmailInUse(_ context.Context, email string) (bool, bool, error) {
	for _, a := range f.apps {
		if a.Email == email {
			return true, f.users[email], nil
		}
	}
	return false, f.users[email], nil
}

func (f *fakeStore) CreateApplication(_ context.Context, in SubmitInput) (string, error) {
	f.nextID++
	id := "app-" + strconv.Itoa(f.nextID)
	f.apps[id] = Application{
		ID:        id,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		City:      in.City,
		Country:   in.Country,
		Status:    StatusPending,
	}
	return id, nil
}

func (f *fakeStore) GetApplication(_ context.Context, id string) (Application, error) {
	a, ok := f.apps[id]
	if !ok {
		return Application{}, pgx.ErrNoRows
	}
	return a, nil
}

func (f *fakeStore) ListApplications(_ context.Context, filter ListFilter) ([]Application, int, error) {
	var out []Application
	for _, a := range f.apps {
		if filter.Status == "" || a.Status == filter.Status {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) Approve(_ context.Context, app Application, reviewerID, passwordHash string) (Provisioned, error) {
	stored := f.apps[app.ID]
	if stored.Status != StatusPending {
		return Provisioned{}, ErrAlreadyReviewed
	}
	if auth.CheckPassword(passwordHash, "Fltemporary19") != nil {
		return Provisioned{}, errors.New("password was not hashed")
	}
	stored.Status = StatusApproved
	stored.ReviewedBy = &reviewerID
	f.apps[app.ID] = stored
	f.users[app.Email] = true
	f.provisioned++
	return Provisioned{
		ApplicationID:   app.ID,
		FreelancerID:    freelancer.FormatCode(f.provisioned),
		FreelancerRowID: "fl-row",
		UserID:          "user-" + strconv.Itoa(f.provisioned),
		Email:           app.Email,
	}, nil
}

func (f *fakeStore) Reject(_ context.Context, id, reviewerID, reason string) (bool, error) {
	stored := f.apps[id]
	if stored.Status != StatusPending {
		return false, nil
	}
	stored.Status = StatusRejected
	stored.RejectionReason = &reason
	f.apps[id] = stored
	return true, nil
}

type recordingNotifier struct {
	notes  []notifications.Input
	emails []string
}

func (r *recordingNotifier) Notify(_ context.Context, in notifications.Input) {
	r.notes = append(r.notes, in)
}

func (r *recordingNotifier) EmailAddress(_ context.Context, to, _, _ string) {
	r.emails = append(r.emails, to)
}

type countingStats struct{ calls int }

func (c *countingStats) InvalidateStats(context.Context) { c.calls++ }

func newTestService() (*Service, *fakeStore, *recordingNotifier, *countingStats) {
	store := newFakeStore()
	notifier := &recordingNotifier{}
	stats := &countingStats{}
	svc := NewService(store, notifier, stats, "http://localhost:5173/login")
	svc.NewPassword = func() string { return "Fltemporary19" }
	return svc, store, notifier, stats
}

func validSubmission() SubmitInput {
	return SubmitInput{
		Email:     "  Ada@Example.COM ",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Phone:     "+44 20 0000",
		City:      "London",
		Country:   "UK",
	}
}

func TestSubmit(t *testing.T) {
	svc, store, notifier, _ := newTestService()
	id, err := svc.Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.apps[id].Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %q", store.apps[id].Email)
	}
	if len(notifier.emails) != 1 || notifier.emails[0] != "ada@example.com" {
		t.Fatalf("expected confirmation email, got %v", notifier.emails)
	}
}

func TestSubmitRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SubmitInput, *fakeStore)
		want   error
	}{
		{name: "missing city", mutate: func(in *SubmitInput, _ *fakeStore) { in.City = " " }, want: ErrMissingFields},
		{name: "missing email", mutate: func(in *SubmitInput, _ *fakeStore) { in.Email = "" }, want: ErrMissingFields},
		{name: "duplicate application", mutate: func(_ *SubmitInput, f *fakeStore) {
			f.apps["existing"] = Application{ID: "existing", Email: "ada@example.com", Status: StatusPending}
		}, want: ErrDuplicateApplication},
		{name: "registered user", mutate: func(_ *SubmitInput, f *fakeStore) { f.users["ada@example.com"] = true }, want: ErrEmailRegistered},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, store, _, _ := newTestService()
			in := validSubmission()
			tc.mutate(&in, store)
			if _, err := svc.Submit(context.Background(), in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestApproveProvisionsOnce(t *testing.T) {
	svc, store, notifier, stats := newTestService()
	id, err := svc.Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := svc.Approve(context.Background(), id, "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.FreelancerID != "FL-0001" || out.TemporaryPassword != "Fltemporary19" || out.Email != "ada@example.com" {
		t.Fatalf("unexpected provisioning result %+v", out)
	}
	if stats.calls != 1 {
		t.Fatalf("expected stats invalidated once, got %d", stats.calls)
	}
	if len(notifier.notes) != 1 || notifier.notes[0].Type != notifications.TypeApplicationApproved {
		t.Fatalf("expected approval notification, got %+v", notifier.notes)
	}

	if _, err := svc.Approve(context.Background(), id, "admin-1"); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected already reviewed, got %v", err)
	}
	if _, err := svc.Reject(context.Background(), id, "admin-1", RejectInput{}); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected already reviewed on reject, got %v", err)
	}
	if store.provisioned != 1 {
		t.Fatalf("expected one provisioning, got %d", store.provisioned)
	}
}

func TestRejectDefaultsReason(t *testing.T) {
	svc, _, notifier, _ := newTestService()
	id, err := svc.Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	app, err := svc.Reject(context.Background(), id, "admin-1", RejectInput{Reason: "  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Status != StatusRejected || app.RejectionReason == nil || *app.RejectionReason != "Application did not meet requirements" {
		t.Fatalf("unexpected rejected application %+v", app)
	}
	if len(notifier.emails) != 2 {
		t.Fatalf("expected confirmation and rejection emails, got %d", len(notifier.emails))
	}
}

func TestApproveUnknown(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, err := svc.Approve(context.Background(), "missing", "admin-1"); !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, err := svc.List(context.Background(), ListFilter{Status: "WAITING"}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	res, err := svc.List(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Limit != defaultLimit || res.Page != 1 {
		t.Fatalf("expected default paging, got page %d limit %d", res.Page, res.Limit)
	}
}

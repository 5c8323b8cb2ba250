package notifications

import (
	"context"
	"errors"
	"testing"
)

type fakeStore struct {
	created   []Input
	emails    map[string]string
	createErr error
	markOK    bool
}

func (f *fakeStore) CreateNotification(_ context.Context, in Input) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, in)
	return nil
}

func (f *fakeStore) UserEmail(_ context.Context, userID string) (string, error) {
	if email, ok := f.emails[userID]; ok {
		return email, nil
	}
	return "", errors.New("no rows")
}

func (f *fakeStore) ListNotifications(context.Context, string, bool, int, int) ([]Notification, error) {
	return []Notification{{ID: "n1"}}, nil
}

func (f *fakeStore) CountNotifications(context.Context, string, bool) (int, error) {
	return 1, nil
}

func (f *fakeStore) MarkRead(context.Context, string, string) (bool, error) {
	return f.markOK, nil
}

func (f *fakeStore) MarkAllRead(context.Context, string) (int64, error) {
	return 3, nil
}

func (f *fakeStore) DeleteNotification(context.Context, string, string) (bool, error) {
	return f.markOK, nil
}

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) Send(_ context.Context, _, to, _, _ string) error {
	m.sent = append(m.sent, to)
	return m.err
}

func TestNotifySwallowsStoreErrors(t *testing.T) {
	store := &fakeStore{createErr: errors.New("db down")}
	svc := New(store, nil)
	svc.Notify(context.Background(), Input{UserID: "u1", Type: TypeTierUpdate})
	if len(store.created) != 0 {
		t.Fatalf("expected nothing recorded, got %d", len(store.created))
	}
}

func TestNotifySkipsMissingUser(t *testing.T) {
	store := &fakeStore{}
	New(store, nil).Notify(context.Background(), Input{Type: TypeTierUpdate})
	if len(store.created) != 0 {
		t.Fatal("expected notification without user to be skipped")
	}
}

func TestEmailLooksUpRecipient(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	svc := New(&fakeStore{emails: map[string]string{"u1": "fl@example.com"}}, mailer)

	svc.Email(context.Background(), "u1", "subject", "body")
	svc.Email(context.Background(), "missing", "subject", "body")

	if len(mailer.sent) != 1 || mailer.sent[0] != "fl@example.com" {
		t.Fatalf("expected one email to fl@example.com, got %v", mailer.sent)
	}
}

func TestMarkReadNotFound(t *testing.T) {
	svc := New(&fakeStore{}, nil)
	if err := svc.MarkRead(context.Background(), "u1", "n1"); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestFromStore(t *testing.T) {
	missing := NotFound("freelancer not found")
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "no rows", err: pgx.ErrNoRows, want: KindNotFound},
		{name: "wrapped no rows", err: fmt.Errorf("load: %w", pgx.ErrNoRows), want: KindNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: KindValidation},
		{name: "invalid uuid", err: &pgconn.PgError{Code: "22P02"}, want: KindNotFound},
		{name: "foreign key", err: &pgconn.PgError{Code: "23503"}, want: KindValidation},
		{name: "other pg error", err: &pgconn.PgError{Code: "40001"}, want: KindUnexpected},
		{name: "plain error", err: errors.New("boom"), want: KindUnexpected},
		{name: "already classified", err: StateConflict("nope"), want: KindStateConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := KindOf(FromStore(tc.err, missing))
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
	if FromStore(nil, missing) != nil {
		t.Fatal("expected nil for nil error")
	}
	if !errors.Is(FromStore(pgx.ErrNoRows, missing), missing) {
		t.Fatal("expected not found sentinel to be returned")
	}
}

func TestSentinelMatchesAfterWrapping(t *testing.T) {
	sentinel := StateConflict("Application has already been reviewed")
	wrapped := fmt.Errorf("approve: %w", sentinel)
	if !errors.Is(wrapped, sentinel) {
		t.Fatal("expected wrapped sentinel to match")
	}
	if errors.Is(wrapped, StateConflict("something else")) {
		t.Fatal("did not expect a different message to match")
	}
	if KindOf(wrapped) != KindStateConflict {
		t.Fatalf("expected state conflict, got %s", KindOf(wrapped))
	}
}

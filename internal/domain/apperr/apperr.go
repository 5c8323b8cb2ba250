package apperr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Kind string

const (
	KindValidation    Kind = "validation_error"
	KindNotFound      Kind = "not_found"
	KindStateConflict Kind = "state_conflict"
	KindNoData        Kind = "no_data"
	KindUnauthorized  Kind = "unauthorized"
	KindForbidden     Kind = "forbidden"
	KindConflict      Kind = "conflict"
	KindUnexpected    Kind = "unexpected"
)

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldIssue
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind and message, so package
// sentinels work with errors.Is after wrapping.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind && other.Message == e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string, fields ...FieldIssue) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func StateConflict(message string) *Error {
	return New(KindStateConflict, message)
}

func NoData(message string) *Error {
	return New(KindNoData, message)
}

func Unexpected(message string, err error) *Error {
	return &Error{Kind: KindUnexpected, Message: message, Err: err}
}

// KindOf returns KindUnexpected for errors outside the taxonomy.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

const (
	uniqueViolation    = "23505"
	invalidTextSyntax  = "22P02"
	foreignKeyMismatch = "23503"
)

func IsUniqueViolation(err error) bool {
	return pgCode(err) == uniqueViolation
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// FromStore maps store failures into the taxonomy. No rows, or an id that is
// not a valid uuid, becomes notFound; unique and foreign key violations
// become validation errors; anything else is unexpected.
func FromStore(err error, notFound *Error) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == invalidTextSyntax {
		if notFound != nil {
			return notFound
		}
		return NotFound("Record not found")
	}
	switch pgCode(err) {
	case uniqueViolation:
		return &Error{Kind: KindValidation, Message: "A record with that value already exists", Err: err}
	case foreignKeyMismatch:
		return &Error{Kind: KindValidation, Message: "Referenced record does not exist", Err: err}
	}
	return Unexpected("Database error occurred", err)
}

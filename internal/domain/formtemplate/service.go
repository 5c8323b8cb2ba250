package formtemplate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"workforce/internal/domain/apperr"
)

var ErrFieldsRequired = apperr.Validation("Invalid form template data", apperr.FieldIssue{Field: "fields", Reason: "must be a non-empty list"})

type Service struct {
	store StoreAPI
	Now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, Now: time.Now}
}

func defaultTemplate(now time.Time) Template {
	return Template{
		Fields:       DefaultFields(),
		FieldMapping: map[string]string{},
		UpdatedAt:    now,
		UpdatedBy:    systemAuthor,
		IsDefault:    true,
	}
}

// Get returns the saved template, or the built-in one when none was saved.
func (s *Service) Get(ctx context.Context) (Template, error) {
	t, err := s.store.Get(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		return defaultTemplate(s.Now()), nil
	}
	if err != nil {
		return Template{}, apperr.FromStore(err, nil)
	}
	if t.FieldMapping == nil {
		t.FieldMapping = map[string]string{}
	}
	if t.UpdatedBy == "" {
		t.UpdatedBy = systemAuthor
	}
	return t, nil
}

func validateFields(fields []Field) error {
	if len(fields) == 0 {
		return ErrFieldsRequired
	}
	var issues []apperr.FieldIssue
	seen := map[string]bool{}
	for i, f := range fields {
		prefix := fmt.Sprintf("fields[%d]", i)
		if strings.TrimSpace(f.ID) == "" || strings.TrimSpace(f.Type) == "" || strings.TrimSpace(f.Label) == "" {
			issues = append(issues, apperr.FieldIssue{Field: prefix, Reason: "must have id, type and label"})
			continue
		}
		if seen[f.ID] {
			issues = append(issues, apperr.FieldIssue{Field: prefix + ".id", Reason: "must be unique"})
		}
		seen[f.ID] = true
	}
	if len(issues) > 0 {
		return apperr.Validation("Each field must have id, type, and label", issues...)
	}
	return nil
}

func (s *Service) Update(ctx context.Context, in UpdateInput, actorID string) (Template, error) {
	if err := validateFields(in.Fields); err != nil {
		return Template{}, err
	}
	updatedAt, err := s.store.Save(ctx, in.Fields, in.FieldMapping, actorID)
	if err != nil {
		return Template{}, apperr.FromStore(err, nil)
	}
	mapping := in.FieldMapping
	if mapping == nil {
		mapping = map[string]string{}
	}
	return Template{Fields: in.Fields, FieldMapping: mapping, UpdatedAt: updatedAt, UpdatedBy: actorID}, nil
}

// Reset stores the built-in fields and clears the mapping.
func (s *Service) Reset(ctx context.Context, actorID string) (Template, error) {
	fields := DefaultFields()
	updatedAt, err := s.store.Save(ctx, fields, nil, actorID)
	if err != nil {
		return Template{}, apperr.FromStore(err, nil)
	}
	t := defaultTemplate(updatedAt)
	t.UpdatedBy = actorID
	return t, nil
}

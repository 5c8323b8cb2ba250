package formtemplate

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StoreAPI interface {
	Get(ctx context.Context) (Template, error)
	Save(ctx context.Context, fields []Field, mapping map[string]string, updatedBy string) (time.Time, error)
}

var _ StoreAPI = (*Store)(nil)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// Get returns pgx.ErrNoRows until a template has been saved.
func (s *Store) Get(ctx context.Context) (Template, error) {
	var out Template
	var fields, mapping []byte
	err := s.DB.QueryRow(ctx, `
    SELECT fields, field_mapping, COALESCE(updated_by::text, ''), updated_at
    FROM form_templates
    WHERE id = 1
  `).Scan(&fields, &mapping, &out.UpdatedBy, &out.UpdatedAt)
	if err != nil {
		return Template{}, err
	}
	if err := json.Unmarshal(fields, &out.Fields); err != nil {
		return Template{}, err
	}
	if len(mapping) > 0 {
		if err := json.Unmarshal(mapping, &out.FieldMapping); err != nil {
			return Template{}, err
		}
	}
	return out, nil
}

func (s *Store) Save(ctx context.Context, fields []Field, mapping map[string]string, updatedBy string) (time.Time, error) {
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return time.Time{}, err
	}
	var mappingJSON []byte
	if len(mapping) > 0 {
		if mappingJSON, err = json.Marshal(mapping); err != nil {
			return time.Time{}, err
		}
	}
	var updatedAt time.Time
	err = s.DB.QueryRow(ctx, `
    INSERT INTO form_templates (id, fields, field_mapping, updated_by, updated_at)
    VALUES (1, $1, $2, NULLIF($3, '')::uuid, now())
    ON CONFLICT (id) DO UPDATE
    SET fields = EXCLUDED.fields, field_mapping = EXCLUDED.field_mapping,
        updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at
    RETURNING updated_at
  `, fieldsJSON, mappingJSON, updatedBy).Scan(&updatedAt)
	return updatedAt, err
}

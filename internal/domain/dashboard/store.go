package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StoreAPI interface {
	Overview(ctx context.Context) (Overview, error)
	Countries(ctx context.Context) ([]Count, error)
	Genders(ctx context.Context) ([]Count, error)
	AnnotationTypes(ctx context.Context) ([]Count, error)
	AnnotationMethods(ctx context.Context) ([]Count, error)
	RecentRecords(ctx context.Context, limit int) ([]RecentRecord, error)
	Averages(ctx context.Context) (Averages, error)
}

var _ StoreAPI = (*Store)(nil)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// Overview counts a freelancer as engaged when it is ACTIVE and holds an
// ACTIVE assignment on an ACTIVE project; active means ACTIVE but not engaged.
func (s *Store) Overview(ctx context.Context) (Overview, error) {
	var out Overview
	err := s.DB.QueryRow(ctx, `
    WITH engaged AS (
      SELECT DISTINCT f.id
      FROM freelancers f
      JOIN project_assignments pa ON pa.freelancer_id = f.id AND pa.status = 'ACTIVE'
      JOIN projects p ON p.id = pa.project_id AND p.status = 'ACTIVE'
      WHERE f.status = 'ACTIVE'
    )
    SELECT
      (SELECT COUNT(*) FROM freelancers),
      (SELECT COUNT(*) FROM freelancers WHERE status = 'ACTIVE' AND id NOT IN (SELECT id FROM engaged)),
      (SELECT COUNT(*) FROM engaged),
      (SELECT COUNT(*) FROM projects),
      (SELECT COUNT(*) FROM projects WHERE status = 'ACTIVE')
  `).Scan(&out.TotalFreelancers, &out.ActiveFreelancers, &out.EngagedFreelancers, &out.TotalProjects, &out.OngoingProjects)
	return out, err
}

func (s *Store) counts(ctx context.Context, query string) ([]Count, error) {
	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Count{}
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Label, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Countries(ctx context.Context) ([]Count, error) {
	return s.counts(ctx, `
    SELECT country, COUNT(*) FROM freelancers
    WHERE country <> ''
    GROUP BY country
    ORDER BY COUNT(*) DESC, country
  `)
}

func (s *Store) Genders(ctx context.Context) ([]Count, error) {
	return s.counts(ctx, `
    SELECT gender, COUNT(*) FROM freelancers
    WHERE gender IS NOT NULL AND gender <> ''
    GROUP BY gender
    ORDER BY COUNT(*) DESC, gender
  `)
}

func (s *Store) AnnotationTypes(ctx context.Context) ([]Count, error) {
	return s.counts(ctx, `
    SELECT t.value, COUNT(*)
    FROM freelancers f, jsonb_array_elements_text(f.annotation_types) AS t(value)
    GROUP BY t.value
    ORDER BY COUNT(*) DESC, t.value
  `)
}

func (s *Store) AnnotationMethods(ctx context.Context) ([]Count, error) {
	return s.counts(ctx, `
    SELECT m.value, COUNT(*)
    FROM freelancers f, jsonb_array_elements_text(f.annotation_methods) AS m(value)
    GROUP BY m.value
    ORDER BY COUNT(*) DESC, m.value
  `)
}

func (s *Store) RecentRecords(ctx context.Context, limit int) ([]RecentRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT pr.id, pr.record_date, pr.record_type, pr.overall_score, pr.qual_total, pr.com_total,
           f.freelancer_code, f.first_name, f.last_name, p.project_code, p.name
    FROM performance_records pr
    JOIN freelancers f ON f.id = pr.freelancer_id
    LEFT JOIN projects p ON p.id = pr.project_id
    ORDER BY pr.record_date DESC, pr.created_at DESC
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RecentRecord{}
	for rows.Next() {
		var rec RecentRecord
		if err := rows.Scan(&rec.ID, &rec.RecordDate, &rec.RecordType, &rec.OverallScore, &rec.QualTotal, &rec.ComTotal,
			&rec.FreelancerCode, &rec.FirstName, &rec.LastName, &rec.ProjectCode, &rec.ProjectName); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) Averages(ctx context.Context) (Averages, error) {
	var out Averages
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(AVG(overall_score), 0), COALESCE(AVG(qual_total), 0), COALESCE(AVG(com_total), 0)
    FROM performance_records
  `).Scan(&out.Overall, &out.Quality, &out.Communication)
	return out, err
}

package tiering

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const subjectColumns = `
    id, freelancer_code, user_id, first_name, last_name, status, current_tier, current_grade
  FROM freelancers`

func scanSubject(row pgx.Row) (Subject, error) {
	var s Subject
	err := row.Scan(&s.ID, &s.FreelancerCode, &s.UserID, &s.FirstName, &s.LastName, &s.Status, &s.CurrentTier, &s.CurrentGrade)
	return s, err
}

func (s *Store) Subject(ctx context.Context, idOrCode string) (Subject, error) {
	return scanSubject(s.DB.QueryRow(ctx, "SELECT "+subjectColumns+" WHERE id::text = $1 OR freelancer_code = $1", idOrCode))
}

func (s *Store) ActiveSubjects(ctx context.Context) ([]Subject, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+subjectColumns+" WHERE status = 'ACTIVE' ORDER BY freelancer_code")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Subject{}
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, subject)
	}
	return out, rows.Err()
}

func (s *Store) OverallScores(ctx context.Context, freelancerID string, since *time.Time, projectID string) (int, []float64, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT overall_score
    FROM performance_records
    WHERE freelancer_id = $1
      AND ($2::date IS NULL OR record_date >= $2::date)
      AND ($3 = '' OR project_id::text = $3)
    ORDER BY record_date DESC
  `, freelancerID, since, projectID)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	var total int
	scores := []float64{}
	for rows.Next() {
		var score *float64
		if err := rows.Scan(&score); err != nil {
			return 0, nil, err
		}
		total++
		if score != nil {
			scores = append(scores, *score)
		}
	}
	return total, scores, rows.Err()
}

func (s *Store) UpdateTierGrade(ctx context.Context, freelancerID, tier, grade string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE freelancers
    SET current_tier = $2, current_grade = $3, updated_at = now()
    WHERE id = $1
  `, freelancerID, tier, grade)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) Distribution(ctx context.Context) ([]TierGradeCount, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT current_tier, current_grade, COUNT(*)
    FROM freelancers
    WHERE status = 'ACTIVE'
    GROUP BY current_tier, current_grade
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TierGradeCount{}
	for rows.Next() {
		var c TierGradeCount
		if err := rows.Scan(&c.Tier, &c.Grade, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

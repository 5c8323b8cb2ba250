package performance

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const recordColumns = `
    pr.id, pr.freelancer_id, pr.project_id, pr.record_type, pr.record_date, pr.month, pr.year,
    pr.hours_worked, pr.assets_completed, pr.tasks_completed, pr.avg_time_per_task,
    pr.com_responsibility, pr.com_commitment, pr.com_initiative, pr.com_willingness, pr.com_communication,
    pr.qual_speed, pr.qual_delib_omission, pr.qual_accuracy, pr.qual_attention, pr.qual_unannotated,
    pr.qual_understanding, pr.qual_rejected_count,
    pr.com_total, pr.qual_total, pr.overall_score,
    pr.notes, pr.recorded_by, pr.created_at, pr.updated_at,
    f.id, f.freelancer_code, f.first_name, f.last_name, f.email, f.current_tier, f.current_grade, COALESCE(f.user_id::text, ''),
    p.id, p.project_code, p.name
  FROM performance_records pr
  JOIN freelancers f ON f.id = pr.freelancer_id
  LEFT JOIN projects p ON p.id = pr.project_id`

var sortColumns = map[string]string{
	"recordDate":   "pr.record_date",
	"overallScore": "pr.overall_score",
	"createdAt":    "pr.created_at",
}

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	var fl FreelancerRef
	var projectID, projectCode, projectName *string
	if err := row.Scan(
		&r.ID, &r.FreelancerID, &r.ProjectID, &r.RecordType, &r.RecordDate, &r.Month, &r.Year,
		&r.HoursWorked, &r.AssetsCompleted, &r.TasksCompleted, &r.AvgTimePerTask,
		&r.ComResponsibility, &r.ComCommitment, &r.ComInitiative, &r.ComWillingness, &r.ComCommunication,
		&r.QualSpeed, &r.QualDelibOmission, &r.QualAccuracy, &r.QualAttention, &r.QualUnannotated,
		&r.QualUnderstanding, &r.QualRejectedCount,
		&r.ComTotal, &r.QualTotal, &r.OverallScore,
		&r.Notes, &r.RecordedBy, &r.CreatedAt, &r.UpdatedAt,
		&fl.ID, &fl.FreelancerCode, &fl.FirstName, &fl.LastName, &fl.Email, &fl.CurrentTier, &fl.CurrentGrade, &fl.UserID,
		&projectID, &projectCode, &projectName,
	); err != nil {
		return Record{}, err
	}
	r.Freelancer = &fl
	if projectID != nil {
		r.Project = &ProjectRef{ID: *projectID, ProjectCode: deref(projectCode), Name: deref(projectName)}
	}
	return r, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *Store) FreelancerRef(ctx context.Context, freelancerID string) (FreelancerRef, error) {
	var fl FreelancerRef
	if err := s.DB.QueryRow(ctx, `
    SELECT id, freelancer_code, first_name, last_name, email, current_tier, current_grade, COALESCE(user_id::text, '')
    FROM freelancers
    WHERE id = $1
  `, freelancerID).Scan(&fl.ID, &fl.FreelancerCode, &fl.FirstName, &fl.LastName, &fl.Email, &fl.CurrentTier, &fl.CurrentGrade, &fl.UserID); err != nil {
		return FreelancerRef{}, err
	}
	return fl, nil
}

func (s *Store) ProjectExists(ctx context.Context, projectID string) (bool, error) {
	var exists bool
	if err := s.DB.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)", projectID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) CreateRecord(ctx context.Context, r Record) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO performance_records (
      freelancer_id, project_id, record_type, record_date, month, year,
      hours_worked, assets_completed, tasks_completed, avg_time_per_task,
      com_responsibility, com_commitment, com_initiative, com_willingness, com_communication,
      qual_speed, qual_delib_omission, qual_accuracy, qual_attention, qual_unannotated,
      qual_understanding, qual_rejected_count,
      com_total, qual_total, overall_score, notes, recorded_by
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)
    RETURNING id
  `,
		r.FreelancerID, r.ProjectID, r.RecordType, r.RecordDate, r.Month, r.Year,
		r.HoursWorked, r.AssetsCompleted, r.TasksCompleted, r.AvgTimePerTask,
		r.ComResponsibility, r.ComCommitment, r.ComInitiative, r.ComWillingness, r.ComCommunication,
		r.QualSpeed, r.QualDelibOmission, r.QualAccuracy, r.QualAttention, r.QualUnannotated,
		r.QualUnderstanding, r.QualRejectedCount,
		r.ComTotal, r.QualTotal, r.OverallScore, r.Notes, r.RecordedBy,
	).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetRecord(ctx context.Context, id string) (Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, "SELECT "+recordColumns+" WHERE pr.id = $1", id))
}

func (s *Store) UpdateRecord(ctx context.Context, r Record) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE performance_records
    SET hours_worked = $2, assets_completed = $3, tasks_completed = $4, avg_time_per_task = $5,
        com_responsibility = $6, com_commitment = $7, com_initiative = $8, com_willingness = $9, com_communication = $10,
        qual_speed = $11, qual_delib_omission = $12, qual_accuracy = $13, qual_attention = $14, qual_unannotated = $15,
        qual_understanding = $16, qual_rejected_count = $17,
        com_total = $18, qual_total = $19, overall_score = $20, notes = $21, updated_at = now()
    WHERE id = $1
  `,
		r.ID, r.HoursWorked, r.AssetsCompleted, r.TasksCompleted, r.AvgTimePerTask,
		r.ComResponsibility, r.ComCommitment, r.ComInitiative, r.ComWillingness, r.ComCommunication,
		r.QualSpeed, r.QualDelibOmission, r.QualAccuracy, r.QualAttention, r.QualUnannotated,
		r.QualUnderstanding, r.QualRejectedCount,
		r.ComTotal, r.QualTotal, r.OverallScore, r.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) DeleteRecord(ctx context.Context, id string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM performance_records WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func listWhere(filter ListFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if filter.FreelancerID != "" {
		add("pr.freelancer_id = $%d", filter.FreelancerID)
	}
	if filter.ProjectID != "" {
		add("pr.project_id = $%d", filter.ProjectID)
	}
	if filter.RecordType != "" {
		add("pr.record_type = $%d", filter.RecordType)
	}
	if filter.Month > 0 {
		add("pr.month = $%d", filter.Month)
	}
	if filter.Year > 0 {
		add("pr.year = $%d", filter.Year)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func orderBy(filter ListFilter) string {
	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = sortColumns["recordDate"]
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s NULLS LAST, pr.created_at DESC", column, direction)
}

func (s *Store) ListRecords(ctx context.Context, filter ListFilter) ([]Record, int, error) {
	where, args := listWhere(filter)

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(*) FROM performance_records pr"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	query := "SELECT " + recordColumns + where + orderBy(filter) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := s.DB.Query(ctx, query, append(args, filter.Limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

func (s *Store) ListByFreelancer(ctx context.Context, freelancerID string, filter SummaryFilter) ([]Record, error) {
	where, args := listWhere(ListFilter{
		FreelancerID: freelancerID,
		ProjectID:    filter.ProjectID,
		Month:        filter.Month,
		Year:         filter.Year,
	})
	rows, err := s.DB.Query(ctx, "SELECT "+recordColumns+where+" ORDER BY pr.record_date DESC, pr.created_at DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"workforce/internal/platform/querier"
)

const projectColumns = `
    p.id, p.project_code, p.name, p.vertical, p.annotation_required, p.description,
    p.freelancers_required, p.start_date, p.end_date, p.speed_percentage, p.accuracy_percentage,
    p.assets_per_day, p.hours_per_day, p.evaluation_frequency, p.payment_model,
    p.hourly_rate_annotation::text, p.hourly_rate_review::text,
    p.per_asset_rate_annotation::text, p.per_asset_rate_review::text,
    p.per_object_rate_annotation::text, p.per_object_rate_review::text,
    p.expected_time_per_asset, p.status, p.open_for_applications, p.created_by,
    p.created_at, p.updated_at,
    (SELECT COUNT(*) FROM project_assignments a WHERE a.project_id = p.id AND a.status <> 'PENDING'),
    (SELECT COUNT(*) FROM project_assignments a WHERE a.project_id = p.id AND a.status = 'PENDING')
  FROM projects p`

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	var rates [6]*string
	err := row.Scan(
		&p.ID, &p.ProjectCode, &p.Name, &p.Vertical, &p.AnnotationRequired, &p.Description,
		&p.FreelancersRequired, &p.StartDate, &p.EndDate, &p.SpeedPercentage, &p.AccuracyPercentage,
		&p.AssetsPerDay, &p.HoursPerDay, &p.EvaluationFrequency, &p.PaymentModel,
		&rates[0], &rates[1], &rates[2], &rates[3], &rates[4], &rates[5],
		&p.ExpectedTimePerAsset, &p.Status, &p.OpenForApplications, &p.CreatedBy,
		&p.CreatedAt, &p.UpdatedAt, &p.AssignmentCount, &p.PendingApplications,
	)
	if err != nil {
		return Project{}, err
	}
	targets := []**decimal.Decimal{
		&p.HourlyRateAnnotation, &p.HourlyRateReview,
		&p.PerAssetRateAnnotation, &p.PerAssetRateReview,
		&p.PerObjectRateAnnotation, &p.PerObjectRateReview,
	}
	for i, raw := range rates {
		if *targets[i], err = parseRate(raw); err != nil {
			return Project{}, err
		}
	}
	return p, nil
}

// nextCode must run inside the inserting transaction.
func nextCode(ctx context.Context, q querier.Querier) (string, error) {
	if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext('project_code'))"); err != nil {
		return "", err
	}
	var next int
	if err := q.QueryRow(ctx, `
    SELECT COALESCE(MAX(CAST(SUBSTRING(project_code FROM 3) AS INT)), 0) + 1
    FROM projects
    WHERE project_code ~ '^AN[0-9]+$'
  `).Scan(&next); err != nil {
		return "", err
	}
	return FormatCode(next), nil
}

func FormatCode(n int) string {
	return fmt.Sprintf("%s%03d", codePrefix, n)
}

func (s *Store) CreateProject(ctx context.Context, p Project) (Project, error) {
	var id string
	err := querier.WithTx(ctx, s.DB, func(q querier.Querier) error {
		code, err := nextCode(ctx, q)
		if err != nil {
			return err
		}
		return q.QueryRow(ctx, `
      INSERT INTO projects (
        project_code, name, vertical, annotation_required, description, freelancers_required,
        start_date, end_date, speed_percentage, accuracy_percentage, assets_per_day, hours_per_day,
        evaluation_frequency, payment_model,
        hourly_rate_annotation, hourly_rate_review, per_asset_rate_annotation, per_asset_rate_review,
        per_object_rate_annotation, per_object_rate_review,
        expected_time_per_asset, status, open_for_applications, created_by
      )
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,
        $15::numeric,$16::numeric,$17::numeric,$18::numeric,$19::numeric,$20::numeric,
        $21,$22,$23,$24)
      RETURNING id
    `, code, p.Name, p.Vertical, p.AnnotationRequired, p.Description, p.FreelancersRequired,
			p.StartDate, p.EndDate, p.SpeedPercentage, p.AccuracyPercentage, p.AssetsPerDay, p.HoursPerDay,
			p.EvaluationFrequency, p.PaymentModel,
			rateArg(p.HourlyRateAnnotation), rateArg(p.HourlyRateReview),
			rateArg(p.PerAssetRateAnnotation), rateArg(p.PerAssetRateReview),
			rateArg(p.PerObjectRateAnnotation), rateArg(p.PerObjectRateReview),
			p.ExpectedTimePerAsset, p.Status, p.OpenForApplications, p.CreatedBy).Scan(&id)
	})
	if err != nil {
		return Project{}, err
	}
	return s.GetProject(ctx, id)
}

func (s *Store) GetProject(ctx context.Context, id string) (Project, error) {
	return scanProject(s.DB.QueryRow(ctx, "SELECT"+projectColumns+" WHERE p.id::text = $1 OR p.project_code = $1", id))
}

func listWhere(filter ListFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.Vertical != "" {
		args = append(args, filter.Vertical)
		clauses = append(clauses, fmt.Sprintf("p.vertical = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(p.name ILIKE $%d OR p.project_code ILIKE $%d OR p.description ILIKE $%d)", n, n, n))
	}
	return strings.Join(clauses, " AND "), args
}

func orderBy(filter ListFilter) string {
	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = sortColumns["createdAt"]
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}
	return " ORDER BY " + column + " " + direction
}

func (s *Store) ListProjects(ctx context.Context, filter ListFilter) ([]Project, int, error) {
	where, args := listWhere(filter)

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(*) FROM projects p WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT" + projectColumns + " WHERE " + where + orderBy(filter)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	items, err := s.queryProjects(ctx, query, args...)
	return items, total, err
}

func (s *Store) queryProjects(ctx context.Context, query string, args ...any) ([]Project, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (s *Store) UpdateProject(ctx context.Context, p Project) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE projects SET
      name = $2, vertical = $3, annotation_required = $4, description = $5, freelancers_required = $6,
      start_date = $7, end_date = $8, speed_percentage = $9, accuracy_percentage = $10,
      assets_per_day = $11, hours_per_day = $12, evaluation_frequency = $13, payment_model = $14,
      hourly_rate_annotation = $15::numeric, hourly_rate_review = $16::numeric,
      per_asset_rate_annotation = $17::numeric, per_asset_rate_review = $18::numeric,
      per_object_rate_annotation = $19::numeric, per_object_rate_review = $20::numeric,
      expected_time_per_asset = $21, status = $22, open_for_applications = $23, updated_at = now()
    WHERE id = $1
  `, p.ID, p.Name, p.Vertical, p.AnnotationRequired, p.Description, p.FreelancersRequired,
		p.StartDate, p.EndDate, p.SpeedPercentage, p.AccuracyPercentage,
		p.AssetsPerDay, p.HoursPerDay, p.EvaluationFrequency, p.PaymentModel,
		rateArg(p.HourlyRateAnnotation), rateArg(p.HourlyRateReview),
		rateArg(p.PerAssetRateAnnotation), rateArg(p.PerAssetRateReview),
		rateArg(p.PerObjectRateAnnotation), rateArg(p.PerObjectRateReview),
		p.ExpectedTimePerAsset, p.Status, p.OpenForApplications)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, id string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) Freelancer(ctx context.Context, idOrCode string) (FreelancerRef, error) {
	var f FreelancerRef
	err := s.DB.QueryRow(ctx, `
    SELECT id, freelancer_code, first_name, last_name, email, current_tier, current_grade, status, user_id
    FROM freelancers
    WHERE id::text = $1 OR freelancer_code = $1
  `, idOrCode).Scan(&f.ID, &f.FreelancerCode, &f.FirstName, &f.LastName, &f.Email, &f.CurrentTier, &f.CurrentGrade, &f.Status, &f.UserID)
	return f, err
}

const assignmentColumns = `
    a.id, a.project_id, a.freelancer_id, a.status, a.start_date, a.end_date,
    a.expected_assets_per_day, a.expected_hours_per_day, a.application_message,
    a.reviewed_by, a.reviewed_at, a.assigned_at,
    f.id, f.freelancer_code, f.first_name, f.last_name, f.email, f.current_tier, f.current_grade, f.status, f.user_id,
    p.id, p.project_code, p.name, p.description, p.status, p.payment_model, p.start_date, p.end_date
  FROM project_assignments a
  JOIN freelancers f ON f.id = a.freelancer_id
  JOIN projects p ON p.id = a.project_id`

func scanAssignment(row pgx.Row) (Assignment, error) {
	var a Assignment
	var f FreelancerRef
	var p ProjectRef
	err := row.Scan(
		&a.ID, &a.ProjectID, &a.FreelancerID, &a.Status, &a.StartDate, &a.EndDate,
		&a.ExpectedAssetsPerDay, &a.ExpectedHoursPerDay, &a.ApplicationMessage,
		&a.ReviewedBy, &a.ReviewedAt, &a.AssignedAt,
		&f.ID, &f.FreelancerCode, &f.FirstName, &f.LastName, &f.Email, &f.CurrentTier, &f.CurrentGrade, &f.Status, &f.UserID,
		&p.ID, &p.ProjectCode, &p.Name, &p.Description, &p.Status, &p.PaymentModel, &p.StartDate, &p.EndDate,
	)
	if err != nil {
		return Assignment{}, err
	}
	a.Freelancer, a.Project = &f, &p
	return a, nil
}

func (s *Store) queryAssignments(ctx context.Context, query string, args ...any) ([]Assignment, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (s *Store) ProjectAssignments(ctx context.Context, projectID string) ([]Assignment, error) {
	items, err := s.queryAssignments(ctx, "SELECT"+assignmentColumns+" WHERE a.project_id = $1 ORDER BY a.assigned_at", projectID)
	for i := range items {
		items[i].Project = nil
	}
	return items, err
}

func (s *Store) FreelancerAssignments(ctx context.Context, freelancerID string) ([]Assignment, error) {
	items, err := s.queryAssignments(ctx, "SELECT"+assignmentColumns+" WHERE a.freelancer_id = $1 ORDER BY a.assigned_at DESC", freelancerID)
	for i := range items {
		items[i].Freelancer = nil
	}
	return items, err
}

func (s *Store) GetAssignment(ctx context.Context, projectID, freelancerID string) (Assignment, error) {
	return scanAssignment(s.DB.QueryRow(ctx, "SELECT"+assignmentColumns+" WHERE a.project_id = $1 AND a.freelancer_id = $2", projectID, freelancerID))
}

func (s *Store) CreateAssignment(ctx context.Context, in NewAssignment) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO project_assignments (
      project_id, freelancer_id, status, start_date, end_date,
      expected_assets_per_day, expected_hours_per_day, application_message
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, in.ProjectID, in.FreelancerID, in.Status, in.StartDate, in.EndDate,
		in.ExpectedAssetsPerDay, in.ExpectedHoursPerDay, in.ApplicationMessage).Scan(&id)
	return id, err
}

func (s *Store) DeleteAssignment(ctx context.Context, projectID, freelancerID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM project_assignments WHERE project_id = $1 AND freelancer_id = $2", projectID, freelancerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ReviewAssignment(ctx context.Context, projectID, freelancerID, status, reviewerID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE project_assignments
    SET status = $3, reviewed_by = $4, reviewed_at = now()
    WHERE project_id = $1 AND freelancer_id = $2 AND status = 'PENDING'
  `, projectID, freelancerID, status, nullIfEmpty(reviewerID))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// OpenProjects lists ACTIVE projects open for applications that the
// freelancer has no assignment or application on.
func (s *Store) OpenProjects(ctx context.Context, freelancerID string) ([]Project, error) {
	return s.queryProjects(ctx, "SELECT"+projectColumns+`
    WHERE p.status = 'ACTIVE' AND p.open_for_applications
      AND NOT EXISTS (SELECT 1 FROM project_assignments x WHERE x.project_id = p.id AND x.freelancer_id = $1)
    ORDER BY p.created_at DESC`, freelancerID)
}

func parseRate(value *string) (*decimal.Decimal, error) {
	if value == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func rateArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

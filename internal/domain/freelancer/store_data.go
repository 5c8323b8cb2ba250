package freelancer

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"workforce/internal/platform/querier"
)

const freelancerColumns = `
    id, freelancer_code, user_id, application_id, first_name, last_name, email, phone, city, country,
    timezone, gender, age, status, onboarding_status, current_tier, current_grade,
    availability_type, hours_per_week, preferred_start_time, preferred_end_time,
    domain_expertise, annotation_types, annotation_methods, tools_proficiency, language_proficiency,
    created_at, updated_at
  FROM freelancers`

func scanFreelancer(row pgx.Row) (Freelancer, error) {
	var f Freelancer
	err := row.Scan(
		&f.ID, &f.FreelancerCode, &f.UserID, &f.ApplicationID, &f.FirstName, &f.LastName, &f.Email, &f.Phone, &f.City, &f.Country,
		&f.Timezone, &f.Gender, &f.Age, &f.Status, &f.OnboardingStatus, &f.CurrentTier, &f.CurrentGrade,
		&f.AvailabilityType, &f.HoursPerWeek, &f.PreferredStartTime, &f.PreferredEndTime,
		&f.DomainExpertise, &f.AnnotationTypes, &f.AnnotationMethods, &f.ToolsProficiency, &f.LanguageProficiency,
		&f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}

func listWhere(filter ListFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, strings.ReplaceAll(clause, "$?", fmt.Sprintf("$%d", len(args))))
	}
	if filter.Status != "" {
		add("status = $?", filter.Status)
	}
	if filter.Tier != "" {
		add("current_tier = $?", filter.Tier)
	}
	if filter.Grade != "" {
		add("current_grade = $?", filter.Grade)
	}
	if filter.Country != "" {
		add("country ILIKE $?", filter.Country)
	}
	if filter.City != "" {
		add("city ILIKE $?", filter.City)
	}
	if filter.OnboardingStatus != "" {
		add("onboarding_status = $?", filter.OnboardingStatus)
	}
	if filter.AvailabilityType != "" {
		add("availability_type = $?", filter.AvailabilityType)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		add("(first_name ILIKE $? OR last_name ILIKE $? OR email ILIKE $? OR freelancer_code ILIKE $?)", "%"+search+"%")
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Store) List(ctx context.Context, filter ListFilter) ([]Freelancer, int, error) {
	where, args := listWhere(filter)

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(*) FROM freelancers"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + freelancerColumns + where + " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	}
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Freelancer{}
	for rows.Next() {
		f, err := scanFreelancer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, f)
	}
	return out, total, rows.Err()
}

// Get accepts either the row id or the FL- code.
func (s *Store) Get(ctx context.Context, idOrCode string) (Freelancer, error) {
	return scanFreelancer(s.DB.QueryRow(ctx, "SELECT "+freelancerColumns+" WHERE id::text = $1 OR freelancer_code = $1", idOrCode))
}

func (s *Store) GetByUserID(ctx context.Context, userID string) (Freelancer, error) {
	return scanFreelancer(s.DB.QueryRow(ctx, "SELECT "+freelancerColumns+" WHERE user_id = $1", userID))
}

func (s *Store) Assignments(ctx context.Context, freelancerID string) ([]Assignment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT pa.id, p.id, p.project_code, p.name, pa.status, pa.start_date, pa.end_date, pa.assigned_at
    FROM project_assignments pa
    JOIN projects p ON p.id = pa.project_id
    WHERE pa.freelancer_id = $1
    ORDER BY pa.assigned_at DESC
  `, freelancerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Assignment{}
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.ProjectCode, &a.ProjectName, &a.Status, &a.StartDate, &a.EndDate, &a.AssignedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func listArg(l *StringList) any {
	if l == nil {
		return nil
	}
	return l.JSON()
}

func (s *Store) Update(ctx context.Context, id string, in UpdateInput) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE freelancers
    SET first_name = COALESCE($2, first_name),
        last_name = COALESCE($3, last_name),
        phone = COALESCE($4, phone),
        city = COALESCE($5, city),
        country = COALESCE($6, country),
        timezone = COALESCE($7, timezone),
        status = COALESCE($8, status),
        onboarding_status = COALESCE($9, onboarding_status),
        availability_type = COALESCE($10, availability_type),
        hours_per_week = COALESCE($11, hours_per_week),
        preferred_start_time = COALESCE($12, preferred_start_time),
        preferred_end_time = COALESCE($13, preferred_end_time),
        domain_expertise = COALESCE($14::jsonb, domain_expertise),
        annotation_types = COALESCE($15::jsonb, annotation_types),
        annotation_methods = COALESCE($16::jsonb, annotation_methods),
        tools_proficiency = COALESCE($17::jsonb, tools_proficiency),
        updated_at = now()
    WHERE id = $1
  `, id, in.FirstName, in.LastName, in.Phone, in.City, in.Country, in.Timezone, in.Status, in.OnboardingStatus,
		in.AvailabilityType, in.HoursPerWeek, in.PreferredStartTime, in.PreferredEndTime,
		listArg(in.DomainExpertise), listArg(in.AnnotationTypes), listArg(in.AnnotationMethods), listArg(in.ToolsProficiency))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) StatusCounts(ctx context.Context) (Stats, error) {
	stats := Stats{
		ByStatus:   map[string]int{},
		ByTier:     map[string]int{},
		ByGrade:    map[string]int{},
		Onboarding: map[string]int{},
	}
	rows, err := s.DB.Query(ctx, `
    SELECT status, current_tier, current_grade, onboarding_status, COUNT(*)
    FROM freelancers
    GROUP BY status, current_tier, current_grade, onboarding_status
  `)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var status, tier, grade, onboarding string
		var count int
		if err := rows.Scan(&status, &tier, &grade, &onboarding, &count); err != nil {
			return Stats{}, err
		}
		stats.Total += count
		stats.ByStatus[status] += count
		stats.ByTier[tier] += count
		stats.ByGrade[grade] += count
		stats.Onboarding[onboarding] += count
	}
	return stats, rows.Err()
}

// NextCode must run inside the transaction that inserts the freelancer. The
// advisory lock serializes concurrent approvals; the unique constraint on
// freelancer_code still backs it.
func NextCode(ctx context.Context, q querier.Querier) (string, error) {
	if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext('freelancer_code'))"); err != nil {
		return "", err
	}
	var next int
	if err := q.QueryRow(ctx, `
    SELECT COALESCE(MAX(CAST(SUBSTRING(freelancer_code FROM 4) AS INT)), 0) + 1
    FROM freelancers
    WHERE freelancer_code ~ '^FL-[0-9]+$'
  `).Scan(&next); err != nil {
		return "", err
	}
	return FormatCode(next), nil
}

func FormatCode(n int) string {
	return fmt.Sprintf("%s%04d", codePrefix, n)
}

// Create inserts a freelancer profile with the default BRONZE/C
// classification and returns the row id.
func Create(ctx context.Context, q querier.Querier, code string, in NewFreelancer) (string, error) {
	language := in.LanguageProficiency
	if len(language) == 0 {
		language = []byte("[]")
	}
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO freelancers (
      freelancer_code, user_id, application_id, first_name, last_name, email, phone, city, country,
      timezone, gender, age, status, onboarding_status, current_tier, current_grade,
      availability_type, hours_per_week, preferred_start_time, preferred_end_time,
      domain_expertise, annotation_types, annotation_methods, tools_proficiency, language_proficiency
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,'[]'::jsonb,$21::jsonb,$22::jsonb,$23::jsonb,$24::jsonb)
    RETURNING id
  `, code, in.UserID, nullIfEmpty(in.ApplicationID), in.FirstName, in.LastName, in.Email, in.Phone, in.City, in.Country,
		in.Timezone, in.Gender, in.Age, StatusActive, OnboardingPending, TierBronze, GradeC,
		in.AvailabilityType, in.HoursPerWeek, in.PreferredStartTime, in.PreferredEndTime,
		in.AnnotationTypes.JSON(), in.AnnotationMethods.JSON(), in.ToolsProficiency.JSON(), string(language)).Scan(&id)
	return id, err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

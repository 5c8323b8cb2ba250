package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"workforce/internal/domain/auth"
	"workforce/internal/domain/freelancer"
	"workforce/internal/platform/querier"
)

const applicationColumns = `
    id, email, first_name, last_name, phone, city, country, age, gender, timezone,
    availability_type, hours_per_week, preferred_start_time, preferred_end_time,
    annotation_types, annotation_methods, annotation_tools, language_proficiency, form_data,
    status, reviewed_by, reviewed_at, rejection_reason, submitted_at, updated_at
  FROM freelancer_applications`

func scanApplication(row pgx.Row) (Application, error) {
	var a Application
	err := row.Scan(
		&a.ID, &a.Email, &a.FirstName, &a.LastName, &a.Phone, &a.City, &a.Country, &a.Age, &a.Gender, &a.Timezone,
		&a.AvailabilityType, &a.HoursPerWeek, &a.PreferredStartTime, &a.PreferredEndTime,
		&a.AnnotationTypes, &a.AnnotationMethods, &a.AnnotationTools, &a.LanguageProficiency, &a.FormData,
		&a.Status, &a.ReviewedBy, &a.ReviewedAt, &a.RejectionReason, &a.SubmittedAt, &a.UpdatedAt,
	)
	return a, err
}

func (s *Store) EmailInUse(ctx context.Context, email string) (bool, bool, error) {
	var applied, registered bool
	err := s.DB.QueryRow(ctx, `
    SELECT
      EXISTS (SELECT 1 FROM freelancer_applications WHERE email = $1),
      EXISTS (SELECT 1 FROM users WHERE email = $1)
  `, email).Scan(&applied, &registered)
	return applied, registered, err
}

func jsonOrDefault(raw []byte, fallback string) string {
	if len(raw) == 0 || string(raw) == "null" {
		return fallback
	}
	return string(raw)
}

func (s *Store) CreateApplication(ctx context.Context, in SubmitInput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO freelancer_applications (
      email, first_name, last_name, phone, city, country, age, gender, timezone,
      availability_type, hours_per_week, preferred_start_time, preferred_end_time,
      annotation_types, annotation_methods, annotation_tools, language_proficiency, form_data
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14::jsonb,$15::jsonb,$16::jsonb,$17::jsonb,$18::jsonb)
    RETURNING id
  `, in.Email, in.FirstName, in.LastName, in.Phone, in.City, in.Country, in.Age, in.Gender, in.Timezone,
		in.AvailabilityType, in.HoursPerWeek, in.PreferredStartTime, in.PreferredEndTime,
		in.AnnotationTypes.JSON(), in.AnnotationMethods.JSON(), in.AnnotationTools.JSON(),
		jsonOrDefault(in.LanguageProficiency, "[]"), jsonOrDefault(in.FormData, "{}")).Scan(&id)
	return id, err
}

func (s *Store) GetApplication(ctx context.Context, id string) (Application, error) {
	return scanApplication(s.DB.QueryRow(ctx, "SELECT"+applicationColumns+" WHERE id = $1", id))
}

func listWhere(filter ListFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)", n, n, n))
	}
	return strings.Join(clauses, " AND "), args
}

func (s *Store) ListApplications(ctx context.Context, filter ListFilter) ([]Application, int, error) {
	where, args := listWhere(filter)

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(*) FROM freelancer_applications WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT" + applicationColumns + " WHERE " + where + " ORDER BY submitted_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (s *Store) Approve(ctx context.Context, app Application, reviewerID, passwordHash string) (Provisioned, error) {
	out := Provisioned{ApplicationID: app.ID, Email: app.Email}
	err := querier.WithTx(ctx, s.DB, func(q querier.Querier) error {
		tag, err := q.Exec(ctx, `
      UPDATE freelancer_applications
      SET status = 'APPROVED', reviewed_by = $2, reviewed_at = now(), updated_at = now()
      WHERE id = $1 AND status = 'PENDING'
    `, app.ID, nullIfEmpty(reviewerID))
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrAlreadyReviewed
		}

		userID, err := auth.CreateUser(ctx, q, auth.NewUser{
			Email:        app.Email,
			PasswordHash: passwordHash,
			RoleName:     auth.RoleFreelancer,
			FirstName:    app.FirstName,
			LastName:     app.LastName,
		})
		if err != nil {
			return err
		}

		code, err := freelancer.NextCode(ctx, q)
		if err != nil {
			return err
		}
		rowID, err := freelancer.Create(ctx, q, code, freelancer.NewFreelancer{
			UserID:              userID,
			ApplicationID:       app.ID,
			FirstName:           app.FirstName,
			LastName:            app.LastName,
			Email:               app.Email,
			Phone:               app.Phone,
			City:                app.City,
			Country:             app.Country,
			Timezone:            app.Timezone,
			Gender:              app.Gender,
			Age:                 app.Age,
			AvailabilityType:    app.AvailabilityType,
			HoursPerWeek:        app.HoursPerWeek,
			PreferredStartTime:  app.PreferredStartTime,
			PreferredEndTime:    app.PreferredEndTime,
			AnnotationTypes:     app.AnnotationTypes,
			AnnotationMethods:   app.AnnotationMethods,
			ToolsProficiency:    app.AnnotationTools,
			LanguageProficiency: app.LanguageProficiency,
		})
		if err != nil {
			return err
		}
		out.UserID, out.FreelancerID, out.FreelancerRowID = userID, code, rowID
		return nil
	})
	return out, err
}

func (s *Store) Reject(ctx context.Context, id, reviewerID, reason string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE freelancer_applications
    SET status = 'REJECTED', reviewed_by = $2, reviewed_at = now(), rejection_reason = $3, updated_at = now()
    WHERE id = $1 AND status = 'PENDING'
  `, id, nullIfEmpty(reviewerID), reason)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

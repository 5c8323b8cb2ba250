package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"workforce/internal/platform/querier"
)

func (s *Store) Freelancer(ctx context.Context, idOrCode string) (FreelancerRef, error) {
	var f FreelancerRef
	err := s.DB.QueryRow(ctx, `
    SELECT id, freelancer_code, first_name, last_name, email, user_id
    FROM freelancers
    WHERE id::text = $1 OR freelancer_code = $1
  `, idOrCode).Scan(&f.ID, &f.FreelancerCode, &f.FirstName, &f.LastName, &f.Email, &f.UserID)
	return f, err
}

func (s *Store) AssignmentsOverlapping(ctx context.Context, freelancerID string, start, end time.Time) ([]AssignmentWindow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT p.id, p.project_code, p.name, pa.status, pa.start_date, pa.end_date
    FROM project_assignments pa
    JOIN projects p ON p.id = pa.project_id
    WHERE pa.freelancer_id = $1
      AND pa.start_date <= $3
      AND (pa.end_date IS NULL OR pa.end_date >= $2)
    ORDER BY pa.start_date
  `, freelancerID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AssignmentWindow{}
	for rows.Next() {
		var a AssignmentWindow
		if err := rows.Scan(&a.ProjectID, &a.ProjectCode, &a.ProjectName, &a.Status, &a.StartDate, &a.EndDate); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// WorkEntries returns records in [start, end] that belong to a project.
func (s *Store) WorkEntries(ctx context.Context, freelancerID string, start, end time.Time) ([]WorkEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT p.id, p.project_code, p.name, p.payment_model,
           p.hourly_rate_annotation::text, p.per_asset_rate_annotation::text, p.per_object_rate_annotation::text,
           pr.record_date, pr.hours_worked, pr.assets_completed, pr.tasks_completed
    FROM performance_records pr
    JOIN projects p ON p.id = pr.project_id
    WHERE pr.freelancer_id = $1
      AND pr.record_date BETWEEN $2 AND $3
    ORDER BY pr.record_date, pr.created_at
  `, freelancerID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []WorkEntry{}
	for rows.Next() {
		var e WorkEntry
		var hourly, perAsset, perObject *string
		if err := rows.Scan(
			&e.ProjectID, &e.ProjectCode, &e.ProjectName, &e.PaymentModel,
			&hourly, &perAsset, &perObject,
			&e.RecordDate, &e.HoursWorked, &e.AssetsCompleted, &e.TasksCompleted,
		); err != nil {
			return nil, err
		}
		if e.HourlyRateAnnotation, err = parseRate(hourly); err != nil {
			return nil, err
		}
		if e.PerAssetRateAnnotation, err = parseRate(perAsset); err != nil {
			return nil, err
		}
		if e.PerObjectRateAnnotation, err = parseRate(perObject); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) PeriodExists(ctx context.Context, freelancerID string, year, month int) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM payment_records WHERE freelancer_id = $1 AND year = $2 AND month = $3)
  `, freelancerID, year, month).Scan(&exists)
	return exists, err
}

// CreatePayment writes the record and its line items in one transaction.
func (s *Store) CreatePayment(ctx context.Context, p NewPayment) (string, error) {
	var id string
	err := querier.WithTx(ctx, s.DB, func(q querier.Querier) error {
		if err := q.QueryRow(ctx, `
      INSERT INTO payment_records (
        freelancer_id, month, year, period_start, period_end,
        hours_worked, assets_completed, objects_annotated, total_amount, currency, notes, created_by
      )
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::numeric,$10,$11,$12)
      RETURNING id
    `, p.FreelancerID, p.Month, p.Year, p.PeriodStart, p.PeriodEnd,
			p.HoursWorked, p.AssetsCompleted, p.ObjectsAnnotated, p.TotalAmount.String(), p.Currency, p.Notes, nullIfEmpty(p.CreatedBy)).Scan(&id); err != nil {
			return err
		}
		for _, item := range p.LineItems {
			if _, err := q.Exec(ctx, `
        INSERT INTO payment_line_items (
          payment_id, project_id, description, work_date, hours_worked, assets_completed, objects_annotated, rate, rate_type, amount
        )
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8::numeric,$9,$10::numeric)
      `, id, item.ProjectID, item.Description, item.WorkDate, item.HoursWorked, item.AssetsCompleted, item.ObjectsAnnotated,
				item.Rate.String(), item.RateType, item.Amount.String()); err != nil {
				return err
			}
		}
		return nil
	})
	return id, err
}

const paymentColumns = `
    pr.id, pr.freelancer_id, f.freelancer_code, f.first_name, f.last_name, f.email, f.user_id,
    pr.month, pr.year, pr.period_start, pr.period_end,
    pr.hours_worked, pr.assets_completed, pr.objects_annotated, pr.total_amount::text, pr.currency, pr.status,
    pr.payment_method, pr.reference_number, pr.notes, pr.internal_notes,
    pr.created_by, pr.approved_by, pr.approved_at, pr.paid_at, pr.created_at, pr.updated_at
  FROM payment_records pr
  JOIN freelancers f ON f.id = pr.freelancer_id`

func scanPayment(row pgx.Row) (Payment, error) {
	var p Payment
	var total string
	err := row.Scan(
		&p.ID, &p.FreelancerID, &p.Freelancer.FreelancerCode, &p.Freelancer.FirstName, &p.Freelancer.LastName, &p.Freelancer.Email, &p.Freelancer.UserID,
		&p.Month, &p.Year, &p.PeriodStart, &p.PeriodEnd,
		&p.HoursWorked, &p.AssetsCompleted, &p.ObjectsAnnotated, &total, &p.Currency, &p.Status,
		&p.PaymentMethod, &p.ReferenceNumber, &p.Notes, &p.InternalNotes,
		&p.CreatedBy, &p.ApprovedBy, &p.ApprovedAt, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return Payment{}, err
	}
	p.Freelancer.ID = p.FreelancerID
	p.TotalAmount, err = parseAmount(total)
	p.LineItems = []LineItem{}
	return p, err
}

func (s *Store) GetPayment(ctx context.Context, id string) (Payment, error) {
	p, err := scanPayment(s.DB.QueryRow(ctx, "SELECT "+paymentColumns+" WHERE pr.id = $1", id))
	if err != nil {
		return Payment{}, err
	}
	items, err := s.lineItems(ctx, []string{p.ID})
	if err != nil {
		return Payment{}, err
	}
	p.LineItems = append(p.LineItems, items[p.ID]...)
	return p, nil
}

func (s *Store) lineItems(ctx context.Context, paymentIDs []string) (map[string][]LineItem, error) {
	out := map[string][]LineItem{}
	if len(paymentIDs) == 0 {
		return out, nil
	}
	rows, err := s.DB.Query(ctx, `
    SELECT li.payment_id, li.id, li.project_id, COALESCE(p.project_code, ''), COALESCE(p.name, ''),
           li.description, li.work_date, li.hours_worked, li.assets_completed, li.objects_annotated,
           li.rate::text, li.rate_type, li.amount::text
    FROM payment_line_items li
    LEFT JOIN projects p ON p.id = li.project_id
    WHERE li.payment_id = ANY($1::text[]::uuid[])
    ORDER BY li.work_date DESC
  `, paymentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var paymentID, rate, amount string
		var item LineItem
		if err := rows.Scan(&paymentID, &item.ID, &item.ProjectID, &item.ProjectCode, &item.ProjectName,
			&item.Description, &item.WorkDate, &item.HoursWorked, &item.AssetsCompleted, &item.ObjectsAnnotated,
			&rate, &item.RateType, &amount); err != nil {
			return nil, err
		}
		if item.Rate, err = parseAmount(rate); err != nil {
			return nil, err
		}
		if item.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		out[paymentID] = append(out[paymentID], item)
	}
	return out, rows.Err()
}

func listWhere(filter ListFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if filter.FreelancerID != "" {
		add("(pr.freelancer_id::text = $%[1]d OR f.freelancer_code = $%[1]d)", filter.FreelancerID)
	}
	if filter.Status != "" {
		add("pr.status = $%d", filter.Status)
	}
	if filter.Year > 0 {
		add("pr.year = $%d", filter.Year)
	}
	if filter.Month > 0 {
		add("pr.month = $%d", filter.Month)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func orderBy(filter ListFilter) string {
	if filter.SortBy == "" {
		return " ORDER BY pr.year DESC, pr.month DESC, pr.created_at DESC"
	}
	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = sortColumns["createdAt"]
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s NULLS LAST", column, direction)
}

// ListPayments pages when filter.Limit is positive and returns every match
// otherwise.
func (s *Store) ListPayments(ctx context.Context, filter ListFilter, withLineItems bool) ([]Payment, int, error) {
	where, args := listWhere(filter)

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(*) FROM payment_records pr JOIN freelancers f ON f.id = pr.freelancer_id"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + paymentColumns + where + orderBy(filter)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	}
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Payment{}
	ids := []string{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	if withLineItems {
		items, err := s.lineItems(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range out {
			out[i].LineItems = append(out[i].LineItems, items[out[i].ID]...)
		}
	}
	return out, total, nil
}

func (s *Store) UpdatePayment(ctx context.Context, id string, patch Patch) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payment_records
    SET status = COALESCE($2, status),
        payment_method = COALESCE($3, payment_method),
        reference_number = COALESCE($4, reference_number),
        notes = COALESCE($5, notes),
        internal_notes = COALESCE($6, internal_notes),
        approved_by = COALESCE($7, approved_by),
        approved_at = COALESCE($8, approved_at),
        paid_at = COALESCE($9, paid_at),
        updated_at = now()
    WHERE id = $1 AND status <> 'PAID'
  `, id, patch.Status, patch.PaymentMethod, patch.ReferenceNumber, patch.Notes, patch.InternalNotes,
		patch.ApprovedBy, patch.ApprovedAt, patch.PaidAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeletePayment never removes a PAID record.
func (s *Store) DeletePayment(ctx context.Context, id string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM payment_records WHERE id = $1 AND status <> 'PAID'", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) StatusTotals(ctx context.Context, year, month int) ([]StatusTotal, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0)::text
    FROM payment_records
    WHERE ($1 = 0 OR year = $1) AND ($2 = 0 OR month = $2)
    GROUP BY status
    ORDER BY status
  `, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []StatusTotal{}
	for rows.Next() {
		var st StatusTotal
		var amount string
		if err := rows.Scan(&st.Status, &st.Count, &amount); err != nil {
			return nil, err
		}
		if st.TotalAmount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func parseAmount(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(value)
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

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

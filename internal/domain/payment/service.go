package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/notifications"
	cryptoutil "workforce/internal/platform/crypto"
	"workforce/internal/platform/email"
)

// Notifier is satisfied by *notifications.Service.
type Notifier interface {
	Notify(ctx context.Context, in notifications.Input)
	Email(ctx context.Context, userID, subject, body string)
}

type Service struct {
	store    StoreAPI
	notifier Notifier
	// StatementDir, when set, receives a copy of every rendered statement.
	StatementDir string
	Sealer       *cryptoutil.Sealer
	Now          func() time.Time
}

func NewService(store StoreAPI, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier, Now: time.Now}
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func parsePeriod(startValue, endValue string) (time.Time, time.Time, error) {
	start, err := parseDate(startValue)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("Invalid period start", apperr.FieldIssue{Field: "periodStart", Reason: "must be YYYY-MM-DD"})
	}
	end, err := parseDate(endValue)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("Invalid period end", apperr.FieldIssue{Field: "periodEnd", Reason: "must be YYYY-MM-DD"})
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
	return start, end, nil
}

// Calculate prices the freelancer's work in the period without writing.
func (s *Service) Calculate(ctx context.Context, in CalculateInput) (Calculation, error) {
	if strings.TrimSpace(in.FreelancerID) == "" || in.PeriodStart == "" || in.PeriodEnd == "" {
		return Calculation{}, ErrMissingFields
	}
	start, end, err := parsePeriod(in.PeriodStart, in.PeriodEnd)
	if err != nil {
		return Calculation{}, err
	}
	f, err := s.store.Freelancer(ctx, in.FreelancerID)
	if err != nil {
		return Calculation{}, apperr.FromStore(err, ErrFreelancerNotFound)
	}

	assignments, err := s.store.AssignmentsOverlapping(ctx, f.ID, start, end)
	if err != nil {
		return Calculation{}, apperr.FromStore(err, nil)
	}
	entries, err := s.store.WorkEntries(ctx, f.ID, start, end)
	if err != nil {
		return Calculation{}, apperr.FromStore(err, nil)
	}
	items, total := Calculate(entries)

	return Calculation{
		FreelancerID: f.ID,
		PeriodStart:  start,
		PeriodEnd:    end,
		Assignments:  assignments,
		LineItems:    items,
		TotalAmount:  total,
		Month:        int(start.Month()),
		Year:         start.Year(),
	}, nil
}

func buildLineItems(inputs []LineItemInput) ([]LineItem, error) {
	items := make([]LineItem, 0, len(inputs))
	var issues []apperr.FieldIssue
	for i, in := range inputs {
		field := fmt.Sprintf("lineItems[%d]", i)
		workDate, err := parseDate(in.WorkDate)
		if err != nil {
			issues = append(issues, apperr.FieldIssue{Field: field + ".workDate", Reason: "must be YYYY-MM-DD"})
		}
		if strings.TrimSpace(in.Description) == "" {
			issues = append(issues, apperr.FieldIssue{Field: field + ".description", Reason: "is required"})
		}
		if !validModel(in.RateType) {
			issues = append(issues, apperr.FieldIssue{Field: field + ".rateType", Reason: "must be one of HOURLY, PER_ASSET, PER_OBJECT"})
		}
		if in.Amount.IsNegative() || in.Rate.IsNegative() {
			issues = append(issues, apperr.FieldIssue{Field: field + ".amount", Reason: "must not be negative"})
		}
		item := LineItem{
			Description:      strings.TrimSpace(in.Description),
			WorkDate:         workDate,
			HoursWorked:      in.HoursWorked,
			AssetsCompleted:  in.AssetsCompleted,
			ObjectsAnnotated: in.ObjectsAnnotated,
			Rate:             in.Rate,
			RateType:         in.RateType,
			Amount:           in.Amount,
		}
		if in.ProjectID != "" {
			projectID := in.ProjectID
			item.ProjectID = &projectID
		}
		items = append(items, item)
	}
	if len(issues) > 0 {
		return nil, apperr.Validation("Invalid line items", issues...)
	}
	return items, nil
}

// Create persists a payment record whose aggregates are derived from the
// supplied line items.
func (s *Service) Create(ctx context.Context, in CreateInput, createdBy string) (Payment, error) {
	if strings.TrimSpace(in.FreelancerID) == "" || in.Month == 0 || in.Year == 0 || in.PeriodStart == "" || in.PeriodEnd == "" {
		return Payment{}, ErrMissingFields
	}
	if in.Month < 1 || in.Month > 12 {
		return Payment{}, apperr.Validation("Invalid month", apperr.FieldIssue{Field: "month", Reason: "must be between 1 and 12"})
	}
	if in.Year < minYear || in.Year > maxYear {
		return Payment{}, apperr.Validation("Invalid year", apperr.FieldIssue{Field: "year", Reason: fmt.Sprintf("must be between %d and %d", minYear, maxYear)})
	}
	start, end, err := parsePeriod(in.PeriodStart, in.PeriodEnd)
	if err != nil {
		return Payment{}, err
	}
	items, err := buildLineItems(in.LineItems)
	if err != nil {
		return Payment{}, err
	}

	f, err := s.store.Freelancer(ctx, in.FreelancerID)
	if err != nil {
		return Payment{}, apperr.FromStore(err, ErrFreelancerNotFound)
	}
	exists, err := s.store.PeriodExists(ctx, f.ID, in.Year, in.Month)
	if err != nil {
		return Payment{}, apperr.FromStore(err, nil)
	}
	if exists {
		return Payment{}, ErrDuplicatePeriod
	}

	agg := sumLineItems(items)
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	id, err := s.store.CreatePayment(ctx, NewPayment{
		FreelancerID:     f.ID,
		Month:            in.Month,
		Year:             in.Year,
		PeriodStart:      start,
		PeriodEnd:        end,
		HoursWorked:      positiveFloat(agg.hours),
		AssetsCompleted:  positiveInt(agg.assets),
		ObjectsAnnotated: positiveInt(agg.objects),
		TotalAmount:      agg.amount,
		Currency:         currency,
		Notes:            in.Notes,
		CreatedBy:        createdBy,
		LineItems:        items,
	})
	if err != nil {
		if apperr.IsUniqueViolation(err) {
			return Payment{}, ErrDuplicatePeriod
		}
		return Payment{}, apperr.FromStore(err, nil)
	}
	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (Payment, error) {
	p, err := s.store.GetPayment(ctx, id)
	if err != nil {
		return Payment{}, apperr.FromStore(err, ErrPaymentNotFound)
	}
	return p, nil
}

func clampPage(filter ListFilter) ListFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	return filter
}

func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	filter = clampPage(filter)
	if filter.Status != "" && !validStatus(filter.Status) {
		return ListResult{}, ErrInvalidStatus
	}
	payments, total, err := s.store.ListPayments(ctx, filter, true)
	if err != nil {
		return ListResult{}, apperr.FromStore(err, nil)
	}
	return ListResult{
		Payments:   payments,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalCount: total,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

// Update applies status and bookkeeping changes. PAID records reject every
// edit. Approval stamps the approver; payment stamps paidAt once.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput, actorID string) (Payment, Payment, error) {
	before, err := s.Get(ctx, id)
	if err != nil {
		return Payment{}, Payment{}, err
	}
	if before.Status == StatusPaid {
		return Payment{}, Payment{}, ErrPaymentPaid
	}

	patch := Patch{
		Status:          in.Status,
		PaymentMethod:   in.PaymentMethod,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		InternalNotes:   in.InternalNotes,
	}
	now := s.Now().UTC()
	if in.Status != nil {
		if !validStatus(*in.Status) {
			return Payment{}, Payment{}, ErrInvalidStatus
		}
		switch *in.Status {
		case StatusApproved:
			if actorID != "" {
				patch.ApprovedBy = &actorID
			}
			patch.ApprovedAt = &now
		case StatusPaid:
			if before.PaidAt == nil {
				paidAt := now
				if in.PaidAt != nil && *in.PaidAt != "" {
					parsed, err := parseDate(*in.PaidAt)
					if err != nil {
						return Payment{}, Payment{}, apperr.Validation("Invalid paid date", apperr.FieldIssue{Field: "paidAt", Reason: "must be a date"})
					}
					paidAt = parsed
				}
				patch.PaidAt = &paidAt
			}
		}
	}

	if err := s.store.UpdatePayment(ctx, before.ID, patch); err != nil {
		return Payment{}, Payment{}, apperr.FromStore(err, ErrPaymentPaid)
	}
	after, err := s.Get(ctx, before.ID)
	if err != nil {
		return Payment{}, Payment{}, err
	}
	if after.Status != before.Status && (after.Status == StatusApproved || after.Status == StatusPaid) {
		s.notifyStatus(ctx, after)
	}
	return before, after, nil
}

func (s *Service) notifyStatus(ctx context.Context, p Payment) {
	if s.notifier == nil || p.Freelancer.UserID == "" {
		return
	}
	period := fmt.Sprintf("%s %d", time.Month(p.Month).String(), p.Year)
	title := "Payment Approved"
	if p.Status == StatusPaid {
		title = "Payment Processed"
	}
	s.notifier.Notify(ctx, notifications.Input{
		UserID:      p.Freelancer.UserID,
		Type:        notifications.TypePaymentUpdate,
		Title:       title,
		Message:     fmt.Sprintf("Your payment for %s is now %s (%s %s)", period, p.Status, p.TotalAmount.StringFixed(2), p.Currency),
		Link:        "/freelancer/payments",
		RelatedID:   p.ID,
		RelatedType: notifications.RelatedPayment,
	})
	msg := email.PaymentStatus(p.Freelancer.FirstName, p.Month, p.Year, p.Status, p.TotalAmount.StringFixed(2)+" "+p.Currency)
	s.notifier.Email(ctx, p.Freelancer.UserID, msg.Subject, msg.Body)
}

// Delete returns the removed record for auditing.
func (s *Service) Delete(ctx context.Context, id string) (Payment, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Payment{}, err
	}
	if existing.Status == StatusPaid {
		return Payment{}, ErrDeletePaid
	}
	ok, err := s.store.DeletePayment(ctx, existing.ID)
	if err != nil {
		return Payment{}, apperr.FromStore(err, ErrPaymentNotFound)
	}
	if !ok {
		return Payment{}, ErrDeletePaid
	}
	return existing, nil
}

func (s *Service) Stats(ctx context.Context, year, month int) (Stats, error) {
	totals, err := s.store.StatusTotals(ctx, year, month)
	if err != nil {
		return Stats{}, apperr.FromStore(err, nil)
	}
	return buildStats(totals), nil
}

func buildStats(totals []StatusTotal) Stats {
	stats := Stats{
		TotalAmount:     decimal.Zero,
		TotalPaid:       decimal.Zero,
		TotalPending:    decimal.Zero,
		StatusBreakdown: totals,
	}
	for _, t := range totals {
		stats.TotalPayments += t.Count
		stats.TotalAmount = stats.TotalAmount.Add(t.TotalAmount)
		switch t.Status {
		case StatusPaid:
			stats.TotalPaid = stats.TotalPaid.Add(t.TotalAmount)
		case StatusPending, StatusApproved:
			stats.TotalPending = stats.TotalPending.Add(t.TotalAmount)
		}
	}
	return stats
}

// ForFreelancer lists a freelancer's own payments with a paid/pending summary.
func (s *Service) ForFreelancer(ctx context.Context, freelancerID string, year int, status string) (FreelancerPayments, error) {
	if status != "" && !validStatus(status) {
		return FreelancerPayments{}, ErrInvalidStatus
	}
	payments, _, err := s.store.ListPayments(ctx, ListFilter{FreelancerID: freelancerID, Year: year, Status: status}, true)
	if err != nil {
		return FreelancerPayments{}, apperr.FromStore(err, nil)
	}
	summary := Summary{TotalPaid: decimal.Zero, TotalPending: decimal.Zero, TotalPayments: len(payments)}
	for i := range payments {
		payments[i].InternalNotes = nil
		switch payments[i].Status {
		case StatusPaid:
			summary.TotalPaid = summary.TotalPaid.Add(payments[i].TotalAmount)
		case StatusPending, StatusApproved:
			summary.TotalPending = summary.TotalPending.Add(payments[i].TotalAmount)
		}
	}
	return FreelancerPayments{Payments: payments, Summary: summary}, nil
}

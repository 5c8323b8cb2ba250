package payment

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"workforce/internal/domain/apperr"
)

var paymentsHeader = []string{
	"Payment ID", "Freelancer ID", "Freelancer Name", "Email", "Month", "Year",
	"Period Start", "Period End", "Status", "Total Amount", "Currency",
	"Hours Worked", "Assets Completed", "Objects Annotated", "Payment Method",
	"Reference Number", "Paid At", "Created At", "Notes",
}

var lineItemsHeader = []string{
	"Payment ID", "Freelancer ID", "Freelancer Name", "Email", "Payment Month",
	"Payment Year", "Payment Status", "Line Item ID", "Project ID", "Project Name",
	"Description", "Work Date", "Hours Worked", "Assets Completed",
	"Objects Annotated", "Rate", "Rate Type", "Amount",
}

func (s *Service) exportRows(ctx context.Context, filter ListFilter, withLineItems bool) ([]Payment, error) {
	filter.Page, filter.Limit = 1, 0
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	payments, _, err := s.store.ListPayments(ctx, filter, withLineItems)
	if err != nil {
		return nil, apperr.FromStore(err, nil)
	}
	return payments, nil
}

// ExportPayments writes one CSV row per payment matching filter.
func (s *Service) ExportPayments(ctx context.Context, filter ListFilter, w io.Writer) error {
	payments, err := s.exportRows(ctx, filter, false)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(paymentsHeader); err != nil {
		return err
	}
	for _, p := range payments {
		if err := cw.Write([]string{
			p.ID, p.Freelancer.FreelancerCode, fullName(p.Freelancer), p.Freelancer.Email,
			strconv.Itoa(p.Month), strconv.Itoa(p.Year),
			p.PeriodStart.Format(dateLayout), p.PeriodEnd.Format(dateLayout),
			p.Status, p.TotalAmount.StringFixed(2), p.Currency,
			formatFloat(p.HoursWorked), formatInt(p.AssetsCompleted), formatInt(p.ObjectsAnnotated),
			deref(p.PaymentMethod), deref(p.ReferenceNumber), formatTime(p.PaidAt),
			p.CreatedAt.Format(time.RFC3339), deref(p.Notes),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportLineItems writes one CSV row per line item, denormalized with its
// payment header.
func (s *Service) ExportLineItems(ctx context.Context, filter ListFilter, w io.Writer) error {
	payments, err := s.exportRows(ctx, filter, true)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(lineItemsHeader); err != nil {
		return err
	}
	for _, p := range payments {
		for _, item := range p.LineItems {
			if err := cw.Write([]string{
				p.ID, p.Freelancer.FreelancerCode, fullName(p.Freelancer), p.Freelancer.Email,
				strconv.Itoa(p.Month), strconv.Itoa(p.Year), p.Status,
				item.ID, item.ProjectCode, item.ProjectName, item.Description,
				item.WorkDate.Format(dateLayout), formatFloat(item.HoursWorked),
				formatInt(item.AssetsCompleted), formatInt(item.ObjectsAnnotated),
				item.Rate.String(), item.RateType, item.Amount.StringFixed(2),
			}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func fullName(f FreelancerRef) string {
	if f.LastName == "" {
		return f.FirstName
	}
	return f.FirstName + " " + f.LastName
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

package freelancer

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"workforce/internal/domain/apperr"
)

var exportHeader = []string{
	"Freelancer ID", "First Name", "Last Name", "Email", "Phone", "City", "Country",
	"Status", "Tier", "Grade", "Onboarding Status", "Availability", "Hours/Week", "Created At",
}

// Export writes every freelancer matching filter as CSV, ignoring paging.
func (s *Service) Export(ctx context.Context, filter ListFilter, w io.Writer) error {
	filter.Page, filter.Limit = 1, 0
	items, _, err := s.store.List(ctx, filter)
	if err != nil {
		return apperr.FromStore(err, nil)
	}
	return writeCSV(w, items)
}

func writeCSV(w io.Writer, items []Freelancer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, f := range items {
		hours := ""
		if f.HoursPerWeek != nil {
			hours = strconv.Itoa(*f.HoursPerWeek)
		}
		if err := cw.Write([]string{
			f.FreelancerCode, f.FirstName, f.LastName, f.Email, f.Phone, f.City, f.Country,
			f.Status, string(f.CurrentTier), string(f.CurrentGrade), f.OnboardingStatus,
			deref(f.AvailabilityType), hours, f.CreatedAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package performance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/notifications"
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
	Now      func() time.Time
}

func NewService(store StoreAPI, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier, Now: time.Now}
}

func (s *Service) Create(ctx context.Context, in CreateInput, recordedBy string) (Record, error) {
	if strings.TrimSpace(in.FreelancerID) == "" || strings.TrimSpace(in.RecordType) == "" {
		return Record{}, apperr.Validation("Missing required fields")
	}
	recordType, ok := ParseRecordType(in.RecordType)
	if !ok {
		return Record{}, apperr.Validation("Invalid record type", apperr.FieldIssue{Field: "recordType", Reason: "must be one of DAILY, WEEKLY, MONTHLY"})
	}

	recordDate := s.Now().UTC().Truncate(24 * time.Hour)
	if in.RecordDate != "" {
		parsed, err := parseRecordDate(in.RecordDate)
		if err != nil {
			return Record{}, apperr.Validation("Invalid record date", apperr.FieldIssue{Field: "recordDate", Reason: "must be YYYY-MM-DD"})
		}
		recordDate = parsed
	}

	issues := append(validateWork(in.Work), validateScores(in.Scores)...)
	if len(issues) > 0 {
		return Record{}, apperr.Validation("Invalid performance values", issues...)
	}

	freelancer, err := s.store.FreelancerRef(ctx, in.FreelancerID)
	if err != nil {
		return Record{}, apperr.FromStore(err, ErrFreelancerNotFound)
	}

	var projectID *string
	if in.ProjectID != "" {
		exists, err := s.store.ProjectExists(ctx, in.ProjectID)
		if err != nil {
			return Record{}, apperr.FromStore(err, ErrProjectNotFound)
		}
		if !exists {
			return Record{}, ErrProjectNotFound
		}
		projectID = &in.ProjectID
	}

	rec := Record{
		FreelancerID: freelancer.ID,
		ProjectID:    projectID,
		RecordType:   recordType,
		RecordDate:   recordDate,
		Month:        int(recordDate.Month()),
		Year:         recordDate.Year(),
		Work:         in.Work,
		Scores:       in.Scores,
		Totals:       ComputeTotals(in.Scores),
		Notes:        in.Notes,
	}
	if recordedBy != "" {
		rec.RecordedBy = &recordedBy
	}

	id, err := s.store.CreateRecord(ctx, rec)
	if err != nil {
		return Record{}, apperr.FromStore(err, nil)
	}
	created, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return Record{}, apperr.FromStore(err, ErrRecordNotFound)
	}

	s.notifyReview(ctx, freelancer, created)
	return created, nil
}

func (s *Service) notifyReview(ctx context.Context, freelancer FreelancerRef, rec Record) {
	if s.notifier == nil || freelancer.UserID == "" {
		return
	}
	score := "N/A"
	if rec.OverallScore != nil {
		score = fmt.Sprintf("%.2f", *rec.OverallScore)
	}
	s.notifier.Notify(ctx, notifications.Input{
		UserID:      freelancer.UserID,
		Type:        notifications.TypePerformanceUpdate,
		Title:       "New Performance Review",
		Message:     "A new performance review has been recorded. Overall score: " + score,
		Link:        "/freelancer/performance",
		RelatedID:   rec.ID,
		RelatedType: notifications.RelatedPerformance,
	})
	msg := email.PerformanceReview(freelancer.FirstName, rec.OverallScore, rec.RecordDate)
	s.notifier.Email(ctx, freelancer.UserID, msg.Subject, msg.Body)
}

func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	rec, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return Record{}, apperr.FromStore(err, ErrRecordNotFound)
	}
	return rec, nil
}

// Update merges the supplied fields over the stored record and persists the
// recomputed totals.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Record, error) {
	stored, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return Record{}, apperr.FromStore(err, ErrRecordNotFound)
	}
	merged := Merge(stored, in)

	issues := append(validateWork(merged.Work), validateScores(merged.Scores)...)
	if len(issues) > 0 {
		return Record{}, apperr.Validation("Invalid performance values", issues...)
	}

	if err := s.store.UpdateRecord(ctx, merged); err != nil {
		return Record{}, apperr.FromStore(err, ErrRecordNotFound)
	}
	updated, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return Record{}, apperr.FromStore(err, ErrRecordNotFound)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.store.DeleteRecord(ctx, id)
	if err != nil {
		return apperr.FromStore(err, ErrRecordNotFound)
	}
	if !ok {
		return ErrRecordNotFound
	}
	return nil
}

type ListResult struct {
	Records    []Record `json:"records"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalCount int      `json:"totalCount"`
	TotalPages int      `json:"totalPages"`
}

func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.RecordType != "" {
		if _, ok := ParseRecordType(filter.RecordType); !ok {
			return ListResult{}, apperr.Validation("Invalid record type", apperr.FieldIssue{Field: "recordType", Reason: "must be one of DAILY, WEEKLY, MONTHLY"})
		}
	}
	records, total, err := s.store.ListRecords(ctx, filter)
	if err != nil {
		return ListResult{}, apperr.FromStore(err, nil)
	}
	return ListResult{
		Records:    records,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalCount: total,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

func (s *Service) Summary(ctx context.Context, freelancerID string, filter SummaryFilter) (Summary, error) {
	freelancer, err := s.store.FreelancerRef(ctx, freelancerID)
	if err != nil {
		return Summary{}, apperr.FromStore(err, ErrFreelancerNotFound)
	}
	records, err := s.store.ListByFreelancer(ctx, freelancer.ID, filter)
	if err != nil {
		return Summary{}, apperr.FromStore(err, nil)
	}
	return buildSummary(freelancer.ID, records), nil
}

// PortalSummary is the freelancer-facing view of their own records.
type PortalSummary struct {
	Records []Record      `json:"records"`
	Summary PortalAverage `json:"summary"`
}

type PortalAverage struct {
	TotalRecords int      `json:"totalRecords"`
	AvgOverall   *float64 `json:"avgOverall"`
	AvgCOM       *float64 `json:"avgCOM"`
	AvgQUAL      *float64 `json:"avgQUAL"`
}

func (s *Service) ForFreelancer(ctx context.Context, freelancerID string, filter SummaryFilter) (PortalSummary, error) {
	records, err := s.store.ListByFreelancer(ctx, freelancerID, filter)
	if err != nil {
		return PortalSummary{}, apperr.FromStore(err, nil)
	}
	var com, qual, overallScores []*float64
	for _, r := range records {
		com = append(com, r.ComTotal)
		qual = append(qual, r.QualTotal)
		overallScores = append(overallScores, r.OverallScore)
	}
	return PortalSummary{
		Records: records,
		Summary: PortalAverage{
			TotalRecords: len(records),
			AvgOverall:   roundPtr(meanOfPresent(overallScores)),
			AvgCOM:       roundPtr(meanOfPresent(com)),
			AvgQUAL:      roundPtr(meanOfPresent(qual)),
		},
	}, nil
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round2(*v)
	return &r
}

func parseRecordDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC().Truncate(24 * time.Hour), nil
}

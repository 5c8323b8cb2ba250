package tiering

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/freelancer"
	"workforce/internal/domain/notifications"
	"workforce/internal/platform/cache"
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
	Cache    cache.Cache
	CacheTTL time.Duration
	Now      func() time.Time
}

func NewService(store StoreAPI, notifier Notifier, c cache.Cache, ttl time.Duration) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{store: store, notifier: notifier, Cache: c, CacheTTL: ttl, Now: time.Now}
}

func (s *Service) classify(ctx context.Context, subject Subject, period Period, projectID string) (Classification, error) {
	total, scores, err := s.store.OverallScores(ctx, subject.ID, period.Since(s.Now()), projectID)
	if err != nil {
		return Classification{}, apperr.FromStore(err, nil)
	}
	return Classify(total, scores)
}

// Calculate is read-only: it reports the recommendation without applying it.
func (s *Service) Calculate(ctx context.Context, freelancerID string, opts Options) (CalculationResult, error) {
	subject, err := s.store.Subject(ctx, freelancerID)
	if err != nil {
		return CalculationResult{}, apperr.FromStore(err, ErrFreelancerNotFound)
	}
	period := ParsePeriod(opts.Period)
	c, err := s.classify(ctx, subject, period, opts.ProjectID)
	if err != nil {
		return CalculationResult{}, err
	}

	changed := subject.CurrentTier != c.Tier || subject.CurrentGrade != c.Grade
	message := "No change in tier/grade"
	if changed {
		message = "Tier/Grade changed from " + subject.Label() + " to " + label(c.Tier, c.Grade)
	}
	return CalculationResult{
		FreelancerID: subject.ID,
		Calculation: Calculation{
			AvgScore:        round2(c.AvgScore),
			Consistency:     round2(c.Consistency),
			RecordsAnalyzed: c.RecordsAnalyzed,
			Period:          period,
		},
		Current:     TierGrade{Tier: subject.CurrentTier, Grade: subject.CurrentGrade},
		Recommended: TierGrade{Tier: c.Tier, Grade: c.Grade},
		Changed:     changed,
		Message:     message,
	}, nil
}

// Apply overwrites tier and grade unconditionally once both are valid.
func (s *Service) Apply(ctx context.Context, freelancerID string, in ApplyInput, actorID string) (ApplyResult, error) {
	if strings.TrimSpace(in.Tier) == "" || strings.TrimSpace(in.Grade) == "" {
		return ApplyResult{}, ErrTierGradeRequired
	}
	tier, okTier := freelancer.ParseTier(in.Tier)
	grade, okGrade := freelancer.ParseGrade(in.Grade)
	if !okTier || !okGrade {
		return ApplyResult{}, ErrInvalidTierGrade
	}

	subject, err := s.store.Subject(ctx, freelancerID)
	if err != nil {
		return ApplyResult{}, apperr.FromStore(err, ErrFreelancerNotFound)
	}
	from := subject.Label()
	if err := s.store.UpdateTierGrade(ctx, subject.ID, string(tier), string(grade)); err != nil {
		return ApplyResult{}, apperr.FromStore(err, ErrFreelancerNotFound)
	}
	s.invalidate(ctx)

	updated := subject
	updated.CurrentTier, updated.CurrentGrade = tier, grade
	if from != updated.Label() {
		s.notifyChange(ctx, updated, from)
	}

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = "Performance-based update"
	}
	return ApplyResult{
		Freelancer: updated,
		Change: Change{
			From:      from,
			To:        updated.Label(),
			ChangedBy: actorID,
			Reason:    reason,
		},
	}, nil
}

// Bulk classifies every ACTIVE freelancer in turn. A failure for one
// freelancer is reported in its item and never aborts the run.
func (s *Service) Bulk(ctx context.Context, opts BulkOptions) (BulkResult, error) {
	subjects, err := s.store.ActiveSubjects(ctx)
	if err != nil {
		return BulkResult{}, apperr.FromStore(err, nil)
	}
	period := ParsePeriod(opts.Period)

	result := BulkResult{Results: make([]BulkItem, 0, len(subjects))}
	for _, subject := range subjects {
		item := s.bulkItem(ctx, subject, period, opts)
		result.Results = append(result.Results, item)
		switch item.Status {
		case BulkUpdated:
			result.Summary.Updated++
		case BulkChangeDetected:
			result.Summary.ChangesDetected++
		case BulkNoChange:
			result.Summary.NoChange++
		case BulkSkipped:
			result.Summary.Skipped++
		case BulkError:
			result.Summary.Errors++
		}
	}
	result.Summary.Total = len(result.Results)
	if result.Summary.Updated > 0 {
		s.invalidate(ctx)
	}
	return result, nil
}

func (s *Service) bulkItem(ctx context.Context, subject Subject, period Period, opts BulkOptions) BulkItem {
	item := BulkItem{FreelancerID: subject.ID, Name: subject.Name()}

	c, err := s.classify(ctx, subject, period, opts.ProjectID)
	switch {
	case errors.Is(err, ErrNoRecords):
		item.Status, item.Reason = BulkSkipped, "No performance records"
		return item
	case errors.Is(err, ErrNoScores):
		item.Status, item.Reason = BulkSkipped, "No valid scores"
		return item
	case err != nil:
		item.Status, item.Error = BulkError, err.Error()
		return item
	}

	avg, cons := round2(c.AvgScore), round2(c.Consistency)
	item.AvgScore, item.Consistency = &avg, &cons
	item.From, item.To = subject.Label(), label(c.Tier, c.Grade)

	changed := item.From != item.To
	switch {
	case !changed:
		item.Status = BulkNoChange
	case !opts.AutoApply:
		item.Status = BulkChangeDetected
	default:
		if err := s.store.UpdateTierGrade(ctx, subject.ID, string(c.Tier), string(c.Grade)); err != nil {
			item.Status, item.Error = BulkError, err.Error()
			return item
		}
		item.Status = BulkUpdated
		updated := subject
		updated.CurrentTier, updated.CurrentGrade = c.Tier, c.Grade
		s.notifyChange(ctx, updated, item.From)
	}
	return item
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if ok, err := s.Cache.Get(ctx, cache.KeyTierStats, &stats); err != nil {
		slog.Warn("tier stats cache read failed", "err", err)
	} else if ok {
		return stats, nil
	}

	counts, err := s.store.Distribution(ctx)
	if err != nil {
		return Stats{}, apperr.FromStore(err, nil)
	}
	stats = buildStats(counts)
	if err := s.Cache.Set(ctx, cache.KeyTierStats, stats, s.CacheTTL); err != nil {
		slog.Warn("tier stats cache write failed", "err", err)
	}
	return stats, nil
}

func buildStats(counts []TierGradeCount) Stats {
	stats := Stats{
		ByTier:      map[string]int{},
		ByGrade:     map[string]int{},
		ByTierGrade: map[string]int{},
	}
	for _, t := range freelancer.Tiers {
		stats.ByTier[string(t)] = 0
	}
	for _, g := range freelancer.Grades {
		stats.ByGrade[string(g)] = 0
	}
	for _, c := range counts {
		stats.Total += c.Count
		stats.ByTier[c.Tier] += c.Count
		stats.ByGrade[c.Grade] += c.Count
		stats.ByTierGrade[c.Tier+"-"+c.Grade] += c.Count
	}
	return stats
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.Cache.Delete(ctx, cache.KeyTierStats, cache.KeyFreelancerStats); err != nil {
		slog.Warn("tier stats cache invalidation failed", "err", err)
	}
}

func (s *Service) notifyChange(ctx context.Context, subject Subject, from string) {
	if s.notifier == nil || subject.UserID == "" {
		return
	}
	to := subject.Label()
	s.notifier.Notify(ctx, notifications.Input{
		UserID:      subject.UserID,
		Type:        notifications.TypeTierUpdate,
		Title:       "Tier Updated",
		Message:     "Your tier/grade has been updated from " + from + " to " + to,
		Link:        "/freelancer/dashboard",
		RelatedID:   subject.ID,
		RelatedType: notifications.RelatedFreelancer,
	})
	msg := email.TierChanged(subject.FirstName, from, to)
	s.notifier.Email(ctx, subject.UserID, msg.Subject, msg.Body)
}

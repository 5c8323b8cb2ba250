package freelancer

import (
	"context"
	"log/slog"
	"time"

	"workforce/internal/domain/apperr"
	"workforce/internal/platform/cache"
)

type Service struct {
	store    StoreAPI
	Cache    cache.Cache
	CacheTTL time.Duration
}

func NewService(store StoreAPI, c cache.Cache, ttl time.Duration) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{store: store, Cache: c, CacheTTL: ttl}
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
	items, total, err := s.store.List(ctx, filter)
	if err != nil {
		return ListResult{}, apperr.FromStore(err, nil)
	}
	return ListResult{
		Freelancers: items,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalCount:  total,
		TotalPages:  (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

// Get returns the profile together with its project assignments.
func (s *Service) Get(ctx context.Context, idOrCode string) (Freelancer, error) {
	f, err := s.store.Get(ctx, idOrCode)
	if err != nil {
		return Freelancer{}, apperr.FromStore(err, ErrFreelancerNotFound)
	}
	assignments, err := s.store.Assignments(ctx, f.ID)
	if err != nil {
		return Freelancer{}, apperr.FromStore(err, nil)
	}
	f.Assignments = assignments
	return f, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (Freelancer, error) {
	f, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return Freelancer{}, apperr.FromStore(err, ErrProfileNotFound)
	}
	return f, nil
}

// Update returns the profile before and after the change for auditing.
func (s *Service) Update(ctx context.Context, idOrCode string, in UpdateInput) (Freelancer, Freelancer, error) {
	if in.Status != nil && !validStatus(*in.Status) {
		return Freelancer{}, Freelancer{}, apperr.Validation("Invalid status", apperr.FieldIssue{Field: "status", Reason: "must be one of ACTIVE, INACTIVE, SUSPENDED"})
	}
	if in.OnboardingStatus != nil && !validOnboarding(*in.OnboardingStatus) {
		return Freelancer{}, Freelancer{}, apperr.Validation("Invalid onboarding status", apperr.FieldIssue{Field: "onboardingStatus", Reason: "must be one of PENDING, IN_PROGRESS, COMPLETED"})
	}
	before, err := s.store.Get(ctx, idOrCode)
	if err != nil {
		return Freelancer{}, Freelancer{}, apperr.FromStore(err, ErrFreelancerNotFound)
	}
	if err := s.store.Update(ctx, before.ID, in); err != nil {
		return Freelancer{}, Freelancer{}, apperr.FromStore(err, ErrFreelancerNotFound)
	}
	after, err := s.store.Get(ctx, before.ID)
	if err != nil {
		return Freelancer{}, Freelancer{}, apperr.FromStore(err, ErrFreelancerNotFound)
	}
	if in.Status != nil && *in.Status != before.Status {
		s.InvalidateStats(ctx)
	} else if in.OnboardingStatus != nil && *in.OnboardingStatus != before.OnboardingStatus {
		s.InvalidateStats(ctx)
	}
	return before, after, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (Freelancer, error) {
	f, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return Freelancer{}, err
	}
	if err := s.store.Update(ctx, f.ID, in.Update()); err != nil {
		return Freelancer{}, apperr.FromStore(err, ErrProfileNotFound)
	}
	return s.GetByUserID(ctx, userID)
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if ok, err := s.Cache.Get(ctx, cache.KeyFreelancerStats, &stats); err != nil {
		slog.Warn("freelancer stats cache read failed", "err", err)
	} else if ok {
		return stats, nil
	}
	stats, err := s.store.StatusCounts(ctx)
	if err != nil {
		return Stats{}, apperr.FromStore(err, nil)
	}
	if err := s.Cache.Set(ctx, cache.KeyFreelancerStats, stats, s.CacheTTL); err != nil {
		slog.Warn("freelancer stats cache write failed", "err", err)
	}
	return stats, nil
}

func (s *Service) InvalidateStats(ctx context.Context) {
	if err := s.Cache.Delete(ctx, cache.KeyFreelancerStats, cache.KeyTierStats); err != nil {
		slog.Warn("freelancer stats cache invalidation failed", "err", err)
	}
}

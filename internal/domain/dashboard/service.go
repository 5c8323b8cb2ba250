package dashboard

import (
	"context"

	"github.com/shopspring/decimal"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/payment"
	"workforce/internal/domain/tiering"
)

const recentRecordsLimit = 10

type TierStats interface {
	Stats(ctx context.Context) (tiering.Stats, error)
}

type PaymentTotals interface {
	Stats(ctx context.Context, year, month int) (payment.Stats, error)
}

// Service assembles the staff dashboard. Tier and payment figures come from
// their own services so the cached tier distribution is shared.
type Service struct {
	store    StoreAPI
	tiers    TierStats
	payments PaymentTotals
}

func NewService(store StoreAPI, tiers TierStats, payments PaymentTotals) *Service {
	return &Service{store: store, tiers: tiers, payments: payments}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	overview, err := s.store.Overview(ctx)
	if err != nil {
		return Stats{}, apperr.FromStore(err, nil)
	}
	tierStats, err := s.tiers.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	countries, err := s.store.Countries(ctx)
	if err != nil {
		return Stats{}, apperr.FromStore(err, nil)
	}
	genders, err := s.store.Genders(ctx)
	if err != nil {
		return Stats{}, apperr.FromStore(err, nil)
	}
	types, err := s.store.AnnotationTypes(ctx)
	if err != nil {
		return Stats{}, apperr.FromStore(err, nil)
	}
	methods, err := s.store.AnnotationMethods(ctx)
	if err != nil {
		return Stats{}, apperr.FromStore(err, nil)
	}

	return Stats{
		Overview:            overview,
		WorkforceLevels:     tierStats.ByTier,
		CountryBreakdown:    countries,
		GenderBreakdown:     genders,
		AnnotationExpertise: Expertise{ByType: types, ByMethod: methods},
	}, nil
}

func (s *Service) PerformanceOverview(ctx context.Context) (PerformanceOverview, error) {
	recent, err := s.store.RecentRecords(ctx, recentRecordsLimit)
	if err != nil {
		return PerformanceOverview{}, apperr.FromStore(err, nil)
	}
	averages, err := s.store.Averages(ctx)
	if err != nil {
		return PerformanceOverview{}, apperr.FromStore(err, nil)
	}
	return PerformanceOverview{RecentRecords: recent, Averages: averages}, nil
}

// PaymentStats covers every period. Pending is PENDING only; APPROVED but
// unpaid records are reported separately.
func (s *Service) PaymentStats(ctx context.Context) (PaymentStats, error) {
	stats, err := s.payments.Stats(ctx, 0, 0)
	if err != nil {
		return PaymentStats{}, err
	}
	out := PaymentStats{
		TotalAmount:    stats.TotalAmount,
		PaidAmount:     decimal.Zero,
		PendingAmount:  decimal.Zero,
		ApprovedAmount: decimal.Zero,
		TotalRecords:   stats.TotalPayments,
	}
	for _, st := range stats.StatusBreakdown {
		switch st.Status {
		case payment.StatusPaid:
			out.PaidAmount = out.PaidAmount.Add(st.TotalAmount)
		case payment.StatusPending:
			out.PendingAmount = out.PendingAmount.Add(st.TotalAmount)
		case payment.StatusApproved:
			out.ApprovedAmount = out.ApprovedAmount.Add(st.TotalAmount)
		}
	}
	return out, nil
}

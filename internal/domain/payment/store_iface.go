package payment

import (
	"context"
	"time"
)

type StoreAPI interface {
	Freelancer(ctx context.Context, idOrCode string) (FreelancerRef, error)
	AssignmentsOverlapping(ctx context.Context, freelancerID string, start, end time.Time) ([]AssignmentWindow, error)
	WorkEntries(ctx context.Context, freelancerID string, start, end time.Time) ([]WorkEntry, error)
	PeriodExists(ctx context.Context, freelancerID string, year, month int) (bool, error)
	CreatePayment(ctx context.Context, p NewPayment) (string, error)
	GetPayment(ctx context.Context, id string) (Payment, error)
	ListPayments(ctx context.Context, filter ListFilter, withLineItems bool) ([]Payment, int, error)
	UpdatePayment(ctx context.Context, id string, patch Patch) error
	DeletePayment(ctx context.Context, id string) (bool, error)
	StatusTotals(ctx context.Context, year, month int) ([]StatusTotal, error)
}

var _ StoreAPI = (*Store)(nil)

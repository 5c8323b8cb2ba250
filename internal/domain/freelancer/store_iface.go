package freelancer

import "context"

type StoreAPI interface {
	List(ctx context.Context, filter ListFilter) ([]Freelancer, int, error)
	Get(ctx context.Context, idOrCode string) (Freelancer, error)
	GetByUserID(ctx context.Context, userID string) (Freelancer, error)
	Assignments(ctx context.Context, freelancerID string) ([]Assignment, error)
	Update(ctx context.Context, id string, in UpdateInput) error
	StatusCounts(ctx context.Context) (Stats, error)
}

var _ StoreAPI = (*Store)(nil)

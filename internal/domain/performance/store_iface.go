package performance

import "context"

type StoreAPI interface {
	FreelancerRef(ctx context.Context, freelancerID string) (FreelancerRef, error)
	ProjectExists(ctx context.Context, projectID string) (bool, error)
	CreateRecord(ctx context.Context, rec Record) (string, error)
	GetRecord(ctx context.Context, id string) (Record, error)
	UpdateRecord(ctx context.Context, rec Record) error
	DeleteRecord(ctx context.Context, id string) (bool, error)
	ListRecords(ctx context.Context, filter ListFilter) ([]Record, int, error)
	ListByFreelancer(ctx context.Context, freelancerID string, filter SummaryFilter) ([]Record, error)
}

var _ StoreAPI = (*Store)(nil)

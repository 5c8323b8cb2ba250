package application

import "context"

type StoreAPI interface {
	EmailInUse(ctx context.Context, email string) (applied bool, registered bool, err error)
	CreateApplication(ctx context.Context, in SubmitInput) (string, error)
	GetApplication(ctx context.Context, id string) (Application, error)
	ListApplications(ctx context.Context, filter ListFilter) ([]Application, int, error)
	// Approve marks the application reviewed and provisions the user and
	// freelancer in one transaction. It returns ErrAlreadyReviewed when the
	// application is no longer PENDING.
	Approve(ctx context.Context, app Application, reviewerID, passwordHash string) (Provisioned, error)
	Reject(ctx context.Context, id, reviewerID, reason string) (bool, error)
}

var _ StoreAPI = (*Store)(nil)

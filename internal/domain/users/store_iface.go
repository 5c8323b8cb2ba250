package users

import "context"

type StoreAPI interface {
	List(ctx context.Context, filter ListFilter) ([]User, error)
	Get(ctx context.Context, id string) (User, error)
	Stats(ctx context.Context) (Stats, error)
	SetRole(ctx context.Context, id, role string) error
	SetStatus(ctx context.Context, id, status string) error
	SetPassword(ctx context.Context, id, hash string) error
	RevokeSessions(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

var _ StoreAPI = (*Store)(nil)

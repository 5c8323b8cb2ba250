package project

import "context"

type StoreAPI interface {
	CreateProject(ctx context.Context, p Project) (Project, error)
	GetProject(ctx context.Context, id string) (Project, error)
	ListProjects(ctx context.Context, filter ListFilter) ([]Project, int, error)
	UpdateProject(ctx context.Context, p Project) error
	DeleteProject(ctx context.Context, id string) (bool, error)

	Freelancer(ctx context.Context, idOrCode string) (FreelancerRef, error)
	ProjectAssignments(ctx context.Context, projectID string) ([]Assignment, error)
	FreelancerAssignments(ctx context.Context, freelancerID string) ([]Assignment, error)
	GetAssignment(ctx context.Context, projectID, freelancerID string) (Assignment, error)
	CreateAssignment(ctx context.Context, in NewAssignment) (string, error)
	DeleteAssignment(ctx context.Context, projectID, freelancerID string) (bool, error)
	ReviewAssignment(ctx context.Context, projectID, freelancerID, status, reviewerID string) (bool, error)
	OpenProjects(ctx context.Context, freelancerID string) ([]Project, error)
}

var _ StoreAPI = (*Store)(nil)

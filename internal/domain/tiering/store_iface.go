package tiering

import (
	"context"
	"time"
)

type StoreAPI interface {
	Subject(ctx context.Context, idOrCode string) (Subject, error)
	ActiveSubjects(ctx context.Context) ([]Subject, error)
	// OverallScores returns the number of records in the window and the
	// overall scores of those that have one.
	OverallScores(ctx context.Context, freelancerID string, since *time.Time, projectID string) (int, []float64, error)
	UpdateTierGrade(ctx context.Context, freelancerID, tier, grade string) error
	Distribution(ctx context.Context) ([]TierGradeCount, error)
}

var _ StoreAPI = (*Store)(nil)

// Package portal assembles the freelancer's own view from the freelancer,
// project and performance services.
package portal

import (
	"context"
	"time"

	"workforce/internal/domain/freelancer"
	"workforce/internal/domain/performance"
	"workforce/internal/domain/project"
)

const recentRecords = 5

type FreelancerReader interface {
	GetByUserID(ctx context.Context, userID string) (freelancer.Freelancer, error)
}

type AssignmentReader interface {
	AssignmentsFor(ctx context.Context, freelancerID string) ([]project.Assignment, error)
}

type PerformanceReader interface {
	ForFreelancer(ctx context.Context, freelancerID string, filter performance.SummaryFilter) (performance.PortalSummary, error)
}

type Service struct {
	freelancers FreelancerReader
	projects    AssignmentReader
	performance PerformanceReader
}

func NewService(freelancers FreelancerReader, projects AssignmentReader, perf PerformanceReader) *Service {
	return &Service{freelancers: freelancers, projects: projects, performance: perf}
}

type Profile struct {
	ID             string           `json:"id"`
	FreelancerCode string           `json:"freelancerId"`
	FirstName      string           `json:"firstName"`
	LastName       string           `json:"lastName"`
	Email          string           `json:"email"`
	Status         string           `json:"status"`
	CurrentTier    freelancer.Tier  `json:"currentTier"`
	CurrentGrade   freelancer.Grade `json:"currentGrade"`
}

type Stats struct {
	ActiveProjects          int      `json:"activeProjects"`
	TotalProjects           int      `json:"totalProjects"`
	AvgPerformance          *float64 `json:"avgPerformance"`
	TotalPerformanceRecords int      `json:"totalPerformanceRecords"`
}

type ActiveProject struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`
	AssignedAt time.Time  `json:"assignedAt"`
}

type Dashboard struct {
	Profile           Profile              `json:"profile"`
	Stats             Stats                `json:"stats"`
	RecentPerformance []performance.Record `json:"recentPerformance"`
	ActiveProjects    []ActiveProject      `json:"activeProjects"`
}

// Me resolves the authenticated user's freelancer profile.
func (s *Service) Me(ctx context.Context, userID string) (freelancer.Freelancer, error) {
	return s.freelancers.GetByUserID(ctx, userID)
}

// Dashboard counts assignments on ACTIVE projects as active; pending
// applications and rejected ones are not counted as projects at all.
func (s *Service) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	f, err := s.freelancers.GetByUserID(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	assignments, err := s.projects.AssignmentsFor(ctx, f.ID)
	if err != nil {
		return Dashboard{}, err
	}
	perf, err := s.performance.ForFreelancer(ctx, f.ID, performance.SummaryFilter{})
	if err != nil {
		return Dashboard{}, err
	}

	out := Dashboard{
		Profile: Profile{
			ID:             f.ID,
			FreelancerCode: f.FreelancerCode,
			FirstName:      f.FirstName,
			LastName:       f.LastName,
			Email:          f.Email,
			Status:         f.Status,
			CurrentTier:    f.CurrentTier,
			CurrentGrade:   f.CurrentGrade,
		},
		Stats: Stats{
			AvgPerformance:          perf.Summary.AvgOverall,
			TotalPerformanceRecords: perf.Summary.TotalRecords,
		},
		RecentPerformance: perf.Records,
		ActiveProjects:    []ActiveProject{},
	}
	if len(out.RecentPerformance) > recentRecords {
		out.RecentPerformance = out.RecentPerformance[:recentRecords]
	}
	for _, a := range assignments {
		if a.Status == project.AssignmentPending || a.Status == project.AssignmentRejected || a.Project == nil {
			continue
		}
		out.Stats.TotalProjects++
		if a.Project.Status != project.StatusActive || a.Status != project.AssignmentActive {
			continue
		}
		out.Stats.ActiveProjects++
		out.ActiveProjects = append(out.ActiveProjects, ActiveProject{
			ID:         a.Project.ID,
			Name:       a.Project.Name,
			Status:     a.Project.Status,
			StartDate:  a.Project.StartDate,
			EndDate:    a.Project.EndDate,
			AssignedAt: a.AssignedAt,
		})
	}
	return out, nil
}

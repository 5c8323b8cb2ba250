package portal

import (
	"context"
	"errors"
	"testing"

	"workforce/internal/domain/freelancer"
	"workforce/internal/domain/performance"
	"workforce/internal/domain/project"
)

type fakeFreelancers struct{ f freelancer.Freelancer }

func (f fakeFreelancers) GetByUserID(_ context.Context, userID string) (freelancer.Freelancer, error) {
	if userID != f.f.UserID {
		return freelancer.Freelancer{}, freelancer.ErrProfileNotFound
	}
	return f.f, nil
}

type fakeAssignments []project.Assignment

func (a fakeAssignments) AssignmentsFor(context.Context, string) ([]project.Assignment, error) {
	return a, nil
}

type fakePerformance struct{ summary performance.PortalSummary }

func (p fakePerformance) ForFreelancer(context.Context, string, performance.SummaryFilter) (performance.PortalSummary, error) {
	return p.summary, nil
}

func TestDashboard(t *testing.T) {
	avg := 3.75
	records := make([]performance.Record, 7)
	assignments := fakeAssignments{
		{Status: project.AssignmentActive, Project: &project.ProjectRef{ID: "p1", Name: "Lidar", Status: project.StatusActive}},
		{Status: project.AssignmentCompleted, Project: &project.ProjectRef{ID: "p2", Name: "Audio", Status: project.StatusCompleted}},
		{Status: project.AssignmentPending, Project: &project.ProjectRef{ID: "p3", Name: "Video", Status: project.StatusActive}},
	}
	svc := NewService(
		fakeFreelancers{f: freelancer.Freelancer{ID: "fl-1", UserID: "user-1", FreelancerCode: "FL-0001", CurrentTier: freelancer.TierGold}},
		assignments,
		fakePerformance{summary: performance.PortalSummary{
			Records: records,
			Summary: performance.PortalAverage{TotalRecords: 7, AvgOverall: &avg},
		}},
	)

	d, err := svc.Dashboard(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Stats.ActiveProjects != 1 || d.Stats.TotalProjects != 2 {
		t.Fatalf("expected 1 active of 2 projects, got %+v", d.Stats)
	}
	if len(d.ActiveProjects) != 1 || d.ActiveProjects[0].ID != "p1" {
		t.Fatalf("unexpected active projects %+v", d.ActiveProjects)
	}
	if len(d.RecentPerformance) != 5 {
		t.Fatalf("expected 5 recent records, got %d", len(d.RecentPerformance))
	}
	if d.Stats.AvgPerformance == nil || *d.Stats.AvgPerformance != 3.75 || d.Stats.TotalPerformanceRecords != 7 {
		t.Fatalf("unexpected performance stats %+v", d.Stats)
	}
	if d.Profile.FreelancerCode != "FL-0001" || d.Profile.CurrentTier != freelancer.TierGold {
		t.Fatalf("unexpected profile %+v", d.Profile)
	}
}

func TestDashboardWithoutProfile(t *testing.T) {
	svc := NewService(fakeFreelancers{}, fakeAssignments{}, fakePerformance{})
	if _, err := svc.Dashboard(context.Background(), "user-9"); !errors.Is(err, freelancer.ErrProfileNotFound) {
		t.Fatalf("expected profile not found, got %v", err)
	}
}

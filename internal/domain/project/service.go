package project

import (
	"context"
	"fmt"
	"strings"
	"time"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/notifications"
	"workforce/internal/platform/email"
)

// Notifier is satisfied by *notifications.Service.
type Notifier interface {
	Notify(ctx context.Context, in notifications.Input)
	Email(ctx context.Context, userID, subject, body string)
}

type Service struct {
	store    StoreAPI
	notifier Notifier
	Now      func() time.Time
}

func NewService(store StoreAPI, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier, Now: time.Now}
}

func parseDate(field, value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperr.Validation("Invalid date", apperr.FieldIssue{Field: field, Reason: "must be YYYY-MM-DD"})
	}
	return t.UTC(), nil
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}

func validate(p Project) error {
	if strings.TrimSpace(p.Name) == "" || p.FreelancersRequired <= 0 {
		return ErrMissingFields
	}
	if !validModel(p.PaymentModel) {
		return ErrInvalidModel
	}
	if !validStatus(p.Status) {
		return ErrInvalidStatus
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return apperr.Validation("End date must not be before start date", apperr.FieldIssue{Field: "endDate", Reason: "before startDate"})
	}
	return nil
}

// Create stores a DRAFT project closed to applications.
func (s *Service) Create(ctx context.Context, in CreateInput, createdBy string) (Project, error) {
	if strings.TrimSpace(in.Name) == "" || in.FreelancersRequired == 0 || in.StartDate == "" || in.PaymentModel == "" {
		return Project{}, ErrMissingFields
	}
	start, err := parseDate("startDate", in.StartDate)
	if err != nil {
		return Project{}, err
	}
	end, err := parseOptionalDate("endDate", in.EndDate)
	if err != nil {
		return Project{}, err
	}

	p := Project{
		Name:                 strings.TrimSpace(in.Name),
		Vertical:             trimmed(in.Vertical),
		AnnotationRequired:   trimmed(in.AnnotationRequired),
		Description:          trimmed(in.Description),
		FreelancersRequired:  in.FreelancersRequired,
		StartDate:            start,
		EndDate:              end,
		SpeedPercentage:      in.SpeedPercentage,
		AccuracyPercentage:   defaultAccuracyPercentage,
		AssetsPerDay:         in.AssetsPerDay,
		HoursPerDay:          in.HoursPerDay,
		EvaluationFrequency:  defaultEvaluationFrequency,
		PaymentModel:         strings.ToUpper(in.PaymentModel),
		ExpectedTimePerAsset: in.ExpectedTimePerAsset,
		Status:               StatusDraft,
		Rates:                in.Rates,
	}
	if in.AccuracyPercentage != nil {
		p.AccuracyPercentage = *in.AccuracyPercentage
	}
	if in.EvaluationFrequency != "" {
		p.EvaluationFrequency = strings.ToUpper(in.EvaluationFrequency)
	}
	if createdBy != "" {
		p.CreatedBy = &createdBy
	}
	if err := validate(p); err != nil {
		return Project{}, err
	}

	created, err := s.store.CreateProject(ctx, p)
	if err != nil {
		return Project{}, apperr.FromStore(err, nil)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (Project, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return Project{}, apperr.FromStore(err, ErrProjectNotFound)
	}
	assignments, err := s.store.ProjectAssignments(ctx, p.ID)
	if err != nil {
		return Project{}, apperr.FromStore(err, nil)
	}
	p.Assignments = assignments
	return p, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return ListResult{}, ErrInvalidStatus
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	items, total, err := s.store.ListProjects(ctx, filter)
	if err != nil {
		return ListResult{}, apperr.FromStore(err, nil)
	}
	return ListResult{
		Projects:   items,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalCount: total,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

// Merge overlays the supplied fields on the stored project.
func Merge(p Project, in UpdateInput) (Project, error) {
	if in.Name.Set {
		p.Name = strings.TrimSpace(in.Name.Value)
	}
	p.Vertical = in.Vertical.Apply(p.Vertical)
	p.AnnotationRequired = in.AnnotationRequired.Apply(p.AnnotationRequired)
	p.Description = in.Description.Apply(p.Description)
	if in.FreelancersRequired.Set && !in.FreelancersRequired.Null {
		p.FreelancersRequired = in.FreelancersRequired.Value
	}
	if in.StartDate.Set && !in.StartDate.Null {
		start, err := parseDate("startDate", in.StartDate.Value)
		if err != nil {
			return Project{}, err
		}
		p.StartDate = start
	}
	if in.EndDate.Set {
		end, err := parseOptionalDate("endDate", in.EndDate.Ptr())
		if err != nil {
			return Project{}, err
		}
		p.EndDate = end
	}
	p.SpeedPercentage = in.SpeedPercentage.Apply(p.SpeedPercentage)
	if in.AccuracyPercentage.Set && !in.AccuracyPercentage.Null {
		p.AccuracyPercentage = in.AccuracyPercentage.Value
	}
	p.AssetsPerDay = in.AssetsPerDay.Apply(p.AssetsPerDay)
	p.HoursPerDay = in.HoursPerDay.Apply(p.HoursPerDay)
	if in.EvaluationFrequency.Set && !in.EvaluationFrequency.Null {
		p.EvaluationFrequency = strings.ToUpper(in.EvaluationFrequency.Value)
	}
	if in.PaymentModel.Set && !in.PaymentModel.Null {
		p.PaymentModel = strings.ToUpper(in.PaymentModel.Value)
	}
	p.HourlyRateAnnotation = in.HourlyRateAnnotation.Apply(p.HourlyRateAnnotation)
	p.HourlyRateReview = in.HourlyRateReview.Apply(p.HourlyRateReview)
	p.PerAssetRateAnnotation = in.PerAssetRateAnnotation.Apply(p.PerAssetRateAnnotation)
	p.PerAssetRateReview = in.PerAssetRateReview.Apply(p.PerAssetRateReview)
	p.PerObjectRateAnnotation = in.PerObjectRateAnnotation.Apply(p.PerObjectRateAnnotation)
	p.PerObjectRateReview = in.PerObjectRateReview.Apply(p.PerObjectRateReview)
	p.ExpectedTimePerAsset = in.ExpectedTimePerAsset.Apply(p.ExpectedTimePerAsset)
	if in.Status.Set && !in.Status.Null {
		p.Status = strings.ToUpper(in.Status.Value)
	}
	if in.OpenForApplications.Set && !in.OpenForApplications.Null {
		p.OpenForApplications = in.OpenForApplications.Value
	}
	return p, validate(p)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Project, Project, error) {
	before, err := s.store.GetProject(ctx, id)
	if err != nil {
		return Project{}, Project{}, apperr.FromStore(err, ErrProjectNotFound)
	}
	merged, err := Merge(before, in)
	if err != nil {
		return Project{}, Project{}, err
	}
	if err := s.store.UpdateProject(ctx, merged); err != nil {
		return Project{}, Project{}, apperr.FromStore(err, ErrProjectNotFound)
	}
	after, err := s.store.GetProject(ctx, before.ID)
	if err != nil {
		return Project{}, Project{}, apperr.FromStore(err, ErrProjectNotFound)
	}
	return before, after, nil
}

// Delete cascades to assignments; performance records keep their history
// with the project reference cleared.
func (s *Service) Delete(ctx context.Context, id string) (Project, error) {
	existing, err := s.store.GetProject(ctx, id)
	if err != nil {
		return Project{}, apperr.FromStore(err, ErrProjectNotFound)
	}
	ok, err := s.store.DeleteProject(ctx, existing.ID)
	if err != nil {
		return Project{}, apperr.FromStore(err, ErrProjectNotFound)
	}
	if !ok {
		return Project{}, ErrProjectNotFound
	}
	return existing, nil
}

func (s *Service) lookup(ctx context.Context, projectID, freelancerID string) (Project, FreelancerRef, error) {
	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return Project{}, FreelancerRef{}, apperr.FromStore(err, ErrProjectNotFound)
	}
	f, err := s.store.Freelancer(ctx, freelancerID)
	if err != nil {
		return Project{}, FreelancerRef{}, apperr.FromStore(err, ErrFreelancerNotFound)
	}
	return p, f, nil
}

// Assign creates an ACTIVE assignment and tells the freelancer.
func (s *Service) Assign(ctx context.Context, projectID string, in AssignInput) (Assignment, error) {
	if strings.TrimSpace(in.FreelancerID) == "" || in.StartDate == "" {
		return Assignment{}, ErrMissingFields
	}
	start, err := parseDate("startDate", in.StartDate)
	if err != nil {
		return Assignment{}, err
	}
	end, err := parseOptionalDate("endDate", in.EndDate)
	if err != nil {
		return Assignment{}, err
	}
	p, f, err := s.lookup(ctx, projectID, in.FreelancerID)
	if err != nil {
		return Assignment{}, err
	}
	if _, err := s.store.GetAssignment(ctx, p.ID, f.ID); err == nil {
		return Assignment{}, ErrAlreadyAssigned
	} else if mapped := apperr.FromStore(err, ErrAssignmentNotFound); apperr.KindOf(mapped) != apperr.KindNotFound {
		return Assignment{}, mapped
	}

	_, err = s.store.CreateAssignment(ctx, NewAssignment{
		ProjectID:            p.ID,
		FreelancerID:         f.ID,
		Status:               AssignmentActive,
		StartDate:            start,
		EndDate:              end,
		ExpectedAssetsPerDay: in.ExpectedAssetsPerDay,
		ExpectedHoursPerDay:  in.ExpectedHoursPerDay,
	})
	if err != nil {
		if apperr.IsUniqueViolation(err) {
			return Assignment{}, ErrAlreadyAssigned
		}
		return Assignment{}, apperr.FromStore(err, nil)
	}

	s.notifyAssigned(ctx, p, f, start)
	return s.assignment(ctx, p.ID, f.ID)
}

func (s *Service) assignment(ctx context.Context, projectID, freelancerID string) (Assignment, error) {
	a, err := s.store.GetAssignment(ctx, projectID, freelancerID)
	if err != nil {
		return Assignment{}, apperr.FromStore(err, ErrAssignmentNotFound)
	}
	return a, nil
}

func (s *Service) notifyAssigned(ctx context.Context, p Project, f FreelancerRef, start time.Time) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, notifications.Input{
		UserID:      f.UserID,
		Type:        notifications.TypeProjectAssigned,
		Title:       "New Project Assignment",
		Message:     "You have been assigned to project: " + p.Name,
		Link:        "/freelancer/projects/" + p.ID,
		RelatedID:   p.ID,
		RelatedType: notifications.RelatedProject,
	})
	msg := email.ProjectAssigned(f.FirstName, p.Name, p.ProjectCode, start)
	s.notifier.Email(ctx, f.UserID, msg.Subject, msg.Body)
}

// Unassign returns the removed assignment for auditing.
func (s *Service) Unassign(ctx context.Context, projectID, freelancerID string) (Assignment, error) {
	p, f, err := s.lookup(ctx, projectID, freelancerID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return Assignment{}, ErrAssignmentNotFound
		}
		return Assignment{}, err
	}
	existing, err := s.assignment(ctx, p.ID, f.ID)
	if err != nil {
		return Assignment{}, err
	}
	ok, err := s.store.DeleteAssignment(ctx, p.ID, f.ID)
	if err != nil {
		return Assignment{}, apperr.FromStore(err, ErrAssignmentNotFound)
	}
	if !ok {
		return Assignment{}, ErrAssignmentNotFound
	}
	return existing, nil
}

// Review decides a freelancer's PENDING application: ACTIVE accepts it,
// REJECTED declines it.
func (s *Service) Review(ctx context.Context, projectID, freelancerID string, in ReviewInput, reviewerID string) (Assignment, Assignment, error) {
	decision := strings.ToUpper(strings.TrimSpace(in.Status))
	if decision != AssignmentActive && decision != AssignmentRejected {
		return Assignment{}, Assignment{}, ErrInvalidDecision
	}
	p, f, err := s.lookup(ctx, projectID, freelancerID)
	if err != nil {
		return Assignment{}, Assignment{}, err
	}
	before, err := s.assignment(ctx, p.ID, f.ID)
	if err != nil {
		return Assignment{}, Assignment{}, err
	}
	if before.Status != AssignmentPending {
		return Assignment{}, Assignment{}, ErrNotPending
	}
	ok, err := s.store.ReviewAssignment(ctx, p.ID, f.ID, decision, reviewerID)
	if err != nil {
		return Assignment{}, Assignment{}, apperr.FromStore(err, ErrAssignmentNotFound)
	}
	if !ok {
		return Assignment{}, Assignment{}, ErrNotPending
	}

	if decision == AssignmentActive {
		s.notifyAssigned(ctx, p, f, before.StartDate)
	} else if s.notifier != nil {
		s.notifier.Notify(ctx, notifications.Input{
			UserID:      f.UserID,
			Type:        notifications.TypeProjectApplication,
			Title:       "Project Application Update",
			Message:     "Your application to " + p.Name + " was not accepted",
			Link:        "/freelancer/projects",
			RelatedID:   p.ID,
			RelatedType: notifications.RelatedProject,
		})
	}
	after, err := s.assignment(ctx, p.ID, f.ID)
	return before, after, err
}

// Available lists ACTIVE projects open for applications the freelancer has
// not applied to or been assigned to.
func (s *Service) Available(ctx context.Context, freelancerID, freelancerStatus string) (Available, error) {
	projects, err := s.store.OpenProjects(ctx, freelancerID)
	if err != nil {
		return Available{}, apperr.FromStore(err, nil)
	}
	return Available{Projects: projects, CanApply: true, CurrentStatus: freelancerStatus}, nil
}

// Apply records a PENDING assignment and tells the project's creator.
func (s *Service) Apply(ctx context.Context, freelancerID, projectID string, in ApplyInput) (Assignment, error) {
	p, f, err := s.lookup(ctx, projectID, freelancerID)
	if err != nil {
		return Assignment{}, err
	}
	if p.Status != StatusActive {
		return Assignment{}, ErrProjectInactive
	}
	if !p.OpenForApplications {
		return Assignment{}, ErrProjectClosed
	}
	if _, err := s.store.GetAssignment(ctx, p.ID, f.ID); err == nil {
		return Assignment{}, ErrAlreadyApplied
	} else if mapped := apperr.FromStore(err, ErrAssignmentNotFound); apperr.KindOf(mapped) != apperr.KindNotFound {
		return Assignment{}, mapped
	}

	today := s.Now().UTC().Truncate(24 * time.Hour)
	_, err = s.store.CreateAssignment(ctx, NewAssignment{
		ProjectID:          p.ID,
		FreelancerID:       f.ID,
		Status:             AssignmentPending,
		StartDate:          today,
		ApplicationMessage: trimmed(&in.Message),
	})
	if err != nil {
		if apperr.IsUniqueViolation(err) {
			return Assignment{}, ErrAlreadyApplied
		}
		return Assignment{}, apperr.FromStore(err, nil)
	}

	if s.notifier != nil && p.CreatedBy != nil {
		s.notifier.Notify(ctx, notifications.Input{
			UserID:      *p.CreatedBy,
			Type:        notifications.TypeProjectApplication,
			Title:       "New Project Application",
			Message:     fmt.Sprintf("%s %s (%s) applied to %s", f.FirstName, f.LastName, f.FreelancerCode, p.Name),
			Link:        "/projects/" + p.ID,
			RelatedID:   p.ID,
			RelatedType: notifications.RelatedProject,
		})
	}
	return s.assignment(ctx, p.ID, f.ID)
}

// AssignmentsFor lists the freelancer's assignments with project details.
func (s *Service) AssignmentsFor(ctx context.Context, freelancerID string) ([]Assignment, error) {
	items, err := s.store.FreelancerAssignments(ctx, freelancerID)
	if err != nil {
		return nil, apperr.FromStore(err, nil)
	}
	return items, nil
}

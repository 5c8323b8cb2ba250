package project

import "workforce/internal/domain/apperr"

var (
	ErrProjectNotFound    = apperr.NotFound("Project not found")
	ErrFreelancerNotFound = apperr.NotFound("Freelancer not found")
	ErrAssignmentNotFound = apperr.NotFound("Assignment not found")
	ErrMissingFields      = apperr.Validation("Missing required fields")
	ErrInvalidModel       = apperr.Validation("Invalid payment model")
	ErrInvalidStatus      = apperr.Validation("Invalid project status")
	ErrAlreadyAssigned    = apperr.Validation("Freelancer already assigned to this project")
	ErrProjectInactive    = apperr.Validation("This project is not currently active")
	ErrProjectClosed      = apperr.Validation("This project is not accepting applications")
	ErrAlreadyApplied     = apperr.Validation("You have already applied to or are assigned to this project")
	ErrInvalidDecision    = apperr.Validation("Decision must be ACTIVE or REJECTED")
	ErrNotPending         = apperr.StateConflict("Project application has already been reviewed")
)

package performance

import "workforce/internal/domain/apperr"

var (
	ErrRecordNotFound     = apperr.NotFound("Performance record not found")
	ErrFreelancerNotFound = apperr.NotFound("Freelancer not found")
	ErrProjectNotFound    = apperr.NotFound("Project not found")
)

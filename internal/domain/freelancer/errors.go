package freelancer

import "workforce/internal/domain/apperr"

var (
	ErrFreelancerNotFound = apperr.NotFound("Freelancer not found")
	ErrProfileNotFound    = apperr.NotFound("Freelancer profile not found")
)

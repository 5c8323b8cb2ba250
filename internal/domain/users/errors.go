package users

import "workforce/internal/domain/apperr"

var (
	ErrUserNotFound     = apperr.NotFound("User not found")
	ErrRoleRequired     = apperr.Validation("Role is required", apperr.FieldIssue{Field: "role", Reason: "is required"})
	ErrInvalidRole      = apperr.Validation("Invalid role", apperr.FieldIssue{Field: "role", Reason: "must be one of ADMIN, PROJECT_MANAGER, TRAINING_LEAD, QA, FINANCE, FREELANCER"})
	ErrSelfDeactivation = apperr.Validation("You cannot deactivate your own account")
	ErrSelfDeletion     = apperr.Validation("You cannot delete your own account")
)

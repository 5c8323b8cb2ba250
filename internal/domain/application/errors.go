package application

import "workforce/internal/domain/apperr"

var (
	ErrApplicationNotFound  = apperr.NotFound("Application not found")
	ErrMissingFields        = apperr.Validation("Required fields are missing")
	ErrDuplicateApplication = apperr.Validation("An application with this email already exists")
	ErrEmailRegistered      = apperr.Validation("This email is already registered")
	ErrAlreadyReviewed      = apperr.StateConflict("Application has already been reviewed")
	ErrInvalidStatus        = apperr.Validation("Invalid application status")
)

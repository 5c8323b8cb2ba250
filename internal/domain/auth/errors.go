package auth

import "workforce/internal/domain/apperr"

var (
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "Invalid email or password")
	ErrMFARequired        = apperr.New(apperr.KindUnauthorized, "MFA code required")
	ErrMFAInvalid         = apperr.New(apperr.KindUnauthorized, "Invalid MFA code")
	ErrSessionExpired     = apperr.New(apperr.KindUnauthorized, "Session expired")
	ErrMFAUnavailable     = apperr.Validation("MFA requires an encryption key")
	ErrMFANotSetUp        = apperr.Validation("MFA setup required")
	ErrInvalidResetToken  = apperr.Validation("Invalid or expired reset token")
	ErrWrongPassword      = apperr.Validation("Current password is incorrect")
)

package payment

import "workforce/internal/domain/apperr"

var (
	ErrPaymentNotFound    = apperr.NotFound("Payment record not found")
	ErrFreelancerNotFound = apperr.NotFound("Freelancer not found")
	ErrMissingFields      = apperr.Validation("Missing required fields")
	ErrDuplicatePeriod    = apperr.Validation("Payment record already exists for this period")
	ErrInvalidPeriod      = apperr.Validation("Period start must not be after period end")
	ErrInvalidStatus      = apperr.Validation("Invalid payment status")
	ErrPaymentPaid        = apperr.StateConflict("Paid payment records cannot be modified")
	ErrDeletePaid         = apperr.StateConflict("Cannot delete a paid payment record")
)

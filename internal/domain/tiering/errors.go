package tiering

import "workforce/internal/domain/apperr"

var (
	ErrNoRecords          = apperr.NoData("No performance records found for this freelancer")
	ErrNoScores           = apperr.NoData("No valid performance scores found")
	ErrTierGradeRequired  = apperr.Validation("Tier and grade are required")
	ErrInvalidTierGrade   = apperr.Validation("Invalid tier or grade")
	ErrFreelancerNotFound = apperr.NotFound("Freelancer not found")
)

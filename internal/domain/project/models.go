package project

import (
	"time"

	"github.com/shopspring/decimal"

	"workforce/internal/domain/optional"
)

// Rates holds the per-model rate card. Only the annotation rate of the
// project's payment model is used by payment calculation.
type Rates struct {
	HourlyRateAnnotation    *decimal.Decimal `json:"hourlyRateAnnotation"`
	HourlyRateReview        *decimal.Decimal `json:"hourlyRateReview"`
	PerAssetRateAnnotation  *decimal.Decimal `json:"perAssetRateAnnotation"`
	PerAssetRateReview      *decimal.Decimal `json:"perAssetRateReview"`
	PerObjectRateAnnotation *decimal.Decimal `json:"perObjectRateAnnotation"`
	PerObjectRateReview     *decimal.Decimal `json:"perObjectRateReview"`
}

type Project struct {
	ID                   string       `json:"id"`
	ProjectCode          string       `json:"projectId"`
	Name                 string       `json:"name"`
	Vertical             *string      `json:"vertical"`
	AnnotationRequired   *string      `json:"annotationRequired"`
	Description          *string      `json:"description"`
	FreelancersRequired  int          `json:"freelancersRequired"`
	StartDate            time.Time    `json:"startDate"`
	EndDate              *time.Time   `json:"endDate"`
	SpeedPercentage      *float64     `json:"speedPercentage"`
	AccuracyPercentage   float64      `json:"accuracyPercentage"`
	AssetsPerDay         *int         `json:"assetsPerDay"`
	HoursPerDay          *float64     `json:"hoursPerDay"`
	EvaluationFrequency  string       `json:"evaluationFrequency"`
	PaymentModel         string       `json:"paymentModel"`
	ExpectedTimePerAsset *float64     `json:"expectedTimePerAsset"`
	Status               string       `json:"status"`
	OpenForApplications  bool         `json:"openForApplications"`
	CreatedBy            *string      `json:"createdBy"`
	CreatedAt            time.Time    `json:"createdAt"`
	UpdatedAt            time.Time    `json:"updatedAt"`
	AssignmentCount      int          `json:"assignmentCount"`
	PendingApplications  int          `json:"pendingApplications"`
	Assignments          []Assignment `json:"assignments,omitempty"`

	Rates
}

type FreelancerRef struct {
	ID             string `json:"id"`
	FreelancerCode string `json:"freelancerId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	CurrentTier    string `json:"currentTier"`
	CurrentGrade   string `json:"currentGrade"`
	Status         string `json:"status"`
	UserID         string `json:"-"`
}

type ProjectRef struct {
	ID           string     `json:"id"`
	ProjectCode  string     `json:"projectId"`
	Name         string     `json:"name"`
	Description  *string    `json:"description"`
	Status       string     `json:"status"`
	PaymentModel string     `json:"paymentModel"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
}

type Assignment struct {
	ID                   string         `json:"id"`
	ProjectID            string         `json:"projectId"`
	FreelancerID         string         `json:"freelancerId"`
	Status               string         `json:"status"`
	StartDate            time.Time      `json:"startDate"`
	EndDate              *time.Time     `json:"endDate"`
	ExpectedAssetsPerDay *int           `json:"expectedAssetsPerDay"`
	ExpectedHoursPerDay  *float64       `json:"expectedHoursPerDay"`
	ApplicationMessage   *string        `json:"applicationMessage"`
	ReviewedBy           *string        `json:"reviewedBy"`
	ReviewedAt           *time.Time     `json:"reviewedAt"`
	AssignedAt           time.Time      `json:"assignedAt"`
	Freelancer           *FreelancerRef `json:"freelancer,omitempty"`
	Project              *ProjectRef    `json:"project,omitempty"`
}

type CreateInput struct {
	Name                 string   `json:"name" validate:"max=200"`
	Vertical             *string  `json:"vertical" validate:"omitempty,max=100"`
	AnnotationRequired   *string  `json:"annotationRequired" validate:"omitempty,max=200"`
	Description          *string  `json:"description"`
	FreelancersRequired  int      `json:"freelancersRequired" validate:"min=0"`
	StartDate            string   `json:"startDate"`
	EndDate              *string  `json:"endDate"`
	SpeedPercentage      *float64 `json:"speedPercentage" validate:"omitempty,min=0,max=100"`
	AccuracyPercentage   *float64 `json:"accuracyPercentage" validate:"omitempty,min=0,max=100"`
	AssetsPerDay         *int     `json:"assetsPerDay" validate:"omitempty,min=0"`
	HoursPerDay          *float64 `json:"hoursPerDay" validate:"omitempty,min=0,max=24"`
	EvaluationFrequency  string   `json:"evaluationFrequency" validate:"omitempty,max=50"`
	PaymentModel         string   `json:"paymentModel"`
	ExpectedTimePerAsset *float64 `json:"expectedTimePerAsset" validate:"omitempty,min=0"`

	Rates
}

// UpdateInput is a partial update: absent fields are kept, explicit nulls
// clear nullable columns.
type UpdateInput struct {
	Name                    optional.Value[string]          `json:"name"`
	Vertical                optional.Value[string]          `json:"vertical"`
	AnnotationRequired      optional.Value[string]          `json:"annotationRequired"`
	Description             optional.Value[string]          `json:"description"`
	FreelancersRequired     optional.Value[int]             `json:"freelancersRequired"`
	StartDate               optional.Value[string]          `json:"startDate"`
	EndDate                 optional.Value[string]          `json:"endDate"`
	SpeedPercentage         optional.Value[float64]         `json:"speedPercentage"`
	AccuracyPercentage      optional.Value[float64]         `json:"accuracyPercentage"`
	AssetsPerDay            optional.Value[int]             `json:"assetsPerDay"`
	HoursPerDay             optional.Value[float64]         `json:"hoursPerDay"`
	EvaluationFrequency     optional.Value[string]          `json:"evaluationFrequency"`
	PaymentModel            optional.Value[string]          `json:"paymentModel"`
	HourlyRateAnnotation    optional.Value[decimal.Decimal] `json:"hourlyRateAnnotation"`
	HourlyRateReview        optional.Value[decimal.Decimal] `json:"hourlyRateReview"`
	PerAssetRateAnnotation  optional.Value[decimal.Decimal] `json:"perAssetRateAnnotation"`
	PerAssetRateReview      optional.Value[decimal.Decimal] `json:"perAssetRateReview"`
	PerObjectRateAnnotation optional.Value[decimal.Decimal] `json:"perObjectRateAnnotation"`
	PerObjectRateReview     optional.Value[decimal.Decimal] `json:"perObjectRateReview"`
	ExpectedTimePerAsset    optional.Value[float64]         `json:"expectedTimePerAsset"`
	Status                  optional.Value[string]          `json:"status"`
	OpenForApplications     optional.Value[bool]            `json:"openForApplications"`
}

type ListFilter struct {
	Status    string
	Vertical  string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

type ListResult struct {
	Projects   []Project `json:"projects"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalCount int       `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
}

type AssignInput struct {
	FreelancerID         string   `json:"freelancerId"`
	StartDate            string   `json:"startDate"`
	EndDate              *string  `json:"endDate"`
	ExpectedAssetsPerDay *int     `json:"expectedAssetsPerDay" validate:"omitempty,min=0"`
	ExpectedHoursPerDay  *float64 `json:"expectedHoursPerDay" validate:"omitempty,min=0,max=24"`
}

// NewAssignment is written by both staff assignment and portal applications.
type NewAssignment struct {
	ProjectID            string
	FreelancerID         string
	Status               string
	StartDate            time.Time
	EndDate              *time.Time
	ExpectedAssetsPerDay *int
	ExpectedHoursPerDay  *float64
	ApplicationMessage   *string
}

type ReviewInput struct {
	Status string `json:"status"`
}

type ApplyInput struct {
	Message string `json:"message" validate:"max=2000"`
}

// Available is the portal view of projects a freelancer may still apply to.
type Available struct {
	Projects      []Project `json:"projects"`
	CanApply      bool      `json:"canApply"`
	CurrentStatus string    `json:"currentStatus"`
}

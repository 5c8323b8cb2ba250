package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkEntry is a performance record joined with its project's rate card.
type WorkEntry struct {
	ProjectID               string
	ProjectCode             string
	ProjectName             string
	PaymentModel            string
	HourlyRateAnnotation    *decimal.Decimal
	PerAssetRateAnnotation  *decimal.Decimal
	PerObjectRateAnnotation *decimal.Decimal
	RecordDate              time.Time
	HoursWorked             *float64
	AssetsCompleted         *int
	TasksCompleted          *int
}

type AssignmentWindow struct {
	ProjectID   string     `json:"projectId"`
	ProjectCode string     `json:"projectCode"`
	ProjectName string     `json:"projectName"`
	Status      string     `json:"status"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

type LineItem struct {
	ID               string          `json:"id,omitempty"`
	ProjectID        *string         `json:"projectId"`
	ProjectCode      string          `json:"projectCode,omitempty"`
	ProjectName      string          `json:"projectName,omitempty"`
	Description      string          `json:"description"`
	WorkDate         time.Time       `json:"workDate"`
	HoursWorked      *float64        `json:"hoursWorked"`
	AssetsCompleted  *int            `json:"assetsCompleted"`
	ObjectsAnnotated *int            `json:"objectsAnnotated"`
	Rate             decimal.Decimal `json:"rate"`
	RateType         string          `json:"rateType"`
	Amount           decimal.Decimal `json:"amount"`
}

type CalculateInput struct {
	FreelancerID string `json:"freelancerId"`
	PeriodStart  string `json:"periodStart"`
	PeriodEnd    string `json:"periodEnd"`
}

type Calculation struct {
	FreelancerID string             `json:"freelancerId"`
	PeriodStart  time.Time          `json:"periodStart"`
	PeriodEnd    time.Time          `json:"periodEnd"`
	Assignments  []AssignmentWindow `json:"assignments"`
	LineItems    []LineItem         `json:"lineItems"`
	TotalAmount  decimal.Decimal    `json:"totalAmount"`
	Month        int                `json:"month"`
	Year         int                `json:"year"`
}

type LineItemInput struct {
	ProjectID        string          `json:"projectId" validate:"omitempty,uuid"`
	Description      string          `json:"description" validate:"required,max=500"`
	WorkDate         string          `json:"workDate" validate:"required"`
	HoursWorked      *float64        `json:"hoursWorked" validate:"omitempty,min=0"`
	AssetsCompleted  *int            `json:"assetsCompleted" validate:"omitempty,min=0"`
	ObjectsAnnotated *int            `json:"objectsAnnotated" validate:"omitempty,min=0"`
	Rate             decimal.Decimal `json:"rate"`
	RateType         string          `json:"rateType" validate:"required"`
	Amount           decimal.Decimal `json:"amount"`
}

type CreateInput struct {
	FreelancerID string          `json:"freelancerId"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	PeriodStart  string          `json:"periodStart"`
	PeriodEnd    string          `json:"periodEnd"`
	Currency     string          `json:"currency" validate:"omitempty,len=3"`
	LineItems    []LineItemInput `json:"lineItems" validate:"dive"`
	Notes        *string         `json:"notes"`
}

// NewPayment is a validated CreateInput with derived aggregates.
type NewPayment struct {
	FreelancerID     string
	Month            int
	Year             int
	PeriodStart      time.Time
	PeriodEnd        time.Time
	HoursWorked      *float64
	AssetsCompleted  *int
	ObjectsAnnotated *int
	TotalAmount      decimal.Decimal
	Currency         string
	Notes            *string
	CreatedBy        string
	LineItems        []LineItem
}

type FreelancerRef struct {
	ID             string `json:"id"`
	FreelancerCode string `json:"freelancerId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	UserID         string `json:"-"`
}

type Payment struct {
	ID               string          `json:"id"`
	FreelancerID     string          `json:"freelancerId"`
	Freelancer       FreelancerRef   `json:"freelancer"`
	Month            int             `json:"month"`
	Year             int             `json:"year"`
	PeriodStart      time.Time       `json:"periodStart"`
	PeriodEnd        time.Time       `json:"periodEnd"`
	HoursWorked      *float64        `json:"hoursWorked"`
	AssetsCompleted  *int            `json:"assetsCompleted"`
	ObjectsAnnotated *int            `json:"objectsAnnotated"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	PaymentMethod    *string         `json:"paymentMethod"`
	ReferenceNumber  *string         `json:"referenceNumber"`
	Notes            *string         `json:"notes"`
	InternalNotes    *string         `json:"internalNotes,omitempty"`
	CreatedBy        *string         `json:"createdBy"`
	ApprovedBy       *string         `json:"approvedBy"`
	ApprovedAt       *time.Time      `json:"approvedAt"`
	PaidAt           *time.Time      `json:"paidAt"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	LineItems        []LineItem      `json:"lineItems"`
}

type UpdateInput struct {
	Status          *string `json:"status" validate:"omitempty,oneof=PENDING APPROVED PAID REJECTED"`
	PaymentMethod   *string `json:"paymentMethod" validate:"omitempty,max=100"`
	ReferenceNumber *string `json:"referenceNumber" validate:"omitempty,max=100"`
	Notes           *string `json:"notes"`
	InternalNotes   *string `json:"internalNotes"`
	PaidAt          *string `json:"paidAt"`
}

// Patch is the set of columns an update writes; nil leaves a column as is.
type Patch struct {
	Status          *string
	PaymentMethod   *string
	ReferenceNumber *string
	Notes           *string
	InternalNotes   *string
	ApprovedBy      *string
	ApprovedAt      *time.Time
	PaidAt          *time.Time
}

type ListFilter struct {
	FreelancerID string
	Status       string
	Month        int
	Year         int
	SortBy       string
	SortOrder    string
	Page         int
	Limit        int
}

type ListResult struct {
	Payments   []Payment `json:"payments"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalCount int       `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
}

type StatusTotal struct {
	Status      string          `json:"status"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type Stats struct {
	TotalPayments   int             `json:"totalPayments"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	TotalPaid       decimal.Decimal `json:"totalPaid"`
	TotalPending    decimal.Decimal `json:"totalPending"`
	StatusBreakdown []StatusTotal   `json:"statusBreakdown"`
}

type Summary struct {
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	TotalPending  decimal.Decimal `json:"totalPending"`
	TotalPayments int             `json:"totalPayments"`
}

type FreelancerPayments struct {
	Payments []Payment `json:"payments"`
	Summary  Summary   `json:"summary"`
}

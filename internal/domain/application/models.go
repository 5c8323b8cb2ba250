package application

import (
	"encoding/json"
	"time"

	"workforce/internal/domain/freelancer"
)

type Application struct {
	ID                  string                `json:"id"`
	Email               string                `json:"email"`
	FirstName           string                `json:"firstName"`
	LastName            string                `json:"lastName"`
	Phone               string                `json:"phone"`
	City                string                `json:"city"`
	Country             string                `json:"country"`
	Age                 *int                  `json:"age"`
	Gender              *string               `json:"gender"`
	Timezone            *string               `json:"timezone"`
	AvailabilityType    *string               `json:"availabilityType"`
	HoursPerWeek        *int                  `json:"hoursPerWeek"`
	PreferredStartTime  *string               `json:"preferredStartTime"`
	PreferredEndTime    *string               `json:"preferredEndTime"`
	AnnotationTypes     freelancer.StringList `json:"annotationTypes"`
	AnnotationMethods   freelancer.StringList `json:"annotationMethods"`
	AnnotationTools     freelancer.StringList `json:"annotationTools"`
	LanguageProficiency json.RawMessage       `json:"languageProficiency"`
	FormData            json.RawMessage       `json:"formData"`
	Status              string                `json:"status"`
	ReviewedBy          *string               `json:"reviewedBy"`
	ReviewedAt          *time.Time            `json:"reviewedAt"`
	RejectionReason     *string               `json:"rejectionReason"`
	SubmittedAt         time.Time             `json:"submittedAt"`
	UpdatedAt           time.Time             `json:"updatedAt"`
}

// SubmitInput carries the extracted core fields. FormData keeps the whole
// submitted form so fields without a column are not lost.
type SubmitInput struct {
	Email               string                `json:"email" validate:"omitempty,email,max=255"`
	FirstName           string                `json:"firstName" validate:"max=100"`
	LastName            string                `json:"lastName" validate:"max=100"`
	Phone               string                `json:"phone" validate:"max=50"`
	City                string                `json:"city" validate:"max=100"`
	Country             string                `json:"country" validate:"max=100"`
	Age                 *int                  `json:"age" validate:"omitempty,min=16,max=100"`
	Gender              *string               `json:"gender" validate:"omitempty,max=50"`
	Timezone            *string               `json:"timezone" validate:"omitempty,max=100"`
	AvailabilityType    *string               `json:"availabilityType" validate:"omitempty,max=50"`
	HoursPerWeek        *int                  `json:"hoursPerWeek" validate:"omitempty,min=0,max=168"`
	PreferredStartTime  *string               `json:"preferredStartTime" validate:"omitempty,max=20"`
	PreferredEndTime    *string               `json:"preferredEndTime" validate:"omitempty,max=20"`
	AnnotationTypes     freelancer.StringList `json:"annotationTypes"`
	AnnotationMethods   freelancer.StringList `json:"annotationMethods"`
	AnnotationTools     freelancer.StringList `json:"annotationTools"`
	LanguageProficiency json.RawMessage       `json:"languageProficiency"`
	FormData            json.RawMessage       `json:"-"`
}

type ListFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

type ListResult struct {
	Applications []Application `json:"applications"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
	TotalCount   int           `json:"totalCount"`
	TotalPages   int           `json:"totalPages"`
}

// Provisioned is returned once by Approve; the temporary password is never
// stored in clear.
type Provisioned struct {
	ApplicationID     string `json:"applicationId"`
	FreelancerID      string `json:"freelancerId"`
	FreelancerRowID   string `json:"-"`
	UserID            string `json:"-"`
	Email             string `json:"email"`
	TemporaryPassword string `json:"temporaryPassword"`
}

type RejectInput struct {
	Reason string `json:"reason" validate:"max=1000"`
}

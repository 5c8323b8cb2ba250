package freelancer

import (
	"encoding/json"
	"time"
)

// StringList is stored as a JSONB array.
type StringList []string

func (l StringList) JSON() string {
	if l == nil {
		return "[]"
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return "[]"
	}
	return string(data)
}

type Freelancer struct {
	ID                  string          `json:"id"`
	FreelancerCode      string          `json:"freelancerId"`
	UserID              string          `json:"userId"`
	ApplicationID       *string         `json:"applicationId"`
	FirstName           string          `json:"firstName"`
	LastName            string          `json:"lastName"`
	Email               string          `json:"email"`
	Phone               string          `json:"phone"`
	City                string          `json:"city"`
	Country             string          `json:"country"`
	Timezone            *string         `json:"timezone"`
	Gender              *string         `json:"gender"`
	Age                 *int            `json:"age"`
	Status              string          `json:"status"`
	OnboardingStatus    string          `json:"onboardingStatus"`
	CurrentTier         Tier            `json:"currentTier"`
	CurrentGrade        Grade           `json:"currentGrade"`
	AvailabilityType    *string         `json:"availabilityType"`
	HoursPerWeek        *int            `json:"hoursPerWeek"`
	PreferredStartTime  *string         `json:"preferredStartTime"`
	PreferredEndTime    *string         `json:"preferredEndTime"`
	DomainExpertise     StringList      `json:"domainExpertise"`
	AnnotationTypes     StringList      `json:"annotationTypes"`
	AnnotationMethods   StringList      `json:"annotationMethods"`
	ToolsProficiency    StringList      `json:"toolsProficiency"`
	LanguageProficiency json.RawMessage `json:"languageProficiency"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
	Assignments         []Assignment    `json:"assignments,omitempty"`
}

func (f Freelancer) FullName() string {
	return f.FirstName + " " + f.LastName
}

type Assignment struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	ProjectCode string     `json:"projectCode"`
	ProjectName string     `json:"projectName"`
	Status      string     `json:"status"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	AssignedAt  time.Time  `json:"assignedAt"`
}

// NewFreelancer carries the fields copied from an approved application.
type NewFreelancer struct {
	UserID              string
	ApplicationID       string
	FirstName           string
	LastName            string
	Email               string
	Phone               string
	City                string
	Country             string
	Timezone            *string
	Gender              *string
	Age                 *int
	AvailabilityType    *string
	HoursPerWeek        *int
	PreferredStartTime  *string
	PreferredEndTime    *string
	AnnotationTypes     StringList
	AnnotationMethods   StringList
	ToolsProficiency    StringList
	LanguageProficiency json.RawMessage
}

type ListFilter struct {
	Status           string
	Tier             string
	Grade            string
	Country          string
	City             string
	OnboardingStatus string
	AvailabilityType string
	Search           string
	Page             int
	Limit            int
}

type ListResult struct {
	Freelancers []Freelancer `json:"freelancers"`
	Page        int          `json:"page"`
	Limit       int          `json:"limit"`
	TotalCount  int          `json:"totalCount"`
	TotalPages  int          `json:"totalPages"`
}

// UpdateInput never carries tier or grade; those change only through
// classification.
type UpdateInput struct {
	FirstName          *string     `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName           *string     `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone              *string     `json:"phone" validate:"omitempty,max=40"`
	City               *string     `json:"city" validate:"omitempty,max=100"`
	Country            *string     `json:"country" validate:"omitempty,max=100"`
	Timezone           *string     `json:"timezone" validate:"omitempty,max=64"`
	Status             *string     `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
	OnboardingStatus   *string     `json:"onboardingStatus" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
	AvailabilityType   *string     `json:"availabilityType" validate:"omitempty,max=40"`
	HoursPerWeek       *int        `json:"hoursPerWeek" validate:"omitempty,min=0,max=168"`
	PreferredStartTime *string     `json:"preferredStartTime" validate:"omitempty,max=10"`
	PreferredEndTime   *string     `json:"preferredEndTime" validate:"omitempty,max=10"`
	DomainExpertise    *StringList `json:"domainExpertise"`
	AnnotationTypes    *StringList `json:"annotationTypes"`
	AnnotationMethods  *StringList `json:"annotationMethods"`
	ToolsProficiency   *StringList `json:"toolsProficiency"`
}

// ProfileInput is the subset a freelancer may edit about themselves.
type ProfileInput struct {
	Phone            *string `json:"phone" validate:"omitempty,max=40"`
	City             *string `json:"city" validate:"omitempty,max=100"`
	Country          *string `json:"country" validate:"omitempty,max=100"`
	Timezone         *string `json:"timezone" validate:"omitempty,max=64"`
	AvailabilityType *string `json:"availabilityType" validate:"omitempty,max=40"`
	HoursPerWeek     *int    `json:"hoursPerWeek" validate:"omitempty,min=0,max=168"`
}

func (p ProfileInput) Update() UpdateInput {
	return UpdateInput{
		Phone:            p.Phone,
		City:             p.City,
		Country:          p.Country,
		Timezone:         p.Timezone,
		AvailabilityType: p.AvailabilityType,
		HoursPerWeek:     p.HoursPerWeek,
	}
}

type Stats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"byStatus"`
	ByTier     map[string]int `json:"byTier"`
	ByGrade    map[string]int `json:"byGrade"`
	Onboarding map[string]int `json:"byOnboardingStatus"`
}

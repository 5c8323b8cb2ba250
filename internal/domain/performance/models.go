package performance

import (
	"time"

	"workforce/internal/domain/optional"
)

// Scores holds the raw sub-metrics. A nil pointer means "not scored", which
// is distinct from a score of zero.
type Scores struct {
	ComResponsibility *float64 `json:"comResponsibility"`
	ComCommitment     *float64 `json:"comCommitment"`
	ComInitiative     *float64 `json:"comInitiative"`
	ComWillingness    *float64 `json:"comWillingness"`
	ComCommunication  *float64 `json:"comCommunication"`

	QualSpeed         *float64 `json:"qualSpeed"`
	QualDelibOmission *float64 `json:"qualDelibOmission"`
	QualAccuracy      *float64 `json:"qualAccuracy"`
	QualAttention     *float64 `json:"qualAttention"`
	QualUnannotated   *float64 `json:"qualUnannotated"`
	QualUnderstanding *float64 `json:"qualUnderstanding"`
	QualRejectedCount *int     `json:"qualRejectedCount"`
}

type Totals struct {
	ComTotal     *float64 `json:"comTotal"`
	QualTotal    *float64 `json:"qualTotal"`
	OverallScore *float64 `json:"overallScore"`
}

type Work struct {
	HoursWorked     *float64 `json:"hoursWorked"`
	AssetsCompleted *int     `json:"assetsCompleted"`
	TasksCompleted  *int     `json:"tasksCompleted"`
	AvgTimePerTask  *float64 `json:"avgTimePerTask"`
}

type FreelancerRef struct {
	ID             string `json:"id"`
	FreelancerCode string `json:"freelancerId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	CurrentTier    string `json:"currentTier"`
	CurrentGrade   string `json:"currentGrade"`
	UserID         string `json:"-"`
}

type ProjectRef struct {
	ID          string `json:"id"`
	ProjectCode string `json:"projectId"`
	Name        string `json:"name"`
}

type Record struct {
	ID           string     `json:"id"`
	FreelancerID string     `json:"freelancerId"`
	ProjectID    *string    `json:"projectId"`
	RecordType   RecordType `json:"recordType"`
	RecordDate   time.Time  `json:"recordDate"`
	Month        int        `json:"month"`
	Year         int        `json:"year"`
	Work
	Scores
	Totals
	Notes      *string        `json:"notes"`
	RecordedBy *string        `json:"recordedBy"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	Freelancer *FreelancerRef `json:"freelancer,omitempty"`
	Project    *ProjectRef    `json:"project,omitempty"`
}

type CreateInput struct {
	FreelancerID string `json:"freelancerId" validate:"required"`
	ProjectID    string `json:"projectId" validate:"omitempty,uuid"`
	RecordType   string `json:"recordType" validate:"required,oneof=DAILY WEEKLY MONTHLY"`
	RecordDate   string `json:"recordDate"`
	Work
	Scores
	Notes *string `json:"notes"`
}

// UpdateInput is a partial update: absent fields keep their stored value,
// explicit nulls clear it.
type UpdateInput struct {
	HoursWorked     optional.Value[float64] `json:"hoursWorked"`
	AssetsCompleted optional.Value[int]     `json:"assetsCompleted"`
	TasksCompleted  optional.Value[int]     `json:"tasksCompleted"`
	AvgTimePerTask  optional.Value[float64] `json:"avgTimePerTask"`

	ComResponsibility optional.Value[float64] `json:"comResponsibility"`
	ComCommitment     optional.Value[float64] `json:"comCommitment"`
	ComInitiative     optional.Value[float64] `json:"comInitiative"`
	ComWillingness    optional.Value[float64] `json:"comWillingness"`
	ComCommunication  optional.Value[float64] `json:"comCommunication"`

	QualSpeed         optional.Value[float64] `json:"qualSpeed"`
	QualDelibOmission optional.Value[float64] `json:"qualDelibOmission"`
	QualAccuracy      optional.Value[float64] `json:"qualAccuracy"`
	QualAttention     optional.Value[float64] `json:"qualAttention"`
	QualUnannotated   optional.Value[float64] `json:"qualUnannotated"`
	QualUnderstanding optional.Value[float64] `json:"qualUnderstanding"`
	QualRejectedCount optional.Value[int]     `json:"qualRejectedCount"`

	Notes optional.Value[string] `json:"notes"`
}

type ListFilter struct {
	FreelancerID string
	ProjectID    string
	RecordType   string
	Month        int
	Year         int
	SortBy       string
	SortOrder    string
	Page         int
	Limit        int
}

type SummaryFilter struct {
	ProjectID string
	Month     int
	Year      int
}

type SummaryStats struct {
	AvgComTotal          float64 `json:"avgComTotal"`
	AvgQualTotal         float64 `json:"avgQualTotal"`
	AvgOverallScore      float64 `json:"avgOverallScore"`
	TotalHoursWorked     float64 `json:"totalHoursWorked"`
	TotalAssetsCompleted int     `json:"totalAssetsCompleted"`
	TotalTasksCompleted  int     `json:"totalTasksCompleted"`
}

type Summary struct {
	FreelancerID  string        `json:"freelancerId"`
	TotalRecords  int           `json:"totalRecords"`
	Summary       *SummaryStats `json:"summary"`
	RecentRecords []Record      `json:"recentRecords"`
}

package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

type Overview struct {
	TotalFreelancers   int `json:"totalFreelancers"`
	ActiveFreelancers  int `json:"activeFreelancers"`
	EngagedFreelancers int `json:"engagedFreelancers"`
	TotalProjects      int `json:"totalProjects"`
	OngoingProjects    int `json:"ongoingProjects"`
}

type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Expertise struct {
	ByType   []Count `json:"byType"`
	ByMethod []Count `json:"byMethod"`
}

type Stats struct {
	Overview            Overview       `json:"overview"`
	WorkforceLevels     map[string]int `json:"workforceLevels"`
	CountryBreakdown    []Count        `json:"countryBreakdown"`
	GenderBreakdown     []Count        `json:"genderBreakdown"`
	AnnotationExpertise Expertise      `json:"annotationExpertise"`
}

type RecentRecord struct {
	ID             string    `json:"id"`
	RecordDate     time.Time `json:"recordDate"`
	RecordType     string    `json:"recordType"`
	OverallScore   *float64  `json:"overallScore"`
	QualTotal      *float64  `json:"qualTotal"`
	ComTotal       *float64  `json:"comTotal"`
	FreelancerCode string    `json:"freelancerId"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	ProjectCode    *string   `json:"projectCode"`
	ProjectName    *string   `json:"projectName"`
}

type Averages struct {
	Overall       float64 `json:"overall"`
	Quality       float64 `json:"quality"`
	Communication float64 `json:"communication"`
}

type PerformanceOverview struct {
	RecentRecords []RecentRecord `json:"recentRecords"`
	Averages      Averages       `json:"averages"`
}

type PaymentStats struct {
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	PendingAmount  decimal.Decimal `json:"pendingAmount"`
	ApprovedAmount decimal.Decimal `json:"approvedAmount"`
	TotalRecords   int             `json:"totalRecords"`
}

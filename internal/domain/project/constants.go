package project

const (
	StatusDraft     = "DRAFT"
	StatusActive    = "ACTIVE"
	StatusOnHold    = "ON_HOLD"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

func validStatus(value string) bool {
	switch value {
	case StatusDraft, StatusActive, StatusOnHold, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

const (
	ModelHourly    = "HOURLY"
	ModelPerAsset  = "PER_ASSET"
	ModelPerObject = "PER_OBJECT"
)

func validModel(value string) bool {
	switch value {
	case ModelHourly, ModelPerAsset, ModelPerObject:
		return true
	}
	return false
}

// Assignment statuses. PENDING marks a freelancer's own application.
const (
	AssignmentPending   = "PENDING"
	AssignmentActive    = "ACTIVE"
	AssignmentCompleted = "COMPLETED"
	AssignmentRejected  = "REJECTED"
)

const (
	codePrefix                 = "AN"
	defaultAccuracyPercentage  = 90
	defaultEvaluationFrequency = "WEEKLY"
	defaultLimit               = 50
	maxLimit                   = 200
	dateLayout                 = "2006-01-02"
)

var sortColumns = map[string]string{
	"createdAt": "p.created_at",
	"name":      "p.name",
	"startDate": "p.start_date",
	"projectId": "p.project_code",
}

package payment

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusPaid     = "PAID"
	StatusRejected = "REJECTED"
)

func validStatus(value string) bool {
	switch value {
	case StatusPending, StatusApproved, StatusPaid, StatusRejected:
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

const (
	defaultCurrency = "USD"
	defaultLimit    = 50
	maxLimit        = 200
	dateLayout      = "2006-01-02"
	minYear         = 2000
	maxYear         = 2100
)

// centScale matches payment_records.total_amount. Line item amounts are
// stored unscaled.
const centScale = 2

var sortColumns = map[string]string{
	"createdAt":   "pr.created_at",
	"totalAmount": "pr.total_amount",
	"paidAt":      "pr.paid_at",
	"year":        "pr.year",
	"month":       "pr.month",
}

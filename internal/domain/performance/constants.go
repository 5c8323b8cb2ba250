package performance

type RecordType string

const (
	RecordDaily   RecordType = "DAILY"
	RecordWeekly  RecordType = "WEEKLY"
	RecordMonthly RecordType = "MONTHLY"
)

func ParseRecordType(value string) (RecordType, bool) {
	switch RecordType(value) {
	case RecordDaily, RecordWeekly, RecordMonthly:
		return RecordType(value), true
	}
	return "", false
}

const (
	MinScore = 0.0
	MaxScore = 5.0
)

const (
	defaultLimit = 50
	maxLimit     = 200
	recentCount  = 5
)

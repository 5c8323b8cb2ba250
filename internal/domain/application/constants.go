package application

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

func validStatus(value string) bool {
	switch value {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

const (
	defaultRejectionReason = "Application did not meet requirements"
	defaultLimit           = 50
	maxLimit               = 200
)

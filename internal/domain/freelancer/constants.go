package freelancer

type Tier string

const (
	TierPlatinum Tier = "PLATINUM"
	TierGold     Tier = "GOLD"
	TierSilver   Tier = "SILVER"
	TierBronze   Tier = "BRONZE"
)

// Tiers is ordered from highest to lowest.
var Tiers = []Tier{TierPlatinum, TierGold, TierSilver, TierBronze}

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
)

var Grades = []Grade{GradeA, GradeB, GradeC}

func ParseTier(value string) (Tier, bool) {
	for _, t := range Tiers {
		if string(t) == value {
			return t, true
		}
	}
	return "", false
}

func ParseGrade(value string) (Grade, bool) {
	for _, g := range Grades {
		if string(g) == value {
			return g, true
		}
	}
	return "", false
}

const (
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusSuspended = "SUSPENDED"
)

const (
	OnboardingPending    = "PENDING"
	OnboardingInProgress = "IN_PROGRESS"
	OnboardingCompleted  = "COMPLETED"
)

func validStatus(value string) bool {
	switch value {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

func validOnboarding(value string) bool {
	switch value {
	case OnboardingPending, OnboardingInProgress, OnboardingCompleted:
		return true
	}
	return false
}

const (
	codePrefix   = "FL-"
	defaultLimit = 20
	maxLimit     = 100
)

package tiering

import (
	"math"
	"time"

	"workforce/internal/domain/freelancer"
)

type Period string

const (
	PeriodAll         Period = "all"
	PeriodLastMonth   Period = "last_month"
	PeriodLastQuarter Period = "last_quarter"
)

// ParsePeriod treats anything unrecognised as the full history.
func ParsePeriod(value string) Period {
	switch Period(value) {
	case PeriodLastMonth, PeriodLastQuarter:
		return Period(value)
	}
	return PeriodAll
}

// Since returns the lower bound of the window, or nil when unrestricted.
func (p Period) Since(now time.Time) *time.Time {
	var since time.Time
	switch p {
	case PeriodLastMonth:
		since = now.AddDate(0, -1, 0)
	case PeriodLastQuarter:
		since = now.AddDate(0, -3, 0)
	default:
		return nil
	}
	return &since
}

const (
	platinumMin = 4.5
	goldMin     = 3.5
	silverMin   = 2.5

	gradeAMin = 0.75
	gradeBMin = 0.50
)

type Classification struct {
	AvgScore        float64
	Variance        float64
	StdDev          float64
	Consistency     float64
	RecordsAnalyzed int
	Tier            freelancer.Tier
	Grade           freelancer.Grade
}

func TierFor(avg float64) freelancer.Tier {
	switch {
	case avg >= platinumMin:
		return freelancer.TierPlatinum
	case avg >= goldMin:
		return freelancer.TierGold
	case avg >= silverMin:
		return freelancer.TierSilver
	}
	return freelancer.TierBronze
}

func GradeFor(consistency float64) freelancer.Grade {
	switch {
	case consistency >= gradeAMin:
		return freelancer.GradeA
	case consistency >= gradeBMin:
		return freelancer.GradeB
	}
	return freelancer.GradeC
}

// Classify derives tier and grade from the overall scores found in a window.
// recordCount is the number of records in the window, scored or not.
func Classify(recordCount int, scores []float64) (Classification, error) {
	if recordCount == 0 {
		return Classification{}, ErrNoRecords
	}
	if len(scores) == 0 {
		return Classification{}, ErrNoScores
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	n := float64(len(scores))
	avg := sum / n

	var squares float64
	for _, s := range scores {
		squares += (s - avg) * (s - avg)
	}
	variance := squares / n
	stdDev := math.Sqrt(variance)
	c := consistency(avg, stdDev)

	return Classification{
		AvgScore:        avg,
		Variance:        variance,
		StdDev:          stdDev,
		Consistency:     c,
		RecordsAnalyzed: len(scores),
		Tier:            TierFor(avg),
		Grade:           GradeFor(c),
	}, nil
}

// consistency is 1 - min(stdDev/avg, 1) clamped to [0,1]. An all-zero
// history is perfectly consistent.
func consistency(avg, stdDev float64) float64 {
	if avg <= 0 {
		if stdDev == 0 {
			return 1
		}
		return 0
	}
	c := 1 - math.Min(stdDev/avg, 1)
	return math.Max(0, math.Min(1, c))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package tiering

import (
	"errors"
	"math"
	"testing"
	"time"

	"workforce/internal/domain/freelancer"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		scores      []float64
		tier        freelancer.Tier
		grade       freelancer.Grade
		consistency float64
	}{
		{name: "perfect and steady", scores: []float64{5, 5, 5}, tier: freelancer.TierPlatinum, grade: freelancer.GradeA, consistency: 1},
		{name: "spread around three", scores: []float64{2, 3, 4}, tier: freelancer.TierSilver, grade: freelancer.GradeB, consistency: 1 - math.Sqrt(2.0/3.0)/3},
		{name: "gold boundary", scores: []float64{3.5}, tier: freelancer.TierGold, grade: freelancer.GradeA, consistency: 1},
		{name: "just below silver", scores: []float64{2.49}, tier: freelancer.TierBronze, grade: freelancer.GradeA, consistency: 1},
		{name: "erratic", scores: []float64{0.5, 4.5}, tier: freelancer.TierSilver, grade: freelancer.GradeC, consistency: 1 - 2.0/2.5},
		{name: "all zero", scores: []float64{0, 0}, tier: freelancer.TierBronze, grade: freelancer.GradeA, consistency: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Classify(len(tc.scores), tc.scores)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Tier != tc.tier || c.Grade != tc.grade {
				t.Fatalf("expected %s-%s, got %s-%s", tc.tier, tc.grade, c.Tier, c.Grade)
			}
			if math.Abs(c.Consistency-tc.consistency) > 1e-9 {
				t.Fatalf("expected consistency %v, got %v", tc.consistency, c.Consistency)
			}
		})
	}
}

func TestClassifySpreadAroundThreeRoundsTo073(t *testing.T) {
	c, err := Classify(3, []float64{2, 3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if round2(c.Consistency) != 0.73 || round2(c.AvgScore) != 3 {
		t.Fatalf("expected avg 3 consistency 0.73, got %v %v", c.AvgScore, c.Consistency)
	}
}

func TestClassifyNoData(t *testing.T) {
	if _, err := Classify(0, nil); !errors.Is(err, ErrNoRecords) {
		t.Fatalf("expected no records, got %v", err)
	}
	if _, err := Classify(4, nil); !errors.Is(err, ErrNoScores) {
		t.Fatalf("expected no scores, got %v", err)
	}
}

func TestConsistencyIsClamped(t *testing.T) {
	for _, c := range []float64{consistency(1, 10), consistency(3, 0), consistency(0, 0)} {
		if c < 0 || c > 1 {
			t.Fatalf("consistency out of range: %v", c)
		}
	}
}

func TestPeriodSince(t *testing.T) {
	now := time.Date(2026, 5, 31, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		value string
		want  *time.Time
	}{
		{value: "last_month", want: ptr(now.AddDate(0, -1, 0))},
		{value: "last_quarter", want: ptr(now.AddDate(0, -3, 0))},
		{value: "all"},
		{value: "last_decade"},
		{value: ""},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			got := ParsePeriod(tc.value).Since(now)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("expected unrestricted window, got %v", *got)
				}
				return
			}
			if got == nil || !got.Equal(*tc.want) {
				t.Fatalf("expected %v, got %v", *tc.want, got)
			}
		})
	}
}

func ptr(t time.Time) *time.Time { return &t }

package performance

import (
	"fmt"
	"math"

	"workforce/internal/domain/apperr"
)

func (s Scores) communication() []*float64 {
	return []*float64{s.ComResponsibility, s.ComCommitment, s.ComInitiative, s.ComWillingness, s.ComCommunication}
}

func (s Scores) quality() []*float64 {
	return []*float64{s.QualSpeed, s.QualDelibOmission, s.QualAccuracy, s.QualAttention, s.QualUnannotated, s.QualUnderstanding}
}

// ComputeTotals derives the composite scores from whichever sub-scores are
// present. Absent inputs are excluded from the mean, never counted as zero.
func ComputeTotals(s Scores) Totals {
	com := meanOfPresent(s.communication())
	qual := meanOfPresent(s.quality())
	return Totals{ComTotal: com, QualTotal: qual, OverallScore: overall(com, qual)}
}

func meanOfPresent(values []*float64) *float64 {
	var sum float64
	var n int
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}

func overall(com, qual *float64) *float64 {
	switch {
	case com != nil && qual != nil:
		v := (*com + *qual) / 2
		return &v
	case com != nil:
		v := *com
		return &v
	case qual != nil:
		v := *qual
		return &v
	}
	return nil
}

// Merge overlays the supplied update onto the stored record and recomputes
// the totals from the merged sub-scores.
func Merge(stored Record, in UpdateInput) Record {
	out := stored
	out.HoursWorked = in.HoursWorked.Apply(stored.HoursWorked)
	out.AssetsCompleted = in.AssetsCompleted.Apply(stored.AssetsCompleted)
	out.TasksCompleted = in.TasksCompleted.Apply(stored.TasksCompleted)
	out.AvgTimePerTask = in.AvgTimePerTask.Apply(stored.AvgTimePerTask)

	out.ComResponsibility = in.ComResponsibility.Apply(stored.ComResponsibility)
	out.ComCommitment = in.ComCommitment.Apply(stored.ComCommitment)
	out.ComInitiative = in.ComInitiative.Apply(stored.ComInitiative)
	out.ComWillingness = in.ComWillingness.Apply(stored.ComWillingness)
	out.ComCommunication = in.ComCommunication.Apply(stored.ComCommunication)

	out.QualSpeed = in.QualSpeed.Apply(stored.QualSpeed)
	out.QualDelibOmission = in.QualDelibOmission.Apply(stored.QualDelibOmission)
	out.QualAccuracy = in.QualAccuracy.Apply(stored.QualAccuracy)
	out.QualAttention = in.QualAttention.Apply(stored.QualAttention)
	out.QualUnannotated = in.QualUnannotated.Apply(stored.QualUnannotated)
	out.QualUnderstanding = in.QualUnderstanding.Apply(stored.QualUnderstanding)
	out.QualRejectedCount = in.QualRejectedCount.Apply(stored.QualRejectedCount)

	out.Notes = in.Notes.Apply(stored.Notes)
	out.Totals = ComputeTotals(out.Scores)
	return out
}

func validateScores(s Scores) []apperr.FieldIssue {
	named := []struct {
		field string
		value *float64
	}{
		{"comResponsibility", s.ComResponsibility},
		{"comCommitment", s.ComCommitment},
		{"comInitiative", s.ComInitiative},
		{"comWillingness", s.ComWillingness},
		{"comCommunication", s.ComCommunication},
		{"qualSpeed", s.QualSpeed},
		{"qualDelibOmission", s.QualDelibOmission},
		{"qualAccuracy", s.QualAccuracy},
		{"qualAttention", s.QualAttention},
		{"qualUnannotated", s.QualUnannotated},
		{"qualUnderstanding", s.QualUnderstanding},
	}
	var issues []apperr.FieldIssue
	for _, item := range named {
		if item.value == nil {
			continue
		}
		v := *item.value
		if math.IsNaN(v) || v < MinScore || v > MaxScore {
			issues = append(issues, apperr.FieldIssue{Field: item.field, Reason: fmt.Sprintf("must be between %g and %g", MinScore, MaxScore)})
		}
	}
	if s.QualRejectedCount != nil && *s.QualRejectedCount < 0 {
		issues = append(issues, apperr.FieldIssue{Field: "qualRejectedCount", Reason: "must not be negative"})
	}
	return issues
}

func validateWork(w Work) []apperr.FieldIssue {
	var issues []apperr.FieldIssue
	if w.HoursWorked != nil && *w.HoursWorked < 0 {
		issues = append(issues, apperr.FieldIssue{Field: "hoursWorked", Reason: "must not be negative"})
	}
	if w.AssetsCompleted != nil && *w.AssetsCompleted < 0 {
		issues = append(issues, apperr.FieldIssue{Field: "assetsCompleted", Reason: "must not be negative"})
	}
	if w.TasksCompleted != nil && *w.TasksCompleted < 0 {
		issues = append(issues, apperr.FieldIssue{Field: "tasksCompleted", Reason: "must not be negative"})
	}
	if w.AvgTimePerTask != nil && *w.AvgTimePerTask < 0 {
		issues = append(issues, apperr.FieldIssue{Field: "avgTimePerTask", Reason: "must not be negative"})
	}
	return issues
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// buildSummary averages only records where the total is present.
func buildSummary(freelancerID string, records []Record) Summary {
	summary := Summary{FreelancerID: freelancerID, TotalRecords: len(records), RecentRecords: []Record{}}
	if len(records) == 0 {
		return summary
	}
	var com, qual, overallScores []*float64
	stats := SummaryStats{}
	for _, r := range records {
		com = append(com, r.ComTotal)
		qual = append(qual, r.QualTotal)
		overallScores = append(overallScores, r.OverallScore)
		if r.HoursWorked != nil {
			stats.TotalHoursWorked += *r.HoursWorked
		}
		if r.AssetsCompleted != nil {
			stats.TotalAssetsCompleted += *r.AssetsCompleted
		}
		if r.TasksCompleted != nil {
			stats.TotalTasksCompleted += *r.TasksCompleted
		}
	}
	stats.AvgComTotal = round2(valueOrZero(meanOfPresent(com)))
	stats.AvgQualTotal = round2(valueOrZero(meanOfPresent(qual)))
	stats.AvgOverallScore = round2(valueOrZero(meanOfPresent(overallScores)))
	summary.Summary = &stats

	recent := records
	if len(recent) > recentCount {
		recent = recent[:recentCount]
	}
	summary.RecentRecords = recent
	return summary
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

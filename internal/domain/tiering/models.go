package tiering

import "workforce/internal/domain/freelancer"

// Subject is the slice of a freelancer profile classification works on.
type Subject struct {
	ID             string           `json:"id"`
	FreelancerCode string           `json:"freelancerId"`
	UserID         string           `json:"-"`
	FirstName      string           `json:"firstName"`
	LastName       string           `json:"lastName"`
	Status         string           `json:"status"`
	CurrentTier    freelancer.Tier  `json:"currentTier"`
	CurrentGrade   freelancer.Grade `json:"currentGrade"`
}

func (s Subject) Name() string {
	return s.FirstName + " " + s.LastName
}

func (s Subject) Label() string {
	return label(s.CurrentTier, s.CurrentGrade)
}

func label(t freelancer.Tier, g freelancer.Grade) string {
	return string(t) + "-" + string(g)
}

type Options struct {
	Period    string `json:"period"`
	ProjectID string `json:"projectId"`
}

type TierGrade struct {
	Tier  freelancer.Tier  `json:"tier"`
	Grade freelancer.Grade `json:"grade"`
}

type Calculation struct {
	AvgScore        float64 `json:"avgScore"`
	Consistency     float64 `json:"consistency"`
	RecordsAnalyzed int     `json:"recordsAnalyzed"`
	Period          Period  `json:"period"`
}

type CalculationResult struct {
	FreelancerID string      `json:"freelancerId"`
	Calculation  Calculation `json:"calculation"`
	Current      TierGrade   `json:"current"`
	Recommended  TierGrade   `json:"recommended"`
	Changed      bool        `json:"changed"`
	Message      string      `json:"message"`
}

type ApplyInput struct {
	Tier   string `json:"tier"`
	Grade  string `json:"grade"`
	Reason string `json:"reason"`
}

type Change struct {
	From      string `json:"from"`
	To        string `json:"to"`
	ChangedBy string `json:"changedBy"`
	Reason    string `json:"reason"`
}

type ApplyResult struct {
	Freelancer Subject `json:"freelancer"`
	Change     Change  `json:"change"`
}

type BulkOptions struct {
	Period    string `json:"period"`
	ProjectID string `json:"projectId"`
	AutoApply bool   `json:"autoApply"`
}

const (
	BulkSkipped        = "skipped"
	BulkError          = "error"
	BulkNoChange       = "no_change"
	BulkChangeDetected = "change_detected"
	BulkUpdated        = "updated"
)

type BulkItem struct {
	FreelancerID string   `json:"freelancerId"`
	Name         string   `json:"name"`
	Status       string   `json:"status"`
	From         string   `json:"from,omitempty"`
	To           string   `json:"to,omitempty"`
	AvgScore     *float64 `json:"avgScore,omitempty"`
	Consistency  *float64 `json:"consistency,omitempty"`
	Reason       string   `json:"reason,omitempty"`
	Error        string   `json:"error,omitempty"`
}

type BulkSummary struct {
	Total           int `json:"total"`
	Updated         int `json:"updated"`
	ChangesDetected int `json:"changesDetected"`
	NoChange        int `json:"noChange"`
	Skipped         int `json:"skipped"`
	Errors          int `json:"errors"`
}

type BulkResult struct {
	Summary BulkSummary `json:"summary"`
	Results []BulkItem  `json:"results"`
}

type Stats struct {
	Total       int            `json:"total"`
	ByTier      map[string]int `json:"byTier"`
	ByGrade     map[string]int `json:"byGrade"`
	ByTierGrade map[string]int `json:"byTierGrade"`
}

type TierGradeCount struct {
	Tier  string
	Grade string
	Count int
}

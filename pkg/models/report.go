package models

import (
	"time"

	"github.com/google/uuid"
)

// RuleResult is the outcome of one rule evaluated against one snapshot
type RuleResult struct {
	Name           string   `json:"name"`
	Column         string   `json:"column"`
	Passed         bool     `json:"passed"`
	Details        string   `json:"details"`
	ViolationCount int      `json:"violation_count,omitempty"`
	ObservedMin    *float64 `json:"observed_min,omitempty"`
	ObservedMax    *float64 `json:"observed_max,omitempty"`
}

// Report aggregates the results of one evaluation run
type Report struct {
	ID        string       `json:"report_id"`
	SuiteName string       `json:"suite_name"`
	Timestamp time.Time    `json:"timestamp"`
	RowCount  int          `json:"row_count"`
	Results   []RuleResult `json:"results"`
}

// NewReport creates a report with a fresh identifier and the current time
func NewReport(suiteName string, rowCount int, results []RuleResult) *Report {
	return &Report{
		ID:        uuid.New().String(),
		SuiteName: suiteName,
		Timestamp: time.Now().UTC(),
		RowCount:  rowCount,
		Results:   results,
	}
}

// TotalChecks returns the number of evaluated rules
func (r *Report) TotalChecks() int {
	return len(r.Results)
}

// PassedCount returns the number of passing results
func (r *Report) PassedCount() int {
	count := 0
	for _, res := range r.Results {
		if res.Passed {
			count++
		}
	}
	return count
}

// FailedCount returns the number of failing results
func (r *Report) FailedCount() int {
	return len(r.Results) - r.PassedCount()
}

// SuccessRate returns the percentage of passing rules, 0.0 when no rules ran
func (r *Report) SuccessRate() float64 {
	if len(r.Results) == 0 {
		return 0.0
	}
	return float64(r.PassedCount()) / float64(len(r.Results)) * 100.0
}

// IsSuccess reports whether every rule passed. A report with no results
// counts as successful.
func (r *Report) IsSuccess() bool {
	return r.FailedCount() == 0
}

// FailedResults returns the failing results in evaluation order
func (r *Report) FailedResults() []RuleResult {
	failed := make([]RuleResult, 0)
	for _, res := range r.Results {
		if !res.Passed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Document flattens the report into the export shape written to JSON
func (r *Report) Document() map[string]interface{} {
	results := make([]map[string]interface{}, 0, len(r.Results))
	for _, res := range r.Results {
		entry := map[string]interface{}{
			"name":    res.Name,
			"passed":  res.Passed,
			"column":  res.Column,
			"details": res.Details,
		}
		results = append(results, entry)
	}

	return map[string]interface{}{
		"report_id":    r.ID,
		"suite_name":   r.SuiteName,
		"timestamp":    r.Timestamp.Format(time.RFC3339),
		"row_count":    r.RowCount,
		"total_checks": r.TotalChecks(),
		"passed":       r.PassedCount(),
		"failed":       r.FailedCount(),
		"success_rate": r.SuccessRate(),
		"is_success":   r.IsSuccess(),
		"results":      results,
	}
}

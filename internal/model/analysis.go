package model

import (
	"errors"
	"time"
)

// ErrNoItems is returned when a batch operation is invoked with zero items
var ErrNoItems = errors.New("no items to analyze")

// ComplianceIssue is a provable problem found on an item. Every issue is
// traceable to a specific input field so the letter never asserts anything
// the report data cannot back up.
type ComplianceIssue struct {
	Code        string `json:"code"`
	Field       string `json:"field"` // Input field the issue derives from
	Description string `json:"description"`
	// Metro2 marks issues that map to a Metro 2 format violation; their
	// descriptions are quoted in letter bodies.
	Metro2 bool `json:"metro2,omitempty"`
}

// ItemAnalysisResult is the per-item output of the analyzer. Created fresh
// on every analysis call and never mutated afterwards.
type ItemAnalysisResult struct {
	ItemID      string          `json:"item_id"`
	Methodology MethodologyCode `json:"methodology"`

	// ReasonCodes is deduplicated and preserves first-seen order.
	ReasonCodes []string          `json:"reason_codes"`
	Issues      []ComplianceIssue `json:"issues,omitempty"`
	Citations   []string          `json:"citations,omitempty"`

	// Confidence is in [0,1], adjusted only by provable findings.
	Confidence float64 `json:"confidence"`
	Notes      string  `json:"notes,omitempty"`

	Round      int       `json:"round"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// Metro2Violations returns the descriptions of Metro 2 issues, for letter
// content
func (r *ItemAnalysisResult) Metro2Violations() []string {
	var out []string
	for _, issue := range r.Issues {
		if issue.Metro2 {
			out = append(out, issue.Description)
		}
	}
	return out
}

// HasReason reports whether the result carries the reason code
func (r *ItemAnalysisResult) HasReason(code string) bool {
	for _, c := range r.ReasonCodes {
		if c == code {
			return true
		}
	}
	return false
}

// BatchSummary consolidates multiple item analyses for one letter
type BatchSummary struct {
	ItemCount   int             `json:"item_count"`
	Methodology MethodologyCode `json:"methodology"` // Highest priority among members

	ReasonCodes []string          `json:"reason_codes"`
	Issues      []ComplianceIssue `json:"issues,omitempty"`
	Citations   []string          `json:"citations,omitempty"`

	AvgConfidence float64 `json:"avg_confidence"`
	Notes         string  `json:"notes,omitempty"`
}

// MergeResults merges a later analysis pass over a prior one, keyed by item
// id. Latest wins only for ids the later pass actually analyzed; prior
// results for ids missing from latest are preserved. Order follows prior,
// with new ids appended.
func MergeResults(prior, latest []ItemAnalysisResult) []ItemAnalysisResult {
	latestByID := make(map[string]ItemAnalysisResult, len(latest))
	for _, r := range latest {
		latestByID[r.ItemID] = r
	}

	merged := make([]ItemAnalysisResult, 0, len(prior)+len(latest))
	seen := make(map[string]bool, len(prior))

	for _, r := range prior {
		if newer, ok := latestByID[r.ItemID]; ok {
			merged = append(merged, newer)
		} else {
			merged = append(merged, r)
		}
		seen[r.ItemID] = true
	}

	for _, r := range latest {
		if !seen[r.ItemID] {
			merged = append(merged, r)
		}
	}

	return merged
}

package analyze

import (
	"strings"

	"github.com/toptierfs/disputekit/internal/model"
)

// Aggregate consolidates per-item analyses into one batch summary for a
// combined letter. Methodology selection follows the fixed priority order
// (consumer_law > method_of_verification > debt_validation >
// metro2_compliance > factual); reason codes, issues, and citations are
// set-unioned; confidence is the arithmetic mean.
//
// Zero items is a caller error, not an empty summary.
func Aggregate(results []model.ItemAnalysisResult) (model.BatchSummary, error) {
	if len(results) == 0 {
		return model.BatchSummary{}, model.ErrNoItems
	}

	summary := model.BatchSummary{
		ItemCount:   len(results),
		Methodology: results[0].Methodology,
	}

	var (
		reasons   []string
		issues    []model.ComplianceIssue
		citations []string
		notes     []string
		confSum   float64
	)

	for _, r := range results {
		if r.Methodology.Priority() > summary.Methodology.Priority() {
			summary.Methodology = r.Methodology
		}
		reasons = append(reasons, r.ReasonCodes...)
		issues = append(issues, r.Issues...)
		citations = append(citations, r.Citations...)
		confSum += r.Confidence
		if r.Notes != "" {
			notes = append(notes, r.Notes)
		}
	}

	summary.ReasonCodes = dedupe(reasons)
	summary.Issues = dedupeIssues(issues)
	summary.Citations = dedupe(citations)
	summary.AvgConfidence = confSum / float64(len(results))
	summary.Notes = strings.Join(notes, "\n")

	return summary, nil
}

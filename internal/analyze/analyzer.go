// Package analyze contains the per-item dispute analyzer and the batch
// aggregator. Analysis is synchronous and stateless per call: results are
// built fresh and never mutated after return.
package analyze

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/toptierfs/disputekit/internal/escalate"
	"github.com/toptierfs/disputekit/internal/furnisher"
	"github.com/toptierfs/disputekit/internal/model"
	"github.com/toptierfs/disputekit/internal/registry"
	"github.com/toptierfs/disputekit/internal/temporal"
)

// Confidence model. A single deterministic accumulator: start at the
// baseline and raise it only for provable findings. Absence of evidence
// never lowers it.
const (
	confidenceBaseline   = 0.5
	confidenceObsolete   = 0.9 // Floor, not increment: independently verifiable
	confidenceMissingOC  = 0.15
	confidenceMetro2Find = 0.05
	confidenceWillful    = 0.10
)

// Analyzer produces a structured dispute analysis for one negative item
type Analyzer struct {
	classifier *furnisher.Classifier
	registry   *registry.Registry
	validate   *validator.Validate

	// now is injectable for tests; defaults to time.Now
	now func() time.Time
}

// NewAnalyzer creates an analyzer with its injected dependencies
func NewAnalyzer(classifier *furnisher.Classifier, reg *registry.Registry) *Analyzer {
	return &Analyzer{
		classifier: classifier,
		registry:   reg,
		validate:   validator.New(),
		now:        time.Now,
	}
}

// WithClock overrides the analyzer's clock. Test hook.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// Analyze runs the full per-item policy for the given round.
//
// The result never contains an ownership-claim reason code: those assert
// facts only the client can confirm, and fabricating one would expose the
// client (and the operation) to liability.
func (a *Analyzer) Analyze(item model.NegativeItem, round int) (model.ItemAnalysisResult, error) {
	if round < 1 {
		round = 1
	}
	if err := a.validate.Struct(item); err != nil {
		return model.ItemAnalysisResult{}, fmt.Errorf("invalid item: %w", err)
	}

	now := a.now()
	confidence := confidenceBaseline

	var (
		reasons   []string
		issues    []model.ComplianceIssue
		citations []string
		notes     []string
	)

	// Every dispute carries the baseline verification demand.
	reasons = append(reasons, model.ReasonVerificationRequired)

	// 1. Regulatory age. A past-limit item is the strongest possible
	// finding because the bureau's own dates prove it.
	finding := temporal.Evaluate(item.Category, item.DateReported, item.DateLastActivity, now)
	if finding.PastLimit {
		reasons = append(reasons, model.ReasonObsolete)
		citations = append(citations, finding.Citation)
		issues = append(issues, model.ComplianceIssue{
			Code:        model.ReasonObsolete,
			Field:       "date_reported",
			Description: fmt.Sprintf("item is %.1f years old, beyond the %.0f-year reporting limit", finding.ElapsedYears, finding.LimitYears),
		})
		if confidence < confidenceObsolete {
			confidence = confidenceObsolete
		}
		notes = append(notes, fmt.Sprintf("Obsolete: reported %.1f years ago (limit %.0f).", finding.ElapsedYears, finding.LimitYears))
	} else if finding.ApproachingLimit {
		// Advisory only. Not a reason code, never blocks or boosts.
		notes = append(notes, fmt.Sprintf("Approaching reporting limit: %.1f of %.0f years elapsed.", finding.ElapsedYears, finding.LimitYears))
	}

	// 2. Missing original creditor. Only provable when the furnisher is a
	// known collector; flagging an original creditor for not naming an
	// "original creditor" would fabricate a violation.
	if item.Category == model.CategoryCollection && item.OriginalCreditor == "" {
		if fragment, kind := a.classifier.Match(item.FurnisherName); kind == furnisher.MatchCollector {
			reasons = append(reasons, model.ReasonIncompleteData)
			issues = append(issues, model.ComplianceIssue{
				Code:        model.ReasonIncompleteData,
				Field:       "original_creditor",
				Description: "collection tradeline does not identify the original creditor",
				Metro2:      true,
			})
			confidence += confidenceMissingOC
			notes = append(notes, fmt.Sprintf("Furnisher matched collector fragment %q with no original creditor on file.", fragment))
		}
	}

	// 3. Metro 2 field consistency.
	for _, issue := range metro2Findings(item) {
		reasons = append(reasons, model.ReasonMetro2Violation)
		issues = append(issues, issue)
		confidence += confidenceMetro2Find
	}

	// 4. Category policy: default methodology plus legal framing.
	methodology, categoryReasons, categoryCitations, categoryNote := a.categoryPolicy(item, round)
	reasons = append(reasons, categoryReasons...)
	citations = append(citations, categoryCitations...)
	if categoryNote != "" {
		notes = append(notes, categoryNote)
	}

	// 5. Round overrides.
	methodology = escalate.MethodologyForRound(round, methodology)
	if round >= 2 {
		citations = append(citations, "FCRA Section 611(a)(7) [15 U.S.C. 1681i] - method of verification on request")
	}
	if round >= 3 {
		citations = append(citations, "FCRA Section 616 [15 U.S.C. 1681n] - civil liability for willful noncompliance")
		confidence += confidenceWillful
		notes = append(notes, "Round 3+: continued reporting after unresolved disputes supports a willful-noncompliance position.")
	}

	// A methodology outside its valid round range is clamped to factual
	// rather than emitted.
	if m, ok := a.registry.Methodology(methodology); ok && !m.ValidForRound(round) {
		methodology = model.MethodologyFactual
	}

	if confidence > 1 {
		confidence = 1
	}

	return model.ItemAnalysisResult{
		ItemID:      item.ID,
		Methodology: methodology,
		ReasonCodes: dedupe(reasons),
		Issues:      dedupeIssues(issues),
		Citations:   dedupe(citations),
		Confidence:  confidence,
		Notes:       strings.Join(notes, " "),
		Round:       round,
		AnalyzedAt:  now,
	}, nil
}

// categoryPolicy picks the round-1 methodology and legal framing for the
// item's category. Unknown categories get the generic verification branch.
func (a *Analyzer) categoryPolicy(item model.NegativeItem, round int) (model.MethodologyCode, []string, []string, string) {
	switch item.Category {
	case model.CategoryCollection:
		citations := []string{"FDCPA Section 809 [15 U.S.C. 1692g] - validation of debts"}
		note := "Collection account: debt validation frame."
		if round >= 2 {
			note = "Collection account: prior validation demand unanswered or unverified."
		}
		return model.MethodologyDebtValidation, []string{model.ReasonUnverifiedDebt}, citations, note

	case model.CategoryChargeOff, model.CategoryLatePayment, model.CategoryRepossession,
		model.CategoryForeclosure, model.CategoryBankruptcy:
		citations := []string{"FCRA Section 611 [15 U.S.C. 1681i] - reinvestigation of disputed information"}
		return model.MethodologyFactual, nil, citations, "Factual verification frame."

	case model.CategoryJudgment, model.CategoryTaxLien:
		citations := []string{
			"FCRA Section 613 [15 U.S.C. 1681k] - public record information duties",
			"FCRA Section 611 [15 U.S.C. 1681i] - reinvestigation of disputed information",
		}
		return model.MethodologyFactual, nil, citations, "Public record: consumer-law frame citing investigation duties."

	case model.CategoryInquiry:
		citations := []string{"FCRA Section 604 [15 U.S.C. 1681b] - permissible purposes of consumer reports"}
		return model.MethodologyFactual, []string{model.ReasonUnauthorizedInquiry}, citations, "Inquiry: permissible-purpose frame."

	default:
		return model.MethodologyFactual, nil, nil, "Unrecognized category: generic verification frame."
	}
}

// metro2Findings returns field-level Metro 2 consistency issues. Each is
// traceable to a specific input field and worth a small confidence bump.
func metro2Findings(item model.NegativeItem) []model.ComplianceIssue {
	var issues []model.ComplianceIssue

	if item.DateReported == nil && item.Category != model.CategoryInquiry {
		issues = append(issues, model.ComplianceIssue{
			Code:        model.ReasonMetro2Violation,
			Field:       "date_reported",
			Description: "no date reported on file; Metro 2 requires the date of first delinquency",
			Metro2:      true,
		})
	}

	if item.Category == model.CategoryCollection && (item.Amount == nil || *item.Amount <= 0) {
		issues = append(issues, model.ComplianceIssue{
			Code:        model.ReasonMetro2Violation,
			Field:       "amount",
			Description: "collection reported without a balance; Metro 2 requires the amount field",
			Metro2:      true,
		})
	}

	if isDerogatory(item.Category) && indicatesCurrent(item.PaymentStatus) {
		issues = append(issues, model.ComplianceIssue{
			Code:        model.ReasonMetro2Violation,
			Field:       "payment_status",
			Description: fmt.Sprintf("payment status %q is inconsistent with a %s tradeline", item.PaymentStatus, item.Category),
			Metro2:      true,
		})
	}

	return issues
}

func isDerogatory(c model.ItemCategory) bool {
	switch c {
	case model.CategoryCollection, model.CategoryChargeOff, model.CategoryRepossession,
		model.CategoryForeclosure, model.CategoryLatePayment:
		return true
	}
	return false
}

func indicatesCurrent(status string) bool {
	s := strings.ToLower(status)
	return strings.Contains(s, "current") || strings.Contains(s, "pays as agreed") ||
		strings.Contains(s, "paid as agreed")
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func dedupeIssues(issues []model.ComplianceIssue) []model.ComplianceIssue {
	seen := make(map[string]bool, len(issues))
	out := make([]model.ComplianceIssue, 0, len(issues))
	for _, issue := range issues {
		key := issue.Code + "|" + issue.Field + "|" + issue.Description
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, issue)
	}
	return out
}

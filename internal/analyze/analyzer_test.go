package analyze

import (
	"strings"
	"testing"
	"time"

	"github.com/toptierfs/disputekit/internal/furnisher"
	"github.com/toptierfs/disputekit/internal/model"
	"github.com/toptierfs/disputekit/internal/registry"
)

var testNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	reg, err := registry.NewDefault()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	a := NewAnalyzer(furnisher.NewClassifier(nil), reg)
	return a.WithClock(func() time.Time { return testNow })
}

func datePtr(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func amountPtr(v float64) *float64 { return &v }

func TestAnalyze_MidlandCollectionScenario(t *testing.T) {
	// Collection from a known collector, no original creditor, reported
	// 8 years ago, round 1.
	a := newTestAnalyzer(t)

	item := model.NegativeItem{
		ID:            "item-1",
		FurnisherName: "Midland Credit Management",
		Category:      model.CategoryCollection,
		Amount:        amountPtr(1250),
		DateReported:  datePtr(2018, 6, 1),
		Bureau:        model.BureauExperian,
	}

	result, err := a.Analyze(item, 1)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if !result.HasReason(model.ReasonObsolete) {
		t.Error("expected obsolete reason code for an 8-year-old collection")
	}
	if !result.HasReason(model.ReasonIncompleteData) {
		t.Error("expected incomplete-data reason for missing original creditor")
	}
	if result.Confidence < 0.9 {
		t.Errorf("confidence = %.2f, want >= 0.9", result.Confidence)
	}
	if result.Methodology != model.MethodologyDebtValidation {
		t.Errorf("methodology = %s, want %s", result.Methodology, model.MethodologyDebtValidation)
	}

	var foundOC bool
	for _, issue := range result.Issues {
		if issue.Field == "original_creditor" {
			foundOC = true
		}
	}
	if !foundOC {
		t.Error("expected an issue citing the original_creditor field")
	}

	var found7y bool
	for _, c := range result.Citations {
		if strings.Contains(c, "1681c") {
			found7y = true
		}
	}
	if !found7y {
		t.Errorf("expected the 7-year citation, got %v", result.Citations)
	}
}

func TestAnalyze_MissingDatesNeverObsolete(t *testing.T) {
	a := newTestAnalyzer(t)

	item := model.NegativeItem{
		ID:            "item-2",
		FurnisherName: "LVNV Funding LLC",
		Category:      model.CategoryCollection,
		Amount:        amountPtr(300),
	}

	result, err := a.Analyze(item, 1)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.HasReason(model.ReasonObsolete) {
		t.Error("missing dates must never produce an obsolescence claim")
	}
	// Missing date is still a Metro 2 completeness finding.
	if !result.HasReason(model.ReasonMetro2Violation) {
		t.Error("expected a Metro 2 violation for the missing reported date")
	}
}

func TestAnalyze_OriginalCreditorNeverFlagged(t *testing.T) {
	a := newTestAnalyzer(t)

	// A bank reporting its own collection-coded account, originalCreditor
	// empty. The classifier recognizes the furnisher as an original
	// creditor, so no missing-original-creditor issue may be raised.
	item := model.NegativeItem{
		ID:            "item-3",
		FurnisherName: "Capital One Bank",
		Category:      model.CategoryCollection,
		Amount:        amountPtr(900),
		DateReported:  datePtr(2024, 1, 15),
	}

	result, err := a.Analyze(item, 1)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.HasReason(model.ReasonIncompleteData) {
		t.Error("original-creditor furnisher must not trigger a missing-original-creditor claim")
	}
	for _, issue := range result.Issues {
		if issue.Field == "original_creditor" {
			t.Errorf("unexpected original_creditor issue: %+v", issue)
		}
	}
}

func TestAnalyze_NeverEmitsOwnershipClaims(t *testing.T) {
	a := newTestAnalyzer(t)

	items := []model.NegativeItem{
		{ID: "a", FurnisherName: "Midland Credit Management", Category: model.CategoryCollection},
		{ID: "b", FurnisherName: "Chase Bank", Category: model.CategoryChargeOff, DateReported: datePtr(2017, 1, 1)},
		{ID: "c", FurnisherName: "County Court", Category: model.CategoryJudgment},
		{ID: "d", FurnisherName: "Some Lender", Category: "mystery_category"},
	}

	for round := 1; round <= 4; round++ {
		for _, item := range items {
			result, err := a.Analyze(item, round)
			if err != nil {
				t.Fatalf("Analyze(%s, %d): %v", item.ID, round, err)
			}
			for _, code := range result.ReasonCodes {
				if model.OwnershipClaimCodes[code] {
					t.Errorf("round %d item %s: analyzer emitted ownership-claim code %s", round, item.ID, code)
				}
			}
		}
	}
}

func TestAnalyze_CategoryDefaults(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		category model.ItemCategory
		want     model.MethodologyCode
		citation string
	}{
		{model.CategoryCollection, model.MethodologyDebtValidation, "1692g"},
		{model.CategoryChargeOff, model.MethodologyFactual, "1681i"},
		{model.CategoryLatePayment, model.MethodologyFactual, "1681i"},
		{model.CategoryJudgment, model.MethodologyFactual, "1681k"},
		{model.CategoryInquiry, model.MethodologyFactual, "1681b"},
		{"mystery_category", model.MethodologyFactual, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			item := model.NegativeItem{
				ID:            "x",
				FurnisherName: "Example Furnisher",
				Category:      tt.category,
				DateReported:  datePtr(2024, 1, 1),
			}

			result, err := a.Analyze(item, 1)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if result.Methodology != tt.want {
				t.Errorf("methodology = %s, want %s", result.Methodology, tt.want)
			}
			if !result.HasReason(model.ReasonVerificationRequired) {
				t.Error("verification_required must always be present")
			}
			if tt.citation != "" {
				var found bool
				for _, c := range result.Citations {
					if strings.Contains(c, tt.citation) {
						found = true
					}
				}
				if !found {
					t.Errorf("expected citation containing %q, got %v", tt.citation, result.Citations)
				}
			}
		})
	}
}

func TestAnalyze_InquiryObsolescence(t *testing.T) {
	a := newTestAnalyzer(t)

	item := model.NegativeItem{
		ID:            "inq-1",
		FurnisherName: "Car Dealer Finance",
		Category:      model.CategoryInquiry,
		DateReported:  datePtr(2023, 1, 1), // 3.4 years: past the 2-year inquiry limit
	}

	result, err := a.Analyze(item, 1)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if !result.HasReason(model.ReasonObsolete) {
		t.Error("inquiry past the 2-year limit should be flagged obsolete")
	}
	if result.Confidence < 0.9 {
		t.Errorf("confidence = %.2f, want >= 0.9", result.Confidence)
	}
}

func TestAnalyze_RoundOverrides(t *testing.T) {
	a := newTestAnalyzer(t)

	item := model.NegativeItem{
		ID:            "r-1",
		FurnisherName: "Chase Bank",
		Category:      model.CategoryChargeOff,
		DateReported:  datePtr(2024, 1, 1),
	}

	r2, err := a.Analyze(item, 2)
	if err != nil {
		t.Fatalf("Analyze round 2: %v", err)
	}
	if r2.Methodology != model.MethodologyMOV {
		t.Errorf("round 2 methodology = %s, want %s", r2.Methodology, model.MethodologyMOV)
	}

	r3, err := a.Analyze(item, 3)
	if err != nil {
		t.Fatalf("Analyze round 3: %v", err)
	}
	if r3.Methodology != model.MethodologyConsumerLaw {
		t.Errorf("round 3 methodology = %s, want %s", r3.Methodology, model.MethodologyConsumerLaw)
	}

	r1, _ := a.Analyze(item, 1)
	if r3.Confidence <= r1.Confidence {
		t.Errorf("round 3 confidence %.2f should exceed round 1 confidence %.2f (willful bump)", r3.Confidence, r1.Confidence)
	}

	var willful bool
	for _, c := range r3.Citations {
		if strings.Contains(c, "1681n") {
			willful = true
		}
	}
	if !willful {
		t.Error("round 3 should cite willful noncompliance")
	}
}

func TestAnalyze_InvalidInput(t *testing.T) {
	a := newTestAnalyzer(t)

	if _, err := a.Analyze(model.NegativeItem{Category: model.CategoryCollection}, 1); err == nil {
		t.Error("expected error for item without id and furnisher name")
	}
	if _, err := a.Analyze(model.NegativeItem{ID: "x", FurnisherName: "Y"}, 1); err == nil {
		t.Error("expected error for item without category")
	}
}

func TestAnalyze_DeduplicatesReasons(t *testing.T) {
	a := newTestAnalyzer(t)

	// Collection with no date and no amount: two separate Metro 2
	// findings, but metro2_violation must appear once.
	item := model.NegativeItem{
		ID:            "dup-1",
		FurnisherName: "Portfolio Recovery Associates",
		Category:      model.CategoryCollection,
	}

	result, err := a.Analyze(item, 1)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	counts := make(map[string]int)
	for _, code := range result.ReasonCodes {
		counts[code]++
	}
	for code, n := range counts {
		if n > 1 {
			t.Errorf("reason code %s appears %d times", code, n)
		}
	}

	if len(result.Issues) < 2 {
		t.Errorf("expected at least two distinct Metro 2 issues, got %d", len(result.Issues))
	}
}

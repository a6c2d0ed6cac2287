package analyze

import (
	"errors"
	"testing"

	"github.com/toptierfs/disputekit/internal/model"
)

func TestAggregate_MethodologyPriority(t *testing.T) {
	results := []model.ItemAnalysisResult{
		{ItemID: "a", Methodology: model.MethodologyFactual, Confidence: 0.5},
		{ItemID: "b", Methodology: model.MethodologyDebtValidation, Confidence: 0.7},
		{ItemID: "c", Methodology: model.MethodologyMOV, Confidence: 0.9},
	}

	summary, err := Aggregate(results)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if summary.Methodology != model.MethodologyMOV {
		t.Errorf("methodology = %s, want %s (highest priority)", summary.Methodology, model.MethodologyMOV)
	}
	if summary.ItemCount != 3 {
		t.Errorf("item count = %d, want 3", summary.ItemCount)
	}

	want := (0.5 + 0.7 + 0.9) / 3
	if diff := summary.AvgConfidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("avg confidence = %.4f, want %.4f", summary.AvgConfidence, want)
	}
}

func TestAggregate_UnionsReasonCodes(t *testing.T) {
	results := []model.ItemAnalysisResult{
		{
			ItemID:      "a",
			Methodology: model.MethodologyFactual,
			ReasonCodes: []string{model.ReasonVerificationRequired, model.ReasonObsolete},
			Citations:   []string{"FCRA Section 605"},
		},
		{
			ItemID:      "b",
			Methodology: model.MethodologyFactual,
			ReasonCodes: []string{model.ReasonVerificationRequired, model.ReasonMetro2Violation},
			Citations:   []string{"FCRA Section 605", "FCRA Section 611"},
		},
	}

	summary, err := Aggregate(results)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if len(summary.ReasonCodes) != 3 {
		t.Errorf("reason codes = %v, want 3 distinct codes", summary.ReasonCodes)
	}
	if len(summary.Citations) != 2 {
		t.Errorf("citations = %v, want 2 distinct citations", summary.Citations)
	}
}

func TestAggregate_EmptyInputIsError(t *testing.T) {
	if _, err := Aggregate(nil); !errors.Is(err, model.ErrNoItems) {
		t.Errorf("Aggregate(nil) error = %v, want ErrNoItems", err)
	}
}

func TestMergeResults(t *testing.T) {
	prior := []model.ItemAnalysisResult{
		{ItemID: "a", Confidence: 0.5},
		{ItemID: "b", Confidence: 0.6},
	}
	latest := []model.ItemAnalysisResult{
		{ItemID: "b", Confidence: 0.9},
		{ItemID: "c", Confidence: 0.7},
	}

	merged := model.MergeResults(prior, latest)

	if len(merged) != 3 {
		t.Fatalf("merged length = %d, want 3", len(merged))
	}
	if merged[0].ItemID != "a" || merged[0].Confidence != 0.5 {
		t.Errorf("item a should be preserved from prior: %+v", merged[0])
	}
	if merged[1].ItemID != "b" || merged[1].Confidence != 0.9 {
		t.Errorf("item b should be replaced by latest: %+v", merged[1])
	}
	if merged[2].ItemID != "c" {
		t.Errorf("item c should be appended from latest: %+v", merged[2])
	}
}

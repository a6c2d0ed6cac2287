package letter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/toptierfs/disputekit/internal/llm"
	"github.com/toptierfs/disputekit/internal/model"
	"github.com/toptierfs/disputekit/internal/registry"
)

var testNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

// stubCompleter returns a fixed response, or fails when failing is set
type stubCompleter struct {
	response string
	failing  bool
	calls    int
	prompts  []string
}

func (s *stubCompleter) Name() string                         { return "stub" }
func (s *stubCompleter) IsAvailable(ctx context.Context) bool { return !s.failing }
func (s *stubCompleter) Complete(ctx context.Context, p string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, p)
	if s.failing {
		return "", fmt.Errorf("service down")
	}
	return s.response, nil
}

func testRetry() llm.RetryPolicy {
	return llm.RetryPolicy{
		MaxAttempts: 2,
		BaseDelay:   time.Millisecond,
		Sleep:       func(ctx context.Context, d time.Duration) error { return nil },
	}
}

func testClient() model.Client {
	return model.Client{
		ID:          "client-1",
		FullName:    "Jane Q. Consumer",
		AddressLine: "123 Elm Street",
		City:        "Springfield",
		State:       "IL",
		ZipCode:     "62701",
		SSNLast4:    "1234",
	}
}

func testComposer(t *testing.T, completer llm.Completer) *Composer {
	t.Helper()
	reg, err := registry.NewDefault()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	c := NewComposer(reg, completer, testRetry())
	c.newID = func() string { return "letter-1" }
	return c.WithClock(func() time.Time { return testNow })
}

func midlandItem() model.NegativeItem {
	amount := 1250.0
	reported := time.Date(2018, 6, 1, 0, 0, 0, 0, time.UTC)
	return model.NegativeItem{
		ID:            "item-1",
		FurnisherName: "Midland Credit Management",
		Category:      model.CategoryCollection,
		Amount:        &amount,
		DateReported:  &reported,
		Bureau:        model.BureauExperian,
	}
}

func midlandRequest() ComposeRequest {
	return ComposeRequest{
		Client: testClient(),
		Items:  []model.NegativeItem{midlandItem()},
		Analyses: []model.ItemAnalysisResult{{
			ItemID:      "item-1",
			Methodology: model.MethodologyDebtValidation,
			ReasonCodes: []string{model.ReasonVerificationRequired, model.ReasonObsolete, model.ReasonIncompleteData},
			Citations:   []string{"FCRA Section 605(a) [15 U.S.C. 1681c] - adverse items may not be reported beyond 7 years"},
			Confidence:  0.95,
		}},
		Methodology: model.MethodologyDebtValidation,
		ReasonCodes: []string{model.ReasonVerificationRequired, model.ReasonObsolete, model.ReasonIncompleteData},
		Round:       1,
		Recipient:   model.RecipientBureau,
		Bureau:      model.BureauExperian,
		Confidence:  0.95,
	}
}

func TestCompose_FallbackLetterContent(t *testing.T) {
	// No completer configured: deterministic path.
	c := testComposer(t, nil)

	letter, err := c.Compose(context.Background(), midlandRequest())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if !letter.UsedFallback {
		t.Error("expected fallback with no completer configured")
	}

	text := letter.Text
	for _, want := range []string{
		"June 1, 2026",
		"Experian",
		"P.O. Box 4500",
		"Midland Credit Management",
		"1681c",          // 7-year obsolescence citation
		"DELETE",         // delete, never correct
		"within 30 days", // FCRA deadline
		"Jane Q. Consumer",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("fallback letter missing %q:\n%s", want, text)
		}
	}

	if strings.Contains(strings.ToLower(text), "does not belong") {
		t.Error("unconfirmed dispute must not contain ownership denial")
	}

	if !letter.ResponseDeadline.Equal(testNow.Add(30 * 24 * time.Hour)) {
		t.Errorf("response deadline = %v, want send date + 30 days", letter.ResponseDeadline)
	}
}

func TestCompose_Idempotent(t *testing.T) {
	stub := &stubCompleter{response: "Jane Q. Consumer disputes these accounts. You have 30 days to investigate and must delete anything unverifiable."}

	c1 := testComposer(t, stub)
	first, err := c1.Compose(context.Background(), midlandRequest())
	if err != nil {
		t.Fatalf("first Compose: %v", err)
	}

	second, err := c1.Compose(context.Background(), midlandRequest())
	if err != nil {
		t.Fatalf("second Compose: %v", err)
	}

	if first.Text != second.Text {
		t.Errorf("identical inputs with a deterministic completer must produce identical text:\n--- first\n%s\n--- second\n%s", first.Text, second.Text)
	}
	if len(stub.prompts) == 2 && stub.prompts[0] != stub.prompts[1] {
		t.Error("identical inputs must build identical prompts")
	}
}

func TestCompose_LLMPathPostProcessing(t *testing.T) {
	// Completion text lacking the date and address block gets both
	// inserted.
	stub := &stubCompleter{response: "I dispute the Midland Credit Management account. Investigate within 30 days and delete it if unverifiable."}
	c := testComposer(t, stub)

	letter, err := c.Compose(context.Background(), midlandRequest())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if letter.UsedFallback {
		t.Fatal("expected the template-driven path")
	}
	if !strings.Contains(letter.Text, "June 1, 2026") {
		t.Error("post-processing must insert the current date")
	}
	if !strings.Contains(letter.Text, "P.O. Box 4500") {
		t.Error("post-processing must insert the bureau address block")
	}
}

func TestCompose_ServiceFailureFallsBack(t *testing.T) {
	stub := &stubCompleter{failing: true}
	c := testComposer(t, stub)

	letter, err := c.Compose(context.Background(), midlandRequest())
	if err != nil {
		t.Fatalf("Compose must not fail when the service is down: %v", err)
	}

	if !letter.UsedFallback {
		t.Error("expected fallback indicator after service exhaustion")
	}
	if stub.calls != 2 {
		t.Errorf("calls = %d, want 2 (retry policy attempts)", stub.calls)
	}
	if !strings.Contains(letter.Text, "30 days") {
		t.Error("fallback letter missing mandatory deadline")
	}
}

func TestCompose_GuardrailDiscardsOwnershipDenial(t *testing.T) {
	// The service asserts the account was never opened; the reason codes
	// do not confirm that, so the text must be discarded for the
	// fallback.
	stub := &stubCompleter{response: "This account was never opened by me and does not belong to me. Delete it within 30 days."}
	c := testComposer(t, stub)

	letter, err := c.Compose(context.Background(), midlandRequest())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if !letter.UsedFallback {
		t.Error("guardrail-violating completion must be replaced by the fallback")
	}
	if strings.Contains(strings.ToLower(letter.Text), "never opened") {
		t.Error("ownership denial leaked into the final letter")
	}
}

func TestCompose_OwnershipCodesAllowedWithEvidence(t *testing.T) {
	c := testComposer(t, nil)

	req := midlandRequest()
	req.ReasonCodes = []string{model.ReasonIdentityTheft}

	// Without evidence: refused.
	_, err := c.Compose(context.Background(), req)
	if !errors.Is(err, ErrEvidenceInsufficient) {
		t.Fatalf("err = %v, want ErrEvidenceInsufficient", err)
	}

	// With a police report attached: allowed, and the ownership language
	// from the catalog may appear.
	req.Evidence = []model.EvidenceDocument{{ID: "doc-1", Category: model.EvidencePoliceReport, Label: "Police report #4711"}}
	letter, err := c.Compose(context.Background(), req)
	if err != nil {
		t.Fatalf("Compose with evidence: %v", err)
	}
	if !strings.Contains(letter.Text, "Police report #4711") {
		t.Error("evidence reference missing from letter")
	}

	// Explicit override instead of evidence also unblocks.
	req.Evidence = nil
	req.EvidenceOverride = true
	if _, err := c.Compose(context.Background(), req); err != nil {
		t.Fatalf("Compose with override: %v", err)
	}
}

func TestCompose_CombinedLetterFiltersByBureau(t *testing.T) {
	c := testComposer(t, nil)

	onExperian := midlandItem()
	onEquifaxOnly := model.NegativeItem{
		ID:            "item-2",
		FurnisherName: "LVNV Funding LLC",
		Category:      model.CategoryCollection,
		Bureaus:       []model.Bureau{model.BureauEquifax},
	}

	req := midlandRequest()
	req.Items = []model.NegativeItem{onExperian, onEquifaxOnly}

	letter, err := c.Compose(context.Background(), req)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if strings.Contains(letter.Text, "LVNV") {
		t.Error("item not reported to Experian must be excluded from the Experian letter")
	}
	if len(letter.ItemIDs) != 1 || letter.ItemIDs[0] != "item-1" {
		t.Errorf("letter item ids = %v, want [item-1]", letter.ItemIDs)
	}

	// All items excluded: error, not an empty letter.
	req.Items = []model.NegativeItem{onEquifaxOnly}
	if _, err := c.Compose(context.Background(), req); !errors.Is(err, ErrNoEligibleItems) {
		t.Errorf("err = %v, want ErrNoEligibleItems", err)
	}
}

func TestPlanCombined(t *testing.T) {
	items := []model.NegativeItem{
		{ID: "a", Bureaus: []model.Bureau{model.BureauExperian, model.BureauEquifax}},
		{ID: "b", Bureaus: []model.Bureau{model.BureauTransUnion}},
		{ID: "c"}, // no bureau data: assumed everywhere
	}

	kept := PlanCombined(items, model.BureauExperian)
	if len(kept) != 2 || kept[0].ID != "a" || kept[1].ID != "c" {
		ids := make([]string, 0, len(kept))
		for _, it := range kept {
			ids = append(ids, it.ID)
		}
		t.Errorf("kept = %v, want [a c]", ids)
	}
}

func TestCompose_CombinedLetterAggregateDemand(t *testing.T) {
	c := testComposer(t, nil)

	second := midlandItem()
	second.ID = "item-2"
	second.FurnisherName = "Portfolio Recovery Associates"

	req := midlandRequest()
	req.Items = []model.NegativeItem{midlandItem(), second}

	letter, err := c.Compose(context.Background(), req)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if !strings.Contains(letter.Text, "DELETE ALL listed accounts") {
		t.Error("multi-item letter must state the aggregate deletion demand")
	}
}

func TestCompose_InvalidInput(t *testing.T) {
	c := testComposer(t, nil)

	req := midlandRequest()
	req.Items = nil
	if _, err := c.Compose(context.Background(), req); !errors.Is(err, model.ErrNoItems) {
		t.Errorf("err = %v, want ErrNoItems", err)
	}

	req = midlandRequest()
	req.Client = model.Client{ID: "x"}
	if _, err := c.Compose(context.Background(), req); err == nil {
		t.Error("expected error for incomplete client record")
	}
}

func TestCompose_UnknownMethodologyFallsBack(t *testing.T) {
	stub := &stubCompleter{response: "should not be used"}
	c := testComposer(t, stub)

	req := midlandRequest()
	req.Methodology = "nonexistent_methodology"

	letter, err := c.Compose(context.Background(), req)
	if err != nil {
		t.Fatalf("unknown methodology must not fail the operation: %v", err)
	}
	if !letter.UsedFallback {
		t.Error("unknown methodology should use the deterministic template")
	}
	if stub.calls != 0 {
		t.Error("no completion call should be made without a template")
	}
}

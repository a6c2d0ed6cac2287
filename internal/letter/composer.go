// Package letter composes final dispute letters: a template-driven path
// through the pluggable text-completion service, and a deterministic
// fallback used whenever that service or the registry cannot serve.
package letter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/toptierfs/disputekit/internal/evidence"
	"github.com/toptierfs/disputekit/internal/llm"
	"github.com/toptierfs/disputekit/internal/model"
	"github.com/toptierfs/disputekit/internal/registry"
)

// ErrEvidenceInsufficient blocks generation until the required documents
// are attached or the caller overrides with an explicit confirmation.
var ErrEvidenceInsufficient = errors.New("evidence insufficient for selected reason codes")

// ErrNoEligibleItems means every item was excluded from the target
// bureau's letter.
var ErrNoEligibleItems = errors.New("no items eligible for the target recipient")

// ComposeRequest carries everything the composer needs for one letter
type ComposeRequest struct {
	Client   model.Client
	Items    []model.NegativeItem
	Analyses []model.ItemAnalysisResult

	Methodology model.MethodologyCode
	ReasonCodes []string
	Evidence    []model.EvidenceDocument

	Round     int
	Recipient model.RecipientType
	// Bureau is required when Recipient is the bureau; it selects the
	// address block and filters combined-letter items.
	Bureau model.Bureau
	// RecipientName addresses creditor/collector letters.
	RecipientName string

	// EvidenceOverride forces generation past a failed evidence check.
	// The override is recorded in the validation result for audit.
	EvidenceOverride bool

	// Confidence is the batch confidence carried into letter metadata.
	Confidence float64
}

// Composer merges client, item, methodology, and evidence data into a
// final letter
type Composer struct {
	registry  *registry.Registry
	completer llm.Completer // nil: deterministic path only
	retry     llm.RetryPolicy
	evidence  *evidence.Validator
	validate  *validator.Validate

	now   func() time.Time
	newID func() string
}

// NewComposer creates a composer. A nil completer disables the
// template-driven path; every letter then uses the deterministic
// template.
func NewComposer(reg *registry.Registry, completer llm.Completer, retry llm.RetryPolicy) *Composer {
	return &Composer{
		registry:  reg,
		completer: completer,
		retry:     retry,
		evidence:  evidence.NewValidator(reg),
		validate:  validator.New(),
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// WithClock overrides the composer's clock. Test hook.
func (c *Composer) WithClock(now func() time.Time) *Composer {
	c.now = now
	return c
}

// letterData is the assembled substitution data shared by both paths
type letterData struct {
	clientName     string
	clientAddress  string
	ssnLast4       string
	recipientBlock string
	currentDate    string

	items        []model.NegativeItem
	reasonText   []string
	violations   []string
	citations    []string
	evidenceRefs []string
}

// Compose produces the final letter. The evidence policy gate runs on
// every call; composition is withheld on a failed, un-overridden check.
// Completion-service failure is recovered locally: the deterministic
// template produces the letter and UsedFallback marks it.
func (c *Composer) Compose(ctx context.Context, req ComposeRequest) (model.Letter, error) {
	if len(req.Items) == 0 {
		return model.Letter{}, model.ErrNoItems
	}
	if err := c.validate.Struct(req.Client); err != nil {
		return model.Letter{}, fmt.Errorf("invalid client record: %w", err)
	}
	if req.Round < 1 {
		req.Round = 1
	}

	// Combined-letter eligibility: an item not reported to the target
	// bureau is excluded from that bureau's letter.
	items := req.Items
	analyses := req.Analyses
	if req.Recipient == model.RecipientBureau && req.Bureau != "" {
		items, analyses = filterByBureau(req.Items, req.Analyses, req.Bureau)
		if len(items) == 0 {
			return model.Letter{}, fmt.Errorf("%w: bureau %s", ErrNoEligibleItems, req.Bureau)
		}
	}

	// Evidence gate. Never cached, recomputed per attempt.
	check := c.evidence.Validate(req.ReasonCodes, req.Evidence, req.EvidenceOverride)
	if check.Blocks() {
		return model.Letter{}, fmt.Errorf("%w: %s", ErrEvidenceInsufficient, strings.Join(check.BlockingReasons, "; "))
	}

	now := c.now()
	data := c.buildLetterData(req, items, analyses, now)

	text, usedFallback := c.composeText(ctx, req, data)

	// Mandatory content invariants. The fallback always satisfies them,
	// so a violation here is registry corruption or a composer bug, and
	// the letter must not leave the engine.
	if err := checkGuardrails(text, req.ReasonCodes); err != nil {
		return model.Letter{}, err
	}

	itemIDs := make([]string, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	return model.Letter{
		ID:               c.newID(),
		Text:             text,
		Methodology:      req.Methodology,
		ReasonCodes:      req.ReasonCodes,
		Round:            req.Round,
		Recipient:        req.Recipient,
		Bureau:           req.Bureau,
		ItemIDs:          itemIDs,
		Confidence:       req.Confidence,
		UsedFallback:     usedFallback,
		GeneratedAt:      now,
		ResponseDeadline: now.Add(30 * 24 * time.Hour),
	}, nil
}

// composeText tries the template-driven path and falls back to the
// deterministic letter on any failure: no completer, unknown methodology,
// render error, service exhaustion, or generated text that violates the
// content guardrails.
func (c *Composer) composeText(ctx context.Context, req ComposeRequest, data *letterData) (string, bool) {
	if c.completer == nil {
		return fallbackLetter(data), true
	}

	tmpl, ok := c.registry.Template(req.Methodology)
	if !ok {
		// ConfigurationMissing: recovered locally, never surfaced.
		return fallbackLetter(data), true
	}

	prompt, err := tmpl.Render(c.promptValues(req, data), req.Round, req.Recipient)
	if err != nil {
		return fallbackLetter(data), true
	}

	text, err := c.retry.Do(ctx, func(ctx context.Context) (string, error) {
		return c.completer.Complete(ctx, prompt)
	})
	if err != nil {
		return fallbackLetter(data), true
	}

	text = c.postProcess(text, data)
	if err := checkGuardrails(text, req.ReasonCodes); err != nil {
		// Generated text asserted something it must not, or dropped
		// mandatory language. Discard it rather than repair it.
		return fallbackLetter(data), true
	}

	return text, false
}

// postProcess guarantees the generated text carries a current date and the
// correct recipient address block, inserting either if missing.
func (c *Composer) postProcess(text string, data *letterData) string {
	firstRecipientLine := strings.SplitN(data.recipientBlock, "\n", 2)[0]
	if !strings.Contains(text, firstRecipientLine) {
		text = data.recipientBlock + "\n\n" + text
	}
	if !strings.Contains(text, data.currentDate) {
		text = data.currentDate + "\n\n" + text
	}
	return text
}

func (c *Composer) buildLetterData(req ComposeRequest, items []model.NegativeItem, analyses []model.ItemAnalysisResult, now time.Time) *letterData {
	data := &letterData{
		clientName: req.Client.FullName,
		clientAddress: fmt.Sprintf("%s\n%s, %s %s",
			req.Client.AddressLine, req.Client.City, req.Client.State, req.Client.ZipCode),
		ssnLast4:       req.Client.SSNLast4,
		recipientBlock: c.recipientBlock(req.Recipient, req.Bureau, req.RecipientName),
		currentDate:    now.Format("January 2, 2006"),
		items:          items,
	}

	// Reason text from the registry catalog, in reason-code order.
	for _, code := range req.ReasonCodes {
		if rc, ok := c.registry.ReasonCode(code); ok {
			data.reasonText = append(data.reasonText, rc.LetterText)
		}
	}
	if len(data.reasonText) == 0 {
		data.reasonText = []string{
			"I dispute the accuracy of this item and demand that it be verified with the furnisher as required by law.",
		}
	}

	// Citations: methodology first, then per-item analysis findings.
	if m, ok := c.registry.Methodology(req.Methodology); ok {
		data.citations = append(data.citations, m.PrimaryCitation)
		data.citations = append(data.citations, m.SecondaryCitations...)
	}
	for _, a := range analyses {
		data.citations = append(data.citations, a.Citations...)
		data.violations = append(data.violations, a.Metro2Violations()...)
	}
	data.citations = dedupeStrings(data.citations)
	data.violations = dedupeStrings(data.violations)

	for _, doc := range req.Evidence {
		label := doc.Label
		if label == "" {
			label = string(doc.Category)
		}
		data.evidenceRefs = append(data.evidenceRefs, label)
	}

	return data
}

// promptValues flattens letter data into the template's placeholder map
func (c *Composer) promptValues(req ComposeRequest, data *letterData) map[string]string {
	style := "firm, formal, factual; plain business English"
	if s, ok := c.registry.Style(req.Methodology); ok {
		parts := []string{s.Tone, s.ReadingLevel}
		if len(s.Avoid) > 0 {
			parts = append(parts, "avoid: "+strings.Join(s.Avoid, "; "))
		}
		if len(s.MustInclude) > 0 {
			parts = append(parts, "must include: "+strings.Join(s.MustInclude, "; "))
		}
		style = strings.Join(parts, ". ")
	}

	var itemsDetail strings.Builder
	for i, item := range data.items {
		fmt.Fprintf(&itemsDetail, "%d. %s", i+1, item.FurnisherName)
		if item.OriginalCreditor != "" {
			fmt.Fprintf(&itemsDetail, " (original creditor: %s)", item.OriginalCreditor)
		}
		fmt.Fprintf(&itemsDetail, " - %s", item.Category)
		if item.Amount != nil {
			fmt.Fprintf(&itemsDetail, ", $%.2f", *item.Amount)
		}
		if item.DateReported != nil {
			fmt.Fprintf(&itemsDetail, ", reported %s", item.DateReported.Format("2006-01-02"))
		}
		itemsDetail.WriteString("\n")
	}

	return map[string]string{
		"client_name":     data.clientName,
		"client_address":  data.clientAddress,
		"recipient_block": data.recipientBlock,
		"current_date":    data.currentDate,
		"reason_text":     bulleted(data.reasonText),
		"items_detail":    strings.TrimRight(itemsDetail.String(), "\n"),
		"violations":      bulletedOr(data.violations, "(none identified)"),
		"evidence_refs":   bulletedOr(data.evidenceRefs, "(none)"),
		"legal_citations": bulleted(data.citations),
		"style_guidance":  style,
	}
}

// PlanCombined returns the items eligible for a combined letter to the
// given bureau. Items the report data shows on other bureaus only are
// excluded; Compose applies the same filter internally.
func PlanCombined(items []model.NegativeItem, bureau model.Bureau) []model.NegativeItem {
	var kept []model.NegativeItem
	for _, item := range items {
		if item.ReportedTo(bureau) {
			kept = append(kept, item)
		}
	}
	return kept
}

func filterByBureau(items []model.NegativeItem, analyses []model.ItemAnalysisResult, bureau model.Bureau) ([]model.NegativeItem, []model.ItemAnalysisResult) {
	byID := make(map[string]model.ItemAnalysisResult, len(analyses))
	for _, a := range analyses {
		byID[a.ItemID] = a
	}

	var keptItems []model.NegativeItem
	var keptAnalyses []model.ItemAnalysisResult
	for _, item := range items {
		if !item.ReportedTo(bureau) {
			continue
		}
		keptItems = append(keptItems, item)
		if a, ok := byID[item.ID]; ok {
			keptAnalyses = append(keptAnalyses, a)
		}
	}
	return keptItems, keptAnalyses
}

func bulleted(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func bulletedOr(lines []string, empty string) string {
	if len(lines) == 0 {
		return empty
	}
	return bulleted(lines)
}

func dedupeStrings(values []string) []string {
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

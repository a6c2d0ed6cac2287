package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/toptierfs/disputekit/internal/analyze"
	"github.com/toptierfs/disputekit/internal/cache"
	"github.com/toptierfs/disputekit/internal/escalate"
	"github.com/toptierfs/disputekit/internal/evidence"
	"github.com/toptierfs/disputekit/internal/furnisher"
	"github.com/toptierfs/disputekit/internal/letter"
	"github.com/toptierfs/disputekit/internal/llm"
	"github.com/toptierfs/disputekit/internal/model"
	"github.com/toptierfs/disputekit/internal/registry"
	"github.com/toptierfs/disputekit/internal/worker"
)

// Engine orchestrates the complete analyze-and-compose process
type Engine struct {
	batch    *worker.BatchAnalyzer
	evidence *evidence.Validator
	composer *letter.Composer
}

// New creates an engine from the given configuration. A missing or
// disabled completion provider is not an error: letters then use the
// deterministic templates.
func New(cfg *model.Config) (*Engine, error) {
	reg, err := loadRegistry(cfg)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}

	completer, err := llm.NewCompleter(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("completion provider: %w", err)
	}
	if completer != nil && cfg.Cache.Enabled {
		layered := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		completer = llm.WithCache(completer, layered, cfg.LLM.Model, cfg.Cache.DiskTTL)
	}

	classifier := furnisher.NewClassifier(&cfg.Classifier)
	analyzer := analyze.NewAnalyzer(classifier, reg)

	retry := llm.RetryPolicy{
		MaxAttempts: cfg.LLM.MaxAttempts,
		BaseDelay:   cfg.LLM.BaseDelay,
		Timeout:     cfg.LLM.Timeout,
	}

	return &Engine{
		batch:    worker.NewBatchAnalyzer(analyzer, cfg.Engine.Concurrency),
		evidence: evidence.NewValidator(reg),
		composer: letter.NewComposer(reg, completer, retry),
	}, nil
}

func loadRegistry(cfg *model.Config) (*registry.Registry, error) {
	if cfg.Engine.RegistryFile != "" {
		return registry.Load(cfg.Engine.RegistryFile)
	}
	return registry.NewDefault()
}

// AnalysisReport is the output of a batch analysis
type AnalysisReport struct {
	Round      int                        `json:"round"`
	AnalyzedAt time.Time                  `json:"analyzed_at"`
	Results    []model.ItemAnalysisResult `json:"results"`
	// FailedItemIDs lists items whose analysis failed; they are absent
	// from Results but still counted against the input.
	FailedItemIDs []string           `json:"failed_item_ids,omitempty"`
	Summary       model.BatchSummary `json:"summary"`
}

// AnalyzeItems analyzes every item concurrently and aggregates the
// results into a batch summary. Per-item failures get one retry pass
// before they are reported; the batch fails only when no item could be
// analyzed.
func (e *Engine) AnalyzeItems(ctx context.Context, items []model.NegativeItem, round int) (*AnalysisReport, error) {
	if len(items) == 0 {
		return nil, model.ErrNoItems
	}

	outcomes := e.batch.AnalyzeAll(ctx, items, round)
	results, failed := worker.Succeeded(outcomes)

	// Retry only the failed items and merge by id, so a transient
	// per-item failure never forces rerunning the whole batch.
	if len(failed) > 0 && ctx.Err() == nil {
		retryOutcomes := e.batch.AnalyzeAll(ctx, selectItems(items, failed), round)
		retryResults, stillFailed := worker.Succeeded(retryOutcomes)
		results = model.MergeResults(results, retryResults)
		failed = stillFailed
	}

	summary, err := analyze.Aggregate(results)
	if err != nil {
		return nil, fmt.Errorf("aggregate: all %d items failed analysis", len(items))
	}

	return &AnalysisReport{
		Round:         round,
		AnalyzedAt:    time.Now().UTC(),
		Results:       results,
		FailedItemIDs: failed,
		Summary:       summary,
	}, nil
}

// GenerateRequest drives one letter generation end to end
type GenerateRequest struct {
	Client model.Client         `json:"client"`
	Items  []model.NegativeItem `json:"items"`
	Round  int                  `json:"round"`

	// Recipient and Bureau default from the round when empty.
	Recipient model.RecipientType `json:"recipient,omitempty"`
	Bureau    model.Bureau        `json:"bureau,omitempty"`
	// RecipientName addresses creditor and collector letters.
	RecipientName string `json:"recipient_name,omitempty"`

	// ClaimedReasonCodes carries client-asserted reasons the analyzer
	// never emits on its own, such as identity theft. Each is subject
	// to the evidence check before any letter uses its language.
	ClaimedReasonCodes []string                 `json:"claimed_reason_codes,omitempty"`
	Evidence           []model.EvidenceDocument `json:"evidence,omitempty"`
	// EvidenceOverride records an operator decision to proceed without
	// the required documents.
	EvidenceOverride bool `json:"evidence_override,omitempty"`
}

// GenerateResult is the outcome of one generation run. When the
// evidence check blocks generation the result carries the unmet
// requirements instead of a letter; the caller decides whether to
// collect documents or re-run with an override.
type GenerateResult struct {
	Report *AnalysisReport `json:"report"`

	EvidenceBlocked bool                            `json:"evidence_blocked"`
	EvidenceCheck   *model.EvidenceValidationResult `json:"evidence_check,omitempty"`

	Letter *model.Letter `json:"letter,omitempty"`
}

// GenerateLetter runs the full flow: analyze, aggregate, gate on
// evidence, compose.
func (e *Engine) GenerateLetter(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if req.Round <= 0 {
		req.Round = 1
	}
	if req.Recipient == "" {
		req.Recipient = escalate.RecipientForRound(req.Round)
	}

	report, err := e.AnalyzeItems(ctx, req.Items, req.Round)
	if err != nil {
		return nil, err
	}

	reasonCodes := append([]string{}, report.Summary.ReasonCodes...)
	for _, code := range req.ClaimedReasonCodes {
		if !contains(reasonCodes, code) {
			reasonCodes = append(reasonCodes, code)
		}
	}

	// Evidence gate before composition, so a blocked run reports the
	// full set of unmet requirements rather than an opaque error.
	check := e.evidence.Validate(reasonCodes, req.Evidence, req.EvidenceOverride)
	if check.Blocks() {
		return &GenerateResult{
			Report:          report,
			EvidenceBlocked: true,
			EvidenceCheck:   &check,
		}, nil
	}

	composed, err := e.composer.Compose(ctx, letter.ComposeRequest{
		Client:           req.Client,
		Items:            req.Items,
		Analyses:         report.Results,
		Methodology:      report.Summary.Methodology,
		ReasonCodes:      reasonCodes,
		Evidence:         req.Evidence,
		Round:            req.Round,
		Recipient:        req.Recipient,
		Bureau:           req.Bureau,
		RecipientName:    req.RecipientName,
		EvidenceOverride: req.EvidenceOverride,
		Confidence:       report.Summary.AvgConfidence,
	})
	if err != nil {
		// Compose re-runs the evidence check; surface a late block the
		// same way as an early one.
		if errors.Is(err, letter.ErrEvidenceInsufficient) {
			return &GenerateResult{
				Report:          report,
				EvidenceBlocked: true,
				EvidenceCheck:   &check,
			}, nil
		}
		return nil, fmt.Errorf("compose: %w", err)
	}

	return &GenerateResult{
		Report:        report,
		EvidenceCheck: &check,
		Letter:        &composed,
	}, nil
}

// selectItems returns the items whose ids are listed, in input order
func selectItems(items []model.NegativeItem, ids []string) []model.NegativeItem {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.NegativeItem
	for _, item := range items {
		if want[item.ID] {
			out = append(out, item)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

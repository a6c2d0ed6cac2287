package worker

import (
	"context"
	"errors"
	"sort"

	"github.com/toptierfs/disputekit/internal/model"
)

// ItemAnalyzer analyzes one negative item for a given dispute round
type ItemAnalyzer interface {
	Analyze(item model.NegativeItem, round int) (model.ItemAnalysisResult, error)
}

// AnalysisJob analyzes a single negative item
type AnalysisJob struct {
	Item     model.NegativeItem
	Round    int
	Analyzer ItemAnalyzer
}

// Execute runs the analysis. A failed item produces an outcome carrying
// the error, never a dropped item: the batch report must account for
// every input.
func (j *AnalysisJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &AnalysisOutcome{ItemID: j.Item.ID, Err: err}
	}
	res, err := j.Analyzer.Analyze(j.Item, j.Round)
	if err != nil {
		return &AnalysisOutcome{ItemID: j.Item.ID, Err: err}
	}
	return &AnalysisOutcome{ItemID: j.Item.ID, Result: res}
}

// AnalysisOutcome is the per-item result of a batch analysis
type AnalysisOutcome struct {
	ItemID string
	Result model.ItemAnalysisResult
	Err    error
}

// GetError returns the error from the outcome
func (o *AnalysisOutcome) GetError() error {
	return o.Err
}

// BatchAnalyzer analyzes multiple items concurrently
type BatchAnalyzer struct {
	analyzer    ItemAnalyzer
	concurrency int
}

// NewBatchAnalyzer creates a batch analyzer with bounded concurrency
func NewBatchAnalyzer(analyzer ItemAnalyzer, concurrency int) *BatchAnalyzer {
	return &BatchAnalyzer{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// AnalyzeAll analyzes every item concurrently and returns outcomes in
// input order.
func (b *BatchAnalyzer) AnalyzeAll(ctx context.Context, items []model.NegativeItem, round int) []*AnalysisOutcome {
	if len(items) == 0 {
		return []*AnalysisOutcome{}
	}
	if err := ctx.Err(); err != nil {
		outcomes := make([]*AnalysisOutcome, 0, len(items))
		for _, item := range items {
			outcomes = append(outcomes, &AnalysisOutcome{ItemID: item.ID, Err: err})
		}
		return outcomes
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// Propagate caller cancellation into the pool.
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-stop:
		}
	}()

	order := make(map[string]int, len(items))
	for i, item := range items {
		order[item.ID] = i
	}

	// Submit from a separate goroutine while draining results here: the
	// pool's channels are bounded, so a submit-everything-then-collect
	// sequence deadlocks once the batch outgrows the buffers.
	go func() {
		for _, item := range items {
			pool.Submit(&AnalysisJob{
				Item:     item,
				Round:    round,
				Analyzer: b.analyzer,
			})
		}
		pool.Close()
	}()

	outcomes := make([]*AnalysisOutcome, 0, len(items))
	for result := range pool.Results() {
		outcomes = append(outcomes, result.(*AnalysisOutcome))
	}
	close(stop)

	// A cancellation can drop queued jobs before a worker runs them.
	// Every input still gets an outcome.
	if len(outcomes) < len(items) {
		seen := make(map[string]bool, len(outcomes))
		for _, o := range outcomes {
			seen[o.ItemID] = true
		}
		cause := ctx.Err()
		if cause == nil {
			cause = errors.New("analysis not executed")
		}
		for _, item := range items {
			if !seen[item.ID] {
				outcomes = append(outcomes, &AnalysisOutcome{ItemID: item.ID, Err: cause})
			}
		}
	}

	sort.SliceStable(outcomes, func(i, j int) bool {
		return order[outcomes[i].ItemID] < order[outcomes[j].ItemID]
	})

	return outcomes
}

// Succeeded splits outcomes into successful results and failed item IDs
func Succeeded(outcomes []*AnalysisOutcome) ([]model.ItemAnalysisResult, []string) {
	var ok []model.ItemAnalysisResult
	var failed []string
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o.ItemID)
			continue
		}
		ok = append(ok, o.Result)
	}
	return ok, failed
}

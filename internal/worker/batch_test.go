package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/toptierfs/disputekit/internal/model"
)

// fakeAnalyzer returns canned results per item id and records which
// rounds it was asked for.
type fakeAnalyzer struct {
	mu      sync.Mutex
	rounds  []int
	failIDs map[string]bool
}

func (f *fakeAnalyzer) Analyze(item model.NegativeItem, round int) (model.ItemAnalysisResult, error) {
	f.mu.Lock()
	f.rounds = append(f.rounds, round)
	f.mu.Unlock()

	if f.failIDs[item.ID] {
		return model.ItemAnalysisResult{}, fmt.Errorf("analyze %s: malformed record", item.ID)
	}
	return model.ItemAnalysisResult{
		ItemID:      item.ID,
		Methodology: model.MethodologyFactual,
		ReasonCodes: []string{model.ReasonVerificationRequired},
		Confidence:  0.5,
	}, nil
}

func testItems(n int) []model.NegativeItem {
	items := make([]model.NegativeItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, model.NegativeItem{
			ID:            fmt.Sprintf("item-%02d", i),
			FurnisherName: "Test Furnisher",
			Category:      model.CategoryLatePayment,
		})
	}
	return items
}

func TestBatchAnalyzer_PreservesInputOrder(t *testing.T) {
	batch := NewBatchAnalyzer(&fakeAnalyzer{}, 4)
	items := testItems(12)

	outcomes := batch.AnalyzeAll(context.Background(), items, 1)

	if len(outcomes) != len(items) {
		t.Fatalf("outcomes = %d, want %d", len(outcomes), len(items))
	}
	for i, o := range outcomes {
		if o.ItemID != items[i].ID {
			t.Errorf("outcome %d = %s, want %s", i, o.ItemID, items[i].ID)
		}
	}
}

func TestBatchAnalyzer_BatchLargerThanPoolBuffers(t *testing.T) {
	// The pool buffers jobs and results at workers*2 each; a batch well
	// past that must still complete with every item accounted for.
	const workers = 4
	items := testItems(workers*5 + 10)
	batch := NewBatchAnalyzer(&fakeAnalyzer{}, workers)

	done := make(chan []*AnalysisOutcome, 1)
	go func() {
		done <- batch.AnalyzeAll(context.Background(), items, 1)
	}()

	var outcomes []*AnalysisOutcome
	select {
	case outcomes = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("batch analysis hung")
	}

	if len(outcomes) != len(items) {
		t.Fatalf("outcomes = %d, want %d", len(outcomes), len(items))
	}
	for i, o := range outcomes {
		if o.ItemID != items[i].ID {
			t.Fatalf("outcome %d = %s, want %s", i, o.ItemID, items[i].ID)
		}
		if o.Err != nil {
			t.Errorf("item %s failed: %v", o.ItemID, o.Err)
		}
	}
}

func TestBatchAnalyzer_FailedItemKeepsItsSlot(t *testing.T) {
	analyzer := &fakeAnalyzer{failIDs: map[string]bool{"item-01": true}}
	batch := NewBatchAnalyzer(analyzer, 2)

	outcomes := batch.AnalyzeAll(context.Background(), testItems(3), 2)
	if len(outcomes) != 3 {
		t.Fatalf("outcomes = %d, want 3 (failures must not drop items)", len(outcomes))
	}

	results, failed := Succeeded(outcomes)
	if len(results) != 2 {
		t.Errorf("successful results = %d, want 2", len(results))
	}
	if len(failed) != 1 || failed[0] != "item-01" {
		t.Errorf("failed ids = %v, want [item-01]", failed)
	}
}

func TestBatchAnalyzer_PassesRoundThrough(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	batch := NewBatchAnalyzer(analyzer, 1)

	batch.AnalyzeAll(context.Background(), testItems(2), 3)

	for _, round := range analyzer.rounds {
		if round != 3 {
			t.Fatalf("analyzer saw round %d, want 3", round)
		}
	}
}

func TestBatchAnalyzer_EmptyInput(t *testing.T) {
	batch := NewBatchAnalyzer(&fakeAnalyzer{}, 4)

	outcomes := batch.AnalyzeAll(context.Background(), nil, 1)
	if len(outcomes) != 0 {
		t.Errorf("outcomes = %d, want 0", len(outcomes))
	}
}

func TestBatchAnalyzer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := NewBatchAnalyzer(&fakeAnalyzer{}, 2)
	outcomes := batch.AnalyzeAll(ctx, testItems(4), 1)

	if len(outcomes) != 4 {
		t.Fatalf("outcomes = %d, want 4", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Err == nil {
			t.Errorf("item %s succeeded under a cancelled context", o.ItemID)
		}
	}
}

func TestSucceeded_AllFailed(t *testing.T) {
	outcomes := []*AnalysisOutcome{
		{ItemID: "a", Err: errors.New("x")},
		{ItemID: "b", Err: errors.New("y")},
	}
	results, failed := Succeeded(outcomes)
	if len(results) != 0 || len(failed) != 2 {
		t.Errorf("results=%d failed=%d, want 0 and 2", len(results), len(failed))
	}
}

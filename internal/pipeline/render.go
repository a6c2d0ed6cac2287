package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/toptierfs/disputekit/internal/model"
)

// Renderer writes reports and letters to disk and prints run summaries
type Renderer struct {
	verbose bool
}

// NewRenderer creates a renderer
func NewRenderer(verbose bool) *Renderer {
	return &Renderer{verbose: verbose}
}

// WriteJSON writes any report structure as indented JSON
func (r *Renderer) WriteJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if r.verbose {
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}

// WriteLetter writes the letter body as plain text, ready to print
// and mail
func (r *Renderer) WriteLetter(l *model.Letter, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(l.Text+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if r.verbose {
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}

// SummarizeAnalysis prints a human-readable digest of a batch analysis
func (r *Renderer) SummarizeAnalysis(w io.Writer, report *AnalysisReport) {
	fmt.Fprintf(w, "Round %d: analyzed %d item(s)", report.Round, len(report.Results))
	if n := len(report.FailedItemIDs); n > 0 {
		fmt.Fprintf(w, ", %d failed", n)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Methodology: %s (confidence %.2f)\n", report.Summary.Methodology, report.Summary.AvgConfidence)
	if len(report.Summary.ReasonCodes) > 0 {
		fmt.Fprintf(w, "Reasons: %v\n", report.Summary.ReasonCodes)
	}
	for _, issue := range report.Summary.Issues {
		marker := " "
		if issue.Metro2 {
			marker = "*"
		}
		fmt.Fprintf(w, " %s %s [%s]: %s\n", marker, issue.Code, issue.Field, issue.Description)
	}
}

// SummarizeGeneration prints the outcome of a letter generation run
func (r *Renderer) SummarizeGeneration(w io.Writer, res *GenerateResult) {
	r.SummarizeAnalysis(w, res.Report)

	if res.EvidenceBlocked {
		fmt.Fprintln(w, "Letter blocked: evidence required")
		if res.EvidenceCheck != nil {
			for _, unmet := range res.EvidenceCheck.Unmet {
				fmt.Fprintf(w, "  %s needs one of: %v\n", unmet.ReasonCode, unmet.Accepted)
			}
		}
		return
	}

	if res.Letter != nil {
		source := "template service"
		if res.Letter.UsedFallback {
			source = "deterministic template"
		}
		fmt.Fprintf(w, "Letter %s: round %d to %s via %s\n", res.Letter.ID, res.Letter.Round, res.Letter.Recipient, source)
		fmt.Fprintf(w, "Response deadline: %s\n", res.Letter.ResponseDeadline.Format("2006-01-02"))
	}
}

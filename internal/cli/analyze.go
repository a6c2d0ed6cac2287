package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toptierfs/disputekit/internal/model"
	"github.com/toptierfs/disputekit/internal/pipeline"
)

var (
	analyzeRound   int
	analyzeJSON    string
	concurrency    int
	registryFile   string
	analyzeTimeout time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <items.json>",
	Short: "Analyze negative items and recommend a dispute strategy",
	Long: `Analyze reads negative credit report items from a JSON file and, for
each item:
- Checks FCRA reporting time limits (7/10/2 years)
- Classifies the furnisher as collector or original creditor
- Collects provable Metro 2 and completeness issues
- Selects a dispute methodology for the given round

Results are aggregated into a batch summary whose methodology is the
highest-priority recommendation among the items.

Example:
  disputekit analyze items.json
  disputekit analyze items.json --round 2 --json report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVar(&analyzeRound, "round", 1, "dispute round (1-based)")
	analyzeCmd.Flags().StringVar(&analyzeJSON, "json", "report.json", "output JSON path")
	analyzeCmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel item analyses (0: config default)")
	analyzeCmd.Flags().StringVar(&registryFile, "registry", "", "methodology/reason-code catalog overlay (YAML)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", time.Minute, "overall analysis timeout")
}

// buildConfig assembles configuration from defaults, the config file,
// environment, and flags, in ascending priority.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	_ = viper.Unmarshal(cfg)

	cfg.Output.Verbose = verbose
	if concurrency > 0 {
		cfg.Engine.Concurrency = concurrency
	}
	if registryFile != "" {
		cfg.Engine.RegistryFile = registryFile
	}
	return cfg
}

// readItems loads negative items from a JSON array file
func readItems(path string) ([]model.NegativeItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	var items []model.NegativeItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}
	return items, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	items, err := readItems(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg := buildConfig()
	engine, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing %d item(s), round %d\n", len(items), analyzeRound)
	}

	report, err := engine.AnalyzeItems(ctx, items, analyzeRound)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	renderer := pipeline.NewRenderer(verbose)
	if analyzeJSON != "" {
		if err := renderer.WriteJSON(report, analyzeJSON); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	renderer.SummarizeAnalysis(os.Stdout, report)

	return nil
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/toptierfs/disputekit/internal/pipeline"
)

var (
	letterOut        string
	letterJSON       string
	letterTimeout    time.Duration
	noCache          bool
	llmEnabled       bool
	llmProvider      string
	llmModel         string
	evidenceOverride bool
)

// letterCmd represents the letter command
var letterCmd = &cobra.Command{
	Use:   "letter <request.json>",
	Short: "Generate a dispute letter from a generation request",
	Long: `Letter runs the full flow for one generation request: analyze the
items, aggregate a batch strategy, check evidence requirements, and
compose the letter.

The request file carries the client, the items, the round, and any
client-asserted reason codes with their supporting documents. When an
ownership claim lacks its required evidence the run reports the unmet
requirements instead of producing a letter; pass --evidence-override
to record an operator decision to proceed anyway.

Without a completion provider the letter comes from the deterministic
templates. With one, the drafted text still passes the same guardrail
checks before it is accepted.

Example:
  disputekit letter request.json
  disputekit letter request.json --out round2.txt --json run.json
  disputekit letter request.json --llm --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runLetter,
}

func init() {
	rootCmd.AddCommand(letterCmd)

	letterCmd.Flags().StringVar(&letterOut, "out", "letter.txt", "output letter path")
	letterCmd.Flags().StringVar(&letterJSON, "json", "", "output run report JSON path (optional)")
	letterCmd.Flags().DurationVar(&letterTimeout, "timeout", 2*time.Minute, "overall generation timeout")
	letterCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable completion response cache")
	letterCmd.Flags().BoolVar(&evidenceOverride, "evidence-override", false, "proceed past a failed evidence check (recorded)")

	// LLM flags
	letterCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM letter drafting")
	letterCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	letterCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

// readRequest loads a generation request from a JSON file
func readRequest(path string) (pipeline.GenerateRequest, error) {
	var req pipeline.GenerateRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read request: %w", err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("parse request: %w", err)
	}
	return req, nil
}

func runLetter(cmd *cobra.Command, args []string) error {
	req, err := readRequest(args[0])
	if err != nil {
		return err
	}
	if evidenceOverride {
		req.EvidenceOverride = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), letterTimeout)
	defer cancel()

	cfg := buildConfig()
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache

	// Configure LLM if enabled
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}

		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	} else {
		cfg.LLM.Provider = ""
	}

	engine, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Generating letter: round %d, %d item(s)\n", req.Round, len(req.Items))
	}

	res, err := engine.GenerateLetter(ctx, req)
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	renderer := pipeline.NewRenderer(verbose)
	if letterJSON != "" {
		if err := renderer.WriteJSON(res, letterJSON); err != nil {
			return fmt.Errorf("write run report: %w", err)
		}
	}
	if res.Letter != nil && letterOut != "" {
		if err := renderer.WriteLetter(res.Letter, letterOut); err != nil {
			return fmt.Errorf("write letter: %w", err)
		}
	}
	renderer.SummarizeGeneration(os.Stdout, res)

	if res.EvidenceBlocked {
		return fmt.Errorf("letter blocked: required evidence missing (see report)")
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/TolstoyDotCom/more-speech-sub000/internal/log"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/model"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outputDir   string
	timeout     time.Duration
	ranker      string
	noCache     bool
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <search-run.json>",
	Short: "Analyze a single recorded search run and generate a suppression report",
	Long: `Analyze reads one recorded search run to:
- Extract text features and readability scores from each tweet
- Rank replies against their source tweet
- Compare the displayed order to interaction, date, and ranking orders
- Classify reply threads and timelines from censored to visible
- Generate transparent, explainable reports

Example:
  morespeech analyze run.json
  morespeech analyze run.json --output-dir ./reports --ranker formula1
  morespeech analyze run.json --llm --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outputDir, "output-dir", "./morespeech-reports", "output directory for reports")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Analysis flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout (matters for the llm ranker)")
	analyzeCmd.Flags().StringVar(&ranker, "ranker", "formula1", "ranking strategy (formula1, llm)")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the report cache (force fresh analysis)")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

// buildConfig assembles the effective configuration from defaults and flags.
// Shared by analyze and batch.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Ranker.Strategy = ranker
	cfg.Cache.Enabled = !noCache
	cfg.Output.Dir = outputDir
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled || ranker == "llm" {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			baseURL := os.Getenv("OLLAMA_BASE_URL")
			if baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Ranker: %s\n", ranker)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	logger := log.NewLogger(verbose)
	p := pipeline.NewPipeline(logger, cfg)

	result, err := p.AnalyzeFile(ctx, path)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Analyzed %d source tweets (%s mode)\n", result.Report.ItemCount(), result.Report.Mode)
		if result.FromCache {
			fmt.Fprintf(os.Stderr, "✓ Served from cache\n")
		}
		if result.Report.Summary != "" {
			fmt.Fprintf(os.Stderr, "✓ Generated LLM summary using %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	base := pipeline.ReportBaseName(result.Report)
	jsonPath := filepath.Join(cfg.Output.Dir, base+".json")
	mdPath := filepath.Join(cfg.Output.Dir, base+".md")

	if err := p.RenderReport(result, jsonPath, mdPath, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

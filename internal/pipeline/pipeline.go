// Package pipeline orchestrates one analysis run: load a search-run
// document, classify it, optionally summarize, render the report.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/TolstoyDotCom/more-speech-sub000/internal/analyzer"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/cache"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/llm"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/model"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/searchrun"
)

// Pipeline orchestrates the complete analysis process
type Pipeline struct {
	logger             zerolog.Logger
	repliesClassifier  *analyzer.RepliesClassifier
	timelineClassifier *analyzer.TimelineClassifier
	ranker             analyzer.Ranker
	renderer           *Renderer
	provider           llm.Provider // Optional LLM provider for the report summary (nil if disabled)
	providerCheck      sync.Once    // Availability is probed once, on the first summary
	providerUp         bool
	limiter            *llm.Limiter
	reportCache        cache.Cache // nil when caching is disabled
	config             *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(logger zerolog.Logger, cfg *model.Config) *Pipeline {
	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		p, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize LLM provider, report summaries disabled")
		} else {
			provider = p
		}
	}

	var reportCache cache.Cache
	if cfg.Cache.Enabled {
		reportCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		logger:             logger,
		repliesClassifier:  analyzer.NewRepliesClassifier(logger),
		timelineClassifier: analyzer.NewTimelineClassifier(logger),
		ranker:             analyzer.SelectRanker(logger, cfg),
		renderer:           NewRenderer(cfg.Output.IncludeFooter),
		provider:           provider,
		limiter:            llm.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		reportCache:        reportCache,
		config:             cfg,
	}
}

// RunResult contains the complete analysis result
type RunResult struct {
	Report    *analyzer.Report
	JSON      []byte
	FromCache bool
}

// AnalyzeFile analyzes one search-run document file
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read search run: %w", err)
	}
	return p.Analyze(ctx, data)
}

// Analyze analyzes one raw search-run document. An unchanged document hits
// the cache and skips classification entirely.
func (p *Pipeline) Analyze(ctx context.Context, data []byte) (*RunResult, error) {
	key := cache.DocumentKey(data)

	if p.reportCache != nil {
		if cached, found := p.reportCache.Get(key); found {
			var report analyzer.Report
			if err := json.Unmarshal(cached, &report); err == nil {
				p.logger.Debug().Str("key", key).Msg("report cache hit")
				return &RunResult{Report: &report, JSON: cached, FromCache: true}, nil
			}
			// A corrupt entry is dropped and recomputed.
			_ = p.reportCache.Delete(key)
		}
	}

	doc, err := searchrun.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode search run: %w", err)
	}

	var report *analyzer.Report
	switch doc.Mode {
	case searchrun.ModeReplies:
		report, err = p.repliesClassifier.Run(doc.Replies)
	case searchrun.ModeTimeline:
		report, err = p.timelineClassifier.Run(ctx, doc.Timeline, p.ranker)
	default:
		return nil, fmt.Errorf("unknown search run mode %q", doc.Mode)
	}
	if err != nil {
		return nil, fmt.Errorf("analyze %s run: %w", doc.Mode, err)
	}

	// The summary is generated after classification and never feeds back
	// into any status or score.
	if p.provider != nil {
		p.summarize(ctx, report)
	}

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	if p.reportCache != nil {
		if err := p.reportCache.Set(key, encoded, 0); err != nil {
			p.logger.Warn().Err(err).Msg("failed to cache report")
		}
	}

	return &RunResult{Report: report, JSON: encoded}, nil
}

func (p *Pipeline) summarize(ctx context.Context, report *analyzer.Report) {
	p.providerCheck.Do(func() {
		p.providerUp = p.provider.IsAvailable(ctx)
		if !p.providerUp {
			p.logger.Warn().Str("provider", p.provider.Name()).Msg("LLM provider unavailable, report summaries disabled")
		}
	})
	if !p.providerUp {
		return
	}

	if err := p.limiter.Wait(ctx, p.provider.Name()); err != nil {
		p.logger.Warn().Err(err).Msg("summary rate limit wait interrupted")
		return
	}

	summary, err := llm.Summarize(ctx, p.provider, report.Handle, p.renderer.Digest(report))
	if err != nil {
		// The summary is optional; the report stands without it.
		p.logger.Warn().Err(err).Msg("LLM summary generation failed")
		return
	}
	report.Summary = summary
}

// RenderReport renders the report to the specified outputs
func (p *Pipeline) RenderReport(result *RunResult, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(result, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	// Render LLM summary to separate file if present
	if result.Report.Summary != "" && mdPath != "" {
		summaryPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		if err := p.renderer.RenderSummaryMarkdown(result.Report, summaryPath); err != nil {
			p.logger.Warn().Err(err).Msg("failed to write LLM summary")
		} else if verbose {
			fmt.Printf("✓ Wrote LLM Summary: %s\n", summaryPath)
		}
	}

	p.renderer.RenderSummary(result.Report)

	return nil
}

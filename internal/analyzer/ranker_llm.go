package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/TolstoyDotCom/more-speech-sub000/internal/llm"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/model"
)

// LLMRanker scores tweets by asking a language model provider for a single
// numeric quality score per tweet. Calls are rate limited per the
// rate_limiting config. Any per-tweet failure falls back to formula1 for
// that tweet, so a batch always comes out fully ranked.
type LLMRanker struct {
	logger   zerolog.Logger
	provider llm.Provider
	limiter  *rate.Limiter
	fallback *Formula1
}

// NewLLMRanker builds the "llm" strategy from config. Returns an error when
// no provider is configured or the provider cannot be constructed; the
// caller falls back to formula1 in that case.
func NewLLMRanker(logger zerolog.Logger, cfg *model.Config) (*LLMRanker, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, errors.New("no llm provider configured")
	}

	return &LLMRanker{
		logger:   logger,
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimiting.RequestsPerSecond), cfg.RateLimiting.BurstSize),
		fallback: NewFormula1(cfg.Ranker.Weights),
	}, nil
}

func (r *LLMRanker) Name() string {
	return LLMName
}

// RankTweets ranks the batch one tweet at a time, throttled by the limiter.
func (r *LLMRanker) RankTweets(ctx context.Context, tweets []*AnalyzedTweet, reference *AnalyzedTweet) {
	count := len(tweets)
	for _, at := range tweets {
		if err := r.rankTweet(ctx, at, count, reference); err != nil {
			r.logger.Info().
				Err(err).
				Uint64("tweet", at.Tweet.ID).
				Msg("llm ranking failed, falling back to formula1")
			r.fallback.RankTweet(at, count, reference)
		}
	}
}

func (r *LLMRanker) rankTweet(ctx context.Context, at *AnalyzedTweet, count int, reference *AnalyzedTweet) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}

	referenceText := ""
	if reference != nil && reference.Features != nil {
		referenceText = reference.Features.Plain
	}

	resp, err := r.provider.Complete(ctx, llm.Request{
		Prompt: llm.BuildRankPrompt(at.Features.Plain, referenceText),
	})
	if err != nil {
		return err
	}

	score, err := parseScore(resp.Text)
	if err != nil {
		return err
	}

	at.Ranking = score
	at.RankingFunction = r.Name()
	at.SetAttribute("rank_llm", formatRankTerm(score))
	at.SetAttribute("rank_llm_model", resp.Model)
	return nil
}

// parseScore pulls the first parseable number out of a model response.
// Providers are asked for a bare number but tend to wrap it in prose.
func parseScore(s string) (float64, error) {
	for _, field := range strings.Fields(s) {
		field = strings.Trim(field, ".,:;()[]")
		if v, err := strconv.ParseFloat(field, 64); err == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("no numeric score in response %q", truncate(s, 120))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

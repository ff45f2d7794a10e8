package analyzer

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/TolstoyDotCom/more-speech-sub000/internal/model"
)

// Ranker assigns a ranking score to every tweet in a batch, relative to a
// reference tweet. Implementations mutate Ranking, RankingFunction and the
// rank_* diagnostics in place and must be deterministic for identical
// inputs.
type Ranker interface {
	Name() string
	RankTweets(ctx context.Context, tweets []*AnalyzedTweet, reference *AnalyzedTweet)
}

// Strategy names accepted in config.
const (
	Formula1Name = "formula1"
	LLMName      = "llm"
)

// SelectRanker resolves the configured ranking strategy. An unknown or
// unconstructable strategy falls back to formula1; that is informational,
// not an error.
func SelectRanker(logger zerolog.Logger, cfg *model.Config) Ranker {
	strategy := strings.ToLower(strings.TrimSpace(cfg.Ranker.Strategy))

	switch strategy {
	case "", Formula1Name:
		return NewFormula1(cfg.Ranker.Weights)

	case LLMName:
		r, err := NewLLMRanker(logger, cfg)
		if err != nil {
			logger.Info().Err(err).Msg("llm ranking strategy unavailable, falling back to formula1")
			return NewFormula1(cfg.Ranker.Weights)
		}
		return r

	default:
		logger.Info().Str("strategy", cfg.Ranker.Strategy).Msg("unknown ranking strategy, falling back to formula1")
		return NewFormula1(cfg.Ranker.Weights)
	}
}

// Default term constants of the formula1 strategy. Each can be overridden
// through the ranker weights map under the same name.
const (
	fewWordsLimit          = 5
	fewWordsPenalty        = -5.0
	fewWordsAndPicPenalty  = -10.0
	mostlyCapsPenalty      = -3.0
	fuzzyDivisor           = 10.0
	fuzzyLimit             = 2.8
	boostFuzzyOverLimit    = 0.5
	fleschDivisor          = 100.0
	fogDivisor             = 20.0
	kincaidDivisor         = 20.0
	ariDivisor             = 20.0
	colemanLiauDivisor     = 20.0
	lixDivisor             = 100.0
	smogDivisor            = 10.0
	cosineMinDistance      = 0.5
	cosineMultiplier       = 4.0
	jaccardMinSimilarity   = 0.75
	jaccardDivisor         = 2.0
	jaroWinklerMinDistance = 0.75
	jaroWinklerDivisor     = 2.0
	numWordsDivisor        = 10.0
	boostReplies           = 5.0
	boostRetweets          = 3.0
	boostFavorites         = 1.0
	boostDateRatio         = 2.0
)

// Formula1 is the default ranking strategy: an additive score whose terms
// reward readable, reference-similar, engaged, recent tweets and penalize
// near-empty or shouting ones. Every term is attributed into the tweet's
// diagnostics under a rank_* key.
type Formula1 struct {
	weights map[string]float64
}

// NewFormula1 builds the default ranker. weights may be nil; entries in it
// override the like-named term constants.
func NewFormula1(weights map[string]float64) *Formula1 {
	return &Formula1{weights: weights}
}

func (f *Formula1) Name() string {
	return Formula1Name
}

func (f *Formula1) weight(name string, def float64) float64 {
	if v, ok := f.weights[name]; ok {
		return v
	}
	return def
}

// RankTweets ranks every tweet in the batch. The batch size feeds the
// recency term, so a tweet's score depends on which batch it was ranked in.
func (f *Formula1) RankTweets(_ context.Context, tweets []*AnalyzedTweet, reference *AnalyzedTweet) {
	count := len(tweets)
	for _, at := range tweets {
		f.RankTweet(at, count, reference)
	}
}

// RankTweet scores one tweet within a batch of the given size.
func (f *Formula1) RankTweet(at *AnalyzedTweet, count int, reference *AnalyzedTweet) {
	ranking := 0.0

	if fuzzy := float64(at.Similarity.FuzzyScoreValue()); fuzzy != 0 {
		term := fuzzy / f.weight("fuzzy_divisor", fuzzyDivisor)
		if term > f.weight("fuzzy_limit", fuzzyLimit) {
			term *= f.weight("boost_fuzzy_over_limit", boostFuzzyOverLimit)
		}
		at.SetAttribute("rank_fuzzy", formatRankTerm(term))
		ranking += term
	}

	if at.NumWords() <= fewWordsLimit {
		penalty := f.weight("few_words_penalty", fewWordsPenalty)
		at.SetAttribute("rank_fww", strconv.FormatFloat(penalty, 'f', 1, 64))
		ranking += penalty
		if at.Features.HasPic || at.Features.HasCard {
			penalty = f.weight("few_words_and_pic_penalty", fewWordsAndPicPenalty)
			at.SetAttribute("rank_fwwp", strconv.FormatFloat(penalty, 'f', 1, 64))
			ranking += penalty
		}
	}

	if at.Features.MostlyCaps {
		penalty := f.weight("mostly_caps_penalty", mostlyCapsPenalty)
		at.SetAttribute("rank_caps", strconv.FormatFloat(penalty, 'f', 1, 64))
		ranking += penalty
	}

	// Flesch runs opposite to the grade-level indices (higher = easier),
	// so it is inverted before scaling.
	term := (200.0 - math.Min(200.0, at.Readability.Flesch)) / f.weight("flesch_divisor", fleschDivisor)
	at.SetAttribute("rank_flesch", formatRankTerm(term))
	ranking += term

	term = at.Readability.Fog / f.weight("fog_divisor", fogDivisor)
	at.SetAttribute("rank_fog", formatRankTerm(term))
	ranking += term

	term = at.Readability.Kincaid / f.weight("kincaid_divisor", kincaidDivisor)
	at.SetAttribute("rank_kincaid", formatRankTerm(term))
	ranking += term

	term = at.Readability.ARI / f.weight("ari_divisor", ariDivisor)
	at.SetAttribute("rank_ari", formatRankTerm(term))
	ranking += term

	term = at.Readability.ColemanLiau / f.weight("coleman_liau_divisor", colemanLiauDivisor)
	at.SetAttribute("rank_coleman", formatRankTerm(term))
	ranking += term

	term = at.Readability.LIX / f.weight("lix_divisor", lixDivisor)
	at.SetAttribute("rank_lix", formatRankTerm(term))
	ranking += term

	term = at.Readability.SMOG / f.weight("smog_divisor", smogDivisor)
	at.SetAttribute("rank_smog", formatRankTerm(term))
	ranking += term

	if at.Similarity.CosineDistanceValue() > f.weight("cosine_min_distance", cosineMinDistance) {
		term = f.weight("cosine_multiplier", cosineMultiplier) * (1.0 - at.Similarity.CosineDistanceValue())
		at.SetAttribute("rank_cos", formatRankTerm(term))
		ranking += term
	}

	if at.Similarity.JaccardSimilarityValue() > f.weight("jaccard_min_similarity", jaccardMinSimilarity) {
		term = at.Similarity.JaccardSimilarityValue() / f.weight("jaccard_divisor", jaccardDivisor)
		at.SetAttribute("rank_jac", formatRankTerm(term))
		ranking += term
	}

	if at.Similarity.JaroWinklerDistanceValue() > f.weight("jaro_winkler_min_distance", jaroWinklerMinDistance) {
		term = at.Similarity.JaroWinklerDistanceValue() / f.weight("jaro_winkler_divisor", jaroWinklerDivisor)
		at.SetAttribute("rank_jrw", formatRankTerm(term))
		ranking += term
	}

	term = float64(at.NumSentences())
	at.SetAttribute("rank_numsent", formatRankTerm(term))
	ranking += term

	term = math.Floor(float64(at.NumWords()) / f.weight("num_words_divisor", numWordsDivisor))
	at.SetAttribute("rank_numword", formatRankTerm(term))
	ranking += term

	numReplies := float64(at.Tweet.IntAttribute("replycount"))
	numRetweets := float64(at.Tweet.IntAttribute("retweetcount"))
	numFavorites := float64(at.Tweet.IntAttribute("favoritecount"))

	engagement := f.weight("boost_replies", boostReplies)*numReplies +
		f.weight("boost_retweets", boostRetweets)*numRetweets +
		f.weight("boost_favorites", boostFavorites)*numFavorites
	if engagement > 0 {
		term = math.Log(engagement)
		at.SetAttribute("rank_pop", formatRankTerm(term))
		ranking += term
	}

	term = f.weight("boost_date_ratio", boostDateRatio) *
		(float64(count) - float64(at.DateOrder) + 1.0) / float64(count)
	at.SetAttribute("rank_time", formatRankTerm(term))
	ranking += term

	at.Ranking = ranking
	at.RankingFunction = f.Name()
}

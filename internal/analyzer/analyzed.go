// Package analyzer turns collected tweet pages into suppression verdicts.
// It derives per-tweet features, ranks every reply against its source tweet,
// compares the page order with chronological and ranked baselines, and
// classifies each item into a visibility status.
package analyzer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/TolstoyDotCom/more-speech-sub000/internal/model"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/readability"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/similarity"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/text"
)

// AnalyzedTweet is one tweet plus everything derived from it for ranking:
// extracted text features, readability scores, similarity to the reference
// tweet, the three orders, and the ranking score with its per-term
// diagnostics. Built once per analysis pass and read-only afterwards except
// for the fields the ranker and order assignment fill in.
type AnalyzedTweet struct {
	Tweet       *model.Tweet       `json:"tweet"`
	Features    *text.Features     `json:"-"`
	Readability readability.Scores `json:"readability"`
	Similarity  similarity.Scores  `json:"similarity"`

	// OriginalOrder is the tweet's 1-based position in the page as
	// retrieved. Fixed at construction, never recomputed.
	OriginalOrder int `json:"original_order"`

	// DateOrder and RankingOrder are assigned by AssignDateOrders and
	// AssignRankingOrders.
	DateOrder    int `json:"date_order"`
	RankingOrder int `json:"ranking_order"`

	Ranking         float64 `json:"ranking"`
	RankingFunction string  `json:"ranking_function,omitempty"`

	// Attributes holds the human-readable score breakdown (rank_* keys).
	// Diagnostics only, never read back into logic.
	Attributes map[string]string `json:"attributes,omitempty"`
}

// NewAnalyzedTweet extracts features from the tweet's text and computes
// readability and, when a reference is given, similarity to it.
// originalOrder is the tweet's position in the page; the reference tweet
// itself is built with originalOrder 0 and a nil reference.
func NewAnalyzedTweet(logger zerolog.Logger, extractor *text.Extractor, tweet *model.Tweet, originalOrder int, reference *AnalyzedTweet) *AnalyzedTweet {
	features := extractor.Extract(tweet.Attribute("tweettext"))

	at := &AnalyzedTweet{
		Tweet:         tweet,
		Features:      features,
		Readability:   readability.Score(features.Words, len(features.Sentences)),
		OriginalOrder: originalOrder,
		Attributes:    map[string]string{},
	}

	if reference != nil && reference.Features != nil {
		at.Similarity = similarity.Compare(logger, reference.Features.SignatureWords, features.SignatureWords)
	}

	return at
}

// NumWords returns the number of extracted words.
func (at *AnalyzedTweet) NumWords() int {
	return len(at.Features.Words)
}

// NumSentences returns the number of extracted sentences.
func (at *AnalyzedTweet) NumSentences() int {
	return len(at.Features.Sentences)
}

// Censored reports whether the platform labeled the tweet low quality or
// abusive.
func (at *AnalyzedTweet) Censored() bool {
	return at.Tweet.SupposedQuality().Censored()
}

// SetAttribute records one diagnostics entry.
func (at *AnalyzedTweet) SetAttribute(key, value string) {
	if at.Attributes == nil {
		at.Attributes = map[string]string{}
	}
	at.Attributes[key] = value
}

// Summary returns a one-line description for report diagnostics.
func (at *AnalyzedTweet) Summary() string {
	return fmt.Sprintf("[analyzed %s ranking=%s orders orig/date/rank=%d/%d/%d words=%d]",
		at.Tweet.Summary(),
		formatRankTerm(at.Ranking),
		at.OriginalOrder, at.DateOrder, at.RankingOrder,
		at.NumWords())
}

// formatRankTerm renders a score contribution with at most two decimals,
// rounding toward positive infinity and dropping trailing zeros.
func formatRankTerm(v float64) string {
	rounded := math.Ceil(v*100) / 100
	s := strconv.FormatFloat(rounded, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-0" {
		s = "0"
	}
	return s
}

// summarizeTweets joins tweet summaries for a diagnostics attribute.
func summarizeTweets(tweets []*model.Tweet) string {
	lines := make([]string, len(tweets))
	for i, t := range tweets {
		lines[i] = t.Summary()
	}
	return "\n" + strings.Join(lines, "\n")
}

// summarizeAnalyzedTweets joins analyzed tweet summaries for a diagnostics
// attribute.
func summarizeAnalyzedTweets(tweets []*AnalyzedTweet) string {
	lines := make([]string, len(tweets))
	for i, at := range tweets {
		lines[i] = at.Summary()
	}
	return "\n" + strings.Join(lines, "\n")
}

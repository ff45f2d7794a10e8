package analyzer

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/TolstoyDotCom/more-speech-sub000/internal/model"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/similarity"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/text"
)

// plainAnalyzed builds an analyzed tweet with fully controlled features so
// individual ranking terms can be checked in isolation.
func plainAnalyzed(words, sentences int) *AnalyzedTweet {
	ws := make([]string, words)
	for i := range ws {
		ws[i] = "word"
	}
	ss := make([]string, sentences)
	for i := range ss {
		ss[i] = "sentence"
	}
	return &AnalyzedTweet{
		Tweet:      &model.Tweet{ID: 1, Attributes: map[string]string{}},
		Features:   &text.Features{Words: ws, Sentences: ss},
		Attributes: map[string]string{},
		DateOrder:  1,
	}
}

func TestFormula1_BaselineScore(t *testing.T) {
	f := NewFormula1(nil)

	// Ten words, one sentence, zero readability, no similarity, no
	// engagement: flesch 2 + sentences 1 + floor(10/10) 1 + recency 2.
	at := plainAnalyzed(10, 1)
	f.RankTweet(at, 1, nil)

	if at.Ranking != 6.0 {
		t.Errorf("Ranking = %v, want 6", at.Ranking)
	}
	if at.RankingFunction != Formula1Name {
		t.Errorf("RankingFunction = %q, want %q", at.RankingFunction, Formula1Name)
	}
	if at.Attributes["rank_flesch"] != "2" {
		t.Errorf("rank_flesch = %q, want 2", at.Attributes["rank_flesch"])
	}
	if at.Attributes["rank_time"] != "2" {
		t.Errorf("rank_time = %q, want 2", at.Attributes["rank_time"])
	}
	if _, ok := at.Attributes["rank_fww"]; ok {
		t.Error("did not expect a few-words penalty for 10 words")
	}
	if _, ok := at.Attributes["rank_pop"]; ok {
		t.Error("did not expect an engagement term without counts")
	}
}

func TestFormula1_FewWordsPenalty(t *testing.T) {
	f := NewFormula1(nil)

	at := plainAnalyzed(3, 1)
	f.RankTweet(at, 1, nil)
	if at.Attributes["rank_fww"] != "-5.0" {
		t.Errorf("rank_fww = %q, want -5.0", at.Attributes["rank_fww"])
	}
	if _, ok := at.Attributes["rank_fwwp"]; ok {
		t.Error("did not expect a picture penalty without a picture")
	}

	// A near-empty tweet that leans on a picture is penalized twice.
	at = plainAnalyzed(3, 1)
	at.Features.HasPic = true
	f.RankTweet(at, 1, nil)
	if at.Attributes["rank_fwwp"] != "-10.0" {
		t.Errorf("rank_fwwp = %q, want -10.0", at.Attributes["rank_fwwp"])
	}
}

func TestFormula1_MostlyCapsPenalty(t *testing.T) {
	f := NewFormula1(nil)

	at := plainAnalyzed(10, 1)
	at.Features.MostlyCaps = true
	f.RankTweet(at, 1, nil)
	if at.Attributes["rank_caps"] != "-3.0" {
		t.Errorf("rank_caps = %q, want -3.0", at.Attributes["rank_caps"])
	}
}

func TestFormula1_FuzzyTerm(t *testing.T) {
	f := NewFormula1(nil)

	fuzzy := 20
	at := plainAnalyzed(10, 1)
	at.Similarity = similarity.Scores{FuzzyScore: &fuzzy}
	f.RankTweet(at, 1, nil)
	if at.Attributes["rank_fuzzy"] != "2" {
		t.Errorf("rank_fuzzy = %q, want 2", at.Attributes["rank_fuzzy"])
	}

	// Over the limit the term is halved.
	fuzzy = 30
	at = plainAnalyzed(10, 1)
	at.Similarity = similarity.Scores{FuzzyScore: &fuzzy}
	f.RankTweet(at, 1, nil)
	if at.Attributes["rank_fuzzy"] != "1.5" {
		t.Errorf("rank_fuzzy = %q, want 1.5", at.Attributes["rank_fuzzy"])
	}
}

func TestFormula1_SimilarityGates(t *testing.T) {
	f := NewFormula1(nil)

	low := 0.4
	at := plainAnalyzed(10, 1)
	at.Similarity = similarity.Scores{CosineDistance: &low, JaccardSimilarity: &low, JaroWinklerDistance: &low}
	f.RankTweet(at, 1, nil)
	for _, key := range []string{"rank_cos", "rank_jac", "rank_jrw"} {
		if _, ok := at.Attributes[key]; ok {
			t.Errorf("did not expect %s below its threshold", key)
		}
	}

	high := 0.8
	at = plainAnalyzed(10, 1)
	at.Similarity = similarity.Scores{CosineDistance: &high, JaccardSimilarity: &high, JaroWinklerDistance: &high}
	f.RankTweet(at, 1, nil)
	// cosine: 4 * (1 - 0.8); jaccard and jaro-winkler: 0.8 / 2.
	if at.Attributes["rank_cos"] != "0.8" {
		t.Errorf("rank_cos = %q, want 0.8", at.Attributes["rank_cos"])
	}
	if at.Attributes["rank_jac"] != "0.4" {
		t.Errorf("rank_jac = %q, want 0.4", at.Attributes["rank_jac"])
	}
	if at.Attributes["rank_jrw"] != "0.4" {
		t.Errorf("rank_jrw = %q, want 0.4", at.Attributes["rank_jrw"])
	}
}

func TestFormula1_EngagementTerm(t *testing.T) {
	f := NewFormula1(nil)

	at := plainAnalyzed(10, 1)
	at.Tweet.Attributes["replycount"] = "1"
	f.RankTweet(at, 1, nil)

	// log(5*1 + 3*0 + 1*0)
	want := formatRankTerm(math.Log(5))
	if at.Attributes["rank_pop"] != want {
		t.Errorf("rank_pop = %q, want %q", at.Attributes["rank_pop"], want)
	}
}

func TestFormula1_RecencyTerm(t *testing.T) {
	f := NewFormula1(nil)

	at := plainAnalyzed(10, 1)
	at.DateOrder = 4
	f.RankTweet(at, 4, nil)

	// 2 * (4 - 4 + 1) / 4
	if at.Attributes["rank_time"] != "0.5" {
		t.Errorf("rank_time = %q, want 0.5", at.Attributes["rank_time"])
	}
}

func TestFormula1_WeightOverrides(t *testing.T) {
	f := NewFormula1(map[string]float64{"few_words_penalty": -7})

	at := plainAnalyzed(3, 1)
	f.RankTweet(at, 1, nil)
	if at.Attributes["rank_fww"] != "-7.0" {
		t.Errorf("rank_fww = %q, want -7.0", at.Attributes["rank_fww"])
	}
}

func TestSelectRanker(t *testing.T) {
	logger := zerolog.Nop()

	cfg := model.DefaultConfig()
	cfg.Ranker.Strategy = "formula1"
	if r := SelectRanker(logger, cfg); r.Name() != Formula1Name {
		t.Errorf("expected formula1, got %q", r.Name())
	}

	cfg.Ranker.Strategy = ""
	if r := SelectRanker(logger, cfg); r.Name() != Formula1Name {
		t.Errorf("expected formula1 for empty strategy, got %q", r.Name())
	}

	cfg.Ranker.Strategy = "nonsense"
	if r := SelectRanker(logger, cfg); r.Name() != Formula1Name {
		t.Errorf("expected fallback to formula1, got %q", r.Name())
	}

	// The llm strategy without a provider falls back too.
	cfg.Ranker.Strategy = "llm"
	cfg.LLM.Provider = ""
	if r := SelectRanker(logger, cfg); r.Name() != Formula1Name {
		t.Errorf("expected fallback to formula1 without a provider, got %q", r.Name())
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"14", 14, false},
		{"Score: 7.5", 7.5, false},
		{"I would rate this (12).", 12, false},
		{"no number here", 0, true},
	}

	for _, tt := range tests {
		got, err := parseScore(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseScore(%q): expected an error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("parseScore(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestFormatRankTerm(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{2, "2"},
		{0.5, "0.5"},
		{1.234, "1.24"}, // rounds toward positive infinity
		{-1.234, "-1.23"},
		{-0.001, "0"},
	}

	for _, tt := range tests {
		if got := formatRankTerm(tt.in); got != tt.want {
			t.Errorf("formatRankTerm(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

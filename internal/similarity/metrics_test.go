package similarity

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
)

func TestCompare_EmptyInputs(t *testing.T) {
	logger := zerolog.Nop()

	for _, tt := range []struct {
		name      string
		reference []string
		candidate []string
	}{
		{"both empty", nil, nil},
		{"empty reference", nil, []string{"word"}},
		{"empty candidate", []string{"word"}, nil},
	} {
		s := Compare(logger, tt.reference, tt.candidate)
		if s.CosineDistance != nil || s.JaccardSimilarity != nil ||
			s.JaroWinklerDistance != nil || s.FuzzyScore != nil || s.LevenshteinDistance != nil {
			t.Errorf("%s: expected all metrics unset, got %+v", tt.name, s)
		}
		if s.CosineDistanceValue() != 0 || s.FuzzyScoreValue() != 0 {
			t.Errorf("%s: expected zero values for unset metrics", tt.name)
		}
	}
}

func TestCompare_Identical(t *testing.T) {
	logger := zerolog.Nop()
	words := []string{"weather", "nice", "today"}

	s := Compare(logger, words, words)

	if d := s.CosineDistanceValue(); math.Abs(d) > 1e-9 {
		t.Errorf("cosine distance of identical texts = %v, want 0", d)
	}
	if v := s.JaccardSimilarityValue(); math.Abs(v-1) > 1e-9 {
		t.Errorf("jaccard similarity of identical texts = %v, want 1", v)
	}
	if v := s.JaroWinklerDistanceValue(); math.Abs(v-1) > 1e-9 {
		t.Errorf("jaro-winkler of identical texts = %v, want 1", v)
	}
	if v := s.LevenshteinDistanceValue(); v != 0 {
		t.Errorf("levenshtein distance of identical texts = %d, want 0", v)
	}
	// Every character matches in order, each after the first consecutively:
	// n + 2*(n-1) for the joined string "nice today weather".
	if v := s.FuzzyScoreValue(); v != 3*len("nice today weather")-2 {
		t.Errorf("fuzzy score of identical texts = %d", v)
	}
}

func TestCompare_WordOrderIrrelevant(t *testing.T) {
	logger := zerolog.Nop()

	a := Compare(logger, []string{"alpha", "beta"}, []string{"gamma", "delta"})
	b := Compare(logger, []string{"beta", "alpha"}, []string{"delta", "gamma"})

	if a.CosineDistanceValue() != b.CosineDistanceValue() ||
		a.JaccardSimilarityValue() != b.JaccardSimilarityValue() ||
		a.LevenshteinDistanceValue() != b.LevenshteinDistanceValue() {
		t.Errorf("scores should not depend on word order: %+v vs %+v", a, b)
	}
}

func TestCompare_Disjoint(t *testing.T) {
	logger := zerolog.Nop()

	s := Compare(logger, []string{"alpha", "beta"}, []string{"gamma", "delta"})

	if d := s.CosineDistanceValue(); math.Abs(d-1) > 1e-9 {
		t.Errorf("cosine distance of disjoint texts = %v, want 1", d)
	}
	if v := s.JaccardSimilarityValue(); v > 0.5 {
		t.Errorf("jaccard similarity of disjoint texts = %v, want low", v)
	}
}

func TestCosineDistance(t *testing.T) {
	if d := cosineDistance("a b", "a b"); math.Abs(d) > 1e-9 {
		t.Errorf("cosineDistance of equal texts = %v, want 0", d)
	}
	if d := cosineDistance("a a", "b b"); math.Abs(d-1) > 1e-9 {
		t.Errorf("cosineDistance of disjoint texts = %v, want 1", d)
	}
	if d := cosineDistance("", "a"); math.Abs(d-1) > 1e-9 {
		t.Errorf("cosineDistance with an empty text = %v, want 1", d)
	}
}

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		term  string
		query string
		want  int
	}{
		{"abc", "abc", 7},   // 3 matches, 2 consecutive bonuses
		{"abc", "ac", 2},    // both found, neither consecutive
		{"abc", "xyz", 0},   // nothing found
		{"abc", "ABC", 7},   // case-insensitive
		{"abcabc", "bc", 4}, // b and c match consecutively on the first pass
	}

	for _, tt := range tests {
		if got := fuzzyScore(tt.term, tt.query); got != tt.want {
			t.Errorf("fuzzyScore(%q, %q) = %d, want %d", tt.term, tt.query, got, tt.want)
		}
	}
}

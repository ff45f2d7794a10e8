// Package similarity compares a post's signature words against a reference
// post's. Each metric is computed independently; a failure in one metric is
// logged and leaves only that metric unset.
package similarity

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/adrg/strutil/metrics"
	"github.com/rs/zerolog"
)

// Scores holds the five text-similarity metrics of one post relative to a
// reference post. Nil means the metric was skipped (no reference, empty
// input) or failed; the Value accessors report such metrics as 0.
type Scores struct {
	CosineDistance      *float64 `json:"cosine_distance,omitempty"`
	JaccardSimilarity   *float64 `json:"jaccard_similarity,omitempty"`
	JaroWinklerDistance *float64 `json:"jaro_winkler_distance,omitempty"`
	FuzzyScore          *int     `json:"fuzzy_score,omitempty"`
	LevenshteinDistance *int     `json:"levenshtein_distance,omitempty"`
}

func (s Scores) CosineDistanceValue() float64 {
	if s.CosineDistance == nil {
		return 0
	}
	return *s.CosineDistance
}

func (s Scores) JaccardSimilarityValue() float64 {
	if s.JaccardSimilarity == nil {
		return 0
	}
	return *s.JaccardSimilarity
}

func (s Scores) JaroWinklerDistanceValue() float64 {
	if s.JaroWinklerDistance == nil {
		return 0
	}
	return *s.JaroWinklerDistance
}

func (s Scores) FuzzyScoreValue() int {
	if s.FuzzyScore == nil {
		return 0
	}
	return *s.FuzzyScore
}

func (s Scores) LevenshteinDistanceValue() int {
	if s.LevenshteinDistance == nil {
		return 0
	}
	return *s.LevenshteinDistance
}

// Compare computes all five metrics between a post's signature words and a
// reference post's. Both lists are sorted alphabetically and space-joined
// first, so word order in the posts does not matter. If either list is
// empty, every metric stays unset.
func Compare(logger zerolog.Logger, referenceWords, candidateWords []string) Scores {
	var scores Scores

	if len(referenceWords) == 0 || len(candidateWords) == 0 {
		return scores
	}

	referenceText := joinSorted(referenceWords)
	candidateText := joinSorted(candidateWords)

	compute(logger, "cosine distance", referenceText, candidateText, func() {
		d := cosineDistance(referenceText, candidateText)
		scores.CosineDistance = &d
	})

	compute(logger, "jaccard similarity", referenceText, candidateText, func() {
		jaccard := metrics.NewJaccard()
		jaccard.CaseSensitive = false
		jaccard.NgramSize = 1
		v := jaccard.Compare(referenceText, candidateText)
		scores.JaccardSimilarity = &v
	})

	compute(logger, "jaro-winkler distance", referenceText, candidateText, func() {
		v := metrics.NewJaroWinkler().Compare(referenceText, candidateText)
		scores.JaroWinklerDistance = &v
	})

	compute(logger, "fuzzy score", referenceText, candidateText, func() {
		v := fuzzyScore(referenceText, candidateText)
		scores.FuzzyScore = &v
	})

	compute(logger, "levenshtein distance", referenceText, candidateText, func() {
		v := metrics.NewLevenshtein().Distance(referenceText, candidateText)
		scores.LevenshteinDistance = &v
	})

	return scores
}

// compute runs one metric, containing any panic so the remaining metrics
// still get computed.
func compute(logger zerolog.Logger, name, referenceText, candidateText string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Interface("panic", r).
				Str("reference", referenceText).
				Str("candidate", candidateText).
				Msgf("bad %s computation", name)
		}
	}()
	fn()
}

func joinSorted(words []string) string {
	sorted := make([]string, len(words))
	copy(sorted, words)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

var cosineTokenRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// cosineDistance is 1 minus the cosine similarity of the two texts' term
// frequency vectors, tokens being word-character runs.
func cosineDistance(a, b string) float64 {
	va := termFrequencies(a)
	vb := termFrequencies(b)

	var dot, normA, normB float64
	for term, countA := range va {
		if countB, ok := vb[term]; ok {
			dot += float64(countA) * float64(countB)
		}
		normA += float64(countA) * float64(countA)
	}
	for _, countB := range vb {
		normB += float64(countB) * float64(countB)
	}

	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

func termFrequencies(s string) map[string]int {
	freq := make(map[string]int)
	for _, tok := range cosineTokenRe.FindAllString(s, -1) {
		freq[tok]++
	}
	return freq
}

// fuzzyScore is the classic one-sided fuzzy match score: one point per
// query character found in order in the term, plus a two point bonus for
// each consecutive match. Case-insensitive.
func fuzzyScore(term, query string) int {
	termRunes := []rune(strings.ToLower(term))
	queryRunes := []rune(strings.ToLower(query))

	score := 0
	termIndex := 0
	previousMatchIndex := -2

	for _, qr := range queryRunes {
		for found := false; termIndex < len(termRunes) && !found; termIndex++ {
			if termRunes[termIndex] == qr {
				score++
				if previousMatchIndex+1 == termIndex {
					score += 2
				}
				previousMatchIndex = termIndex
				found = true
			}
		}
	}

	return score
}

// Package readability computes the classic readability indices of the Linux
// "style" command (diction package) over pre-tokenized word lists.
package readability

import (
	"math"
	"strings"
	"unicode"
)

// Scores holds the seven readability indices for one text.
type Scores struct {
	Flesch      float64 `json:"flesch"`
	Fog         float64 `json:"fog"`
	Kincaid     float64 `json:"kincaid"`
	ARI         float64 `json:"ari"`
	ColemanLiau float64 `json:"coleman_liau"`
	LIX         float64 `json:"lix"`
	SMOG        float64 `json:"smog"`
}

// Score computes all seven indices from a word list and a sentence count.
// Pure function: no state is carried between calls. An empty word list
// yields all zeros.
func Score(words []string, numSentences int) Scores {
	words = filterWords(words)
	if len(words) == 0 {
		return Scores{}
	}
	if numSentences < 1 {
		// A text with words has at least one sentence.
		numSentences = 1
	}

	numWords := float64(len(words))
	sentences := float64(numSentences)

	letters := 0
	syllables := 0
	bigWords := 0  // 3+ syllables
	longWords := 0 // > 6 letters
	for _, w := range words {
		letters += len([]rune(w))
		s := CountSyllables(w)
		syllables += s
		if s >= 3 {
			bigWords++
		}
		if len([]rune(w)) > 6 {
			longWords++
		}
	}

	return Scores{
		Flesch:      206.835 - 84.6*(float64(syllables)/numWords) - 1.015*(numWords/sentences),
		Fog:         (numWords/sentences + 100.0*float64(bigWords)/numWords) * 0.4,
		Kincaid:     11.8*(float64(syllables)/numWords) + 0.39*(numWords/sentences) - 15.59,
		ARI:         4.71*(float64(letters)/numWords) + 0.5*(numWords/sentences) - 21.43,
		ColemanLiau: 5.89*(float64(letters)/numWords) - 0.3*(sentences/(100.0*numWords)) - 15.8,
		LIX:         lixGrade(numWords/sentences + 100.0*float64(longWords)/numWords),
		SMOG:        math.Sqrt(float64(bigWords)/sentences*30.0) + 3.0,
	}
}

// lixGrade maps the raw Lix index onto the banded grade the style command
// reports: 0 below any grade, 99 above all of them.
func lixGrade(idx float64) float64 {
	switch {
	case idx < 34:
		return 0
	case idx < 38:
		return 5
	case idx < 41:
		return 6
	case idx < 44:
		return 7
	case idx < 48:
		return 8
	case idx < 51:
		return 9
	case idx < 54:
		return 10
	case idx < 57:
		return 11
	default:
		return 99
	}
}

// CountSyllables counts English syllables the way 'syll_en' in the style
// command does: strip a trailing "ed", then count vowels followed by a
// non-vowel, minimum one. The letter y counts as a vowel.
func CountSyllables(word string) int {
	w := strings.ToLower(word)
	w = strings.TrimSuffix(w, "ed")

	count := 0
	runes := []rune(w)
	for i := 0; i+1 < len(runes); i++ {
		if isVowel(runes[i]) && !isVowel(runes[i+1]) {
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// filterWords keeps only tokens made entirely of letters or digits, the
// same filter the original measures apply.
func filterWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" && isWord(w) {
			out = append(out, w)
		}
	}
	return out
}

func isWord(w string) bool {
	for _, r := range w {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

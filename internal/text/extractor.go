// Package text turns the raw text of a collected post into the features the
// analysis engine scores: plain text, hashtags, mentions, URLs, media flags,
// sentences, words, and the stop-word-filtered signature word list used for
// cross-post comparison.
package text

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/rivo/uniseg"
)

const fractionToBeMostlyUppercase = 0.75

var (
	cashtagRe = regexp.MustCompile(`\$[A-Za-z]{1,6}(?:[._][A-Za-z]{1,2})?`)
	hashtagRe = regexp.MustCompile(`#[\p{L}\p{N}_]*\p{L}[\p{L}\p{N}_]*`)
	mentionRe = regexp.MustCompile(`@[A-Za-z0-9_]{1,20}`)
	urlRe     = regexp.MustCompile(`(?i)(?:https?://|www\.|(?:pic|cards)\.twitter\.com/)\S+`)
)

// Features holds everything extracted from one post's raw text.
type Features struct {
	Raw   string
	Plain string

	Sentences      []string
	Words          []string
	SignatureWords []string

	Hashtags []string
	Mentions []string
	URLs     []string

	HasPic     bool
	HasCard    bool
	MostlyCaps bool

	// Empty marks a post with no text at all; such posts are excluded
	// from readability and similarity scoring.
	Empty bool
}

// Extractor extracts features from raw post text.
type Extractor struct{}

// NewExtractor creates a feature extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes one post's raw text.
func (e *Extractor) Extract(raw string) *Features {
	f := &Features{Raw: raw}

	if strings.TrimSpace(raw) == "" {
		f.Empty = true
		return f
	}

	input := raw
	if strings.ContainsRune(input, '<') {
		input = stripMarkup(input)
	}

	// The truncation glyph breaks word segmentation if left in place.
	input = strings.TrimSpace(strings.ReplaceAll(input, "…", " "))

	// Attached pictures are detectable in the raw text even when the URL
	// entity is mangled, so test before extraction too.
	if strings.Contains(strings.ToLower(input), "pic.twitter") {
		f.HasPic = true
	}

	input = cashtagRe.ReplaceAllString(input, "")

	input = hashtagRe.ReplaceAllStringFunc(input, func(m string) string {
		tag := strings.TrimPrefix(m, "#")
		f.Hashtags = append(f.Hashtags, tag)
		//	#GoodMorning -> Good Morning
		return strings.Join(splitCamelCase(tag), " ")
	})

	input = mentionRe.ReplaceAllStringFunc(input, func(m string) string {
		f.Mentions = append(f.Mentions, strings.TrimPrefix(m, "@"))
		return ""
	})

	input = urlRe.ReplaceAllStringFunc(input, func(m string) string {
		f.URLs = append(f.URLs, m)
		lower := strings.ToLower(m)
		if strings.Contains(lower, "pic.twitter") {
			f.HasPic = true
		}
		if strings.Contains(lower, "cards.twitter") {
			f.HasCard = true
		}
		return ""
	})

	f.Plain = strings.TrimSpace(strings.ReplaceAll(input, "#", ""))

	f.Sentences = SplitSentences(f.Plain)
	f.Words = SplitWords(f.Plain)

	numAllUpper := 0
	for _, word := range f.Words {
		if !IsStopWord(word) {
			if base := baseWord(word); base != "" {
				f.SignatureWords = append(f.SignatureWords, base)
			}
		}
		if isAllUpper(word) {
			numAllUpper++
		}
	}

	if len(f.Words) > 0 && float64(numAllUpper)/float64(len(f.Words)) > fractionToBeMostlyUppercase {
		f.MostlyCaps = true
	}

	return f
}

// SplitSentences segments text into sentences per Unicode UAX #29.
func SplitSentences(s string) []string {
	var sentences []string
	state := -1
	var sentence string
	for len(s) > 0 {
		sentence, s, state = uniseg.FirstSentenceInString(s, state)
		if trimmed := strings.TrimSpace(sentence); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// SplitWords segments text into words per Unicode UAX #29, dropping
// whitespace and punctuation-only segments.
func SplitWords(s string) []string {
	var words []string
	state := -1
	var word string
	for len(s) > 0 {
		word, s, state = uniseg.FirstWordInString(s, state)
		if isWordLike(word) {
			words = append(words, word)
		}
	}
	return words
}

func isWordLike(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// baseWord reduces a word to its lowercase alphanumeric core, "" when
// nothing remains.
func baseWord(word string) string {
	var sb strings.Builder
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return sb.String()
}

// isAllUpper reports whether every rune is an uppercase letter.
func isAllUpper(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// splitCamelCase splits a string on character-type transitions, keeping a
// trailing run of capitals attached to the following lowercase run
// ("GoodMorning" -> [Good Morning], "ABCDef" -> [ABC Def]).
func splitCamelCase(s string) []string {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}

	classify := func(r rune) int {
		switch {
		case unicode.IsUpper(r):
			return 0
		case unicode.IsLower(r):
			return 1
		case unicode.IsDigit(r):
			return 2
		default:
			return 3
		}
	}

	var parts []string
	start := 0
	current := classify(runes[0])
	for i := 1; i < len(runes); i++ {
		next := classify(runes[i])
		if next == current {
			continue
		}
		if current == 0 && next == 1 {
			// Upper->lower: the last capital starts the next token.
			if i-1 > start {
				parts = append(parts, string(runes[start:i-1]))
			}
			start = i - 1
		} else {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
		current = next
	}
	parts = append(parts, string(runes[start:]))
	return parts
}

// stripMarkup drops any residual HTML the scraper left in the text,
// keeping only visible text nodes.
func stripMarkup(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				if sb.Len() > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sb.String()
}

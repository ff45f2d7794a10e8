package text

import (
	"reflect"
	"testing"
)

func TestExtract_Basic(t *testing.T) {
	e := NewExtractor()

	f := e.Extract("The weather was nice today. Really nice.")
	if f.Empty {
		t.Fatal("expected non-empty features")
	}
	if len(f.Sentences) != 2 {
		t.Errorf("expected 2 sentences, got %d: %v", len(f.Sentences), f.Sentences)
	}
	if len(f.Words) != 7 {
		t.Errorf("expected 7 words, got %d: %v", len(f.Words), f.Words)
	}

	// Stop words are excluded from the signature, the rest is lowercased.
	want := []string{"weather", "nice", "today", "really", "nice"}
	if !reflect.DeepEqual(f.SignatureWords, want) {
		t.Errorf("expected signature %v, got %v", want, f.SignatureWords)
	}
}

func TestExtract_Empty(t *testing.T) {
	e := NewExtractor()

	for _, raw := range []string{"", "   ", "\n\t"} {
		f := e.Extract(raw)
		if !f.Empty {
			t.Errorf("expected %q to be empty", raw)
		}
		if len(f.Words) != 0 {
			t.Errorf("expected no words for %q, got %v", raw, f.Words)
		}
	}
}

func TestExtract_Entities(t *testing.T) {
	e := NewExtractor()

	f := e.Extract("Look at this @someone #GoodMorning https://example.com/a pic.twitter.com/abc123")

	if len(f.Mentions) != 1 || f.Mentions[0] != "someone" {
		t.Errorf("expected mention 'someone', got %v", f.Mentions)
	}
	if len(f.Hashtags) != 1 || f.Hashtags[0] != "GoodMorning" {
		t.Errorf("expected hashtag 'GoodMorning', got %v", f.Hashtags)
	}
	if len(f.URLs) != 2 {
		t.Errorf("expected 2 URLs, got %v", f.URLs)
	}
	if !f.HasPic {
		t.Error("expected HasPic for a pic.twitter.com link")
	}
	if f.HasCard {
		t.Error("did not expect HasCard")
	}
}

func TestExtract_HashtagSplitsIntoWords(t *testing.T) {
	e := NewExtractor()

	f := e.Extract("#GoodMorning everyone")
	want := []string{"Good", "Morning", "everyone"}
	if !reflect.DeepEqual(f.Words, want) {
		t.Errorf("expected words %v, got %v", want, f.Words)
	}
}

func TestExtract_Card(t *testing.T) {
	e := NewExtractor()

	f := e.Extract("check this out cards.twitter.com/cards/xyz")
	if !f.HasCard {
		t.Error("expected HasCard for a cards.twitter.com link")
	}
}

func TestExtract_MostlyCaps(t *testing.T) {
	e := NewExtractor()

	if f := e.Extract("THIS IS AN OUTRAGE"); !f.MostlyCaps {
		t.Error("expected all-uppercase text to be mostly caps")
	}
	if f := e.Extract("This is not an outrage"); f.MostlyCaps {
		t.Error("did not expect mixed-case text to be mostly caps")
	}
}

func TestExtract_StripsMarkup(t *testing.T) {
	e := NewExtractor()

	f := e.Extract("<p>Hello <b>world</b></p>")
	want := []string{"Hello", "world"}
	if !reflect.DeepEqual(f.Words, want) {
		t.Errorf("expected words %v, got %v", want, f.Words)
	}
}

func TestSplitWords_DropsPunctuation(t *testing.T) {
	words := SplitWords("Hello, world! 42respect")
	want := []string{"Hello", "world", "42respect"}
	if !reflect.DeepEqual(words, want) {
		t.Errorf("expected %v, got %v", want, words)
	}
}

func TestSplitSentences(t *testing.T) {
	sentences := SplitSentences("One is here. Two is here! Is three here?")
	if len(sentences) != 3 {
		t.Errorf("expected 3 sentences, got %d: %v", len(sentences), sentences)
	}
}

func TestSplitCamelCase(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"GoodMorning", []string{"Good", "Morning"}},
		{"ABCDef", []string{"ABC", "Def"}},
		{"lowercase", []string{"lowercase"}},
		{"Word2Word", []string{"Word", "2", "Word"}},
	}

	for _, tt := range tests {
		got := splitCamelCase(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitCamelCase(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsStopWord(t *testing.T) {
	for _, w := range []string{"the", "The", "is", "and"} {
		if !IsStopWord(w) {
			t.Errorf("expected %q to be a stop word", w)
		}
	}
	for _, w := range []string{"weather", "suppression", ""} {
		if IsStopWord(w) {
			t.Errorf("did not expect %q to be a stop word", w)
		}
	}
}

package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Tweet is a single post exactly as the scraping layer collected it.
// Identity lives in ID; everything else the page offered is kept in the
// string attribute map (keys like "time", "retweetcount", "favoritecount",
// "replycount", "quality", "permalinkpath", "conversationid", "tweettext").
// Tweets are constructed once by the collector and read-only afterwards.
type Tweet struct {
	ID         uint64            `json:"id"`
	Attributes map[string]string `json:"attributes"`
	User       *TweetUser        `json:"user,omitempty"`
	Classes    []string          `json:"classes,omitempty"`
	Mentions   []string          `json:"mentions,omitempty"`
}

// Attribute returns the named attribute or "" when absent.
func (t *Tweet) Attribute(key string) string {
	if t == nil || t.Attributes == nil {
		return ""
	}
	return t.Attributes[key]
}

// IntAttribute parses the named attribute as an integer, 0 when absent
// or malformed.
func (t *Tweet) IntAttribute(key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(t.Attribute(key)))
	if err != nil {
		return 0
	}
	return n
}

// Time returns the post's "time" attribute as a Unix timestamp,
// 0 when absent or non-parseable.
func (t *Tweet) Time() int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(t.Attribute("time")), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// RepliedToID returns the id of the tweet this one replies to, 0 if none.
func (t *Tweet) RepliedToID() uint64 {
	n, err := strconv.ParseUint(strings.TrimSpace(t.Attribute("isreplyto")), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// SupposedQuality classifies the platform's own quality labeling of the tweet.
func (t *Tweet) SupposedQuality() SupposedQuality {
	return MatchSupposedQuality(t.Attribute("quality"))
}

// IsValid reports whether the tweet was collected completely.
// A tweet without a permalink path is an incomplete scrape artifact.
func (t *Tweet) IsValid() bool {
	return t != nil && strings.TrimSpace(t.Attribute("permalinkpath")) != ""
}

// Summary returns a one-line human-readable description used in report
// diagnostics.
func (t *Tweet) Summary() string {
	handle := ""
	verified := VerifiedUnknown
	if t.User != nil {
		handle = t.User.Handle
		verified = t.User.VerifiedStatus
	}

	dateStr := "date unknown"
	if ts := t.Time(); ts != 0 {
		dateStr = time.Unix(ts, 0).UTC().Format("2006-01-02 15:04")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[tweet: %d, from: @%s (%s) on %s", t.ID, handle, verified, dateStr)
	if replyTo := t.RepliedToID(); replyTo != 0 {
		fmt.Fprintf(&sb, ", reply to %d from %s", replyTo, t.Attribute("repliedtohandle"))
	}
	fmt.Fprintf(&sb, " (%s,%s,%s,%s)]",
		t.SupposedQuality(),
		t.Attribute("retweetcount"),
		t.Attribute("favoritecount"),
		t.Attribute("replycount"))

	return sb.String()
}

// SupposedQuality is the platform's quality label for a tweet, recovered
// from the "quality" attribute by substring match.
type SupposedQuality string

const (
	QualityHigh    SupposedQuality = "high_quality"
	QualityLow     SupposedQuality = "low_quality"
	QualityAbusive SupposedQuality = "abusive_quality"
	QualityUnknown SupposedQuality = "unknown_quality"
)

// MatchSupposedQuality maps a raw quality string to its label. Abusive is
// checked before low because some pages report both substrings.
func MatchSupposedQuality(quality string) SupposedQuality {
	q := strings.ToLower(strings.TrimSpace(quality))
	switch {
	case q == "":
		return QualityUnknown
	case strings.Contains(q, "abusive"):
		return QualityAbusive
	case strings.Contains(q, "low"):
		return QualityLow
	case strings.Contains(q, "high"):
		return QualityHigh
	default:
		return QualityUnknown
	}
}

// Censored reports whether the platform tucked the tweet behind a
// "show more" affordance. Unknown quality is not treated as censored:
// most collected tweets simply carry no label.
func (q SupposedQuality) Censored() bool {
	return q == QualityLow || q == QualityAbusive
}

func (q SupposedQuality) String() string {
	return string(q)
}

// TweetCollection is an ordered sequence of tweets as they appeared on a
// page, indexable by id and by 1-based position.
type TweetCollection struct {
	Tweets     []*Tweet          `json:"tweets"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// TweetByID returns the tweet with the given id, nil when absent.
func (c *TweetCollection) TweetByID(id uint64) *Tweet {
	if c == nil {
		return nil
	}
	for _, t := range c.Tweets {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// TweetOrderByID returns the 1-based position of the tweet with the given
// id, 0 when absent.
func (c *TweetCollection) TweetOrderByID(id uint64) int {
	if c == nil {
		return 0
	}
	for i, t := range c.Tweets {
		if t.ID == id {
			return i + 1
		}
	}
	return 0
}

// Len returns the number of tweets in the collection.
func (c *TweetCollection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Tweets)
}

// SortedByTime returns a copy of the tweets stable-sorted ascending by the
// "time" attribute. Non-parseable times sort as 0; ties keep page order.
func (c *TweetCollection) SortedByTime() []*Tweet {
	out := make([]*Tweet, len(c.Tweets))
	copy(out, c.Tweets)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time() < out[j].Time()
	})
	return out
}

// SortedByInteraction returns a copy of the tweets stable-sorted descending
// by a weighted interaction score.
func (c *TweetCollection) SortedByInteraction(replyWeight, retweetWeight, favoriteWeight int) []*Tweet {
	score := func(t *Tweet) int {
		return replyWeight*t.IntAttribute("replycount") +
			retweetWeight*t.IntAttribute("retweetcount") +
			favoriteWeight*t.IntAttribute("favoritecount")
	}
	out := make([]*Tweet, len(c.Tweets))
	copy(out, c.Tweets)
	sort.SliceStable(out, func(i, j int) bool {
		return score(out[i]) > score(out[j])
	})
	return out
}

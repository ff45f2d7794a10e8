// Package searchrun defines the input documents handed to the analysis
// engine. A search run is the materialized outcome of one scraping session:
// the user's timeline snapshot plus, per source tweet, either the resolved
// reply thread (replies mode) or the individual-tweet page (timeline mode).
// The scraping layer that produces these files is a separate program; this
// package only decodes and validates its output.
package searchrun

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/TolstoyDotCom/more-speech-sub000/internal/model"
)

// Mode distinguishes the two kinds of search run.
type Mode string

const (
	ModeReplies  Mode = "replies"
	ModeTimeline Mode = "timeline"
)

// Replies is a search run that audits where the user's replies ended up on
// the pages of the tweets they replied to.
type Replies struct {
	InitiatingUser *model.TweetUser              `json:"initiating_user"`
	StartTime      time.Time                     `json:"start_time"`
	Timeline       *model.TweetCollection        `json:"timeline"`
	SourceTweetIDs []uint64                      `json:"source_tweet_ids"`
	ReplyThreads   map[uint64]*model.ReplyThread `json:"reply_threads"`
}

// ThreadBySourceTweetID returns the reply thread for a source tweet, nil
// when the scrape did not resolve one.
func (r *Replies) ThreadBySourceTweetID(id uint64) *model.ReplyThread {
	if r == nil {
		return nil
	}
	return r.ReplyThreads[id]
}

// Timeline is a search run that audits how the replies to the user's own
// tweets are ordered on each tweet's page.
type Timeline struct {
	InitiatingUser  *model.TweetUser            `json:"initiating_user"`
	StartTime       time.Time                   `json:"start_time"`
	Timeline        *model.TweetCollection      `json:"timeline"`
	SourceTweetIDs  []uint64                    `json:"source_tweet_ids"`
	IndividualPages map[uint64]*model.ReplyPage `json:"individual_pages"`
}

// PageBySourceTweetID returns the individual-tweet page snapshot for a
// source tweet, nil when the scrape did not capture one.
func (t *Timeline) PageBySourceTweetID(id uint64) *model.ReplyPage {
	if t == nil {
		return nil
	}
	return t.IndividualPages[id]
}

// Document is the on-disk envelope around a search run.
type Document struct {
	Mode     Mode      `json:"mode"`
	Replies  *Replies  `json:"replies,omitempty"`
	Timeline *Timeline `json:"timeline,omitempty"`
}

// Load reads and validates a search run document from a JSON file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read search run: %w", err)
	}
	return Decode(data)
}

// Decode parses and validates a search run document.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode search run: %w", err)
	}

	switch doc.Mode {
	case ModeReplies:
		if doc.Replies == nil {
			return nil, fmt.Errorf("search run mode is %q but no replies section", doc.Mode)
		}
		if doc.Replies.Timeline == nil || doc.Replies.Timeline.Len() == 0 {
			return nil, fmt.Errorf("replies search run has an empty timeline")
		}
	case ModeTimeline:
		if doc.Timeline == nil {
			return nil, fmt.Errorf("search run mode is %q but no timeline section", doc.Mode)
		}
		if doc.Timeline.Timeline == nil || doc.Timeline.Timeline.Len() == 0 {
			return nil, fmt.Errorf("timeline search run has an empty timeline")
		}
	default:
		return nil, fmt.Errorf("unknown search run mode %q", doc.Mode)
	}

	return &doc, nil
}

// Handle returns the initiating user's handle, "" when unknown.
func (d *Document) Handle() string {
	switch {
	case d.Replies != nil && d.Replies.InitiatingUser != nil:
		return d.Replies.InitiatingUser.Handle
	case d.Timeline != nil && d.Timeline.InitiatingUser != nil:
		return d.Timeline.InitiatingUser.Handle
	}
	return ""
}

// StartTime returns the scrape's start time.
func (d *Document) StartTime() time.Time {
	switch {
	case d.Replies != nil:
		return d.Replies.StartTime
	case d.Timeline != nil:
		return d.Timeline.StartTime
	}
	return time.Time{}
}

package analyzer

import (
	"time"

	"github.com/TolstoyDotCom/more-speech-sub000/internal/model"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/searchrun"
)

// TweetStatus is the visibility verdict for a single reply examined against
// the page it was posted to.
type TweetStatus string

const (
	StatusUnknown TweetStatus = "UNKNOWN"

	// The reply is missing from a fully retrieved page.
	StatusCensoredNotFound TweetStatus = "CENSORED_NOTFOUND"
	// The reply is behind a "show more replies" link.
	StatusCensoredHidden TweetStatus = "CENSORED_HIDDEN"
	// The reply is behind a "may contain offensive content" link.
	StatusCensoredAbusive TweetStatus = "CENSORED_ABUSIVE"

	// The reply is missing from a partially retrieved page; the three
	// grades reflect how much of the page was seen.
	StatusSuppressedNormal TweetStatus = "SUPPRESSED_NORMAL"
	StatusSuppressedWorse  TweetStatus = "SUPPRESSED_WORSE"
	StatusSuppressedWorst  TweetStatus = "SUPPRESSED_WORST"

	StatusVisibleBest   TweetStatus = "VISIBLE_BEST"
	StatusVisibleBetter TweetStatus = "VISIBLE_BETTER"
	StatusVisibleNormal TweetStatus = "VISIBLE_NORMAL"
	StatusVisibleWorse  TweetStatus = "VISIBLE_WORSE"
	StatusVisibleWorst  TweetStatus = "VISIBLE_WORST"
)

// TimelineStatus is the aggregate verdict over one source tweet's whole
// reply set.
type TimelineStatus string

const (
	TimelineSuppressedMany TimelineStatus = "SUPPRESSED_MANY"
	TimelineVisibleMany    TimelineStatus = "VISIBLE_MANY"
	TimelineVisibleMost    TimelineStatus = "VISIBLE_MOST"
)

// RepliesReportItem is the verdict for one source tweet in a replies run:
// where the user's reply landed in somebody else's reply page.
type RepliesReportItem struct {
	SourceTweet *model.Tweet       `json:"source_tweet"`
	ReplyThread *model.ReplyThread `json:"-"`

	TotalReplies       int  `json:"total_replies"`
	TotalRepliesActual int  `json:"total_replies_actual"`
	IsComplete         bool `json:"is_complete"`

	Status TweetStatus `json:"status"`

	// Rank is the reply's actual page position; the expected ranks are
	// where engagement and chronology say it should have been. All three
	// stay 0 when the reply was not found in the page.
	Rank                      int `json:"rank"`
	ExpectedRankByInteraction int `json:"expected_rank_by_interaction"`
	ExpectedRankByDate        int `json:"expected_rank_by_date"`

	Attributes map[string]string `json:"attributes"`
}

func (i *RepliesReportItem) setAttribute(key, value string) {
	if i.Attributes == nil {
		i.Attributes = map[string]string{}
	}
	i.Attributes[key] = value
}

// TimelineReportItem is the verdict for one source tweet in a timeline run:
// how its own reply set was ordered and pruned.
type TimelineReportItem struct {
	SourceTweet *model.Tweet     `json:"source_tweet"`
	ReplyPage   *model.ReplyPage `json:"-"`

	TotalReplies       int  `json:"total_replies"`
	TotalRepliesActual int  `json:"total_replies_actual"`
	IsComplete         bool `json:"is_complete"`

	Status TimelineStatus `json:"status"`

	NumSuppressed int `json:"num_suppressed"`
	NumHidden     int `json:"num_hidden"`

	AnomalousElevated           []*AnalyzedTweet `json:"anomalous_elevated"`
	AnomalousSuppressedOrHidden []*AnalyzedTweet `json:"anomalous_suppressed_or_hidden"`
	HiddenTweets                []*AnalyzedTweet `json:"hidden_tweets"`

	Attributes map[string]string `json:"attributes"`
}

func (i *TimelineReportItem) setAttribute(key, value string) {
	if i.Attributes == nil {
		i.Attributes = map[string]string{}
	}
	i.Attributes[key] = value
}

// Report is the full result of one analysis run, handed to the renderer.
// Exactly one of RepliesItems or TimelineItems is populated, matching Mode.
type Report struct {
	Mode       searchrun.Mode `json:"mode"`
	Handle     string         `json:"handle"`
	StartTime  time.Time      `json:"start_time"`
	RankerName string         `json:"ranker_name"`

	RepliesItems  []*RepliesReportItem  `json:"replies_items,omitempty"`
	TimelineItems []*TimelineReportItem `json:"timeline_items,omitempty"`

	Attributes map[string]string `json:"attributes,omitempty"`

	// Summary is optional LLM-generated prose. It never influences any
	// status or score.
	Summary string `json:"summary,omitempty"`
}

// ItemCount returns the number of report items regardless of mode.
func (r *Report) ItemCount() int {
	if r.Mode == searchrun.ModeTimeline {
		return len(r.TimelineItems)
	}
	return len(r.RepliesItems)
}

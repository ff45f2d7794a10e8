package analyzer

import (
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/TolstoyDotCom/more-speech-sub000/internal/model"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/searchrun"
)

func repliesTweet(id uint64, unixTime int64, replies, retweets, favorites int) *model.Tweet {
	return &model.Tweet{
		ID: id,
		Attributes: map[string]string{
			"time":          strconv.FormatInt(unixTime, 10),
			"replycount":    strconv.Itoa(replies),
			"retweetcount":  strconv.Itoa(retweets),
			"favoritecount": strconv.Itoa(favorites),
			"permalinkpath": "/status/" + strconv.FormatUint(id, 10),
			"tweettext":     "reply text goes here",
		},
	}
}

func repliesRun(sourceTweet *model.Tweet, thread *model.ReplyThread) *searchrun.Replies {
	return &searchrun.Replies{
		InitiatingUser: model.NewTweetUser("tester", "Tester", model.NotVerified),
		StartTime:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Timeline:       &model.TweetCollection{Tweets: []*model.Tweet{sourceTweet}},
		SourceTweetIDs: []uint64{sourceTweet.ID},
		ReplyThreads:   map[uint64]*model.ReplyThread{sourceTweet.ID: thread},
	}
}

func TestRepliesClassifier_VisibleBest(t *testing.T) {
	c := NewRepliesClassifier(zerolog.Nop())

	source := repliesTweet(100, 1000, 0, 0, 0)
	page := &model.ReplyPage{
		TweetCollection: &model.TweetCollection{Tweets: []*model.Tweet{
			source,
			repliesTweet(101, 1100, 5, 5, 5),
			repliesTweet(102, 1200, 9, 9, 9),
		}},
		NumReplies: 3,
		Complete:   true,
	}
	thread := &model.ReplyThread{Type: model.ReplyThreadDirect, SourceTweet: source, ReplyPage: page}

	report, err := c.Run(repliesRun(source, thread))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report.Handle != "tester" {
		t.Errorf("handle = %q, want tester", report.Handle)
	}
	if len(report.RepliesItems) != 1 {
		t.Fatalf("expected 1 item, got %d", len(report.RepliesItems))
	}

	item := report.RepliesItems[0]
	if item.Status != StatusVisibleBest {
		t.Errorf("status = %s, want %s", item.Status, StatusVisibleBest)
	}
	if item.Rank != 1 {
		t.Errorf("rank = %d, want 1", item.Rank)
	}
	if item.Attributes["pageOrder"] != "1" {
		t.Errorf("pageOrder attribute = %q, want 1", item.Attributes["pageOrder"])
	}
	if item.TotalRepliesActual != 3 {
		t.Errorf("actual replies = %d, want 3", item.TotalRepliesActual)
	}
}

func TestRepliesClassifier_VisibleWorst(t *testing.T) {
	c := NewRepliesClassifier(zerolog.Nop())

	// The user's reply is oldest and most engaged with but sits last on the
	// page: both expected ranks say it should be near the top.
	source := repliesTweet(100, 1000, 50, 50, 50)
	page := &model.ReplyPage{
		TweetCollection: &model.TweetCollection{Tweets: []*model.Tweet{
			repliesTweet(101, 2000, 0, 0, 0),
			repliesTweet(102, 3000, 0, 0, 0),
			repliesTweet(103, 4000, 0, 0, 0),
			source,
		}},
		NumReplies: 4,
		Complete:   true,
	}
	thread := &model.ReplyThread{Type: model.ReplyThreadDirect, SourceTweet: source, ReplyPage: page}

	report, err := c.Run(repliesRun(source, thread))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	item := report.RepliesItems[0]
	if item.Status != StatusVisibleWorst {
		t.Errorf("status = %s, want %s", item.Status, StatusVisibleWorst)
	}
	if item.ExpectedRankByInteraction != 1 || item.ExpectedRankByDate != 1 {
		t.Errorf("expected ranks = %d/%d, want 1/1",
			item.ExpectedRankByInteraction, item.ExpectedRankByDate)
	}
}

func TestRepliesClassifier_CensoredStatuses(t *testing.T) {
	c := NewRepliesClassifier(zerolog.Nop())

	tests := []struct {
		quality string
		want    TweetStatus
	}{
		{"abusive_quality", StatusCensoredAbusive},
		{"low_quality", StatusCensoredHidden},
	}

	for _, tt := range tests {
		source := repliesTweet(100, 1000, 0, 0, 0)
		source.Attributes["quality"] = tt.quality
		page := &model.ReplyPage{
			TweetCollection: &model.TweetCollection{Tweets: []*model.Tweet{
				repliesTweet(101, 1100, 0, 0, 0),
				source,
			}},
			NumReplies: 2,
			Complete:   true,
		}
		thread := &model.ReplyThread{Type: model.ReplyThreadDirect, SourceTweet: source, ReplyPage: page}

		report, err := c.Run(repliesRun(source, thread))
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", tt.quality, err)
		}
		if got := report.RepliesItems[0].Status; got != tt.want {
			t.Errorf("%s: status = %s, want %s", tt.quality, got, tt.want)
		}
	}
}

func TestRepliesClassifier_NotFoundComplete(t *testing.T) {
	c := NewRepliesClassifier(zerolog.Nop())

	// The reply is nowhere on a fully retrieved page.
	source := repliesTweet(100, 1000, 0, 0, 0)
	page := &model.ReplyPage{
		TweetCollection: &model.TweetCollection{Tweets: []*model.Tweet{
			repliesTweet(101, 1100, 0, 0, 0),
			repliesTweet(102, 1200, 0, 0, 0),
		}},
		NumReplies: 2,
		Complete:   true,
	}
	thread := &model.ReplyThread{Type: model.ReplyThreadDirect, SourceTweet: source, ReplyPage: page}

	report, err := c.Run(repliesRun(source, thread))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	item := report.RepliesItems[0]
	if item.Status != StatusCensoredNotFound {
		t.Errorf("status = %s, want %s", item.Status, StatusCensoredNotFound)
	}
	if item.Rank != 0 {
		t.Errorf("rank = %d, want 0 for a missing reply", item.Rank)
	}
	if item.Attributes["foundSourceTweet"] != "IS NULL" {
		t.Errorf("foundSourceTweet = %q", item.Attributes["foundSourceTweet"])
	}
}

func TestRepliesClassifier_NotFoundPartial(t *testing.T) {
	c := NewRepliesClassifier(zerolog.Nop())

	// Only 10 of a claimed 100 replies were retrieved and all of them are
	// older than the user's reply, so its absence is barely an indictment.
	source := repliesTweet(100, 9000, 0, 0, 0)
	tweets := make([]*model.Tweet, 0, 10)
	for i := 0; i < 10; i++ {
		tweets = append(tweets, repliesTweet(uint64(200+i), 1000+int64(i), 0, 0, 0))
	}
	page := &model.ReplyPage{
		TweetCollection: &model.TweetCollection{Tweets: tweets},
		NumReplies:      100,
		Complete:        false,
	}
	thread := &model.ReplyThread{Type: model.ReplyThreadDirect, SourceTweet: source, ReplyPage: page}

	report, err := c.Run(repliesRun(source, thread))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	item := report.RepliesItems[0]
	if item.Status != StatusSuppressedNormal {
		t.Errorf("status = %s, want %s", item.Status, StatusSuppressedNormal)
	}
	if item.Attributes["percentComplete"] != "10" {
		t.Errorf("percentComplete = %q, want 10", item.Attributes["percentComplete"])
	}
	if item.Attributes["numNewerTweets"] != "0" {
		t.Errorf("numNewerTweets = %q, want 0", item.Attributes["numNewerTweets"])
	}
}

func TestRepliesClassifier_IndirectThreadAttributes(t *testing.T) {
	c := NewRepliesClassifier(zerolog.Nop())

	source := repliesTweet(100, 1000, 0, 0, 0)
	source.Attributes["isreplyto"] = "555"
	page := &model.ReplyPage{
		TweetCollection: &model.TweetCollection{Tweets: []*model.Tweet{source}},
		NumReplies:      1,
		Complete:        true,
	}
	thread := &model.ReplyThread{
		Type:        model.ReplyThreadIndirect,
		SourceTweet: source,
		ReplyPage:   page,
		ConversationCollection: &model.TweetCollection{Tweets: []*model.Tweet{
			repliesTweet(555, 900, 0, 0, 0),
		}},
	}

	report, err := c.Run(repliesRun(source, thread))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	item := report.RepliesItems[0]
	if item.Attributes["initial conversation id"] != "555" {
		t.Errorf("initial conversation id = %q, want 555", item.Attributes["initial conversation id"])
	}
	if item.Attributes["reply thread type"] != "indirect" {
		t.Errorf("reply thread type = %q, want indirect", item.Attributes["reply thread type"])
	}
}

func TestRepliesClassifier_SkipsMissingThreads(t *testing.T) {
	c := NewRepliesClassifier(zerolog.Nop())

	source := repliesTweet(100, 1000, 0, 0, 0)
	run := repliesRun(source, &model.ReplyThread{
		Type:        model.ReplyThreadDirect,
		SourceTweet: source,
		ReplyPage: &model.ReplyPage{
			TweetCollection: &model.TweetCollection{Tweets: []*model.Tweet{source}},
			NumReplies:      1,
			Complete:        true,
		},
	})
	run.SourceTweetIDs = append(run.SourceTweetIDs, 999) // no tweet, no thread

	report, err := c.Run(run)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(report.RepliesItems) != 1 {
		t.Errorf("expected the unresolvable source tweet to be skipped, got %d items", len(report.RepliesItems))
	}
}

func TestRepliesClassifier_NilRun(t *testing.T) {
	c := NewRepliesClassifier(zerolog.Nop())

	if _, err := c.Run(nil); err == nil {
		t.Error("expected an error for a nil run")
	}
	if _, err := c.Run(&searchrun.Replies{}); err == nil {
		t.Error("expected an error for a run without a timeline")
	}
}

func TestPercentInt(t *testing.T) {
	tests := []struct {
		dividend, divisor, want int
	}{
		{1, 3, 33},
		{2, 3, 66},
		{-1, 3, -34}, // floors toward negative infinity
		{5, 0, 100},
		{0, 10, 0},
	}

	for _, tt := range tests {
		if got := percentInt(tt.dividend, tt.divisor); got != tt.want {
			t.Errorf("percentInt(%d, %d) = %d, want %d", tt.dividend, tt.divisor, got, tt.want)
		}
	}
}

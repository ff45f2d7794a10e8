package analyzer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/TolstoyDotCom/more-speech-sub000/internal/model"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/searchrun"
)

// Weights of the interaction-order baseline: where a reply "should" sit if
// the page were sorted purely by engagement.
const (
	interactionBoostReplies   = 4
	interactionBoostRetweets  = 2
	interactionBoostFavorites = 1
)

// RepliesClassifier classifies, for each source tweet of a replies run,
// how visibly the user's reply appeared in the page it was posted to.
// Stateless across invocations.
type RepliesClassifier struct {
	logger zerolog.Logger
}

func NewRepliesClassifier(logger zerolog.Logger) *RepliesClassifier {
	return &RepliesClassifier{logger: logger}
}

// Run classifies every source tweet of the run. A source tweet whose tweet
// or reply thread is missing, or whose classification fails, is skipped;
// the report is partial rather than the run failing.
func (c *RepliesClassifier) Run(run *searchrun.Replies) (*Report, error) {
	if run == nil || run.Timeline == nil {
		return nil, fmt.Errorf("replies run has no timeline")
	}

	report := &Report{
		Mode:       searchrun.ModeReplies,
		StartTime:  run.StartTime,
		Attributes: map[string]string{},
	}
	if run.InitiatingUser != nil {
		report.Handle = run.InitiatingUser.Handle
	}

	for _, id := range run.SourceTweetIDs {
		sourceTweet := run.Timeline.TweetByID(id)
		thread := run.ThreadBySourceTweetID(id)

		if sourceTweet == nil || thread == nil {
			c.logger.Debug().Uint64("source_tweet", id).Msg("source tweet or reply thread missing, skipping")
			continue
		}

		item, err := c.classify(sourceTweet, thread)
		if err != nil {
			c.logger.Warn().Err(err).Uint64("source_tweet", id).Msg("skipping source tweet")
			continue
		}
		report.RepliesItems = append(report.RepliesItems, item)
	}

	return report, nil
}

func (c *RepliesClassifier) classify(sourceTweet *model.Tweet, thread *model.ReplyThread) (*RepliesReportItem, error) {
	page := thread.ReplyPage
	if page == nil || page.TweetCollection.Len() == 0 {
		return nil, fmt.Errorf("reply page for tweet %d has no tweets", sourceTweet.ID)
	}

	item := &RepliesReportItem{
		SourceTweet:        sourceTweet,
		ReplyThread:        thread,
		TotalReplies:       page.NumReplies,
		TotalRepliesActual: page.TweetCollection.Len(),
		IsComplete:         page.Complete,
		Attributes:         map[string]string{},
	}

	if thread.Type == model.ReplyThreadIndirect && thread.ConversationCollection.Len() > 0 {
		item.setAttribute("initial conversation", summarizeTweets(thread.ConversationCollection.Tweets))
		item.setAttribute("initial conversation id", strconv.FormatUint(sourceTweet.RepliedToID(), 10))
	}

	item.setAttribute("reply thread type", string(thread.Type))
	item.setAttribute("total replies", strconv.Itoa(page.NumReplies))
	item.setAttribute("totalRepliesActual", strconv.Itoa(item.TotalRepliesActual))

	tweets := page.TweetCollection.Tweets
	item.setAttribute("_sourcetweets", summarizeTweets(tweets))

	numNewerTweets := countNewerTweets(sourceTweet, tweets)
	percentNewerTweets := percentInt(numNewerTweets, page.NumReplies)
	percentComplete := percentInt(len(tweets), page.NumReplies)

	item.setAttribute("numNewerTweets", strconv.Itoa(numNewerTweets))
	item.setAttribute("percentNewerTweets", strconv.Itoa(percentNewerTweets))
	item.setAttribute("percentComplete", strconv.Itoa(percentComplete))

	found := page.TweetCollection.TweetByID(sourceTweet.ID)
	if found == nil {
		// The reply isn't in the page. It might have been censored, or it
		// might just be further down a page we don't have all the tweets
		// from. Grade by how much of the page was seen.
		item.Status = notFoundStatus(page.Complete, percentNewerTweets, percentComplete)
		item.setAttribute("foundSourceTweet", "IS NULL")
		return item, nil
	}
	item.setAttribute("foundSourceTweet", found.Summary())

	pageOrder := page.TweetCollection.TweetOrderByID(sourceTweet.ID)

	byInteraction := page.TweetCollection.SortedByInteraction(
		interactionBoostReplies, interactionBoostRetweets, interactionBoostFavorites)
	item.setAttribute("tweetsInInteractionOrder", summarizeTweets(byInteraction))
	interactionOrder := tweetOrder(byInteraction, sourceTweet.ID)

	byDate := page.TweetCollection.SortedByTime()
	item.setAttribute("tweetsInDateOrder", summarizeTweets(byDate))
	dateOrder := tweetOrder(byDate, sourceTweet.ID)

	percentVsInteraction := percentInt(interactionOrder-pageOrder, page.NumReplies)
	percentVsDate := percentInt(dateOrder-pageOrder, page.NumReplies)

	item.setAttribute("pageOrder", strconv.Itoa(pageOrder))
	item.setAttribute("interactionOrder", strconv.Itoa(interactionOrder))
	item.setAttribute("dateOrder", strconv.Itoa(dateOrder))
	item.setAttribute("percentComparedToInteractionOrder", strconv.Itoa(percentVsInteraction))
	item.setAttribute("percentComparedToDateOrder", strconv.Itoa(percentVsDate))

	item.Rank = pageOrder
	item.ExpectedRankByInteraction = interactionOrder
	item.ExpectedRankByDate = dateOrder

	quality := found.SupposedQuality()
	switch {
	case quality == model.QualityAbusive:
		// Hidden behind a "may contain offensive content" link.
		item.Status = StatusCensoredAbusive
	case quality.Censored():
		// Hidden behind a "Show more replies" link.
		item.Status = StatusCensoredHidden
	case pageOrder <= 2:
		// First two tweets, no matter how many.
		item.Status = StatusVisibleBest
	case percentVsInteraction > 50 && percentVsDate > 50:
		item.Status = StatusVisibleBetter
	case percentVsInteraction >= 0 && percentVsDate >= 0:
		item.Status = StatusVisibleNormal
	case percentVsInteraction >= -50 && percentVsDate >= -50:
		item.Status = StatusVisibleWorse
	default:
		item.Status = StatusVisibleWorst
	}

	return item, nil
}

// notFoundStatus grades a reply that is missing from its page. A complete
// page means it was removed outright; otherwise the less of the page we
// retrieved, the less damning the absence.
func notFoundStatus(complete bool, percentNewerTweets, percentComplete int) TweetStatus {
	switch {
	case complete:
		return StatusCensoredNotFound
	case percentNewerTweets < 30 && percentComplete < 30:
		return StatusSuppressedNormal
	case percentNewerTweets < 70 && percentComplete < 70:
		return StatusSuppressedWorse
	default:
		return StatusSuppressedWorst
	}
}

// countNewerTweets counts tweets posted after the test tweet.
func countNewerTweets(testTweet *model.Tweet, tweets []*model.Tweet) int {
	t := testTweet.Time()
	count := 0
	for _, tweet := range tweets {
		if tweet.Time() > t {
			count++
		}
	}
	return count
}

// tweetOrder returns the 1-based position of the tweet with the given id,
// 0 when absent.
func tweetOrder(tweets []*model.Tweet, id uint64) int {
	for i, t := range tweets {
		if t.ID == id {
			return i + 1
		}
	}
	return 0
}

// percentInt is a floor percentage, 100 when the divisor is 0.
func percentInt(dividend, divisor int) int {
	if divisor == 0 {
		return 100
	}
	return int(math.Floor(100.0 * float64(dividend) / float64(divisor)))
}

package analyzer

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/TolstoyDotCom/more-speech-sub000/internal/model"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/searchrun"
	"github.com/TolstoyDotCom/more-speech-sub000/internal/text"
)

const numberOfSections = 3

// Aggregate status cutoffs, in percent of the reply set.
const (
	suppressedManySuppressedCutoff = 35
	suppressedManyHiddenCutoff     = 30
	visibleManySuppressedCutoff    = 20
	visibleManyHiddenCutoff        = 20
)

// TimelineClassifier classifies, for each of the user's own tweets, how the
// whole reply set under it was ordered and pruned. Stateless across
// invocations.
type TimelineClassifier struct {
	logger    zerolog.Logger
	extractor *text.Extractor
}

func NewTimelineClassifier(logger zerolog.Logger) *TimelineClassifier {
	return &TimelineClassifier{
		logger:    logger,
		extractor: text.NewExtractor(),
	}
}

// Run classifies every source tweet of the run using the given ranker.
// Items come out sorted newest first. A source tweet with a missing page
// or a failed classification is skipped and the report is partial.
func (c *TimelineClassifier) Run(ctx context.Context, run *searchrun.Timeline, ranker Ranker) (*Report, error) {
	if run == nil || run.Timeline == nil {
		return nil, fmt.Errorf("timeline run has no timeline")
	}

	report := &Report{
		Mode:       searchrun.ModeTimeline,
		StartTime:  run.StartTime,
		RankerName: ranker.Name(),
		Attributes: map[string]string{},
	}
	if run.InitiatingUser != nil {
		report.Handle = run.InitiatingUser.Handle
	}

	for _, id := range run.SourceTweetIDs {
		sourceTweet := run.Timeline.TweetByID(id)
		page := run.PageBySourceTweetID(id)

		if sourceTweet == nil || page == nil {
			c.logger.Debug().Uint64("source_tweet", id).Msg("source tweet or individual page missing, skipping")
			continue
		}

		item, err := c.classify(ctx, sourceTweet, page, ranker)
		if err != nil {
			c.logger.Warn().Err(err).Uint64("source_tweet", id).Msg("skipping source tweet")
			continue
		}
		report.TimelineItems = append(report.TimelineItems, item)
	}

	report.Attributes["rankingFunctionName"] = ranker.Name()
	sortItemsNewestFirst(report.TimelineItems)

	return report, nil
}

func (c *TimelineClassifier) classify(ctx context.Context, sourceTweet *model.Tweet, page *model.ReplyPage, ranker Ranker) (*TimelineReportItem, error) {
	if page.TweetCollection.Len() == 0 {
		return nil, fmt.Errorf("individual page for tweet %d has no tweets", sourceTweet.ID)
	}

	item := &TimelineReportItem{
		SourceTweet:        sourceTweet,
		ReplyPage:          page,
		TotalReplies:       page.NumReplies,
		TotalRepliesActual: page.TweetCollection.Len(),
		IsComplete:         page.Complete,
		Attributes:         map[string]string{},
	}

	replyTweets := page.TweetCollection.Tweets
	item.setAttribute("_sourcetweets", summarizeTweets(replyTweets))

	analyzedSource := NewAnalyzedTweet(c.logger, c.extractor, sourceTweet, 0, nil)

	analyzedReplies := make([]*AnalyzedTweet, 0, len(replyTweets))
	for i, tweet := range replyTweets {
		analyzedReplies = append(analyzedReplies, NewAnalyzedTweet(c.logger, c.extractor, tweet, i+1, analyzedSource))
	}

	AssignDateOrders(analyzedReplies)
	ranker.RankTweets(ctx, analyzedReplies, analyzedSource)
	ranked := AssignRankingOrders(analyzedReplies)

	item.setAttribute("_rankedtweets", summarizeAnalyzedTweets(ranked))

	// Each reply now carries its original page order plus a date order and
	// a ranking order; ranked holds them best-ranked first.

	// Suppressed: not hidden, but lower in the page than both the date and
	// ranking baselines would put it.
	numSuppressed := 0
	for _, reply := range ranked {
		if !reply.Censored() &&
			reply.OriginalOrder > reply.RankingOrder &&
			reply.OriginalOrder > reply.DateOrder {
			numSuppressed++
		}
	}

	// Start hiddenTweets with every hidden reply; any of them that lands in
	// anomalousSuppressedOrHidden is removed again to avoid double
	// reporting.
	hiddenTweets := []*AnalyzedTweet{}
	numHidden := 0
	for _, reply := range ranked {
		if reply.Censored() {
			hiddenTweets = append(hiddenTweets, reply)
			numHidden++
		}
	}

	anomalousElevated := []*AnalyzedTweet{}
	anomalousSuppressedOrHidden := []*AnalyzedTweet{}

	// Divide the ranked list into thirds. Integer division leaves the
	// middle section with the remainder.
	if len(ranked) >= 2*numberOfSections {
		numReplies := len(ranked)
		upperSectionCutoff := numReplies / numberOfSections
		lowerSectionCutoff := (numberOfSections - 1) * upperSectionCutoff

		// Walk the upper section top-down. A reply that is hidden, or that
		// sat in the bottom third of the page, doesn't belong this high.
		for which := 0; which < upperSectionCutoff; which++ {
			reply := ranked[which]
			hidden := reply.Censored()
			if hidden || reply.OriginalOrder >= lowerSectionCutoff {
				anomalousSuppressedOrHidden = append(anomalousSuppressedOrHidden, reply)
				if hidden {
					hiddenTweets = removeByID(hiddenTweets, reply.Tweet.ID)
				}
			}
		}

		// Walk the lower section bottom-up. A non-hidden reply that sat in
		// the top third of the page doesn't belong this low.
		for which := numReplies - 1; which > lowerSectionCutoff; which-- {
			reply := ranked[which]
			if !reply.Censored() && reply.OriginalOrder <= upperSectionCutoff {
				anomalousElevated = append(anomalousElevated, reply)
			}
		}
	}

	item.NumSuppressed = numSuppressed
	item.NumHidden = numHidden
	item.AnomalousElevated = anomalousElevated
	item.AnomalousSuppressedOrHidden = anomalousSuppressedOrHidden
	item.HiddenTweets = hiddenTweets

	percentSuppressed := percentInt(numSuppressed, len(ranked))
	percentHidden := percentInt(numHidden, len(ranked))

	item.setAttribute("percentSuppressed", strconv.Itoa(percentSuppressed))
	item.setAttribute("percentHidden", strconv.Itoa(percentHidden))

	switch {
	case percentSuppressed > suppressedManySuppressedCutoff || percentHidden > suppressedManyHiddenCutoff:
		item.Status = TimelineSuppressedMany
	case percentSuppressed > visibleManySuppressedCutoff || percentHidden > visibleManyHiddenCutoff:
		item.Status = TimelineVisibleMany
	default:
		item.Status = TimelineVisibleMost
	}

	item.setAttribute("rankingFunctionName", ranker.Name())

	return item, nil
}

// removeByID filters out the analyzed tweet with the given id.
func removeByID(tweets []*AnalyzedTweet, id uint64) []*AnalyzedTweet {
	out := tweets[:0]
	for _, at := range tweets {
		if at.Tweet.ID != id {
			out = append(out, at)
		}
	}
	return out
}

// sortItemsNewestFirst orders report items by source tweet time, newest
// first.
func sortItemsNewestFirst(items []*TimelineReportItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SourceTweet.Time() > items[j].SourceTweet.Time()
	})
}

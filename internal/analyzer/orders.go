package analyzer

import "sort"

// sortedCopy returns the tweets stable-sorted by key. Ties keep the input's
// relative order, so original page order breaks ties in both baselines.
func sortedCopy(tweets []*AnalyzedTweet, key func(*AnalyzedTweet) float64, ascending bool) []*AnalyzedTweet {
	out := make([]*AnalyzedTweet, len(tweets))
	copy(out, tweets)
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return key(out[i]) < key(out[j])
		}
		return key(out[i]) > key(out[j])
	})
	return out
}

// AssignDateOrders sorts a copy of the batch ascending by tweet time and
// writes each tweet's 1-based position in that order back onto it. Returns
// the sorted copy.
func AssignDateOrders(tweets []*AnalyzedTweet) []*AnalyzedTweet {
	sorted := sortedCopy(tweets, func(at *AnalyzedTweet) float64 {
		return float64(at.Tweet.Time())
	}, true)
	for i, at := range sorted {
		at.DateOrder = i + 1
	}
	return sorted
}

// AssignRankingOrders sorts a copy of the batch descending by ranking score
// and writes each tweet's 1-based position in that order back onto it.
// Returns the sorted copy.
func AssignRankingOrders(tweets []*AnalyzedTweet) []*AnalyzedTweet {
	sorted := sortedCopy(tweets, func(at *AnalyzedTweet) float64 {
		return at.Ranking
	}, false)
	for i, at := range sorted {
		at.RankingOrder = i + 1
	}
	return sorted
}

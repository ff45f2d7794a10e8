package model

// ReplyThreadType says how a reply was matched to the tweet it replied to.
type ReplyThreadType string

const (
	// ReplyThreadDirect means the stated conversation id was the actual parent.
	ReplyThreadDirect ReplyThreadType = "direct"

	// ReplyThreadIndirect means the stated conversation id was a stale or
	// ancestor id and the true parent had to be recovered by walking the
	// author's own reply chain.
	ReplyThreadIndirect ReplyThreadType = "indirect"
)

// ReplyPage is the snapshot of an individual-tweet page: the tweet itself,
// the replies that were on the page around it, the page's claimed reply
// count, and whether scrolling retrieved the whole list.
type ReplyPage struct {
	IndividualTweet *Tweet           `json:"individual_tweet"`
	TweetCollection *TweetCollection `json:"tweet_collection"`
	NumReplies      int              `json:"num_replies"`
	Complete        bool             `json:"complete"`
}

// ReplyThread pairs a source tweet with the page of the tweet it replied to.
// ConversationCollection is populated only for indirect threads, holding the
// conversation tweets that were scanned to resolve the true parent.
type ReplyThread struct {
	Type                   ReplyThreadType  `json:"type"`
	SourceTweet            *Tweet           `json:"source_tweet"`
	RepliedToTweet         *Tweet           `json:"replied_to_tweet,omitempty"`
	ReplyPage              *ReplyPage       `json:"reply_page"`
	ConversationCollection *TweetCollection `json:"conversation_collection,omitempty"`
}

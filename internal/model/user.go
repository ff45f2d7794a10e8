package model

import "strings"

// VerifiedStatus is the account verification badge state.
type VerifiedStatus string

const (
	VerifiedUnknown VerifiedStatus = "unknown"
	NotVerified     VerifiedStatus = "notverified"
	Verified        VerifiedStatus = "verified"
)

// TweetUser is the author of one or more collected tweets.
type TweetUser struct {
	Handle         string         `json:"handle"`
	DisplayName    string         `json:"display_name,omitempty"`
	VerifiedStatus VerifiedStatus `json:"verified_status,omitempty"`
	NumTotalTweets int            `json:"num_total_tweets,omitempty"`
	NumFollowers   int            `json:"num_followers,omitempty"`
	NumFollowing   int            `json:"num_following,omitempty"`
}

// NormalizeHandle lowercases a handle and strips whitespace and a leading @.
func NormalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(handle)), "@")
}

// NewTweetUser creates a user with a normalized handle.
func NewTweetUser(handle, displayName string, verified VerifiedStatus) *TweetUser {
	if verified == "" {
		verified = VerifiedUnknown
	}
	return &TweetUser{
		Handle:         NormalizeHandle(handle),
		DisplayName:    displayName,
		VerifiedStatus: verified,
	}
}

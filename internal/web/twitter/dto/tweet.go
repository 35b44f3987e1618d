// Package dto provides data transfer object.
package dto

import (
	"time"

	userModel "github.com/Laisky/twitter-clone/internal/web/user/model"
)

// TweetView is a tweet as rendered to clients, annotated with counts and
// the viewer's own engagement.
type TweetView struct {
	ID             uint64            `json:"id"`
	Author         userModel.Summary `json:"author"`
	TweetType      string            `json:"tweet_type"`
	RetweetingUser string            `json:"retweeting_user"`
	// ReplyTo is the parent author's user_id, empty unless REPLY.
	ReplyTo     string    `json:"reply_to"`
	Content     string    `json:"content"`
	Media       []string  `json:"media"`
	WrittenAt   time.Time `json:"written_at"`
	Replies     int64     `json:"replies"`
	Retweets    int64     `json:"retweets"`
	UserRetweet bool      `json:"user_retweet"`
	// Quotes is reserved, quote tweets do not exist yet.
	Quotes   int64 `json:"quotes"`
	Likes    int64 `json:"likes"`
	UserLike bool  `json:"user_like"`
}

// TweetDetail is the single tweet page.
type TweetDetail struct {
	TweetView
	// RepliedTweet is the parent of a REPLY.
	RepliedTweet *TweetView `json:"replied_tweet,omitempty"`
	// ReplyingTweets are the direct replies, oldest first.
	ReplyingTweets []*TweetView `json:"replying_tweets"`
}

// Home is the timeline of the viewer.
type Home struct {
	User   userModel.Summary `json:"user"`
	Tweets []*TweetView      `json:"tweets"`
}

// HomeArgs selects a page of the timeline. Size 0 returns everything.
type HomeArgs struct {
	Page int `form:"page"`
	Size int `form:"size"`
}

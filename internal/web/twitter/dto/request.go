package dto

import "encoding/json"

// PostTweetRequest is the body of POST /tweet/.
type PostTweetRequest struct {
	Content string   `json:"content"`
	Media   []string `json:"media"`
}

// ReplyTweetRequest is the body of POST /reply/.
//
// ID stays raw so that a present but malformed id can be told apart
// from a missing one.
type ReplyTweetRequest struct {
	ID      json.RawMessage `json:"id"`
	Content string          `json:"content"`
	Media   []string        `json:"media"`
}

// TweetIDRequest is the body of POST /retweet/ and POST /like/.
type TweetIDRequest struct {
	ID json.RawMessage `json:"id"`
}

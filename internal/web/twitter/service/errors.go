package service

import errors "github.com/Laisky/errors/v2"

var (
	// ErrEmptyTweet rejects a tweet without content and without media.
	ErrEmptyTweet = errors.New("tweet must have content or media")
	// ErrContentTooLong rejects content over the rune limit.
	ErrContentTooLong = errors.New("tweet content is too long")
	// ErrInvalidContent rejects content carrying forbidden characters.
	ErrInvalidContent = errors.New("tweet content is invalid")
	// ErrTooManyMedia rejects tweets with more media than allowed.
	ErrTooManyMedia = errors.New("too many media in tweet")
	// ErrInvalidMedia rejects an empty or oversized media reference.
	ErrInvalidMedia = errors.New("invalid media reference")
	// ErrInvalidPagination rejects out of range page or size.
	ErrInvalidPagination = errors.New("invalid pagination")
	// ErrTweetNotFound indicates the referenced tweet does not exist.
	ErrTweetNotFound = errors.New("tweet not found")
	// ErrForbidden rejects deleting another user's tweet.
	ErrForbidden = errors.New("you can not delete others' tweet")
	// ErrAlreadyRetweeted indicates the retweet entry already exists.
	ErrAlreadyRetweeted = errors.New("you already retweeted this tweet")
	// ErrNotRetweeted indicates there is no retweet entry to cancel.
	ErrNotRetweeted = errors.New("you have not retweeted this tweet")
	// ErrAlreadyLiked indicates the like entry already exists.
	ErrAlreadyLiked = errors.New("you already liked this tweet")
	// ErrNotLiked indicates there is no like entry to cancel.
	ErrNotLiked = errors.New("you have not liked this tweet")
)

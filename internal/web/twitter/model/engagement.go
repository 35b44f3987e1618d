package model

import "time"

// Retweet links a user to the tweet they retweeted and to the RETWEET tweet
// that was created for it.
type Retweet struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	UserID      uint64 `gorm:"not null;uniqueIndex:idx_retweets_user_tweet"`
	RetweetedID uint64 `gorm:"not null;uniqueIndex:idx_retweets_user_tweet;index"`
	// RetweetingID is the RETWEET tweet owned by this entry.
	RetweetingID uint64 `gorm:"not null;uniqueIndex"`
	CreatedAt    time.Time
}

// TableName pins the retweets table name.
func (Retweet) TableName() string {
	return "retweets"
}

// UserLike records that a user liked a tweet.
type UserLike struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;uniqueIndex:idx_likes_user_tweet"`
	TweetID   uint64 `gorm:"not null;uniqueIndex:idx_likes_user_tweet;index"`
	CreatedAt time.Time
}

// TableName pins the likes table name.
func (UserLike) TableName() string {
	return "user_likes"
}

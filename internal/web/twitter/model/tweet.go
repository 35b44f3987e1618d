// Package model defines the tweet and engagement records.
package model

import (
	"time"

	gutils "github.com/Laisky/go-utils/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Type classifies a tweet.
type Type string

const (
	// TypeGeneral is an original tweet.
	TypeGeneral Type = "GENERAL"
	// TypeReply answers the tweet referenced by ParentID.
	TypeReply Type = "REPLY"
	// TypeRetweet reposts the tweet referenced by SourceID.
	TypeRetweet Type = "RETWEET"
)

// Tweet is a single post.
//
// A RETWEET is authored by the retweeter and carries a snapshot of
// its source's content and media.
type Tweet struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	AuthorID uint64 `gorm:"not null;index"`
	Type     Type   `gorm:"type:varchar(16);not null;index"`
	Content  string `gorm:"type:text;not null"`
	// ParentID is set for REPLY only.
	ParentID *uint64 `gorm:"index"`
	// SourceID is set for RETWEET only.
	SourceID *uint64 `gorm:"index"`
	// RetweetingUser is the retweeter's public user_id, RETWEET only.
	RetweetingUser string    `gorm:"type:varchar(32);not null;default:''"`
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time

	Media []*Media `gorm:"-"`
}

// TableName pins the tweets table name.
func (Tweet) TableName() string {
	return "tweets"
}

// MediaURLs returns the media urls in position order, never nil.
func (t *Tweet) MediaURLs() []string {
	urls := make([]string, 0, len(t.Media))
	for _, m := range t.Media {
		urls = append(urls, m.URL)
	}
	return urls
}

// Media is one media reference attached to a tweet.
type Media struct {
	ID       uuid.UUID `gorm:"type:char(36);primaryKey"`
	TweetID  uint64    `gorm:"not null;index:idx_tweet_media_order,priority:1"`
	Position int       `gorm:"not null;index:idx_tweet_media_order,priority:2"`
	URL      string    `gorm:"type:varchar(1024);not null"`
}

// TableName pins the media table name.
func (Media) TableName() string {
	return "tweet_media"
}

// BeforeCreate fills the ID with a UUIDv7-compatible value when missing.
func (m *Media) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = gutils.UUID7Bytes()
	}
	return nil
}

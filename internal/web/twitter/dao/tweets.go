// Package dao implements the tweet store on top of gorm.
package dao

import (
	"context"

	"github.com/Laisky/errors/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Laisky/twitter-clone/internal/web/twitter/model"
)

// NewTweets wraps db.
func NewTweets(db *gorm.DB) *Tweets {
	return &Tweets{db: db}
}

// Tweets runs tweet queries against a database or an open transaction.
type Tweets struct {
	db *gorm.DB
}

// Transaction runs fn inside one database transaction.
// Every query fn issues must go through the Tweets it receives.
func (d *Tweets) Transaction(ctx context.Context, fn func(tx *Tweets) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Tweets{db: tx})
	})
}

// Create inserts tweet together with its media rows.
func (d *Tweets) Create(ctx context.Context, tweet *model.Tweet) error {
	if err := d.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return errors.Wrap(err, "create tweet")
	}
	if len(tweet.Media) == 0 {
		return nil
	}

	for i, m := range tweet.Media {
		m.TweetID = tweet.ID
		m.Position = i
	}
	if err := d.db.WithContext(ctx).Create(tweet.Media).Error; err != nil {
		return errors.Wrapf(err, "create media of tweet %d", tweet.ID)
	}

	return nil
}

// Get loads one tweet without its media.
// It returns gorm.ErrRecordNotFound when the tweet does not exist.
func (d *Tweets) Get(ctx context.Context, id uint64) (*model.Tweet, error) {
	tweet := new(model.Tweet)
	if err := d.db.WithContext(ctx).First(tweet, "id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(err, "load tweet %d", id)
	}

	return tweet, nil
}

// GetForUpdate loads one tweet without its media and locks its row until
// the surrounding transaction ends. Call it inside Transaction.
func (d *Tweets) GetForUpdate(ctx context.Context, id uint64) (*model.Tweet, error) {
	tweet := new(model.Tweet)
	if err := d.forUpdate(d.db.WithContext(ctx)).First(tweet, "id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(err, "lock tweet %d", id)
	}

	return tweet, nil
}

// forUpdate adds a row lock to q. sqlite has no row locks and runs on a
// single connection, so an open transaction already excludes every writer.
func (d *Tweets) forUpdate(q *gorm.DB) *gorm.DB {
	if d.db.Dialector.Name() == "sqlite" {
		return q
	}

	return q.Clauses(clause.Locking{Strength: "UPDATE"})
}

// GetWithMedia loads one tweet and its ordered media.
func (d *Tweets) GetWithMedia(ctx context.Context, id uint64) (*model.Tweet, error) {
	tweet, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	media, err := d.LoadMedia(ctx, []uint64{id})
	if err != nil {
		return nil, err
	}
	tweet.Media = media[id]

	return tweet, nil
}

// ListByIDs loads the tweets among ids that exist, keyed by id.
func (d *Tweets) ListByIDs(ctx context.Context, ids []uint64) (map[uint64]*model.Tweet, error) {
	tweets := make(map[uint64]*model.Tweet, len(ids))
	if len(ids) == 0 {
		return tweets, nil
	}

	var rows []*model.Tweet
	if err := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "load tweets by ids")
	}
	for _, t := range rows {
		tweets[t.ID] = t
	}

	return tweets, nil
}

// ListReplies returns the direct replies of parentID, oldest first.
func (d *Tweets) ListReplies(ctx context.Context, parentID uint64) ([]*model.Tweet, error) {
	replies := make([]*model.Tweet, 0)
	if err := d.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC, id ASC").
		Find(&replies).Error; err != nil {
		return nil, errors.Wrapf(err, "load replies of tweet %d", parentID)
	}

	return replies, nil
}

// ListByAuthors returns tweets written by any of authorIDs, newest first.
// size 0 disables pagination.
func (d *Tweets) ListByAuthors(ctx context.Context, authorIDs []uint64, page, size int) ([]*model.Tweet, error) {
	tweets := make([]*model.Tweet, 0)
	if len(authorIDs) == 0 {
		return tweets, nil
	}

	q := d.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC, id DESC")
	if size > 0 {
		q = q.Offset(page * size).Limit(size)
	}
	if err := q.Find(&tweets).Error; err != nil {
		return nil, errors.Wrap(err, "load tweets by authors")
	}

	return tweets, nil
}

// LoadMedia returns the media of every tweet in ids, ordered by position.
func (d *Tweets) LoadMedia(ctx context.Context, ids []uint64) (map[uint64][]*model.Media, error) {
	media := make(map[uint64][]*model.Media, len(ids))
	if len(ids) == 0 {
		return media, nil
	}

	var rows []*model.Media
	if err := d.db.WithContext(ctx).
		Where("tweet_id IN ?", ids).
		Order("tweet_id ASC, position ASC").
		Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "load media")
	}
	for _, m := range rows {
		media[m.TweetID] = append(media[m.TweetID], m)
	}

	return media, nil
}

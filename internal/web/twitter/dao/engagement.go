package dao

import (
	"context"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/twitter-clone/internal/web/twitter/model"
)

// CreateRetweet inserts a retweet ledger entry.
func (d *Tweets) CreateRetweet(ctx context.Context, entry *model.Retweet) error {
	if err := d.db.WithContext(ctx).Create(entry).Error; err != nil {
		return errors.Wrap(err, "create retweet entry")
	}

	return nil
}

// FindRetweet loads the entry of userID retweeting tweetID.
// It returns gorm.ErrRecordNotFound when there is none.
func (d *Tweets) FindRetweet(ctx context.Context, userID, tweetID uint64) (*model.Retweet, error) {
	entry := new(model.Retweet)
	if err := d.db.WithContext(ctx).
		First(entry, "user_id = ? AND retweeted_id = ?", userID, tweetID).Error; err != nil {
		return nil, errors.Wrapf(err, "load retweet of tweet %d by user %d", tweetID, userID)
	}

	return entry, nil
}

// CreateLike inserts a like ledger entry.
func (d *Tweets) CreateLike(ctx context.Context, entry *model.UserLike) error {
	if err := d.db.WithContext(ctx).Create(entry).Error; err != nil {
		return errors.Wrap(err, "create like entry")
	}

	return nil
}

// DeleteLike removes the like of userID on tweetID and reports how many rows went away.
func (d *Tweets) DeleteLike(ctx context.Context, userID, tweetID uint64) (int64, error) {
	result := d.db.WithContext(ctx).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Delete(&model.UserLike{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "delete like entry")
	}

	return result.RowsAffected, nil
}

// DeleteRetweet removes the ledger entry id and reports how many rows went away.
func (d *Tweets) DeleteRetweet(ctx context.Context, id uint64) (int64, error) {
	result := d.db.WithContext(ctx).Delete(&model.Retweet{}, "id = ?", id)
	if result.Error != nil {
		return 0, errors.Wrapf(result.Error, "delete retweet entry %d", id)
	}

	return result.RowsAffected, nil
}

package dao

import (
	"context"
	"slices"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/twitter-clone/internal/web/twitter/model"
)

// inBatchSize bounds the ids bound into one IN clause, far below the
// bind parameter limits of sqlite, postgres and mysql.
const inBatchSize = 500

// CascadeClosure returns rootID plus every tweet that must go with it:
// replies, recursively, and retweets of anything already collected.
// The result is sorted ascending.
func (d *Tweets) CascadeClosure(ctx context.Context, rootID uint64) ([]uint64, error) {
	seen := map[uint64]struct{}{rootID: {}}
	frontier := []uint64{rootID}
	for len(frontier) > 0 {
		var found []uint64
		for part := range slices.Chunk(frontier, inBatchSize) {
			var children []uint64
			if err := d.db.WithContext(ctx).
				Model(&model.Tweet{}).
				Where("parent_id IN ? OR source_id IN ?", part, part).
				Pluck("id", &children).Error; err != nil {
				return nil, errors.Wrap(err, "collect replies and retweets")
			}

			var ledger []uint64
			if err := d.db.WithContext(ctx).
				Model(&model.Retweet{}).
				Where("retweeted_id IN ?", part).
				Pluck("retweeting_id", &ledger).Error; err != nil {
				return nil, errors.Wrap(err, "collect retweet entries")
			}

			found = append(found, children...)
			found = append(found, ledger...)
		}

		frontier = frontier[:0]
		for _, id := range found {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			frontier = append(frontier, id)
		}
	}

	ids := make([]uint64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// LockClosure collects the closure of rootID and locks every tweet in it.
// A reply or retweet committed while the locks were taken makes the
// closure grow, so it is collected again until it is stable.
// Call it inside Transaction.
func (d *Tweets) LockClosure(ctx context.Context, rootID uint64) ([]uint64, error) {
	ids, err := d.CascadeClosure(ctx, rootID)
	if err != nil {
		return nil, err
	}
	if d.db.Dialector.Name() == "sqlite" {
		return ids, nil
	}

	for {
		for part := range slices.Chunk(ids, inBatchSize) {
			var locked []uint64
			if err = d.forUpdate(d.db.WithContext(ctx)).
				Model(&model.Tweet{}).
				Where("id IN ?", part).
				Pluck("id", &locked).Error; err != nil {
				return nil, errors.Wrap(err, "lock closure")
			}
		}

		again, err := d.CascadeClosure(ctx, rootID)
		if err != nil {
			return nil, err
		}
		if slices.Equal(again, ids) {
			return ids, nil
		}
		ids = again
	}
}

// DeleteCascade removes ids together with their retweet entries on either
// side, likes and media. It returns the number of tweet rows deleted.
// Call it inside Transaction.
func (d *Tweets) DeleteCascade(ctx context.Context, ids []uint64) (int64, error) {
	var deleted int64
	db := d.db.WithContext(ctx)
	for part := range slices.Chunk(ids, inBatchSize) {
		if err := db.Where("retweeted_id IN ? OR retweeting_id IN ?", part, part).
			Delete(&model.Retweet{}).Error; err != nil {
			return 0, errors.Wrap(err, "delete retweet entries")
		}
		if err := db.Where("tweet_id IN ?", part).
			Delete(&model.UserLike{}).Error; err != nil {
			return 0, errors.Wrap(err, "delete likes")
		}
		if err := db.Where("tweet_id IN ?", part).
			Delete(&model.Media{}).Error; err != nil {
			return 0, errors.Wrap(err, "delete media")
		}

		result := db.Where("id IN ?", part).Delete(&model.Tweet{})
		if result.Error != nil {
			return 0, errors.Wrap(result.Error, "delete tweets")
		}
		deleted += result.RowsAffected
	}

	return deleted, nil
}

package dao

import (
	"context"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/twitter-clone/internal/web/twitter/model"
)

type countRow struct {
	RefID uint64
	Total int64
}

// countGrouped runs `SELECT col AS ref_id, COUNT(*) AS total ... GROUP BY col`
// restricted to col IN ids.
func (d *Tweets) countGrouped(ctx context.Context, table any, col string, ids []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []countRow
	if err := d.db.WithContext(ctx).
		Model(table).
		Select(col+" AS ref_id, COUNT(*) AS total").
		Where(col+" IN ?", ids).
		Group(col).
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "count grouped by %s", col)
	}
	for _, r := range rows {
		counts[r.RefID] = r.Total
	}

	return counts, nil
}

// CountReplies returns the number of direct replies per tweet.
func (d *Tweets) CountReplies(ctx context.Context, ids []uint64) (map[uint64]int64, error) {
	return d.countGrouped(ctx, &model.Tweet{}, "parent_id", ids)
}

// CountRetweets returns the number of retweets per tweet.
func (d *Tweets) CountRetweets(ctx context.Context, ids []uint64) (map[uint64]int64, error) {
	return d.countGrouped(ctx, &model.Retweet{}, "retweeted_id", ids)
}

// CountLikes returns the number of likes per tweet.
func (d *Tweets) CountLikes(ctx context.Context, ids []uint64) (map[uint64]int64, error) {
	return d.countGrouped(ctx, &model.UserLike{}, "tweet_id", ids)
}

// viewerFlags returns the subset of ids that userID has a row for in table.
func (d *Tweets) viewerFlags(ctx context.Context, table any, col string, userID uint64, ids []uint64) (map[uint64]bool, error) {
	flags := make(map[uint64]bool, len(ids))
	if len(ids) == 0 {
		return flags, nil
	}

	var hits []uint64
	if err := d.db.WithContext(ctx).
		Model(table).
		Where("user_id = ? AND "+col+" IN ?", userID, ids).
		Pluck(col, &hits).Error; err != nil {
		return nil, errors.Wrapf(err, "load viewer flags by %s", col)
	}
	for _, id := range hits {
		flags[id] = true
	}

	return flags, nil
}

// RetweetedBy returns which of ids userID has retweeted.
func (d *Tweets) RetweetedBy(ctx context.Context, userID uint64, ids []uint64) (map[uint64]bool, error) {
	return d.viewerFlags(ctx, &model.Retweet{}, "retweeted_id", userID, ids)
}

// LikedBy returns which of ids userID has liked.
func (d *Tweets) LikedBy(ctx context.Context, userID uint64, ids []uint64) (map[uint64]bool, error) {
	return d.viewerFlags(ctx, &model.UserLike{}, "tweet_id", userID, ids)
}

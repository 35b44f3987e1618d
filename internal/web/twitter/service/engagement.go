package service

import (
	"context"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/twitter-clone/internal/web/twitter/dao"
	"github.com/Laisky/twitter-clone/internal/web/twitter/model"
	userModel "github.com/Laisky/twitter-clone/internal/web/user/model"
	"github.com/Laisky/twitter-clone/library/db/gormdb"
	"github.com/Laisky/twitter-clone/library/metrics"
)

const (
	actionRetweet       = "retweet"
	actionCancelRetweet = "cancel_retweet"
	actionLike          = "like"
	actionCancelLike    = "cancel_like"
)

// recordEngagement counts the outcome of one engagement action.
func recordEngagement(action string, err error, rejected ...error) {
	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultError
		for _, r := range rejected {
			if errors.Is(err, r) {
				result = metrics.ResultRejected
				break
			}
		}
	}

	metrics.RecordEngagement(action, result)
}

// Retweet creates a RETWEET of tweetID for user together with its ledger
// entry and returns the new tweet id.
func (s *Service) Retweet(ctx context.Context, user *userModel.User, tweetID uint64) (id uint64, err error) {
	defer func() {
		recordEngagement(actionRetweet, err, ErrTweetNotFound, ErrAlreadyRetweeted)
	}()

	retweet := &model.Tweet{
		AuthorID:       user.ID,
		Type:           model.TypeRetweet,
		SourceID:       &tweetID,
		RetweetingUser: user.UserID,
	}
	err = s.dao.Transaction(ctx, func(tx *dao.Tweets) error {
		source, err := lockTweet(ctx, tx, tweetID)
		if err != nil {
			return err
		}
		if _, err = tx.FindRetweet(ctx, user.ID, source.ID); err == nil {
			return ErrAlreadyRetweeted
		} else if !gormdb.IsNotFound(err) {
			return err
		}

		media, err := tx.LoadMedia(ctx, []uint64{source.ID})
		if err != nil {
			return err
		}
		for _, m := range media[source.ID] {
			retweet.Media = append(retweet.Media, &model.Media{Position: m.Position, URL: m.URL})
		}
		retweet.Content = source.Content

		if err = tx.Create(ctx, retweet); err != nil {
			return err
		}
		return tx.CreateRetweet(ctx, &model.Retweet{
			UserID:       user.ID,
			RetweetedID:  source.ID,
			RetweetingID: retweet.ID,
		})
	})
	if err != nil {
		if gormdb.IsUniqueViolation(err) {
			return 0, ErrAlreadyRetweeted
		}
		return 0, err
	}

	metrics.RecordTweetCreated(string(model.TypeRetweet))
	s.logger.Debug("tweet retweeted",
		zap.Uint64("tweet", retweet.ID),
		zap.Uint64("source", tweetID),
		zap.String("user", user.UserID))
	return retweet.ID, nil
}

// CancelRetweet removes the retweet of tweetID by user, and with it the
// RETWEET tweet and everything that hangs off that tweet.
func (s *Service) CancelRetweet(ctx context.Context, user *userModel.User, tweetID uint64) (err error) {
	defer func() {
		recordEngagement(actionCancelRetweet, err, ErrTweetNotFound, ErrNotRetweeted)
	}()

	if _, err = s.loadTweet(ctx, tweetID); err != nil {
		return err
	}

	var deleted int64
	err = s.dao.Transaction(ctx, func(tx *dao.Tweets) error {
		entry, err := tx.FindRetweet(ctx, user.ID, tweetID)
		if err != nil {
			if gormdb.IsNotFound(err) {
				return ErrNotRetweeted
			}
			return err
		}

		n, err := tx.DeleteRetweet(ctx, entry.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotRetweeted
		}

		deleted, err = s.deleteClosure(ctx, tx, entry.RetweetingID)
		return err
	})
	if err != nil {
		return err
	}

	metrics.RecordTweetsDeleted(deleted)
	return nil
}

// Like records that user likes tweetID.
func (s *Service) Like(ctx context.Context, user *userModel.User, tweetID uint64) (err error) {
	defer func() {
		recordEngagement(actionLike, err, ErrTweetNotFound, ErrAlreadyLiked)
	}()

	if err = s.dao.Transaction(ctx, func(tx *dao.Tweets) error {
		if _, err := lockTweet(ctx, tx, tweetID); err != nil {
			return err
		}
		return tx.CreateLike(ctx, &model.UserLike{
			UserID:  user.ID,
			TweetID: tweetID,
		})
	}); err != nil {
		if gormdb.IsUniqueViolation(err) {
			return ErrAlreadyLiked
		}
		return err
	}

	return nil
}

// CancelLike removes the like of user on tweetID.
func (s *Service) CancelLike(ctx context.Context, user *userModel.User, tweetID uint64) (err error) {
	defer func() {
		recordEngagement(actionCancelLike, err, ErrTweetNotFound, ErrNotLiked)
	}()

	if _, err = s.loadTweet(ctx, tweetID); err != nil {
		return err
	}

	n, err := s.dao.DeleteLike(ctx, user.ID, tweetID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotLiked
	}

	return nil
}

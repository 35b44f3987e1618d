// Package service implements tweets, their engagement ledger and the home timeline.
package service

import (
	"context"

	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"gorm.io/gorm"

	"github.com/Laisky/twitter-clone/internal/web/twitter/dao"
	"github.com/Laisky/twitter-clone/internal/web/twitter/model"
	userModel "github.com/Laisky/twitter-clone/internal/web/user/model"
	"github.com/Laisky/twitter-clone/library/db/gormdb"
	"github.com/Laisky/twitter-clone/library/log"
	"github.com/Laisky/twitter-clone/library/metrics"
)

// UserLoader resolves tweet authors and the follow graph.
type UserLoader interface {
	LoadByIDs(ctx context.Context, ids []uint64) (map[uint64]*userModel.User, error)
	FollowingIDs(ctx context.Context, followerID uint64) ([]uint64, error)
}

// Service implements the tweet operations.
type Service struct {
	dao    *dao.Tweets
	users  UserLoader
	logger logSDK.Logger
}

// New migrates the tweet tables and returns a Service.
func New(db *gorm.DB, users UserLoader, logger logSDK.Logger) (*Service, error) {
	if db == nil {
		return nil, errors.New("gorm db is required")
	}
	if users == nil {
		return nil, errors.New("user loader is required")
	}
	if logger == nil {
		logger = log.Logger.Named("tweet_service")
	}

	if err := model.Migrate(db); err != nil {
		return nil, errors.WithStack(err)
	}

	return &Service{
		dao:    dao.NewTweets(db),
		users:  users,
		logger: logger,
	}, nil
}

// Post writes a GENERAL tweet and returns its id.
func (s *Service) Post(ctx context.Context, author *userModel.User, content string, media []string) (uint64, error) {
	content, rows, err := sanitizeTweetBody(content, media)
	if err != nil {
		return 0, err
	}

	tweet := &model.Tweet{
		AuthorID: author.ID,
		Type:     model.TypeGeneral,
		Content:  content,
		Media:    rows,
	}
	if err = s.dao.Create(ctx, tweet); err != nil {
		return 0, errors.Wrap(err, "post tweet")
	}

	metrics.RecordTweetCreated(string(model.TypeGeneral))
	s.logger.Debug("tweet posted",
		zap.Uint64("tweet", tweet.ID),
		zap.String("author", author.UserID))
	return tweet.ID, nil
}

// Reply writes a REPLY to targetID and returns its id.
// The target row stays locked until the reply is written, so a concurrent
// Delete either sees the reply in its closure or makes Reply miss the target.
func (s *Service) Reply(ctx context.Context, author *userModel.User, targetID uint64, content string, media []string) (uint64, error) {
	tweet := &model.Tweet{
		AuthorID: author.ID,
		Type:     model.TypeReply,
	}
	err := s.dao.Transaction(ctx, func(tx *dao.Tweets) error {
		target, err := lockTweet(ctx, tx, targetID)
		if err != nil {
			return err
		}

		body, rows, err := sanitizeTweetBody(content, media)
		if err != nil {
			return err
		}

		tweet.Content = body
		tweet.ParentID = &target.ID
		tweet.Media = rows
		if err = tx.Create(ctx, tweet); err != nil {
			return errors.Wrapf(err, "reply tweet %d", target.ID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.RecordTweetCreated(string(model.TypeReply))
	s.logger.Debug("tweet replied",
		zap.Uint64("tweet", tweet.ID),
		zap.Uint64("parent", targetID),
		zap.String("author", author.UserID))
	return tweet.ID, nil
}

// Delete removes tweetID, its replies recursively and every retweet of
// anything removed, in one transaction. Only the author may delete.
func (s *Service) Delete(ctx context.Context, requester *userModel.User, tweetID uint64) error {
	var deleted int64
	err := s.dao.Transaction(ctx, func(tx *dao.Tweets) error {
		tweet, err := lockTweet(ctx, tx, tweetID)
		if err != nil {
			return err
		}
		if tweet.AuthorID != requester.ID {
			return ErrForbidden
		}

		deleted, err = s.deleteClosure(ctx, tx, tweet.ID)
		return err
	})
	if err != nil {
		return err
	}

	metrics.RecordTweetsDeleted(deleted)
	s.logger.Info("tweet deleted",
		zap.Uint64("tweet", tweetID),
		zap.Int64("cascaded", deleted),
		zap.String("requester", requester.UserID))
	return nil
}

// deleteClosure locks and removes rootID and everything that hangs off it.
func (s *Service) deleteClosure(ctx context.Context, tx *dao.Tweets, rootID uint64) (int64, error) {
	ids, err := tx.LockClosure(ctx, rootID)
	if err != nil {
		return 0, errors.Wrapf(err, "collect closure of tweet %d", rootID)
	}

	n, err := tx.DeleteCascade(ctx, ids)
	if err != nil {
		return 0, errors.Wrapf(err, "delete closure of tweet %d", rootID)
	}

	return n, nil
}

// loadTweet loads a tweet without media and maps a miss to ErrTweetNotFound.
func (s *Service) loadTweet(ctx context.Context, id uint64) (*model.Tweet, error) {
	tweet, err := s.dao.Get(ctx, id)
	if err != nil {
		if gormdb.IsNotFound(err) {
			return nil, ErrTweetNotFound
		}
		return nil, err
	}

	return tweet, nil
}

// lockTweet loads and locks a tweet inside tx and maps a miss to ErrTweetNotFound.
func lockTweet(ctx context.Context, tx *dao.Tweets, id uint64) (*model.Tweet, error) {
	tweet, err := tx.GetForUpdate(ctx, id)
	if err != nil {
		if gormdb.IsNotFound(err) {
			return nil, ErrTweetNotFound
		}
		return nil, err
	}

	return tweet, nil
}

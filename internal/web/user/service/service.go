// Package service manages users and the follow graph.
package service

import (
	"context"

	errors "github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"gorm.io/gorm"

	"github.com/Laisky/twitter-clone/internal/web/user/model"
	"github.com/Laisky/twitter-clone/library/db/gormdb"
	"github.com/Laisky/twitter-clone/library/log"
)

// Service provides persistence helpers for users and follows.
type Service struct {
	db     *gorm.DB
	logger logSDK.Logger
}

// NewService constructs a Service backed by the provided gorm database.
func NewService(db *gorm.DB, logger logSDK.Logger) (*Service, error) {
	if db == nil {
		return nil, errors.New("gorm db is required")
	}
	if logger == nil {
		logger = log.Logger.Named("user_service")
	}

	if err := Migrate(db); err != nil {
		return nil, errors.WithStack(err)
	}

	return &Service{db: db, logger: logger}, nil
}

// Migrate creates the users and follows tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Follow{}); err != nil {
		return errors.Wrap(err, "auto migrate user tables")
	}

	return nil
}

// CreateUser validates and stores a new user.
func (s *Service) CreateUser(ctx context.Context, userID, username, email, profileImg string) (*model.User, error) {
	var err error
	user := new(model.User)
	if user.UserID, err = sanitizeUserID(userID); err != nil {
		return nil, errors.Wrap(ErrInvalidUser, err.Error())
	}
	if user.Username, err = sanitizeUsername(username); err != nil {
		return nil, errors.Wrap(ErrInvalidUser, err.Error())
	}
	if user.Email, err = sanitizeEmail(email); err != nil {
		return nil, errors.Wrap(ErrInvalidUser, err.Error())
	}
	if user.ProfileImg, err = sanitizeText(profileImg, maxProfileImgLength, "profile_img"); err != nil {
		return nil, errors.Wrap(ErrInvalidUser, err.Error())
	}

	if err = s.db.WithContext(ctx).Create(user).Error; err != nil {
		if gormdb.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, errors.Wrap(err, "create user")
	}

	s.logger.Info("user created",
		zap.Uint64("id", user.ID),
		zap.String("user_id", user.UserID))
	return user, nil
}

// LoadByID returns the user with primary key id.
func (s *Service) LoadByID(ctx context.Context, id uint64) (*model.User, error) {
	user := new(model.User)
	if err := s.db.WithContext(ctx).First(user, "id = ?", id).Error; err != nil {
		if gormdb.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrapf(err, "load user %d", id)
	}

	return user, nil
}

// LoadByUserID returns the user with the public handle userID.
func (s *Service) LoadByUserID(ctx context.Context, userID string) (*model.User, error) {
	user := new(model.User)
	if err := s.db.WithContext(ctx).First(user, "user_id = ?", userID).Error; err != nil {
		if gormdb.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrapf(err, "load user %q", userID)
	}

	return user, nil
}

// LoadByIDs returns the users among ids that exist, keyed by primary key.
func (s *Service) LoadByIDs(ctx context.Context, ids []uint64) (map[uint64]*model.User, error) {
	users := make(map[uint64]*model.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var rows []*model.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "load users")
	}
	for _, u := range rows {
		users[u.ID] = u
	}

	return users, nil
}

// Follow makes follower follow the user identified by targetUserID.
func (s *Service) Follow(ctx context.Context, follower *model.User, targetUserID string) error {
	target, err := s.LoadByUserID(ctx, targetUserID)
	if err != nil {
		return err
	}
	if target.ID == follower.ID {
		return ErrFollowSelf
	}

	err = s.db.WithContext(ctx).Create(&model.Follow{
		FollowerID:  follower.ID,
		FollowingID: target.ID,
	}).Error
	if err != nil {
		if gormdb.IsUniqueViolation(err) {
			return ErrAlreadyFollowed
		}
		return errors.Wrap(err, "create follow")
	}

	s.logger.Debug("follow created",
		zap.String("follower", follower.UserID),
		zap.String("following", target.UserID))
	return nil
}

// Unfollow removes the follow relation from follower to targetUserID.
func (s *Service) Unfollow(ctx context.Context, follower *model.User, targetUserID string) error {
	target, err := s.LoadByUserID(ctx, targetUserID)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", follower.ID, target.ID).
		Delete(&model.Follow{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "delete follow")
	}
	if result.RowsAffected == 0 {
		return ErrNotFollowed
	}

	return nil
}

// FollowingIDs returns the ids of users that followerID follows.
func (s *Service) FollowingIDs(ctx context.Context, followerID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	if err := s.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "load following ids")
	}

	return ids, nil
}

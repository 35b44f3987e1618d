// Package model defines the user and follow records.
package model

import (
	"time"

	"github.com/jinzhu/copier"
)

// User is an account known to the identity provider.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	// UserID is the public handle, it is also the token subject.
	UserID     string    `gorm:"type:varchar(32);not null;uniqueIndex" json:"user_id"`
	Username   string    `gorm:"type:varchar(64);not null" json:"username"`
	Email      string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	ProfileImg string    `gorm:"type:varchar(1024);not null;default:''" json:"profile_img"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// TableName pins the users table name.
func (User) TableName() string {
	return "users"
}

// Follow records that Follower follows Following.
type Follow struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	FollowerID  uint64    `gorm:"not null;uniqueIndex:idx_follows_pair"`
	FollowingID uint64    `gorm:"not null;uniqueIndex:idx_follows_pair;index"`
	CreatedAt   time.Time
}

// TableName pins the follows table name.
func (Follow) TableName() string {
	return "follows"
}

// Summary is the author block rendered inside tweet views.
type Summary struct {
	Username   string `json:"username"`
	UserID     string `json:"user_id"`
	ProfileImg string `json:"profile_img"`
}

// Summary renders the author block of u. A nil user yields an empty summary.
func (u *User) Summary() Summary {
	var s Summary
	if u == nil {
		return s
	}
	if err := copier.Copy(&s, u); err != nil {
		return Summary{Username: u.Username, UserID: u.UserID, ProfileImg: u.ProfileImg}
	}

	return s
}

package service

import errors "github.com/Laisky/errors/v2"

var (
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidUser indicates the user payload did not pass validation.
	ErrInvalidUser = errors.New("invalid user")
	// ErrUserExists indicates the user_id or email is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrFollowSelf rejects following oneself.
	ErrFollowSelf = errors.New("you can not follow yourself")
	// ErrAlreadyFollowed indicates the follow relation already exists.
	ErrAlreadyFollowed = errors.New("you already followed this user")
	// ErrNotFollowed indicates there is no follow relation to remove.
	ErrNotFollowed = errors.New("you have not followed this user")
)

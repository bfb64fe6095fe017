package user

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUserInactive   = errors.New("user account is deactivated")
	ErrDuplicateEmail = errors.New("a user with this email already exists")
)

package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrDuplicate            = errors.New("notification already exists")
)

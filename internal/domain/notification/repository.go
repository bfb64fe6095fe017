package notification

import (
	"context"
	"time"
)

type Repository interface {
	// Create inserts n. A non-empty dedup key already stored for the same
	// recipient yields ErrDuplicate and no row.
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id uint) (*Notification, error)
	List(ctx context.Context, filter ListFilter) ([]*Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, id uint, userID string) error
	// MarkAllAsRead returns how many rows flipped; zero is not an error.
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	ExistsByDedupKey(ctx context.Context, userID, key string) (bool, error)
	// PurgeReadBefore deletes read notifications created before cutoff.
	PurgeReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type ListFilter struct {
	UserID   string
	IsRead   *bool
	Page     int
	PageSize int
}

package audit

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	List(ctx context.Context, filter ListFilter) ([]*Entry, int64, error)
	// PurgeBefore deletes entries created before cutoff and returns the count.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// CountByResource counts entries recorded for one resource.
	CountByResource(ctx context.Context, resourceType, resourceID string) (int64, error)
}

type ListFilter struct {
	Action   string
	UserID   string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

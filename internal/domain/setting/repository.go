package setting

import (
	"context"
)

// Repository defines the interface for setting persistence
type Repository interface {
	// GetByKey retrieves a setting by key
	GetByKey(ctx context.Context, key string) (*Setting, error)

	// GetAll retrieves all settings ordered by key
	GetAll(ctx context.Context) ([]*Setting, error)

	// Update saves a changed value
	Update(ctx context.Context, setting *Setting) error

	// CreateIfMissing inserts the setting unless its key exists; used by seeding
	CreateIfMissing(ctx context.Context, setting *Setting) (bool, error)
}

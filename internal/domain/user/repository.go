package user

import "context"

type Repository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter ListFilter) ([]*User, int64, error)
	Stats(ctx context.Context) (*Stats, error)
}

type ListFilter struct {
	Page       int
	PageSize   int
	Role       string
	Department string
	Search     string
	IsActive   *bool
}

type Stats struct {
	Total        int64
	Active       int64
	ByRole       map[string]int64
	LoggedInWeek int64
}

package category

import (
	"context"
	"errors"

	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrDuplicateName    = errors.New("a category with this name already exists in the area")
)

type Repository interface {
	// Create fails with ErrDuplicateName when (area, name) is taken.
	Create(ctx context.Context, c *Category) error
	// FindByName matches within an area, case-insensitively.
	FindByName(ctx context.Context, area vo.Area, name string) (*Category, error)
	List(ctx context.Context, filter ListFilter) ([]*Category, error)
}

type ListFilter struct {
	Area       *vo.Area
	ActiveOnly bool
}

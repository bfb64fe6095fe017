package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/csc-helpdesk/csc/internal/domain/category"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/mappers"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/models"
	"github.com/csc-helpdesk/csc/internal/shared/db"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/mapper"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	model := mappers.CategoryToModel(c)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return category.ErrDuplicateName
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	c.SetID(model.ID)
	return nil
}

func (r *CategoryRepository) FindByName(ctx context.Context, area vo.Area, name string) (*category.Category, error) {
	var model models.CategoryModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("area = ? AND LOWER(name) = ?", area.String(), strings.ToLower(strings.TrimSpace(name))).
		First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return mappers.CategoryToDomain(&model), nil
}

func (r *CategoryRepository) List(ctx context.Context, f category.ListFilter) ([]*category.Category, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.CategoryModel{})
	if f.Area != nil {
		query = query.Where("area = ?", f.Area.String())
	}
	if f.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []*models.CategoryModel
	if err := query.Order("area ASC").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return mapper.MapSlice(rows, mappers.CategoryToDomain), nil
}

package mappers

import (
	"github.com/csc-helpdesk/csc/internal/domain/category"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/models"
)

func CategoryToModel(c *category.Category) *models.CategoryModel {
	return &models.CategoryModel{
		ID:          c.ID(),
		Name:        c.Name(),
		Description: c.Description(),
		Area:        c.Area().String(),
		SLAHours:    c.SLAHours(),
		IsActive:    c.IsActive(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}

func CategoryToDomain(m *models.CategoryModel) *category.Category {
	return category.ReconstructCategory(m.ID, m.Name, m.Description, vo.Area(m.Area), m.SLAHours, m.IsActive, m.CreatedAt, m.UpdatedAt)
}

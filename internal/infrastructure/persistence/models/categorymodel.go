package models

import (
	"time"

	"github.com/csc-helpdesk/csc/internal/shared/constants"
)

type CategoryModel struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;uniqueIndex:idx_category_area_name,priority:2"`
	Description string `gorm:"size:500"`
	Area        string `gorm:"size:20;not null;uniqueIndex:idx_category_area_name,priority:1"`
	SLAHours    int    `gorm:"not null;default:24"`
	IsActive    bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CategoryModel) TableName() string {
	return constants.TableCategories
}

package models

import (
	"time"

	"github.com/csc-helpdesk/csc/internal/shared/constants"
)

// UserModel is the users table. Users are deactivated, never deleted.
type UserModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	Email       string `gorm:"uniqueIndex;not null;size:255"`
	Name        string `gorm:"not null;size:255"`
	Role        string `gorm:"not null;size:20;default:USER;index"`
	Department  string `gorm:"size:100;index"`
	Position    string `gorm:"size:100"`
	IsActive    bool   `gorm:"not null;default:true;index"`
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}

package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/csc-helpdesk/csc/internal/shared/constants"
)

type NotificationModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"size:36;not null;index:idx_notifications_user_read,priority:1;uniqueIndex:idx_notifications_dedup,priority:1"`
	Type      string `gorm:"size:30;not null"`
	Title     string `gorm:"size:255;not null"`
	Message   string `gorm:"type:text;not null"`
	Data      datatypes.JSON
	DedupKey  *string    `gorm:"size:100;uniqueIndex:idx_notifications_dedup,priority:2"`
	IsRead    bool       `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2"`
	ReadAt    *time.Time `gorm:"index"`
	CreatedAt time.Time  `gorm:"index"`
}

func (NotificationModel) TableName() string {
	return constants.TableNotifications
}

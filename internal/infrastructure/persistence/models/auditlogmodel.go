package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/csc-helpdesk/csc/internal/shared/constants"
)

type AuditLogModel struct {
	ID           uint    `gorm:"primaryKey"`
	UserID       *string `gorm:"size:36;index"`
	UserEmail    *string `gorm:"size:255"`
	Action       string  `gorm:"size:50;not null;index"`
	ResourceType string  `gorm:"size:50;index:idx_audit_resource,priority:1"`
	ResourceID   string  `gorm:"size:64;index:idx_audit_resource,priority:2"`
	Details      datatypes.JSON
	IPAddress    string    `gorm:"size:45"`
	UserAgent    string    `gorm:"size:500"`
	CreatedAt    time.Time `gorm:"index"`
}

func (AuditLogModel) TableName() string {
	return constants.TableAuditLogs
}

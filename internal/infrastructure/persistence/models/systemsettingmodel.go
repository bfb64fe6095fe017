package models

import (
	"time"

	"github.com/csc-helpdesk/csc/internal/shared/constants"
)

type SystemSettingModel struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	SettingKey  string `gorm:"column:setting_key;type:varchar(100);not null;uniqueIndex"`
	Value       string `gorm:"column:value;type:text"`
	ValueType   string `gorm:"column:value_type;type:varchar(20);not null;default:'STRING'"`
	Description string `gorm:"column:description;type:varchar(500)"`
	IsPublic    bool   `gorm:"column:is_public;not null;default:false"`
	UpdatedBy   string `gorm:"column:updated_by;type:varchar(36)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (SystemSettingModel) TableName() string {
	return constants.TableSettings
}

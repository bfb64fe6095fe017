package mappers

import (
	"github.com/csc-helpdesk/csc/internal/domain/setting"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/models"
)

func SettingToModel(s *setting.Setting) *models.SystemSettingModel {
	return &models.SystemSettingModel{
		ID:          s.ID(),
		SettingKey:  s.Key(),
		Value:       s.Value(),
		ValueType:   string(s.ValueType()),
		Description: s.Description(),
		IsPublic:    s.IsPublic(),
		UpdatedBy:   s.UpdatedBy(),
		CreatedAt:   s.CreatedAt(),
		UpdatedAt:   s.UpdatedAt(),
	}
}

func SettingToDomain(m *models.SystemSettingModel) *setting.Setting {
	return setting.ReconstructSetting(
		m.ID,
		m.SettingKey,
		m.Value,
		setting.ValueType(m.ValueType),
		m.Description,
		m.IsPublic,
		m.UpdatedBy,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

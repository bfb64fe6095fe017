package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/csc-helpdesk/csc/internal/domain/setting"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/mappers"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/models"
	"github.com/csc-helpdesk/csc/internal/shared/db"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
	"github.com/csc-helpdesk/csc/internal/shared/mapper"
)

// SettingRepository implements setting.Repository
type SettingRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSettingRepository(db *gorm.DB, logger logger.Interface) *SettingRepository {
	return &SettingRepository{db: db, logger: logger}
}

// GetByKey retrieves a setting by key
func (r *SettingRepository) GetByKey(ctx context.Context, key string) (*setting.Setting, error) {
	var model models.SystemSettingModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("setting_key = ?", key).
		First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, setting.ErrSettingNotFound
		}
		r.logger.Errorw("failed to get setting by key", "key", key, "error", err)
		return nil, fmt.Errorf("failed to get setting by key: %w", err)
	}
	return mappers.SettingToDomain(&model), nil
}

// GetAll retrieves all settings ordered by key
func (r *SettingRepository) GetAll(ctx context.Context) ([]*setting.Setting, error) {
	var rows []*models.SystemSettingModel
	if err := db.GetTxFromContext(ctx, r.db).
		Order("setting_key ASC").
		Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to get all settings", "error", err)
		return nil, fmt.Errorf("failed to get all settings: %w", err)
	}
	return mapper.MapSlice(rows, mappers.SettingToDomain), nil
}

// Update writes the value columns of an existing setting
func (r *SettingRepository) Update(ctx context.Context, s *setting.Setting) error {
	model := mappers.SettingToModel(s)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SystemSettingModel{}).
		Where("setting_key = ?", model.SettingKey).
		Updates(map[string]interface{}{
			"value":      model.Value,
			"updated_by": model.UpdatedBy,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update setting", "key", model.SettingKey, "error", result.Error)
		return fmt.Errorf("failed to update setting: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return setting.ErrSettingNotFound
	}
	return nil
}

// CreateIfMissing inserts the setting unless the key already exists and
// reports whether a row was written.
func (r *SettingRepository) CreateIfMissing(ctx context.Context, s *setting.Setting) (bool, error) {
	model := mappers.SettingToModel(s)
	result := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "setting_key"}}, DoNothing: true}).
		Create(model)
	if result.Error != nil {
		return false, fmt.Errorf("failed to seed setting %s: %w", model.SettingKey, result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	s.SetID(model.ID)
	return true, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/mappers"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/models"
	"github.com/csc-helpdesk/csc/internal/shared/db"
	"github.com/csc-helpdesk/csc/internal/shared/mapper"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create joins the transaction in ctx, if any, so ticket mutations and their
// audit rows commit together.
func (r *AuditRepository) Create(ctx context.Context, e *audit.Entry) error {
	model, err := mappers.AuditEntryToModel(e)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	e.SetID(model.ID)
	return nil
}

func (r *AuditRepository) List(ctx context.Context, f audit.ListFilter) ([]*audit.Entry, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.AuditLogModel{})
	if f.Action != "" {
		query = query.Where("action = ?", f.Action)
	}
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}
	query = query.Scopes(db.CreatedBetween("created_at", timeOrZero(f.From), timeOrZero(f.To)))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	var rows []*models.AuditLogModel
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Scopes(db.Paginate(f.Page, f.PageSize)).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}

	entries, err := mapper.MapSliceWithError(rows, mappers.AuditEntryToDomain)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *AuditRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.AuditLogModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge audit entries: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *AuditRepository) CountByResource(ctx context.Context, resourceType, resourceID string) (int64, error) {
	var n int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.AuditLogModel{}).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}
	return n, nil
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/csc-helpdesk/csc/internal/domain/notification"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/mappers"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/models"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
	"github.com/csc-helpdesk/csc/internal/shared/db"
	"github.com/csc-helpdesk/csc/internal/shared/mapper"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts with ON CONFLICT DO NOTHING so a dedup collision inside a
// postgres transaction does not abort it.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	model, err := mappers.NotificationToModel(n)
	if err != nil {
		return err
	}
	tx := db.GetTxFromContext(ctx, r.db)
	if model.DedupKey != nil {
		tx = tx.Clauses(clause.OnConflict{DoNothing: true})
	}
	result := tx.Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to create notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return notification.ErrDuplicate
	}
	return n.SetID(model.ID)
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uint) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notification.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return mappers.NotificationToDomain(&model)
}

func (r *NotificationRepository) List(ctx context.Context, f notification.ListFilter) ([]*notification.Notification, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Model(&models.NotificationModel{}).
		Where("user_id = ?", f.UserID)
	if f.IsRead != nil {
		query = query.Where("is_read = ?", *f.IsRead)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var rows []*models.NotificationModel
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Scopes(db.Paginate(f.Page, f.PageSize)).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	list, err := mapper.MapSliceWithError(rows, mappers.NotificationToDomain)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.NotificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return n, nil
}

// MarkAsRead only touches rows owned by userID; marking an already read
// notification succeeds without changing read_at.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id uint, userID string) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.NotificationModel{}).
		Where("id = ? AND user_id = ? AND is_read = ?", id, userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": biztime.NowUTC()})
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification as read: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := tx.Model(&models.NotificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check notification: %w", err)
	}
	if n == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.NotificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": biztime.NowUTC()})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *NotificationRepository) ExistsByDedupKey(ctx context.Context, userID, key string) (bool, error) {
	var n int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.NotificationModel{}).
		Where("user_id = ? AND dedup_key = ?", userID, key).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check notification dedup key: %w", err)
	}
	return n > 0, nil
}

func (r *NotificationRepository) PurgeReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.NotificationModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge notifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}

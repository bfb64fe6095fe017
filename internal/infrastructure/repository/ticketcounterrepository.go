package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/models"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
	"github.com/csc-helpdesk/csc/internal/shared/db"
)

// TicketCounterRepository allocates per-day ticket sequences from the
// ticket_counters table. Every call runs in its own short transaction,
// independent of any transaction carried by ctx, so the row lock is
// released before the ticket insert starts.
type TicketCounterRepository struct {
	db *gorm.DB
}

func NewTicketCounterRepository(db *gorm.DB) *TicketCounterRepository {
	return &TicketCounterRepository{db: db}
}

func (r *TicketCounterRepository) Next(ctx context.Context, periodKey string) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCounter(tx, periodKey); err != nil {
			return err
		}

		var counter models.TicketCounterModel
		if err := db.ForUpdate(tx).Where("period_key = ?", periodKey).First(&counter).Error; err != nil {
			return fmt.Errorf("failed to lock ticket counter: %w", err)
		}

		next = counter.LastSeq + 1
		return tx.Model(&models.TicketCounterModel{}).
			Where("period_key = ?", periodKey).
			Updates(map[string]interface{}{"last_seq": next, "updated_at": biztime.NowUTC()}).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to allocate sequence for %s: %w", periodKey, err)
	}
	return next, nil
}

// ensureCounter inserts the day's row unless another process already did.
func ensureCounter(tx *gorm.DB, periodKey string) error {
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.TicketCounterModel{PeriodKey: periodKey, UpdatedAt: biztime.NowUTC()}).Error
	if err != nil {
		return fmt.Errorf("failed to create ticket counter: %w", err)
	}
	return nil
}

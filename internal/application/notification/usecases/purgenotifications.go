package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/csc-helpdesk/csc/internal/domain/notification"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

// PurgeNotificationsUseCase removes read notifications past retention.
// Unread ones are kept however old they are.
type PurgeNotificationsUseCase struct {
	repo          notification.Repository
	retentionDays int
	logger        logger.Interface
	now           func() time.Time
}

func NewPurgeNotificationsUseCase(repo notification.Repository, retentionDays int, logger logger.Interface) *PurgeNotificationsUseCase {
	return &PurgeNotificationsUseCase{
		repo:          repo,
		retentionDays: retentionDays,
		logger:        logger,
		now:           biztime.NowUTC,
	}
}

func (uc *PurgeNotificationsUseCase) Execute(ctx context.Context) (int64, error) {
	if uc.retentionDays <= 0 {
		return 0, fmt.Errorf("notification retention must be positive, got %d", uc.retentionDays)
	}
	cutoff := uc.now().AddDate(0, 0, -uc.retentionDays)

	deleted, err := uc.repo.PurgeReadBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge notifications: %w", err)
	}

	uc.logger.Infow("read notifications purged", "deleted", deleted, "cutoff", cutoff)
	return deleted, nil
}

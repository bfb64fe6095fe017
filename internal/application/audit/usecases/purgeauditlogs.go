package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

// PurgeAuditLogsUseCase deletes entries past the retention window. Running
// it twice deletes nothing the second time.
type PurgeAuditLogsUseCase struct {
	repo          audit.Repository
	retentionDays int
	logger        logger.Interface
	now           func() time.Time
}

func NewPurgeAuditLogsUseCase(repo audit.Repository, retentionDays int, logger logger.Interface) *PurgeAuditLogsUseCase {
	return &PurgeAuditLogsUseCase{
		repo:          repo,
		retentionDays: retentionDays,
		logger:        logger,
		now:           biztime.NowUTC,
	}
}

func (uc *PurgeAuditLogsUseCase) Execute(ctx context.Context) (int64, error) {
	if uc.retentionDays <= 0 {
		return 0, fmt.Errorf("audit retention must be positive, got %d", uc.retentionDays)
	}
	cutoff := uc.now().AddDate(0, 0, -uc.retentionDays)

	deleted, err := uc.repo.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge audit logs: %w", err)
	}

	uc.logger.Infow("audit logs purged", "deleted", deleted, "cutoff", cutoff, "retention_days", uc.retentionDays)
	return deleted, nil
}

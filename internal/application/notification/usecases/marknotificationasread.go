package usecases

import (
	"context"
	stderrors "errors"

	"github.com/csc-helpdesk/csc/internal/domain/notification"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type MarkNotificationAsReadUseCase struct {
	repo   notification.Repository
	logger logger.Interface
}

func NewMarkNotificationAsReadUseCase(repo notification.Repository, logger logger.Interface) *MarkNotificationAsReadUseCase {
	return &MarkNotificationAsReadUseCase{repo: repo, logger: logger}
}

// Execute marks one of userID's notifications read. Marking an already read
// notification succeeds; another user's notification is not found.
func (uc *MarkNotificationAsReadUseCase) Execute(ctx context.Context, userID string, id uint) error {
	if err := uc.repo.MarkAsRead(ctx, id, userID); err != nil {
		if stderrors.Is(err, notification.ErrNotificationNotFound) {
			return errors.NewNotFoundError("notification not found")
		}
		uc.logger.Errorw("failed to mark notification as read", "id", id, "user_id", userID, "error", err)
		return errors.NewInternalError("failed to mark notification as read")
	}
	return nil
}

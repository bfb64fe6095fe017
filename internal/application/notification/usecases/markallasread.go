package usecases

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/notification/dto"
	"github.com/csc-helpdesk/csc/internal/domain/notification"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type MarkAllAsReadUseCase struct {
	repo   notification.Repository
	logger logger.Interface
}

func NewMarkAllAsReadUseCase(repo notification.Repository, logger logger.Interface) *MarkAllAsReadUseCase {
	return &MarkAllAsReadUseCase{repo: repo, logger: logger}
}

func (uc *MarkAllAsReadUseCase) Execute(ctx context.Context, userID string) (*dto.MarkAllAsReadResponse, error) {
	updated, err := uc.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to mark all notifications as read", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to mark notifications as read")
	}

	uc.logger.Infow("notifications marked as read", "user_id", userID, "updated", updated)
	return &dto.MarkAllAsReadResponse{Updated: updated}, nil
}

package usecases

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/notification/dto"
	"github.com/csc-helpdesk/csc/internal/domain/notification"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type GetUnreadCountUseCase struct {
	repo   notification.Repository
	logger logger.Interface
}

func NewGetUnreadCountUseCase(repo notification.Repository, logger logger.Interface) *GetUnreadCountUseCase {
	return &GetUnreadCountUseCase{repo: repo, logger: logger}
}

func (uc *GetUnreadCountUseCase) Execute(ctx context.Context, userID string) (*dto.UnreadCountResponse, error) {
	count, err := uc.repo.CountUnread(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to count unread notifications", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to count unread notifications")
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}

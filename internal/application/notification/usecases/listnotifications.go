package usecases

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/notification/dto"
	"github.com/csc-helpdesk/csc/internal/domain/notification"
	"github.com/csc-helpdesk/csc/internal/shared/constants"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type ListNotificationsUseCase struct {
	repo   notification.Repository
	logger logger.Interface
}

func NewListNotificationsUseCase(repo notification.Repository, logger logger.Interface) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{repo: repo, logger: logger}
}

func (uc *ListNotificationsUseCase) Execute(ctx context.Context, req dto.ListNotificationsRequest) (*common.ListResult[*dto.NotificationResponse], error) {
	page := common.NormalizePage(req.Page, req.PageSize, constants.DefaultPageSize)

	items, total, err := uc.repo.List(ctx, notification.ListFilter{
		UserID:   req.UserID,
		IsRead:   req.IsRead,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
	if err != nil {
		uc.logger.Errorw("failed to list notifications", "user_id", req.UserID, "error", err)
		return nil, errors.NewInternalError("failed to list notifications")
	}

	return &common.ListResult[*dto.NotificationResponse]{
		Items:    dto.ToNotificationResponseList(items),
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

package notification

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/notification/dto"
	"github.com/csc-helpdesk/csc/internal/application/notification/usecases"
	"github.com/csc-helpdesk/csc/internal/domain/notification"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

// Service is the inbox API used by the HTTP handlers.
type Service struct {
	listNotifications *usecases.ListNotificationsUseCase
	markAsRead        *usecases.MarkNotificationAsReadUseCase
	markAllAsRead     *usecases.MarkAllAsReadUseCase
	getUnreadCount    *usecases.GetUnreadCountUseCase
}

func NewService(repo notification.Repository, logger logger.Interface) *Service {
	return &Service{
		listNotifications: usecases.NewListNotificationsUseCase(repo, logger),
		markAsRead:        usecases.NewMarkNotificationAsReadUseCase(repo, logger),
		markAllAsRead:     usecases.NewMarkAllAsReadUseCase(repo, logger),
		getUnreadCount:    usecases.NewGetUnreadCountUseCase(repo, logger),
	}
}

func (s *Service) List(ctx context.Context, req dto.ListNotificationsRequest) (*common.ListResult[*dto.NotificationResponse], error) {
	return s.listNotifications.Execute(ctx, req)
}

func (s *Service) MarkAsRead(ctx context.Context, userID string, id uint) error {
	return s.markAsRead.Execute(ctx, userID, id)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID string) (*dto.MarkAllAsReadResponse, error) {
	return s.markAllAsRead.Execute(ctx, userID)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (*dto.UnreadCountResponse, error) {
	return s.getUnreadCount.Execute(ctx, userID)
}

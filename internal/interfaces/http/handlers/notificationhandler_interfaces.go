package handlers

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/notification/dto"
)

type notificationService interface {
	List(ctx context.Context, req dto.ListNotificationsRequest) (*common.ListResult[*dto.NotificationResponse], error)
	MarkAsRead(ctx context.Context, userID string, id uint) error
	MarkAllAsRead(ctx context.Context, userID string) (*dto.MarkAllAsReadResponse, error)
	UnreadCount(ctx context.Context, userID string) (*dto.UnreadCountResponse, error)
}

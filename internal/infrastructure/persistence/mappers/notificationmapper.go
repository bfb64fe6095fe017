package mappers

import (
	"fmt"

	"github.com/csc-helpdesk/csc/internal/domain/notification"
	vo "github.com/csc-helpdesk/csc/internal/domain/notification/valueobjects"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/models"
)

func NotificationToModel(n *notification.Notification) (*models.NotificationModel, error) {
	data, err := encodeMap(n.Payload())
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification payload: %w", err)
	}
	return &models.NotificationModel{
		ID:        n.ID(),
		UserID:    n.UserID(),
		Type:      n.Type().String(),
		Title:     n.Title(),
		Message:   n.Message(),
		Data:      data,
		DedupKey:  nullableString(n.DedupKey()),
		IsRead:    n.IsRead(),
		ReadAt:    n.ReadAt(),
		CreatedAt: n.CreatedAt(),
	}, nil
}

func NotificationToDomain(m *models.NotificationModel) (*notification.Notification, error) {
	payload, err := decodeMap(m.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload of notification %d: %w", m.ID, err)
	}
	typ, err := vo.NewNotificationType(m.Type)
	if err != nil {
		return nil, err
	}
	return notification.ReconstructNotification(
		m.ID,
		m.UserID,
		typ,
		m.Title,
		m.Message,
		payload,
		derefString(m.DedupKey),
		m.IsRead,
		m.ReadAt,
		m.CreatedAt,
	)
}

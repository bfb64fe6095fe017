package dto

import (
	"time"

	"github.com/csc-helpdesk/csc/internal/domain/notification"
	vo "github.com/csc-helpdesk/csc/internal/domain/notification/valueobjects"
)

// Recipient is the user a notification is addressed to. Email is only used
// for mail delivery and may be empty.
type Recipient struct {
	UserID string
	Email  string
}

type Message struct {
	Type     vo.NotificationType
	Title    string
	Body     string
	Payload  map[string]any
	DedupKey string
}

type NotificationResponse struct {
	ID        uint           `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	IsRead    bool           `json:"is_read"`
	ReadAt    *time.Time     `json:"read_at"`
	CreatedAt time.Time      `json:"created_at"`
}

type ListNotificationsRequest struct {
	UserID   string
	IsRead   *bool
	Page     int
	PageSize int
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkAllAsReadResponse struct {
	Updated int64 `json:"updated"`
}

func ToNotificationResponse(n *notification.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID(),
		Type:      n.Type().String(),
		Title:     n.Title(),
		Message:   n.Message(),
		Data:      n.Payload(),
		IsRead:    n.IsRead(),
		ReadAt:    n.ReadAt(),
		CreatedAt: n.CreatedAt(),
	}
}

func ToNotificationResponseList(items []*notification.Notification) []*NotificationResponse {
	out := make([]*NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, ToNotificationResponse(n))
	}
	return out
}

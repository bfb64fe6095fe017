package valueobjects

import "fmt"

type NotificationType string

const (
	TypeTicketAssigned NotificationType = "TICKET_ASSIGNED"
	TypeTicketUpdated  NotificationType = "TICKET_UPDATED"
	TypeTicketClosed   NotificationType = "TICKET_CLOSED"
	TypeTicketOverdue  NotificationType = "TICKET_OVERDUE"
	TypeSystemAlert    NotificationType = "SYSTEM_ALERT"
)

var validNotificationTypes = map[NotificationType]bool{
	TypeTicketAssigned: true,
	TypeTicketUpdated:  true,
	TypeTicketClosed:   true,
	TypeTicketOverdue:  true,
	TypeSystemAlert:    true,
}

func (t NotificationType) String() string {
	return string(t)
}

func (t NotificationType) IsValid() bool {
	return validNotificationTypes[t]
}

func NewNotificationType(s string) (NotificationType, error) {
	t := NotificationType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid notification type: %s", s)
	}
	return t, nil
}

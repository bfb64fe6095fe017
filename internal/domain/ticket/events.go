package ticket

import (
	"time"
)

type EventType string

const (
	EventCreated       EventType = "ticket.created"
	EventAssigned      EventType = "ticket.assigned"
	EventCommented     EventType = "ticket.commented"
	EventUpdated       EventType = "ticket.updated"
	EventStatusChanged EventType = "ticket.status_changed"
	EventClosed        EventType = "ticket.closed"
	EventCancelled     EventType = "ticket.cancelled"
)

// Event describes a committed lifecycle change; it is published after the
// transaction and never read back.
type Event struct {
	Type       EventType `json:"type"`
	TicketID   uint      `json:"ticket_id"`
	Number     string    `json:"ticket_number"`
	Status     string    `json:"status"`
	Priority   string    `json:"priority"`
	Area       string    `json:"area"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(eventType EventType, t *Ticket, actorID string, at time.Time) Event {
	return Event{
		Type:       eventType,
		TicketID:   t.ID(),
		Number:     t.Number(),
		Status:     t.Status().String(),
		Priority:   t.Priority().String(),
		Area:       t.Area().String(),
		ActorID:    actorID,
		OccurredAt: at,
	}
}

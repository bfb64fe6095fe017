package valueobjects

import (
	"fmt"
	"strings"
)

type TicketStatus string

const (
	StatusOpen       TicketStatus = "ABERTO"
	StatusInProgress TicketStatus = "EM_ANALISE"
	StatusWaiting    TicketStatus = "AGUARDANDO"
	StatusResolved   TicketStatus = "RESOLVIDO"
	StatusClosed     TicketStatus = "FECHADO"
	StatusCancelled  TicketStatus = "CANCELADO"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusOpen:       true,
	StatusInProgress: true,
	StatusWaiting:    true,
	StatusResolved:   true,
	StatusClosed:     true,
	StatusCancelled:  true,
}

// English names accepted on input, e.g. ?status=CLOSED.
var statusAliases = map[string]TicketStatus{
	"OPEN":        StatusOpen,
	"IN_PROGRESS": StatusInProgress,
	"WAITING":     StatusWaiting,
	"PENDING":     StatusWaiting,
	"RESOLVED":    StatusResolved,
	"CLOSED":      StatusClosed,
	"CANCELLED":   StatusCancelled,
	"CANCELED":    StatusCancelled,
}

var ticketStatusTransitions = map[TicketStatus][]TicketStatus{
	StatusOpen: {
		StatusInProgress,
		StatusClosed,
		StatusCancelled,
	},
	StatusInProgress: {
		StatusWaiting,
		StatusResolved,
		StatusClosed,
	},
	StatusWaiting: {
		StatusInProgress,
		StatusClosed,
	},
	StatusResolved: {
		StatusClosed,
		StatusInProgress,
	},
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

func (ts TicketStatus) CanTransitionTo(newStatus TicketStatus) bool {
	for _, allowed := range ticketStatusTransitions[ts] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

func (ts TicketStatus) IsOpen() bool {
	return ts == StatusOpen
}

func (ts TicketStatus) IsClosed() bool {
	return ts == StatusClosed
}

func (ts TicketStatus) IsCancelled() bool {
	return ts == StatusCancelled
}

// IsTerminal reports whether no further transition is possible.
func (ts TicketStatus) IsTerminal() bool {
	return ts == StatusClosed || ts == StatusCancelled
}

// IsActive reports whether the ticket still awaits work; overdue checks only apply to these.
func (ts TicketStatus) IsActive() bool {
	return ts == StatusOpen || ts == StatusInProgress || ts == StatusWaiting
}

// ActiveStatuses lists the statuses IsActive accepts.
func ActiveStatuses() []TicketStatus {
	return []TicketStatus{StatusOpen, StatusInProgress, StatusWaiting}
}

// AllStatuses lists every status in lifecycle order.
func AllStatuses() []TicketStatus {
	return []TicketStatus{StatusOpen, StatusInProgress, StatusWaiting, StatusResolved, StatusClosed, StatusCancelled}
}

func NewTicketStatus(s string) (TicketStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	if alias, ok := statusAliases[normalized]; ok {
		return alias, nil
	}
	ts := TicketStatus(normalized)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}

// Package audit models the append-only security and operations log.
package audit

import (
	"fmt"
	"time"

	"github.com/csc-helpdesk/csc/internal/shared/biztime"
)

type Action string

const (
	ActionLogin               Action = "LOGIN"
	ActionLogout              Action = "LOGOUT"
	ActionLoginDenied         Action = "LOGIN_DENIED"
	ActionTicketCreated       Action = "TICKET_CREATED"
	ActionTicketAssigned      Action = "TICKET_ASSIGNED"
	ActionTicketCommented     Action = "TICKET_COMMENTED"
	ActionTicketUpdated       Action = "TICKET_UPDATED"
	ActionTicketStatusChanged Action = "TICKET_STATUS_CHANGED"
	ActionTicketClosed        Action = "TICKET_CLOSED"
	ActionTicketCancelled     Action = "TICKET_CANCELLED"
	ActionUserUpdated         Action = "USER_UPDATED"
	ActionSettingUpdated      Action = "SETTING_UPDATED"
	ActionCategoryCreated     Action = "CATEGORY_CREATED"
	ActionReportExported      Action = "REPORT_EXPORTED"
)

func (a Action) String() string {
	return string(a)
}

// Actor identifies who performed an action; zero for system jobs.
type Actor struct {
	UserID string
	Email  string
}

// RequestMeta is the origin of the request that caused the entry.
type RequestMeta struct {
	IP        string
	UserAgent string
}

type Entry struct {
	id           uint
	actor        Actor
	action       Action
	resourceType string
	resourceID   string
	details      map[string]any
	meta         RequestMeta
	createdAt    time.Time
}

func NewEntry(actor Actor, action Action, resourceType, resourceID string, details map[string]any, meta RequestMeta) (*Entry, error) {
	if action == "" {
		return nil, fmt.Errorf("action is required")
	}
	if details == nil {
		details = map[string]any{}
	}
	return &Entry{
		actor:        actor,
		action:       action,
		resourceType: resourceType,
		resourceID:   resourceID,
		details:      details,
		meta:         meta,
		createdAt:    biztime.NowUTC(),
	}, nil
}

func ReconstructEntry(
	id uint,
	actor Actor,
	action Action,
	resourceType, resourceID string,
	details map[string]any,
	meta RequestMeta,
	createdAt time.Time,
) *Entry {
	return &Entry{
		id:           id,
		actor:        actor,
		action:       action,
		resourceType: resourceType,
		resourceID:   resourceID,
		details:      details,
		meta:         meta,
		createdAt:    createdAt,
	}
}

func (e *Entry) ID() uint                { return e.id }
func (e *Entry) Actor() Actor            { return e.actor }
func (e *Entry) Action() Action          { return e.action }
func (e *Entry) ResourceType() string    { return e.resourceType }
func (e *Entry) ResourceID() string      { return e.resourceID }
func (e *Entry) Details() map[string]any { return e.details }
func (e *Entry) Meta() RequestMeta       { return e.meta }
func (e *Entry) CreatedAt() time.Time    { return e.createdAt }

func (e *Entry) SetID(id uint) {
	e.id = id
}

package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/csc-helpdesk/csc/internal/shared/constants"
)

// TicketModel stores the requester, assignee and closer as id plus a
// name/email snapshot. No foreign keys; references are kept by the application.
type TicketModel struct {
	ID                 uint       `gorm:"primaryKey"`
	Number             string     `gorm:"uniqueIndex;size:32;not null"`
	Title              string     `gorm:"size:255;not null"`
	Description        string     `gorm:"type:text;not null"`
	Area               string     `gorm:"size:20;not null;index"`
	Board              string     `gorm:"size:30;not null"`
	Priority           string     `gorm:"size:20;not null;index"`
	Status             string     `gorm:"size:20;not null;index"`
	Category           string     `gorm:"size:100"`
	Subcategory        string     `gorm:"size:100"`
	DueDate            *time.Time `gorm:"index"`
	RequesterID        string     `gorm:"size:36;not null;index"`
	RequesterName      string     `gorm:"size:255"`
	RequesterEmail     string     `gorm:"size:255"`
	AssigneeID         *string    `gorm:"size:36;index"`
	AssigneeName       *string    `gorm:"size:255"`
	AssigneeEmail      *string    `gorm:"size:255"`
	ResolutionNotes    string     `gorm:"type:text"`
	ClosingDescription string     `gorm:"type:text"`
	ActualHours        *float64
	ClosedAt           *time.Time
	ClosedByID         *string   `gorm:"size:36"`
	ClosedByName       *string   `gorm:"size:255"`
	ClosedByEmail      *string   `gorm:"size:255"`
	Version            int       `gorm:"not null;default:1"`
	CreatedAt          time.Time `gorm:"index"`
	UpdatedAt          time.Time
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}

// TicketUpdateModel is one append-only trail entry.
type TicketUpdateModel struct {
	ID          uint   `gorm:"primaryKey"`
	TicketID    uint   `gorm:"not null;index:idx_ticket_updates_ticket_created,priority:1"`
	AuthorID    string `gorm:"size:36;not null;index"`
	AuthorName  string `gorm:"size:255"`
	AuthorEmail string `gorm:"size:255"`
	Kind        string `gorm:"size:20;not null"`
	Message     string `gorm:"type:text;not null"`
	OldValue    datatypes.JSON
	NewValue    datatypes.JSON
	IsInternal  bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"index:idx_ticket_updates_ticket_created,priority:2"`
}

func (TicketUpdateModel) TableName() string {
	return constants.TableTicketUpdates
}

// TicketCounterModel holds the last sequence handed out per business day.
type TicketCounterModel struct {
	PeriodKey string `gorm:"primaryKey;size:8"`
	LastSeq   int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (TicketCounterModel) TableName() string {
	return constants.TableTicketCounters
}

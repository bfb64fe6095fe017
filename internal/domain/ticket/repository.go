package ticket

import (
	"context"
	"time"

	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
)

type Repository interface {
	// Create inserts t and sets its ID. The number must already be set.
	Create(ctx context.Context, t *Ticket) error
	// Update saves t, failing with ErrConcurrentModification when the stored
	// version is not the one t was loaded with.
	Update(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, id uint) (*Ticket, error)
	GetByNumber(ctx context.Context, number string) (*Ticket, error)
	List(ctx context.Context, filter Filter) ([]*Ticket, int64, error)
	Stats(ctx context.Context, scope Scope, since time.Time) (*Stats, error)
	// ListOverdue pages through active tickets with due_date before now, by ascending id.
	ListOverdue(ctx context.Context, now time.Time, afterID uint, limit int) ([]*Ticket, error)
}

type UpdateRepository interface {
	Create(ctx context.Context, u *Update) error
	// ListByTicket returns the trail ordered by (created_at, id) ascending.
	ListByTicket(ctx context.Context, ticketID uint) ([]*Update, error)
}

// ReportRepository serves the aggregate and export queries.
type ReportRepository interface {
	Summary(ctx context.Context, filter ReportFilter) (*Summary, error)
	// ExportBatch pages through matching tickets by ascending id.
	ExportBatch(ctx context.Context, filter ReportFilter, afterID uint, limit int) ([]*Ticket, error)
	UserActivity(ctx context.Context, filter ReportFilter) ([]UserActivity, error)
}

// Scope restricts queries to a requester unless the caller sees all tickets.
type Scope struct {
	RequesterID string
	All         bool
}

type Filter struct {
	Scope       Scope
	Status      *vo.TicketStatus
	Priority    *vo.Priority
	Area        *vo.Area
	Board       *vo.Board
	AssigneeID  *string
	RequesterID *string
	Search      string
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}

type Stats struct {
	Total      int64
	ByStatus   map[vo.TicketStatus]int64
	ByPriority map[vo.Priority]int64
	ByArea     map[vo.Area]int64
	LastWeek   int64
}

// Open is the ABERTO count.
func (s *Stats) Open() int64 {
	return s.ByStatus[vo.StatusOpen]
}

type ReportFilter struct {
	From   *time.Time
	To     *time.Time
	Area   *vo.Area
	Status *vo.TicketStatus
}

type Summary struct {
	Total           int64
	Open            int64
	InProgress      int64
	Closed          int64
	Cancelled       int64
	AvgActualHours  float64
	AvgHoursToClose float64
	ByStatus        map[vo.TicketStatus]int64
	ByPriority      map[vo.Priority]int64
	ByArea          map[vo.Area]int64
	ByBoard         map[vo.Board]int64
}

type UserActivity struct {
	UserID         string
	Name           string
	Email          string
	Created        int64
	Assigned       int64
	Closed         int64
	AvgActualHours float64
	LastActivity   *time.Time
}

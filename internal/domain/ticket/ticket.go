package ticket

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
)

const (
	MinTitleLength       = 5
	MaxTitleLength       = 255
	MinDescriptionLength = 10
	MinResolutionLength  = 5
	MaxCategoryLength    = 100
)

// Party is a user reference with the name and e-mail captured at the time
// of the action, so renamed or deactivated users still read correctly.
type Party struct {
	ID    string
	Name  string
	Email string
}

func (p Party) IsZero() bool {
	return p.ID == ""
}

type Ticket struct {
	id                 uint
	number             string
	title              string
	description        string
	area               vo.Area
	board              vo.Board
	priority           vo.Priority
	status             vo.TicketStatus
	category           string
	subcategory        string
	dueDate            *time.Time
	requester          Party
	assignee           *Party
	resolutionNotes    string
	closingDescription string
	actualHours        *float64
	closedAt           *time.Time
	closedBy           *Party
	version            int
	createdAt          time.Time
	updatedAt          time.Time
}

// NewTicketParams carries the fields a requester supplies on creation.
type NewTicketParams struct {
	Title       string
	Description string
	Area        vo.Area
	Board       vo.Board
	Priority    vo.Priority
	Category    string
	Subcategory string
	DueDate     *time.Time
	Requester   Party
}

func NewTicket(p NewTicketParams) (*Ticket, error) {
	title := strings.TrimSpace(p.Title)
	description := strings.TrimSpace(p.Description)

	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if !p.Area.IsValid() {
		return nil, fmt.Errorf("invalid area: %s", p.Area)
	}
	if !p.Board.IsValid() {
		return nil, fmt.Errorf("invalid board: %s", p.Board)
	}
	priority := p.Priority
	if priority == "" {
		priority = vo.DefaultPriority
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", p.Priority)
	}
	if p.Requester.IsZero() {
		return nil, fmt.Errorf("requester is required")
	}
	if utf8.RuneCountInString(p.Category) > MaxCategoryLength || utf8.RuneCountInString(p.Subcategory) > MaxCategoryLength {
		return nil, fmt.Errorf("category exceeds maximum length of %d characters", MaxCategoryLength)
	}

	now := biztime.NowUTC()
	return &Ticket{
		title:       title,
		description: description,
		area:        p.Area,
		board:       p.Board,
		priority:    priority,
		status:      vo.StatusOpen,
		category:    strings.TrimSpace(p.Category),
		subcategory: strings.TrimSpace(p.Subcategory),
		dueDate:     utcPtr(p.DueDate),
		requester:   p.Requester,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructParams mirrors every persisted column of a ticket.
type ReconstructParams struct {
	ID                 uint
	Number             string
	Title              string
	Description        string
	Area               vo.Area
	Board              vo.Board
	Priority           vo.Priority
	Status             vo.TicketStatus
	Category           string
	Subcategory        string
	DueDate            *time.Time
	Requester          Party
	Assignee           *Party
	ResolutionNotes    string
	ClosingDescription string
	ActualHours        *float64
	ClosedAt           *time.Time
	ClosedBy           *Party
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func ReconstructTicket(p ReconstructParams) (*Ticket, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if len(p.Number) == 0 {
		return nil, fmt.Errorf("ticket number is required")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", p.Status)
	}
	if !p.Priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", p.Priority)
	}

	return &Ticket{
		id:                 p.ID,
		number:             p.Number,
		title:              p.Title,
		description:        p.Description,
		area:               p.Area,
		board:              p.Board,
		priority:           p.Priority,
		status:             p.Status,
		category:           p.Category,
		subcategory:        p.Subcategory,
		dueDate:            p.DueDate,
		requester:          p.Requester,
		assignee:           p.Assignee,
		resolutionNotes:    p.ResolutionNotes,
		closingDescription: p.ClosingDescription,
		actualHours:        p.ActualHours,
		closedAt:           p.ClosedAt,
		closedBy:           p.ClosedBy,
		version:            p.Version,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
	}, nil
}

func (t *Ticket) ID() uint                   { return t.id }
func (t *Ticket) Number() string             { return t.number }
func (t *Ticket) Title() string              { return t.title }
func (t *Ticket) Description() string        { return t.description }
func (t *Ticket) Area() vo.Area              { return t.area }
func (t *Ticket) Board() vo.Board            { return t.board }
func (t *Ticket) Priority() vo.Priority      { return t.priority }
func (t *Ticket) Status() vo.TicketStatus    { return t.status }
func (t *Ticket) Category() string           { return t.category }
func (t *Ticket) Subcategory() string        { return t.subcategory }
func (t *Ticket) DueDate() *time.Time        { return t.dueDate }
func (t *Ticket) Requester() Party           { return t.requester }
func (t *Ticket) Assignee() *Party           { return t.assignee }
func (t *Ticket) ResolutionNotes() string    { return t.resolutionNotes }
func (t *Ticket) ClosingDescription() string { return t.closingDescription }
func (t *Ticket) ActualHours() *float64      { return t.actualHours }
func (t *Ticket) ClosedAt() *time.Time       { return t.closedAt }
func (t *Ticket) ClosedBy() *Party           { return t.closedBy }
func (t *Ticket) Version() int               { return t.version }
func (t *Ticket) CreatedAt() time.Time       { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time       { return t.updatedAt }

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

func (t *Ticket) SetNumber(number string) error {
	if len(t.number) > 0 {
		return fmt.Errorf("ticket number is already set")
	}
	if len(number) == 0 {
		return fmt.Errorf("ticket number cannot be empty")
	}
	t.number = number
	return nil
}

// Assign claims an open ticket for assignee and moves it to EM_ANALISE.
func (t *Ticket) Assign(assignee Party) error {
	if assignee.IsZero() {
		return fmt.Errorf("assignee is required")
	}
	if !t.status.IsOpen() {
		return ErrNotOpen
	}

	t.assignee = &assignee
	t.status = vo.StatusInProgress
	t.touch()
	return nil
}

// Touch records activity on a ticket without changing its state, e.g. a new comment.
func (t *Ticket) Touch() error {
	if t.status.IsTerminal() {
		return ErrTerminal
	}
	t.touch()
	return nil
}

// CloseParams carries the resolution supplied when closing.
type CloseParams struct {
	By              Party
	ResolutionNotes string
	Description     string
	ActualHours     *float64
}

func (t *Ticket) Close(p CloseParams) error {
	if t.status.IsClosed() {
		return ErrAlreadyClosed
	}
	if t.status.IsTerminal() {
		return ErrTerminal
	}
	if p.By.IsZero() {
		return fmt.Errorf("closing user is required")
	}
	notes := strings.TrimSpace(p.ResolutionNotes)
	if utf8.RuneCountInString(notes) < MinResolutionLength {
		return fmt.Errorf("resolution notes must have at least %d characters", MinResolutionLength)
	}
	if p.ActualHours != nil && *p.ActualHours < 0 {
		return fmt.Errorf("actual hours cannot be negative")
	}
	if !t.status.CanTransitionTo(vo.StatusClosed) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.status, vo.StatusClosed)
	}

	now := biztime.NowUTC()
	by := p.By
	t.status = vo.StatusClosed
	t.resolutionNotes = notes
	t.closingDescription = strings.TrimSpace(p.Description)
	t.actualHours = p.ActualHours
	t.closedAt = &now
	t.closedBy = &by
	t.updatedAt = now
	t.version++
	return nil
}

// ChangeStatus moves between working states. Closing and cancelling have
// their own operations, and leaving ABERTO requires an assignment.
func (t *Ticket) ChangeStatus(newStatus vo.TicketStatus) error {
	if !newStatus.IsValid() {
		return fmt.Errorf("invalid status: %s", newStatus)
	}
	if t.status.IsTerminal() {
		return ErrTerminal
	}
	switch {
	case newStatus.IsClosed(), newStatus.IsCancelled():
		return fmt.Errorf("%w: use the dedicated operation to reach %s", ErrInvalidTransition, newStatus)
	case t.status.IsOpen():
		return fmt.Errorf("%w: open tickets must be assigned first", ErrInvalidTransition)
	case t.status == newStatus, !t.status.CanTransitionTo(newStatus):
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.status, newStatus)
	}

	t.status = newStatus
	t.touch()
	return nil
}

func (t *Ticket) Cancel() error {
	if t.status.IsTerminal() {
		return ErrTerminal
	}
	if !t.status.CanTransitionTo(vo.StatusCancelled) {
		return ErrNotCancellable
	}
	t.status = vo.StatusCancelled
	t.touch()
	return nil
}

// Patch holds the optional fields of a metadata update; nil means unchanged.
type Patch struct {
	Title        *string
	Description  *string
	Priority     *vo.Priority
	Area         *vo.Area
	Board        *vo.Board
	Category     *string
	Subcategory  *string
	DueDate      *time.Time
	ClearDueDate bool
}

// FieldChange is one field altered by ApplyPatch.
type FieldChange struct {
	Field string
	Old   any
	New   any
}

// ApplyPatch validates the whole patch before changing anything. The ticket
// is touched even when no field differs.
func (t *Ticket) ApplyPatch(p Patch) ([]FieldChange, error) {
	if t.status.IsTerminal() {
		return nil, ErrTerminal
	}

	next := *t
	var changes []FieldChange

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		if title != t.title {
			changes = append(changes, FieldChange{Field: "title", Old: t.title, New: title})
			next.title = title
		}
	}
	if p.Description != nil {
		description := strings.TrimSpace(*p.Description)
		if err := validateDescription(description); err != nil {
			return nil, err
		}
		if description != t.description {
			changes = append(changes, FieldChange{Field: "description", Old: t.description, New: description})
			next.description = description
		}
	}
	if p.Priority != nil {
		if !p.Priority.IsValid() {
			return nil, fmt.Errorf("invalid priority: %s", *p.Priority)
		}
		if *p.Priority != t.priority {
			changes = append(changes, FieldChange{Field: "priority", Old: t.priority.String(), New: p.Priority.String()})
			next.priority = *p.Priority
		}
	}
	if p.Area != nil {
		if !p.Area.IsValid() {
			return nil, fmt.Errorf("invalid area: %s", *p.Area)
		}
		if *p.Area != t.area {
			changes = append(changes, FieldChange{Field: "area", Old: t.area.String(), New: p.Area.String()})
			next.area = *p.Area
		}
	}
	if p.Board != nil {
		if !p.Board.IsValid() {
			return nil, fmt.Errorf("invalid board: %s", *p.Board)
		}
		if *p.Board != t.board {
			changes = append(changes, FieldChange{Field: "board", Old: t.board.String(), New: p.Board.String()})
			next.board = *p.Board
		}
	}
	if p.Category != nil {
		category := strings.TrimSpace(*p.Category)
		if utf8.RuneCountInString(category) > MaxCategoryLength {
			return nil, fmt.Errorf("category exceeds maximum length of %d characters", MaxCategoryLength)
		}
		if category != t.category {
			changes = append(changes, FieldChange{Field: "category", Old: t.category, New: category})
			next.category = category
		}
	}
	if p.Subcategory != nil {
		subcategory := strings.TrimSpace(*p.Subcategory)
		if utf8.RuneCountInString(subcategory) > MaxCategoryLength {
			return nil, fmt.Errorf("subcategory exceeds maximum length of %d characters", MaxCategoryLength)
		}
		if subcategory != t.subcategory {
			changes = append(changes, FieldChange{Field: "subcategory", Old: t.subcategory, New: subcategory})
			next.subcategory = subcategory
		}
	}
	switch {
	case p.ClearDueDate:
		if t.dueDate != nil {
			changes = append(changes, FieldChange{Field: "due_date", Old: *t.dueDate, New: nil})
			next.dueDate = nil
		}
	case p.DueDate != nil:
		due := p.DueDate.UTC()
		if t.dueDate == nil || !t.dueDate.Equal(due) {
			var old any
			if t.dueDate != nil {
				old = *t.dueDate
			}
			changes = append(changes, FieldChange{Field: "due_date", Old: old, New: due})
			next.dueDate = &due
		}
	}

	*t = next
	t.touch()
	return changes, nil
}

// CanBeViewedBy applies the read rule: requesters see their own tickets,
// read-all holders see everything.
func (t *Ticket) CanBeViewedBy(userID string, seesAll bool) bool {
	return seesAll || (userID != "" && t.requester.ID == userID)
}

// IsOverdue reports whether an active ticket is past its due date at now.
func (t *Ticket) IsOverdue(now time.Time) bool {
	return t.dueDate != nil && t.status.IsActive() && t.dueDate.Before(now)
}

// HoursOpen is the elapsed time between creation and closing (or now).
func (t *Ticket) HoursOpen(now time.Time) float64 {
	end := now
	if t.closedAt != nil {
		end = *t.closedAt
	}
	return end.Sub(t.createdAt).Hours()
}

func (t *Ticket) touch() {
	t.updatedAt = biztime.NowUTC()
	t.version++
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < MinTitleLength {
		return fmt.Errorf("title must have at least %d characters", MinTitleLength)
	}
	if n > MaxTitleLength {
		return fmt.Errorf("title exceeds maximum length of %d characters", MaxTitleLength)
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) < MinDescriptionLength {
		return fmt.Errorf("description must have at least %d characters", MinDescriptionLength)
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

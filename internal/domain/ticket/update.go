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
	MinCommentLength = 5
	MaxCommentLength = 5000
)

// Update is one append-only entry of a ticket's trail.
type Update struct {
	id         uint
	ticketID   uint
	author     Party
	kind       vo.UpdateKind
	message    string
	oldValue   map[string]any
	newValue   map[string]any
	isInternal bool
	createdAt  time.Time
}

func NewUpdate(ticketID uint, author Party, kind vo.UpdateKind, message string) (*Update, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if author.IsZero() {
		return nil, fmt.Errorf("author is required")
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid update kind: %s", kind)
	}

	return &Update{
		ticketID:  ticketID,
		author:    author,
		kind:      kind,
		message:   message,
		createdAt: biztime.NowUTC(),
	}, nil
}

// NewComment builds a COMMENT entry, enforcing the message length rules.
func NewComment(ticketID uint, author Party, message string, internal bool) (*Update, error) {
	message = strings.TrimSpace(message)
	n := utf8.RuneCountInString(message)
	if n < MinCommentLength {
		return nil, fmt.Errorf("message must have at least %d characters", MinCommentLength)
	}
	if n > MaxCommentLength {
		return nil, fmt.Errorf("message exceeds maximum length of %d characters", MaxCommentLength)
	}

	u, err := NewUpdate(ticketID, author, vo.UpdateComment, message)
	if err != nil {
		return nil, err
	}
	u.isInternal = internal
	return u, nil
}

func ReconstructUpdate(
	id uint,
	ticketID uint,
	author Party,
	kind vo.UpdateKind,
	message string,
	oldValue, newValue map[string]any,
	isInternal bool,
	createdAt time.Time,
) *Update {
	return &Update{
		id:         id,
		ticketID:   ticketID,
		author:     author,
		kind:       kind,
		message:    message,
		oldValue:   oldValue,
		newValue:   newValue,
		isInternal: isInternal,
		createdAt:  createdAt,
	}
}

// WithValues attaches the before/after snapshot of the fields involved.
func (u *Update) WithValues(oldValue, newValue map[string]any) *Update {
	u.oldValue = oldValue
	u.newValue = newValue
	return u
}

func (u *Update) ID() uint                 { return u.id }
func (u *Update) TicketID() uint           { return u.ticketID }
func (u *Update) Author() Party            { return u.author }
func (u *Update) Kind() vo.UpdateKind      { return u.kind }
func (u *Update) Message() string          { return u.message }
func (u *Update) OldValue() map[string]any { return u.oldValue }
func (u *Update) NewValue() map[string]any { return u.newValue }
func (u *Update) IsInternal() bool         { return u.isInternal }
func (u *Update) CreatedAt() time.Time     { return u.createdAt }

func (u *Update) SetID(id uint) {
	u.id = id
}

// VisibleTo filters out internal entries for readers who cannot update tickets.
func VisibleTo(updates []*Update, canSeeInternal bool) []*Update {
	if canSeeInternal {
		return updates
	}
	out := make([]*Update, 0, len(updates))
	for _, u := range updates {
		if !u.isInternal {
			out = append(out, u)
		}
	}
	return out
}

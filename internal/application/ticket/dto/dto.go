package dto

import (
	"time"

	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
)

type CreateTicketRequest struct {
	Title       string     `json:"title" binding:"required,min=5,max=255"`
	Description string     `json:"description" binding:"required,min=10"`
	Area        string     `json:"area" binding:"required,ticket_area"`
	Board       string     `json:"board" binding:"required"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL low medium high critical"`
	Category    string     `json:"category" binding:"omitempty,max=100"`
	Subcategory string     `json:"subcategory" binding:"omitempty,max=100"`
	DueDate     *time.Time `json:"due_date"`
}

type AssignTicketRequest struct {
	AssigneeEmail string `json:"assignee_email" binding:"omitempty,email"`
}

type AddUpdateRequest struct {
	Message    string `json:"message" binding:"required,min=5,max=5000"`
	IsInternal bool   `json:"is_internal"`
}

type CloseTicketRequest struct {
	ResolutionNotes string   `json:"resolution_notes" binding:"required,min=5"`
	Description     string   `json:"description"`
	ActualHours     *float64 `json:"actual_hours" binding:"omitempty,gte=0"`
}

// PatchTicketRequest carries only the fields to change. A null due_date is
// indistinguishable from an absent one; ClearDueDate removes it.
type PatchTicketRequest struct {
	Title        *string    `json:"title" binding:"omitempty,min=5,max=255"`
	Description  *string    `json:"description" binding:"omitempty,min=10"`
	Priority     *string    `json:"priority"`
	Area         *string    `json:"area" binding:"omitempty,ticket_area"`
	Board        *string    `json:"board"`
	Category     *string    `json:"category" binding:"omitempty,max=100"`
	Subcategory  *string    `json:"subcategory" binding:"omitempty,max=100"`
	DueDate      *time.Time `json:"due_date"`
	ClearDueDate bool       `json:"clear_due_date"`
}

type CancelTicketRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListTicketsRequest struct {
	Status     string `form:"status"`
	Priority   string `form:"priority"`
	Area       string `form:"area"`
	Board      string `form:"board"`
	AssigneeID string `form:"assignee"`
	Requester  string `form:"requester"`
	Search     string `form:"search"`
	Page       int    `form:"page"`
	PageSize   int    `form:"limit"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
}

type TicketResponse struct {
	ID                 uint       `json:"id"`
	TicketNumber       string     `json:"ticket_number"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Area               string     `json:"area"`
	Board              string     `json:"board"`
	Priority           string     `json:"priority"`
	Status             string     `json:"status"`
	Category           string     `json:"category,omitempty"`
	Subcategory        string     `json:"subcategory,omitempty"`
	DueDate            *time.Time `json:"due_date"`
	IsOverdue          bool       `json:"is_overdue"`
	RequesterID        string     `json:"requester_id"`
	RequesterName      string     `json:"requester_name"`
	RequesterEmail     string     `json:"requester_email"`
	AssigneeID         *string    `json:"assignee_id"`
	AssigneeName       *string    `json:"assignee_name"`
	AssigneeEmail      *string    `json:"assignee_email"`
	ResolutionNotes    string     `json:"resolution_notes,omitempty"`
	ClosingDescription string     `json:"closing_description,omitempty"`
	ActualHours        *float64   `json:"actual_hours"`
	ClosedAt           *time.Time `json:"closed_at"`
	ClosedByID         *string    `json:"closed_by"`
	ClosedByName       *string    `json:"closed_by_name"`
	Version            int        `json:"version"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type UpdateResponse struct {
	ID          uint           `json:"id"`
	TicketID    uint           `json:"ticket_id"`
	AuthorID    string         `json:"author_id"`
	AuthorName  string         `json:"author_name"`
	AuthorEmail string         `json:"author_email"`
	Kind        string         `json:"update_type"`
	Message     string         `json:"message"`
	OldValue    map[string]any `json:"old_value,omitempty"`
	NewValue    map[string]any `json:"new_value,omitempty"`
	IsInternal  bool           `json:"is_internal"`
	CreatedAt   time.Time      `json:"created_at"`
}

type TicketDetailResponse struct {
	Ticket  *TicketResponse   `json:"ticket"`
	Updates []*UpdateResponse `json:"updates"`
}

type StatsResponse struct {
	Total      int64            `json:"total"`
	Open       int64            `json:"open"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByPriority map[string]int64 `json:"by_priority"`
	ByArea     map[string]int64 `json:"by_area"`
	LastWeek   int64            `json:"last_week"`
}

func ToTicketResponse(t *ticket.Ticket) *TicketResponse {
	requester := t.Requester()
	resp := &TicketResponse{
		ID:                 t.ID(),
		TicketNumber:       t.Number(),
		Title:              t.Title(),
		Description:        t.Description(),
		Area:               t.Area().String(),
		Board:              t.Board().String(),
		Priority:           t.Priority().String(),
		Status:             t.Status().String(),
		Category:           t.Category(),
		Subcategory:        t.Subcategory(),
		DueDate:            t.DueDate(),
		IsOverdue:          t.IsOverdue(biztime.NowUTC()),
		RequesterID:        requester.ID,
		RequesterName:      requester.Name,
		RequesterEmail:     requester.Email,
		ResolutionNotes:    t.ResolutionNotes(),
		ClosingDescription: t.ClosingDescription(),
		ActualHours:        t.ActualHours(),
		ClosedAt:           t.ClosedAt(),
		Version:            t.Version(),
		CreatedAt:          t.CreatedAt(),
		UpdatedAt:          t.UpdatedAt(),
	}
	if assignee := t.Assignee(); assignee != nil {
		a := *assignee
		resp.AssigneeID, resp.AssigneeName, resp.AssigneeEmail = &a.ID, &a.Name, &a.Email
	}
	if closedBy := t.ClosedBy(); closedBy != nil {
		c := *closedBy
		resp.ClosedByID, resp.ClosedByName = &c.ID, &c.Name
	}
	return resp
}

func ToTicketResponseList(tickets []*ticket.Ticket) []*TicketResponse {
	out := make([]*TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, ToTicketResponse(t))
	}
	return out
}

func ToUpdateResponse(u *ticket.Update) *UpdateResponse {
	author := u.Author()
	return &UpdateResponse{
		ID:          u.ID(),
		TicketID:    u.TicketID(),
		AuthorID:    author.ID,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		Kind:        u.Kind().String(),
		Message:     u.Message(),
		OldValue:    u.OldValue(),
		NewValue:    u.NewValue(),
		IsInternal:  u.IsInternal(),
		CreatedAt:   u.CreatedAt(),
	}
}

func ToUpdateResponseList(updates []*ticket.Update) []*UpdateResponse {
	out := make([]*UpdateResponse, 0, len(updates))
	for _, u := range updates {
		out = append(out, ToUpdateResponse(u))
	}
	return out
}

func ToStatsResponse(s *ticket.Stats) *StatsResponse {
	resp := &StatsResponse{
		Total:      s.Total,
		Open:       s.Open(),
		ByStatus:   make(map[string]int64, len(vo.AllStatuses())),
		ByPriority: make(map[string]int64, len(vo.AllPriorities())),
		ByArea:     make(map[string]int64, len(vo.AllAreas())),
		LastWeek:   s.LastWeek,
	}
	for _, st := range vo.AllStatuses() {
		resp.ByStatus[st.String()] = s.ByStatus[st]
	}
	for _, p := range vo.AllPriorities() {
		resp.ByPriority[p.String()] = s.ByPriority[p]
	}
	for _, a := range vo.AllAreas() {
		resp.ByArea[a.String()] = s.ByArea[a]
	}
	return resp
}

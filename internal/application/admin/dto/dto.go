package dto

import (
	"time"

	"github.com/csc-helpdesk/csc/internal/domain/category"
	"github.com/csc-helpdesk/csc/internal/domain/setting"
)

type UserStats struct {
	Total        int64            `json:"total_users"`
	Active       int64            `json:"active_users"`
	ByRole       map[string]int64 `json:"by_role"`
	LoggedInWeek int64            `json:"logged_in_last_7_days"`
}

type TicketStats struct {
	Total          int64   `json:"total_tickets"`
	Open           int64   `json:"open_tickets"`
	InProgress     int64   `json:"in_progress_tickets"`
	Closed         int64   `json:"closed_tickets"`
	Cancelled      int64   `json:"cancelled_tickets"`
	AvgActualHours float64 `json:"avg_resolution_time"`
	LastWeek       int64   `json:"tickets_last_7_days"`
}

type SystemStatsResponse struct {
	Users   UserStats   `json:"users"`
	Tickets TicketStats `json:"tickets"`
}

type SettingResponse struct {
	Key         string    `json:"key"`
	Value       any       `json:"value"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	UpdatedBy   string    `json:"updated_by,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UpdateSettingRequest struct {
	Value string `json:"value" binding:"required,notblank"`
}

type CategoryResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Area        string    `json:"area"`
	SLAHours    int       `json:"sla_hours"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=100"`
	Description string `json:"description" binding:"max=500"`
	Area        string `json:"area" binding:"required,ticket_area"`
	SLAHours    int    `json:"sla_hours" binding:"required,min=1,max=720"`
}

type ListCategoriesRequest struct {
	Area            string `form:"area"`
	IncludeInactive bool   `form:"include_inactive"`
}

func ToSettingResponse(s *setting.Setting) *SettingResponse {
	return &SettingResponse{
		Key:         s.Key(),
		Value:       s.TypedValue(),
		Type:        string(s.ValueType()),
		Description: s.Description(),
		IsPublic:    s.IsPublic(),
		UpdatedBy:   s.UpdatedBy(),
		UpdatedAt:   s.UpdatedAt(),
	}
}

func ToCategoryResponse(c *category.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID(),
		Name:        c.Name(),
		Description: c.Description(),
		Area:        c.Area().String(),
		SLAHours:    c.SLAHours(),
		IsActive:    c.IsActive(),
		CreatedAt:   c.CreatedAt(),
	}
}

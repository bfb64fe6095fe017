package dto

import (
	"time"

	"github.com/csc-helpdesk/csc/internal/domain/user"
)

type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Department  string     `json:"department"`
	Position    string     `json:"position"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ListUsersRequest struct {
	Page       int
	PageSize   int
	Role       string
	Department string
	Search     string
	IsActive   *bool
}

// UpdateUserRequest holds the admin-editable fields; nil means unchanged.
type UpdateUserRequest struct {
	Role       *string
	Department *string
	Position   *string
	IsActive   *bool
}

func ToUserResponse(u *user.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID(),
		Email:       u.Email().String(),
		Name:        u.Name(),
		Role:        u.Role().String(),
		Department:  u.Department(),
		Position:    u.Position(),
		IsActive:    u.IsActive(),
		LastLoginAt: u.LastLoginAt(),
		CreatedAt:   u.CreatedAt(),
		UpdatedAt:   u.UpdatedAt(),
	}
}

func ToUserResponseList(users []*user.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}

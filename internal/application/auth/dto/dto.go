package dto

import (
	"time"

	userdto "github.com/csc-helpdesk/csc/internal/application/user/dto"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/user"
)

// DevLoginRequest is the body of the development sign-in endpoint.
type DevLoginRequest struct {
	Name  string `json:"name" binding:"required,notblank,min=2,max=255"`
	Email string `json:"email" binding:"required,email"`
	Area  string `json:"area" binding:"required,ticket_area"`
	Board string `json:"board" binding:"required,notblank"`
}

type LoginResponse struct {
	User      *userdto.UserResponse `json:"user"`
	Token     string                `json:"token"`
	ExpiresAt time.Time             `json:"expires_at"`
}

type SSOLoginResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

type MeResponse struct {
	*userdto.UserResponse
	Permissions    []string `json:"permissions"`
	CanAssign      bool     `json:"can_assign"`
	CanManageUsers bool     `json:"can_manage_users"`
	CanViewReports bool     `json:"can_view_reports"`
}

func ToMeResponse(u *user.User) *MeResponse {
	perms := permission.PermissionsFor(u.Role())
	names := make([]string, 0, len(perms))
	for _, perm := range perms {
		names = append(names, perm.String())
	}
	return &MeResponse{
		UserResponse:   userdto.ToUserResponse(u),
		Permissions:    names,
		CanAssign:      permission.HasPermission(u.Role(), permission.TicketAssign),
		CanManageUsers: permission.HasPermission(u.Role(), permission.UserManage),
		CanViewReports: permission.HasPermission(u.Role(), permission.ReportsView),
	}
}

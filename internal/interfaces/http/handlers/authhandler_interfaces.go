package handlers

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/auth/dto"
	"github.com/csc-helpdesk/csc/internal/application/auth/usecases"
	"github.com/csc-helpdesk/csc/internal/application/common"
)

// authService is the subset of the auth application service used by
// AuthHandler.
type authService interface {
	InitiateSSOLogin(ctx context.Context) (*dto.SSOLoginResponse, error)
	HandleSSOCallback(ctx context.Context, cmd usecases.HandleSSOCallbackCommand) (*dto.LoginResponse, error)
	DevLogin(ctx context.Context, req dto.DevLoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, p common.Principal) error
	Me(ctx context.Context, p common.Principal) (*dto.MeResponse, error)
}

// Package auth signs users in through single sign-on or, in development,
// a self-declared identity, and reports who the caller is.
package auth

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/auth/dto"
	"github.com/csc-helpdesk/csc/internal/application/auth/usecases"
	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/domain/user"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type Options struct {
	Policy   *usecases.AccessPolicy
	DevLogin bool
	// SSO is nil when single sign-on is not configured.
	SSO        usecases.SSOClient
	StateStore usecases.StateStore
}

type Service struct {
	initiateSSO *usecases.InitiateSSOLoginUseCase
	ssoCallback *usecases.HandleSSOCallbackUseCase
	devLogin    *usecases.DevLoginUseCase
	logout      *usecases.LogoutUseCase
	getMe       *usecases.GetMeUseCase
}

func NewService(
	users user.Repository,
	tokens usecases.TokenIssuer,
	recorder usecases.AuditRecorder,
	opts Options,
	logger logger.Interface,
) *Service {
	authenticator := usecases.NewAuthenticator(users, opts.Policy, tokens, recorder, logger)
	return &Service{
		initiateSSO: usecases.NewInitiateSSOLoginUseCase(opts.SSO, opts.StateStore, logger),
		ssoCallback: usecases.NewHandleSSOCallbackUseCase(opts.SSO, opts.StateStore, authenticator, logger),
		devLogin:    usecases.NewDevLoginUseCase(opts.DevLogin, authenticator, logger),
		logout:      usecases.NewLogoutUseCase(recorder, logger),
		getMe:       usecases.NewGetMeUseCase(users, logger),
	}
}

func (s *Service) InitiateSSOLogin(ctx context.Context) (*dto.SSOLoginResponse, error) {
	return s.initiateSSO.Execute(ctx)
}

func (s *Service) HandleSSOCallback(ctx context.Context, cmd usecases.HandleSSOCallbackCommand) (*dto.LoginResponse, error) {
	return s.ssoCallback.Execute(ctx, cmd)
}

func (s *Service) DevLogin(ctx context.Context, req dto.DevLoginRequest) (*dto.LoginResponse, error) {
	return s.devLogin.Execute(ctx, req)
}

func (s *Service) Logout(ctx context.Context, p common.Principal) error {
	return s.logout.Execute(ctx, p)
}

func (s *Service) Me(ctx context.Context, p common.Principal) (*dto.MeResponse, error) {
	return s.getMe.Execute(ctx, p)
}

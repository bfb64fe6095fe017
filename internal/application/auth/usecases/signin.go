package usecases

import (
	"context"
	stderrors "errors"

	"github.com/csc-helpdesk/csc/internal/application/auth/dto"
	userdto "github.com/csc-helpdesk/csc/internal/application/user/dto"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/domain/user"
	vo "github.com/csc-helpdesk/csc/internal/domain/user/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

const (
	methodSSO = "sso"
	methodDev = "dev"
)

// Authenticator is the sign-in path shared by SSO and development login.
// It checks the allow-list, upserts the user with the configured role,
// stamps the last login and issues a token.
type Authenticator struct {
	users  user.Repository
	policy *AccessPolicy
	tokens TokenIssuer
	audit  AuditRecorder
	logger logger.Interface
}

func (s *Authenticator) signIn(ctx context.Context, id Identity, method string) (*dto.LoginResponse, error) {
	email, err := vo.NewEmail(id.Email)
	if err != nil {
		return nil, errors.NewUnauthorizedError("identity has no valid email address")
	}

	if !s.policy.Allows(email) {
		s.deny(ctx, email, method, "email not allowed")
		return nil, errors.NewForbiddenError("email not authorized", "use a corporate address or contact an administrator")
	}

	u, err := s.upsert(ctx, email, id)
	if err != nil {
		if stderrors.Is(err, user.ErrUserInactive) {
			s.deny(ctx, email, method, "account deactivated")
			return nil, errors.NewForbiddenError("account is deactivated")
		}
		s.logger.Errorw("failed to upsert user on sign-in", "email", email.String(), "error", err)
		return nil, errors.NewInternalError("failed to sign in")
	}

	token, expiresAt, err := s.tokens.Generate(TokenClaims{
		UserID: u.ID(),
		Email:  u.Email().String(),
		Name:   u.Name(),
		Role:   u.Role(),
	})
	if err != nil {
		s.logger.Errorw("failed to generate token", "user_id", u.ID(), "error", err)
		return nil, errors.NewInternalError("failed to sign in")
	}

	s.audit.RecordBestEffort(ctx, audit.Actor{UserID: u.ID(), Email: u.Email().String()},
		audit.ActionLogin, "user", u.ID(), map[string]any{
			"method": method,
			"role":   u.Role().String(),
		})
	s.logger.Infow("user signed in", "user_id", u.ID(), "role", u.Role(), "method", method)

	return &dto.LoginResponse{
		User:      userdto.ToUserResponse(u),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Authenticator) upsert(ctx context.Context, email *vo.Email, id Identity) (*user.User, error) {
	role := s.policy.RoleFor(email)

	u, err := s.users.GetByEmail(ctx, email.String())
	if stderrors.Is(err, user.ErrUserNotFound) {
		u, err = user.NewUser(email, id.Name, role, id.Department)
		if err != nil {
			return nil, err
		}
		if err := u.RecordLogin(id.Name, id.Department); err != nil {
			return nil, err
		}
		err = s.users.Create(ctx, u)
		if err == nil {
			s.logger.Infow("user created on first sign-in", "user_id", u.ID(), "role", role)
			return u, nil
		}
		if !stderrors.Is(err, user.ErrDuplicateEmail) {
			return nil, err
		}
		// A concurrent first sign-in won the insert.
		u, err = s.users.GetByEmail(ctx, email.String())
	}
	if err != nil {
		return nil, err
	}

	if err := u.RecordLogin(id.Name, id.Department); err != nil {
		return nil, err
	}
	u.PromoteTo(role)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Authenticator) deny(ctx context.Context, email *vo.Email, method, reason string) {
	s.audit.RecordBestEffort(ctx, audit.Actor{Email: email.String()}, audit.ActionLoginDenied, "user", "", map[string]any{
		"email":  email.String(),
		"method": method,
		"reason": reason,
	})
	s.logger.Warnw("sign-in denied", "email", email.String(), "method", method, "reason", reason)
}

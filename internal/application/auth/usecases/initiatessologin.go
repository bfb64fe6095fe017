package usecases

import (
	"context"
	"crypto/rand"
	"encoding/base64"

	"github.com/csc-helpdesk/csc/internal/application/auth/dto"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

// InitiateSSOLoginUseCase starts an authorization-code flow with PKCE.
type InitiateSSOLoginUseCase struct {
	client     SSOClient
	stateStore StateStore
	logger     logger.Interface
}

func NewInitiateSSOLoginUseCase(client SSOClient, stateStore StateStore, logger logger.Interface) *InitiateSSOLoginUseCase {
	return &InitiateSSOLoginUseCase{client: client, stateStore: stateStore, logger: logger}
}

func (uc *InitiateSSOLoginUseCase) Execute(ctx context.Context) (*dto.SSOLoginResponse, error) {
	if uc.client == nil {
		return nil, errors.NewNotFoundError("single sign-on is not configured")
	}

	state, err := generateState()
	if err != nil {
		uc.logger.Errorw("failed to generate state", "error", err)
		return nil, errors.NewInternalError("failed to start sign-in")
	}

	authURL, codeVerifier, err := uc.client.GetAuthURL(state)
	if err != nil {
		uc.logger.Errorw("failed to build auth URL", "error", err)
		return nil, errors.NewInternalError("failed to start sign-in")
	}

	if err := uc.stateStore.Set(ctx, state, codeVerifier); err != nil {
		uc.logger.Errorw("failed to store oauth state", "error", err)
		return nil, errors.NewInternalError("failed to start sign-in")
	}

	return &dto.SSOLoginResponse{AuthURL: authURL, State: state}, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

package usecases

import (
	"context"
	stderrors "errors"

	"github.com/csc-helpdesk/csc/internal/application/auth/dto"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type HandleSSOCallbackCommand struct {
	Code  string
	State string
	// Error is the error code the provider sent back instead of a code.
	Error string
}

type HandleSSOCallbackUseCase struct {
	client     SSOClient
	stateStore StateStore
	signer     *Authenticator
	logger     logger.Interface
}

func NewHandleSSOCallbackUseCase(
	client SSOClient,
	stateStore StateStore,
	signer *Authenticator,
	logger logger.Interface,
) *HandleSSOCallbackUseCase {
	return &HandleSSOCallbackUseCase{
		client:     client,
		stateStore: stateStore,
		signer:     signer,
		logger:     logger,
	}
}

func (uc *HandleSSOCallbackUseCase) Execute(ctx context.Context, cmd HandleSSOCallbackCommand) (*dto.LoginResponse, error) {
	if uc.client == nil {
		return nil, errors.NewNotFoundError("single sign-on is not configured")
	}
	if cmd.Error != "" {
		uc.logger.Warnw("identity provider returned an error", "error_code", cmd.Error)
		return nil, errors.NewUnauthorizedError("sign-in was not completed", cmd.Error)
	}
	if cmd.Code == "" || cmd.State == "" {
		return nil, errors.NewValidationError("code and state are required")
	}

	verifier, err := uc.stateStore.Consume(ctx, cmd.State)
	if err != nil {
		if stderrors.Is(err, ErrStateNotFound) {
			return nil, errors.NewUnauthorizedError("invalid or expired state parameter")
		}
		uc.logger.Errorw("failed to read oauth state", "error", err)
		return nil, errors.NewInternalError("failed to complete sign-in")
	}

	identity, err := uc.client.Exchange(ctx, cmd.Code, verifier)
	if err != nil {
		uc.logger.Errorw("failed to exchange authorization code", "error", err)
		return nil, errors.NewUnauthorizedError("failed to exchange authorization code")
	}

	return uc.signer.signIn(ctx, *identity, methodSSO)
}

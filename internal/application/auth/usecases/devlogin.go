package usecases

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/auth/dto"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

// DevLoginUseCase signs a user in from a self-declared name and e-mail.
// It only runs when enabled in configuration and is refused in release mode.
type DevLoginUseCase struct {
	enabled bool
	signer  *Authenticator
	logger  logger.Interface
}

func NewDevLoginUseCase(enabled bool, signer *Authenticator, logger logger.Interface) *DevLoginUseCase {
	return &DevLoginUseCase{enabled: enabled, signer: signer, logger: logger}
}

func (uc *DevLoginUseCase) Execute(ctx context.Context, req dto.DevLoginRequest) (*dto.LoginResponse, error) {
	if !uc.enabled {
		return nil, errors.NewNotFoundError("development login is disabled")
	}

	area, err := vo.NewArea(req.Area)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if _, err := vo.NewBoard(req.Board); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	return uc.signer.signIn(ctx, Identity{
		Email:      req.Email,
		Name:       req.Name,
		Department: area.String(),
	}, methodDev)
}

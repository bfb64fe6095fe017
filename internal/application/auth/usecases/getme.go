package usecases

import (
	"context"
	stderrors "errors"

	"github.com/csc-helpdesk/csc/internal/application/auth/dto"
	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/domain/user"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

// GetMeUseCase reloads the caller so role changes made by an admin show up
// before the token expires.
type GetMeUseCase struct {
	users  user.Repository
	logger logger.Interface
}

func NewGetMeUseCase(users user.Repository, logger logger.Interface) *GetMeUseCase {
	return &GetMeUseCase{users: users, logger: logger}
}

func (uc *GetMeUseCase) Execute(ctx context.Context, p common.Principal) (*dto.MeResponse, error) {
	u, err := uc.users.GetByID(ctx, p.UserID)
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			return nil, errors.NewUnauthorizedError("user no longer exists")
		}
		uc.logger.Errorw("failed to load current user", "user_id", p.UserID, "error", err)
		return nil, errors.NewInternalError("failed to load user")
	}
	if !u.IsActive() {
		return nil, errors.NewForbiddenError("account is deactivated")
	}
	return dto.ToMeResponse(u), nil
}

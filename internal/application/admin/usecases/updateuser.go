package usecases

import (
	"context"
	stderrors "errors"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/user/dto"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/user"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type UpdateUserCommand struct {
	Principal common.Principal
	UserID    string
	dto.UpdateUserRequest
}

// UpdateUserUseCase lets administrators change a user's role, department,
// position and active flag. Only a SUPER_ADMIN may grant or revoke SUPER_ADMIN.
type UpdateUserUseCase struct {
	repo   user.Repository
	audit  AuditRecorder
	logger logger.Interface
}

func NewUpdateUserUseCase(repo user.Repository, audit AuditRecorder, logger logger.Interface) *UpdateUserUseCase {
	return &UpdateUserUseCase{repo: repo, audit: audit, logger: logger}
}

func (uc *UpdateUserUseCase) Execute(ctx context.Context, cmd UpdateUserCommand) (*dto.UserResponse, error) {
	p := cmd.Principal
	uc.logger.Infow("executing update user use case", "target_user_id", cmd.UserID, "user_id", p.UserID)

	if err := requirePermission(p, permission.UserManage); err != nil {
		return nil, err
	}

	upd := user.AdminUpdate{
		Department: cmd.Department,
		Position:   cmd.Position,
		IsActive:   cmd.IsActive,
	}
	if cmd.Role != nil {
		role, ok := permission.ParseRole(*cmd.Role)
		if !ok {
			return nil, errors.NewValidationError("invalid role: " + *cmd.Role)
		}
		if role == permission.RoleSuperAdmin && p.Role != permission.RoleSuperAdmin {
			return nil, errors.NewForbiddenError("only a super admin may grant the SUPER_ADMIN role")
		}
		upd.Role = &role
	}

	u, err := uc.repo.GetByID(ctx, cmd.UserID)
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			return nil, errors.NewNotFoundError("user not found")
		}
		uc.logger.Errorw("failed to load user", "target_user_id", cmd.UserID, "error", err)
		return nil, errors.NewInternalError("failed to update user")
	}
	if u.Role() == permission.RoleSuperAdmin && p.Role != permission.RoleSuperAdmin {
		return nil, errors.NewForbiddenError("only a super admin may modify a super admin")
	}

	before, after, err := u.Apply(upd)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if len(after) == 0 {
		return dto.ToUserResponse(u), nil
	}

	if err := uc.repo.Update(ctx, u); err != nil {
		uc.logger.Errorw("failed to save user", "target_user_id", u.ID(), "error", err)
		return nil, errors.NewInternalError("failed to update user")
	}

	uc.audit.RecordBestEffort(ctx, p.AuditActor(), audit.ActionUserUpdated, "user", u.ID(), map[string]any{
		"email": u.Email().String(),
		"old":   before,
		"new":   after,
	})
	uc.logger.Infow("user updated successfully", "target_user_id", u.ID(), "changes", after)
	return dto.ToUserResponse(u), nil
}

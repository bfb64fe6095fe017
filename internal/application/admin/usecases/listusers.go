package usecases

import (
	"context"
	"strings"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/application/user/dto"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/user"
	"github.com/csc-helpdesk/csc/internal/shared/constants"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type ListUsersUseCase struct {
	repo   user.Repository
	logger logger.Interface
}

func NewListUsersUseCase(repo user.Repository, logger logger.Interface) *ListUsersUseCase {
	return &ListUsersUseCase{repo: repo, logger: logger}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context, p common.Principal, req dto.ListUsersRequest) (*common.ListResult[*dto.UserResponse], error) {
	if err := requirePermission(p, permission.UserManage); err != nil {
		return nil, err
	}
	role := ""
	if req.Role != "" {
		r, ok := permission.ParseRole(req.Role)
		if !ok {
			return nil, errors.NewValidationError("invalid role: " + req.Role)
		}
		role = r.String()
	}
	page := common.NormalizePage(req.Page, req.PageSize, constants.DefaultPageSize)

	users, total, err := uc.repo.List(ctx, user.ListFilter{
		Page:       page.Page,
		PageSize:   page.PageSize,
		Role:       role,
		Department: strings.TrimSpace(req.Department),
		Search:     strings.TrimSpace(req.Search),
		IsActive:   req.IsActive,
	})
	if err != nil {
		uc.logger.Errorw("failed to list users", "error", err)
		return nil, errors.NewInternalError("failed to list users")
	}

	return &common.ListResult[*dto.UserResponse]{
		Items:    dto.ToUserResponseList(users),
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

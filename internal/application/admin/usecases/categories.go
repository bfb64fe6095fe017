package usecases

import (
	"context"
	stderrors "errors"
	"strconv"

	"github.com/csc-helpdesk/csc/internal/application/admin/dto"
	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/domain/category"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type ListCategoriesUseCase struct {
	repo   category.Repository
	logger logger.Interface
}

func NewListCategoriesUseCase(repo category.Repository, logger logger.Interface) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{repo: repo, logger: logger}
}

func (uc *ListCategoriesUseCase) Execute(ctx context.Context, p common.Principal, req dto.ListCategoriesRequest) ([]*dto.CategoryResponse, error) {
	if err := requirePermission(p, permission.UserManage); err != nil {
		return nil, err
	}
	filter := category.ListFilter{ActiveOnly: !req.IncludeInactive}
	if req.Area != "" {
		a, err := vo.NewArea(req.Area)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.Area = &a
	}

	categories, err := uc.repo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list categories", "error", err)
		return nil, errors.NewInternalError("failed to list categories")
	}
	out := make([]*dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.ToCategoryResponse(c))
	}
	return out, nil
}

type CreateCategoryCommand struct {
	Principal common.Principal
	dto.CreateCategoryRequest
}

type CreateCategoryUseCase struct {
	repo   category.Repository
	audit  AuditRecorder
	logger logger.Interface
}

func NewCreateCategoryUseCase(repo category.Repository, audit AuditRecorder, logger logger.Interface) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{repo: repo, audit: audit, logger: logger}
}

func (uc *CreateCategoryUseCase) Execute(ctx context.Context, cmd CreateCategoryCommand) (*dto.CategoryResponse, error) {
	if err := requirePermission(cmd.Principal, permission.UserManage); err != nil {
		return nil, err
	}
	area, err := vo.NewArea(cmd.Area)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if cmd.SLAHours == 0 {
		return nil, errors.NewValidationError("sla_hours is required")
	}
	c, err := category.NewCategory(cmd.Name, cmd.Description, area, cmd.SLAHours)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.repo.Create(ctx, c); err != nil {
		if stderrors.Is(err, category.ErrDuplicateName) {
			return nil, errors.NewConflictError(err.Error())
		}
		uc.logger.Errorw("failed to create category", "name", c.Name(), "area", area, "error", err)
		return nil, errors.NewInternalError("failed to create category")
	}

	uc.audit.RecordBestEffort(ctx, cmd.Principal.AuditActor(), audit.ActionCategoryCreated, "category", strconv.FormatUint(uint64(c.ID()), 10), map[string]any{
		"name":      c.Name(),
		"area":      area.String(),
		"sla_hours": c.SLAHours(),
	})
	return dto.ToCategoryResponse(c), nil
}

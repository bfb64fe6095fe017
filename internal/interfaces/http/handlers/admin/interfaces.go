package admin

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/admin/dto"
	"github.com/csc-helpdesk/csc/internal/application/admin/usecases"
	auditusecases "github.com/csc-helpdesk/csc/internal/application/audit/usecases"
	"github.com/csc-helpdesk/csc/internal/application/common"
	userdto "github.com/csc-helpdesk/csc/internal/application/user/dto"
)

// Service interfaces for the admin handlers - enable unit testing with mocks.

type userAdminService interface {
	ListUsers(ctx context.Context, p common.Principal, req userdto.ListUsersRequest) (*common.ListResult[*userdto.UserResponse], error)
	UpdateUser(ctx context.Context, cmd usecases.UpdateUserCommand) (*userdto.UserResponse, error)
	Stats(ctx context.Context, p common.Principal) (*dto.SystemStatsResponse, error)
}

type settingService interface {
	ListSettings(ctx context.Context, p common.Principal) ([]*dto.SettingResponse, error)
	UpdateSetting(ctx context.Context, cmd usecases.UpdateSettingCommand) (*dto.SettingResponse, error)
}

type categoryService interface {
	ListCategories(ctx context.Context, p common.Principal, req dto.ListCategoriesRequest) ([]*dto.CategoryResponse, error)
	CreateCategory(ctx context.Context, cmd usecases.CreateCategoryCommand) (*dto.CategoryResponse, error)
}

type auditLogService interface {
	AuditLogs(ctx context.Context, p common.Principal, q auditusecases.ListAuditLogsQuery) (*common.ListResult[auditusecases.AuditLogDTO], error)
}

// Package admin backs the administration endpoints: users, system stats,
// settings, categories and the audit log.
package admin

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/admin/dto"
	"github.com/csc-helpdesk/csc/internal/application/admin/usecases"
	auditusecases "github.com/csc-helpdesk/csc/internal/application/audit/usecases"
	"github.com/csc-helpdesk/csc/internal/application/common"
	userdto "github.com/csc-helpdesk/csc/internal/application/user/dto"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/domain/category"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/setting"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	"github.com/csc-helpdesk/csc/internal/domain/user"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type Repositories struct {
	Users      user.Repository
	Tickets    ticket.Repository
	Reports    ticket.ReportRepository
	Settings   setting.Repository
	Categories category.Repository
	Audit      audit.Repository
}

type Service struct {
	listUsers      *usecases.ListUsersUseCase
	updateUser     *usecases.UpdateUserUseCase
	getStats       *usecases.GetSystemStatsUseCase
	listSettings   *usecases.ListSettingsUseCase
	updateSetting  *usecases.UpdateSettingUseCase
	listCategories *usecases.ListCategoriesUseCase
	createCategory *usecases.CreateCategoryUseCase
	listAuditLogs  *auditusecases.ListAuditLogsUseCase
}

func NewService(repos Repositories, recorder usecases.AuditRecorder, logger logger.Interface) *Service {
	return &Service{
		listUsers:      usecases.NewListUsersUseCase(repos.Users, logger),
		updateUser:     usecases.NewUpdateUserUseCase(repos.Users, recorder, logger),
		getStats:       usecases.NewGetSystemStatsUseCase(repos.Users, repos.Tickets, repos.Reports, logger),
		listSettings:   usecases.NewListSettingsUseCase(repos.Settings, logger),
		updateSetting:  usecases.NewUpdateSettingUseCase(repos.Settings, recorder, logger),
		listCategories: usecases.NewListCategoriesUseCase(repos.Categories, logger),
		createCategory: usecases.NewCreateCategoryUseCase(repos.Categories, recorder, logger),
		listAuditLogs:  auditusecases.NewListAuditLogsUseCase(repos.Audit, logger),
	}
}

func (s *Service) ListUsers(ctx context.Context, p common.Principal, req userdto.ListUsersRequest) (*common.ListResult[*userdto.UserResponse], error) {
	return s.listUsers.Execute(ctx, p, req)
}

func (s *Service) UpdateUser(ctx context.Context, cmd usecases.UpdateUserCommand) (*userdto.UserResponse, error) {
	return s.updateUser.Execute(ctx, cmd)
}

func (s *Service) Stats(ctx context.Context, p common.Principal) (*dto.SystemStatsResponse, error) {
	return s.getStats.Execute(ctx, p)
}

func (s *Service) ListSettings(ctx context.Context, p common.Principal) ([]*dto.SettingResponse, error) {
	return s.listSettings.Execute(ctx, p)
}

func (s *Service) UpdateSetting(ctx context.Context, cmd usecases.UpdateSettingCommand) (*dto.SettingResponse, error) {
	return s.updateSetting.Execute(ctx, cmd)
}

func (s *Service) ListCategories(ctx context.Context, p common.Principal, req dto.ListCategoriesRequest) ([]*dto.CategoryResponse, error) {
	return s.listCategories.Execute(ctx, p, req)
}

func (s *Service) CreateCategory(ctx context.Context, cmd usecases.CreateCategoryCommand) (*dto.CategoryResponse, error) {
	return s.createCategory.Execute(ctx, cmd)
}

// AuditLogs is restricted to system:admin holders.
func (s *Service) AuditLogs(ctx context.Context, p common.Principal, q auditusecases.ListAuditLogsQuery) (*common.ListResult[auditusecases.AuditLogDTO], error) {
	if !p.Can(permission.SystemAdmin) {
		return nil, errors.NewForbiddenError("insufficient permissions", string(permission.SystemAdmin))
	}
	return s.listAuditLogs.Execute(ctx, q)
}

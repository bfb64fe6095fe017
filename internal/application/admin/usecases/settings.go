package usecases

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/csc-helpdesk/csc/internal/application/admin/dto"
	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/setting"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type ListSettingsUseCase struct {
	repo   setting.Repository
	logger logger.Interface
}

func NewListSettingsUseCase(repo setting.Repository, logger logger.Interface) *ListSettingsUseCase {
	return &ListSettingsUseCase{repo: repo, logger: logger}
}

func (uc *ListSettingsUseCase) Execute(ctx context.Context, p common.Principal) ([]*dto.SettingResponse, error) {
	if err := requirePermission(p, permission.SystemAdmin); err != nil {
		return nil, err
	}
	settings, err := uc.repo.GetAll(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list settings", "error", err)
		return nil, errors.NewInternalError("failed to list settings")
	}
	out := make([]*dto.SettingResponse, 0, len(settings))
	for _, s := range settings {
		out = append(out, dto.ToSettingResponse(s))
	}
	return out, nil
}

type UpdateSettingCommand struct {
	Principal common.Principal
	Key       string
	Value     string
}

type UpdateSettingUseCase struct {
	repo   setting.Repository
	audit  AuditRecorder
	logger logger.Interface
}

func NewUpdateSettingUseCase(repo setting.Repository, audit AuditRecorder, logger logger.Interface) *UpdateSettingUseCase {
	return &UpdateSettingUseCase{repo: repo, audit: audit, logger: logger}
}

func (uc *UpdateSettingUseCase) Execute(ctx context.Context, cmd UpdateSettingCommand) (*dto.SettingResponse, error) {
	if err := requirePermission(cmd.Principal, permission.SystemAdmin); err != nil {
		return nil, err
	}
	key := strings.TrimSpace(cmd.Key)

	s, err := uc.repo.GetByKey(ctx, key)
	if err != nil {
		if stderrors.Is(err, setting.ErrSettingNotFound) {
			return nil, errors.NewNotFoundError("setting not found", key)
		}
		uc.logger.Errorw("failed to load setting", "key", key, "error", err)
		return nil, errors.NewInternalError("failed to update setting")
	}

	old := s.Value()
	if err := s.UpdateValue(cmd.Value, cmd.Principal.UserID); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.repo.Update(ctx, s); err != nil {
		uc.logger.Errorw("failed to save setting", "key", key, "error", err)
		return nil, errors.NewInternalError("failed to update setting")
	}

	uc.audit.RecordBestEffort(ctx, cmd.Principal.AuditActor(), audit.ActionSettingUpdated, "setting", key, map[string]any{
		"old_value": old,
		"new_value": s.Value(),
	})
	return dto.ToSettingResponse(s), nil
}

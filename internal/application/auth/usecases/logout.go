package usecases

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

// LogoutUseCase records the sign-out; tokens are stateless and simply discarded by the client.
type LogoutUseCase struct {
	audit  AuditRecorder
	logger logger.Interface
}

func NewLogoutUseCase(audit AuditRecorder, logger logger.Interface) *LogoutUseCase {
	return &LogoutUseCase{audit: audit, logger: logger}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, p common.Principal) error {
	uc.audit.RecordBestEffort(ctx, p.AuditActor(), audit.ActionLogout, "user", p.UserID, nil)
	uc.logger.Infow("user signed out", "user_id", p.UserID)
	return nil
}

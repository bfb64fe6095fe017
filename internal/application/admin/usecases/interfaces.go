package usecases

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
)

// AuditRecorder writes admin actions outside any transaction; failures are
// logged by the recorder and never reach the caller.
type AuditRecorder interface {
	RecordBestEffort(ctx context.Context, actor audit.Actor, action audit.Action, resourceType, resourceID string, details map[string]any)
}

func requirePermission(p common.Principal, perm permission.Permission) error {
	if !p.Can(perm) {
		return errors.NewForbiddenError("insufficient permissions", string(perm))
	}
	return nil
}

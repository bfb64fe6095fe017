// Package audit writes and reads the audit trail.
package audit

import (
	"context"
	"fmt"

	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type metaKey struct{}

// WithRequestMeta stores the caller's IP and user agent for entries recorded under ctx.
func WithRequestMeta(ctx context.Context, meta audit.RequestMeta) context.Context {
	return context.WithValue(ctx, metaKey{}, meta)
}

func RequestMetaFrom(ctx context.Context) audit.RequestMeta {
	meta, _ := ctx.Value(metaKey{}).(audit.RequestMeta)
	return meta
}

// Recorder appends audit entries. Record joins the caller's transaction and
// fails it on error; RecordBestEffort only logs.
type Recorder struct {
	repo   audit.Repository
	logger logger.Interface
}

func NewRecorder(repo audit.Repository, logger logger.Interface) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

func (r *Recorder) Record(
	ctx context.Context,
	actor audit.Actor,
	action audit.Action,
	resourceType, resourceID string,
	details map[string]any,
) error {
	entry, err := audit.NewEntry(actor, action, resourceType, resourceID, details, RequestMetaFrom(ctx))
	if err != nil {
		return err
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit entry %s: %w", action, err)
	}
	return nil
}

func (r *Recorder) RecordBestEffort(
	ctx context.Context,
	actor audit.Actor,
	action audit.Action,
	resourceType, resourceID string,
	details map[string]any,
) {
	if err := r.Record(ctx, actor, action, resourceType, resourceID, details); err != nil {
		r.logger.Errorw("audit write failed",
			"action", action,
			"user_id", actor.UserID,
			"resource_type", resourceType,
			"resource_id", resourceID,
			"error", err,
		)
	}
}

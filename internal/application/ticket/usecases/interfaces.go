package usecases

import (
	"context"

	notificationdto "github.com/csc-helpdesk/csc/internal/application/notification/dto"
	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	"github.com/csc-helpdesk/csc/internal/domain/user"
)

// AuditRecorder writes one audit entry inside the caller's transaction.
type AuditRecorder interface {
	Record(ctx context.Context, actor audit.Actor, action audit.Action, resourceType, resourceID string, details map[string]any) error
}

// Notifier is best-effort; it never fails the caller.
type Notifier interface {
	Notify(ctx context.Context, to notificationdto.Recipient, msg notificationdto.Message) bool
}

// EventPublisher announces committed lifecycle changes.
type EventPublisher interface {
	Publish(ctx context.Context, event ticket.Event) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ticket.Event) error { return nil }

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, notificationdto.Recipient, notificationdto.Message) bool {
	return false
}

// TextSanitizer removes markup from user-supplied text.
type TextSanitizer interface {
	StripTags(text string) string
}

type plainText struct{}

func (plainText) StripTags(text string) string { return text }

// UserLookup resolves the target of an assignment by e-mail.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

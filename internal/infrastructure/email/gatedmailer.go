package email

import (
	"context"

	"github.com/csc-helpdesk/csc/internal/domain/setting"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

// EmailEnabledKey is the runtime switch an admin can flip without a restart.
const EmailEnabledKey = "notifications.email_enabled"

type Sender interface {
	SendNotification(ctx context.Context, to, subject, message string) error
}

// GatedMailer consults the email_enabled setting before every send. A missing
// or unreadable setting counts as enabled.
type GatedMailer struct {
	next     Sender
	settings setting.Repository
	logger   logger.Interface
}

func NewGatedMailer(next Sender, settings setting.Repository, logger logger.Interface) *GatedMailer {
	return &GatedMailer{
		next:     next,
		settings: settings,
		logger:   logger,
	}
}

func (g *GatedMailer) SendNotification(ctx context.Context, to, subject, message string) error {
	if g.next == nil {
		return ErrEmailServiceNotConfigured
	}
	if !g.enabled(ctx) {
		g.logger.Debugw("notification e-mail disabled by setting", "to", to)
		return nil
	}
	return g.next.SendNotification(ctx, to, subject, message)
}

func (g *GatedMailer) enabled(ctx context.Context) bool {
	s, err := g.settings.GetByKey(ctx, EmailEnabledKey)
	if err != nil {
		return true
	}
	on, err := s.GetBoolValue()
	if err != nil {
		g.logger.Warnw("unexpected value for setting", "key", EmailEnabledKey, "value", s.Value())
		return true
	}
	return on
}

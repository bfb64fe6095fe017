// Package notification creates per-user inbox entries and fans them out to
// live websocket sessions and e-mail.
package notification

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/csc-helpdesk/csc/internal/application/notification/dto"
	"github.com/csc-helpdesk/csc/internal/domain/notification"
	"github.com/csc-helpdesk/csc/internal/shared/goroutine"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

// Pusher delivers a created notification to the recipient's open sessions.
type Pusher interface {
	PushToUser(userID string, event string, payload any)
}

// Mailer sends a notification e-mail. Message is markdown.
type Mailer interface {
	SendNotification(ctx context.Context, to, subject, message string) error
}

const (
	pushEvent   = "new_notification"
	mailTimeout = 30 * time.Second
)

// Dispatcher never fails its caller: delivery is best-effort and every
// failure is logged.
type Dispatcher struct {
	repo   notification.Repository
	pusher Pusher
	mailer Mailer
	group  *goroutine.Group
	logger logger.Interface
}

// NewDispatcher wires the optional pusher and mailer; either may be nil.
func NewDispatcher(repo notification.Repository, pusher Pusher, mailer Mailer, group *goroutine.Group, logger logger.Interface) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		pusher: pusher,
		mailer: mailer,
		group:  group,
		logger: logger,
	}
}

// Notify stores the notification and fans it out. It reports whether a new
// row was created; a repeated dedup key creates nothing.
func (d *Dispatcher) Notify(ctx context.Context, to dto.Recipient, msg dto.Message) bool {
	if to.UserID == "" {
		return false
	}

	if msg.DedupKey != "" {
		exists, err := d.repo.ExistsByDedupKey(ctx, to.UserID, msg.DedupKey)
		if err != nil {
			d.logger.Errorw("failed to check notification dedup key", "user_id", to.UserID, "dedup_key", msg.DedupKey, "error", err)
			return false
		}
		if exists {
			return false
		}
	}

	n, err := notification.NewNotification(to.UserID, msg.Type, msg.Title, msg.Body, msg.Payload)
	if err != nil {
		d.logger.Errorw("invalid notification", "user_id", to.UserID, "type", msg.Type, "error", err)
		return false
	}
	if msg.DedupKey != "" {
		n.WithDedupKey(msg.DedupKey)
	}

	if err := d.repo.Create(ctx, n); err != nil {
		if stderrors.Is(err, notification.ErrDuplicate) {
			return false
		}
		d.logger.Errorw("failed to create notification", "user_id", to.UserID, "type", msg.Type, "error", err)
		return false
	}

	if d.pusher != nil {
		d.pusher.PushToUser(to.UserID, pushEvent, dto.ToNotificationResponse(n))
	}
	if d.mailer != nil && to.Email != "" {
		d.sendMail(to.Email, msg)
	}
	return true
}

func (d *Dispatcher) sendMail(to string, msg dto.Message) {
	d.group.Go("notification-mail", func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := d.mailer.SendNotification(ctx, to, msg.Title, msg.Body); err != nil {
			d.logger.Warnw("failed to send notification e-mail", "to", to, "type", msg.Type, "error", err)
		}
	})
}

// Package pubsub relays realtime notification pushes between server
// instances over redis Pub/Sub.
package pubsub

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/csc-helpdesk/csc/internal/shared/goroutine"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

const (
	notificationChannel = "csc:hub:notification"
	publishTimeout      = 2 * time.Second
)

// LocalPusher delivers to the sessions held by this instance.
type LocalPusher interface {
	PushToUser(userID string, event string, payload any)
}

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// NotificationEvent is one push relayed to the other instances.
type NotificationEvent struct {
	UserID     string          `json:"user_id"`
	Event      string          `json:"event"`
	Payload    json.RawMessage `json:"payload"`
	InstanceID string          `json:"instance_id"`
}

// NotificationRelay pushes to local sessions and republishes the push so
// instances holding the user's other sessions deliver it too.
type NotificationRelay struct {
	client     *redis.Client
	pub        publisher
	local      LocalPusher
	logger     logger.Interface
	instanceID string
}

func NewNotificationRelay(client *redis.Client, local LocalPusher, logger logger.Interface) *NotificationRelay {
	return &NotificationRelay{
		client:     client,
		pub:        client,
		local:      local,
		logger:     logger,
		instanceID: uuid.NewString(),
	}
}

// PushToUser delivers locally, then publishes. A publish failure only costs
// remote delivery; the notification row is already stored.
func (r *NotificationRelay) PushToUser(userID string, event string, payload any) {
	r.local.PushToUser(userID, event, payload)

	raw, err := json.Marshal(payload)
	if err != nil {
		r.logger.Errorw("failed to marshal relayed payload", "event", event, "error", err)
		return
	}
	data, err := json.Marshal(NotificationEvent{
		UserID:     userID,
		Event:      event,
		Payload:    raw,
		InstanceID: r.instanceID,
	})
	if err != nil {
		r.logger.Errorw("failed to marshal notification event", "event", event, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := r.pub.Publish(ctx, notificationChannel, data).Err(); err != nil {
		r.logger.Warnw("failed to publish notification event",
			"user_id", userID,
			"event", event,
			"error", err,
		)
	}
}

// Run consumes events from the other instances until ctx is done.
func (r *NotificationRelay) Run(ctx context.Context) error {
	return r.subscribeWithReconnect(ctx, notificationChannel, r.handle)
}

func (r *NotificationRelay) handle(payload string) {
	var event NotificationEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		r.logger.Warnw("failed to unmarshal notification event",
			"payload", payload,
			"error", err,
		)
		return
	}

	// Own pushes were delivered locally already
	if event.InstanceID == r.instanceID || event.UserID == "" {
		return
	}

	r.local.PushToUser(event.UserID, event.Event, event.Payload)
}

// subscribeWithReconnect wraps subscribe with automatic reconnection and exponential backoff.
func (r *NotificationRelay) subscribeWithReconnect(ctx context.Context, channel string, handler func(payload string)) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := r.subscribe(ctx, channel, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		r.logger.Warnw("relay subscription disconnected, reconnecting",
			"channel", channel,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (r *NotificationRelay) subscribe(ctx context.Context, channel string, handler func(payload string)) error {
	sub := r.client.Subscribe(ctx, channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", channel, err)
	}

	r.logger.Infow("subscribed to relay channel", "channel", channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			r.logger.Infow("relay subscriber stopped",
				"channel", channel,
				"reason", ctx.Err(),
			)
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				r.logger.Warnw("relay channel closed", "channel", channel)
				return nil
			}
			goroutine.SafeGo(r.logger, "notification-relay", func() {
				handler(msg.Payload)
			})
		}
	}
}

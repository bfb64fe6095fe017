package pubsub

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type pushed struct {
	userID  string
	event   string
	payload any
}

type recordingPusher struct {
	mu    sync.Mutex
	calls []pushed
}

func (p *recordingPusher) PushToUser(userID string, event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, pushed{userID, event, payload})
}

type fakePublisher struct {
	channel string
	message []byte
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.message, _ = message.([]byte)
	return redis.NewIntResult(1, f.err)
}

func newTestRelay(pub *fakePublisher, local *recordingPusher) *NotificationRelay {
	return &NotificationRelay{
		pub:        pub,
		local:      local,
		logger:     logger.NewNopLogger(),
		instanceID: "instance-a",
	}
}

func TestNotificationRelay_PushToUser(t *testing.T) {
	pub := &fakePublisher{}
	local := &recordingPusher{}
	relay := newTestRelay(pub, local)

	relay.PushToUser("u-1", "new_notification", map[string]any{"id": 7})

	require.Len(t, local.calls, 1)
	assert.Equal(t, "u-1", local.calls[0].userID)

	assert.Equal(t, notificationChannel, pub.channel)
	var event NotificationEvent
	require.NoError(t, json.Unmarshal(pub.message, &event))
	assert.Equal(t, "u-1", event.UserID)
	assert.Equal(t, "new_notification", event.Event)
	assert.Equal(t, "instance-a", event.InstanceID)
	assert.JSONEq(t, `{"id":7}`, string(event.Payload))
}

func TestNotificationRelay_PublishFailureStillDeliversLocally(t *testing.T) {
	pub := &fakePublisher{err: stderrors.New("connection refused")}
	local := &recordingPusher{}
	relay := newTestRelay(pub, local)

	relay.PushToUser("u-1", "new_notification", nil)

	assert.Len(t, local.calls, 1)
}

func TestNotificationRelay_Handle(t *testing.T) {
	encode := func(e NotificationEvent) string {
		data, err := json.Marshal(e)
		require.NoError(t, err)
		return string(data)
	}

	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{"remote event delivered", encode(NotificationEvent{UserID: "u-2", Event: "new_notification", Payload: []byte(`{}`), InstanceID: "instance-b"}), 1},
		{"own event skipped", encode(NotificationEvent{UserID: "u-2", Event: "new_notification", InstanceID: "instance-a"}), 0},
		{"missing user skipped", encode(NotificationEvent{Event: "new_notification", InstanceID: "instance-b"}), 0},
		{"garbage ignored", "not-json", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := &recordingPusher{}
			relay := newTestRelay(&fakePublisher{}, local)

			relay.handle(tt.payload)

			assert.Len(t, local.calls, tt.want)
		})
	}
}

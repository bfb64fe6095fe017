package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTextLogger(buf *bytes.Buffer, levels ...slog.Level) *slog.Logger {
	base := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewConditionalSourceHandler(base, levels...))
}

func TestConditionalSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		wantSource bool
	}{
		{"info has no source", slog.LevelInfo, false},
		{"debug has no source", slog.LevelDebug, false},
		{"warn has source", slog.LevelWarn, true},
		{"error has source", slog.LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newTextLogger(&buf, slog.LevelWarn, slog.LevelError)
			l.Log(context.Background(), tt.level, "ticket closed")

			assert.Equal(t, tt.wantSource, bytes.Contains(buf.Bytes(), []byte("source=")), buf.String())
		})
	}
}

func TestConditionalSourceHandler_KeepsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	l := newTextLogger(&buf, slog.LevelError).With("ticket_id", 42).WithGroup("request")
	l.Info("assigned", "path", "/api/tickets/42/assign")

	out := buf.String()
	assert.Contains(t, out, "ticket_id=42")
	assert.Contains(t, out, "request.path=/api/tickets/42/assign")
	assert.NotContains(t, out, "source=")
}

func TestConditionalSourceHandler_EnabledDelegates(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	h := NewConditionalSourceHandler(base, slog.LevelError)

	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestFromContext(t *testing.T) {
	fallback := NewNopLogger()
	assert.Equal(t, fallback, FromContext(context.Background(), fallback))

	scoped := NewNopLogger().With("request_id", "abc")
	ctx := IntoContext(context.Background(), scoped)
	assert.Equal(t, scoped, FromContext(ctx, fallback))
}

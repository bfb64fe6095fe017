package email

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/csc-helpdesk/csc/internal/domain/setting"
	"github.com/csc-helpdesk/csc/internal/shared/config"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
	"github.com/csc-helpdesk/csc/internal/shared/services/markdown"
)

func newCapturingMailer(t *testing.T) (*SMTPMailer, *[]*gomail.Message) {
	t.Helper()
	var sent []*gomail.Message
	m := NewSMTPMailer(config.EmailConfig{
		SMTPHost:    "smtp.example.com",
		SMTPPort:    587,
		FromAddress: "helpdesk@corp.com",
		FromName:    "CSC Helpdesk",
	}, "https://helpdesk.corp.com", markdown.NewService())
	m.send = func(msg *gomail.Message) error {
		sent = append(sent, msg)
		return nil
	}
	return m, &sent
}

func TestSMTPMailer_SendNotification(t *testing.T) {
	m, sent := newCapturingMailer(t)

	err := m.SendNotification(context.Background(), "ana@corp.com", "Ticket assigned", "Ticket **CSC202603020001** is yours")
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	msg := (*sent)[0]
	assert.Equal(t, []string{"ana@corp.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Ticket assigned"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "<strong>CSC202603020001</strong>")
	assert.Contains(t, raw, "https://helpdesk.corp.com")
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	m, sent := newCapturingMailer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.SendNotification(ctx, "a@corp.com", "s", "b"), context.Canceled)
	assert.Empty(t, *sent)
}

func TestSMTPMailer_SendFailureIsWrapped(t *testing.T) {
	m, _ := newCapturingMailer(t)
	m.send = func(*gomail.Message) error { return errors.New("connection refused") }

	err := m.SendNotification(context.Background(), "a@corp.com", "s", "b")
	assert.ErrorContains(t, err, "connection refused")
}

type stubSettings struct {
	setting.Repository
	values map[string]*setting.Setting
}

func (s *stubSettings) GetByKey(_ context.Context, key string) (*setting.Setting, error) {
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return nil, setting.ErrSettingNotFound
}

type countingSender struct{ calls int }

func (c *countingSender) SendNotification(context.Context, string, string, string) error {
	c.calls++
	return nil
}

func TestGatedMailer(t *testing.T) {
	off, err := setting.NewSetting(EmailEnabledKey, "false", setting.ValueTypeBoolean, "", false)
	require.NoError(t, err)
	on, err := setting.NewSetting(EmailEnabledKey, "true", setting.ValueTypeBoolean, "", false)
	require.NoError(t, err)

	tests := []struct {
		name      string
		values    map[string]*setting.Setting
		wantCalls int
	}{
		{name: "disabled", values: map[string]*setting.Setting{EmailEnabledKey: off}, wantCalls: 0},
		{name: "enabled", values: map[string]*setting.Setting{EmailEnabledKey: on}, wantCalls: 1},
		{name: "missing setting", values: nil, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &countingSender{}
			g := NewGatedMailer(next, &stubSettings{values: tt.values}, logger.NewNopLogger())
			require.NoError(t, g.SendNotification(context.Background(), "a@corp.com", "s", "b"))
			assert.Equal(t, tt.wantCalls, next.calls)
		})
	}
}

func TestGatedMailer_NotConfigured(t *testing.T) {
	g := NewGatedMailer(nil, &stubSettings{}, logger.NewNopLogger())
	assert.ErrorIs(t, g.SendNotification(context.Background(), "a@corp.com", "s", "b"), ErrEmailServiceNotConfigured)
}

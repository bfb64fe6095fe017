package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	json "github.com/json-iterator/go"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	"github.com/csc-helpdesk/csc/internal/shared/config"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	exchanges  []string
	queues     []string
	bindings   []string
	published  []published
	publishErr error
	closed     bool
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, _, _, _, _ bool, _ amqp.Table) error {
	c.exchanges = append(c.exchanges, name+":"+kind)
	return nil
}

func (c *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	c.queues = append(c.queues, name)
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) QueueBind(name, key, exchange string, _ bool, _ amqp.Table) error {
	c.bindings = append(c.bindings, name+"<-"+exchange+":"+key)
	return nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.published = append(c.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) IsClosed() bool { return c.closed }
func (c *fakeChannel) Close() error   { c.closed = true; return nil }

type fakeConnection struct {
	ch     *fakeChannel
	closed bool
}

func (c *fakeConnection) Channel() (channel, error) { return c.ch, nil }
func (c *fakeConnection) IsClosed() bool            { return c.closed }
func (c *fakeConnection) Close() error              { c.closed = true; return nil }

func newTestPublisher(queue string) (*RabbitMQPublisher, *[]*fakeChannel) {
	var channels []*fakeChannel
	p := NewRabbitMQPublisher(config.MessagingConfig{Enabled: true, Queue: queue}, logger.NewNopLogger())
	p.dial = func() (connection, error) {
		ch := &fakeChannel{}
		channels = append(channels, ch)
		return &fakeConnection{ch: ch}, nil
	}
	return p, &channels
}

func sampleEvent() ticket.Event {
	return ticket.Event{
		Type:       ticket.EventClosed,
		TicketID:   7,
		Number:     "CSC202603020007",
		Status:     "FECHADO",
		ActorID:    "u-1",
		OccurredAt: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestRabbitMQPublisher_Publish(t *testing.T) {
	p, channels := newTestPublisher("csc.ticket-events")

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Len(t, *channels, 1, "connection is reused")

	ch := (*channels)[0]
	assert.Equal(t, []string{DefaultExchange + ":topic"}, ch.exchanges)
	assert.Equal(t, []string{"csc.ticket-events"}, ch.queues)
	assert.Equal(t, []string{"csc.ticket-events<-" + DefaultExchange + ":ticket.#"}, ch.bindings)

	require.Len(t, ch.published, 2)
	got := ch.published[0]
	assert.Equal(t, DefaultExchange, got.exchange)
	assert.Equal(t, "ticket.closed", got.key)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, "application/json", got.msg.ContentType)

	var body map[string]any
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, "CSC202603020007", body["ticket_number"])
}

func TestRabbitMQPublisher_RedialsAfterFailure(t *testing.T) {
	p, channels := newTestPublisher("")

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	(*channels)[0].publishErr = errors.New("channel/connection is not open")

	assert.Error(t, p.Publish(context.Background(), sampleEvent()))
	assert.True(t, (*channels)[0].closed)

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Len(t, *channels, 2)
	assert.Empty(t, (*channels)[1].queues, "no queue configured")
}

func TestRabbitMQPublisher_DialFailure(t *testing.T) {
	p, _ := newTestPublisher("")
	p.dial = func() (connection, error) { return nil, errors.New("connection refused") }

	err := p.Publish(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "connection refused")
}

func TestRabbitMQPublisher_Closed(t *testing.T) {
	p, _ := newTestPublisher("")
	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Publish(context.Background(), sampleEvent()), ErrPublisherClosed)
}

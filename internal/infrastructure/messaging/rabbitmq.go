// Package messaging publishes ticket lifecycle events to RabbitMQ.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/json-iterator/go"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/csc-helpdesk/csc/internal/domain/ticket"
	"github.com/csc-helpdesk/csc/internal/shared/config"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

const (
	DefaultExchange = "csc.tickets"
	bindingKey      = "ticket.#"
)

var ErrPublisherClosed = errors.New("event publisher closed")

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type connection interface {
	Channel() (channel, error)
	IsClosed() bool
	Close() error
}

type amqpConnection struct{ *amqp.Connection }

func (c amqpConnection) Channel() (channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// RabbitMQPublisher keeps one connection and channel open and redials
// lazily after the broker drops them. Events go to a durable topic
// exchange with the event type as routing key.
type RabbitMQPublisher struct {
	exchange string
	queue    string
	dial     func() (connection, error)
	logger   logger.Interface

	mu     sync.Mutex
	conn   connection
	ch     channel
	closed bool
}

func NewRabbitMQPublisher(cfg config.MessagingConfig, log logger.Interface) *RabbitMQPublisher {
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = DefaultExchange
	}
	url := cfg.URL
	return &RabbitMQPublisher{
		exchange: exchange,
		queue:    cfg.Queue,
		dial: func() (connection, error) {
			conn, err := amqp.Dial(url)
			if err != nil {
				return nil, err
			}
			return amqpConnection{conn}, nil
		},
		logger: log,
	}
}

// Publish sends event as a persistent JSON message.
func (p *RabbitMQPublisher) Publish(ctx context.Context, event ticket.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channelLocked()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(event.Type),
		Body:         body,
	})
	if err != nil {
		p.resetLocked()
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *RabbitMQPublisher) channelLocked() (channel, error) {
	if p.closed {
		return nil, ErrPublisherClosed
	}
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.resetLocked()

	conn, err := p.dial()
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := p.declare(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	p.conn, p.ch = conn, ch
	p.logger.Infow("rabbitmq publisher connected", "exchange", p.exchange, "queue", p.queue)
	return ch, nil
}

// declare is idempotent; durable so messages survive broker restarts.
func (p *RabbitMQPublisher) declare(ch channel) error {
	if err := ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	if p.queue == "" {
		return nil
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(p.queue, bindingKey, p.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}
	return nil
}

func (p *RabbitMQPublisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.resetLocked()
	return nil
}

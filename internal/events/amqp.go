package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// dialFunc opens a connection and a channel with the queue already declared.
type dialFunc func() (io.Closer, channel, error)

type amqpPublisher struct {
	mu    sync.Mutex
	dial  dialFunc
	conn  io.Closer
	ch    channel
	queue string
}

// NewAMQPPublisher dials the broker and declares a durable queue that every
// event is routed to through the default exchange. A channel closed by the
// broker is replaced by redialing on the next Publish.
func NewAMQPPublisher(url, queue string) (Publisher, error) {
	dial := func() (io.Closer, channel, error) {
		return dialQueue(url, queue)
	}
	return newAMQPPublisher(dial, queue)
}

func newAMQPPublisher(dial dialFunc, queue string) (*amqpPublisher, error) {
	p := &amqpPublisher{dial: dial, queue: queue}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func dialQueue(url, queue string) (io.Closer, channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	return conn, ch, nil
}

// connect must be called with mu held, except from the constructor.
func (p *amqpPublisher) connect() error {
	p.release()

	conn, ch, err := p.dial()
	if err != nil {
		return err
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *amqpPublisher) release() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, event MovieEvent) error {
	msg, err := newPublishing(event)
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		if err := p.connect(); err != nil {
			return fmt.Errorf("failed to reconnect before publishing %s: %w", event.Type, err)
		}
	}

	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		if errors.Is(err, amqp.ErrClosed) {
			p.release()
		}
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var chErr, connErr error
	if p.ch != nil {
		chErr = p.ch.Close()
	}
	if p.conn != nil {
		connErr = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
	p.dial = func() (io.Closer, channel, error) {
		return nil, nil, errors.New("publisher is closed")
	}

	if connErr != nil {
		return connErr
	}
	return chErr
}

func newPublishing(event MovieEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to encode event: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Type:         string(event.Type),
		Timestamp:    event.OccurredAt,
		Body:         body,
	}, nil
}

package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/balance_ledger/internal/core/ports/events"
	"github.com/SscSPs/balance_ledger/internal/middleware"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeKind is the exchange type used for transaction events.
const ExchangeKind = "topic"

// Producer publishes messages to a durable topic exchange.
type Producer struct {
	exchange string

	// amqp channels are not safe for concurrent publishing.
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewProducer dials the broker and declares the exchange.
func NewProducer(amqpURL string, exchange string) (*Producer, error) {
	cleanURL, err := sanitizeURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.Dial(cleanURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ at %s: %w", redact(cleanURL), err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, ExchangeKind, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &Producer{exchange: exchange, conn: conn, ch: ch}, nil
}

var _ events.Broker = (*Producer)(nil)

// Publish sends msg as a persistent message routed by msg.RoutingKey.
func (p *Producer) Publish(ctx context.Context, msg events.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		return amqp.ErrClosed
	}

	err := p.ch.PublishWithContext(ctx,
		p.exchange,
		msg.RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  msg.ContentType,
			MessageId:    msg.MessageID,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         msg.Body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish to exchange %s: %w", p.exchange, err)
	}

	middleware.GetLoggerFromCtx(ctx).Debug("Published message",
		slog.String("exchange", p.exchange),
		slog.String("routing_key", msg.RoutingKey),
		slog.String("message_id", msg.MessageID))
	return nil
}

// Close closes the channel and connection.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	if p.ch != nil {
		if err := p.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			firstErr = err
		}
		p.ch = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) && firstErr == nil {
			firstErr = err
		}
		p.conn = nil
	}
	return firstErr
}

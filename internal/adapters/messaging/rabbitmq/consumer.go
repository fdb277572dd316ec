package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/balance_ledger/internal/middleware"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Delivery is the broker-independent view of a consumed message.
type Delivery struct {
	RoutingKey string
	MessageID  string
	Body       []byte
}

// Outcome tells the consumer how to settle a delivery.
type Outcome int

const (
	// Ack removes the message from the queue.
	Ack Outcome = iota
	// Requeue returns the message to the queue for another attempt.
	Requeue
	// Reject drops a message that can never be processed.
	Reject
)

// HandlerFunc processes one delivery.
type HandlerFunc func(ctx context.Context, d Delivery) Outcome

// Consumer reads from a durable queue bound to a topic exchange.
type Consumer struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	prefetch int
}

// NewConsumer dials the broker and opens a channel with the given prefetch.
func NewConsumer(amqpURL string, prefetch int) (*Consumer, error) {
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

	if prefetch <= 0 {
		prefetch = 10
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set prefetch: %w", err)
	}

	return &Consumer{conn: conn, ch: ch, prefetch: prefetch}, nil
}

// Consume declares exchange and queue, binds every routing key in handlers
// and dispatches deliveries until ctx is cancelled or the channel closes.
// Messages with no matching handler are acknowledged and dropped.
func (c *Consumer) Consume(ctx context.Context, exchange, queueName string, handlers map[string]HandlerFunc) error {
	if len(handlers) == 0 {
		return errors.New("no bindings provided")
	}

	if err := c.ch.ExchangeDeclare(exchange, ExchangeKind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	q, err := c.ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	for routingKey := range handlers {
		if err := c.ch.QueueBind(q.Name, routingKey, exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind %s to %s: %w", routingKey, q.Name, err)
		}
	}

	msgs, err := c.ch.ConsumeWithContext(ctx, q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %w", q.Name, err)
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Consuming messages", slog.String("queue", q.Name), slog.String("exchange", exchange))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("delivery channel closed by broker")
			}
			c.dispatch(ctx, logger, handlers, d)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, logger *slog.Logger, handlers map[string]HandlerFunc, d amqp.Delivery) {
	handler, ok := handlers[d.RoutingKey]
	if !ok {
		logger.Warn("No handler for routing key, acknowledging to drop", slog.String("routing_key", d.RoutingKey))
		_ = d.Ack(false)
		return
	}

	msgLogger := logger.With(slog.String("message_id", d.MessageId), slog.String("routing_key", d.RoutingKey))
	outcome := handler(middleware.WithLogger(ctx, msgLogger), Delivery{
		RoutingKey: d.RoutingKey,
		MessageID:  d.MessageId,
		Body:       d.Body,
	})

	var err error
	switch outcome {
	case Ack:
		err = d.Ack(false)
	case Requeue:
		msgLogger.Warn("Handler failed, re-queuing")
		err = d.Nack(false, true)
	default:
		msgLogger.Warn("Handler rejected message")
		err = d.Reject(false)
	}
	if err != nil {
		msgLogger.Error("Failed to settle delivery", slog.String("error", err.Error()))
	}
}

// Close closes the channel and connection.
func (c *Consumer) Close() error {
	var firstErr error
	if c.ch != nil {
		if err := c.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			firstErr = err
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

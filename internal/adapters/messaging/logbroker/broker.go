// Package logbroker is the events.Broker used when no message broker is
// configured. Messages are written to the structured log and discarded.
package logbroker

import (
	"context"
	"log/slog"

	"github.com/SscSPs/balance_ledger/internal/core/ports/events"
	"github.com/SscSPs/balance_ledger/internal/middleware"
)

type Broker struct {
	level slog.Level
}

// New returns a broker that logs each message at level.
func New(level slog.Level) *Broker {
	return &Broker{level: level}
}

var _ events.Broker = (*Broker)(nil)

func (b *Broker) Publish(ctx context.Context, msg events.Message) error {
	middleware.GetLoggerFromCtx(ctx).Log(ctx, b.level, "Transaction event (no broker configured)",
		slog.String("routing_key", msg.RoutingKey),
		slog.String("message_id", msg.MessageID),
		slog.String("body", string(msg.Body)))
	return nil
}

func (b *Broker) Close() error { return nil }

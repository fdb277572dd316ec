package notification

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/SscSPs/balance_ledger/internal/adapters/messaging/rabbitmq"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/middleware"
)

// Deduplicator suppresses repeated deliveries of the same transaction.
type Deduplicator interface {
	Claim(ctx context.Context, id string) (bool, error)
	Release(ctx context.Context, id string) error
}

// Handler turns transaction events into alerts.
type Handler struct {
	sender Sender
	dedup  Deduplicator
}

// NewHandler creates a Handler. dedup may be nil, in which case redelivered
// events produce duplicate alerts.
func NewHandler(sender Sender, dedup Deduplicator) *Handler {
	return &Handler{sender: sender, dedup: dedup}
}

// Bindings returns the routing keys the handler consumes.
func (h *Handler) Bindings() map[string]rabbitmq.HandlerFunc {
	return map[string]rabbitmq.HandlerFunc{
		domain.TransactionEvent{Type: domain.Credit}.RoutingKey(): h.Handle,
		domain.TransactionEvent{Type: domain.Debit}.RoutingKey():  h.Handle,
	}
}

// Handle processes one delivery. Malformed messages are rejected, send
// failures are re-queued with the dedup claim released.
func (h *Handler) Handle(ctx context.Context, d rabbitmq.Delivery) rabbitmq.Outcome {
	logger := middleware.GetLoggerFromCtx(ctx)

	var evt domain.TransactionEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		logger.Error("Malformed transaction event", slog.String("error", err.Error()))
		return rabbitmq.Reject
	}
	id := evt.TransactionID
	if id == "" {
		id = d.MessageID
	}

	alert, err := Render(evt)
	if err != nil {
		logger.Warn("Skipping event that cannot be rendered", slog.String("error", err.Error()))
		return rabbitmq.Reject
	}

	if h.dedup != nil {
		first, err := h.dedup.Claim(ctx, id)
		if err != nil {
			logger.Error("Dedup check failed", slog.String("transaction_id", id), slog.String("error", err.Error()))
			return rabbitmq.Requeue
		}
		if !first {
			logger.Info("Duplicate delivery skipped", slog.String("transaction_id", id))
			return rabbitmq.Ack
		}
	}

	if err := h.sender.Send(ctx, alert); err != nil {
		logger.Error("Failed to send notification", slog.String("transaction_id", id), slog.String("error", err.Error()))
		if h.dedup != nil {
			if relErr := h.dedup.Release(ctx, id); relErr != nil {
				logger.Error("Failed to release dedup claim", slog.String("transaction_id", id), slog.String("error", relErr.Error()))
			}
		}
		return rabbitmq.Requeue
	}
	return rabbitmq.Ack
}

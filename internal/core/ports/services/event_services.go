package services

import (
	"context"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
)

// EventPublisherSvc hands transaction events to the broker without blocking the caller.
type EventPublisherSvc interface {
	// Publish enqueues the event and reports whether it was accepted.
	// Delivery failures after acceptance are logged only.
	Publish(ctx context.Context, event domain.TransactionEvent) bool

	// Shutdown stops accepting events and drains the queue until ctx is done.
	Shutdown(ctx context.Context) error
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/core/ports/events"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/middleware"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

const (
	defaultEventQueueSize = 1024
	defaultPublishTimeout = 5 * time.Second
)

// ErrPublisherClosed is returned by Shutdown when called twice.
var ErrPublisherClosed = errors.New("event publisher already shut down")

type queuedEvent struct {
	event  domain.TransactionEvent
	logger *slog.Logger
}

// EventPublisher queues transaction events and delivers them to the broker
// from a single background worker.
type EventPublisher struct {
	BaseService
	broker         events.Broker
	queue          chan queuedEvent
	publishTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	worker conc.WaitGroup

	// deliveryCtx is cancelled when Shutdown gives up on draining.
	deliveryCtx context.Context
	abandon     context.CancelFunc
}

// PublisherOption is a functional option for configuring the event publisher
type PublisherOption func(*EventPublisher)

// WithQueueSize sets the number of events buffered before new ones are dropped.
func WithQueueSize(n int) PublisherOption {
	return func(p *EventPublisher) {
		if n > 0 {
			p.queue = make(chan queuedEvent, n)
		}
	}
}

// WithPublishTimeout bounds each broker call.
func WithPublishTimeout(d time.Duration) PublisherOption {
	return func(p *EventPublisher) {
		if d > 0 {
			p.publishTimeout = d
		}
	}
}

// NewEventPublisher creates the publisher and starts its worker.
func NewEventPublisher(broker events.Broker, options ...PublisherOption) *EventPublisher {
	p := &EventPublisher{
		broker:         broker,
		queue:          make(chan queuedEvent, defaultEventQueueSize),
		publishTimeout: defaultPublishTimeout,
	}
	for _, option := range options {
		option(p)
	}
	p.deliveryCtx, p.abandon = context.WithCancel(context.Background())
	p.worker.Go(p.run)
	return p
}

var _ portssvc.EventPublisherSvc = (*EventPublisher)(nil)

// Publish never blocks: a full queue drops the event.
func (p *EventPublisher) Publish(ctx context.Context, event domain.TransactionEvent) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.LogWarn(ctx, nil, "Event publisher is shut down, dropping event",
			slog.String("transaction_id", event.TransactionID))
		return false
	}

	select {
	case p.queue <- queuedEvent{event: event, logger: p.GetLogger(ctx)}:
		return true
	default:
		p.LogWarn(ctx, nil, "Event queue full, dropping event",
			slog.String("transaction_id", event.TransactionID),
			slog.Int("queue_capacity", cap(p.queue)))
		return false
	}
}

// Shutdown stops intake and waits for queued events to be delivered. If ctx
// ends first, the in-flight delivery is cancelled and the remaining events are
// dropped so the broker can be closed safely.
func (p *EventPublisher) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPublisherClosed
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.worker.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.abandon()
		return nil
	case <-ctx.Done():
		pending := len(p.queue)
		p.abandon()
		return fmt.Errorf("event queue not drained, %d events pending: %w", pending, ctx.Err())
	}
}

func (p *EventPublisher) run() {
	for qe := range p.queue {
		if p.deliveryCtx.Err() != nil {
			dropped := 1
			for range p.queue {
				dropped++
			}
			qe.logger.Warn("Event publisher shut down before the queue drained",
				slog.Int("dropped_events", dropped))
			return
		}
		var pc panics.Catcher
		pc.Try(func() { p.deliver(qe) })
		if r := pc.Recovered(); r != nil {
			qe.logger.Error("Panic while publishing transaction event",
				slog.String("transaction_id", qe.event.TransactionID),
				slog.String("panic", r.String()))
		}
	}
}

func (p *EventPublisher) deliver(qe queuedEvent) {
	ctx, cancel := context.WithTimeout(middleware.WithLogger(p.deliveryCtx, qe.logger), p.publishTimeout)
	defer cancel()

	body, err := json.Marshal(qe.event)
	if err != nil {
		p.LogError(ctx, err, "Failed to encode transaction event",
			slog.String("transaction_id", qe.event.TransactionID))
		return
	}

	msg := events.Message{
		RoutingKey:  qe.event.RoutingKey(),
		MessageID:   qe.event.TransactionID,
		ContentType: "application/json",
		Body:        body,
	}
	if err := p.broker.Publish(ctx, msg); err != nil {
		p.LogError(ctx, err, "Failed to publish transaction event",
			slog.String("transaction_id", qe.event.TransactionID),
			slog.String("routing_key", msg.RoutingKey))
		return
	}
	p.LogDebug(ctx, "Transaction event published",
		slog.String("transaction_id", qe.event.TransactionID),
		slog.String("routing_key", msg.RoutingKey))
}

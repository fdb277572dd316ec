package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(id string) domain.TransactionEvent {
	return domain.TransactionEvent{
		TransactionID: id,
		AccountID:     "acc-1",
		Type:          domain.Credit,
		Amount:        money("1.00"),
		NewBalance:    money("2.00"),
		OccurredAt:    time.Now().UTC(),
		Recipient:     domain.Contact{FullName: "A", Email: "a@example.com"},
	}
}

func TestEventPublisher_DeliversQueuedEvents(t *testing.T) {
	broker := &recordingBroker{}
	pub := services.NewEventPublisher(broker, services.WithQueueSize(8))

	assert.True(t, pub.Publish(context.Background(), testEvent("t1")))
	assert.True(t, pub.Publish(context.Background(), testEvent("t2")))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, pub.Shutdown(ctx))

	msgs := broker.published()
	require.Len(t, msgs, 2)
	assert.Equal(t, "t1", msgs[0].MessageID)
	assert.Equal(t, "application/json", msgs[0].ContentType)
	assert.Equal(t, "transactions.credit", msgs[0].RoutingKey)
}

func TestEventPublisher_FullQueueDropsWithoutBlocking(t *testing.T) {
	broker := &recordingBroker{block: make(chan struct{})}
	pub := services.NewEventPublisher(broker, services.WithQueueSize(1))

	accepted := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			if pub.Publish(context.Background(), testEvent("t")) {
				accepted++
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
	// One event may be held by the worker and one by the buffer.
	assert.LessOrEqual(t, accepted, 2)
	assert.GreaterOrEqual(t, accepted, 1)

	close(broker.block)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, pub.Shutdown(ctx))
}

func TestEventPublisher_BrokerErrorsAreSwallowed(t *testing.T) {
	broker := &recordingBroker{err: errors.New("broker down")}
	pub := services.NewEventPublisher(broker)

	assert.True(t, pub.Publish(context.Background(), testEvent("t1")))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, pub.Shutdown(ctx))
	assert.Empty(t, broker.published())
}

func TestEventPublisher_RejectsAfterShutdown(t *testing.T) {
	pub := services.NewEventPublisher(&recordingBroker{})
	require.NoError(t, pub.Shutdown(context.Background()))

	assert.False(t, pub.Publish(context.Background(), testEvent("late")))
	assert.ErrorIs(t, pub.Shutdown(context.Background()), services.ErrPublisherClosed)
}

func TestEventPublisher_ShutdownTimeoutDropsPendingEvents(t *testing.T) {
	broker := &recordingBroker{block: make(chan struct{})}
	pub := services.NewEventPublisher(broker, services.WithQueueSize(8), services.WithPublishTimeout(time.Minute))

	for _, id := range []string{"t1", "t2", "t3"} {
		require.True(t, pub.Publish(context.Background(), testEvent(id)))
	}
	require.Eventually(t, func() bool { return broker.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := pub.Shutdown(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "2 events pending")

	// Unblock the broker; the events still queued must not reach it.
	close(broker.block)
	assert.Never(t, func() bool { return broker.calls.Load() > 1 }, 100*time.Millisecond, 10*time.Millisecond)
	for _, msg := range broker.published() {
		assert.Equal(t, "t1", msg.MessageID)
	}
}

package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/balance_ledger/internal/adapters/database/memory"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/core/ports/events"
	"github.com/shopspring/decimal"
)

// countingAccountRepo wraps the in-memory store and counts calls. A pinned
// snapshot is returned by the next read instead of the stored account.
type countingAccountRepo struct {
	*memory.AccountRepository
	reads  atomic.Int64
	writes atomic.Int64

	mu     sync.Mutex
	pinned  map[string]domain.Account
	casErr  error
	readErr error
}

func newCountingAccountRepo() *countingAccountRepo {
	return &countingAccountRepo{
		AccountRepository: memory.NewAccountRepository(),
		pinned:            make(map[string]domain.Account),
	}
}

func (r *countingAccountRepo) pin(acc domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pinned[acc.AccountID] = acc
}

func (r *countingAccountRepo) failWrites(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.casErr = err
}

func (r *countingAccountRepo) failReads(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readErr = err
}

func (r *countingAccountRepo) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	r.reads.Add(1)
	r.mu.Lock()
	if r.readErr != nil {
		err := r.readErr
		r.mu.Unlock()
		return nil, err
	}
	if acc, ok := r.pinned[accountID]; ok {
		delete(r.pinned, accountID)
		r.mu.Unlock()
		return &acc, nil
	}
	r.mu.Unlock()
	return r.AccountRepository.FindAccountByID(ctx, accountID)
}

func (r *countingAccountRepo) CompareAndSetBalance(ctx context.Context, accountID string, expectedVersion int64, newBalance decimal.Decimal, newVersion int64, updatedAt time.Time) error {
	r.writes.Add(1)
	r.mu.Lock()
	casErr := r.casErr
	r.mu.Unlock()
	if casErr != nil {
		return casErr
	}
	return r.AccountRepository.CompareAndSetBalance(ctx, accountID, expectedVersion, newBalance, newVersion, updatedAt)
}

// recordingBroker keeps every published message.
type recordingBroker struct {
	mu       sync.Mutex
	messages []events.Message
	err      error
	block    chan struct{}
	calls    atomic.Int64
}

func (b *recordingBroker) Publish(ctx context.Context, msg events.Message) error {
	b.calls.Add(1)
	if b.block != nil {
		select {
		case <-b.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.messages = append(b.messages, msg)
	return nil
}

func (b *recordingBroker) Close() error { return nil }

func (b *recordingBroker) published() []events.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]events.Message, len(b.messages))
	copy(out, b.messages)
	return out
}

// failingLedger rejects every append.
type failingLedger struct{}

func (failingLedger) Append(context.Context, domain.TransactionRecord) error {
	return errors.New("ledger unavailable")
}

// panickingLedger panics on every append.
type panickingLedger struct{}

func (panickingLedger) Append(context.Context, domain.TransactionRecord) error {
	panic("ledger exploded")
}

// rejectingPublisher never accepts events.
type rejectingPublisher struct{}

func (rejectingPublisher) Publish(context.Context, domain.TransactionEvent) bool { return false }
func (rejectingPublisher) Shutdown(context.Context) error                        { return nil }

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

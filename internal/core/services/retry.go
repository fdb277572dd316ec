package services

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
)

const maxConflictBackoff = 2 * time.Second

// ConflictRetrier re-issues a mutation that lost the compare-and-set race.
// Only Conflict is retried: every other failure, including a write whose
// outcome is unknown, is returned to the caller unchanged.
type ConflictRetrier struct {
	BaseService
	next      portssvc.BalanceMutatorSvc
	attempts  int
	baseDelay time.Duration
}

// NewConflictRetrier wraps next. With attempts <= 0 it returns next unchanged.
func NewConflictRetrier(next portssvc.BalanceMutatorSvc, attempts int, baseDelay time.Duration) portssvc.BalanceMutatorSvc {
	if attempts <= 0 {
		return next
	}
	if baseDelay <= 0 {
		baseDelay = 10 * time.Millisecond
	}
	return &ConflictRetrier{next: next, attempts: attempts, baseDelay: baseDelay}
}

func (r *ConflictRetrier) Apply(ctx context.Context, req domain.TransactionRequest) (*domain.MutationResult, error) {
	for attempt := 0; ; attempt++ {
		res, err := r.next.Apply(ctx, req)
		if err == nil || apperrors.KindOf(err) != apperrors.KindConflict || attempt >= r.attempts {
			return res, err
		}

		delay := r.backoff(attempt)
		r.LogDebug(ctx, "Retrying after conflict",
			slog.String("account_id", req.AccountID),
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, err
		case <-timer.C:
		}
	}
}

// backoff is exponential with full jitter on top of the base step.
func (r *ConflictRetrier) backoff(attempt int) time.Duration {
	d := r.baseDelay << attempt
	if d <= 0 || d > maxConflictBackoff {
		d = maxConflictBackoff
	}
	return d + time.Duration(rand.Int63n(int64(r.baseDelay)))
}

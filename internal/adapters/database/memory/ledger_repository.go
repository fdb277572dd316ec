package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
)

// LedgerRepository is an append-only in-process ledger.
type LedgerRepository struct {
	mu        sync.RWMutex
	entries   []domain.TransactionRecord
	byAccount map[string][]int
	seen      map[string]struct{}
}

// NewLedgerRepository creates an empty in-memory ledger.
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		byAccount: make(map[string][]int),
		seen:      make(map[string]struct{}),
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*LedgerRepository)(nil)

func (r *LedgerRepository) AppendTransaction(ctx context.Context, record domain.TransactionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.seen[record.TransactionID]; dup {
		return fmt.Errorf("%w: transaction %s already recorded", apperrors.ErrDuplicate, record.TransactionID)
	}
	record.Sequence = int64(len(r.entries) + 1)
	r.entries = append(r.entries, record)
	r.byAccount[record.AccountID] = append(r.byAccount[record.AccountID], len(r.entries)-1)
	r.seen[record.TransactionID] = struct{}{}
	return nil
}

func (r *LedgerRepository) ListTransactionsByAccount(ctx context.Context, accountID string, afterSeq int64, limit int) ([]domain.TransactionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.TransactionRecord, 0)
	for _, i := range r.byAccount[accountID] {
		if r.entries[i].Sequence <= afterSeq {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, r.entries[i])
	}
	return out, nil
}

// Len returns the number of stored entries across all accounts.
func (r *LedgerRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

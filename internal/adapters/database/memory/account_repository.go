package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// AccountRepository is an in-process account store. The mutex makes
// CompareAndSetBalance atomic with respect to every other call.
type AccountRepository struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
}

// NewAccountRepository creates an empty in-memory account store.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]domain.Account)}
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	r.accounts[account.AccountID] = account
	return nil
}

func (r *AccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (r *AccountRepository) ListAccountIDs(ctx context.Context, limit int, offset int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	ids := make([]string, 0, len(r.accounts))
	for id := range r.accounts {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	sort.Strings(ids)
	if offset >= len(ids) {
		return []string{}, nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *AccountRepository) CompareAndSetBalance(ctx context.Context, accountID string, expectedVersion int64, newBalance decimal.Decimal, newVersion int64, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if acc.Version != expectedVersion {
		return portsrepo.ErrVersionMismatch
	}
	if newBalance.IsNegative() {
		return fmt.Errorf("balance for account %s would be negative", accountID)
	}
	acc.Balance = newBalance
	acc.Version = newVersion
	acc.LastUpdatedAt = updatedAt
	r.accounts[accountID] = acc
	return nil
}

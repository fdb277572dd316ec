package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrVersionMismatch is returned by CompareAndSetBalance when the stored
// version no longer equals the expected version.
var ErrVersionMismatch = errors.New("account version mismatch")

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID returns the current balance, version and contact details.
	// Returns apperrors.ErrNotFound when the account does not exist.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccountIDs returns account IDs in a stable order.
	ListAccountIDs(ctx context.Context, limit int, offset int) ([]string, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountBalanceWriter is the conditional balance write.
type AccountBalanceWriter interface {
	// CompareAndSetBalance atomically sets balance and version only if the
	// stored version equals expectedVersion. Returns ErrVersionMismatch
	// otherwise, or apperrors.ErrNotFound when the account is gone.
	CompareAndSetBalance(ctx context.Context, accountID string, expectedVersion int64, newBalance decimal.Decimal, newVersion int64, updatedAt time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceWriter
}

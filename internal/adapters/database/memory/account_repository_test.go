package memory

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()
	acc := domain.Account{AccountID: "a", FullName: "A", Balance: decimal.NewFromInt(5)}

	require.NoError(t, repo.SaveAccount(ctx, acc))
	assert.ErrorIs(t, repo.SaveAccount(ctx, acc), apperrors.ErrDuplicate)

	got, err := repo.FindAccountByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", got.FullName)

	// Returned accounts are copies.
	got.Balance = decimal.NewFromInt(100)
	again, err := repo.FindAccountByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(decimal.NewFromInt(5)))

	_, err = repo.FindAccountByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAccountRepository_CompareAndSetBalance(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()
	require.NoError(t, repo.SaveAccount(ctx, domain.Account{AccountID: "a", Balance: decimal.NewFromInt(5)}))
	now := time.Now().UTC()

	require.NoError(t, repo.CompareAndSetBalance(ctx, "a", 0, decimal.NewFromInt(7), 1, now))
	assert.ErrorIs(t, repo.CompareAndSetBalance(ctx, "a", 0, decimal.NewFromInt(9), 1, now), portsrepo.ErrVersionMismatch)
	assert.Error(t, repo.CompareAndSetBalance(ctx, "a", 1, decimal.NewFromInt(-1), 2, now))
	assert.ErrorIs(t, repo.CompareAndSetBalance(ctx, "missing", 0, decimal.NewFromInt(1), 1, now), apperrors.ErrNotFound)

	got, err := repo.FindAccountByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, now, got.LastUpdatedAt)
}

func TestAccountRepository_ListAccountIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.SaveAccount(ctx, domain.Account{AccountID: id}))
	}

	all, err := repo.ListAccountIDs(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, all)

	page, err := repo.ListAccountIDs(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, page)

	empty, err := repo.ListAccountIDs(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAccountRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := NewAccountRepository()
	assert.ErrorIs(t, repo.SaveAccount(ctx, domain.Account{AccountID: "a"}), context.Canceled)
	_, err := repo.FindAccountByID(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}

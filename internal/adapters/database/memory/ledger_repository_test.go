package memory

import (
	"context"
	"testing"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepository_AppendAndPage(t *testing.T) {
	ctx := context.Background()
	repo := NewLedgerRepository()

	for _, rec := range []domain.TransactionRecord{
		{TransactionID: "t1", AccountID: "a", Version: 1},
		{TransactionID: "t2", AccountID: "b", Version: 1},
		{TransactionID: "t3", AccountID: "a", Version: 2},
		{TransactionID: "t4", AccountID: "a", Version: 3},
	} {
		require.NoError(t, repo.AppendTransaction(ctx, rec))
	}
	assert.ErrorIs(t, repo.AppendTransaction(ctx, domain.TransactionRecord{TransactionID: "t1", AccountID: "a"}), apperrors.ErrDuplicate)
	assert.Equal(t, 4, repo.Len())

	all, err := repo.ListTransactionsByAccount(ctx, "a", 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].Sequence)
	assert.Equal(t, int64(3), all[1].Sequence)

	page, err := repo.ListTransactionsByAccount(ctx, "a", all[0].Sequence, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "t3", page[0].TransactionID)

	none, err := repo.ListTransactionsByAccount(ctx, "missing", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

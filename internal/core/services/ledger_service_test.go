package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/balance_ledger/internal/adapters/database/memory"
	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord(id string) domain.TransactionRecord {
	return domain.TransactionRecord{
		TransactionID:    id,
		AccountID:        "acc-1",
		Type:             domain.Credit,
		Amount:           money("10.00"),
		ResultingBalance: money("10.00"),
		Version:          1,
		OccurredAt:       time.Now().UTC(),
	}
}

func TestLedgerService_AppendIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLedgerRepository()
	svc := services.NewLedgerService(repo)

	require.NoError(t, svc.Append(ctx, validRecord("txn-1")))
	require.NoError(t, svc.Append(ctx, validRecord("txn-1")))

	assert.Equal(t, 1, repo.Len())
}

func TestLedgerService_AppendValidation(t *testing.T) {
	svc := services.NewLedgerService(memory.NewLedgerRepository())

	mutate := []struct {
		name string
		edit func(*domain.TransactionRecord)
	}{
		{name: "missing id", edit: func(r *domain.TransactionRecord) { r.TransactionID = "" }},
		{name: "missing account", edit: func(r *domain.TransactionRecord) { r.AccountID = "" }},
		{name: "bad type", edit: func(r *domain.TransactionRecord) { r.Type = "REFUND" }},
		{name: "zero amount", edit: func(r *domain.TransactionRecord) { r.Amount = money("0") }},
		{name: "negative balance", edit: func(r *domain.TransactionRecord) { r.ResultingBalance = money("-0.01") }},
		{name: "no timestamp", edit: func(r *domain.TransactionRecord) { r.OccurredAt = time.Time{} }},
	}
	for _, tt := range mutate {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord("txn")
			tt.edit(&rec)
			assert.ErrorIs(t, svc.Append(context.Background(), rec), apperrors.ErrValidation)
		})
	}
}

func TestLedgerService_ListInAppendOrder(t *testing.T) {
	ctx := context.Background()
	svc := services.NewLedgerService(memory.NewLedgerRepository())
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, svc.Append(ctx, validRecord(id)))
	}

	recs, err := svc.ListTransactionsByAccount(ctx, "acc-1", 0, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].TransactionID)
	assert.Equal(t, "b", recs[1].TransactionID)
	assert.Less(t, recs[0].Sequence, recs[1].Sequence)

	rest, err := svc.ListTransactionsByAccount(ctx, "acc-1", recs[1].Sequence, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "c", rest[0].TransactionID)

	_, err = svc.ListTransactionsByAccount(ctx, "", 0, 10)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = svc.ListTransactionsByAccount(ctx, "acc-1", -1, 10)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

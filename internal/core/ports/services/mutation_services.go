package services

import (
	"context"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
)

// BalanceMutatorSvc applies a single credit or debit with optimistic concurrency.
type BalanceMutatorSvc interface {
	// Apply validates the request, performs one conditional balance write and
	// triggers the ledger append and event publish. Post-commit failures are
	// reported as warnings on the result, never as an error.
	Apply(ctx context.Context, req domain.TransactionRequest) (*domain.MutationResult, error)
}

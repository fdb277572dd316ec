package services

import (
	"context"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
)

// StatementSvc builds read-side views from the account store and the ledger.
type StatementSvc interface {
	// GetStatement returns the account snapshot with up to limit ledger entries.
	GetStatement(ctx context.Context, accountID string, limit int) (*domain.Statement, error)

	// Reconcile replays the ledger and compares it with the live balance.
	Reconcile(ctx context.Context, accountID string) (*domain.ReconciliationReport, error)

	// ReconcileAll reconciles every account, batchSize accounts at a time.
	ReconcileAll(ctx context.Context, batchSize int) (*domain.ReconciliationSummary, error)
}

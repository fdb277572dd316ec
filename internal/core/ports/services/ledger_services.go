package services

import (
	"context"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
)

// LedgerAppenderSvc records committed transactions.
type LedgerAppenderSvc interface {
	// Append stores the record. Appending an already stored transaction ID succeeds.
	Append(ctx context.Context, record domain.TransactionRecord) error
}

// LedgerReaderSvc defines read operations on the ledger
type LedgerReaderSvc interface {
	// ListTransactionsByAccount pages through an account's entries in append order.
	ListTransactionsByAccount(ctx context.Context, accountID string, afterSeq int64, limit int) ([]domain.TransactionRecord, error)
}

// LedgerSvcFacade combines ledger read and write operations
type LedgerSvcFacade interface {
	LedgerAppenderSvc
	LedgerReaderSvc
}

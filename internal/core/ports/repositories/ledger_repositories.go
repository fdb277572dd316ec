package repositories

import (
	"context"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
)

// LedgerWriter is the append-only side of the ledger.
type LedgerWriter interface {
	// AppendTransaction stores one record. A record whose TransactionID is
	// already stored yields apperrors.ErrDuplicate.
	AppendTransaction(ctx context.Context, record domain.TransactionRecord) error
}

// LedgerReader defines read operations for ledger entries
type LedgerReader interface {
	// ListTransactionsByAccount returns up to limit entries with a sequence
	// greater than afterSeq, in append order. A limit <= 0 returns every entry.
	ListTransactionsByAccount(ctx context.Context, accountID string, afterSeq int64, limit int) ([]domain.TransactionRecord, error)
}

// LedgerRepositoryFacade combines ledger read and write operations
type LedgerRepositoryFacade interface {
	LedgerWriter
	LedgerReader
}

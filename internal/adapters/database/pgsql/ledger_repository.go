package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/balance_ledger/internal/models"
	"github.com/SscSPs/balance_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerRepository appends ledger entries to PostgreSQL.
type PgxLedgerRepository struct {
	pool *pgxpool.Pool
}

// NewPgxLedgerRepository creates a new repository for ledger entries.
func NewPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{pool: pool}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func (r *PgxLedgerRepository) AppendTransaction(ctx context.Context, record domain.TransactionRecord) error {
	entry := mapping.ToModelLedgerEntry(record)
	query := `
		INSERT INTO ledger_entries (transaction_id, account_id, transaction_type, amount, resulting_balance, account_version, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.pool.Exec(ctx, query,
		entry.TransactionID,
		entry.AccountID,
		entry.TransactionType,
		entry.Amount,
		entry.ResultingBalance,
		entry.AccountVersion,
		entry.OccurredAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: transaction %s already recorded", apperrors.ErrDuplicate, entry.TransactionID)
		}
		return fmt.Errorf("failed to append ledger entry %s: %w", entry.TransactionID, err)
	}
	return nil
}

func (r *PgxLedgerRepository) ListTransactionsByAccount(ctx context.Context, accountID string, afterSeq int64, limit int) ([]domain.TransactionRecord, error) {
	query := `
		SELECT seq, transaction_id, account_id, transaction_type, amount, resulting_balance, account_version, occurred_at
		FROM ledger_entries
		WHERE account_id = $1 AND seq > $2
		ORDER BY seq ASC
	`
	args := []any{accountID, afterSeq}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for account %s: %w", accountID, err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger entries for account %s: %w", accountID, err)
	}

	return mapping.ToDomainTransactionRecordSlice(entries), nil
}

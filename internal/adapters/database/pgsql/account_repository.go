package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/balance_ledger/internal/models"
	"github.com/SscSPs/balance_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxAccountRepository stores accounts in PostgreSQL.
type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPgxAccountRepository creates a new repository for account data.
func NewPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{pool: pool}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (account_id, full_name, email, date_of_birth, balance, opening_balance, version, notifications_enabled, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.FullName,
		modelAcc.Email,
		modelAcc.DateOfBirth,
		modelAcc.Balance,
		modelAcc.OpeningBalance,
		modelAcc.Version,
		modelAcc.NotificationsEnabled,
		modelAcc.CreatedAt,
		modelAcc.CreatedBy,
		modelAcc.LastUpdatedAt,
		modelAcc.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, modelAcc.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", modelAcc.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, full_name, email, date_of_birth, balance, opening_balance, version, notifications_enabled, created_at, created_by, last_updated_at, last_updated_by
		FROM accounts
		WHERE account_id = $1;
	`
	var modelAcc models.Account
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&modelAcc.AccountID,
		&modelAcc.FullName,
		&modelAcc.Email,
		&modelAcc.DateOfBirth,
		&modelAcc.Balance,
		&modelAcc.OpeningBalance,
		&modelAcc.Version,
		&modelAcc.NotificationsEnabled,
		&modelAcc.CreatedAt,
		&modelAcc.CreatedBy,
		&modelAcc.LastUpdatedAt,
		&modelAcc.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}

	domainAcc := mapping.ToDomainAccount(modelAcc)
	return &domainAcc, nil
}

// ListAccountIDs returns account IDs ordered by ID. A limit <= 0 returns all.
func (r *PgxAccountRepository) ListAccountIDs(ctx context.Context, limit int, offset int) ([]string, error) {
	query := `SELECT account_id FROM accounts ORDER BY account_id LIMIT $1 OFFSET $2;`
	var lim any = limit
	if limit <= 0 {
		lim = nil // LIMIT NULL returns every row
	}
	rows, err := r.pool.Query(ctx, query, lim, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list account IDs: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan account IDs: %w", err)
	}
	return ids, nil
}

// CompareAndSetBalance is a single conditional UPDATE guarded by the version
// column. Zero affected rows means either a version mismatch or a missing
// account; a follow-up existence check tells them apart.
func (r *PgxAccountRepository) CompareAndSetBalance(ctx context.Context, accountID string, expectedVersion int64, newBalance decimal.Decimal, newVersion int64, updatedAt time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $1, version = $2, last_updated_at = $3
		WHERE account_id = $4 AND version = $5;
	`
	tag, err := r.pool.Exec(ctx, query, newBalance, newVersion, updatedAt, accountID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1);`, accountID).Scan(&exists); err != nil {
		// The write did not apply either way.
		return portsrepo.ErrVersionMismatch
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return portsrepo.ErrVersionMismatch
}

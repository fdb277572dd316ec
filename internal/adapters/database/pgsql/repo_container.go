package pgsql

import (
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the PostgreSQL account store and ledger.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: NewPgxAccountRepository(dbPool),
		LedgerRepo:  NewPgxLedgerRepository(dbPool),
	}
}

package services

import (
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portssvc.EventPublisherSvc) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Ledger = NewLedgerService(repos.LedgerRepo)
	container.Publisher = publisher
	container.Statement = NewStatementService(repos.AccountRepo, repos.LedgerRepo)

	mutator := NewBalanceMutator(
		repos.AccountRepo,
		container.Ledger,
		publisher,
		WithSideEffectTimeout(cfg.SideEffectTimeout),
		WithStoreTimeout(cfg.StoreTimeout),
	)
	container.Mutator = NewConflictRetrier(mutator, cfg.ConflictRetryAttempts, cfg.ConflictRetryBaseDelay)

	return container
}

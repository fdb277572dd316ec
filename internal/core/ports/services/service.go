package services

// ServiceContainer holds instances of all the application services.
// Handlers and background jobs receive their dependencies from here.
type ServiceContainer struct {
	Account   AccountSvcFacade
	Mutator   BalanceMutatorSvc
	Ledger    LedgerSvcFacade
	Publisher EventPublisherSvc
	Statement StatementSvc
}

package services

// ServiceContainer holds all service interfaces for the application.
type ServiceContainer struct {
	Ledger        LedgerSvcFacade
	Account       AccountSvcFacade
	Limit         LimitSvcFacade
	Authorization AuthorizationSvcFacade
}

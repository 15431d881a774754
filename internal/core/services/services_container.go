package services

import (
	"fmt"

	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/card_ledger_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with all services initialized
func NewServiceContainer(repos portsrepo.RepositoryProvider, cards portssvc.CardResolver, options ...Option) (*portssvc.ServiceContainer, error) {
	limitSvc := NewLimitService(repos, options...)
	authSvc, err := NewAuthorizationService(repos, cards, limitSvc, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorization service: %w", err)
	}

	return &portssvc.ServiceContainer{
		Ledger:        NewLedgerService(repos, options...),
		Account:       NewAccountService(repos, limitSvc, options...),
		Limit:         limitSvc,
		Authorization: authSvc,
	}, nil
}

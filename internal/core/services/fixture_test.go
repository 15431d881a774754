package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/card_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/card_ledger_app/internal/core/services"
	"github.com/SscSPs/card_ledger_app/internal/dto"
	"github.com/SscSPs/card_ledger_app/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testActor = "tester"

var testStart = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// testClock is a manually advanced clock shared by all services of a fixture.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func fastRetries() services.RetryPolicy {
	return services.RetryPolicy{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond, MaxElapsedTime: time.Second}
}

// fixture wires every service against one in-memory store.
type fixture struct {
	store *memory.Store
	clock *testClock
	svc   *portssvc.ServiceContainer
}

func newFixture(t *testing.T, options ...services.Option) *fixture {
	t.Helper()
	store := memory.NewStore()
	clock := &testClock{now: testStart}
	opts := append([]services.Option{services.WithClock(clock.Now), services.WithRetryPolicy(fastRetries())}, options...)
	svc, err := services.NewServiceContainer(store.Repositories(), store, opts...)
	require.NoError(t, err)
	return &fixture{store: store, clock: clock, svc: svc}
}

func usd(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (f *fixture) newAccount(t *testing.T, businessID string, balance string) *domain.Account {
	t.Helper()
	ctx := context.Background()
	allocationID := uuid.NewString()
	acc, err := f.svc.Account.CreateAccount(ctx, dto.CreateAccountRequest{
		BusinessID:   businessID,
		AllocationID: &allocationID,
		AccountType:  domain.AccountAllocation,
		OwnerID:      uuid.NewString(),
		CurrencyCode: "USD",
	}, testActor)
	require.NoError(t, err)
	if !usd(balance).IsZero() {
		_, err = f.svc.Account.Deposit(ctx, acc.ID, dto.TransferRequest{Amount: usd(balance), CurrencyCode: "USD"}, testActor)
		require.NoError(t, err)
	}
	return acc
}

// newCard creates a funded account and an active card spending from it.
func (f *fixture) newCard(t *testing.T, balance string) *domain.Card {
	t.Helper()
	acc := f.newAccount(t, uuid.NewString(), balance)
	card := domain.Card{
		ID:           uuid.NewString(),
		CardRef:      "ic_" + uuid.NewString(),
		BusinessID:   acc.BusinessID,
		AllocationID: acc.AllocationID,
		AccountID:    acc.ID,
		Status:       domain.CardActive,
		LastFour:     "4242",
	}
	require.NoError(t, f.store.Repositories().Cards.SaveCard(context.Background(), card))
	return &card
}

func (f *fixture) available(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	acc, err := f.svc.Account.GetAccount(context.Background(), accountID)
	require.NoError(t, err)
	return acc.AvailableBalance().Value
}

func (f *fixture) ledgerBalance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	acc, err := f.svc.Account.GetAccount(context.Background(), accountID)
	require.NoError(t, err)
	return acc.LedgerBalance.Value
}

// debitEvent builds a network event spending amount at a domestic merchant.
func debitEvent(card *domain.Card, t domain.NetworkMessageType, externalRef, amount string) domain.NetworkEvent {
	return domain.NetworkEvent{
		ExternalRef: externalRef,
		Type:        t,
		CardRef:     card.CardRef,
		Amount:      domain.NewAmount("USD", usd(amount).Neg()),
		Merchant: domain.Merchant{
			Name:         "Corner Store",
			Number:       "m_123",
			CategoryCode: 5999,
			Type:         "miscellaneous_general_merchandise",
			Country:      "US",
			PostalCode:   "94107",
		},
		Verification: domain.Verification{
			CVCCheck:               domain.VerificationMatch,
			ExpiryCheck:            domain.VerificationMatch,
			AddressPostalCodeCheck: domain.VerificationNotProvided,
		},
		CreatedAt: testStart,
	}
}

func followUp(card *domain.Card, t domain.NetworkMessageType, externalRef, authorizationRef, amount string) domain.NetworkEvent {
	e := debitEvent(card, t, externalRef, amount)
	e.AuthorizationExternalRef = authorizationRef
	return e
}

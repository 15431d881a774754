package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/card_ledger_app/internal/core/ports/services"
)

// networkHandler decides one event inside a unit of work, leaving the outcome
// in c. Returning an error rolls the unit of work back.
type networkHandler func(ctx context.Context, repos portsrepo.TxRepositories, c *domain.NetworkCommon, now time.Time) error

func (s *authorizationService) handlerTable() map[domain.NetworkMessageType]networkHandler {
	return map[domain.NetworkMessageType]networkHandler{
		domain.AuthRequest:   s.handleAuthorization,
		domain.PreAuth:       s.handleAuthorization,
		domain.FinancialAuth: s.handleFinancialAuth,
		domain.AuthCreated:   s.handleInformational,
		domain.AuthUpdated:   s.handleInformational,
		domain.AuthReversal:  s.handleAuthReversal,
	}
}

// resolvePriorAuthorization records the earliest approved authorization
// sharing the event's authorization reference. Follow-up messages settle on
// the account that authorization reserved funds on.
func resolvePriorAuthorization(ctx context.Context, repos portsrepo.TxRepositories, c *domain.NetworkCommon) error {
	prior, err := repos.NetworkMessages.FindPriorAuthorization(ctx, c.Event.CardRef, c.Event.AuthorizationRef())
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find prior authorization: %w", err)
	}
	c.PriorAuthorization = prior
	return nil
}

// lockCardAccount loads and locks the account the event moves money on: the
// account of the prior authorization when there is one, otherwise the card's.
// A currency the account cannot hold declines the event and returns false.
func lockCardAccount(ctx context.Context, repos portsrepo.TxRepositories, c *domain.NetworkCommon, now time.Time) (bool, error) {
	accountID := c.Card.AccountID
	if c.PriorAuthorization != nil && c.PriorAuthorization.AccountID != "" {
		accountID = c.PriorAuthorization.AccountID
	}
	account, err := lockAccount(ctx, repos, accountID, now)
	if err != nil {
		return false, fmt.Errorf("failed to lock account %s of card %s: %w", accountID, c.Card.ID, err)
	}
	c.Account = account
	if account.Currency() != c.RequestedAmount.Currency {
		c.Decline(domain.DeclineCurrencyNotSupported)
		return false, nil
	}
	return true, nil
}

// outstandingHold finds the newest PLACED hold on the locked account among
// all messages sharing the event's authorization reference. Incremental
// authorizations and partial reversals move the live reservation onto later
// messages, so the earliest authorization's hold is not enough. It returns
// nil when no reservation is outstanding.
func outstandingHold(ctx context.Context, repos portsrepo.TxRepositories, c *domain.NetworkCommon) (*domain.Hold, error) {
	holdIDs, err := repos.NetworkMessages.ListAuthorizationHoldIDs(ctx, c.Event.CardRef, c.Event.AuthorizationRef())
	if err != nil {
		return nil, fmt.Errorf("failed to list holds of authorization %s: %w", c.Event.AuthorizationRef(), err)
	}
	var latest *domain.Hold
	for _, id := range holdIDs {
		hold, err := repos.Holds.FindHoldByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load hold %s: %w", id, err)
		}
		if hold.Status != domain.HoldPlaced || hold.AccountID != c.Account.ID {
			continue
		}
		// Ids come in message order, so a later hold wins a timestamp tie.
		if latest == nil || !hold.CreatedAt.Before(latest.CreatedAt) {
			latest = hold
		}
	}
	c.PriorHold = latest
	return latest, nil
}

func verificationDeclines(v domain.Verification) []domain.DeclineReason {
	var reasons []domain.DeclineReason
	if v.CVCCheck == domain.VerificationMismatch {
		reasons = append(reasons, domain.DeclineCVCMismatch)
	}
	if v.ExpiryCheck == domain.VerificationMismatch {
		reasons = append(reasons, domain.DeclineExpiryMismatch)
	}
	if v.AddressPostalCodeCheck == domain.VerificationMismatch {
		reasons = append(reasons, domain.DeclinePostalCodeMismatch)
	}
	return reasons
}

// handleAuthorization decides AUTH_REQUEST and PRE_AUTH. Checks run in a
// fixed order and every failing check contributes its reason.
func (s *authorizationService) handleAuthorization(ctx context.Context, repos portsrepo.TxRepositories, c *domain.NetworkCommon, now time.Time) error {
	incremental := c.Event.AuthorizationExternalRef != "" && c.Event.AuthorizationExternalRef != c.Event.ExternalRef
	if incremental {
		if err := resolvePriorAuthorization(ctx, repos, c); err != nil {
			return err
		}
	}
	ok, err := lockCardAccount(ctx, repos, c, now)
	if err != nil || !ok {
		return err
	}
	account := c.Account

	if c.Card.Status != domain.CardActive {
		c.Decline(domain.DeclineInvalidCardStatus)
	}
	if reasons := verificationDeclines(c.Event.Verification); len(reasons) > 0 {
		c.Decline(reasons...)
	}

	if c.CreditOrDebit == domain.Credit || c.RequestedAmount.IsZero() {
		if !c.PostDecline {
			c.ApprovedAmount = c.RequestedAmount
		}
		return nil
	}

	// An incremental authorization replaces the outstanding reservation, so
	// its funds count as available for the new amount.
	var replaced *domain.Hold
	if incremental {
		replaced, err = outstandingHold(ctx, repos, c)
		if err != nil {
			return err
		}
		if replaced != nil {
			account.DropHold(replaced.ID)
		}
	}

	proposed := c.RequestedAmount
	if replaced != nil {
		if proposed, err = proposed.Sub(replaced.Amount.Abs()); err != nil {
			return err
		}
	}
	var spend portssvc.SpendCheckResult
	if proposed.IsPositive() {
		spend, err = s.limits.CheckCardSpend(ctx, repos, portssvc.SpendCheck{
			Card:     c.Card,
			Amount:   proposed.Negate(),
			Merchant: c.Event.Merchant,
			Foreign:  s.isForeign(c.Event.Merchant),
			Now:      now,
		})
		if err != nil {
			return err
		}
	}
	for _, r := range spend.DeclineReasons {
		if r != domain.DeclineLimitExceeded {
			c.Decline(r)
		}
	}

	c.ApplyHoldPolicy(now)
	available := account.AvailableBalance()
	switch {
	case !available.Value.LessThan(c.HoldAmount.Value):
		c.ApprovedAmount = c.RequestedAmount
	case c.AllowPartialApproval && available.IsPositive():
		partial, err := available.Min(c.RequestedAmount)
		if err != nil {
			return err
		}
		c.ApprovedAmount = partial
		c.HoldAmount = partial
	default:
		c.Decline(domain.DeclineInsufficientFunds)
	}

	if spend.Violation != nil {
		c.Decline(domain.DeclineLimitExceeded)
	}
	if c.PostDecline {
		// Clears any amount the balance step approved.
		c.Decline()
		return nil
	}

	if replaced != nil {
		if err := settleHold(ctx, repos, account, replaced, domain.HoldReleased, domain.SystemActor, now); err != nil {
			return err
		}
	}
	hold, err := placeHold(ctx, repos, account, &c.Card.ID, c.HoldAmount, c.HoldExpiration, now)
	if errors.Is(err, apperrors.ErrInsufficientFunds) {
		c.Decline(domain.DeclineInsufficientFunds)
		return nil
	}
	if err != nil {
		return err
	}
	c.Hold = hold
	c.PostHold = true
	return nil
}

// handleFinancialAuth settles card activity. Settlement is never declined for
// balance or limits because the merchant already has the funds.
func (s *authorizationService) handleFinancialAuth(ctx context.Context, repos portsrepo.TxRepositories, c *domain.NetworkCommon, now time.Time) error {
	if c.CreditOrDebit == domain.Debit {
		if err := resolvePriorAuthorization(ctx, repos, c); err != nil {
			return err
		}
	}
	ok, err := lockCardAccount(ctx, repos, c, now)
	if err != nil || !ok {
		return err
	}

	if c.CreditOrDebit == domain.Credit {
		if c.RequestedAmount.IsZero() {
			c.ApprovedAmount = c.RequestedAmount
			return nil
		}
		adj, err := postAgainstSystem(ctx, repos, c.Account, domain.LedgerAccountNetwork, domain.AdjustmentNetworkRefund, c.RequestedAmount, &c.Card.ID, domain.SystemActor, now)
		if err != nil {
			return err
		}
		c.Adjustment = adj
		c.PostAdjustment = true
		c.ApprovedAmount = c.RequestedAmount
		return nil
	}

	hold, err := outstandingHold(ctx, repos, c)
	if err != nil {
		return err
	}
	if hold != nil {
		if err := settleHold(ctx, repos, c.Account, hold, domain.HoldCaptured, domain.SystemActor, now); err != nil {
			return err
		}
		c.Hold = hold
	} else {
		s.LogInfo(ctx, "No outstanding hold for settlement, posting direct debit",
			slog.String("authorization_ref", c.Event.AuthorizationRef()))
	}

	c.ApprovedAmount = c.RequestedAmount
	if c.RequestedAmount.IsZero() {
		return nil
	}
	adj, err := postAgainstSystem(ctx, repos, c.Account, domain.LedgerAccountNetwork, domain.AdjustmentNetworkCapture, c.RequestedAmount.Negate(), &c.Card.ID, domain.SystemActor, now)
	if err != nil {
		return err
	}
	c.Adjustment = adj
	c.PostAdjustment = true
	return nil
}

// handleAuthReversal releases the reservation of the prior authorization. A
// partial reversal keeps the remainder reserved until the original expiry.
func (s *authorizationService) handleAuthReversal(ctx context.Context, repos portsrepo.TxRepositories, c *domain.NetworkCommon, now time.Time) error {
	if err := resolvePriorAuthorization(ctx, repos, c); err != nil {
		return err
	}
	ok, err := lockCardAccount(ctx, repos, c, now)
	if err != nil || !ok {
		return err
	}
	c.ApprovedAmount = c.RequestedAmount

	hold, err := outstandingHold(ctx, repos, c)
	if err != nil || hold == nil {
		return err
	}
	if err := settleHold(ctx, repos, c.Account, hold, domain.HoldReleased, domain.SystemActor, now); err != nil {
		return err
	}

	remainder, err := hold.Amount.Abs().Sub(c.RequestedAmount)
	if err != nil {
		return err
	}
	if !remainder.IsPositive() || !hold.ExpirationDate.After(now) {
		return nil
	}
	rest, err := placeHold(ctx, repos, c.Account, hold.CardID, remainder, hold.ExpirationDate, now)
	if err != nil {
		return err
	}
	c.Hold = rest
	c.PostHold = true
	return nil
}

// handleInformational records AUTH_CREATED and AUTH_UPDATED without touching
// the ledger. The response repeats the latest authorization decision.
func (s *authorizationService) handleInformational(ctx context.Context, repos portsrepo.TxRepositories, c *domain.NetworkCommon, _ time.Time) error {
	latest, err := repos.NetworkMessages.FindLatestAuthorization(ctx, c.Event.CardRef, c.Event.AuthorizationRef())
	if errors.Is(err, apperrors.ErrNotFound) {
		c.ApprovedAmount = c.RequestedAmount
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find authorization: %w", err)
	}
	c.PriorAuthorization = latest
	if !latest.Approved {
		c.Decline(latest.DeclineReasons...)
		return nil
	}
	c.ApprovedAmount = latest.ApprovedAmount
	return nil
}

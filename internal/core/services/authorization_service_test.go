package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/SscSPs/card_ledger_app/internal/core/services"
	"github.com/SscSPs/card_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

type AuthorizationServiceTestSuite struct {
	suite.Suite
	f   *fixture
	ctx context.Context
}

func TestAuthorizationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthorizationServiceTestSuite))
}

func (suite *AuthorizationServiceTestSuite) SetupTest() {
	suite.f = newFixture(suite.T())
	suite.ctx = context.Background()
}

func (suite *AuthorizationServiceTestSuite) process(event domain.NetworkEvent) *domain.AuthorizationResponse {
	resp, err := suite.f.svc.Authorization.ProcessNetworkEvent(suite.ctx, event)
	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	return resp
}

func (suite *AuthorizationServiceTestSuite) assertReconciled(accountID string) {
	rec, err := suite.f.svc.Account.Reconcile(suite.ctx, accountID)
	suite.Require().NoError(err)
	suite.True(rec.Balanced, "ledger %s, adjustments %s, postings %s", rec.LedgerBalance, rec.AdjustmentTotal, rec.PostingTotal)
}

func (suite *AuthorizationServiceTestSuite) TestFullApprovalPlacesHold() {
	card := suite.f.newCard(suite.T(), "100")

	resp := suite.process(debitEvent(card, domain.AuthRequest, "auth-1", "40"))

	suite.True(resp.Approved)
	suite.True(resp.ApprovedAmount.Value.Equal(usd("40")))
	suite.Equal(card.ID, resp.CardID)
	suite.Equal(card.AccountID, resp.AccountID)
	suite.Empty(resp.DeclineReasons)
	suite.True(suite.f.available(suite.T(), card.AccountID).Equal(usd("60")))
	suite.True(suite.f.ledgerBalance(suite.T(), card.AccountID).Equal(usd("100")), "a hold never moves the ledger balance")
}

func (suite *AuthorizationServiceTestSuite) TestConcurrentAuthorizationsCannotOverspend() {
	card := suite.f.newCard(suite.T(), "100")

	results := make([]*domain.AuthorizationResponse, 2)
	var g errgroup.Group
	for i, ref := range []string{"auth-a", "auth-b"} {
		g.Go(func() error {
			resp, err := suite.f.svc.Authorization.ProcessNetworkEvent(suite.ctx, debitEvent(card, domain.AuthRequest, ref, "80"))
			results[i] = resp
			return err
		})
	}
	suite.Require().NoError(g.Wait())

	approved := 0
	for _, r := range results {
		if r.Approved {
			approved++
		} else {
			suite.Equal([]domain.DeclineReason{domain.DeclineInsufficientFunds}, r.DeclineReasons)
		}
	}
	suite.Equal(1, approved)
	suite.True(suite.f.available(suite.T(), card.AccountID).Equal(usd("20")))
}

func (suite *AuthorizationServiceTestSuite) TestPartialApproval() {
	card := suite.f.newCard(suite.T(), "100")
	event := debitEvent(card, domain.AuthRequest, "auth-1", "150")
	event.IsAmountControllable = true

	resp := suite.process(event)

	suite.True(resp.Approved)
	suite.True(resp.ApprovedAmount.Value.Equal(usd("100")))
	suite.True(suite.f.available(suite.T(), card.AccountID).IsZero())
}

func (suite *AuthorizationServiceTestSuite) TestDeclineWhenPartialNotAllowed() {
	card := suite.f.newCard(suite.T(), "100")

	resp := suite.process(debitEvent(card, domain.AuthRequest, "auth-1", "150"))

	suite.False(resp.Approved)
	suite.True(resp.ApprovedAmount.IsZero())
	suite.Equal([]domain.DeclineReason{domain.DeclineInsufficientFunds}, resp.DeclineReasons)
	suite.True(suite.f.available(suite.T(), card.AccountID).Equal(usd("100")))
}

func (suite *AuthorizationServiceTestSuite) TestMerchantPadding() {
	card := suite.f.newCard(suite.T(), "100")
	event := debitEvent(card, domain.AuthRequest, "auth-1", "80")
	event.Merchant.Type = domain.MerchantRestaurants

	resp := suite.process(event)

	suite.True(resp.Approved)
	suite.True(resp.ApprovedAmount.Value.Equal(usd("80")), "padding never changes the approved amount")
	suite.True(suite.f.available(suite.T(), card.AccountID).Equal(usd("4")), "80 * 1.20 is reserved")
}

func (suite *AuthorizationServiceTestSuite) TestFuelUsesFixedHoldWithoutPartialApproval() {
	card := suite.f.newCard(suite.T(), "50")
	event := debitEvent(card, domain.AuthRequest, "auth-1", "30")
	event.Merchant.Type = domain.MerchantAutomatedFuelDispensers
	event.IsAmountControllable = true

	resp := suite.process(event)

	suite.False(resp.Approved)
	suite.Equal([]domain.DeclineReason{domain.DeclineInsufficientFunds}, resp.DeclineReasons)
}

func (suite *AuthorizationServiceTestSuite) TestCardStatusAndVerificationDeclinesInOrder() {
	card := suite.f.newCard(suite.T(), "100")
	card.Status = domain.CardInactive
	suite.Require().NoError(suite.f.store.Repositories().Cards.SaveCard(suite.ctx, *card))
	event := debitEvent(card, domain.AuthRequest, "auth-1", "10")
	event.Verification.CVCCheck = domain.VerificationMismatch
	event.Verification.AddressPostalCodeCheck = domain.VerificationMismatch

	resp := suite.process(event)

	suite.False(resp.Approved)
	suite.Equal([]domain.DeclineReason{
		domain.DeclineInvalidCardStatus,
		domain.DeclineCVCMismatch,
		domain.DeclinePostalCodeMismatch,
	}, resp.DeclineReasons)
}

func (suite *AuthorizationServiceTestSuite) TestSpendControls() {
	card := suite.f.newCard(suite.T(), "100")
	_, err := suite.f.svc.Limit.SetTransactionLimit(suite.ctx, dto.SetTransactionLimitRequest{
		BusinessID:                    card.BusinessID,
		OwnerType:                     domain.LimitOwnerCard,
		OwnerID:                       card.ID,
		DisabledMerchantCategoryCodes: []int{7995},
		DisableForeign:                true,
	}, testActor)
	suite.Require().NoError(err)

	gambling := debitEvent(card, domain.AuthRequest, "auth-1", "10")
	gambling.Merchant.CategoryCode = 7995
	resp := suite.process(gambling)
	suite.Equal([]domain.DeclineReason{domain.DeclineSpendControl}, resp.DeclineReasons)

	abroad := debitEvent(card, domain.AuthRequest, "auth-2", "10")
	abroad.Merchant.Country = "FR"
	resp = suite.process(abroad)
	suite.Equal([]domain.DeclineReason{domain.DeclineForeignNotAllowed}, resp.DeclineReasons)
}

func (suite *AuthorizationServiceTestSuite) TestLimitBoundaryCountsHolds() {
	card := suite.f.newCard(suite.T(), "1000")
	_, err := suite.f.svc.Limit.SetTransactionLimit(suite.ctx, dto.SetTransactionLimitRequest{
		BusinessID: card.BusinessID,
		OwnerType:  domain.LimitOwnerCard,
		OwnerID:    card.ID,
		Ceilings: []dto.LimitCeiling{
			{CurrencyCode: "USD", LimitType: domain.LimitPurchase, Period: domain.LimitDaily, Amount: usd("50")},
		},
	}, testActor)
	suite.Require().NoError(err)

	resp := suite.process(debitEvent(card, domain.AuthRequest, "auth-1", "30"))
	suite.True(resp.Approved)

	suite.f.clock.Advance(time.Minute)
	resp = suite.process(debitEvent(card, domain.AuthRequest, "auth-2", "20"))
	suite.True(resp.Approved, "reaching the ceiling exactly is allowed")

	suite.f.clock.Advance(time.Minute)
	resp = suite.process(debitEvent(card, domain.AuthRequest, "auth-3", "0.01"))
	suite.False(resp.Approved)
	suite.Equal([]domain.DeclineReason{domain.DeclineLimitExceeded}, resp.DeclineReasons)
}

func (suite *AuthorizationServiceTestSuite) TestIdempotentReplay() {
	card := suite.f.newCard(suite.T(), "100")
	event := debitEvent(card, domain.AuthRequest, "auth-1", "40")

	first := suite.process(event)
	second := suite.process(event)

	suite.Equal(first.Approved, second.Approved)
	suite.True(first.ApprovedAmount.Value.Equal(second.ApprovedAmount.Value))
	suite.Equal(first.DeclineReasons, second.DeclineReasons)
	suite.True(suite.f.available(suite.T(), card.AccountID).Equal(usd("60")), "the replay must not place a second hold")
}

func (suite *AuthorizationServiceTestSuite) TestConcurrentDuplicateDeliveries() {
	card := suite.f.newCard(suite.T(), "100")
	event := debitEvent(card, domain.AuthRequest, "auth-1", "40")

	var g errgroup.Group
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			_, err := suite.f.svc.Authorization.ProcessNetworkEvent(suite.ctx, event)
			return err
		})
	}
	suite.Require().NoError(g.Wait())
	suite.True(suite.f.available(suite.T(), card.AccountID).Equal(usd("60")))
}

func (suite *AuthorizationServiceTestSuite) TestCaptureSettlesHoldAndReleasesResidual() {
	card := suite.f.newCard(suite.T(), "100")
	suite.Require().True(suite.process(debitEvent(card, domain.AuthRequest, "auth-1", "50")).Approved)
	suite.f.clock.Advance(time.Minute)

	resp := suite.process(followUp(card, domain.FinancialAuth, "cap-1", "auth-1", "48"))

	suite.True(resp.Approved)
	suite.True(resp.ApprovedAmount.Value.Equal(usd("48")))
	suite.True(suite.f.ledgerBalance(suite.T(), card.AccountID).Equal(usd("52")))
	suite.True(suite.f.available(suite.T(), card.AccountID).Equal(usd("52")), "the $2 residual is released")

	page, err := suite.f.svc.Account.ListAdjustments(suite.ctx, card.AccountID, dto.ListAdjustmentsParams{Limit: 10})
	suite.Require().NoError(err)
	suite.Equal(domain.AdjustmentNetworkCapture, page.Adjustments[0].Type)
	suite.True(page.Adjustments[0].Amount.Equal(usd("-48")))
	suite.assertReconciled(card.AccountID)
}

func (suite *AuthorizationServiceTestSuite) TestCaptureWithoutHoldPostsDirectDebit() {
	card := suite.f.newCard(suite.T(), "100")

	resp := suite.process(followUp(card, domain.FinancialAuth, "cap-1", "never-authorized", "30"))

	suite.True(resp.Approved)
	suite.True(suite.f.ledgerBalance(suite.T(), card.AccountID).Equal(usd("70")))
	suite.assertReconciled(card.AccountID)
}

func (suite *AuthorizationServiceTestSuite) TestCaptureAfterReleasePostsDirectDebit() {
	card := suite.f.newCard(suite.T(), "100")
	suite.Require().True(suite.process(debitEvent(card, domain.AuthRequest, "auth-1", "50")).Approved)
	suite.process(followUp(card, domain.AuthReversal, "rev-1", "auth-1", "50"))

	resp := suite.process(followUp(card, domain.FinancialAuth, "cap-1", "auth-1", "50"))

	suite.True(resp.Approved)
	suite.True(suite.f.ledgerBalance(suite.T(), card.AccountID).Equal(usd("50")))
	suite.True(suite.f.available(suite.T(), card.AccountID).Equal(usd("50")))
}

func (suite *AuthorizationServiceTestSuite) TestRefundPostsCredit() {
	card := suite.f.newCard(suite.T(), "100")
	refund := debitEvent(card, domain.FinancialAuth, "refund-1", "0")
	refund.Amount = domain.NewAmount("USD", usd("25"))

	resp := suite.process(refund)

	suite.True(resp.Approved)
	suite.True(suite.f.ledgerBalance(suite.T(), card.AccountID).Equal(usd("125")))
	suite.assertReconciled(card.AccountID)
}

func (suite *AuthorizationServiceTestSuite) TestCreditAuthorizationPlacesNoHold() {
	card := suite.f.newCard(suite.T(), "10")
	credit := debitEvent(card, domain.AuthRequest, "auth-1", "0")
	credit.Amount = domain.NewAmount("USD", usd("500"))

	resp := suite.process(credit)

	suite.True(resp.Approved)
	suite.True(resp.ApprovedAmount.Value.Equal(usd("500")))
	suite.True(suite.f.available(suite.T(), card.AccountID).Equal(usd("10")))
}

func (suite *AuthorizationServiceTestSuite) TestReversalReleasesHold() {
	card := suite.f.newCard(suite.T(), "100")
	suite.Require().True(suite.process(debitEvent(card, domain.AuthRequest, "auth-1", "60")).Approved)

	suite.True(suite.process(followUp(card, domain.AuthReversal, "rev-1", "auth-1", "60")).Approved)

	suite.True(suite.f.available(suite.T(), card.AccountID).Equal(usd("100")))
}

func (suite *AuthorizationServiceTestSuite) TestPartialReversalKeepsRemainder() {
	card := suite.f.newCard(suite.T(), "100")
	suite.Require().True(suite.process(debitEvent(card, domain.AuthRequest, "auth-1", "60")).Approved)

	suite.process(followUp(card, domain.AuthReversal, "rev-1", "auth-1", "20"))

	suite.True(suite.f.available(suite.T(), card.AccountID).Equal(usd("60")))
}

func (suite *AuthorizationServiceTestSuite) TestIncrementalAuthorizationReplacesHold() {
	card := suite.f.newCard(suite.T(), "100")
	suite.Require().True(suite.process(debitEvent(card, domain.AuthRequest, "auth-1", "30")).Approved)

	resp := suite.process(followUp(card, domain.AuthRequest, "auth-1-inc", "auth-1", "90"))

	suite.True(resp.Approved, "the prior $30 counts towards the new $90 total")
	suite.True(suite.f.available(suite.T(), card.AccountID).Equal(usd("10")))
}

// assertBalances checks the ledger and available balance and that the
// adjustments still reconcile with the ledger.
func (suite *AuthorizationServiceTestSuite) assertBalances(accountID, ledger, available string) {
	suite.True(suite.f.ledgerBalance(suite.T(), accountID).Equal(usd(ledger)), "ledger balance")
	suite.True(suite.f.available(suite.T(), accountID).Equal(usd(available)), "available balance")
	suite.assertReconciled(accountID)
}

func (suite *AuthorizationServiceTestSuite) TestCaptureAfterIncrementalAuthorizationSettlesLatestHold() {
	card := suite.f.newCard(suite.T(), "100")
	suite.Require().True(suite.process(debitEvent(card, domain.AuthRequest, "auth-1", "30")).Approved)
	suite.assertBalances(card.AccountID, "100", "70")

	suite.f.clock.Advance(time.Minute)
	suite.Require().True(suite.process(followUp(card, domain.AuthRequest, "auth-1-inc", "auth-1", "50")).Approved)
	suite.assertBalances(card.AccountID, "100", "50")

	suite.f.clock.Advance(time.Minute)
	suite.True(suite.process(followUp(card, domain.FinancialAuth, "cap-1", "auth-1", "50")).Approved)
	suite.assertBalances(card.AccountID, "50", "50")
}

func (suite *AuthorizationServiceTestSuite) TestRepeatedIncrementalAuthorizationsKeepOneHold() {
	card := suite.f.newCard(suite.T(), "100")
	suite.Require().True(suite.process(debitEvent(card, domain.AuthRequest, "auth-1", "20")).Approved)
	suite.f.clock.Advance(time.Minute)
	suite.Require().True(suite.process(followUp(card, domain.AuthRequest, "auth-1-inc-1", "auth-1", "40")).Approved)
	suite.f.clock.Advance(time.Minute)
	suite.Require().True(suite.process(followUp(card, domain.AuthRequest, "auth-1-inc-2", "auth-1", "60")).Approved)
	suite.assertBalances(card.AccountID, "100", "40")

	suite.f.clock.Advance(time.Minute)
	suite.True(suite.process(followUp(card, domain.AuthReversal, "rev-1", "auth-1", "60")).Approved)
	suite.assertBalances(card.AccountID, "100", "100")
}

func (suite *AuthorizationServiceTestSuite) TestCaptureAfterPartialReversalSettlesRemainder() {
	card := suite.f.newCard(suite.T(), "100")
	suite.Require().True(suite.process(debitEvent(card, domain.AuthRequest, "auth-1", "60")).Approved)

	suite.process(followUp(card, domain.AuthReversal, "rev-1", "auth-1", "20"))
	suite.assertBalances(card.AccountID, "100", "60")

	suite.True(suite.process(followUp(card, domain.FinancialAuth, "cap-1", "auth-1", "40")).Approved)
	suite.assertBalances(card.AccountID, "60", "60")
}

func (suite *AuthorizationServiceTestSuite) TestCaptureSettlesOnAuthorizedAccountAfterCardMoves() {
	card := suite.f.newCard(suite.T(), "100")
	suite.Require().True(suite.process(debitEvent(card, domain.AuthRequest, "auth-1", "30")).Approved)

	other := suite.f.newAccount(suite.T(), card.BusinessID, "100")
	moved := *card
	moved.AccountID = other.ID
	suite.Require().NoError(suite.f.store.Repositories().Cards.SaveCard(suite.ctx, moved))

	resp := suite.process(followUp(card, domain.FinancialAuth, "cap-1", "auth-1", "30"))

	suite.True(resp.Approved)
	suite.Equal(card.AccountID, resp.AccountID)
	suite.assertBalances(card.AccountID, "70", "70")
	suite.assertBalances(other.ID, "100", "100")
}

func (suite *AuthorizationServiceTestSuite) TestExpiredHoldsStopReducingAvailability() {
	card := suite.f.newCard(suite.T(), "100")
	suite.Require().True(suite.process(debitEvent(card, domain.AuthRequest, "auth-1", "80")).Approved)
	suite.False(suite.process(debitEvent(card, domain.AuthRequest, "auth-2", "80")).Approved)

	suite.f.clock.Advance(5*24*time.Hour + time.Second)

	suite.True(suite.f.available(suite.T(), card.AccountID).Equal(usd("100")), "expired before any sweep ran")
	suite.True(suite.process(debitEvent(card, domain.AuthRequest, "auth-3", "80")).Approved)
}

func (suite *AuthorizationServiceTestSuite) TestInformationalMessagesMirrorAuthorization() {
	card := suite.f.newCard(suite.T(), "100")
	suite.Require().True(suite.process(debitEvent(card, domain.AuthRequest, "auth-1", "40")).Approved)

	resp := suite.process(followUp(card, domain.AuthCreated, "auth-1", "auth-1", "40"))

	suite.True(resp.Approved)
	suite.True(resp.ApprovedAmount.Value.Equal(usd("40")))
	suite.True(suite.f.available(suite.T(), card.AccountID).Equal(usd("60")))
}

func (suite *AuthorizationServiceTestSuite) TestCurrencyNotSupported() {
	card := suite.f.newCard(suite.T(), "100")
	event := debitEvent(card, domain.AuthRequest, "auth-1", "10")
	event.Amount = domain.NewAmount("EUR", decimal.NewFromInt(-10))

	resp := suite.process(event)

	suite.False(resp.Approved)
	suite.Equal([]domain.DeclineReason{domain.DeclineCurrencyNotSupported}, resp.DeclineReasons)
}

func (suite *AuthorizationServiceTestSuite) TestRejectsUnknownCardAndMalformedEvents() {
	card := suite.f.newCard(suite.T(), "100")

	unknown := debitEvent(card, domain.AuthRequest, "auth-1", "10")
	unknown.CardRef = "ic_missing"
	_, err := suite.f.svc.Authorization.ProcessNetworkEvent(suite.ctx, unknown)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	badType := debitEvent(card, "CAPTURE_EVERYTHING", "auth-2", "10")
	_, err = suite.f.svc.Authorization.ProcessNetworkEvent(suite.ctx, badType)
	suite.ErrorIs(err, apperrors.ErrValidation)

	noRef := debitEvent(card, domain.AuthRequest, "", "10")
	_, err = suite.f.svc.Authorization.ProcessNetworkEvent(suite.ctx, noRef)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.True(suite.f.available(suite.T(), card.AccountID).Equal(usd("100")))
}

type unavailableCards struct{}

func (unavailableCards) ResolveCard(context.Context, string) (*domain.Card, error) {
	return nil, errors.New("card directory timed out")
}

func (suite *AuthorizationServiceTestSuite) TestCardLookupOutageIsNotADecline() {
	card := suite.f.newCard(suite.T(), "100")
	svc, err := services.NewServiceContainer(suite.f.store.Repositories(), unavailableCards{}, services.WithRetryPolicy(fastRetries()))
	suite.Require().NoError(err)

	_, err = svc.Authorization.ProcessNetworkEvent(suite.ctx, debitEvent(card, domain.AuthRequest, "auth-1", "10"))
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(http.StatusServiceUnavailable, appErr.Code)
	suite.True(suite.f.available(suite.T(), card.AccountID).Equal(usd("100")))
}

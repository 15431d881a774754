package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/card_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/card_ledger_app/internal/dto"
	"github.com/SscSPs/card_ledger_app/internal/handlers"
	"github.com/SscSPs/card_ledger_app/internal/middleware"
	"github.com/SscSPs/card_ledger_app/internal/platform/config"
	"github.com/SscSPs/card_ledger_app/internal/platform/metrics"
	"github.com/SscSPs/card_ledger_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testActor = "admin-1"

type HandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	cfg           *config.Config
	accounts      *MockAccountService
	ledger        *MockLedgerService
	limits        *MockLimitService
	authorization *MockAuthorizationService
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret-key-that-is-long-enough",
		IsProduction:       true,
		WebhookRateLimit:   "1000-S",
		APIRateLimit:       "1000-S",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
}

// generateTestToken creates a signed operator token for the given subject.
func (suite *HandlerTestSuite) generateTestToken(subject string) string {
	signed, err := utils.GenerateJWT(subject, suite.cfg.JWTSecret, time.Hour, utils.OperatorTokenIssuer)
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.cfg = testConfig()
	suite.accounts = new(MockAccountService)
	suite.ledger = new(MockLedgerService)
	suite.limits = new(MockLimitService)
	suite.authorization = new(MockAuthorizationService)

	registry := prometheus.NewRegistry()
	metrics.New(registry)

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.DiscardHandler)))
	err := handlers.RegisterRoutes(suite.router, suite.cfg, &portssvc.ServiceContainer{
		Ledger:        suite.ledger,
		Account:       suite.accounts,
		Limit:         suite.limits,
		Authorization: suite.authorization,
	}, registry)
	suite.Require().NoError(err)
}

func (suite *HandlerTestSuite) do(method, path string, body any, authenticated bool) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(testActor))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func testAccount() *domain.Account {
	now := time.Now().UTC()
	ledgerAccount := domain.NewLedgerAccount(domain.LedgerAccountBusiness, "USD", now)
	account := domain.NewAccount("biz-1", nil, domain.AccountBusiness, "biz-1", ledgerAccount, testActor, now)
	account.LedgerBalance = domain.NewAmount("USD", decimal.RequireFromString("100"))
	account.SetHolds([]domain.Hold{{
		ID:             "hold-1",
		AccountID:      account.ID,
		Status:         domain.HoldPlaced,
		Amount:         domain.NewAmount("USD", decimal.RequireFromString("-30")),
		ExpirationDate: now.Add(time.Hour),
	}}, now)
	return account
}

func (suite *HandlerTestSuite) TestHealthAndMetrics() {
	w := suite.do(http.MethodGet, "/health", nil, false)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())

	w = suite.do(http.MethodGet, "/metrics", nil, false)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "card_ledger_holds_expired_total")
}

func (suite *HandlerTestSuite) TestSwaggerDisabledInProduction() {
	w := suite.do(http.MethodGet, "/swagger/index.html", nil, false)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestAPIRequiresToken() {
	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-1", nil, false)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.accounts.AssertNotCalled(suite.T(), "GetAccount", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestGetAccount_Success() {
	account := testAccount()
	suite.accounts.On("GetAccount", mock.Anything, account.ID).Return(account, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/"+account.ID, nil, true)
	suite.Equal(http.StatusOK, w.Code)

	var resp dto.AccountResponse
	suite.decode(w, &resp)
	suite.Equal(account.ID, resp.AccountID)
	suite.True(resp.LedgerBalance.Equal(decimal.NewFromInt(100)))
	suite.True(resp.AvailableBalance.Equal(decimal.NewFromInt(70)))
	suite.Len(resp.Holds, 1)
	suite.accounts.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestGetAccount_NotFound() {
	suite.accounts.On("GetAccount", mock.Anything, "missing").
		Return(nil, fmt.Errorf("%w: account missing", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/missing", nil, true)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestCreateAccount_PassesActor() {
	account := testAccount()
	req := dto.CreateAccountRequest{
		BusinessID:   "biz-1",
		AccountType:  domain.AccountBusiness,
		OwnerID:      "biz-1",
		CurrencyCode: "USD",
	}
	suite.accounts.On("CreateAccount", mock.Anything, req, testActor).Return(account, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", req, true)
	suite.Equal(http.StatusCreated, w.Code)
	suite.accounts.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateAccount_InvalidPayload() {
	w := suite.do(http.MethodPost, "/api/v1/accounts", `{"businessID":"biz-1","accountType":"SAVINGS","ownerID":"x","currencyCode":"USD"}`, true)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.accounts.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestTransfer_RejectsNonPositiveAmount() {
	for _, body := range []string{
		`{"amount":"0","currencyCode":"USD"}`,
		`{"amount":"-5","currencyCode":"USD"}`,
		`{"amount":"5","currencyCode":"DOLLARS"}`,
	} {
		w := suite.do(http.MethodPost, "/api/v1/accounts/acc-1/deposits", body, true)
		suite.Equal(http.StatusBadRequest, w.Code, body)
	}
	suite.accounts.AssertNotCalled(suite.T(), "Deposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestDeposit_Success() {
	adj := &domain.Adjustment{
		ID:             "adj-1",
		AccountID:      "acc-1",
		JournalEntryID: "je-1",
		PostingID:      "p-1",
		Type:           domain.AdjustmentDeposit,
		Amount:         domain.NewAmount("USD", decimal.RequireFromString("12.50")),
	}
	suite.accounts.On("Deposit", mock.Anything, "acc-1", mock.MatchedBy(func(r dto.TransferRequest) bool {
		return r.Amount.Equal(decimal.RequireFromString("12.50")) && r.CurrencyCode == "USD"
	}), testActor).Return(adj, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/acc-1/deposits", `{"amount":"12.50","currencyCode":"USD"}`, true)
	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.AdjustmentResponse
	suite.decode(w, &resp)
	suite.Equal("adj-1", resp.AdjustmentID)
	suite.Equal(domain.AdjustmentDeposit, resp.Type)
	suite.accounts.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestWithdraw_ErrorStatuses() {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{apperrors.ErrLimitExceeded, http.StatusUnprocessableEntity},
		{apperrors.ErrConcurrencyConflict, http.StatusConflict},
		{fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.accounts.On("Withdraw", mock.Anything, "acc-1", mock.Anything, testActor).Return(nil, tt.err).Once()
		w := suite.do(http.MethodPost, "/api/v1/accounts/acc-1/withdrawals", `{"amount":"5","currencyCode":"USD"}`, true)
		suite.Equal(tt.want, w.Code, tt.err.Error())
	}
	suite.accounts.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestListAdjustments_PassesPagination() {
	token := "cursor-1"
	next := "cursor-2"
	suite.accounts.On("ListAdjustments", mock.Anything, "acc-1", dto.ListAdjustmentsParams{Limit: 2, NextToken: &token}).
		Return(&dto.ListAdjustmentsResponse{Adjustments: []dto.AdjustmentResponse{{AdjustmentID: "a"}, {AdjustmentID: "b"}}, NextToken: &next}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-1/adjustments?limit=2&nextToken=cursor-1", nil, true)
	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListAdjustmentsResponse
	suite.decode(w, &resp)
	suite.Len(resp.Adjustments, 2)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)
	suite.accounts.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestListAdjustments_RejectsLimit() {
	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-1/adjustments?limit=1000", nil, true)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestReallocate_RejectsSameAccount() {
	w := suite.do(http.MethodPost, "/api/v1/reallocations", `{"fromAccountID":"a","toAccountID":"a","amount":"1","currencyCode":"USD"}`, true)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.accounts.AssertNotCalled(suite.T(), "Reallocate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestReleaseHold_InvalidTransition() {
	suite.accounts.On("ReleaseHold", mock.Anything, "hold-1", testActor).
		Return(nil, fmt.Errorf("%w: hold hold-1 is CAPTURED", apperrors.ErrInvalidHoldTransition)).Once()

	w := suite.do(http.MethodPost, "/api/v1/holds/hold-1/release", nil, true)
	suite.Equal(http.StatusConflict, w.Code)
	suite.accounts.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestReconcile() {
	suite.accounts.On("Reconcile", mock.Anything, "acc-1").Return(&dto.ReconciliationResponse{
		AccountID:       "acc-1",
		CurrencyCode:    "USD",
		LedgerBalance:   decimal.NewFromInt(5),
		AdjustmentTotal: decimal.NewFromInt(5),
		PostingTotal:    decimal.NewFromInt(5),
		Balanced:        true,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-1/reconciliation", nil, true)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ReconciliationResponse
	suite.decode(w, &resp)
	suite.True(resp.Balanced)
}

func (suite *HandlerTestSuite) TestJournalEntries() {
	reversedID := "je-1"
	reversal := &domain.JournalEntry{ID: "je-2", ReversedJournalEntryID: &reversedID}
	suite.ledger.On("ReverseJournalEntry", mock.Anything, "je-1", testActor).Return(reversal, nil).Once()
	suite.ledger.On("ReverseJournalEntry", mock.Anything, "je-1", testActor).Return(nil, apperrors.ErrAlreadyReversed).Once()
	suite.ledger.On("GetJournalEntry", mock.Anything, "je-2").Return(reversal, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journal-entries/je-1/reverse", nil, true)
	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalEntryResponse
	suite.decode(w, &resp)
	suite.Equal("je-2", resp.JournalEntryID)
	suite.Require().NotNil(resp.ReversedJournalEntryID)
	suite.Equal("je-1", *resp.ReversedJournalEntryID)

	w = suite.do(http.MethodPost, "/api/v1/journal-entries/je-1/reverse", nil, true)
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/journal-entries/je-2", nil, true)
	suite.Equal(http.StatusOK, w.Code)
	suite.ledger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestSetTransactionLimit() {
	limits := domain.Limits{}
	limits.Set("USD", domain.LimitPurchase, domain.LimitDaily, decimal.NewFromInt(100))
	saved := &domain.TransactionLimit{
		BusinessID:                    "biz-1",
		OwnerType:                     domain.LimitOwnerCard,
		OwnerID:                       "card-1",
		Limits:                        limits,
		DisabledMerchantCategoryCodes: []int{5999},
	}
	suite.limits.On("SetTransactionLimit", mock.Anything, mock.MatchedBy(func(r dto.SetTransactionLimitRequest) bool {
		return r.OwnerID == "card-1" && len(r.Ceilings) == 1 && r.Ceilings[0].Amount.Equal(decimal.NewFromInt(100))
	}), testActor).Return(saved, nil).Once()

	body := `{"businessID":"biz-1","ownerType":"CARD","ownerID":"card-1",
		"ceilings":[{"currencyCode":"USD","limitType":"PURCHASE","period":"DAILY","amount":"100"}],
		"disabledMerchantCategoryCodes":[5999]}`
	w := suite.do(http.MethodPut, "/api/v1/limits/transaction", body, true)
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	var resp dto.TransactionLimitResponse
	suite.decode(w, &resp)
	suite.Require().Len(resp.Ceilings, 1)
	suite.Equal(domain.LimitDaily, resp.Ceilings[0].Period)
	suite.Equal([]int{5999}, resp.DisabledMerchantCategoryCodes)
	suite.limits.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestSetTransactionLimit_RejectsNegativeCeiling() {
	body := `{"businessID":"biz-1","ownerType":"CARD","ownerID":"card-1",
		"ceilings":[{"currencyCode":"USD","limitType":"PURCHASE","period":"DAILY","amount":"-1"}]}`
	w := suite.do(http.MethodPut, "/api/v1/limits/transaction", body, true)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetTransactionLimit() {
	w := suite.do(http.MethodGet, "/api/v1/limits/transaction?businessID=biz-1", nil, true)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.limits.On("GetTransactionLimit", mock.Anything, "biz-1", domain.LimitOwnerAllocation, "alloc-1").
		Return(nil, apperrors.ErrNotFound).Once()
	w = suite.do(http.MethodGet, "/api/v1/limits/transaction?businessID=biz-1&ownerType=ALLOCATION&ownerID=alloc-1", nil, true)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestSetBusinessLimit() {
	limits := domain.Limits{}
	limits.Set("USD", domain.LimitACHDeposit, domain.LimitDaily, decimal.NewFromInt(1000))
	suite.limits.On("SetBusinessLimit", mock.Anything, mock.Anything, testActor).
		Return(&domain.BusinessLimit{BusinessID: "biz-1", Limits: limits}, nil).Once()

	body := `{"businessID":"biz-1","ceilings":[{"currencyCode":"USD","limitType":"ACH_DEPOSIT","period":"DAILY","amount":"1000"}]}`
	w := suite.do(http.MethodPut, "/api/v1/limits/business", body, true)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.BusinessLimitResponse
	suite.decode(w, &resp)
	suite.Len(resp.Ceilings, 1)
}

func networkEventBody(cardRef string) string {
	return `{
		"externalRef": "auth-1",
		"networkMessageType": "AUTH_REQUEST",
		"cardRef": "` + cardRef + `",
		"amount": {"value": "-25.00", "currency": "USD"},
		"merchant": {"name": "Coffee", "categoryCode": 5814, "type": "RESTAURANT", "country": "US"},
		"verification": {"cvcCheck": "match"},
		"createdAtEpochMillis": 1700000000000
	}`
}

func (suite *HandlerTestSuite) TestNetworkEvent_Approved() {
	allocation := "alloc-1"
	suite.authorization.On("ProcessNetworkEvent", mock.Anything, mock.MatchedBy(func(e domain.NetworkEvent) bool {
		return e.CardRef == "ic_1" &&
			e.Type == domain.AuthRequest &&
			e.Amount.Currency == "USD" &&
			e.Amount.Value.Equal(decimal.RequireFromString("-25")) &&
			e.Merchant.CategoryCode == 5814 &&
			e.CreatedAt.Equal(time.UnixMilli(1700000000000))
	})).Return(&domain.AuthorizationResponse{
		Approved:       true,
		ApprovedAmount: domain.NewAmount("USD", decimal.RequireFromString("25")),
		BusinessID:     "biz-1",
		AllocationID:   &allocation,
		CardID:         "card-1",
		AccountID:      "acc-1",
	}, nil).Once()

	w := suite.do(http.MethodPost, "/webhooks/network-events", networkEventBody("ic_1"), false)
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	var resp dto.NetworkDecisionResponse
	suite.decode(w, &resp)
	suite.True(resp.Approved)
	suite.True(resp.ApprovedAmount.Equal(decimal.NewFromInt(25)))
	suite.Equal("card-1", resp.Metadata.CardID)
	suite.Empty(resp.Metadata.DeclineReasons)
	suite.authorization.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestNetworkEvent_DeclineIsOK() {
	suite.authorization.On("ProcessNetworkEvent", mock.Anything, mock.Anything).Return(&domain.AuthorizationResponse{
		ApprovedAmount: domain.ZeroAmount("USD"),
		DeclineReasons: []domain.DeclineReason{domain.DeclineInsufficientFunds},
	}, nil).Once()

	w := suite.do(http.MethodPost, "/webhooks/network-events", networkEventBody("ic_1"), false)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.NetworkDecisionResponse
	suite.decode(w, &resp)
	suite.False(resp.Approved)
	suite.Equal([]domain.DeclineReason{domain.DeclineInsufficientFunds}, resp.Metadata.DeclineReasons)
}

func (suite *HandlerTestSuite) TestNetworkEvent_Rejections() {
	w := suite.do(http.MethodPost, "/webhooks/network-events", `{"externalRef":"x"}`, false)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/webhooks/network-events",
		`{"externalRef":"x","networkMessageType":"CHARGEBACK","cardRef":"ic_1","amount":{"value":"1","currency":"USD"},"createdAtEpochMillis":1}`, false)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/webhooks/network-events",
		`{"externalRef":"x","networkMessageType":"AUTH_REQUEST","cardRef":"ic_1","amount":{"currency":"USD"},"createdAtEpochMillis":1}`, false)
	suite.Equal(http.StatusBadRequest, w.Code, "a missing amount value is not read as zero")

	suite.authorization.On("ProcessNetworkEvent", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: card ic_unknown", apperrors.ErrNotFound)).Once()
	w = suite.do(http.MethodPost, "/webhooks/network-events", networkEventBody("ic_unknown"), false)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.authorization.AssertNumberOfCalls(suite.T(), "ProcessNetworkEvent", 1)
}

func (suite *HandlerTestSuite) TestNetworkEvent_CardLookupUnavailable() {
	suite.authorization.On("ProcessNetworkEvent", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAppError(http.StatusServiceUnavailable, "card lookup unavailable", errors.New("dial tcp: refused"))).Once()

	w := suite.do(http.MethodPost, "/webhooks/network-events", networkEventBody("ic_1"), false)
	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.NotContains(w.Body.String(), "dial tcp")
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.WebhookRateLimit = "1-M"
	router := gin.New()
	auth := new(MockAuthorizationService)
	auth.On("ProcessNetworkEvent", mock.Anything, mock.Anything).
		Return(&domain.AuthorizationResponse{ApprovedAmount: domain.ZeroAmount("USD")}, nil)
	err := handlers.RegisterRoutes(router, cfg, &portssvc.ServiceContainer{Authorization: auth}, nil)
	if err != nil {
		t.Fatal(err)
	}

	codes := make([]int, 2)
	for i := range codes {
		req, _ := http.NewRequest(http.MethodPost, "/webhooks/network-events", bytes.NewBufferString(networkEventBody("ic_1")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes[i] = w.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status codes %v", codes)
	}
}

func TestRegisterRoutes_InvalidRate(t *testing.T) {
	cfg := testConfig()
	cfg.APIRateLimit = "often"
	err := handlers.RegisterRoutes(gin.New(), cfg, &portssvc.ServiceContainer{}, nil)
	if err == nil {
		t.Fatal("expected an error for an invalid rate")
	}
}

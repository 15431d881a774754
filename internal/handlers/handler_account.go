package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/card_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/card_ledger_app/internal/dto"
	"github.com/SscSPs/card_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts and their holds.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// RegisterAccountRoutes registers routes related to accounts, holds and reallocations.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("/:accountID", h.getAccount)
		accounts.GET("/:accountID/adjustments", h.listAdjustments)
		accounts.GET("/:accountID/reconciliation", h.reconcile)
		accounts.POST("/:accountID/deposits", h.deposit)
		accounts.POST("/:accountID/withdrawals", h.withdraw)
	}
	rg.POST("/reallocations", h.reallocate)
	rg.POST("/holds/:holdID/release", h.releaseHold)
}

// actorOrAbort returns the authenticated caller, answering 401 when missing.
func actorOrAbort(c *gin.Context, logger *slog.Logger) (string, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return actor, ok
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a business, allocation or card account together with its ledger account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create account",
		slog.String("business_id", req.BusinessID),
		slog.String("account_type", string(req.AccountType)),
		slog.String("currency_code", req.CurrencyCode))

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.ID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Description Retrieves an account with its ledger and available balance and its active holds
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	logger = logger.With(slog.String("account_id", accountID))

	account, err := h.accountService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		respondWithError(c, logger, err, "retrieve account")
		return
	}

	logger.Debug("Account retrieved successfully")
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAdjustments godoc
// @Summary List adjustments for an account
// @Description Retrieves the account's adjustments, newest first, with token based pagination
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Number of adjustments to return (default 20)"
// @Param   nextToken query string false "Token for fetching the next page"
// @Success 200 {object} dto.ListAdjustmentsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to list adjustments"
// @Security BearerAuth
// @Router /accounts/{accountID}/adjustments [get]
func (h *accountHandler) listAdjustments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.ListAdjustmentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListAdjustments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("account_id", accountID))
	resp, err := h.accountService.ListAdjustments(c.Request.Context(), accountID, params)
	if err != nil {
		respondWithError(c, logger, err, "list adjustments")
		return
	}

	logger.Debug("Adjustments listed successfully", slog.Int("count", len(resp.Adjustments)))
	c.JSON(http.StatusOK, resp)
}

// reconcile godoc
// @Summary Reconcile an account
// @Description Compares the stored balance with the sums of the account's adjustments and ledger postings
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to reconcile account"
// @Security BearerAuth
// @Router /accounts/{accountID}/reconciliation [get]
func (h *accountHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	logger = logger.With(slog.String("account_id", accountID))

	report, err := h.accountService.Reconcile(c.Request.Context(), accountID)
	if err != nil {
		respondWithError(c, logger, err, "reconcile account")
		return
	}
	if !report.Balanced {
		logger.Error("Account does not reconcile",
			slog.String("ledger_balance", report.LedgerBalance.String()),
			slog.String("adjustment_total", report.AdjustmentTotal.String()),
			slog.String("posting_total", report.PostingTotal.String()))
	}
	c.JSON(http.StatusOK, report)
}

type transferFunc func(c *gin.Context, accountID string, req dto.TransferRequest, actor string) (*dto.AdjustmentResponse, error)

// transfer binds a deposit or withdrawal and answers with the adjustment.
func (h *accountHandler) transfer(c *gin.Context, action string, fn transferFunc) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", accountID), slog.String("amount", req.Amount.String()))
	resp, err := fn(c, accountID, req, actor)
	if err != nil {
		respondWithError(c, logger, err, action)
		return
	}

	logger.Info("Transfer posted", slog.String("action", action), slog.String("adjustment_id", resp.AdjustmentID))
	c.JSON(http.StatusCreated, resp)
}

// deposit godoc
// @Summary Deposit into an account
// @Description Moves money from the bank into a business account, subject to the business ACH deposit limits
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   deposit body dto.TransferRequest true "Deposit amount"
// @Success 201 {object} dto.AdjustmentResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Limit exceeded or currency mismatch"
// @Failure 500 {object} map[string]string "Failed to deposit"
// @Security BearerAuth
// @Router /accounts/{accountID}/deposits [post]
func (h *accountHandler) deposit(c *gin.Context) {
	h.transfer(c, "deposit", func(c *gin.Context, accountID string, req dto.TransferRequest, actor string) (*dto.AdjustmentResponse, error) {
		adj, err := h.accountService.Deposit(c.Request.Context(), accountID, req, actor)
		if err != nil {
			return nil, err
		}
		resp := dto.ToAdjustmentResponse(*adj)
		return &resp, nil
	})
}

// withdraw godoc
// @Summary Withdraw from an account
// @Description Moves money from a business account to the bank. Holds reduce what can be withdrawn.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   withdrawal body dto.TransferRequest true "Withdrawal amount"
// @Success 201 {object} dto.AdjustmentResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Insufficient funds, limit exceeded or currency mismatch"
// @Failure 500 {object} map[string]string "Failed to withdraw"
// @Security BearerAuth
// @Router /accounts/{accountID}/withdrawals [post]
func (h *accountHandler) withdraw(c *gin.Context) {
	h.transfer(c, "withdraw", func(c *gin.Context, accountID string, req dto.TransferRequest, actor string) (*dto.AdjustmentResponse, error) {
		adj, err := h.accountService.Withdraw(c.Request.Context(), accountID, req, actor)
		if err != nil {
			return nil, err
		}
		resp := dto.ToAdjustmentResponse(*adj)
		return &resp, nil
	})
}

// reallocate godoc
// @Summary Move money between two accounts
// @Description Reallocates funds between two accounts of the same business in one journal entry
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   reallocation body dto.ReallocateRequest true "Reallocation"
// @Success 201 {object} dto.ReallocationResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Insufficient funds or currency mismatch"
// @Failure 500 {object} map[string]string "Failed to reallocate"
// @Security BearerAuth
// @Router /reallocations [post]
func (h *accountHandler) reallocate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReallocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Reallocate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("from_account_id", req.FromAccountID), slog.String("to_account_id", req.ToAccountID))
	resp, err := h.accountService.Reallocate(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "reallocate")
		return
	}

	logger.Info("Reallocation posted", slog.String("journal_entry_id", resp.JournalEntryID))
	c.JSON(http.StatusCreated, resp)
}

// releaseHold godoc
// @Summary Release a hold
// @Description Releases a PLACED hold, returning its amount to the available balance
// @Tags holds
// @Produce  json
// @Param   holdID path string true "Hold ID"
// @Success 200 {object} dto.HoldResponse
// @Failure 404 {object} map[string]string "Hold not found"
// @Failure 409 {object} map[string]string "Hold is no longer placed"
// @Failure 500 {object} map[string]string "Failed to release hold"
// @Security BearerAuth
// @Router /holds/{holdID}/release [post]
func (h *accountHandler) releaseHold(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	holdID := c.Param("holdID")
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("hold_id", holdID))
	hold, err := h.accountService.ReleaseHold(c.Request.Context(), holdID, actor)
	if err != nil {
		respondWithError(c, logger, err, "release hold")
		return
	}

	logger.Info("Hold released")
	c.JSON(http.StatusOK, dto.ToHoldResponse(*hold))
}

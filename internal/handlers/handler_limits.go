package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/card_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/card_ledger_app/internal/dto"
	"github.com/SscSPs/card_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type limitHandler struct {
	limitService portssvc.LimitSvcFacade
}

// RegisterLimitRoutes registers routes that manage spend and ACH limits.
func RegisterLimitRoutes(rg *gin.RouterGroup, limitService portssvc.LimitSvcFacade) {
	h := &limitHandler{limitService: limitService}

	limits := rg.Group("/limits")
	{
		limits.GET("/transaction", h.getTransactionLimit)
		limits.PUT("/transaction", h.setTransactionLimit)
		limits.PUT("/business", h.setBusinessLimit)
	}
}

// getTransactionLimit godoc
// @Summary Get transaction limits
// @Description Retrieves the spend ceilings and spend controls of a business, allocation or card
// @Tags limits
// @Produce  json
// @Param   businessID query string true "Business ID"
// @Param   ownerType query string true "BUSINESS, ALLOCATION or CARD"
// @Param   ownerID query string true "Owner ID"
// @Success 200 {object} dto.TransactionLimitResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "No limits configured"
// @Failure 500 {object} map[string]string "Failed to retrieve limits"
// @Security BearerAuth
// @Router /limits/transaction [get]
func (h *limitHandler) getTransactionLimit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.GetTransactionLimitParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GetTransactionLimit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("owner_type", string(params.OwnerType)), slog.String("owner_id", params.OwnerID))
	limit, err := h.limitService.GetTransactionLimit(c.Request.Context(), params.BusinessID, params.OwnerType, params.OwnerID)
	if err != nil {
		respondWithError(c, logger, err, "retrieve limits")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionLimitResponse(limit))
}

// setTransactionLimit godoc
// @Summary Replace transaction limits
// @Description Replaces the spend ceilings and spend controls of one owner
// @Tags limits
// @Accept  json
// @Produce  json
// @Param   limits body dto.SetTransactionLimitRequest true "Limits"
// @Success 200 {object} dto.TransactionLimitResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 500 {object} map[string]string "Failed to save limits"
// @Security BearerAuth
// @Router /limits/transaction [put]
func (h *limitHandler) setTransactionLimit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetTransactionLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetTransactionLimit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("owner_type", string(req.OwnerType)), slog.String("owner_id", req.OwnerID))
	limit, err := h.limitService.SetTransactionLimit(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "save limits")
		return
	}

	logger.Info("Transaction limits replaced", slog.Int("ceilings", len(req.Ceilings)))
	c.JSON(http.StatusOK, dto.ToTransactionLimitResponse(limit))
}

// setBusinessLimit godoc
// @Summary Replace business ACH limits
// @Description Replaces the deposit and withdrawal ceilings of a business
// @Tags limits
// @Accept  json
// @Produce  json
// @Param   limits body dto.SetBusinessLimitRequest true "Limits"
// @Success 200 {object} dto.BusinessLimitResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 500 {object} map[string]string "Failed to save limits"
// @Security BearerAuth
// @Router /limits/business [put]
func (h *limitHandler) setBusinessLimit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetBusinessLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetBusinessLimit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("business_id", req.BusinessID))
	limit, err := h.limitService.SetBusinessLimit(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "save limits")
		return
	}

	logger.Info("Business limits replaced", slog.Int("ceilings", len(req.Ceilings)))
	c.JSON(http.StatusOK, dto.ToBusinessLimitResponse(limit))
}

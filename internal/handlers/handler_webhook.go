package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/card_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/card_ledger_app/internal/dto"
	"github.com/SscSPs/card_ledger_app/internal/middleware"
	"github.com/SscSPs/card_ledger_app/internal/utils"
	"github.com/gin-gonic/gin"
)

type webhookHandler struct {
	authorizationService portssvc.AuthorizationSvcFacade
}

// RegisterWebhookRoutes registers the card network webhook. Signature
// verification happens upstream, so the group carries no bearer auth.
func RegisterWebhookRoutes(rg *gin.RouterGroup, authorizationService portssvc.AuthorizationSvcFacade) {
	h := &webhookHandler{authorizationService: authorizationService}
	rg.POST("/network-events", h.handleNetworkEvent)
}

// handleNetworkEvent godoc
// @Summary Decide a card network event
// @Description Authorizes, settles or reverses card activity. Declines are returned with 200 and their reasons. Redelivered events return the original decision.
// @Tags webhooks
// @Accept  json
// @Produce  json
// @Param   event body dto.NetworkEventRequest true "Network event"
// @Success 200 {object} dto.NetworkDecisionResponse
// @Failure 400 {object} map[string]string "Malformed event"
// @Failure 404 {object} map[string]string "Unknown card"
// @Failure 500 {object} map[string]string "Failed to process network event"
// @Router /webhooks/network-events [post]
func (h *webhookHandler) handleNetworkEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.NetworkEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for network event", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(
		slog.String("card_ref", req.CardRef),
		slog.String("external_ref", req.ExternalRef),
		slog.String("network_message_type", req.NetworkMessageType))
	ctx := middleware.WithLogger(c.Request.Context(), logger)

	resp, err := h.authorizationService.ProcessNetworkEvent(ctx, req.ToNetworkEvent())
	if err != nil {
		respondWithError(c, logger, err, "process network event")
		return
	}

	logger.Debug("Network decision returned",
		slog.Bool("approved", resp.Approved),
		slog.String("approved_amount", utils.FormatAmount(resp.ApprovedAmount)))
	c.JSON(http.StatusOK, dto.ToNetworkDecisionResponse(resp))
}

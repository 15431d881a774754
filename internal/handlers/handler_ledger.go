package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/card_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/card_ledger_app/internal/dto"
	"github.com/SscSPs/card_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests related to journal entries.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
	}
}

// RegisterLedgerRoutes registers journal entry routes.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	entries := rg.Group("/journal-entries")
	{
		entries.GET("/:journalEntryID", h.getJournalEntry)
		entries.POST("/:journalEntryID/reverse", h.reverseJournalEntry)
	}
}

// getJournalEntry godoc
// @Summary Get a journal entry
// @Description Retrieves a journal entry with its postings
// @Tags journal-entries
// @Produce  json
// @Param   journalEntryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal entry"
// @Security BearerAuth
// @Router /journal-entries/{journalEntryID} [get]
func (h *ledgerHandler) getJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalEntryID := c.Param("journalEntryID")
	logger = logger.With(slog.String("journal_entry_id", journalEntryID))

	entry, err := h.ledgerService.GetJournalEntry(c.Request.Context(), journalEntryID)
	if err != nil {
		respondWithError(c, logger, err, "retrieve journal entry")
		return
	}

	logger.Debug("Journal entry retrieved successfully")
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseJournalEntry godoc
// @Summary Reverse a journal entry
// @Description Posts the negated mirror of a journal entry and compensating adjustments. An entry can be reversed once.
// @Tags journal-entries
// @Produce  json
// @Param   journalEntryID path string true "Journal entry ID"
// @Success 201 {object} dto.JournalEntryResponse "The reversal entry"
// @Failure 400 {object} map[string]string "Entry is itself a reversal"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry already reversed"
// @Failure 500 {object} map[string]string "Failed to reverse journal entry"
// @Security BearerAuth
// @Router /journal-entries/{journalEntryID}/reverse [post]
func (h *ledgerHandler) reverseJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalEntryID := c.Param("journalEntryID")
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("journal_entry_id", journalEntryID))
	reversal, err := h.ledgerService.ReverseJournalEntry(c.Request.Context(), journalEntryID, actor)
	if err != nil {
		respondWithError(c, logger, err, "reverse journal entry")
		return
	}

	logger.Info("Journal entry reversed", slog.String("reversal_journal_entry_id", reversal.ID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrAlreadyReversed),
		errors.Is(err, apperrors.ErrInvalidHoldTransition),
		errors.Is(err, apperrors.ErrConcurrencyConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrLimitExceeded),
		errors.Is(err, apperrors.ErrCurrencyMismatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError logs err at a level matching its status and writes the
// JSON error body. Internal details are only exposed for client errors.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, action string) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "Failed to " + action})
		return
	}
	logger.Warn("Rejected request to "+action, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

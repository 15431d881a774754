package utils

import (
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
)

// FormatAmount renders an amount with the minor unit digits of its currency.
// Example: 12.3456 USD returns "12.35"
// Example: 12.3456 JPY returns "12"
func FormatAmount(amount domain.Amount) string {
	return amount.Value.StringFixed(amount.Currency.Precision())
}

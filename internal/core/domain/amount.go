package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code such as "USD".
type Currency string

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(code string) Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(code)))
}

// zeroDecimalCurrencies have no minor unit.
var zeroDecimalCurrencies = map[Currency]bool{
	"CLP": true, "ISK": true, "JPY": true, "KRW": true, "UGX": true, "VND": true,
}

// Precision is the number of minor unit digits of the currency.
func (c Currency) Precision() int32 {
	if zeroDecimalCurrencies[c] {
		return 0
	}
	return 2
}

// Amount is a signed decimal value in a single currency.
type Amount struct {
	Currency Currency        `json:"currency"`
	Value    decimal.Decimal `json:"amount"`
}

// NewAmount builds an Amount.
func NewAmount(currency Currency, value decimal.Decimal) Amount {
	return Amount{Currency: currency, Value: value}
}

// ZeroAmount returns a zero value in the given currency.
func ZeroAmount(currency Currency) Amount {
	return Amount{Currency: currency, Value: decimal.Zero}
}

func (a Amount) sameCurrency(other Amount) error {
	if a.Currency != other.Currency {
		return fmt.Errorf("%w: %s vs %s", apperrors.ErrCurrencyMismatch, a.Currency, other.Currency)
	}
	return nil
}

// Add returns a + other. Both must share a currency.
func (a Amount) Add(other Amount) (Amount, error) {
	if err := a.sameCurrency(other); err != nil {
		return Amount{}, err
	}
	return Amount{Currency: a.Currency, Value: a.Value.Add(other.Value)}, nil
}

// Sub returns a - other. Both must share a currency.
func (a Amount) Sub(other Amount) (Amount, error) {
	if err := a.sameCurrency(other); err != nil {
		return Amount{}, err
	}
	return Amount{Currency: a.Currency, Value: a.Value.Sub(other.Value)}, nil
}

func (a Amount) Negate() Amount {
	return Amount{Currency: a.Currency, Value: a.Value.Neg()}
}

func (a Amount) Abs() Amount {
	return Amount{Currency: a.Currency, Value: a.Value.Abs()}
}

func (a Amount) IsZero() bool     { return a.Value.IsZero() }
func (a Amount) IsNegative() bool { return a.Value.IsNegative() }
func (a Amount) IsPositive() bool { return a.Value.IsPositive() }

// Min returns the smaller of a and other. Both must share a currency.
func (a Amount) Min(other Amount) (Amount, error) {
	if err := a.sameCurrency(other); err != nil {
		return Amount{}, err
	}
	if a.Value.LessThanOrEqual(other.Value) {
		return a, nil
	}
	return other, nil
}

func (a Amount) String() string {
	return a.Value.StringFixed(2) + " " + string(a.Currency)
}

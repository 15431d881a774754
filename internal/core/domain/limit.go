package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// LimitPeriod is a sliding lookback window ending at the evaluation instant.
type LimitPeriod string

const (
	LimitDaily   LimitPeriod = "DAILY"
	LimitWeekly  LimitPeriod = "WEEKLY"
	LimitMonthly LimitPeriod = "MONTHLY"
)

// Window returns the lookback duration for the period.
func (p LimitPeriod) Window() time.Duration {
	switch p {
	case LimitDaily:
		return 24 * time.Hour
	case LimitWeekly:
		return 7 * 24 * time.Hour
	case LimitMonthly:
		return 30 * 24 * time.Hour
	}
	return 0
}

// Valid reports whether p is a known period.
func (p LimitPeriod) Valid() bool {
	return p.Window() > 0
}

// LongestLimitWindow bounds how much history any limit check needs.
const LongestLimitWindow = 30 * 24 * time.Hour

// LimitType is the kind of money movement a ceiling applies to.
type LimitType string

const (
	LimitPurchase    LimitType = "PURCHASE"
	LimitACHDeposit  LimitType = "ACH_DEPOSIT"
	LimitACHWithdraw LimitType = "ACH_WITHDRAW"
)

// LimitOwnerType is the kind of entity a TransactionLimit is attached to.
type LimitOwnerType string

const (
	LimitOwnerBusiness   LimitOwnerType = "BUSINESS"
	LimitOwnerAllocation LimitOwnerType = "ALLOCATION"
	LimitOwnerCard       LimitOwnerType = "CARD"
)

// Limits maps currency → limit type → period → ceiling.
type Limits map[Currency]map[LimitType]map[LimitPeriod]decimal.Decimal

// Ceilings returns the configured per-period ceilings, or nil.
func (l Limits) Ceilings(currency Currency, limitType LimitType) map[LimitPeriod]decimal.Decimal {
	if l == nil {
		return nil
	}
	return l[currency][limitType]
}

// Set adds or replaces a ceiling.
func (l Limits) Set(currency Currency, limitType LimitType, period LimitPeriod, ceiling decimal.Decimal) {
	if l[currency] == nil {
		l[currency] = make(map[LimitType]map[LimitPeriod]decimal.Decimal)
	}
	if l[currency][limitType] == nil {
		l[currency][limitType] = make(map[LimitPeriod]decimal.Decimal)
	}
	l[currency][limitType][period] = ceiling
}

// TransactionLimit holds spend ceilings and spend controls for one owner.
type TransactionLimit struct {
	BusinessID                    string         `json:"businessID"`
	OwnerID                       string         `json:"ownerID"`
	OwnerType                     LimitOwnerType `json:"ownerType"`
	Limits                        Limits         `json:"limits"`
	DisabledMerchantCategoryCodes []int          `json:"disabledMerchantCategoryCodes"`
	DisableForeign                bool           `json:"disableForeign"`
	AuditFields
}

// BlocksMerchant reports whether the spend controls reject the merchant.
func (tl *TransactionLimit) BlocksMerchant(categoryCode int) bool {
	for _, code := range tl.DisabledMerchantCategoryCodes {
		if code == categoryCode {
			return true
		}
	}
	return false
}

// BusinessLimit holds ACH ceilings for a whole business.
type BusinessLimit struct {
	BusinessID string `json:"businessID"`
	Limits     Limits `json:"limits"`
	AuditFields
}

// LimitUsage is one historical movement counted against a ceiling.
type LimitUsage struct {
	EffectiveDate time.Time
	Amount        Amount
}

// LimitViolation describes the ceiling that a proposed amount would cross.
type LimitViolation struct {
	OwnerID   string          `json:"ownerID"`
	LimitType LimitType       `json:"limitType"`
	Period    LimitPeriod     `json:"period"`
	Currency  Currency        `json:"currency"`
	Ceiling   decimal.Decimal `json:"ceiling"`
	Usage     decimal.Decimal `json:"usage"`
	Proposed  decimal.Decimal `json:"proposed"`
}

func (v LimitViolation) String() string {
	return fmt.Sprintf("%s %s %s limit for %s: usage %s + %s exceeds %s",
		v.Period, v.LimitType, v.Currency, v.OwnerID, v.Usage.StringFixed(2), v.Proposed.StringFixed(2), v.Ceiling.StringFixed(2))
}

// LimitResult is Allowed when Violation is nil, otherwise Denied.
type LimitResult struct {
	Violation *LimitViolation
}

func (r LimitResult) Allowed() bool {
	return r.Violation == nil
}

// EvaluateLimit checks proposed against every configured period. History in
// other currencies is ignored. History is sign-aligned with proposed, so for
// a debit the refunds in the window reduce usage. Periods are evaluated from
// the shortest window up and the first violation is returned. A total equal
// to the ceiling passes.
func EvaluateLimit(ownerID string, limitType LimitType, proposed Amount, history []LimitUsage, ceilings map[LimitPeriod]decimal.Decimal, now time.Time) LimitResult {
	if len(ceilings) == 0 {
		return LimitResult{}
	}

	periods := make([]LimitPeriod, 0, len(ceilings))
	for p := range ceilings {
		if p.Valid() {
			periods = append(periods, p)
		}
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Window() < periods[j].Window() })

	magnitude := proposed.Value.Abs()
	for _, period := range periods {
		since := now.Add(-period.Window())
		usage := decimal.Zero
		for _, h := range history {
			if h.Amount.Currency != proposed.Currency {
				continue
			}
			if !h.EffectiveDate.After(since) || h.EffectiveDate.After(now) {
				continue
			}
			v := h.Amount.Value
			if proposed.IsNegative() {
				v = v.Neg()
			}
			usage = usage.Add(v)
		}

		ceiling := ceilings[period]
		if usage.Add(magnitude).GreaterThan(ceiling) {
			return LimitResult{Violation: &LimitViolation{
				OwnerID:   ownerID,
				LimitType: limitType,
				Period:    period,
				Currency:  proposed.Currency,
				Ceiling:   ceiling,
				Usage:     usage,
				Proposed:  magnitude,
			}}
		}
	}
	return LimitResult{}
}

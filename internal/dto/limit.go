package dto

import (
	"cmp"
	"slices"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LimitCeiling is one ceiling in a limit request.
type LimitCeiling struct {
	CurrencyCode string             `json:"currencyCode" binding:"required,iso4217"`
	LimitType    domain.LimitType   `json:"limitType" binding:"required,oneof=PURCHASE ACH_DEPOSIT ACH_WITHDRAW"`
	Period       domain.LimitPeriod `json:"period" binding:"required,oneof=DAILY WEEKLY MONTHLY"`
	Amount       decimal.Decimal    `json:"amount" binding:"nonnegative_decimal"`
}

// SetTransactionLimitRequest replaces the limits and spend controls of one owner.
type SetTransactionLimitRequest struct {
	BusinessID                    string                `json:"businessID" binding:"required"`
	OwnerType                     domain.LimitOwnerType `json:"ownerType" binding:"required,oneof=BUSINESS ALLOCATION CARD"`
	OwnerID                       string                `json:"ownerID" binding:"required"`
	Ceilings                      []LimitCeiling        `json:"ceilings" binding:"dive"`
	DisabledMerchantCategoryCodes []int                 `json:"disabledMerchantCategoryCodes" binding:"dive,min=0,max=9999"`
	DisableForeign                bool                  `json:"disableForeign"`
}

// SetBusinessLimitRequest replaces the ACH limits of a business.
type SetBusinessLimitRequest struct {
	BusinessID string         `json:"businessID" binding:"required"`
	Ceilings   []LimitCeiling `json:"ceilings" binding:"dive"`
}

// ToLimits builds the nested ceiling map.
func ToLimits(ceilings []LimitCeiling) domain.Limits {
	limits := make(domain.Limits)
	for _, c := range ceilings {
		limits.Set(domain.NormalizeCurrency(c.CurrencyCode), c.LimitType, c.Period, c.Amount)
	}
	return limits
}

// FromLimits flattens the ceiling map in a stable order.
func FromLimits(limits domain.Limits) []LimitCeiling {
	ceilings := []LimitCeiling{}
	for currency, byType := range limits {
		for limitType, byPeriod := range byType {
			for period, amount := range byPeriod {
				ceilings = append(ceilings, LimitCeiling{
					CurrencyCode: string(currency),
					LimitType:    limitType,
					Period:       period,
					Amount:       amount,
				})
			}
		}
	}
	slices.SortFunc(ceilings, func(a, b LimitCeiling) int {
		return cmp.Or(
			cmp.Compare(a.CurrencyCode, b.CurrencyCode),
			cmp.Compare(a.LimitType, b.LimitType),
			cmp.Compare(a.Period, b.Period),
		)
	})
	return ceilings
}

// GetTransactionLimitParams selects the owner whose limits are read.
type GetTransactionLimitParams struct {
	BusinessID string                `form:"businessID" binding:"required"`
	OwnerType  domain.LimitOwnerType `form:"ownerType" binding:"required,oneof=BUSINESS ALLOCATION CARD"`
	OwnerID    string                `form:"ownerID" binding:"required"`
}

// TransactionLimitResponse is the API view of an owner's limits and controls.
type TransactionLimitResponse struct {
	BusinessID                    string                `json:"businessID"`
	OwnerType                     domain.LimitOwnerType `json:"ownerType"`
	OwnerID                       string                `json:"ownerID"`
	Ceilings                      []LimitCeiling        `json:"ceilings"`
	DisabledMerchantCategoryCodes []int                 `json:"disabledMerchantCategoryCodes"`
	DisableForeign                bool                  `json:"disableForeign"`
	LastUpdatedAt                 time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy                 string                `json:"lastUpdatedBy"`
}

// ToTransactionLimitResponse converts a domain.TransactionLimit to its DTO.
func ToTransactionLimitResponse(tl *domain.TransactionLimit) TransactionLimitResponse {
	codes := tl.DisabledMerchantCategoryCodes
	if codes == nil {
		codes = []int{}
	}
	return TransactionLimitResponse{
		BusinessID:                    tl.BusinessID,
		OwnerType:                     tl.OwnerType,
		OwnerID:                       tl.OwnerID,
		Ceilings:                      FromLimits(tl.Limits),
		DisabledMerchantCategoryCodes: codes,
		DisableForeign:                tl.DisableForeign,
		LastUpdatedAt:                 tl.LastUpdatedAt,
		LastUpdatedBy:                 tl.LastUpdatedBy,
	}
}

// BusinessLimitResponse is the API view of a business's ACH limits.
type BusinessLimitResponse struct {
	BusinessID    string         `json:"businessID"`
	Ceilings      []LimitCeiling `json:"ceilings"`
	LastUpdatedAt time.Time      `json:"lastUpdatedAt"`
	LastUpdatedBy string         `json:"lastUpdatedBy"`
}

// ToBusinessLimitResponse converts a domain.BusinessLimit to its DTO.
func ToBusinessLimitResponse(bl *domain.BusinessLimit) BusinessLimitResponse {
	return BusinessLimitResponse{
		BusinessID:    bl.BusinessID,
		Ceilings:      FromLimits(bl.Limits),
		LastUpdatedAt: bl.LastUpdatedAt,
		LastUpdatedBy: bl.LastUpdatedBy,
	}
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MerchantType is the network's merchant category name, e.g. "service_stations".
type MerchantType string

const (
	MerchantAutomatedFuelDispensers  MerchantType = "automated_fuel_dispensers"
	MerchantAirlines                 MerchantType = "airlines_air_carriers"
	MerchantCarRental                MerchantType = "car_rental_agencies"
	MerchantCruiseLines              MerchantType = "cruise_lines"
	MerchantHotels                   MerchantType = "hotels_motels_and_resorts"
	MerchantDirectMarketingTravel    MerchantType = "direct_marketing_travel"
	MerchantDirectMarketingOutbound  MerchantType = "direct_marketing_outbound_telemarketing"
	MerchantDirectMarketingInbound   MerchantType = "direct_marketing_inbound_telemarketing"
	MerchantDirectMarketingSubscribe MerchantType = "direct_marketing_subscription"
	MerchantDrinkingPlaces           MerchantType = "drinking_places"
	MerchantSpas                     MerchantType = "health_and_beauty_spas"
	MerchantRestaurants              MerchantType = "eating_places_restaurants"
	MerchantFastFood                 MerchantType = "fast_food_restaurants"
	MerchantTaxis                    MerchantType = "taxicabs_limousines"
)

// HoldPolicy controls how much is reserved for an authorization and for how long.
type HoldPolicy struct {
	Duration               time.Duration
	Multiplier             decimal.Decimal
	FixedAmount            *decimal.Decimal
	DisablePartialApproval bool
}

var (
	fuelHoldAmount = decimal.NewFromInt(100)

	defaultHoldPolicy = HoldPolicy{Duration: 5 * 24 * time.Hour, Multiplier: decimal.NewFromInt(1)}
	travelHoldPolicy  = HoldPolicy{Duration: 7 * 24 * time.Hour, Multiplier: decimal.RequireFromString("1.15")}
	tippedHoldPolicy  = HoldPolicy{Duration: 3 * 24 * time.Hour, Multiplier: decimal.RequireFromString("1.20")}
	fuelHoldPolicy    = HoldPolicy{
		Duration:               2 * time.Hour,
		Multiplier:             decimal.NewFromInt(1),
		FixedAmount:            &fuelHoldAmount,
		DisablePartialApproval: true,
	}
)

// HoldPolicyFor returns the reservation policy for a merchant type. Fuel
// pumps pre-authorize a token amount, so a fixed reservation is used; travel
// and tipped services settle above the authorized amount.
func HoldPolicyFor(t MerchantType) HoldPolicy {
	switch t {
	case MerchantAutomatedFuelDispensers:
		return fuelHoldPolicy
	case MerchantAirlines, MerchantCarRental, MerchantCruiseLines, MerchantHotels,
		MerchantDirectMarketingTravel, MerchantDirectMarketingOutbound,
		MerchantDirectMarketingInbound, MerchantDirectMarketingSubscribe:
		return travelHoldPolicy
	case MerchantDrinkingPlaces, MerchantSpas, MerchantRestaurants, MerchantFastFood, MerchantTaxis:
		return tippedHoldPolicy
	}
	return defaultHoldPolicy
}

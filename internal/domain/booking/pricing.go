package booking

import (
	"bookify/internal/domain/apartment"
	"bookify/internal/domain/shared/daterange"
	"bookify/internal/domain/shared/money"
)

// PricingDetails is the price breakdown for a stay. Pure computed value
// with no identity; all four fields share the apartment's currency.
type PricingDetails struct {
	PriceForPeriod    money.Money
	CleaningFee       money.Money
	AmenitiesUpCharge money.Money
	TotalPrice        money.Money
}

// Surcharge rates per amenity, in basis points. Amenities without an entry
// do not affect the price.
var amenitySurchargeBps = map[apartment.Amenity]int64{
	apartment.AmenityGardenView:      500,
	apartment.AmenityAirConditioning: 100,
	apartment.AmenityParking:         100,
}

// CalculatePrice derives the breakdown for a stay from the apartment's rate
// card and amenity set. Deterministic and pure; it assumes validated inputs
// and has no failure path.
func CalculatePrice(apt *apartment.Apartment, period daterange.DateRange) PricingDetails {
	currency := apt.Price.Currency
	priceForPeriod := apt.Price.Multiply(int64(period.Days()))

	// Surcharges are additive, not compounding: one flat percentage summed
	// over the amenities, applied once to the period price.
	var surchargeBps int64
	for _, amenity := range apt.Amenities {
		surchargeBps += amenitySurchargeBps[amenity]
	}

	upCharge := money.ZeroIn(currency)
	if surchargeBps > 0 {
		upCharge = priceForPeriod.ApplyBasisPoints(surchargeBps)
	}

	// The accumulator starts from a zero in the apartment's currency, not
	// the currency-less zero, so the first addition cannot trip the
	// same-currency check.
	total := money.ZeroIn(currency)
	total = total.Add(priceForPeriod)
	if !apt.CleaningFee.IsZero() {
		total = total.Add(apt.CleaningFee)
	}
	total = total.Add(upCharge)

	return PricingDetails{
		PriceForPeriod:    priceForPeriod,
		CleaningFee:       apt.CleaningFee,
		AmenitiesUpCharge: upCharge,
		TotalPrice:        total,
	}
}

package apartment

import (
	"context"
	"time"

	"bookify/internal/domain/shared/money"
	"bookify/internal/domain/shared/result"
)

type ID string

type Name string

type Description string

// Amenity is an enumerated tag attached to an apartment. Some amenities
// drive a pricing surcharge; the rest only describe the listing.
type Amenity string

const (
	AmenityGardenView      Amenity = "garden_view"
	AmenityAirConditioning Amenity = "air_conditioning"
	AmenityParking         Amenity = "parking"
	AmenityWiFi            Amenity = "wifi"
	AmenityPetFriendly     Amenity = "pet_friendly"
	AmenitySwimmingPool    Amenity = "swimming_pool"
)

type Address struct {
	Country string
	State   string
	ZipCode string
	City    string
	Street  string
}

// Apartment is the rental unit a booking refers to. The booking core only
// reads the rate card fields: nightly price, cleaning fee and amenities.
// Price and CleaningFee always share one currency.
type Apartment struct {
	ID           ID
	Name         Name
	Description  Description
	Address      Address
	Price        money.Money
	CleaningFee  money.Money
	Amenities    []Amenity
	LastBookedOn *time.Time
	Version      int64
}

// MarkBooked stamps the time of the latest reservation against the unit.
func (a *Apartment) MarkBooked(now time.Time) {
	t := now.UTC()
	a.LastBookedOn = &t
}

var ErrNotFound = result.NewError("Apartment.NotFound", "the apartment with the specified identifier was not found")

type Repository interface {
	ByID(ctx context.Context, id ID) (*Apartment, error)
	Save(ctx context.Context, apartment *Apartment) error
}

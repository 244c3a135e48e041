package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bookify/internal/domain/apartment"
	"bookify/internal/domain/shared/daterange"
	"bookify/internal/domain/shared/events"
	"bookify/internal/domain/shared/money"
	"bookify/internal/domain/shared/result"
	"bookify/internal/domain/user"
)

type ID string

type Status string

const (
	StatusReserved  Status = "RESERVED"
	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Booking is the aggregate root for a reservation. State changes only
// through Reserve and the transition methods below; each transition stamps
// exactly one terminal timestamp and records the matching domain event.
type Booking struct {
	ID          ID
	ApartmentID apartment.ID
	UserID      user.ID
	Duration    daterange.DateRange

	PriceForPeriod    money.Money
	CleaningFee       money.Money
	AmenitiesUpCharge money.Money
	TotalPrice        money.Money

	Status      Status
	CreatedOn   time.Time
	ConfirmedOn *time.Time
	RejectedOn  *time.Time
	CompletedOn *time.Time
	CancelledOn *time.Time

	Version int64
	events.Recorder
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	// Overlapping reports whether the apartment already has a booking in a
	// non-terminal state whose range shares a night with the given one.
	Overlapping(ctx context.Context, apartmentID apartment.ID, duration daterange.DateRange) (bool, error)
}

// Reserve creates a booking in the Reserved state. Inputs are assumed
// pre-validated by the caller: existence of the apartment and user, and the
// overlap check, happen before reservation is decided.
func Reserve(apartmentID apartment.ID, userID user.ID, duration daterange.DateRange, utcNow time.Time, pricing PricingDetails) *Booking {
	b := &Booking{
		ID:                ID(uuid.NewString()),
		ApartmentID:       apartmentID,
		UserID:            userID,
		Duration:          duration,
		PriceForPeriod:    pricing.PriceForPeriod,
		CleaningFee:       pricing.CleaningFee,
		AmenitiesUpCharge: pricing.AmenitiesUpCharge,
		TotalPrice:        pricing.TotalPrice,
		Status:            StatusReserved,
		CreatedOn:         utcNow.UTC(),
	}
	b.Record(Reserved{BookingID: b.ID, At: b.CreatedOn})
	return b
}

// Confirm moves a reserved booking to Confirmed.
func (b *Booking) Confirm(utcNow time.Time) result.Result {
	if b.Status != StatusReserved {
		return result.Failure(ErrNotReserved)
	}
	now := utcNow.UTC()
	b.Status = StatusConfirmed
	b.ConfirmedOn = &now
	b.Record(Confirmed{BookingID: b.ID, At: now})
	return result.Success()
}

// Reject declines a reserved booking.
func (b *Booking) Reject(utcNow time.Time) result.Result {
	if b.Status != StatusReserved {
		return result.Failure(ErrNotReserved)
	}
	now := utcNow.UTC()
	b.Status = StatusRejected
	b.RejectedOn = &now
	b.Record(Rejected{BookingID: b.ID, At: now})
	return result.Success()
}

// Complete closes out a confirmed booking once the stay has begun.
func (b *Booking) Complete(utcNow time.Time) result.Result {
	if b.Status != StatusConfirmed {
		return result.Failure(ErrNotConfirmed)
	}
	now := utcNow.UTC()
	if !now.After(b.Duration.Start) {
		return result.Failure(ErrNotStarted)
	}
	b.Status = StatusCompleted
	b.CompletedOn = &now
	b.Record(Completed{BookingID: b.ID, At: now})
	return result.Success()
}

// Cancel withdraws a reserved or confirmed booking before the stay starts.
func (b *Booking) Cancel(utcNow time.Time) result.Result {
	if b.Status != StatusReserved && b.Status != StatusConfirmed {
		return result.Failure(ErrNotPending)
	}
	now := utcNow.UTC()
	if now.After(b.Duration.Start) {
		return result.Failure(ErrAlreadyStarted)
	}
	b.Status = StatusCancelled
	b.CancelledOn = &now
	b.Record(Cancelled{BookingID: b.ID, At: now})
	return result.Success()
}

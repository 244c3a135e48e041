package booking

import (
	"context"
	"time"

	"bookify/internal/app/queries"
	"bookify/internal/app/uow"
	domainbooking "bookify/internal/domain/booking"
)

const getBookingKey = "booking.get"

type GetBookingQuery struct {
	BookingID string
}

func (q GetBookingQuery) Key() string { return getBookingKey }

// BookingResponse is the flat read model for a booking. Value objects are
// unpacked into plain fields on purpose.
type BookingResponse struct {
	ID                        string     `json:"id"`
	UserID                    string     `json:"user_id"`
	ApartmentID               string     `json:"apartment_id"`
	Status                    string     `json:"status"`
	PriceAmount               int64      `json:"price_amount"`
	PriceCurrency             string     `json:"price_currency"`
	CleaningFeeAmount         int64      `json:"cleaning_fee_amount"`
	CleaningFeeCurrency       string     `json:"cleaning_fee_currency"`
	AmenitiesUpChargeAmount   int64      `json:"amenities_up_charge_amount"`
	AmenitiesUpChargeCurrency string     `json:"amenities_up_charge_currency"`
	TotalPriceAmount          int64      `json:"total_price_amount"`
	TotalPriceCurrency        string     `json:"total_price_currency"`
	DurationStart             string     `json:"duration_start"`
	DurationEnd               string     `json:"duration_end"`
	CreatedOnUTC              time.Time  `json:"created_on_utc"`
	ConfirmedOnUTC            *time.Time `json:"confirmed_on_utc,omitempty"`
	RejectedOnUTC             *time.Time `json:"rejected_on_utc,omitempty"`
	CompletedOnUTC            *time.Time `json:"completed_on_utc,omitempty"`
	CancelledOnUTC            *time.Time `json:"cancelled_on_utc,omitempty"`
}

type GetBookingHandler struct {
	UoWFactory uow.Factory
}

func (h *GetBookingHandler) Handle(ctx context.Context, q GetBookingQuery) (*BookingResponse, error) {
	unit, managed, err := beginUnit(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	if managed {
		defer func() { _ = unit.Rollback(ctx) }()
	}

	bk, err := unit.Bookings().ByID(ctx, domainbooking.ID(q.BookingID))
	if err != nil {
		return nil, err
	}
	return newBookingResponse(bk), nil
}

const dateLayout = "2006-01-02"

func newBookingResponse(b *domainbooking.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                        string(b.ID),
		UserID:                    string(b.UserID),
		ApartmentID:               string(b.ApartmentID),
		Status:                    string(b.Status),
		PriceAmount:               b.PriceForPeriod.Amount,
		PriceCurrency:             b.PriceForPeriod.Currency.Code(),
		CleaningFeeAmount:         b.CleaningFee.Amount,
		CleaningFeeCurrency:       b.CleaningFee.Currency.Code(),
		AmenitiesUpChargeAmount:   b.AmenitiesUpCharge.Amount,
		AmenitiesUpChargeCurrency: b.AmenitiesUpCharge.Currency.Code(),
		TotalPriceAmount:          b.TotalPrice.Amount,
		TotalPriceCurrency:        b.TotalPrice.Currency.Code(),
		DurationStart:             b.Duration.Start.Format(dateLayout),
		DurationEnd:               b.Duration.End.Format(dateLayout),
		CreatedOnUTC:              b.CreatedOn,
		ConfirmedOnUTC:            b.ConfirmedOn,
		RejectedOnUTC:             b.RejectedOn,
		CompletedOnUTC:            b.CompletedOn,
		CancelledOnUTC:            b.CancelledOn,
	}
}

var _ queries.Handler[GetBookingQuery, *BookingResponse] = (*GetBookingHandler)(nil)

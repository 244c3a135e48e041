package booking

import "time"

type Reserved struct {
	BookingID ID        `json:"booking_id"`
	At        time.Time `json:"at"`
}

func (e Reserved) EventName() string     { return "booking.reserved" }
func (e Reserved) AggregateID() string   { return string(e.BookingID) }
func (e Reserved) OccurredAt() time.Time { return e.At }

type Confirmed struct {
	BookingID ID        `json:"booking_id"`
	At        time.Time `json:"at"`
}

func (e Confirmed) EventName() string     { return "booking.confirmed" }
func (e Confirmed) AggregateID() string   { return string(e.BookingID) }
func (e Confirmed) OccurredAt() time.Time { return e.At }

type Rejected struct {
	BookingID ID        `json:"booking_id"`
	At        time.Time `json:"at"`
}

func (e Rejected) EventName() string     { return "booking.rejected" }
func (e Rejected) AggregateID() string   { return string(e.BookingID) }
func (e Rejected) OccurredAt() time.Time { return e.At }

type Completed struct {
	BookingID ID        `json:"booking_id"`
	At        time.Time `json:"at"`
}

func (e Completed) EventName() string     { return "booking.completed" }
func (e Completed) AggregateID() string   { return string(e.BookingID) }
func (e Completed) OccurredAt() time.Time { return e.At }

type Cancelled struct {
	BookingID ID        `json:"booking_id"`
	At        time.Time `json:"at"`
}

func (e Cancelled) EventName() string     { return "booking.cancelled" }
func (e Cancelled) AggregateID() string   { return string(e.BookingID) }
func (e Cancelled) OccurredAt() time.Time { return e.At }

package booking

import "bookify/internal/domain/shared/result"

var (
	ErrNotFound       = result.NewError("Booking.NotFound", "the booking with the specified identifier was not found")
	ErrOverlap        = result.NewError("Booking.Overlap", "the current booking is overlapping with an existing one")
	ErrNotReserved    = result.NewError("Booking.NotReserved", "the booking is not reserved")
	ErrNotConfirmed   = result.NewError("Booking.NotConfirmed", "the booking is not confirmed")
	ErrNotStarted     = result.NewError("Booking.NotStarted", "the booking has not started yet")
	ErrAlreadyStarted = result.NewError("Booking.AlreadyStarted", "the booking has already started")
	ErrNotPending     = result.NewError("Booking.NotPending", "the booking is not pending")
)

package notify

import (
	"context"
	"errors"
	"fmt"

	"bookify/internal/domain/booking"
	"bookify/internal/domain/shared/events"
	"bookify/internal/domain/user"
)

// EmailSender delivers a message to a recipient. Actual delivery is an
// external collaborator's concern.
type EmailSender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// BookingReservedHandler emails the guest once a reservation lands. A
// missing booking or user is a benign race (deleted, or not yet visible to
// this reader) and ends the handler without error.
type BookingReservedHandler struct {
	Bookings booking.Repository
	Users    user.Repository
	Email    EmailSender
}

func (h *BookingReservedHandler) Handle(ctx context.Context, e events.Event) error {
	bk, err := h.Bookings.ByID(ctx, booking.ID(e.AggregateID()))
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return nil
		}
		return err
	}
	usr, err := h.Users.ByID(ctx, bk.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		return err
	}
	body := fmt.Sprintf("You have 10 minutes to complete your booking with id %s before it expires.", bk.ID)
	return h.Email.Send(ctx, string(usr.Email), "Booking Reserved", body)
}

var _ Handler = (*BookingReservedHandler)(nil)

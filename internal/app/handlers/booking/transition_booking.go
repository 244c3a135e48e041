package booking

import (
	"context"
	"time"

	"bookify/internal/app/commands"
	"bookify/internal/app/middleware"
	"bookify/internal/app/outbox"
	"bookify/internal/app/uow"
	domainbooking "bookify/internal/domain/booking"
	"bookify/internal/domain/shared/result"
)

type TransitionResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

type ConfirmBookingCommand struct {
	BookingID       string
	IdempotencyKeyV string
}

func (c ConfirmBookingCommand) Key() string            { return "booking.confirm" }
func (c ConfirmBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c ConfirmBookingCommand) ResultPrototype() any   { return &TransitionResult{} }

type RejectBookingCommand struct {
	BookingID       string
	IdempotencyKeyV string
}

func (c RejectBookingCommand) Key() string            { return "booking.reject" }
func (c RejectBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c RejectBookingCommand) ResultPrototype() any   { return &TransitionResult{} }

type CancelBookingCommand struct {
	BookingID       string
	IdempotencyKeyV string
}

func (c CancelBookingCommand) Key() string            { return "booking.cancel" }
func (c CancelBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c CancelBookingCommand) ResultPrototype() any   { return &TransitionResult{} }

type CompleteBookingCommand struct {
	BookingID       string
	IdempotencyKeyV string
}

func (c CompleteBookingCommand) Key() string            { return "booking.complete" }
func (c CompleteBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c CompleteBookingCommand) ResultPrototype() any   { return &TransitionResult{} }

// TransitionHandlers applies the booking state machine: load, transition,
// save, stage the raised event. One instance backs the four commands.
type TransitionHandlers struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

type confirmHandler struct{ *TransitionHandlers }
type rejectHandler struct{ *TransitionHandlers }
type cancelHandler struct{ *TransitionHandlers }
type completeHandler struct{ *TransitionHandlers }

func (h confirmHandler) Handle(ctx context.Context, cmd ConfirmBookingCommand) (*TransitionResult, error) {
	return h.apply(ctx, cmd.BookingID, (*domainbooking.Booking).Confirm)
}

func (h rejectHandler) Handle(ctx context.Context, cmd RejectBookingCommand) (*TransitionResult, error) {
	return h.apply(ctx, cmd.BookingID, (*domainbooking.Booking).Reject)
}

func (h cancelHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*TransitionResult, error) {
	return h.apply(ctx, cmd.BookingID, (*domainbooking.Booking).Cancel)
}

func (h completeHandler) Handle(ctx context.Context, cmd CompleteBookingCommand) (*TransitionResult, error) {
	return h.apply(ctx, cmd.BookingID, (*domainbooking.Booking).Complete)
}

func (h *TransitionHandlers) Confirm() commands.Handler[ConfirmBookingCommand, *TransitionResult] {
	return confirmHandler{h}
}

func (h *TransitionHandlers) Reject() commands.Handler[RejectBookingCommand, *TransitionResult] {
	return rejectHandler{h}
}

func (h *TransitionHandlers) Cancel() commands.Handler[CancelBookingCommand, *TransitionResult] {
	return cancelHandler{h}
}

func (h *TransitionHandlers) Complete() commands.Handler[CompleteBookingCommand, *TransitionResult] {
	return completeHandler{h}
}

func (h *TransitionHandlers) apply(ctx context.Context, bookingID string, transition func(*domainbooking.Booking, time.Time) result.Result) (*TransitionResult, error) {
	unit, managed, err := beginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	bk, err := unit.Bookings().ByID(ctx, domainbooking.ID(bookingID))
	if err != nil {
		return nil, err
	}

	if res := transition(bk, h.now()); res.IsFailure() {
		return nil, res.Err()
	}

	if err := unit.Bookings().Save(ctx, bk); err != nil {
		return nil, err
	}

	raised := bk.PendingEvents()
	bk.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), raised); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &TransitionResult{BookingID: string(bk.ID), Status: string(bk.Status)}, nil
}

func (h *TransitionHandlers) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *TransitionHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ middleware.IdempotentCommand = (*ConfirmBookingCommand)(nil)
var _ middleware.IdempotentCommand = (*RejectBookingCommand)(nil)
var _ middleware.IdempotentCommand = (*CancelBookingCommand)(nil)
var _ middleware.IdempotentCommand = (*CompleteBookingCommand)(nil)

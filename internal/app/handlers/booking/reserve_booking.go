package booking

import (
	"context"
	"errors"
	"time"

	"bookify/internal/app/commands"
	"bookify/internal/app/middleware"
	"bookify/internal/app/outbox"
	"bookify/internal/app/uow"
	domainapartment "bookify/internal/domain/apartment"
	domainbooking "bookify/internal/domain/booking"
	domainrange "bookify/internal/domain/shared/daterange"
	domainuser "bookify/internal/domain/user"
)

const reserveBookingKey = "booking.reserve"

type ReserveBookingCommand struct {
	CommandID       string
	ApartmentID     string
	UserID          string
	StartDate       time.Time
	EndDate         time.Time
	IdempotencyKeyV string
}

func (c ReserveBookingCommand) Key() string { return reserveBookingKey }

func (c ReserveBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c ReserveBookingCommand) ResultPrototype() any { return &ReserveBookingResult{} }

type ReserveBookingResult struct {
	BookingID string `json:"booking_id"`
}

var ErrUnitOfWorkRequired = errors.New("booking: unit of work required")

// ReserveBookingHandler validates the stay, prices it and creates the
// booking aggregate in its initial state. Raised events are staged in the
// outbox inside the same transaction; dispatch happens after commit.
type ReserveBookingHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *ReserveBookingHandler) Handle(ctx context.Context, cmd ReserveBookingCommand) (*ReserveBookingResult, error) {
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

	duration, err := domainrange.New(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, err
	}

	usr, err := unit.Users().ByID(ctx, domainuser.ID(cmd.UserID))
	if err != nil {
		return nil, err
	}
	apt, err := unit.Apartments().ByID(ctx, domainapartment.ID(cmd.ApartmentID))
	if err != nil {
		return nil, err
	}

	// The overlap check and the reservation write are two steps; the
	// persistence layer's version check guards the race between them.
	taken, err := unit.Bookings().Overlapping(ctx, apt.ID, duration)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domainbooking.ErrOverlap
	}

	now := h.now()
	pricing := domainbooking.CalculatePrice(apt, duration)
	bk := domainbooking.Reserve(apt.ID, usr.ID, duration, now, pricing)

	if err := unit.Bookings().Save(ctx, bk); err != nil {
		return nil, err
	}
	apt.MarkBooked(now)
	if err := unit.Apartments().Save(ctx, apt); err != nil {
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

	return &ReserveBookingResult{BookingID: string(bk.ID)}, nil
}

func (h *ReserveBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *ReserveBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

// beginUnit reuses a unit of work already present in context (the
// transaction middleware puts one there) or starts its own.
func beginUnit(ctx context.Context, factory uow.Factory, opts uow.TxOptions) (uow.UnitOfWork, bool, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, false, nil
	}
	if factory == nil {
		return nil, false, ErrUnitOfWorkRequired
	}
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	return unit, true, nil
}

var _ commands.Handler[ReserveBookingCommand, *ReserveBookingResult] = (*ReserveBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*ReserveBookingCommand)(nil)

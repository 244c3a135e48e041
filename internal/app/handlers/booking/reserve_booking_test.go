package booking

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookify/internal/app/uow"
	domainapartment "bookify/internal/domain/apartment"
	domainbooking "bookify/internal/domain/booking"
	domainrange "bookify/internal/domain/shared/daterange"
	"bookify/internal/domain/shared/money"
	domainuser "bookify/internal/domain/user"
	"bookify/internal/infra/storage/memory"
)

type fixture struct {
	factory memory.Factory
	outbox  *memory.Outbox
	user    *domainuser.User
	apt     *domainapartment.Apartment
}

var handlerClock = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	bookings := memory.NewBookingRepository()
	users := memory.NewUserRepository()
	apartments := memory.NewApartmentRepository()

	res := domainuser.Register("Ada", "Lovelace", "ada@example.com", handlerClock)
	require.True(t, res.IsSuccess())
	usr := res.Value()
	usr.ClearEvents()
	require.NoError(t, users.Add(ctx, usr))

	apt := &domainapartment.Apartment{
		ID:          "apt-1",
		Name:        "Old Town Loft",
		Price:       money.New(10000, money.USD),
		CleaningFee: money.New(2000, money.USD),
		Amenities:   []domainapartment.Amenity{domainapartment.AmenityGardenView, domainapartment.AmenityParking},
	}
	require.NoError(t, apartments.Save(ctx, apt))

	return fixture{
		factory: memory.Factory{
			BookingRepo:   bookings,
			UserRepo:      users,
			ApartmentRepo: apartments,
		},
		outbox: memory.NewOutbox(),
		user:   usr,
		apt:    apt,
	}
}

func (f fixture) reserveHandler() *ReserveBookingHandler {
	return &ReserveBookingHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Now:        func() time.Time { return handlerClock },
	}
}

func (f fixture) reserveCommand(startDay, endDay int) ReserveBookingCommand {
	return ReserveBookingCommand{
		CommandID:   "cmd-1",
		ApartmentID: string(f.apt.ID),
		UserID:      string(f.user.ID),
		StartDate:   time.Date(2026, time.March, startDay, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, time.March, endDay, 0, 0, 0, 0, time.UTC),
	}
}

func TestReserveBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.reserveHandler().Handle(ctx, f.reserveCommand(10, 13))
	require.NoError(t, err)
	require.NotEmpty(t, res.BookingID)

	bk, err := f.factory.BookingRepo.ByID(ctx, domainbooking.ID(res.BookingID))
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusReserved, bk.Status)
	assert.Equal(t, f.user.ID, bk.UserID)
	assert.Equal(t, money.New(30000, money.USD), bk.PriceForPeriod)
	assert.Equal(t, money.New(1800, money.USD), bk.AmenitiesUpCharge)
	assert.Equal(t, money.New(33800, money.USD), bk.TotalPrice)
	assert.Empty(t, bk.PendingEvents(), "events must move to the outbox")

	apt, err := f.factory.ApartmentRepo.ByID(ctx, f.apt.ID)
	require.NoError(t, err)
	require.NotNil(t, apt.LastBookedOn)
	assert.Equal(t, handlerClock, *apt.LastBookedOn)
}

func TestReserveBookingStagesEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.reserveHandler().Handle(ctx, f.reserveCommand(10, 13))
	require.NoError(t, err)

	records, err := f.outbox.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "booking.reserved", records[0].Name)
	assert.Equal(t, res.BookingID, records[0].Aggregate)

	var payload struct {
		BookingID string `json:"booking_id"`
	}
	require.NoError(t, json.Unmarshal(records[0].Payload, &payload))
	assert.Equal(t, res.BookingID, payload.BookingID)

	again, err := f.outbox.Drain(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestReserveBookingOverlapRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.reserveHandler()

	_, err := h.Handle(ctx, f.reserveCommand(10, 13))
	require.NoError(t, err)

	_, err = h.Handle(ctx, f.reserveCommand(12, 15))
	assert.ErrorIs(t, err, domainbooking.ErrOverlap)
}

func TestReserveBookingBackToBackAllowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.reserveHandler()

	_, err := h.Handle(ctx, f.reserveCommand(10, 13))
	require.NoError(t, err)

	_, err = h.Handle(ctx, f.reserveCommand(13, 15))
	assert.NoError(t, err)
}

func TestReserveBookingUnknownUser(t *testing.T) {
	f := newFixture(t)
	cmd := f.reserveCommand(10, 13)
	cmd.UserID = "missing"

	_, err := f.reserveHandler().Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domainuser.ErrNotFound)
}

func TestReserveBookingUnknownApartment(t *testing.T) {
	f := newFixture(t)
	cmd := f.reserveCommand(10, 13)
	cmd.ApartmentID = "missing"

	_, err := f.reserveHandler().Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domainapartment.ErrNotFound)
}

func TestReserveBookingReversedDates(t *testing.T) {
	f := newFixture(t)

	_, err := f.reserveHandler().Handle(context.Background(), f.reserveCommand(13, 10))
	assert.ErrorIs(t, err, domainrange.ErrEndBeforeStart)
}

func TestReserveBookingReusesContextUnit(t *testing.T) {
	f := newFixture(t)
	unit, err := f.factory.Begin(context.Background(), uow.TxOptions{})
	require.NoError(t, err)
	ctx := uow.ContextWithUnitOfWork(context.Background(), unit)

	res, err := f.reserveHandler().Handle(ctx, f.reserveCommand(10, 13))
	require.NoError(t, err)
	assert.NotEmpty(t, res.BookingID)
}

package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "bookify/internal/domain/booking"
)

func (f fixture) transitionHandlers(now time.Time) *TransitionHandlers {
	return &TransitionHandlers{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Now:        func() time.Time { return now },
	}
}

func (f fixture) reserve(t *testing.T) string {
	t.Helper()
	res, err := f.reserveHandler().Handle(context.Background(), f.reserveCommand(10, 13))
	require.NoError(t, err)
	_, err = f.outbox.Drain(context.Background())
	require.NoError(t, err)
	return res.BookingID
}

func TestConfirmBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.reserve(t)

	res, err := f.transitionHandlers(handlerClock).Confirm().Handle(ctx, ConfirmBookingCommand{BookingID: id})
	require.NoError(t, err)
	assert.Equal(t, string(domainbooking.StatusConfirmed), res.Status)

	records, err := f.outbox.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "booking.confirmed", records[0].Name)
}

func TestConfirmBookingTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.reserve(t)
	h := f.transitionHandlers(handlerClock)

	_, err := h.Confirm().Handle(ctx, ConfirmBookingCommand{BookingID: id})
	require.NoError(t, err)

	_, err = h.Confirm().Handle(ctx, ConfirmBookingCommand{BookingID: id})
	assert.ErrorIs(t, err, domainbooking.ErrNotReserved)
}

func TestRejectBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.reserve(t)

	res, err := f.transitionHandlers(handlerClock).Reject().Handle(ctx, RejectBookingCommand{BookingID: id})
	require.NoError(t, err)
	assert.Equal(t, string(domainbooking.StatusRejected), res.Status)
}

func TestCancelBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.reserve(t)

	res, err := f.transitionHandlers(handlerClock).Cancel().Handle(ctx, CancelBookingCommand{BookingID: id})
	require.NoError(t, err)
	assert.Equal(t, string(domainbooking.StatusCancelled), res.Status)

	records, err := f.outbox.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "booking.cancelled", records[0].Name)
}

func TestCancelAfterStayStartedFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.reserve(t)

	late := time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC)
	_, err := f.transitionHandlers(late).Cancel().Handle(ctx, CancelBookingCommand{BookingID: id})
	assert.ErrorIs(t, err, domainbooking.ErrAlreadyStarted)
}

func TestCompleteBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.reserve(t)
	h := f.transitionHandlers(handlerClock)

	_, err := h.Confirm().Handle(ctx, ConfirmBookingCommand{BookingID: id})
	require.NoError(t, err)
	_, err = f.outbox.Drain(ctx)
	require.NoError(t, err)

	during := time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC)
	res, err := f.transitionHandlers(during).Complete().Handle(ctx, CompleteBookingCommand{BookingID: id})
	require.NoError(t, err)
	assert.Equal(t, string(domainbooking.StatusCompleted), res.Status)

	records, err := f.outbox.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "booking.completed", records[0].Name)
}

func TestCompleteBeforeStayStartsFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.reserve(t)
	h := f.transitionHandlers(handlerClock)

	_, err := h.Confirm().Handle(ctx, ConfirmBookingCommand{BookingID: id})
	require.NoError(t, err)

	_, err = h.Complete().Handle(ctx, CompleteBookingCommand{BookingID: id})
	assert.ErrorIs(t, err, domainbooking.ErrNotStarted)
}

func TestTransitionUnknownBooking(t *testing.T) {
	f := newFixture(t)

	_, err := f.transitionHandlers(handlerClock).Confirm().Handle(context.Background(), ConfirmBookingCommand{BookingID: "missing"})
	assert.ErrorIs(t, err, domainbooking.ErrNotFound)
}

func TestFailedTransitionStagesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.reserve(t)

	_, err := f.transitionHandlers(handlerClock).Complete().Handle(ctx, CompleteBookingCommand{BookingID: id})
	require.Error(t, err)

	records, err := f.outbox.Drain(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGetBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.reserve(t)

	h := &GetBookingHandler{UoWFactory: f.factory}
	res, err := h.Handle(ctx, GetBookingQuery{BookingID: id})
	require.NoError(t, err)

	assert.Equal(t, id, res.ID)
	assert.Equal(t, string(f.user.ID), res.UserID)
	assert.Equal(t, string(f.apt.ID), res.ApartmentID)
	assert.Equal(t, string(domainbooking.StatusReserved), res.Status)
	assert.Equal(t, int64(30000), res.PriceAmount)
	assert.Equal(t, "USD", res.PriceCurrency)
	assert.Equal(t, int64(33800), res.TotalPriceAmount)
	assert.Equal(t, "2026-03-10", res.DurationStart)
	assert.Equal(t, "2026-03-13", res.DurationEnd)
	assert.Nil(t, res.ConfirmedOnUTC)
}

func TestGetBookingNotFound(t *testing.T) {
	f := newFixture(t)

	h := &GetBookingHandler{UoWFactory: f.factory}
	_, err := h.Handle(context.Background(), GetBookingQuery{BookingID: "missing"})
	assert.ErrorIs(t, err, domainbooking.ErrNotFound)
}

package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookify/internal/app/notify"
	domainbooking "bookify/internal/domain/booking"
	"bookify/internal/domain/shared/events"
	domainuser "bookify/internal/domain/user"
	"bookify/internal/infra/storage/memory"
)

type sentMail struct {
	recipient string
	subject   string
	body      string
}

type recordingSender struct {
	sent []sentMail
	err  error
}

func (s *recordingSender) Send(ctx context.Context, recipient, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{recipient: recipient, subject: subject, body: body})
	return nil
}

func reservedNotice(bookingID string) notify.Notice {
	return notify.Notice{Name: "booking.reserved", Aggregate: bookingID, At: time.Now().UTC()}
}

func seedBookingAndUser(t *testing.T, bookings *memory.BookingRepository, users *memory.UserRepository) *domainbooking.Booking {
	t.Helper()
	ctx := context.Background()

	res := domainuser.Register("Ada", "Lovelace", "ada@example.com", time.Now())
	require.True(t, res.IsSuccess())
	usr := res.Value()
	usr.ClearEvents()
	require.NoError(t, users.Add(ctx, usr))

	bk := &domainbooking.Booking{
		ID:          "bk-1",
		ApartmentID: "apt-1",
		UserID:      usr.ID,
		Status:      domainbooking.StatusReserved,
	}
	require.NoError(t, bookings.Save(ctx, bk))
	return bk
}

func TestBookingReservedSendsEmail(t *testing.T) {
	bookings := memory.NewBookingRepository()
	users := memory.NewUserRepository()
	bk := seedBookingAndUser(t, bookings, users)
	sender := &recordingSender{}

	h := &notify.BookingReservedHandler{Bookings: bookings, Users: users, Email: sender}
	err := h.Handle(context.Background(), reservedNotice(string(bk.ID)))

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ada@example.com", sender.sent[0].recipient)
	assert.Equal(t, "Booking Reserved", sender.sent[0].subject)
	assert.Contains(t, sender.sent[0].body, string(bk.ID))
	assert.Contains(t, sender.sent[0].body, "10 minutes")
}

func TestBookingReservedMissingBookingIsBenign(t *testing.T) {
	sender := &recordingSender{}
	h := &notify.BookingReservedHandler{
		Bookings: memory.NewBookingRepository(),
		Users:    memory.NewUserRepository(),
		Email:    sender,
	}

	err := h.Handle(context.Background(), reservedNotice("gone"))

	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestBookingReservedMissingUserIsBenign(t *testing.T) {
	bookings := memory.NewBookingRepository()
	bk := &domainbooking.Booking{ID: "bk-1", UserID: "gone", Status: domainbooking.StatusReserved}
	require.NoError(t, bookings.Save(context.Background(), bk))
	sender := &recordingSender{}

	h := &notify.BookingReservedHandler{
		Bookings: bookings,
		Users:    memory.NewUserRepository(),
		Email:    sender,
	}

	err := h.Handle(context.Background(), reservedNotice("bk-1"))

	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestBookingReservedPropagatesSendFailure(t *testing.T) {
	bookings := memory.NewBookingRepository()
	users := memory.NewUserRepository()
	bk := seedBookingAndUser(t, bookings, users)
	sender := &recordingSender{err: errors.New("smtp down")}

	h := &notify.BookingReservedHandler{Bookings: bookings, Users: users, Email: sender}
	err := h.Handle(context.Background(), reservedNotice(string(bk.ID)))

	assert.Error(t, err)
}

func TestDispatcherSwallowsHandlerFailures(t *testing.T) {
	d := notify.NewDispatcher(nil)
	calls := 0
	d.Register("booking.reserved", handlerFunc(func(ctx context.Context) error {
		calls++
		return errors.New("boom")
	}))
	d.Register("booking.reserved", handlerFunc(func(ctx context.Context) error {
		calls++
		return nil
	}))

	d.Dispatch(context.Background(), reservedNotice("bk-1"))

	assert.Equal(t, 2, calls)
}

func TestDispatcherIgnoresUnregisteredEvents(t *testing.T) {
	d := notify.NewDispatcher(nil)
	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), notify.Notice{Name: "booking.completed"})
	})
}

type handlerFunc func(ctx context.Context) error

func (f handlerFunc) Handle(ctx context.Context, _ events.Event) error {
	return f(ctx)
}

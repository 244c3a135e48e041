package middleware_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookify/internal/app/commands"
	"bookify/internal/app/middleware"
	"bookify/internal/app/notify"
	appoutbox "bookify/internal/app/outbox"
	"bookify/internal/app/uow"
	"bookify/internal/domain/shared/events"
	"bookify/internal/infra/storage/memory"
)

type testCommand struct {
	key   string
	idemp string
}

func (c testCommand) Key() string            { return c.key }
func (c testCommand) IdempotencyKey() string { return c.idemp }
func (c testCommand) ResultPrototype() any   { return &testResult{} }

type testResult struct {
	Value string `json:"value"`
}

type busFunc func(ctx context.Context, cmd commands.Command) (any, error)

func (f busFunc) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	return f(ctx, cmd)
}

func TestIdempotencyReplaysStoredResult(t *testing.T) {
	store := memory.NewIdempotencyStore()
	calls := 0
	base := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		calls++
		return &testResult{Value: "first"}, nil
	})
	bus := middleware.ChainCommands(base, middleware.Idempotency(store, nil))
	cmd := testCommand{key: "test.cmd", idemp: "idem-1"}

	first, err := bus.Dispatch(context.Background(), cmd)
	require.NoError(t, err)
	second, err := bus.Dispatch(context.Background(), cmd)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first.(*testResult).Value, second.(*testResult).Value)
}

func TestIdempotencyReplaysStoredFailure(t *testing.T) {
	store := memory.NewIdempotencyStore()
	calls := 0
	base := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		calls++
		return nil, errors.New("boom")
	})
	bus := middleware.ChainCommands(base, middleware.Idempotency(store, nil))
	cmd := testCommand{key: "test.cmd", idemp: "idem-1"}

	_, err := bus.Dispatch(context.Background(), cmd)
	require.Error(t, err)
	_, err = bus.Dispatch(context.Background(), cmd)
	require.EqualError(t, err, "boom")

	assert.Equal(t, 1, calls)
}

func TestIdempotencySkipsWithoutKey(t *testing.T) {
	store := memory.NewIdempotencyStore()
	calls := 0
	base := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		calls++
		return &testResult{}, nil
	})
	bus := middleware.ChainCommands(base, middleware.Idempotency(store, nil))
	cmd := testCommand{key: "test.cmd"}

	_, err := bus.Dispatch(context.Background(), cmd)
	require.NoError(t, err)
	_, err = bus.Dispatch(context.Background(), cmd)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestTransactionInjectsUnitAndCommits(t *testing.T) {
	factory := memory.Factory{
		BookingRepo:   memory.NewBookingRepository(),
		UserRepo:      memory.NewUserRepository(),
		ApartmentRepo: memory.NewApartmentRepository(),
	}
	var seen uow.UnitOfWork
	base := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		unit, ok := uow.FromContext(ctx)
		require.True(t, ok)
		seen = unit
		return &testResult{}, nil
	})
	bus := middleware.ChainCommands(base, middleware.Transaction(factory, nil))

	_, err := bus.Dispatch(context.Background(), testCommand{key: "test.cmd"})
	require.NoError(t, err)
	assert.NotNil(t, seen)
}

type countingHandler struct {
	seen []events.Event
}

func (h *countingHandler) Handle(ctx context.Context, e events.Event) error {
	h.seen = append(h.seen, e)
	return nil
}

func stagedRecord(name, aggregate string) appoutbox.EventRecord {
	return appoutbox.EventRecord{
		ID:         "rec-1",
		Name:       name,
		Aggregate:  aggregate,
		OccurredAt: time.Now().UTC(),
	}
}

func TestDispatchEventsRunsAfterSuccess(t *testing.T) {
	box := memory.NewOutbox()
	dispatcher := notify.NewDispatcher(nil)
	handler := &countingHandler{}
	dispatcher.Register("booking.reserved", handler)

	base := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		require.NoError(t, box.Add(ctx, stagedRecord("booking.reserved", "bk-1")))
		return &testResult{}, nil
	})
	bus := middleware.ChainCommands(base, middleware.DispatchEvents(box, dispatcher))

	_, err := bus.Dispatch(context.Background(), testCommand{key: "test.cmd"})
	require.NoError(t, err)

	require.Len(t, handler.seen, 1)
	assert.Equal(t, "booking.reserved", handler.seen[0].EventName())
	assert.Equal(t, "bk-1", handler.seen[0].AggregateID())
}

func TestDispatchEventsKeepsRecordsOnFailure(t *testing.T) {
	box := memory.NewOutbox()
	dispatcher := notify.NewDispatcher(nil)
	handler := &countingHandler{}
	dispatcher.Register("booking.reserved", handler)

	base := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		require.NoError(t, box.Add(ctx, stagedRecord("booking.reserved", "bk-1")))
		return nil, errors.New("command failed")
	})
	bus := middleware.ChainCommands(base, middleware.DispatchEvents(box, dispatcher))

	_, err := bus.Dispatch(context.Background(), testCommand{key: "test.cmd"})
	require.Error(t, err)
	assert.Empty(t, handler.seen)

	records, err := box.Drain(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestChainOrderDispatchOutsideTransaction(t *testing.T) {
	factory := memory.Factory{
		BookingRepo:   memory.NewBookingRepository(),
		UserRepo:      memory.NewUserRepository(),
		ApartmentRepo: memory.NewApartmentRepository(),
	}
	box := memory.NewOutbox()
	dispatcher := notify.NewDispatcher(nil)
	handler := &countingHandler{}
	dispatcher.Register("booking.reserved", handler)

	base := busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
		_, ok := uow.FromContext(ctx)
		require.True(t, ok)
		require.NoError(t, box.Add(ctx, stagedRecord("booking.reserved", "bk-1")))
		return &testResult{}, nil
	})
	bus := middleware.ChainCommands(base,
		middleware.DispatchEvents(box, dispatcher),
		middleware.Transaction(factory, nil),
	)

	_, err := bus.Dispatch(context.Background(), testCommand{key: "test.cmd"})
	require.NoError(t, err)
	assert.Len(t, handler.seen, 1)
}

package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingCommand struct {
	Message string
}

func (pingCommand) Key() string { return "test.ping" }

type pingResult struct {
	Echo string
}

type pingHandler struct{}

func (pingHandler) Handle(ctx context.Context, cmd pingCommand) (*pingResult, error) {
	return &pingResult{Echo: cmd.Message}, nil
}

func TestDispatchRoutesToHandler(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler(bus, pingCommand{}.Key(), pingHandler{})

	res, err := Dispatch[pingCommand, *pingResult](context.Background(), bus, pingCommand{Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Echo)
}

func TestDispatchUnregisteredCommand(t *testing.T) {
	bus := NewInMemoryBus()

	_, err := Dispatch[pingCommand, *pingResult](context.Background(), bus, pingCommand{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Command is a write request routed by its key.
type Command interface {
	Key() string
}

// Handler processes one command type.
type Handler[C Command, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// Bus routes commands to their registered handler.
type Bus interface {
	Dispatch(ctx context.Context, cmd Command) (any, error)
}

var ErrHandlerNotFound = errors.New("commands: no handler registered for command")

type handlerFunc func(ctx context.Context, cmd Command) (any, error)

// InMemoryBus is a simple synchronous command bus.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string]handlerFunc
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{handlers: make(map[string]handlerFunc)}
}

// RegisterHandler binds a typed handler to a command key.
func RegisterHandler[C Command, R any](bus *InMemoryBus, key string, h Handler[C, R]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[key] = func(ctx context.Context, cmd Command) (any, error) {
		typed, ok := cmd.(C)
		if !ok {
			return nil, fmt.Errorf("commands: %q dispatched with unexpected type %T", key, cmd)
		}
		return h.Handle(ctx, typed)
	}
}

func (b *InMemoryBus) Dispatch(ctx context.Context, cmd Command) (any, error) {
	b.mu.RLock()
	h, ok := b.handlers[cmd.Key()]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrHandlerNotFound, cmd.Key())
	}
	return h(ctx, cmd)
}

// Dispatch sends a command through any bus and asserts the result type.
func Dispatch[C Command, R any](ctx context.Context, bus Bus, cmd C) (R, error) {
	var zero R
	res, err := bus.Dispatch(ctx, cmd)
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	typed, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("commands: %q returned unexpected result type %T", cmd.Key(), res)
	}
	return typed, nil
}

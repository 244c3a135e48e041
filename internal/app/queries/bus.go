package queries

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Query is a read request routed by its key.
type Query interface {
	Key() string
}

// Handler answers one query type.
type Handler[Q Query, R any] interface {
	Handle(ctx context.Context, q Q) (R, error)
}

// Bus routes queries to their registered handler.
type Bus interface {
	Ask(ctx context.Context, q Query) (any, error)
}

var ErrHandlerNotFound = errors.New("queries: no handler registered for query")

type handlerFunc func(ctx context.Context, q Query) (any, error)

// InMemoryBus is a simple synchronous query bus.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string]handlerFunc
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{handlers: make(map[string]handlerFunc)}
}

// RegisterHandler binds a typed handler to a query key.
func RegisterHandler[Q Query, R any](bus *InMemoryBus, key string, h Handler[Q, R]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[key] = func(ctx context.Context, q Query) (any, error) {
		typed, ok := q.(Q)
		if !ok {
			return nil, fmt.Errorf("queries: %q asked with unexpected type %T", key, q)
		}
		return h.Handle(ctx, typed)
	}
}

func (b *InMemoryBus) Ask(ctx context.Context, q Query) (any, error) {
	b.mu.RLock()
	h, ok := b.handlers[q.Key()]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrHandlerNotFound, q.Key())
	}
	return h(ctx, q)
}

// Ask sends a query through any bus and asserts the result type.
func Ask[Q Query, R any](ctx context.Context, bus Bus, q Q) (R, error) {
	var zero R
	res, err := bus.Ask(ctx, q)
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	typed, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("queries: %q returned unexpected result type %T", q.Key(), res)
	}
	return typed, nil
}

package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"bookify/internal/domain/shared/events"
)

// Handler reacts to a dispatched domain event. Handlers must tolerate
// repeated delivery; the pipeline guarantees at-least-once, never
// exactly-once.
type Handler interface {
	Handle(ctx context.Context, e events.Event) error
}

// Notice is the transport-independent event shape handed to handlers. Both
// the in-process path (drained outbox records) and the Kafka consumer
// produce it.
type Notice struct {
	Name      string
	Aggregate string
	At        time.Time
}

func (n Notice) EventName() string     { return n.Name }
func (n Notice) AggregateID() string   { return n.Aggregate }
func (n Notice) OccurredAt() time.Time { return n.At }

// Dispatcher fans events out to the handlers registered for their name.
// Handler failures are logged and never propagate into the operation that
// raised the event.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

func (d *Dispatcher) Register(eventName string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventName] = append(d.handlers[eventName], h)
}

// Dispatch delivers each event to its handlers in order.
func (d *Dispatcher) Dispatch(ctx context.Context, evts ...events.Event) {
	for _, e := range evts {
		d.mu.RLock()
		handlers := d.handlers[e.EventName()]
		d.mu.RUnlock()
		for _, h := range handlers {
			if err := h.Handle(ctx, e); err != nil {
				d.logger.Error("event handler failed",
					"event", e.EventName(),
					"aggregate", e.AggregateID(),
					"error", err,
				)
			}
		}
	}
}

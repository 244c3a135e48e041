package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"bookify/internal/domain/shared/events"
)

// EventRecord is a domain event staged for delivery after commit.
type EventRecord struct {
	ID         string
	Name       string
	Aggregate  string
	Payload    []byte
	Headers    map[string]string
	OccurredAt time.Time
}

// Outbox stages event records inside the current transaction boundary.
type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
}

// Drainer hands back and clears staged records. The in-memory outbox
// implements it so in-process dispatch can run after the commit; durable
// outbox stores deliver through the poller instead.
type Drainer interface {
	Drain(ctx context.Context) ([]EventRecord, error)
}

// EventEncoder turns a domain event into a record.
type EventEncoder interface {
	Encode(e events.Event) (EventRecord, error)
}

type JSONEventEncoder struct{}

func (JSONEventEncoder) Encode(e events.Event) (EventRecord, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return EventRecord{}, err
	}
	return EventRecord{
		ID:         uuid.NewString(),
		Name:       e.EventName(),
		Aggregate:  e.AggregateID(),
		Payload:    payload,
		OccurredAt: e.OccurredAt(),
	}, nil
}

// RecordDomainEvents encodes and stages a drained event ledger.
func RecordDomainEvents(ctx context.Context, box Outbox, enc EventEncoder, evts []events.Event) error {
	for _, e := range evts {
		record, err := enc.Encode(e)
		if err != nil {
			return err
		}
		if err := box.Add(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

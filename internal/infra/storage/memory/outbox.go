package memory

import (
	"context"
	"sync"

	appoutbox "bookify/internal/app/outbox"
)

// Outbox keeps staged event records in memory until drained. Drain returns
// the records once and clears them, so a dispatch runs at most once per
// staged event; records stay put when the surrounding command fails before
// the drain.
type Outbox struct {
	mu      sync.Mutex
	records []appoutbox.EventRecord
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

func (o *Outbox) Drain(ctx context.Context) ([]appoutbox.EventRecord, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.records
	o.records = nil
	return out, nil
}

var _ appoutbox.Outbox = (*Outbox)(nil)
var _ appoutbox.Drainer = (*Outbox)(nil)

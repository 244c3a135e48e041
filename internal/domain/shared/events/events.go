package events

import "time"

// Event is a fact recorded by an aggregate state transition. Each variant
// carries the id of the aggregate it refers to.
type Event interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// Recorder is the per-aggregate event ledger. Aggregates embed it; only
// their own transition methods append. Collaborators drain the ledger
// (PendingEvents then ClearEvents) after a successful commit so events are
// never redelivered from the aggregate itself.
type Recorder struct {
	pending []Event
}

// Record appends an event to the ledger, preserving insertion order.
func (r *Recorder) Record(e Event) {
	r.pending = append(r.pending, e)
}

// PendingEvents returns a read-only snapshot of the recorded events.
func (r *Recorder) PendingEvents() []Event {
	out := make([]Event, len(r.pending))
	copy(out, r.pending)
	return out
}

// ClearEvents empties the ledger. Safe to call repeatedly.
func (r *Recorder) ClearEvents() {
	r.pending = nil
}

package middleware

import (
	"context"

	"bookify/internal/app/commands"
	"bookify/internal/app/notify"
	"bookify/internal/app/outbox"
	"bookify/internal/domain/shared/events"
)

// DispatchEvents drains the staged outbox records once the wrapped command
// has fully succeeded and hands them to the in-process dispatcher. Chain it
// outside Transaction: the drain then only runs after the commit is
// durable, and a failed commit leaves the staged events intact for retry.
func DispatchEvents(drainer outbox.Drainer, dispatcher *notify.Dispatcher) CommandMiddleware {
	if drainer == nil || dispatcher == nil {
		panic("middleware: drainer and dispatcher required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := nextFn(ctx, cmd)
			if err != nil {
				return nil, err
			}
			records, err := drainer.Drain(ctx)
			if err != nil {
				return nil, err
			}
			notices := make([]events.Event, 0, len(records))
			for _, rec := range records {
				notices = append(notices, notify.Notice{
					Name:      rec.Name,
					Aggregate: rec.Aggregate,
					At:        rec.OccurredAt,
				})
			}
			dispatcher.Dispatch(ctx, notices...)
			return res, nil
		})
	}
}

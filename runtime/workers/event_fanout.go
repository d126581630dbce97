package workers

import (
	"context"
	"log/slog"

	"anonchat/contract"
	"anonchat/domain/event"
)

// EventFanout broadcasts domain events to in-process consumers.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering, durability, or retries. EventFanout is not a message broker.
// It is intended for observability side effects (logs, stats projections),
// not for the delivery path itself.
type EventFanout struct {
	log    *slog.Logger
	events chan event.DomainEvent
	sinks  []contract.EventSink
}

func NewEventFanout(log *slog.Logger, events chan event.DomainEvent) *EventFanout {
	return &EventFanout{log: log, events: events}
}

func (w *EventFanout) Add(sinks ...contract.EventSink) *EventFanout {
	w.sinks = append(w.sinks, sinks...)
	return w
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fan-out")
			return nil
		}
	}
}

// Fanout hands the event to every sink; a failing sink is logged and the
// rest still consume.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		if err := sink.Consume(ctx, evt); err != nil {
			w.log.Warn("Event sink failed", "kind", evt.Kind(), "err", err)
		}
	}
}

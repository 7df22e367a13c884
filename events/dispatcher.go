package events

import (
	"context"
	"log/slog"
)

const defaultQueueSize = 256

// Dispatcher fans events out to sinks on its own goroutine so publishers never wait
// on network delivery. A full queue drops the event with a warning.
type Dispatcher struct {
	sinks  []Publisher
	queue  chan Event
	logger *slog.Logger
}

func NewDispatcher(logger *slog.Logger, queueSize int, sinks ...Publisher) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		sinks:  sinks,
		queue:  make(chan Event, queueSize),
		logger: logger,
	}
}

func (d *Dispatcher) Publish(ctx context.Context, ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.logger.WarnContext(ctx, "event queue full, dropping event",
			slog.String("type", string(ev.Type)), slog.Int("tournament_id", ev.TournamentID))
	}
}

// Run delivers queued events until ctx is cancelled, then flushes what is already queued.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case ev := <-d.queue:
			d.deliver(ctx, ev)
		case <-ctx.Done():
			for {
				select {
				case ev := <-d.queue:
					d.deliver(context.Background(), ev)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev Event) {
	for _, sink := range d.sinks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.logger.ErrorContext(ctx, "event sink panicked",
						slog.String("type", string(ev.Type)), slog.Int("tournament_id", ev.TournamentID), slog.Any("panic", r))
				}
			}()
			sink.Publish(ctx, ev)
		}()
	}
}

// NewLogSink records every event at info level.
func NewLogSink(logger *slog.Logger) Publisher {
	return PublisherFunc(func(ctx context.Context, ev Event) {
		logger.InfoContext(ctx, "event published",
			slog.String("type", string(ev.Type)), slog.Int("tournament_id", ev.TournamentID))
	})
}

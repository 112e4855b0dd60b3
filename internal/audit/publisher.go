package audit

import (
	"context"
	"log/slog"
	"time"

	"civicledger/internal/platform/middleware"
)

// Publisher accepts events from services and hands them to the worker via a
// buffered channel. Emitting never blocks a request: if the buffer is full
// the event is dropped and counted in the log, because audit lag must not
// turn into user-facing latency.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewPublisher(buffer int, logger *slog.Logger) *Publisher {
	return &Publisher{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Emit enqueues an event, tagging it with the caller's device info when the
// request context carries any. Safe to call on a nil publisher so tests can
// skip audit wiring entirely.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if p == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if device := middleware.GetDevice(ctx); device.Browser != "" || device.OS != "" {
		if event.Metadata == nil {
			event.Metadata = map[string]string{}
		}
		if device.Browser != "" {
			event.Metadata["browser"] = device.Browser
		}
		if device.OS != "" {
			event.Metadata["os"] = device.OS
		}
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"event_type", string(event.Type),
			"subject", event.Subject,
		)
	}
}

// Inbox exposes the channel for the worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

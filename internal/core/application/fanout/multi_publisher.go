package fanout

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"mealdelivery/internal/core/domain/model/notification"
	"mealdelivery/internal/core/ports"
)

// mirroredWindow bounds how many recent event IDs are remembered. The
// channels of one event are published back to back, so a small window is
// enough to see every repeat.
const mirroredWindow = 256

// MultiPublisher publishes to a primary broker and mirrors each event to
// secondary sinks such as an event log. The primary hears the event once
// per channel; mirrors receive it once per event ID, tagged with the first
// channel it was published on. Events without an ID are mirrored every
// time. Only primary failures are returned.
type MultiPublisher struct {
	primary ports.EventPublisher
	mirrors []ports.EventPublisher
	logger  *slog.Logger

	mu       sync.Mutex
	mirrored map[string]struct{}
	recent   []string
	next     int
}

// NewMultiPublisher mirrors primary onto every sink in mirrors.
func NewMultiPublisher(logger *slog.Logger, primary ports.EventPublisher, mirrors ...ports.EventPublisher) *MultiPublisher {
	return &MultiPublisher{
		primary:  primary,
		mirrors:  mirrors,
		logger:   logger,
		mirrored: make(map[string]struct{}, mirroredWindow),
		recent:   make([]string, 0, mirroredWindow),
	}
}

// Publish sends event to the primary and, on the first sighting of its ID,
// to every mirror. Mirror failures are logged.
func (p *MultiPublisher) Publish(ctx context.Context, channel notification.Channel, event notification.Event) error {
	err := p.primary.Publish(ctx, channel, event)

	if !p.firstSighting(event.ID) {
		return err
	}

	var mirrorErrs []error
	for _, m := range p.mirrors {
		if mErr := m.Publish(ctx, channel, event); mErr != nil {
			mirrorErrs = append(mirrorErrs, mErr)
		}
	}
	if len(mirrorErrs) > 0 {
		p.logger.WarnContext(ctx, "event mirror failed",
			"channel", channel, "kind", event.Kind, "error", errors.Join(mirrorErrs...))
	}

	return err
}

// firstSighting records id and reports whether it was new. The oldest ID
// is forgotten once the window is full.
func (p *MultiPublisher) firstSighting(id string) bool {
	if id == "" {
		return true
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, seen := p.mirrored[id]; seen {
		return false
	}
	if len(p.recent) < mirroredWindow {
		p.recent = append(p.recent, id)
	} else {
		delete(p.mirrored, p.recent[p.next])
		p.recent[p.next] = id
		p.next = (p.next + 1) % mirroredWindow
	}
	p.mirrored[id] = struct{}{}
	return true
}

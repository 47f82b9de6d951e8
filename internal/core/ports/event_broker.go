package ports

import (
	"context"

	"mealdelivery/internal/core/domain/model/notification"
)

// EventPublisher delivers an event to every current subscriber of a channel.
type EventPublisher interface {
	// Publish returns once the backend accepted the event. Delivery to
	// subscribers is best-effort.
	Publish(ctx context.Context, channel notification.Channel, event notification.Event) error
}

// Subscription is a live feed of one channel. Events is closed after Close
// or when the subscribing context ends.
type Subscription interface {
	// Events yields events in publish order for this channel.
	Events() <-chan notification.Event

	// Close releases the subscription. It is safe to call more than once.
	Close() error
}

// EventBroker is a publish/subscribe backend.
type EventBroker interface {
	EventPublisher

	// Subscribe returns once the subscription is active, so events published
	// after it returns are not missed.
	Subscribe(ctx context.Context, channel notification.Channel) (Subscription, error)
}

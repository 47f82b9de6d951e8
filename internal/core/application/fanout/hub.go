package fanout

import (
	"context"
	"log/slog"

	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/notification"
	"mealdelivery/internal/core/ports"
)

// Hub hands out live subscriptions. Each caller gets exactly the channel
// its role and identity entitle it to.
type Hub struct {
	broker ports.EventBroker
	logger *slog.Logger
}

// NewHub serves subscriptions from broker.
func NewHub(broker ports.EventBroker, logger *slog.Logger) *Hub {
	return &Hub{broker: broker, logger: logger.With("component", "notification-hub")}
}

// Subscribe attaches actor to its channel: admins to the admin channel,
// clients and agents to their own. Anonymous callers get an
// AccessDeniedError. The subscription ends when ctx is done or when the
// caller closes it.
//
// Example:
//
//	sub, err := hub.Subscribe(r.Context(), actor)
//	if err != nil {
//	    return err
//	}
//	defer sub.Close()
//	for ev := range sub.Events() {
//	    // write ev to the client
//	}
func (h *Hub) Subscribe(ctx context.Context, actor account.Actor) (ports.Subscription, error) {
	channel, err := notification.ChannelFor(actor)
	if err != nil {
		return nil, err
	}

	sub, err := h.broker.Subscribe(ctx, channel)
	if err != nil {
		return nil, err
	}

	h.logger.DebugContext(ctx, "subscriber attached", "channel", channel, "role", actor.Role())
	return sub, nil
}

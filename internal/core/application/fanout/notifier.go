package fanout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/core/domain/model/notification"
	"mealdelivery/internal/core/domain/model/order"
	"mealdelivery/internal/core/ports"
)

// Notifier turns committed order changes into events and routes each one
// to the admin channel plus the channels of the order's client and agent.
// Publishing failures are logged, never returned.
type Notifier struct {
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewNotifier publishes through publisher, usually a broker or a MultiPublisher.
func NewNotifier(publisher ports.EventPublisher, logger *slog.Logger) *Notifier {
	return &Notifier{
		publisher: publisher,
		logger:    logger.With("component", "order-notifier"),
		now:       time.Now,
	}
}

// OrderCreated tells the admin channel and, unless the order is a guest
// order, the client's channel.
func (n *Notifier) OrderCreated(ctx context.Context, o *order.Order) {
	ev := n.event(notification.OrderCreated, o,
		fmt.Sprintf("Order %s placed, total %s", o.ID(), o.Total().StringFixed(2)))
	n.publish(ctx, ev, recipients(o, nil)...)
}

// OrderStatusChanged tells the admin, the client and the attached agent.
func (n *Notifier) OrderStatusChanged(ctx context.Context, o *order.Order, previous order.Status) {
	ev := n.event(notification.OrderStatusChanged, o,
		fmt.Sprintf("Order %s moved from %s to %s", o.ID(), previous, o.Status()))
	n.publish(ctx, ev, recipients(o, o.AgentID())...)
}

// OrderAssigned tells the admin, the client and the newly attached agent.
// The event carries the agent's name.
func (n *Notifier) OrderAssigned(ctx context.Context, o *order.Order, agent *account.Agent) {
	ev := n.event(notification.OrderAssigned, o,
		fmt.Sprintf("Order %s assigned to %s", o.ID(), agent.Name()))
	ev.AgentID = agent.ID().String()
	ev.AgentName = agent.Name()

	agentID := agent.ID()
	n.publish(ctx, ev, recipients(o, &agentID)...)
}

// OrderDelivered tells the admin, the client and the delivering agent.
func (n *Notifier) OrderDelivered(ctx context.Context, o *order.Order) {
	ev := n.event(notification.OrderDelivered, o, fmt.Sprintf("Order %s delivered", o.ID()))
	n.publish(ctx, ev, recipients(o, o.AgentID())...)
}

func (n *Notifier) event(kind notification.Kind, o *order.Order, message string) notification.Event {
	ev := notification.Event{
		ID:         kernel.NewUUID().String(),
		Kind:       kind,
		OrderID:    o.ID().String(),
		Status:     o.Status().String(),
		Total:      o.Total(),
		Message:    message,
		OccurredAt: n.now().UTC(),
	}
	if agentID := o.AgentID(); agentID != nil {
		ev.AgentID = agentID.String()
	}
	return ev
}

func (n *Notifier) publish(ctx context.Context, ev notification.Event, channels ...notification.Channel) {
	for _, ch := range channels {
		if err := n.publisher.Publish(ctx, ch, ev); err != nil {
			n.logger.WarnContext(ctx, "failed to publish order event",
				"channel", ch, "kind", ev.Kind, "order_id", ev.OrderID, "error", err)
		}
	}
}

// recipients is admin first, then the client unless the order is a guest
// order, then the agent when one is given.
func recipients(o *order.Order, agentID *kernel.UUID) []notification.Channel {
	channels := []notification.Channel{notification.AdminChannel}
	if clientID := o.ClientID(); clientID != nil {
		channels = append(channels, notification.ClientChannel(*clientID))
	}
	if agentID != nil {
		channels = append(channels, notification.AgentChannel(*agentID))
	}
	return channels
}

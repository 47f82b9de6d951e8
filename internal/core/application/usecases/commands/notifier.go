package commands

import (
	"context"

	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/order"
)

// OrderNotifier pushes committed order changes to live subscribers.
// Delivery is best effort; implementations log and swallow failures.
type OrderNotifier interface {
	// OrderCreated announces a newly placed order.
	OrderCreated(ctx context.Context, o *order.Order)

	// OrderStatusChanged announces a transition away from previous.
	OrderStatusChanged(ctx context.Context, o *order.Order, previous order.Status)

	// OrderAssigned announces that agent now carries the order.
	OrderAssigned(ctx context.Context, o *order.Order, agent *account.Agent)

	// OrderDelivered announces the hand-over to the client.
	OrderDelivered(ctx context.Context, o *order.Order)
}

// OrderUpdate is the outcome of a command that may attach an agent.
// AssignedAgent is nil unless the command itself attached one.
type OrderUpdate struct {
	Order         *order.Order
	AssignedAgent *account.Agent
}

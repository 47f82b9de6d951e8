package ports

import (
	"context"

	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add stores the order header and then every line in sequence.
	// Either all rows are written or none, provided the call runs inside a transaction.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the mutable part of an order: status, agent and delivery timestamp.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads the order with its lines or returns an object-not-found error.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate loads the order and holds a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// AssignIfUnassigned sets the agent only when the order has none yet.
	// It reports whether this call performed the assignment.
	AssignIfUnassigned(ctx context.Context, orderID, agentID kernel.UUID) (bool, error)

	// GetReadyUnassigned returns up to limit ready orders without an agent, oldest first.
	GetReadyUnassigned(ctx context.Context, limit int) ([]*order.Order, error)
}

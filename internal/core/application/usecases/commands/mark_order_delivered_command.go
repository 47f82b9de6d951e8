package commands

import (
	"errors"

	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/pkg/guard"
)

// ErrMarkOrderDeliveredCommandIsNotConstructed is returned by Validate for a zero-value MarkOrderDeliveredCommand.
var ErrMarkOrderDeliveredCommandIsNotConstructed = errors.New(
	"MarkOrderDeliveredCommand must be created via NewMarkOrderDeliveredCommand constructor",
)

// MarkOrderDeliveredCommand records the hand-over of an order to its client.
type MarkOrderDeliveredCommand struct {
	orderID kernel.UUID
	actor   account.Actor

	guard guard.ConstructorGuard
}

// NewMarkOrderDeliveredCommand checks the order identity. Whether actor is
// the assigned agent is decided by the handler.
func NewMarkOrderDeliveredCommand(orderID kernel.UUID, actor account.Actor) (MarkOrderDeliveredCommand, error) {
	if err := orderID.Validate(); err != nil {
		return MarkOrderDeliveredCommand{}, err
	}
	return MarkOrderDeliveredCommand{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate reports whether the command came from NewMarkOrderDeliveredCommand.
func (c MarkOrderDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkOrderDeliveredCommandIsNotConstructed)
}

// OrderID returns the order to close.
func (c MarkOrderDeliveredCommand) OrderID() kernel.UUID { return c.orderID }

// Actor returns the caller reporting the delivery.
func (c MarkOrderDeliveredCommand) Actor() account.Actor { return c.actor }

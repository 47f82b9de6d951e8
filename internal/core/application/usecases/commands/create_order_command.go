package commands

import (
	"errors"

	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/core/domain/model/order"
	"mealdelivery/internal/pkg/errs"
	"mealdelivery/internal/pkg/guard"
)

var (
	// ErrCreateOrderCommandIsNotConstructed is returned by Validate for a
	// zero-value CreateOrderCommand.
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)

	// ErrItemsAreRequired rejects a request with no items. It is checked first.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")

	// ErrRestaurantIsRequired rejects a request without a restaurant.
	ErrRestaurantIsRequired = errs.NewValueIsRequiredError("restaurant")

	// ErrDishNotFound is the cause when an item names a dish the catalog does not know.
	ErrDishNotFound = errors.New("dish does not exist")
)

// OrderItem is one requested dish with its quantity.
type OrderItem struct {
	DishID   kernel.UUID
	Quantity int
}

// CreateOrderCommand asks to place an order with a single restaurant.
// A nil client marks a guest order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(restaurantID, []OrderItem{{DishID: soup, Quantity: 2}}, &clientID, contact)
//	if err != nil {
//	    return fmt.Errorf("invalid order: %w", err)
//	}
//	placed, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct {
	restaurantID kernel.UUID
	items        []OrderItem
	clientID     *kernel.UUID
	contact      order.Contact

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand checks the request shape and stops at the first
// problem: items before restaurant. Dish-level checks need the catalog and
// happen in the handler.
func NewCreateOrderCommand(
	restaurantID kernel.UUID,
	items []OrderItem,
	clientID *kernel.UUID,
	contact order.Contact,
) (CreateOrderCommand, error) {
	if len(items) == 0 {
		return CreateOrderCommand{}, ErrItemsAreRequired
	}
	if restaurantID.Validate() != nil {
		return CreateOrderCommand{}, ErrRestaurantIsRequired
	}
	if clientID != nil {
		if err := clientID.Validate(); err != nil {
			return CreateOrderCommand{}, err
		}
	}

	cmd := CreateOrderCommand{
		restaurantID: restaurantID,
		items:        make([]OrderItem, len(items)),
		clientID:     clientID,
		contact:      contact,
		guard:        guard.NewConstructorGuard(),
	}
	copy(cmd.items, items)
	return cmd, nil
}

// Validate reports whether the command came from NewCreateOrderCommand.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// RestaurantID returns the restaurant the order is placed with.
func (c CreateOrderCommand) RestaurantID() kernel.UUID { return c.restaurantID }

// ClientID returns the ordering client, or nil for a guest order.
func (c CreateOrderCommand) ClientID() *kernel.UUID { return c.clientID }

// Contact returns the delivery details.
func (c CreateOrderCommand) Contact() order.Contact { return c.contact }

// Items returns a copy of the requested items in request order.
func (c CreateOrderCommand) Items() []OrderItem {
	items := make([]OrderItem, len(c.items))
	copy(items, c.items)
	return items
}

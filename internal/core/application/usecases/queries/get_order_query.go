// Package queries contains the read-only operations on orders. Handlers
// read through gorm with raw SQL and return flat views instead of
// aggregates, so they never take row locks.
package queries

import (
	"errors"
	"time"

	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrGetOrderQueryIsNotConstructed is returned by Validate for a zero-value GetOrderQuery.
var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery asks for one order on behalf of actor.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID, actor)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID
	actor   account.Actor

	guard guard.ConstructorGuard
}

// NewGetOrderQuery checks the order identity. Read access is decided by the handler.
func NewGetOrderQuery(orderID kernel.UUID, actor account.Actor) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

// Validate reports whether the query came from NewGetOrderQuery.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order.
func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// Actor returns the caller asking for it.
func (q GetOrderQuery) Actor() account.Actor { return q.actor }

// OrderLineView is one line of an OrderView with the current dish name.
type OrderLineView struct {
	DishID    kernel.UUID
	DishName  string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// OrderView is the full read model of an order. AgentName is empty while
// no agent is attached.
type OrderView struct {
	ID           kernel.UUID
	RestaurantID kernel.UUID
	ClientID     *kernel.UUID
	AgentID      *kernel.UUID
	AgentName    string
	Status       string
	Total        decimal.Decimal
	Address      string
	Phone        string
	Notes        string
	CreatedAt    time.Time
	DeliveredAt  *time.Time
	Lines        []OrderLineView
}

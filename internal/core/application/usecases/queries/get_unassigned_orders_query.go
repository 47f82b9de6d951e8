package queries

import (
	"errors"
	"time"

	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/pkg/errs"
	"mealdelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// MaxUnassignedOrdersLimit caps the page size of GetUnassignedOrdersQuery.
const MaxUnassignedOrdersLimit = 500

// ErrGetUnassignedOrdersQueryIsNotConstructed is returned by Validate for a
// zero-value GetUnassignedOrdersQuery.
var ErrGetUnassignedOrdersQueryIsNotConstructed = errors.New(
	"GetUnassignedOrdersQuery must be created via NewGetUnassignedOrdersQuery constructor",
)

// GetUnassignedOrdersQuery lists ready orders still waiting for an agent.
type GetUnassignedOrdersQuery struct {
	limit int
	actor account.Actor

	guard guard.ConstructorGuard
}

// NewGetUnassignedOrdersQuery accepts a limit in [1, MaxUnassignedOrdersLimit]
// and returns a ValueIsOutOfRangeError otherwise.
func NewGetUnassignedOrdersQuery(limit int, actor account.Actor) (GetUnassignedOrdersQuery, error) {
	if limit <= 0 || limit > MaxUnassignedOrdersLimit {
		return GetUnassignedOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxUnassignedOrdersLimit)
	}
	return GetUnassignedOrdersQuery{limit: limit, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

// Validate reports whether the query came from NewGetUnassignedOrdersQuery.
func (q GetUnassignedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUnassignedOrdersQueryIsNotConstructed)
}

// Limit returns the maximum number of orders to list.
func (q GetUnassignedOrdersQuery) Limit() int { return q.limit }

// Actor returns the caller asking for the list.
func (q GetUnassignedOrdersQuery) Actor() account.Actor { return q.actor }

// GetUnassignedOrdersQueryResponse is one waiting order.
type GetUnassignedOrdersQueryResponse struct {
	ID           kernel.UUID
	RestaurantID kernel.UUID
	Total        decimal.Decimal
	CreatedAt    time.Time
}

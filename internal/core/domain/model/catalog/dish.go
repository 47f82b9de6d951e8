// Package catalog is the read side of the restaurant menu as needed by
// ordering: which dishes exist, who serves them and what they cost.
package catalog

import (
	"errors"
	"fmt"

	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrDishIsUnavailable is returned by CheckOrderable for a dish taken off the menu.
	ErrDishIsUnavailable = errors.New("dish is not available")

	// ErrDishFromOtherVenue is returned by CheckOrderable when the dish is
	// served by a different restaurant than the order.
	ErrDishFromOtherVenue = errors.New("dish belongs to another restaurant")

	// ErrDishPriceIsNegative rejects a negative menu price.
	ErrDishPriceIsNegative = errors.New("dish price must not be negative")
)

// Dish is a menu entry of one restaurant.
type Dish struct {
	id           kernel.UUID
	restaurantID kernel.UUID
	name         string
	price        decimal.Decimal
	available    bool
}

// NewDish builds a dish as loaded from the catalog.
//
// Parameters:
//   - id, restaurantID: must both be valid identities
//   - name: display name, copied as is
//   - price: current menu price, never negative
//   - available: whether the dish may be ordered right now
func NewDish(id, restaurantID kernel.UUID, name string, price decimal.Decimal, available bool) (*Dish, error) {
	if err := errors.Join(id.Validate(), restaurantID.Validate()); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, errs.NewValueIsInvalidErrorWithCause("price", ErrDishPriceIsNegative)
	}
	return &Dish{id: id, restaurantID: restaurantID, name: name, price: price, available: available}, nil
}

// ID returns the dish identity.
func (d *Dish) ID() kernel.UUID { return d.id }

// RestaurantID returns the restaurant serving the dish.
func (d *Dish) RestaurantID() kernel.UUID { return d.restaurantID }

// Name returns the menu name.
func (d *Dish) Name() string { return d.name }

// Price returns the current menu price. Orders snapshot it into their lines.
func (d *Dish) Price() decimal.Decimal { return d.price }

// IsAvailable reports whether the dish may currently be ordered.
func (d *Dish) IsAvailable() bool { return d.available }

// CheckOrderable reports why the dish cannot be ordered from restaurantID.
func (d *Dish) CheckOrderable(restaurantID kernel.UUID) error {
	if !d.available {
		return fmt.Errorf("%w: %s", ErrDishIsUnavailable, d.id)
	}
	if !d.restaurantID.IsEqual(restaurantID) {
		return fmt.Errorf("%w: %s", ErrDishFromOtherVenue, d.id)
	}
	return nil
}

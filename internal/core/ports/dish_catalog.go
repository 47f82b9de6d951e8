package ports

import (
	"context"

	"mealdelivery/internal/core/domain/model/catalog"
	"mealdelivery/internal/core/domain/model/kernel"
)

// DishCatalog looks up dishes while an order is being priced.
type DishCatalog interface {
	// Get returns an object-not-found error for unknown dishes.
	Get(ctx context.Context, id kernel.UUID) (*catalog.Dish, error)
}

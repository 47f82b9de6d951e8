package catalog_test

import (
	"testing"

	"mealdelivery/internal/core/domain/model/catalog"
	"mealdelivery/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDish_CheckOrderable(t *testing.T) {
	restaurant := kernel.NewUUID()

	t.Run("available dish of the same restaurant", func(t *testing.T) {
		d, err := catalog.NewDish(kernel.NewUUID(), restaurant, "Ramen", decimal.NewFromInt(12), true)
		require.NoError(t, err)

		assert.NoError(t, d.CheckOrderable(restaurant))
	})

	t.Run("unavailable dish", func(t *testing.T) {
		d, err := catalog.NewDish(kernel.NewUUID(), restaurant, "Ramen", decimal.NewFromInt(12), false)
		require.NoError(t, err)

		assert.ErrorIs(t, d.CheckOrderable(restaurant), catalog.ErrDishIsUnavailable)
	})

	t.Run("dish of another restaurant", func(t *testing.T) {
		d, err := catalog.NewDish(kernel.NewUUID(), kernel.NewUUID(), "Ramen", decimal.NewFromInt(12), true)
		require.NoError(t, err)

		assert.ErrorIs(t, d.CheckOrderable(restaurant), catalog.ErrDishFromOtherVenue)
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		_, err := catalog.NewDish(kernel.NewUUID(), restaurant, "Ramen", decimal.NewFromInt(-1), true)

		assert.ErrorIs(t, err, catalog.ErrDishPriceIsNegative)
	})
}

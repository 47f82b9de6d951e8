package commands_test

import (
	"testing"

	"mealdelivery/internal/core/application/usecases/commands"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand(t *testing.T) {
	restaurant := kernel.NewUUID()
	items := []commands.OrderItem{{DishID: kernel.NewUUID(), Quantity: 1}}

	t.Run("valid guest order", func(t *testing.T) {
		cmd, err := commands.NewCreateOrderCommand(restaurant, items, nil, order.Contact{})

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Nil(t, cmd.ClientID())
		assert.Equal(t, items, cmd.Items())
	})

	t.Run("empty items are reported before a missing restaurant", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(kernel.UUID{}, nil, nil, order.Contact{})

		assert.ErrorIs(t, err, commands.ErrItemsAreRequired)
	})

	t.Run("missing restaurant", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(kernel.UUID{}, items, nil, order.Contact{})

		assert.ErrorIs(t, err, commands.ErrRestaurantIsRequired)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var cmd commands.CreateOrderCommand

		assert.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
	})
}

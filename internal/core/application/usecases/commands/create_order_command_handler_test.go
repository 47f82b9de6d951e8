package commands_test

import (
	"errors"
	"math"
	"testing"

	"mealdelivery/internal/core/application/usecases/commands"
	"mealdelivery/internal/core/domain/model/catalog"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/core/domain/model/order"
	"mealdelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type createOrderFixture struct {
	restaurant kernel.UUID
	soup       *catalog.Dish
	bread      *catalog.Dish
	dishes     *MockDishCatalog
	orders     *MockOrderRepository
	uow        *MockUoW
	notifier   *MockNotifier
	handler    commands.CreateOrderCommandHandler
}

func newCreateOrderFixture(t *testing.T) *createOrderFixture {
	t.Helper()
	f := &createOrderFixture{
		restaurant: kernel.NewUUID(),
		dishes:     new(MockDishCatalog),
		orders:     new(MockOrderRepository),
		notifier:   new(MockNotifier),
	}

	var err error
	f.soup, err = catalog.NewDish(kernel.NewUUID(), f.restaurant, "Soup", decimal.NewFromInt(1000), true)
	require.NoError(t, err)
	f.bread, err = catalog.NewDish(kernel.NewUUID(), f.restaurant, "Bread", decimal.NewFromInt(500), true)
	require.NoError(t, err)

	f.uow = transactionalUoW(f.orders, nil)
	f.uow.On("DishCatalog").Return(f.dishes)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(f.uow)

	f.handler = commands.NewCreateOrderCommandHandler(factory, f.notifier)
	return f
}

func (f *createOrderFixture) command(t *testing.T, client *kernel.UUID, items ...commands.OrderItem) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(f.restaurant, items, client, order.NewContact("1 Main St", "", ""))
	require.NoError(t, err)
	return cmd
}

func (f *createOrderFixture) assertNothingWritten(t *testing.T) {
	t.Helper()
	f.orders.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.notifier.AssertNotCalled(t, "OrderCreated", mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture(t)
	client := kernel.NewUUID()

	f.dishes.On("Get", ctx, f.soup.ID()).Return(f.soup, nil)
	f.dishes.On("Get", ctx, f.bread.ID()).Return(f.bread, nil)
	f.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.notifier.On("OrderCreated", ctx, mock.AnythingOfType("*order.Order")).Return().Once()

	placed, err := f.handler.Handle(ctx, f.command(t, &client,
		commands.OrderItem{DishID: f.soup.ID(), Quantity: 2},
		commands.OrderItem{DishID: f.bread.ID(), Quantity: 1},
	))

	require.NoError(t, err)
	assert.Equal(t, order.Pending, placed.Status())
	assert.True(t, decimal.NewFromInt(2500).Equal(placed.Total()))
	assert.True(t, placed.IsPlacedBy(client))
	assert.False(t, placed.HasAgent())

	lines := placed.Lines()
	require.Len(t, lines, 2)
	assert.True(t, decimal.NewFromInt(2000).Equal(lines[0].Subtotal()))
	assert.True(t, lines[1].DishID().IsEqual(f.bread.ID()))

	f.uow.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_GuestOrder(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture(t)

	f.dishes.On("Get", ctx, f.soup.ID()).Return(f.soup, nil)
	f.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.notifier.On("OrderCreated", ctx, mock.AnythingOfType("*order.Order")).Return().Once()

	placed, err := f.handler.Handle(ctx, f.command(t, nil, commands.OrderItem{DishID: f.soup.ID(), Quantity: 1}))

	require.NoError(t, err)
	assert.True(t, placed.IsGuest())
}

func TestCreateOrderCommandHandler_Handle_RejectsDishes(t *testing.T) {
	t.Run("dish from another restaurant", func(t *testing.T) {
		ctx := t.Context()
		f := newCreateOrderFixture(t)
		foreign, err := catalog.NewDish(kernel.NewUUID(), kernel.NewUUID(), "Pizza", decimal.NewFromInt(800), true)
		require.NoError(t, err)

		f.dishes.On("Get", ctx, f.soup.ID()).Return(f.soup, nil)
		f.dishes.On("Get", ctx, foreign.ID()).Return(foreign, nil)

		_, err = f.handler.Handle(ctx, f.command(t, nil,
			commands.OrderItem{DishID: f.soup.ID(), Quantity: 1},
			commands.OrderItem{DishID: foreign.ID(), Quantity: 1},
		))

		require.ErrorIs(t, err, catalog.ErrDishFromOtherVenue)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		f.assertNothingWritten(t)
	})

	t.Run("unavailable dish", func(t *testing.T) {
		ctx := t.Context()
		f := newCreateOrderFixture(t)
		soldOut, err := catalog.NewDish(kernel.NewUUID(), f.restaurant, "Pie", decimal.NewFromInt(300), false)
		require.NoError(t, err)
		f.dishes.On("Get", ctx, soldOut.ID()).Return(soldOut, nil)

		_, err = f.handler.Handle(ctx, f.command(t, nil, commands.OrderItem{DishID: soldOut.ID(), Quantity: 1}))

		require.ErrorIs(t, err, catalog.ErrDishIsUnavailable)
		f.assertNothingWritten(t)
	})

	t.Run("unknown dish", func(t *testing.T) {
		ctx := t.Context()
		f := newCreateOrderFixture(t)
		missing := kernel.NewUUID()
		f.dishes.On("Get", ctx, missing).Return(nil, errs.NewObjectNotFoundError("dish", missing))

		_, err := f.handler.Handle(ctx, f.command(t, nil, commands.OrderItem{DishID: missing, Quantity: 1}))

		require.ErrorIs(t, err, commands.ErrDishNotFound)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.NotErrorIs(t, err, errs.ErrObjectNotFound)
		f.assertNothingWritten(t)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		ctx := t.Context()
		f := newCreateOrderFixture(t)
		f.dishes.On("Get", ctx, f.soup.ID()).Return(f.soup, nil)

		_, err := f.handler.Handle(ctx, f.command(t, nil, commands.OrderItem{DishID: f.soup.ID(), Quantity: 0}))

		require.ErrorIs(t, err, order.ErrQuantityIsInvalid)
		f.assertNothingWritten(t)
	})

	t.Run("quantity the store cannot hold", func(t *testing.T) {
		ctx := t.Context()
		f := newCreateOrderFixture(t)
		f.dishes.On("Get", ctx, f.soup.ID()).Return(f.soup, nil)

		_, err := f.handler.Handle(ctx, f.command(t, nil, commands.OrderItem{DishID: f.soup.ID(), Quantity: math.MaxInt32 + 1}))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		f.assertNothingWritten(t)
	})

	t.Run("catalog failure is passed through", func(t *testing.T) {
		ctx := t.Context()
		f := newCreateOrderFixture(t)
		boom := errors.New("connection reset")
		f.dishes.On("Get", ctx, f.soup.ID()).Return(nil, boom)

		_, err := f.handler.Handle(ctx, f.command(t, nil, commands.OrderItem{DishID: f.soup.ID(), Quantity: 1}))

		require.ErrorIs(t, err, boom)
		f.assertNothingWritten(t)
	})
}

func TestCreateOrderCommandHandler_Handle_StoreFailure(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture(t)
	boom := errors.New("insert into order_lines failed")

	f.dishes.On("Get", ctx, f.soup.ID()).Return(f.soup, nil)
	f.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(boom).Once()

	placed, err := f.handler.Handle(ctx, f.command(t, nil, commands.OrderItem{DishID: f.soup.ID(), Quantity: 1}))

	require.ErrorIs(t, err, boom)
	assert.Nil(t, placed)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.uow.AssertCalled(t, "Rollback", ctx)
	f.notifier.AssertNotCalled(t, "OrderCreated", mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_InvalidCommand(t *testing.T) {
	f := newCreateOrderFixture(t)

	_, err := f.handler.Handle(t.Context(), commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	f.uow.AssertNotCalled(t, "Begin", mock.Anything)
}

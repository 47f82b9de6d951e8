package commands_test

import (
	"context"
	"testing"
	"time"

	"mealdelivery/internal/core/application/usecases/commands"
	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/catalog"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/core/domain/model/order"
	"mealdelivery/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) AssignIfUnassigned(ctx context.Context, orderID, agentID kernel.UUID) (bool, error) {
	args := m.Called(ctx, orderID, agentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) GetReadyUnassigned(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockAccountRepository struct{ mock.Mock }

func (m *MockAccountRepository) GetAgent(ctx context.Context, id kernel.UUID) (*account.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Agent), args.Error(1)
}

func (m *MockAccountRepository) GetAgentWorkloads(ctx context.Context) ([]account.Workload, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]account.Workload), args.Error(1)
}

func (m *MockAccountRepository) LockWorkloads(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockDishCatalog struct{ mock.Mock }

func (m *MockDishCatalog) Get(ctx context.Context, id kernel.UUID) (*catalog.Dish, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Dish), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) AccountRepository() ports.AccountRepository {
	args := m.Called()
	return args.Get(0).(ports.AccountRepository)
}

func (m *MockUoW) DishCatalog() ports.DishCatalog {
	args := m.Called()
	return args.Get(0).(ports.DishCatalog)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) OrderCreated(ctx context.Context, o *order.Order) {
	m.Called(ctx, o)
}

func (m *MockNotifier) OrderStatusChanged(ctx context.Context, o *order.Order, previous order.Status) {
	m.Called(ctx, o, previous)
}

func (m *MockNotifier) OrderAssigned(ctx context.Context, o *order.Order, agent *account.Agent) {
	m.Called(ctx, o, agent)
}

func (m *MockNotifier) OrderDelivered(ctx context.Context, o *order.Order) {
	m.Called(ctx, o)
}

// transactionalUoW wires a MockUoW that begins, hands out the given
// repositories any number of times and always accepts rollback.
func transactionalUoW(orders *MockOrderRepository, accounts *MockAccountRepository) *MockUoW {
	uow := new(MockUoW)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)
	if orders != nil {
		uow.On("OrderRepository").Return(orders)
	}
	if accounts != nil {
		uow.On("AccountRepository").Return(accounts)
	}
	return uow
}

func uowFactoryFor(uows ...*MockUoW) *MockUoWFactory {
	factory := new(MockUoWFactory)
	for _, uow := range uows {
		factory.On("Create").Return(uow).Once()
	}
	return factory
}

func actorFor(t *testing.T, role account.Role, id kernel.UUID) account.Actor {
	t.Helper()
	a, err := account.NewActor(id, role)
	require.NoError(t, err)
	return a
}

func adminActor(t *testing.T) account.Actor {
	return actorFor(t, account.RoleAdmin, kernel.NewUUID())
}

func newAgent(t *testing.T, id, name string) *account.Agent {
	t.Helper()
	uid, err := kernel.UUIDFromString(id)
	require.NoError(t, err)
	a, err := account.NewAgent(uid, name)
	require.NoError(t, err)
	return a
}

// orderIn restores an order with one 10.00 line in the given state.
func orderIn(t *testing.T, status order.Status, clientID, agentID *kernel.UUID) *order.Order {
	t.Helper()
	line, err := order.NewLine(kernel.NewUUID(), kernel.NewUUID(), 1, decimal.NewFromInt(10))
	require.NoError(t, err)

	var deliveredAt *time.Time
	if status == order.Delivered {
		now := time.Now()
		deliveredAt = &now
	}

	o, err := order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), clientID, []order.Line{line},
		order.Contact{}, decimal.NewFromInt(10), status, agentID, time.Now(), deliveredAt)
	require.NoError(t, err)
	return o
}

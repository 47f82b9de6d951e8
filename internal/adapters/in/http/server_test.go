package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mealdelivery/internal/core/application/usecases/commands"
	"mealdelivery/internal/core/application/usecases/queries"
	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/core/domain/model/order"
	"mealdelivery/internal/core/ports"
	"mealdelivery/internal/generated/servers"
	"mealdelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type MockOrderCreator struct{ mock.Mock }

func (m *MockOrderCreator) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockStatusChanger struct{ mock.Mock }

func (m *MockStatusChanger) Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (commands.OrderUpdate, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.OrderUpdate), args.Error(1)
}

type MockDeliveryMarker struct{ mock.Mock }

func (m *MockDeliveryMarker) Handle(ctx context.Context, cmd commands.MarkOrderDeliveredCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockAgentAssigner struct{ mock.Mock }

func (m *MockAgentAssigner) Handle(ctx context.Context, cmd commands.AssignAgentCommand) (commands.OrderUpdate, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.OrderUpdate), args.Error(1)
}

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.OrderView), args.Error(1)
}

type MockUnassignedOrdersReader struct{ mock.Mock }

func (m *MockUnassignedOrdersReader) Handle(
	ctx context.Context,
	query queries.GetUnassignedOrdersQuery,
) ([]queries.GetUnassignedOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.GetUnassignedOrdersQueryResponse), args.Error(1)
}

type MockNotificationSubscriber struct{ mock.Mock }

func (m *MockNotificationSubscriber) Subscribe(ctx context.Context, actor account.Actor) (ports.Subscription, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.Subscription), args.Error(1)
}

type fixture struct {
	creator       *MockOrderCreator
	statusChanger *MockStatusChanger
	marker        *MockDeliveryMarker
	assigner      *MockAgentAssigner
	reader        *MockOrderReader
	unassigned    *MockUnassignedOrdersReader
	subscriber    *MockNotificationSubscriber
	auth          *Authenticator
	echo          *echo.Echo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		creator:       &MockOrderCreator{},
		statusChanger: &MockStatusChanger{},
		marker:        &MockDeliveryMarker{},
		assigner:      &MockAgentAssigner{},
		reader:        &MockOrderReader{},
		unassigned:    &MockUnassignedOrdersReader{},
		subscriber:    &MockNotificationSubscriber{},
		auth:          NewAuthenticator(testSecret),
	}
	return f.withSubscriber(t, f.subscriber)
}

func (f *fixture) withSubscriber(t *testing.T, subscriber NotificationSubscriber) *fixture {
	t.Helper()

	logger := discardLogger()
	server := NewServer(Handlers{
		CreateOrder:      f.creator,
		ChangeStatus:     f.statusChanger,
		MarkDelivered:    f.marker,
		AssignAgent:      f.assigner,
		GetOrder:         f.reader,
		UnassignedOrders: f.unassigned,
		Notifications:    subscriber,
	}, logger)

	e, err := NewRouter(server, f.auth, 5*time.Second, logger)
	require.NoError(t, err)
	f.echo = e
	return f
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (f *fixture) token(t *testing.T, id kernel.UUID, role account.Role) string {
	t.Helper()
	token, err := f.auth.Issue(id, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func (f *fixture) do(method, target, body, authorization string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) servers.Error {
	t.Helper()
	var body servers.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func placedOrder(t *testing.T, restaurantID kernel.UUID, clientID *kernel.UUID) *order.Order {
	t.Helper()
	line, err := order.NewLine(kernel.NewUUID(), kernel.NewUUID(), 2, decimal.RequireFromString("12.50"))
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), restaurantID, clientID, []order.Line{line}, order.NewContact("Main st 1", "", ""), time.Now())
	require.NoError(t, err)
	return o
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestCreateOrder_GuestOrder(t *testing.T) {
	f := newFixture(t)
	restaurantID, dishID := kernel.NewUUID(), kernel.NewUUID()
	placed := placedOrder(t, restaurantID, nil)

	f.creator.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
		return cmd.ClientID() == nil &&
			cmd.RestaurantID().IsEqual(restaurantID) &&
			len(cmd.Items()) == 1 && cmd.Items()[0].DishID.IsEqual(dishID) &&
			cmd.Contact().Address() == "Main st 1"
	})).Return(placed, nil).Once()

	body := `{"restaurantId":"` + restaurantID.String() + `","items":[{"dishId":"` + dishID.String() + `","quantity":2}],"address":"Main st 1"}`
	rec := f.do(http.MethodPost, "/api/v1/orders", body, "")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var got servers.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, placed.ID().String(), got.Id.String())
	assert.Equal(t, "25.00", got.Total)
	assert.Equal(t, servers.OrderStatusPending, got.Status)
	assert.Nil(t, got.ClientId)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "12.50", got.Lines[0].UnitPrice)
	f.creator.AssertExpectations(t)
}

func TestCreateOrder_ClientTokenOwnsOrder(t *testing.T) {
	f := newFixture(t)
	clientID, restaurantID := kernel.NewUUID(), kernel.NewUUID()

	f.creator.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
		return cmd.ClientID() != nil && cmd.ClientID().IsEqual(clientID)
	})).Return(placedOrder(t, restaurantID, &clientID), nil).Once()

	body := `{"restaurantId":"` + restaurantID.String() + `","items":[{"dishId":"` + kernel.NewUUID().String() + `","quantity":1}]}`
	rec := f.do(http.MethodPost, "/api/v1/orders", body, f.token(t, clientID, account.RoleClient))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	f.creator.AssertExpectations(t)
}

func TestCreateOrder_AdminTokenPlacesGuestOrder(t *testing.T) {
	f := newFixture(t)
	restaurantID := kernel.NewUUID()

	f.creator.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
		return cmd.ClientID() == nil
	})).Return(placedOrder(t, restaurantID, nil), nil).Once()

	body := `{"restaurantId":"` + restaurantID.String() + `","items":[{"dishId":"` + kernel.NewUUID().String() + `","quantity":1}]}`
	rec := f.do(http.MethodPost, "/api/v1/orders", body, f.token(t, kernel.NewUUID(), account.RoleAdmin))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	f.creator.AssertExpectations(t)
}

func TestCreateOrder_EmptyItemsIsBadRequest(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/orders", `{"restaurantId":"`+kernel.NewUUID().String()+`","items":[]}`, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "items")
	f.creator.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestCreateOrder_MissingRestaurantIsBadRequest(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/orders", `{"items":[{"dishId":"`+kernel.NewUUID().String()+`","quantity":1}]}`, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "restaurant")
}

func TestCreateOrder_BodyWithoutItemsFailsValidation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/orders", `{"restaurantId":"`+kernel.NewUUID().String()+`"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.creator.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestCreateOrder_DomainErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"unavailable dish", errs.NewValueIsInvalidError("dish"), http.StatusBadRequest, "value is invalid: dish"},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.creator.On("Handle", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			body := `{"restaurantId":"` + kernel.NewUUID().String() + `","items":[{"dishId":"` + kernel.NewUUID().String() + `","quantity":1}]}`
			rec := f.do(http.MethodPost, "/api/v1/orders", body, "")

			require.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.message, decodeError(t, rec).Message)
		})
	}
}

func TestInvalidTokenIsUnauthorized(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/orders/"+kernel.NewUUID().String(), "", "Bearer not-a-token")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid bearer token", decodeError(t, rec).Message)
}

func TestGetOrder(t *testing.T) {
	orderID, clientID := kernel.NewUUID(), kernel.NewUUID()

	t.Run("anonymous caller", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/orders/"+orderID.String(), "", "")

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Authentication required", decodeError(t, rec).Message)
		f.reader.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("owner", func(t *testing.T) {
		f := newFixture(t)
		view := queries.OrderView{
			ID:           orderID,
			RestaurantID: kernel.NewUUID(),
			ClientID:     &clientID,
			Status:       "ready",
			AgentName:    "Ana",
			Total:        decimal.RequireFromString("9.5"),
			CreatedAt:    time.Now().UTC(),
			Lines: []queries.OrderLineView{
				{DishID: kernel.NewUUID(), DishName: "Soup", Quantity: 1, UnitPrice: decimal.RequireFromString("9.5"), Subtotal: decimal.RequireFromString("9.5")},
			},
		}
		f.reader.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderQuery) bool {
			return q.OrderID().IsEqual(orderID) && q.Actor().Is(account.RoleClient, clientID)
		})).Return(view, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+orderID.String(), "", f.token(t, clientID, account.RoleClient))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got servers.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "9.50", got.Total)
		require.NotNil(t, got.AgentName)
		assert.Equal(t, "Ana", *got.AgentName)
		require.Len(t, got.Lines, 1)
		require.NotNil(t, got.Lines[0].DishName)
		assert.Equal(t, "Soup", *got.Lines[0].DishName)
	})

	t.Run("someone else's order", func(t *testing.T) {
		f := newFixture(t)
		f.reader.On("Handle", mock.Anything, mock.Anything).
			Return(queries.OrderView{}, errs.NewAccessDeniedError("read order")).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+orderID.String(), "", f.token(t, kernel.NewUUID(), account.RoleClient))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newFixture(t)
		f.reader.On("Handle", mock.Anything, mock.Anything).
			Return(queries.OrderView{}, errs.NewObjectNotFoundError("order", orderID)).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+orderID.String(), "", f.token(t, kernel.NewUUID(), account.RoleAdmin))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/orders/not-a-uuid", "", f.token(t, kernel.NewUUID(), account.RoleAdmin))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.reader.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestListUnassignedOrders(t *testing.T) {
	t.Run("default limit", func(t *testing.T) {
		f := newFixture(t)
		row := queries.GetUnassignedOrdersQueryResponse{
			ID:           kernel.NewUUID(),
			RestaurantID: kernel.NewUUID(),
			Total:        decimal.RequireFromString("30"),
			CreatedAt:    time.Now().UTC(),
		}
		f.unassigned.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetUnassignedOrdersQuery) bool {
			return q.Limit() == DefaultUnassignedOrdersLimit
		})).Return([]queries.GetUnassignedOrdersQueryResponse{row}, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/unassigned", "", f.token(t, kernel.NewUUID(), account.RoleAdmin))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got []servers.UnassignedOrder
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "30.00", got[0].Total)
		f.unassigned.AssertExpectations(t)
	})

	t.Run("limit out of range", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/orders/unassigned?limit=0", "", f.token(t, kernel.NewUUID(), account.RoleAdmin))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Message, "limit")
	})

	t.Run("not an admin", func(t *testing.T) {
		f := newFixture(t)
		f.unassigned.On("Handle", mock.Anything, mock.Anything).
			Return(nil, errs.NewAccessDeniedError("list unassigned orders")).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/unassigned?limit=10", "", f.token(t, kernel.NewUUID(), account.RoleAgent))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestChangeOrderStatus(t *testing.T) {
	f := newFixture(t)
	clientID := kernel.NewUUID()
	placed := placedOrder(t, kernel.NewUUID(), &clientID)
	require.NoError(t, placed.ChangeStatus(order.Ready, time.Now()))
	agentID := kernel.NewUUID()
	require.NoError(t, placed.Assign(agentID))
	agent, err := account.NewAgent(agentID, "Ana")
	require.NoError(t, err)

	f.statusChanger.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ChangeOrderStatusCommand) bool {
		return cmd.OrderID().IsEqual(placed.ID()) && cmd.Target() == order.Ready && cmd.Actor().IsAdmin()
	})).Return(commands.OrderUpdate{Order: placed, AssignedAgent: agent}, nil).Once()

	rec := f.do(http.MethodPatch, "/api/v1/orders/"+placed.ID().String()+"/status", `{"status":"ready"}`,
		f.token(t, kernel.NewUUID(), account.RoleAdmin))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got servers.OrderUpdate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, servers.OrderStatusReady, got.Order.Status)
	require.NotNil(t, got.AssignedAgent)
	assert.Equal(t, "Ana", got.AssignedAgent.Name)
	require.NotNil(t, got.Order.AgentName)
	assert.Equal(t, "Ana", *got.Order.AgentName)
	f.statusChanger.AssertExpectations(t)
}

func TestChangeOrderStatus_UnknownStatus(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPatch, "/api/v1/orders/"+kernel.NewUUID().String()+"/status", `{"status":"teleported"}`,
		f.token(t, kernel.NewUUID(), account.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.statusChanger.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestMarkOrderDelivered(t *testing.T) {
	agentID := kernel.NewUUID()

	t.Run("assigned agent", func(t *testing.T) {
		f := newFixture(t)
		placed := placedOrder(t, kernel.NewUUID(), nil)
		require.NoError(t, placed.ChangeStatus(order.Ready, time.Now()))
		require.NoError(t, placed.Assign(agentID))
		require.NoError(t, placed.ChangeStatus(order.Delivered, time.Now()))

		f.marker.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.MarkOrderDeliveredCommand) bool {
			return cmd.Actor().Is(account.RoleAgent, agentID)
		})).Return(placed, nil).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders/"+placed.ID().String()+"/delivered", "", f.token(t, agentID, account.RoleAgent))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got servers.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, servers.OrderStatusDelivered, got.Status)
		assert.NotNil(t, got.DeliveredAt)
	})

	t.Run("another agent", func(t *testing.T) {
		f := newFixture(t)
		f.marker.On("Handle", mock.Anything, mock.Anything).
			Return(nil, errs.NewAccessDeniedError("mark order delivered")).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/delivered", "",
			f.token(t, kernel.NewUUID(), account.RoleAgent))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAssignAgent(t *testing.T) {
	f := newFixture(t)
	placed := placedOrder(t, kernel.NewUUID(), nil)
	agentID := kernel.NewUUID()
	require.NoError(t, placed.Reassign(agentID))
	agent, err := account.NewAgent(agentID, "Bo")
	require.NoError(t, err)

	f.assigner.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AssignAgentCommand) bool {
		return cmd.OrderID().IsEqual(placed.ID()) && cmd.AgentID().IsEqual(agentID)
	})).Return(commands.OrderUpdate{Order: placed, AssignedAgent: agent}, nil).Once()

	rec := f.do(http.MethodPut, "/api/v1/orders/"+placed.ID().String()+"/agent", `{"agentId":"`+agentID.String()+`"}`,
		f.token(t, kernel.NewUUID(), account.RoleAdmin))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got servers.OrderUpdate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Order.AgentId)
	assert.Equal(t, agentID.String(), got.Order.AgentId.String())
	f.assigner.AssertExpectations(t)
}

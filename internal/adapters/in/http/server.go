// Package http is the REST and Server-Sent Events interface of the service.
//
// Server implements the generated servers.ServerInterface and translates
// between wire types and application commands and queries. NewRouter adds
// the cross-cutting middleware: request IDs, panic recovery, access logs,
// per-request deadlines, bearer authentication and OpenAPI request
// validation.
//
// Errors map to statuses by class:
//   - errs.ErrValueIsRequired, ErrValueIsInvalid, ErrValueIsOutOfRange: 400
//   - errs.ErrAccessDenied: 403, or 401 for anonymous callers
//   - errs.ErrObjectNotFound: 404
//   - anything else: 500 with a generic message; the cause is logged
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"mealdelivery/internal/core/application/usecases/commands"
	"mealdelivery/internal/core/application/usecases/queries"
	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/core/domain/model/order"
	"mealdelivery/internal/core/ports"
	"mealdelivery/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

const (
	// DefaultUnassignedOrdersLimit applies when the listing has no limit parameter.
	DefaultUnassignedOrdersLimit = 100

	// DefaultKeepAliveInterval is the gap between keep-alive comments on an
	// idle notification stream.
	DefaultKeepAliveInterval = 15 * time.Second
)

// Use case ports of the HTTP interface. Each is satisfied by the matching
// command or query handler.
type (
	// OrderCreator places orders.
	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}

	// StatusChanger applies status transitions.
	StatusChanger interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (commands.OrderUpdate, error)
	}

	// DeliveryMarker closes orders as delivered.
	DeliveryMarker interface {
		Handle(ctx context.Context, cmd commands.MarkOrderDeliveredCommand) (*order.Order, error)
	}

	// AgentAssigner applies administrator agent overrides.
	AgentAssigner interface {
		Handle(ctx context.Context, cmd commands.AssignAgentCommand) (commands.OrderUpdate, error)
	}

	// OrderReader reads a single order.
	OrderReader interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
	}

	// UnassignedOrdersReader lists ready orders without an agent.
	UnassignedOrdersReader interface {
		Handle(ctx context.Context, query queries.GetUnassignedOrdersQuery) ([]queries.GetUnassignedOrdersQueryResponse, error)
	}

	// NotificationSubscriber attaches a caller to its notification channel.
	NotificationSubscriber interface {
		Subscribe(ctx context.Context, actor account.Actor) (ports.Subscription, error)
	}
)

// Handlers groups the use cases the HTTP interface exposes.
type Handlers struct {
	CreateOrder      OrderCreator
	ChangeStatus     StatusChanger
	MarkDelivered    DeliveryMarker
	AssignAgent      AgentAssigner
	GetOrder         OrderReader
	UnassignedOrders UnassignedOrdersReader
	Notifications    NotificationSubscriber
}

// Server implements servers.ServerInterface on top of the application
// commands and queries.
type Server struct {
	handlers  Handlers
	logger    *slog.Logger
	keepAlive time.Duration
}

// NewServer creates a server with the default keep-alive interval.
func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	return &Server{
		handlers:  handlers,
		logger:    logger.With("component", "http-server"),
		keepAlive: DefaultKeepAliveInterval,
	}
}

var _ servers.ServerInterface = (*Server)(nil)

// CreateOrder handles POST /api/v1/orders. A client token makes the caller
// the owner; every other caller places a guest order.
func (s *Server) CreateOrder(c echo.Context) error {
	var body servers.CreateOrderJSONRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	var clientID *kernel.UUID
	if actor := actorFrom(c); actor.Role() == account.RoleClient {
		id := actor.ID()
		clientID = &id
	}

	var restaurantID kernel.UUID
	if body.RestaurantId != nil {
		restaurantID = fromAPI(*body.RestaurantId)
	}

	items := make([]commands.OrderItem, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, commands.OrderItem{DishID: fromAPI(item.DishId), Quantity: item.Quantity})
	}

	cmd, err := commands.NewCreateOrderCommand(
		restaurantID,
		items,
		clientID,
		order.NewContact(deref(body.Address), deref(body.Phone), deref(body.Notes)),
	)
	if err != nil {
		return s.fail(c, err)
	}

	placed, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toOrder(placed))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context, orderId openapi_types.UUID) error {
	actor, err := s.authenticated(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(fromAPI(orderId), actor)
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrderView(view))
}

// ListUnassignedOrders handles GET /api/v1/orders/unassigned.
func (s *Server) ListUnassignedOrders(c echo.Context, params servers.ListUnassignedOrdersParams) error {
	actor, err := s.authenticated(c)
	if err != nil {
		return err
	}

	limit := DefaultUnassignedOrdersLimit
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewGetUnassignedOrdersQuery(limit, actor)
	if err != nil {
		return s.fail(c, err)
	}

	rows, err := s.handlers.UnassignedOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toUnassignedOrders(rows))
}

// ChangeOrderStatus handles PATCH /api/v1/orders/{orderId}/status.
func (s *Server) ChangeOrderStatus(c echo.Context, orderId openapi_types.UUID) error {
	actor, err := s.authenticated(c)
	if err != nil {
		return err
	}

	var body servers.ChangeOrderStatusJSONRequestBody
	if err = c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewChangeOrderStatusCommand(fromAPI(orderId), body.Status, actor)
	if err != nil {
		return s.fail(c, err)
	}

	update, err := s.handlers.ChangeStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrderUpdate(update))
}

// MarkOrderDelivered handles POST /api/v1/orders/{orderId}/delivered.
func (s *Server) MarkOrderDelivered(c echo.Context, orderId openapi_types.UUID) error {
	actor, err := s.authenticated(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewMarkOrderDeliveredCommand(fromAPI(orderId), actor)
	if err != nil {
		return s.fail(c, err)
	}

	delivered, err := s.handlers.MarkDelivered.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrder(delivered))
}

// AssignAgent handles PUT /api/v1/orders/{orderId}/agent.
func (s *Server) AssignAgent(c echo.Context, orderId openapi_types.UUID) error {
	actor, err := s.authenticated(c)
	if err != nil {
		return err
	}

	var body servers.AssignAgentJSONRequestBody
	if err = c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewAssignAgentCommand(fromAPI(orderId), fromAPI(body.AgentId), actor)
	if err != nil {
		return s.fail(c, err)
	}

	update, err := s.handlers.AssignAgent.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrderUpdate(update))
}

// authenticated rejects callers that presented no token.
func (s *Server) authenticated(c echo.Context) (account.Actor, error) {
	actor := actorFrom(c)
	if actor.IsAnonymous() {
		return actor, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return actor, nil
}

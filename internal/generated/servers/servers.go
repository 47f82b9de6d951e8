// Package servers provides primitives to interact with the openapi HTTP API
// described in api/openapi.yaml: wire types, the server interface, and the
// echo wrapper that binds path and query parameters.
package servers

import (
	"fmt"
	"net/http"
	"time"

	"mealdelivery/api"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

const (
	BearerAuthScopes = "bearerAuth.Scopes"
)

// Defines values for OrderStatus.
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Agent defines model for Agent.
type Agent struct {
	Id   openapi_types.UUID `json:"id"`
	Name string             `json:"name"`
}

// AgentAssignment defines model for AgentAssignment.
type AgentAssignment struct {
	AgentId openapi_types.UUID `json:"agentId"`
}

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	Address      *string             `json:"address,omitempty"`
	Items        []OrderItem         `json:"items"`
	Notes        *string             `json:"notes,omitempty"`
	Phone        *string             `json:"phone,omitempty"`
	RestaurantId *openapi_types.UUID `json:"restaurantId,omitempty"`
}

// Order defines model for Order.
type Order struct {
	Address      *string             `json:"address,omitempty"`
	AgentId      *openapi_types.UUID `json:"agentId,omitempty"`
	AgentName    *string             `json:"agentName,omitempty"`
	ClientId     *openapi_types.UUID `json:"clientId,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	DeliveredAt  *time.Time          `json:"deliveredAt,omitempty"`
	Id           openapi_types.UUID  `json:"id"`
	Lines        []OrderLine         `json:"lines"`
	Notes        *string             `json:"notes,omitempty"`
	Phone        *string             `json:"phone,omitempty"`
	RestaurantId openapi_types.UUID  `json:"restaurantId"`
	Status       OrderStatus         `json:"status"`
	Total        string              `json:"total"`
}

// OrderStatus defines model for Order.Status.
type OrderStatus string

// OrderItem defines model for OrderItem.
type OrderItem struct {
	DishId   openapi_types.UUID `json:"dishId"`
	Quantity int                `json:"quantity"`
}

// OrderLine defines model for OrderLine.
type OrderLine struct {
	DishId    openapi_types.UUID `json:"dishId"`
	DishName  *string            `json:"dishName,omitempty"`
	Quantity  int                `json:"quantity"`
	Subtotal  string             `json:"subtotal"`
	UnitPrice string             `json:"unitPrice"`
}

// OrderUpdate defines model for OrderUpdate.
type OrderUpdate struct {
	AssignedAgent *Agent `json:"assignedAgent,omitempty"`
	Order         Order  `json:"order"`
}

// StatusChange defines model for StatusChange.
type StatusChange struct {
	Status string `json:"status"`
}

// UnassignedOrder defines model for UnassignedOrder.
type UnassignedOrder struct {
	CreatedAt    time.Time          `json:"createdAt"`
	Id           openapi_types.UUID `json:"id"`
	RestaurantId openapi_types.UUID `json:"restaurantId"`
	Total        string             `json:"total"`
}

// ListUnassignedOrdersParams defines parameters for ListUnassignedOrders.
type ListUnassignedOrdersParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

// CreateOrderJSONRequestBody defines body for CreateOrder for application/json ContentType.
type CreateOrderJSONRequestBody = NewOrder

// AssignAgentJSONRequestBody defines body for AssignAgent for application/json ContentType.
type AssignAgentJSONRequestBody = AgentAssignment

// ChangeOrderStatusJSONRequestBody defines body for ChangeOrderStatus for application/json ContentType.
type ChangeOrderStatusJSONRequestBody = StatusChange

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /api/v1/notifications/stream)
	StreamNotifications(ctx echo.Context) error
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context) error
	// (GET /api/v1/orders/unassigned)
	ListUnassignedOrders(ctx echo.Context, params ListUnassignedOrdersParams) error
	// (GET /api/v1/orders/{orderId})
	GetOrder(ctx echo.Context, orderId openapi_types.UUID) error
	// (PUT /api/v1/orders/{orderId}/agent)
	AssignAgent(ctx echo.Context, orderId openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/delivered)
	MarkOrderDelivered(ctx echo.Context, orderId openapi_types.UUID) error
	// (PATCH /api/v1/orders/{orderId}/status)
	ChangeOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// StreamNotifications converts echo context to params.
func (w *ServerInterfaceWrapper) StreamNotifications(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.StreamNotifications(ctx)
}

// CreateOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

// ListUnassignedOrders converts echo context to params.
func (w *ServerInterfaceWrapper) ListUnassignedOrders(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	var params ListUnassignedOrdersParams
	err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	return w.Handler.ListUnassignedOrders(ctx, params)
}

// GetOrder converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.GetOrder(ctx, orderId)
}

// AssignAgent converts echo context to params.
func (w *ServerInterfaceWrapper) AssignAgent(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.AssignAgent(ctx, orderId)
}

// MarkOrderDelivered converts echo context to params.
func (w *ServerInterfaceWrapper) MarkOrderDelivered(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.MarkOrderDelivered(ctx, orderId)
}

// ChangeOrderStatus converts echo context to params.
func (w *ServerInterfaceWrapper) ChangeOrderStatus(ctx echo.Context) error {
	orderId, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.ChangeOrderStatus(ctx, orderId)
}

func bindOrderID(ctx echo.Context) (openapi_types.UUID, error) {
	var orderId openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return orderId, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}
	return orderId, nil
}

// EchoRouter is the subset of *echo.Echo and *echo.Group the handlers are
// registered on.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends BaseURL to the
// paths, so that the paths can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/api/v1/notifications/stream", wrapper.StreamNotifications)
	router.POST(baseURL+"/api/v1/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/api/v1/orders/unassigned", wrapper.ListUnassignedOrders)
	router.GET(baseURL+"/api/v1/orders/:orderId", wrapper.GetOrder)
	router.PUT(baseURL+"/api/v1/orders/:orderId/agent", wrapper.AssignAgent)
	router.POST(baseURL+"/api/v1/orders/:orderId/delivered", wrapper.MarkOrderDelivered)
	router.PATCH(baseURL+"/api/v1/orders/:orderId/status", wrapper.ChangeOrderStatus)
}

// GetSwagger returns the parsed OpenAPI document the server implements.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromData(api.OpenAPI)
	if err != nil {
		return nil, fmt.Errorf("error loading Swagger: %w", err)
	}
	return swagger, nil
}

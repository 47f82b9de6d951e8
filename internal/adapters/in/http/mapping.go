package http

import (
	"mealdelivery/internal/core/application/usecases/commands"
	"mealdelivery/internal/core/application/usecases/queries"
	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/core/domain/model/order"
	"mealdelivery/internal/generated/servers"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// fromAPI converts a wire UUID. The nil UUID becomes the zero kernel.UUID,
// which every constructor rejects as missing.
func fromAPI(id openapi_types.UUID) kernel.UUID {
	converted, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return kernel.UUID{}
	}
	return converted
}

func toAPI(id kernel.UUID) openapi_types.UUID {
	return id.Bytes()
}

func toAPIPtr(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	converted := toAPI(*id)
	return &converted
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toOrder(o *order.Order) servers.Order {
	lines := o.Lines()
	response := servers.Order{
		Id:           toAPI(o.ID()),
		RestaurantId: toAPI(o.RestaurantID()),
		ClientId:     toAPIPtr(o.ClientID()),
		AgentId:      toAPIPtr(o.AgentID()),
		Status:       servers.OrderStatus(o.Status().String()),
		Total:        o.Total().StringFixed(2),
		Address:      optional(o.Contact().Address()),
		Phone:        optional(o.Contact().Phone()),
		Notes:        optional(o.Contact().Notes()),
		CreatedAt:    o.CreatedAt(),
		DeliveredAt:  o.DeliveredAt(),
		Lines:        make([]servers.OrderLine, 0, len(lines)),
	}

	for _, l := range lines {
		response.Lines = append(response.Lines, servers.OrderLine{
			DishId:    toAPI(l.DishID()),
			Quantity:  l.Quantity(),
			UnitPrice: l.UnitPrice().StringFixed(2),
			Subtotal:  l.Subtotal().StringFixed(2),
		})
	}
	return response
}

func toOrderView(v queries.OrderView) servers.Order {
	response := servers.Order{
		Id:           toAPI(v.ID),
		RestaurantId: toAPI(v.RestaurantID),
		ClientId:     toAPIPtr(v.ClientID),
		AgentId:      toAPIPtr(v.AgentID),
		AgentName:    optional(v.AgentName),
		Status:       servers.OrderStatus(v.Status),
		Total:        v.Total.StringFixed(2),
		Address:      optional(v.Address),
		Phone:        optional(v.Phone),
		Notes:        optional(v.Notes),
		CreatedAt:    v.CreatedAt,
		DeliveredAt:  v.DeliveredAt,
		Lines:        make([]servers.OrderLine, 0, len(v.Lines)),
	}

	for _, l := range v.Lines {
		response.Lines = append(response.Lines, servers.OrderLine{
			DishId:    toAPI(l.DishID),
			DishName:  optional(l.DishName),
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Subtotal:  l.Subtotal.StringFixed(2),
		})
	}
	return response
}

func toAgent(a *account.Agent) *servers.Agent {
	if a == nil {
		return nil
	}
	return &servers.Agent{Id: toAPI(a.ID()), Name: a.Name()}
}

func toOrderUpdate(u commands.OrderUpdate) servers.OrderUpdate {
	response := servers.OrderUpdate{
		Order:         toOrder(u.Order),
		AssignedAgent: toAgent(u.AssignedAgent),
	}
	if u.AssignedAgent != nil {
		response.Order.AgentName = optional(u.AssignedAgent.Name())
	}
	return response
}

func toUnassignedOrders(rows []queries.GetUnassignedOrdersQueryResponse) []servers.UnassignedOrder {
	response := make([]servers.UnassignedOrder, 0, len(rows))
	for _, r := range rows {
		response = append(response, servers.UnassignedOrder{
			Id:           toAPI(r.ID),
			RestaurantId: toAPI(r.RestaurantID),
			Total:        r.Total.StringFixed(2),
			CreatedAt:    r.CreatedAt,
		})
	}
	return response
}

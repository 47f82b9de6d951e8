package queries

import (
	"context"
	"time"

	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order with its lines and agent name.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler reads through db outside any unit of work.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

type orderRow struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	ClientID     *uuid.UUID
	AgentID      *uuid.UUID
	AgentName    string
	Status       string
	Total        decimal.Decimal
	Address      string
	Phone        string
	Notes        string
	CreatedAt    time.Time
	DeliveredAt  *time.Time
}

type lineRow struct {
	DishID    uuid.UUID
	DishName  string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Handle returns the order to administrators, the client who placed it and
// the agent delivering it.
//
// Returns:
//   - the order view with lines in ordering sequence
//   - an ObjectNotFoundError for an unknown order
//   - an AccessDeniedError when the caller may not see it
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	var row orderRow
	res := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.restaurant_id,
			o.client_id,
			o.agent_id,
			COALESCE(a.name, '') AS agent_name,
			o.status,
			o.total,
			o.address,
			o.phone,
			o.notes,
			o.created_at,
			o.delivered_at
		FROM orders o
		LEFT JOIN accounts a ON a.id = o.agent_id
		WHERE o.id = ?
	`, query.OrderID().Bytes()).Scan(&row)
	if res.Error != nil {
		return OrderView{}, res.Error
	}
	if res.RowsAffected == 0 {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	view, err := row.toView()
	if err != nil {
		return OrderView{}, err
	}

	if !canRead(query.Actor(), view) {
		return OrderView{}, errs.NewAccessDeniedError("read order")
	}

	var lines []lineRow
	err = h.db.WithContext(ctx).Raw(`
		SELECT
			l.dish_id,
			COALESCE(d.name, '') AS dish_name,
			l.quantity,
			l.unit_price,
			l.subtotal
		FROM order_lines l
		LEFT JOIN dishes d ON d.id = l.dish_id
		WHERE l.order_id = ?
		ORDER BY l.position
	`, query.OrderID().Bytes()).Scan(&lines).Error
	if err != nil {
		return OrderView{}, err
	}

	view.Lines = make([]OrderLineView, 0, len(lines))
	for _, l := range lines {
		dishID, idErr := kernel.UUIDFromBytes(l.DishID[:])
		if idErr != nil {
			return OrderView{}, idErr
		}
		view.Lines = append(view.Lines, OrderLineView{
			DishID:    dishID,
			DishName:  l.DishName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}

	return view, nil
}

func canRead(actor account.Actor, view OrderView) bool {
	switch actor.Role() {
	case account.RoleAdmin:
		return true
	case account.RoleClient:
		return view.ClientID != nil && view.ClientID.IsEqual(actor.ID())
	case account.RoleAgent:
		return view.AgentID != nil && view.AgentID.IsEqual(actor.ID())
	default:
		return false
	}
}

func (r orderRow) toView() (OrderView, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return OrderView{}, err
	}
	restaurantID, err := kernel.UUIDFromBytes(r.RestaurantID[:])
	if err != nil {
		return OrderView{}, err
	}
	clientID, err := optionalUUID(r.ClientID)
	if err != nil {
		return OrderView{}, err
	}
	agentID, err := optionalUUID(r.AgentID)
	if err != nil {
		return OrderView{}, err
	}

	return OrderView{
		ID:           id,
		RestaurantID: restaurantID,
		ClientID:     clientID,
		AgentID:      agentID,
		AgentName:    r.AgentName,
		Status:       r.Status,
		Total:        r.Total,
		Address:      r.Address,
		Phone:        r.Phone,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt.UTC(),
		DeliveredAt:  r.DeliveredAt,
	}, nil
}

func optionalUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	parsed, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

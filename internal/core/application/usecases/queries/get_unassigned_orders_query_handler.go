package queries

import (
	"context"
	"time"

	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/core/domain/model/order"
	"mealdelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetUnassignedOrdersQueryHandler lists ready orders without an agent.
type GetUnassignedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUnassignedOrdersQueryHandler reads through db outside any unit of work.
func NewGetUnassignedOrdersQueryHandler(db *gorm.DB) GetUnassignedOrdersQueryHandler {
	return GetUnassignedOrdersQueryHandler{db: db}
}

// Handle is restricted to administrators. Orders come oldest first.
func (h GetUnassignedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUnassignedOrdersQuery,
) ([]GetUnassignedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if !query.Actor().IsAdmin() {
		return nil, errs.NewAccessDeniedError("list unassigned orders")
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			restaurant_id,
			total,
			created_at
		FROM orders
		WHERE status = ? AND agent_id IS NULL
		ORDER BY created_at, id
		LIMIT ?
	`, order.Ready.String(), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetUnassignedOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			id, restaurantID uuid.UUID
			total            decimal.Decimal
			createdAt        time.Time
		)
		if err = rows.Scan(&id, &restaurantID, &total, &createdAt); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		restaurant, idErr := kernel.UUIDFromBytes(restaurantID[:])
		if idErr != nil {
			return nil, idErr
		}

		orders = append(orders, GetUnassignedOrdersQueryResponse{
			ID:           orderID,
			RestaurantID: restaurant,
			Total:        total,
			CreatedAt:    createdAt.UTC(),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

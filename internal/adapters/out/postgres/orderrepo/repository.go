package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/core/domain/model/order"
	"mealdelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const foreignKeyViolation = "23503"

// GormOrderRepository implements ports.OrderRepository. Writes are atomic
// only when db is a transaction handle.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository writes through db. Pass a transaction handle to get
// atomic Add.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts the header first and then each line in order.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	if err := db.Omit(clause.Associations).Create(&dto).Error; err != nil {
		return mapWriteError("order", err)
	}
	for i := range dto.Lines {
		if err := db.Create(&dto.Lines[i]).Error; err != nil {
			return mapWriteError(fmt.Sprintf("lines[%d]", i), err)
		}
	}
	return nil
}

// Update writes the mutable columns only. Lines are never rewritten.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Updates(map[string]any{
			"status":       aggregate.Status().String(),
			"agent_id":     nullable(aggregate.AgentID()),
			"delivered_at": aggregate.DeliveredAt(),
		})
	if result.Error != nil {
		return mapWriteError("order", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	return nil
}

// Get loads the order and its lines without locking.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

// GetForUpdate takes FOR UPDATE on the header row. The lock only lasts
// while db is a transaction.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// AssignIfUnassigned writes agentID with a conditional update and reports
// whether a row changed.
func (r *GormOrderRepository) AssignIfUnassigned(ctx context.Context, orderID, agentID kernel.UUID) (bool, error) {
	if err := errors.Join(orderID.Validate(), agentID.Validate()); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND agent_id IS NULL", orderID.Bytes()).
		Update("agent_id", agentID.Bytes())
	if result.Error != nil {
		return false, mapWriteError("agent", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// GetReadyUnassigned returns ready orders without an agent, oldest first.
func (r *GormOrderRepository) GetReadyUnassigned(ctx context.Context, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND agent_id IS NULL", order.Ready.String()).
		Order("created_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		if dto.Lines, err = r.lines(ctx, dto.ID); err != nil {
			return nil, err
		}
		o, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// get reads the header through db, which may carry a locking clause, and
// the lines through a plain session.
func (r *GormOrderRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	lines, err := r.lines(ctx, dto.ID)
	if err != nil {
		return nil, err
	}
	dto.Lines = lines
	return toDomain(dto)
}

func (r *GormOrderRepository) lines(ctx context.Context, orderID uuid.UUID) ([]OrderLineDTO, error) {
	var lines []OrderLineDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("position").
		Find(&lines).Error
	return lines, err
}

func nullable(id *kernel.UUID) any {
	if id == nil {
		return nil
	}
	return id.Bytes()
}

// referenceParams names the request field behind each foreign key.
var referenceParams = map[string]string{
	"orders_client_id_fkey":    "client",
	"orders_agent_id_fkey":     "agent",
	"order_lines_dish_id_fkey": "dish",
}

// mapWriteError turns a dangling reference into a validation error naming
// only the offending field. Everything else is wrapped as a store failure.
func mapWriteError(param string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		if name, ok := referenceParams[pgErr.ConstraintName]; ok {
			param = name
		}
		return errs.NewValueIsInvalidError(param)
	}
	return fmt.Errorf("write %s: %w", param, err)
}

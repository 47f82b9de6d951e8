package accountrepo

import (
	"context"
	"errors"
	"fmt"

	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/core/domain/model/order"
	"mealdelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

// WorkloadLockKey is the advisory lock taken before any assignment decision.
const WorkloadLockKey int64 = 0x6d65616c61676e74

const workloadQuery = `
SELECT a.id, a.name, COUNT(o.id) AS ready_orders
FROM accounts a
LEFT JOIN orders o ON o.agent_id = a.id AND o.status = ?
WHERE a.role = ?
GROUP BY a.id, a.name
ORDER BY a.id`

// GormAccountRepository implements ports.AccountRepository.
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository reads through db, which may be a transaction.
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// GetAgent returns an ObjectNotFoundError unless id is an account with the
// agent role.
func (r *GormAccountRepository) GetAgent(ctx context.Context, id kernel.UUID) (*account.Agent, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AccountDTO
	err := r.db.WithContext(ctx).
		First(&dto, "id = ? AND role = ?", id.Bytes(), account.RoleAgent.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("agent", id.String())
		}
		return nil, err
	}
	return agentToDomain(dto.ID, dto.Name)
}

// GetAgentWorkloads counts ready orders per agent in a single statement.
// Agents without ready orders are reported with a zero count.
func (r *GormAccountRepository) GetAgentWorkloads(ctx context.Context) ([]account.Workload, error) {
	var rows []workloadRow
	err := r.db.WithContext(ctx).
		Raw(workloadQuery, order.Ready.String(), account.RoleAgent.String()).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load agent workloads: %w", err)
	}

	workloads := make([]account.Workload, 0, len(rows))
	for _, row := range rows {
		agent, convErr := agentToDomain(row.ID, row.Name)
		if convErr != nil {
			return nil, convErr
		}
		workloads = append(workloads, account.Workload{Agent: agent, ReadyOrders: row.ReadyOrders})
	}
	return workloads, nil
}

// LockWorkloads blocks until no other transaction holds the workload lock.
// The lock is released on commit or rollback, so it is a no-op outside a
// transaction.
func (r *GormAccountRepository) LockWorkloads(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", WorkloadLockKey).Error; err != nil {
		return fmt.Errorf("lock agent workloads: %w", err)
	}
	return nil
}

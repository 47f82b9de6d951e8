// Package accountrepo reads accounts owned by the identity service. The
// ordering flow only needs the delivery agents out of it.
package accountrepo

import (
	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AccountDTO maps a row of the accounts table.
type AccountDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"not null"`
	Role string    `gorm:"type:varchar(16);not null"`
}

// TableName binds AccountDTO to the accounts table.
func (AccountDTO) TableName() string {
	return "accounts"
}

// workloadRow is one result row of the workload aggregate query.
type workloadRow struct {
	ID          uuid.UUID
	Name        string
	ReadyOrders int
}

func agentToDomain(id uuid.UUID, name string) (*account.Agent, error) {
	agentID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return account.NewAgent(agentID, name)
}

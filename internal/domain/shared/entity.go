package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity holds the id and UTC timestamps of an aggregate row. Ledger
// entries are append-only and carry their own header.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch marks the record as changed now
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}

package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact raised by a sale, a ledger entry or a purchase
// order. Events reach the bus only after the stock transaction commits.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
}

// BaseDomainEvent is embedded by every concrete event. Its JSON form is the
// envelope header published to Kafka.
type BaseDomainEvent struct {
	ID         uuid.UUID `json:"event_id"`
	Type       string    `json:"type"`
	At         time.Time `json:"occurred_at"`
	SourceID   uuid.UUID `json:"aggregate_id"`
	SourceKind string    `json:"aggregate_type"`
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.At }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.SourceID }
func (e *BaseDomainEvent) AggregateType() string  { return e.SourceKind }

// NewBaseDomainEvent stamps a new event of eventType raised by the
// aggregate kind/id, e.g. ("sale.completed", "sale", sale.ID).
func NewBaseDomainEvent(eventType, kind string, id uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:         uuid.New(),
		Type:       eventType,
		At:         time.Now().UTC(),
		SourceID:   id,
		SourceKind: kind,
	}
}

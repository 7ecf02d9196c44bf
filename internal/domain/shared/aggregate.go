package shared

// BaseAggregateRoot is embedded by products, variants, suppliers, sales and
// purchase orders. Version mirrors the row's version column and moves by
// one on every accepted change.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
	pending []DomainEvent
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// AddDomainEvent queues ev; the application service publishes the queue
// once the surrounding transaction has committed.
func (a *BaseAggregateRoot) AddDomainEvent(ev DomainEvent) {
	a.pending = append(a.pending, ev)
}

// GetDomainEvents returns the queued events in the order they were raised
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.pending }

// ClearDomainEvents empties the queue after publishing
func (a *BaseAggregateRoot) ClearDomainEvents() { a.pending = nil }

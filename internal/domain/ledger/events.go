package ledger

import (
	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

// Aggregate type and event types raised by ledger operations
const (
	AggregateTypeVariantStock = "VariantStock"

	EventTypeStockAdjusted    = "stock.adjusted"
	EventTypeStockInitialized = "stock.initialized"
)

// StockMovedEvent is raised after a manual ledger append commits
type StockMovedEvent struct {
	shared.BaseDomainEvent
	EntryID        uuid.UUID `json:"entry_id"`
	VariantID      uuid.UUID `json:"variant_id"`
	QuantityChange int64     `json:"quantity_change"`
	EntryType      EntryType `json:"entry_type"`
	Reason         string    `json:"reason,omitempty"`
	OnHandAfter    int64     `json:"on_hand_after"`
}

// NewStockMovedEvent builds the event for an appended entry
func NewStockMovedEvent(entry *Entry, onHandAfter int64) *StockMovedEvent {
	eventType := EventTypeStockAdjusted
	if entry.Type == EntryTypeInitialCount {
		eventType = EventTypeStockInitialized
	}
	return &StockMovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeVariantStock, entry.VariantID),
		EntryID:         entry.ID,
		VariantID:       entry.VariantID,
		QuantityChange:  entry.QuantityChange,
		EntryType:       entry.Type,
		Reason:          entry.Reason,
		OnHandAfter:     onHandAfter,
	}
}

package sales

import (
	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

const (
	AggregateTypeSale      = "Sale"
	EventTypeSaleCompleted = "sale.completed"
)

// SoldLine is the stock-relevant part of a sale line
type SoldLine struct {
	VariantID uuid.UUID `json:"variant_id"`
	Quantity  int64     `json:"quantity"`
}

// SaleCompletedEvent is raised once a sale and its ledger entries commit
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	SaleID        uuid.UUID  `json:"sale_id"`
	ReceiptNumber string     `json:"receipt_number"`
	TotalCents    int64      `json:"total_cents"`
	UnitsSold     int64      `json:"units_sold"`
	Lines         []SoldLine `json:"lines"`
}

// NewSaleCompletedEvent builds the event for a sale
func NewSaleCompletedEvent(s *Sale) *SaleCompletedEvent {
	lines := make([]SoldLine, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = SoldLine{VariantID: l.VariantID, Quantity: l.Quantity}
	}
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, AggregateTypeSale, s.ID),
		SaleID:          s.ID,
		ReceiptNumber:   s.ReceiptNumber,
		TotalCents:      s.TotalCents,
		UnitsSold:       s.UnitsSold(),
		Lines:           lines,
	}
}

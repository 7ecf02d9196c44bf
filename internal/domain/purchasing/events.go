package purchasing

import (
	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

const (
	AggregateTypePurchaseOrder = "PurchaseOrder"

	EventTypeGoodsReceived          = "goods.received"
	EventTypePurchaseOrderCancelled = "purchase_order.cancelled"
)

// ReceivedLine is the stock-relevant part of a goods receipt item
type ReceivedLine struct {
	VariantID uuid.UUID `json:"variant_id"`
	Quantity  int64     `json:"quantity"`
	CostCents int64     `json:"cost_cents"`
}

// GoodsReceivedEvent is raised when a receipt commits
type GoodsReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber    string         `json:"order_number"`
	GoodsReceiptID uuid.UUID      `json:"goods_receipt_id"`
	Status         OrderStatus    `json:"status"`
	Lines          []ReceivedLine `json:"lines"`
}

// NewGoodsReceivedEvent builds the event for a receipt
func NewGoodsReceivedEvent(o *PurchaseOrder, r *GoodsReceipt) *GoodsReceivedEvent {
	lines := make([]ReceivedLine, len(r.Items))
	for i, it := range r.Items {
		lines[i] = ReceivedLine{VariantID: it.VariantID, Quantity: it.QuantityReceived, CostCents: it.CostCents}
	}
	return &GoodsReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodsReceived, AggregateTypePurchaseOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		GoodsReceiptID:  r.ID,
		Status:          o.Status,
		Lines:           lines,
	}
}

// PurchaseOrderCancelledEvent is raised when an order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason,omitempty"`
}

// NewPurchaseOrderCancelledEvent builds the cancellation event
func NewPurchaseOrderCancelledEvent(o *PurchaseOrder) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, AggregateTypePurchaseOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		Reason:          o.CancelReason,
	}
}

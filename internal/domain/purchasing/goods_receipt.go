package purchasing

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GoodsReceipt is one immutable receiving event against a purchase order
type GoodsReceipt struct {
	ID              uuid.UUID
	PurchaseOrderID uuid.UUID
	ReceivedBy      *uuid.UUID
	Note            string
	ReceivedAt      time.Time
	Items           []GoodsReceiptItem
}

// GoodsReceiptItem links a received quantity to its order item. Each one
// produces exactly one RECEIPT ledger entry.
type GoodsReceiptItem struct {
	ID                  uuid.UUID
	GoodsReceiptID      uuid.UUID
	PurchaseOrderItemID uuid.UUID
	VariantID           uuid.UUID
	QuantityReceived    int64
	CostCents           int64
}

func newGoodsReceipt(orderID uuid.UUID, receivedBy *uuid.UUID, note string) *GoodsReceipt {
	return &GoodsReceipt{
		ID:              uuid.New(),
		PurchaseOrderID: orderID,
		ReceivedBy:      receivedBy,
		Note:            strings.TrimSpace(note),
		ReceivedAt:      time.Now().UTC(),
	}
}

// VariantIDs returns the distinct variants touched by the receipt
func (r *GoodsReceipt) VariantIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(r.Items))
	ids := make([]uuid.UUID, 0, len(r.Items))
	for _, it := range r.Items {
		if !seen[it.VariantID] {
			seen[it.VariantID] = true
			ids = append(ids, it.VariantID)
		}
	}
	return ids
}

// TotalUnits sums the received quantities
func (r *GoodsReceipt) TotalUnits() int64 {
	var n int64
	for _, it := range r.Items {
		n += it.QuantityReceived
	}
	return n
}

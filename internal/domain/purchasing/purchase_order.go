package purchasing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

// OrderItem is one line of a purchase order. QuantityReceived is cumulative
// and never exceeds QuantityOrdered.
type OrderItem struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	VariantID        uuid.UUID
	QuantityOrdered  int64
	QuantityReceived int64
	CostCents        int64
}

// Outstanding is the quantity still expected
func (i *OrderItem) Outstanding() int64 {
	return i.QuantityOrdered - i.QuantityReceived
}

// IsFullyReceived reports whether nothing is outstanding
func (i *OrderItem) IsFullyReceived() bool {
	return i.QuantityReceived >= i.QuantityOrdered
}

// ItemInput is the caller-supplied shape of an order line
type ItemInput struct {
	VariantID       uuid.UUID
	QuantityOrdered int64
	CostCents       int64
}

// PurchaseOrder is the aggregate root for supplier orders and their receipts
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber  string
	SupplierID   uuid.UUID
	Status       OrderStatus
	Note         string
	OrderedAt    time.Time
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
	CancelReason string
	CreatedBy    *uuid.UUID
	Items        []OrderItem
	Receipts     []GoodsReceipt
}

// NewPurchaseOrder creates a DRAFT order numbered orderNumber
func NewPurchaseOrder(orderNumber string, supplierID uuid.UUID, items []ItemInput, note string, createdBy *uuid.UUID) (*PurchaseOrder, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, shared.NewValidationError("order number is required")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("supplier id is required")
	}
	if len(items) == 0 {
		return nil, shared.NewValidationError("purchase order must have at least one item")
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		SupplierID:        supplierID,
		Status:            OrderStatusDraft,
		Note:              strings.TrimSpace(note),
		CreatedBy:         createdBy,
	}
	order.OrderedAt = order.CreatedAt

	seen := make(map[uuid.UUID]bool, len(items))
	for i, in := range items {
		if in.VariantID == uuid.Nil {
			return nil, shared.NewValidationError("item %d: variant id is required", i+1)
		}
		if seen[in.VariantID] {
			return nil, shared.NewValidationError("item %d: variant %s appears more than once", i+1, in.VariantID)
		}
		seen[in.VariantID] = true
		if in.QuantityOrdered <= 0 {
			return nil, shared.NewValidationError("item %d: quantity ordered must be positive", i+1)
		}
		if in.CostCents < 0 {
			return nil, shared.NewValidationError("item %d: cost cannot be negative", i+1)
		}
		order.Items = append(order.Items, OrderItem{
			ID:              uuid.New(),
			OrderID:         order.ID,
			VariantID:       in.VariantID,
			QuantityOrdered: in.QuantityOrdered,
			CostCents:       in.CostCents,
		})
	}
	return order, nil
}

// ReceiveEntry is one line of a receiving event
type ReceiveEntry struct {
	ItemID           uuid.UUID
	QuantityReceived int64
	CostCents        *int64
}

// Receive records goods arriving against the order. On success the items
// and status are updated and the new GoodsReceipt is returned; on failure
// the order is left untouched. Entries with a non-positive quantity are
// ignored.
func (o *PurchaseOrder) Receive(entries []ReceiveEntry, receivedBy *uuid.UUID, note string) (*GoodsReceipt, error) {
	if o.Status.IsTerminal() {
		return nil, shared.ErrOrderClosed.WithDetail("status", o.Status.String())
	}

	effective := make([]ReceiveEntry, 0, len(entries))
	for _, e := range entries {
		if e.QuantityReceived > 0 {
			effective = append(effective, e)
		}
	}
	if len(effective) == 0 {
		return nil, shared.ErrEmptyReceipt
	}

	pending := make(map[uuid.UUID]int64, len(effective))
	for _, e := range effective {
		item := o.GetItem(e.ItemID)
		if item == nil {
			return nil, shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("item %s is not on purchase order %s", e.ItemID, o.OrderNumber))
		}
		if e.CostCents != nil && *e.CostCents < 0 {
			return nil, shared.NewValidationError("item %s: cost cannot be negative", e.ItemID)
		}
		pending[e.ItemID] += e.QuantityReceived
		if item.QuantityReceived+pending[e.ItemID] > item.QuantityOrdered {
			return nil, shared.ErrOverReceipt.
				WithDetail("item_id", e.ItemID.String()).
				WithDetail("quantity_ordered", item.QuantityOrdered).
				WithDetail("quantity_received", item.QuantityReceived).
				WithDetail("outstanding", item.Outstanding())
		}
	}

	receipt := newGoodsReceipt(o.ID, receivedBy, note)
	for _, e := range effective {
		item := o.GetItem(e.ItemID)
		item.QuantityReceived += e.QuantityReceived
		cost := item.CostCents
		if e.CostCents != nil {
			cost = *e.CostCents
			item.CostCents = cost
		}
		receipt.Items = append(receipt.Items, GoodsReceiptItem{
			ID:                  uuid.New(),
			GoodsReceiptID:      receipt.ID,
			PurchaseOrderItemID: item.ID,
			VariantID:           item.VariantID,
			QuantityReceived:    e.QuantityReceived,
			CostCents:           cost,
		})
	}

	o.Status = DeriveStatus(o.Items)
	if o.Status == OrderStatusReceived {
		at := receipt.ReceivedAt
		o.ReceivedAt = &at
	}
	o.Receipts = append(o.Receipts, *receipt)
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewGoodsReceivedEvent(o, receipt))

	return receipt, nil
}

// Cancel closes an open order. Goods already received stay in stock.
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.ErrOrderClosed.WithDetail("status", o.Status.String())
	}
	now := time.Now().UTC()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = strings.TrimSpace(reason)
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o))
	return nil
}

// GetItem returns the item with the given ID, or nil
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// TotalOrdered sums ordered quantities
func (o *PurchaseOrder) TotalOrdered() int64 {
	var n int64
	for _, it := range o.Items {
		n += it.QuantityOrdered
	}
	return n
}

// TotalReceived sums received quantities
func (o *PurchaseOrder) TotalReceived() int64 {
	var n int64
	for _, it := range o.Items {
		n += it.QuantityReceived
	}
	return n
}

// TotalCostCents is the ordered value at current item costs
func (o *PurchaseOrder) TotalCostCents() int64 {
	var n int64
	for _, it := range o.Items {
		n += it.CostCents * it.QuantityOrdered
	}
	return n
}

// FormatOrderNumber renders the seq-th order raised on day, e.g.
// PO-20260101-000007. Days are taken in UTC.
func FormatOrderNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("PO-%s-%06d", day.UTC().Format("20060102"), seq)
}

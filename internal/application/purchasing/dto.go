package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/purchasing"
)

// CreateOrderRequest describes a new purchase order
type CreateOrderRequest struct {
	SupplierID uuid.UUID
	Items      []CreateItemRequest
	Note       string
	CreatedBy  *uuid.UUID
}

// CreateItemRequest is one ordered variant; CostCents defaults to the variant's cost
type CreateItemRequest struct {
	VariantID       uuid.UUID
	QuantityOrdered int64
	CostCents       *int64
}

// ReceiveRequest records goods arriving against an order
type ReceiveRequest struct {
	Entries    []ReceiveEntryRequest
	Note       string
	ReceivedBy *uuid.UUID
}

// ReceiveEntryRequest is one received item line
type ReceiveEntryRequest struct {
	ItemID           uuid.UUID
	QuantityReceived int64
	CostCents        *int64
}

// OrderListFilter narrows order listings
type OrderListFilter struct {
	Page       int
	PageSize   int
	Status     string
	SupplierID *uuid.UUID
}

// OrderResponse is the outward view of a purchase order
type OrderResponse struct {
	ID             uuid.UUID         `json:"id"`
	OrderNumber    string            `json:"order_number"`
	SupplierID     uuid.UUID         `json:"supplier_id"`
	Status         string            `json:"status"`
	Note           string            `json:"note,omitempty"`
	OrderedAt      time.Time         `json:"ordered_at"`
	ReceivedAt     *time.Time        `json:"received_at,omitempty"`
	CancelledAt    *time.Time        `json:"cancelled_at,omitempty"`
	CancelReason   string            `json:"cancel_reason,omitempty"`
	TotalOrdered   int64             `json:"total_ordered"`
	TotalReceived  int64             `json:"total_received"`
	TotalCostCents int64             `json:"total_cost_cents"`
	Items          []ItemResponse    `json:"items"`
	Receipts       []ReceiptResponse `json:"receipts,omitempty"`
	Version        int               `json:"version"`
}

// ItemResponse is one order line
type ItemResponse struct {
	ID               uuid.UUID `json:"id"`
	VariantID        uuid.UUID `json:"variant_id"`
	QuantityOrdered  int64     `json:"quantity_ordered"`
	QuantityReceived int64     `json:"quantity_received"`
	Outstanding      int64     `json:"outstanding"`
	CostCents        int64     `json:"cost_cents"`
}

// ReceiptResponse is one goods receipt
type ReceiptResponse struct {
	ID         uuid.UUID             `json:"id"`
	ReceivedBy *uuid.UUID            `json:"received_by,omitempty"`
	Note       string                `json:"note,omitempty"`
	ReceivedAt time.Time             `json:"received_at"`
	Items      []ReceiptItemResponse `json:"items"`
}

// ReceiptItemResponse is one received line
type ReceiptItemResponse struct {
	ID                  uuid.UUID `json:"id"`
	PurchaseOrderItemID uuid.UUID `json:"purchase_order_item_id"`
	VariantID           uuid.UUID `json:"variant_id"`
	QuantityReceived    int64     `json:"quantity_received"`
	CostCents           int64     `json:"cost_cents"`
}

// ReceiveResponse is the updated order plus the receipt just created
type ReceiveResponse struct {
	Order   OrderResponse   `json:"order"`
	Receipt ReceiptResponse `json:"receipt"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *purchasing.PurchaseOrder) OrderResponse {
	items := make([]ItemResponse, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		items[i] = ItemResponse{
			ID:               it.ID,
			VariantID:        it.VariantID,
			QuantityOrdered:  it.QuantityOrdered,
			QuantityReceived: it.QuantityReceived,
			Outstanding:      it.Outstanding(),
			CostCents:        it.CostCents,
		}
	}
	resp := OrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		SupplierID:     o.SupplierID,
		Status:         o.Status.String(),
		Note:           o.Note,
		OrderedAt:      o.OrderedAt,
		ReceivedAt:     o.ReceivedAt,
		CancelledAt:    o.CancelledAt,
		CancelReason:   o.CancelReason,
		TotalOrdered:   o.TotalOrdered(),
		TotalReceived:  o.TotalReceived(),
		TotalCostCents: o.TotalCostCents(),
		Items:          items,
		Version:        o.Version,
	}
	for i := range o.Receipts {
		resp.Receipts = append(resp.Receipts, ToReceiptResponse(&o.Receipts[i]))
	}
	return resp
}

// ToReceiptResponse converts a domain goods receipt
func ToReceiptResponse(r *purchasing.GoodsReceipt) ReceiptResponse {
	items := make([]ReceiptItemResponse, len(r.Items))
	for i, it := range r.Items {
		items[i] = ReceiptItemResponse{
			ID:                  it.ID,
			PurchaseOrderItemID: it.PurchaseOrderItemID,
			VariantID:           it.VariantID,
			QuantityReceived:    it.QuantityReceived,
			CostCents:           it.CostCents,
		}
	}
	return ReceiptResponse{
		ID:         r.ID,
		ReceivedBy: r.ReceivedBy,
		Note:       r.Note,
		ReceivedAt: r.ReceivedAt,
		Items:      items,
	}
}

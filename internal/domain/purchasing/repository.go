package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

// OrderFilter narrows a purchase order listing
type OrderFilter struct {
	shared.Filter
	Status     *OrderStatus
	SupplierID *uuid.UUID
}

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// Create inserts a new order with its items
	Create(ctx context.Context, order *PurchaseOrder) error

	// FindByID loads an order with items and receipts
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForUpdate loads an order with items and row-locks the order.
	// It must be called inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindAll lists orders (items included) newest first
	FindAll(ctx context.Context, filter OrderFilter) ([]PurchaseOrder, int64, error)

	// Update persists status, timestamps and item quantities/costs
	Update(ctx context.Context, order *PurchaseOrder) error

	// NextOrderNumber issues the next order number for day
	NextOrderNumber(ctx context.Context, day time.Time) (string, error)
}

// GoodsReceiptRepository stores immutable receiving events
type GoodsReceiptRepository interface {
	// Create inserts a receipt with its items
	Create(ctx context.Context, receipt *GoodsReceipt) error

	// FindByOrder lists receipts of an order oldest first
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]GoodsReceipt, error)
}

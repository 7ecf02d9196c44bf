package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/purchasing"
)

// PurchaseOrderModel is the persistence model for the purchasing.PurchaseOrder aggregate
type PurchaseOrderModel struct {
	AggregateModel
	OrderNumber  string                 `gorm:"type:varchar(30);not null;uniqueIndex"`
	SupplierID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	Status       purchasing.OrderStatus `gorm:"type:varchar(20);not null;index"`
	Note         string                 `gorm:"type:text"`
	OrderedAt    time.Time              `gorm:"not null"`
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
	CancelReason string     `gorm:"type:varchar(255)"`
	CreatedBy    *uuid.UUID `gorm:"type:uuid"`

	Items    []PurchaseOrderItemModel `gorm:"foreignKey:PurchaseOrderID;references:ID"`
	Receipts []GoodsReceiptModel      `gorm:"foreignKey:PurchaseOrderID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the model (with whatever associations were preloaded)
func (m *PurchaseOrderModel) ToDomain() *purchasing.PurchaseOrder {
	o := &purchasing.PurchaseOrder{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		SupplierID:        m.SupplierID,
		Status:            m.Status,
		Note:              m.Note,
		OrderedAt:         m.OrderedAt,
		ReceivedAt:        m.ReceivedAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
		CreatedBy:         m.CreatedBy,
		Items:             make([]purchasing.OrderItem, len(m.Items)),
		Receipts:          make([]purchasing.GoodsReceipt, len(m.Receipts)),
	}
	for i := range m.Items {
		o.Items[i] = m.Items[i].ToDomain()
	}
	for i := range m.Receipts {
		o.Receipts[i] = *m.Receipts[i].ToDomain()
	}
	return o
}

// PurchaseOrderModelFromDomain builds the order row and its items. Receipts
// are written separately through the goods receipt repository.
func PurchaseOrderModelFromDomain(o *purchasing.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{
		OrderNumber:  o.OrderNumber,
		SupplierID:   o.SupplierID,
		Status:       o.Status,
		Note:         o.Note,
		OrderedAt:    o.OrderedAt,
		ReceivedAt:   o.ReceivedAt,
		CancelledAt:  o.CancelledAt,
		CancelReason: o.CancelReason,
		CreatedBy:    o.CreatedBy,
		Items:        make([]PurchaseOrderItemModel, len(o.Items)),
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	for i := range o.Items {
		m.Items[i] = PurchaseOrderItemModelFromDomain(o.ID, i+1, &o.Items[i], o.UpdatedAt)
	}
	return m
}

// PurchaseOrderItemModel is one ordered variant with its cumulative receipt
type PurchaseOrderItemModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	PurchaseOrderID  uuid.UUID `gorm:"type:uuid;not null;index"`
	LineNo           int       `gorm:"not null"`
	VariantID        uuid.UUID `gorm:"type:uuid;not null;index"`
	QuantityOrdered  int64     `gorm:"not null"`
	QuantityReceived int64     `gorm:"not null"`
	CostCents        int64     `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// ToDomain converts the model to a purchasing.OrderItem
func (m *PurchaseOrderItemModel) ToDomain() purchasing.OrderItem {
	return purchasing.OrderItem{
		ID:               m.ID,
		OrderID:          m.PurchaseOrderID,
		VariantID:        m.VariantID,
		QuantityOrdered:  m.QuantityOrdered,
		QuantityReceived: m.QuantityReceived,
		CostCents:        m.CostCents,
	}
}

// PurchaseOrderItemModelFromDomain builds the lineNo-th item row
func PurchaseOrderItemModelFromDomain(orderID uuid.UUID, lineNo int, it *purchasing.OrderItem, at time.Time) PurchaseOrderItemModel {
	return PurchaseOrderItemModel{
		ID:               it.ID,
		PurchaseOrderID:  orderID,
		LineNo:           lineNo,
		VariantID:        it.VariantID,
		QuantityOrdered:  it.QuantityOrdered,
		QuantityReceived: it.QuantityReceived,
		CostCents:        it.CostCents,
		UpdatedAt:        at,
	}
}

// GoodsReceiptModel is one immutable receiving event
type GoodsReceiptModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PurchaseOrderID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ReceivedBy      *uuid.UUID `gorm:"type:uuid"`
	Note            string     `gorm:"type:text"`
	ReceivedAt      time.Time  `gorm:"not null"`

	Items []GoodsReceiptItemModel `gorm:"foreignKey:GoodsReceiptID;references:ID"`
}

// TableName returns the table name for GORM
func (GoodsReceiptModel) TableName() string {
	return "goods_receipts"
}

// ToDomain converts the model to a purchasing.GoodsReceipt
func (m *GoodsReceiptModel) ToDomain() *purchasing.GoodsReceipt {
	r := &purchasing.GoodsReceipt{
		ID:              m.ID,
		PurchaseOrderID: m.PurchaseOrderID,
		ReceivedBy:      m.ReceivedBy,
		Note:            m.Note,
		ReceivedAt:      m.ReceivedAt,
		Items:           make([]purchasing.GoodsReceiptItem, len(m.Items)),
	}
	for i, it := range m.Items {
		r.Items[i] = purchasing.GoodsReceiptItem{
			ID:                  it.ID,
			GoodsReceiptID:      it.GoodsReceiptID,
			PurchaseOrderItemID: it.PurchaseOrderItemID,
			VariantID:           it.VariantID,
			QuantityReceived:    it.QuantityReceived,
			CostCents:           it.CostCents,
		}
	}
	return r
}

// GoodsReceiptModelFromDomain builds the receipt row and its items
func GoodsReceiptModelFromDomain(r *purchasing.GoodsReceipt) *GoodsReceiptModel {
	m := &GoodsReceiptModel{
		ID:              r.ID,
		PurchaseOrderID: r.PurchaseOrderID,
		ReceivedBy:      r.ReceivedBy,
		Note:            r.Note,
		ReceivedAt:      r.ReceivedAt,
		Items:           make([]GoodsReceiptItemModel, len(r.Items)),
	}
	for i, it := range r.Items {
		m.Items[i] = GoodsReceiptItemModel{
			ID:                  it.ID,
			GoodsReceiptID:      r.ID,
			LineNo:              i + 1,
			PurchaseOrderItemID: it.PurchaseOrderItemID,
			VariantID:           it.VariantID,
			QuantityReceived:    it.QuantityReceived,
			CostCents:           it.CostCents,
		}
	}
	return m
}

// GoodsReceiptItemModel links a received quantity to its order item
type GoodsReceiptItemModel struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	GoodsReceiptID      uuid.UUID `gorm:"type:uuid;not null;index"`
	LineNo              int       `gorm:"not null"`
	PurchaseOrderItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	VariantID           uuid.UUID `gorm:"type:uuid;not null"`
	QuantityReceived    int64     `gorm:"not null"`
	CostCents           int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (GoodsReceiptItemModel) TableName() string {
	return "goods_receipt_items"
}

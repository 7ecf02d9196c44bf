package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/purchasing"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseOrderRepository implements purchasing.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("purchase_order_items.line_no ASC")
}

func receiptItems(db *gorm.DB) *gorm.DB {
	return db.Order("goods_receipt_items.line_no ASC")
}

// Create inserts the order and its items
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *purchasing.PurchaseOrder) error {
	m := models.PurchaseOrderModelFromDomain(order)
	return translateError(r.db.WithContext(ctx).Omit("Receipts").Create(m).Error)
}

// FindByID loads an order with its items and receipts
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var m models.PurchaseOrderModel
	err := r.db.WithContext(ctx).
		Preload("Items", orderItems).
		Preload("Receipts", func(db *gorm.DB) *gorm.DB { return db.Order("goods_receipts.received_at ASC") }).
		Preload("Receipts.Items", receiptItems).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByIDForUpdate row-locks the order, then loads its items. Receipts are
// not loaded; receiving only appends to them.
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var m models.PurchaseOrderModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	if err := orderItems(r.db.WithContext(ctx)).Where("purchase_order_id = ?", id).Find(&m.Items).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists orders newest first with their items
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter purchasing.OrderFilter) ([]purchasing.PurchaseOrder, int64, error) {
	page := filter.Filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if s := likePattern(page.Search); s != "" {
		query = query.Where("LOWER(order_number) LIKE ?", s)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PurchaseOrderModel
	err := query.
		Preload("Items", orderItems).
		Order(orderClause(page.OrderBy, page.OrderDir, PurchaseOrderSortFields, "created_at")).
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	out := make([]purchasing.PurchaseOrder, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Update writes the order header and every item's received quantity and cost
func (r *GormPurchaseOrderRepository) Update(ctx context.Context, order *purchasing.PurchaseOrder) error {
	db := r.db.WithContext(ctx)
	err := db.Model(&models.PurchaseOrderModel{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":        string(order.Status),
			"note":          order.Note,
			"received_at":   order.ReceivedAt,
			"cancelled_at":  order.CancelledAt,
			"cancel_reason": order.CancelReason,
			"version":       order.Version,
			"updated_at":    order.UpdatedAt,
		}).Error
	if err != nil {
		return translateError(err)
	}

	for i := range order.Items {
		it := &order.Items[i]
		err := db.Model(&models.PurchaseOrderItemModel{}).
			Where("id = ? AND purchase_order_id = ?", it.ID, order.ID).
			Updates(map[string]any{
				"quantity_received": it.QuantityReceived,
				"cost_cents":        it.CostCents,
				"updated_at":        order.UpdatedAt,
			}).Error
		if err != nil {
			return translateError(err)
		}
	}
	return nil
}

// NextOrderNumber takes the day's next order number from document_sequences
func (r *GormPurchaseOrderRepository) NextOrderNumber(ctx context.Context, day time.Time) (string, error) {
	seq, err := nextSequence(ctx, r.db, sequenceScopePurchaseOrder, day)
	if err != nil {
		return "", err
	}
	return purchasing.FormatOrderNumber(day, seq), nil
}

// GormGoodsReceiptRepository implements purchasing.GoodsReceiptRepository using GORM
type GormGoodsReceiptRepository struct {
	db *gorm.DB
}

// NewGormGoodsReceiptRepository creates a new GormGoodsReceiptRepository
func NewGormGoodsReceiptRepository(db *gorm.DB) *GormGoodsReceiptRepository {
	return &GormGoodsReceiptRepository{db: db}
}

// Create inserts the receipt and its items
func (r *GormGoodsReceiptRepository) Create(ctx context.Context, receipt *purchasing.GoodsReceipt) error {
	return translateError(r.db.WithContext(ctx).Create(models.GoodsReceiptModelFromDomain(receipt)).Error)
}

// FindByOrder lists an order's receipts oldest first
func (r *GormGoodsReceiptRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]purchasing.GoodsReceipt, error) {
	var rows []models.GoodsReceiptModel
	err := r.db.WithContext(ctx).
		Preload("Items", receiptItems).
		Where("purchase_order_id = ?", orderID).
		Order("received_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]purchasing.GoodsReceipt, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var (
	_ purchasing.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
	_ purchasing.GoodsReceiptRepository  = (*GormGoodsReceiptRepository)(nil)
)

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/sales"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSaleRepository implements sales.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Create inserts the sale together with its lines and payments. A second
// sale under the same idempotency key fails with ALREADY_EXISTS.
func (r *GormSaleRepository) Create(ctx context.Context, sale *sales.Sale) error {
	err := r.db.WithContext(ctx).Create(models.SaleModelFromDomain(sale)).Error
	if err == nil {
		return nil
	}
	err = translateError(err)
	if errors.Is(err, shared.ErrAlreadyExists) && sale.IdempotencyKey != "" {
		return shared.ErrAlreadyExists.WithDetail("idempotency_key", sale.IdempotencyKey)
	}
	return err
}

func saleLines(db *gorm.DB) *gorm.DB {
	return db.Order("sale_lines.line_no ASC")
}

func salePayments(db *gorm.DB) *gorm.DB {
	return db.Order("sale_payments.line_no ASC")
}

func (r *GormSaleRepository) withChildren(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Lines", saleLines).
		Preload("Payments", salePayments)
}

// FindByID loads a sale with lines and payments
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var m models.SaleModel
	if err := r.withChildren(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByIdempotencyKey loads the sale created under a client key
func (r *GormSaleRepository) FindByIdempotencyKey(ctx context.Context, key string) (*sales.Sale, error) {
	var m models.SaleModel
	if err := r.withChildren(ctx).First(&m, "idempotency_key = ?", key).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists sales newest first
func (r *GormSaleRepository) FindAll(ctx context.Context, filter sales.SaleFilter) ([]sales.Sale, int64, error) {
	page := filter.Filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.SaleModel{})
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", filter.DateFrom.UTC())
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", filter.DateTo.UTC())
	}
	if filter.CashierID != nil {
		query = query.Where("cashier_id = ?", *filter.CashierID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SaleModel
	err := query.
		Preload("Lines", saleLines).
		Preload("Payments", salePayments).
		Order(orderClause(page.OrderBy, page.OrderDir, SaleSortFields, "created_at")).
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	out := make([]sales.Sale, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

type saleTotalsRow struct {
	SaleCount     int64
	SubtotalCents int64
	DiscountCents int64
	TaxCents      int64
	TotalCents    int64
}

// Summarize aggregates sales created in [from, to)
func (r *GormSaleRepository) Summarize(ctx context.Context, from, to time.Time) (*sales.Summary, error) {
	from, to = from.UTC(), to.UTC()

	var totals saleTotalsRow
	err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Select(`COUNT(*) AS sale_count,
			CAST(COALESCE(SUM(subtotal_cents), 0) AS BIGINT) AS subtotal_cents,
			CAST(COALESCE(SUM(discount_cents), 0) AS BIGINT) AS discount_cents,
			CAST(COALESCE(SUM(tax_cents), 0) AS BIGINT) AS tax_cents,
			CAST(COALESCE(SUM(total_cents), 0) AS BIGINT) AS total_cents`).
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	var units int64
	err = r.db.WithContext(ctx).
		Model(&models.SaleLineModel{}).
		Joins("JOIN sales ON sales.id = sale_lines.sale_id").
		Select("CAST(COALESCE(SUM(sale_lines.quantity), 0) AS BIGINT)").
		Where("sales.created_at >= ? AND sales.created_at < ?", from, to).
		Scan(&units).Error
	if err != nil {
		return nil, err
	}

	return &sales.Summary{
		SaleCount:     totals.SaleCount,
		UnitsSold:     units,
		SubtotalCents: totals.SubtotalCents,
		DiscountCents: totals.DiscountCents,
		TaxCents:      totals.TaxCents,
		TotalCents:    totals.TotalCents,
	}, nil
}

// NextReceiptNumber takes the day's next receipt number from document_sequences
func (r *GormSaleRepository) NextReceiptNumber(ctx context.Context, day time.Time) (string, error) {
	seq, err := nextSequence(ctx, r.db, sequenceScopeSale, day)
	if err != nil {
		return "", err
	}
	return sales.FormatReceiptNumber(day, seq), nil
}

var _ sales.SaleRepository = (*GormSaleRepository)(nil)

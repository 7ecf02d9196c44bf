package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/ledger"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// onHandExpr sums a variant's movements. The cast keeps the result an
// integer on PostgreSQL, where SUM(bigint) is numeric.
const onHandExpr = "CAST(COALESCE(SUM(quantity_change), 0) AS BIGINT)"

// GormEntryRepository is the append-only ledger store. It only ever issues
// INSERT and SELECT statements against ledger_entries.
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository creates a new GormEntryRepository
func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

// Append inserts the entry and copies the database-assigned Seq back
func (r *GormEntryRepository) Append(ctx context.Context, entry *ledger.Entry) error {
	m := models.LedgerEntryModelFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	entry.Seq = m.Seq
	return nil
}

// SumByVariant computes on-hand for one variant
func (r *GormEntryRepository) SumByVariant(ctx context.Context, variantID uuid.UUID) (int64, error) {
	var onHand int64
	err := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Select(onHandExpr).
		Where("variant_id = ?", variantID).
		Scan(&onHand).Error
	if err != nil {
		return 0, translateError(err)
	}
	return onHand, nil
}

type variantOnHand struct {
	VariantID uuid.UUID
	OnHand    int64
}

// SumByVariants computes on-hand for several variants in one grouped query
func (r *GormEntryRepository) SumByVariants(ctx context.Context, variantIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(variantIDs))
	if len(variantIDs) == 0 {
		return out, nil
	}
	for _, id := range variantIDs {
		out[id] = 0
	}

	var rows []variantOnHand
	err := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Select("variant_id, " + onHandExpr + " AS on_hand").
		Where("variant_id IN ?", variantIDs).
		Group("variant_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	for _, row := range rows {
		out[row.VariantID] = row.OnHand
	}
	return out, nil
}

// FindByVariant lists a variant's entries newest first
func (r *GormEntryRepository) FindByVariant(ctx context.Context, variantID uuid.UUID, filter ledger.EntryFilter) ([]ledger.Entry, int64, error) {
	page := filter.Filter.Normalize()
	query := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Where("variant_id = ?", variantID)
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.Reason != "" {
		query = query.Where("reason LIKE ?", filter.Reason+"%")
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", filter.DateFrom.UTC())
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", filter.DateTo.UTC())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.LedgerEntryModel
	err := query.
		Order("seq DESC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return entriesToDomain(rows), total, nil
}

// FindByReference lists the entries written for one business document
func (r *GormEntryRepository) FindByReference(ctx context.Context, reference string) ([]ledger.Entry, error) {
	var rows []models.LedgerEntryModel
	err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return entriesToDomain(rows), nil
}

type stockLevelRow struct {
	VariantID uuid.UUID
	SKU       string `gorm:"column:sku"`
	OnHand    int64
}

// ListStockLevels derives on-hand for every variant with one grouped
// subquery, ordered by SKU.
func (r *GormEntryRepository) ListStockLevels(ctx context.Context, filter ledger.StockLevelFilter) ([]ledger.StockLevel, int64, error) {
	page := filter.Filter.Normalize()
	sums := r.db.
		Model(&models.LedgerEntryModel{}).
		Select("variant_id, SUM(quantity_change) AS on_hand").
		Group("variant_id")

	query := r.db.WithContext(ctx).
		Table("variants").
		Joins("LEFT JOIN (?) AS l ON l.variant_id = variants.id", sums)
	if s := likePattern(page.Search); s != "" {
		query = query.Where("LOWER(variants.sku) LIKE ?", s)
	}
	if filter.Below != nil {
		query = query.Where("COALESCE(l.on_hand, 0) < ?", *filter.Below)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []stockLevelRow
	err := query.
		Select("variants.id AS variant_id, variants.sku AS sku, CAST(COALESCE(l.on_hand, 0) AS BIGINT) AS on_hand").
		Order("variants.sku ASC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	out := make([]ledger.StockLevel, len(rows))
	for i, row := range rows {
		out[i] = ledger.StockLevel{VariantID: row.VariantID, SKU: row.SKU, OnHand: row.OnHand}
	}
	return out, total, nil
}

func entriesToDomain(rows []models.LedgerEntryModel) []ledger.Entry {
	out := make([]ledger.Entry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ ledger.EntryRepository = (*GormEntryRepository)(nil)

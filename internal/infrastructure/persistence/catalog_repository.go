package persistence

import (
	"bytes"
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/catalog"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var m models.ProductModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists products, searching name and brand
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.ProductModel{})
	if s := likePattern(filter.Search); s != "" {
		query = query.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ?", s, s)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProductModel
	err := query.
		Order(orderClause(filter.OrderBy, filter.OrderDir, ProductSortFields, "created_at")).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	out := make([]catalog.Product, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return translateError(r.db.WithContext(ctx).Save(models.ProductModelFromDomain(product)).Error)
}

// GormVariantRepository implements catalog.VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// FindByID finds a variant by its ID
func (r *GormVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	var m models.VariantModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByIDs finds variants by ID; missing IDs are absent from the result
func (r *GormVariantRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Variant, error) {
	if len(ids) == 0 {
		return []catalog.Variant{}, nil
	}
	var rows []models.VariantModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return variantsToDomain(rows), nil
}

// FindBySKU finds a variant by its SKU (case-insensitive)
func (r *GormVariantRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Variant, error) {
	var m models.VariantModel
	err := r.db.WithContext(ctx).
		Where("sku = ?", strings.ToUpper(strings.TrimSpace(sku))).
		First(&m).Error
	if err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists variants. Filters: product_id (uuid.UUID), active (bool).
// Search matches the SKU or the product name.
func (r *GormVariantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Variant, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.VariantModel{})
	if productID, ok := filter.Filters["product_id"]; ok {
		query = query.Where("variants.product_id = ?", productID)
	}
	if active, ok := filter.Filters["active"].(bool); ok {
		query = query.Where("variants.active = ?", active)
	}
	if s := likePattern(filter.Search); s != "" {
		query = query.
			Joins("LEFT JOIN products ON products.id = variants.product_id").
			Where("LOWER(variants.sku) LIKE ? OR LOWER(products.name) LIKE ?", s, s)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.VariantModel
	err := query.
		Select("variants.*").
		Order("variants." + orderClause(filter.OrderBy, filter.OrderDir, VariantSortFields, "created_at")).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return variantsToDomain(rows), total, nil
}

// LockForUpdate takes row locks on the variants in ascending ID order. Two
// transactions locking overlapping sets therefore queue instead of
// deadlocking.
func (r *GormVariantRepository) LockForUpdate(ctx context.Context, ids []uuid.UUID) ([]catalog.Variant, error) {
	if len(ids) == 0 {
		return []catalog.Variant{}, nil
	}
	ordered := slices.Clone(ids)
	slices.SortFunc(ordered, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	ordered = slices.Compact(ordered)

	var rows []models.VariantModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ordered).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	if len(rows) != len(ordered) {
		found := make(map[uuid.UUID]bool, len(rows))
		for _, m := range rows {
			found[m.ID] = true
		}
		for _, id := range ordered {
			if !found[id] {
				return nil, shared.ErrNotFound.WithDetail("variant_id", id.String())
			}
		}
	}

	out := variantsToDomain(rows)
	slices.SortFunc(out, func(a, b catalog.Variant) int { return bytes.Compare(a.ID[:], b.ID[:]) })
	return out, nil
}

// Save creates or updates a variant
func (r *GormVariantRepository) Save(ctx context.Context, variant *catalog.Variant) error {
	return translateError(r.db.WithContext(ctx).Save(models.VariantModelFromDomain(variant)).Error)
}

func variantsToDomain(rows []models.VariantModel) []catalog.Variant {
	out := make([]catalog.Variant, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// likePattern lowercases a search term into a contains pattern, escaping
// nothing: search is a convenience filter, not an exact match.
func likePattern(search string) string {
	s := strings.ToLower(strings.TrimSpace(search))
	if s == "" {
		return ""
	}
	return "%" + s + "%"
}

var (
	_ catalog.ProductRepository = (*GormProductRepository)(nil)
	_ catalog.VariantRepository = (*GormVariantRepository)(nil)
)

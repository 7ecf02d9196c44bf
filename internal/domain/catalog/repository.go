package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll finds products matching the filter (search on name/brand)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}

// VariantRepository defines the interface for variant persistence
type VariantRepository interface {
	// FindByID finds a variant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Variant, error)

	// FindByIDs finds variants by ID; missing IDs are simply absent from the result
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Variant, error)

	// FindBySKU finds a variant by its SKU
	FindBySKU(ctx context.Context, sku string) (*Variant, error)

	// FindAll finds variants matching the filter (product_id, active, search on sku)
	FindAll(ctx context.Context, filter shared.Filter) ([]Variant, int64, error)

	// LockForUpdate row-locks the given variants (SELECT ... FOR UPDATE) in
	// ascending ID order and returns them in that order. It must be called
	// inside a transaction. Unknown IDs yield shared.ErrNotFound.
	LockForUpdate(ctx context.Context, ids []uuid.UUID) ([]Variant, error)

	// Save creates or updates a variant
	Save(ctx context.Context, variant *Variant) error
}

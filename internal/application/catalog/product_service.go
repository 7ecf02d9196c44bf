package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/catalog"
	"github.com/realmfikri/pos-shoestore/internal/domain/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

// ProductService handles products and their variants
type ProductService struct {
	products catalog.ProductRepository
	variants catalog.VariantRepository
	entries  ledger.EntryRepository
}

// NewProductService creates a new ProductService
func NewProductService(products catalog.ProductRepository, variants catalog.VariantRepository, entries ledger.EntryRepository) *ProductService {
	return &ProductService{products: products, variants: variants, entries: entries}
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.Brand, req.Category, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// ListProducts lists products matching the search
func (s *ProductService) ListProducts(ctx context.Context, filter shared.Filter) ([]ProductResponse, int64, error) {
	products, total, err := s.products.FindAll(ctx, filter.Normalize())
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out, total, nil
}

// CreateVariant adds a SKU to a product. The SKU must be unique.
func (s *ProductService) CreateVariant(ctx context.Context, req CreateVariantRequest) (*VariantResponse, error) {
	if _, err := s.products.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}
	variant, err := catalog.NewVariant(req.ProductID, req.SKU, req.Size, req.Color, req.PriceCents, req.CostCents)
	if err != nil {
		return nil, err
	}

	existing, err := s.variants.FindBySKU(ctx, variant.SKU)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "variant with sku "+variant.SKU+" already exists")
	}

	if err := s.variants.Save(ctx, variant); err != nil {
		return nil, err
	}
	resp := ToVariantResponse(variant, 0)
	return &resp, nil
}

// UpdateVariant changes descriptive or pricing fields
func (s *ProductService) UpdateVariant(ctx context.Context, id uuid.UUID, req UpdateVariantRequest) (*VariantResponse, error) {
	variant, err := s.variants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := variant.Apply(req); err != nil {
		return nil, err
	}
	if err := s.variants.Save(ctx, variant); err != nil {
		return nil, err
	}
	onHand, err := s.entries.SumByVariant(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToVariantResponse(variant, onHand)
	return &resp, nil
}

// GetVariant retrieves a variant with its derived on-hand
func (s *ProductService) GetVariant(ctx context.Context, id uuid.UUID) (*VariantResponse, error) {
	variant, err := s.variants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	onHand, err := s.entries.SumByVariant(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToVariantResponse(variant, onHand)
	return &resp, nil
}

// ListVariants lists variants with on-hand computed in one grouped query
func (s *ProductService) ListVariants(ctx context.Context, filter VariantListFilter) ([]VariantResponse, int64, error) {
	domainFilter := shared.Filter{Page: filter.Page, PageSize: filter.PageSize, Search: filter.Search, OrderBy: "sku", OrderDir: "asc"}.Normalize()
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	variants, total, err := s.variants.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]uuid.UUID, len(variants))
	for i, v := range variants {
		ids[i] = v.ID
	}
	onHand := map[uuid.UUID]int64{}
	if len(ids) > 0 {
		if onHand, err = s.entries.SumByVariants(ctx, ids); err != nil {
			return nil, 0, err
		}
	}

	out := make([]VariantResponse, len(variants))
	for i := range variants {
		out[i] = ToVariantResponse(&variants[i], onHand[variants[i].ID])
	}
	return out, total, nil
}

package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/catalog"
)

// CreateProductRequest describes a new shoe model
type CreateProductRequest struct {
	Name        string
	Brand       string
	Category    string
	Description string
}

// CreateVariantRequest describes a new sellable SKU
type CreateVariantRequest struct {
	ProductID  uuid.UUID
	SKU        string
	Size       string
	Color      string
	PriceCents int64
	CostCents  int64
}

// UpdateVariantRequest changes descriptive or pricing fields; quantity is never updatable
type UpdateVariantRequest = catalog.VariantUpdate

// VariantListFilter narrows variant listings
type VariantListFilter struct {
	Page      int
	PageSize  int
	Search    string
	ProductID *uuid.UUID
	Active    *bool
}

// ProductResponse is the outward view of a product
type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VariantResponse is the outward view of a variant with its derived on-hand
type VariantResponse struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	SKU        string    `json:"sku"`
	Size       string    `json:"size,omitempty"`
	Color      string    `json:"color,omitempty"`
	PriceCents int64     `json:"price_cents"`
	CostCents  int64     `json:"cost_cents"`
	Active     bool      `json:"active"`
	OnHand     int64     `json:"on_hand"`
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToProductResponse converts a domain product
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToVariantResponse converts a domain variant
func ToVariantResponse(v *catalog.Variant, onHand int64) VariantResponse {
	return VariantResponse{
		ID:         v.ID,
		ProductID:  v.ProductID,
		SKU:        v.SKU,
		Size:       v.Size,
		Color:      v.Color,
		PriceCents: v.PriceCents,
		CostCents:  v.CostCents,
		Active:     v.Active,
		OnHand:     onHand,
		Version:    v.Version,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

// Variant is a single purchasable SKU (size/color) of a Product.
// It deliberately has no quantity field: on-hand is always derived from
// the stock ledger.
type Variant struct {
	shared.BaseAggregateRoot
	ProductID  uuid.UUID
	SKU        string
	Size       string
	Color      string
	PriceCents int64
	CostCents  int64
	Active     bool
}

// NewVariant creates a new variant for a product
func NewVariant(productID uuid.UUID, sku, size, color string, priceCents, costCents int64) (*Variant, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("product id is required")
	}
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validatePrices(priceCents, costCents); err != nil {
		return nil, err
	}

	return &Variant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		SKU:               sku,
		Size:              strings.TrimSpace(size),
		Color:             strings.TrimSpace(color),
		PriceCents:        priceCents,
		CostCents:         costCents,
		Active:            true,
	}, nil
}

// VariantUpdate carries the descriptive and pricing fields that may change.
// Nil fields are left untouched.
type VariantUpdate struct {
	Size       *string
	Color      *string
	PriceCents *int64
	CostCents  *int64
	Active     *bool
}

// Apply mutates the descriptive/pricing fields of the variant
func (v *Variant) Apply(u VariantUpdate) error {
	price, cost := v.PriceCents, v.CostCents
	if u.PriceCents != nil {
		price = *u.PriceCents
	}
	if u.CostCents != nil {
		cost = *u.CostCents
	}
	if err := validatePrices(price, cost); err != nil {
		return err
	}

	v.PriceCents, v.CostCents = price, cost
	if u.Size != nil {
		v.Size = strings.TrimSpace(*u.Size)
	}
	if u.Color != nil {
		v.Color = strings.TrimSpace(*u.Color)
	}
	if u.Active != nil {
		v.Active = *u.Active
	}
	v.Touch()
	v.IncrementVersion()
	return nil
}

// Label is the short display name used on receipts, e.g. "SKU-42 (42/Black)"
func (v *Variant) Label() string {
	attrs := make([]string, 0, 2)
	if v.Size != "" {
		attrs = append(attrs, v.Size)
	}
	if v.Color != "" {
		attrs = append(attrs, v.Color)
	}
	if len(attrs) == 0 {
		return v.SKU
	}
	return v.SKU + " (" + strings.Join(attrs, "/") + ")"
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewValidationError("variant sku cannot be empty")
	}
	if utf8.RuneCountInString(sku) > 64 {
		return shared.NewValidationError("variant sku cannot exceed 64 characters")
	}
	return nil
}

func validatePrices(priceCents, costCents int64) error {
	if priceCents < 0 {
		return shared.NewValidationError("variant price cannot be negative")
	}
	if costCents < 0 {
		return shared.NewValidationError("variant cost cannot be negative")
	}
	return nil
}

package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

// Product groups the sellable variants of one shoe model
type Product struct {
	shared.BaseAggregateRoot
	Name        string
	Brand       string
	Category    string
	Description string
}

// NewProduct creates a new product
func NewProduct(name, brand, category, description string) (*Product, error) {
	name = strings.TrimSpace(name)
	brand = strings.TrimSpace(brand)
	if name == "" {
		return nil, shared.NewValidationError("product name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return nil, shared.NewValidationError("product name cannot exceed 200 characters")
	}
	if brand == "" {
		return nil, shared.NewValidationError("product brand cannot be empty")
	}
	if utf8.RuneCountInString(brand) > 100 {
		return nil, shared.NewValidationError("product brand cannot exceed 100 characters")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Brand:             brand,
		Category:          strings.TrimSpace(category),
		Description:       description,
	}, nil
}

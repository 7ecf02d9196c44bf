package models

import (
	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/catalog"
)

// ProductModel is the persistence model for catalog.Product
type ProductModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(200);not null"`
	Brand       string `gorm:"type:varchar(100);not null;index"`
	Category    string `gorm:"type:varchar(100)"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a catalog.Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Brand:             m.Brand,
		Category:          m.Category,
		Description:       m.Description,
	}
}

// ProductModelFromDomain builds the model for a product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		Description: p.Description,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// VariantModel is the persistence model for catalog.Variant. It has no
// quantity column.
type VariantModel struct {
	AggregateModel
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU        string    `gorm:"column:sku;type:varchar(64);not null;uniqueIndex"`
	Size       string    `gorm:"type:varchar(20)"`
	Color      string    `gorm:"type:varchar(50)"`
	PriceCents int64     `gorm:"not null"`
	CostCents  int64     `gorm:"not null"`
	Active     bool      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (VariantModel) TableName() string {
	return "variants"
}

// ToDomain converts the model to a catalog.Variant
func (m *VariantModel) ToDomain() *catalog.Variant {
	return &catalog.Variant{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ProductID:         m.ProductID,
		SKU:               m.SKU,
		Size:              m.Size,
		Color:             m.Color,
		PriceCents:        m.PriceCents,
		CostCents:         m.CostCents,
		Active:            m.Active,
	}
}

// VariantModelFromDomain builds the model for a variant
func VariantModelFromDomain(v *catalog.Variant) *VariantModel {
	m := &VariantModel{
		ProductID:  v.ProductID,
		SKU:        v.SKU,
		Size:       v.Size,
		Color:      v.Color,
		PriceCents: v.PriceCents,
		CostCents:  v.CostCents,
		Active:     v.Active,
	}
	m.FromDomainAggregateRoot(v.BaseAggregateRoot)
	return m
}

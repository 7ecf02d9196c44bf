package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/sales"
)

// SaleModel is the persistence model for the sales.Sale aggregate
type SaleModel struct {
	AggregateModel
	ReceiptNumber     string     `gorm:"type:varchar(30);not null;uniqueIndex"`
	SubtotalCents     int64      `gorm:"not null"`
	SaleDiscountCents int64      `gorm:"not null"`
	DiscountCents     int64      `gorm:"not null"`
	TaxCents          int64      `gorm:"not null"`
	TotalCents        int64      `gorm:"not null"`
	PaidCents         int64      `gorm:"not null"`
	ChangeDueCents    int64      `gorm:"not null"`
	CashierID         *uuid.UUID `gorm:"type:uuid;index"`
	IdempotencyKey    *string    `gorm:"type:varchar(100);uniqueIndex"`

	Lines    []SaleLineModel    `gorm:"foreignKey:SaleID;references:ID"`
	Payments []SalePaymentModel `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the model (with preloaded lines and payments) to a sales.Sale
func (m *SaleModel) ToDomain() *sales.Sale {
	s := &sales.Sale{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ReceiptNumber:     m.ReceiptNumber,
		SubtotalCents:     m.SubtotalCents,
		SaleDiscountCents: m.SaleDiscountCents,
		DiscountCents:     m.DiscountCents,
		TaxCents:          m.TaxCents,
		TotalCents:        m.TotalCents,
		PaidCents:         m.PaidCents,
		ChangeDueCents:    m.ChangeDueCents,
		CashierID:         m.CashierID,
		Lines:             make([]sales.SaleLine, len(m.Lines)),
		Payments:          make([]sales.Payment, len(m.Payments)),
	}
	if m.IdempotencyKey != nil {
		s.IdempotencyKey = *m.IdempotencyKey
	}
	for i := range m.Lines {
		s.Lines[i] = m.Lines[i].ToDomain()
	}
	for i := range m.Payments {
		s.Payments[i] = m.Payments[i].ToDomain()
	}
	return s
}

// SaleModelFromDomain builds the sale row together with its children
func SaleModelFromDomain(s *sales.Sale) *SaleModel {
	m := &SaleModel{
		ReceiptNumber:     s.ReceiptNumber,
		SubtotalCents:     s.SubtotalCents,
		SaleDiscountCents: s.SaleDiscountCents,
		DiscountCents:     s.DiscountCents,
		TaxCents:          s.TaxCents,
		TotalCents:        s.TotalCents,
		PaidCents:         s.PaidCents,
		ChangeDueCents:    s.ChangeDueCents,
		CashierID:         s.CashierID,
		Lines:             make([]SaleLineModel, len(s.Lines)),
		Payments:          make([]SalePaymentModel, len(s.Payments)),
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	if s.IdempotencyKey != "" {
		key := s.IdempotencyKey
		m.IdempotencyKey = &key
	}
	for i, l := range s.Lines {
		m.Lines[i] = SaleLineModel{
			ID:             l.ID,
			SaleID:         s.ID,
			LineNo:         i + 1,
			VariantID:      l.VariantID,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			DiscountCents:  l.DiscountCents,
			LineTotalCents: l.LineTotalCents,
			CreatedAt:      s.CreatedAt,
		}
	}
	for i, p := range s.Payments {
		m.Payments[i] = SalePaymentModel{
			ID:            p.ID,
			SaleID:        s.ID,
			LineNo:        i + 1,
			Method:        string(p.Method),
			AmountCents:   p.AmountCents,
			TenderedCents: p.TenderedCents,
			Reference:     p.Reference,
			CreatedAt:     s.CreatedAt,
		}
	}
	return m
}

// SaleLineModel is one committed line of a sale
type SaleLineModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	SaleID         uuid.UUID `gorm:"type:uuid;not null;index"`
	LineNo         int       `gorm:"not null"`
	VariantID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity       int64     `gorm:"not null"`
	UnitPriceCents int64     `gorm:"not null"`
	DiscountCents  int64     `gorm:"not null"`
	LineTotalCents int64     `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleLineModel) TableName() string {
	return "sale_lines"
}

// ToDomain converts the model to a sales.SaleLine
func (m *SaleLineModel) ToDomain() sales.SaleLine {
	return sales.SaleLine{
		ID:             m.ID,
		VariantID:      m.VariantID,
		Quantity:       m.Quantity,
		UnitPriceCents: m.UnitPriceCents,
		DiscountCents:  m.DiscountCents,
		LineTotalCents: m.LineTotalCents,
	}
}

// SalePaymentModel is one tender applied to a sale
type SalePaymentModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	SaleID        uuid.UUID `gorm:"type:uuid;not null;index"`
	LineNo        int       `gorm:"not null"`
	Method        string    `gorm:"type:varchar(20);not null"`
	AmountCents   int64     `gorm:"not null"`
	TenderedCents *int64
	Reference     string    `gorm:"type:varchar(100)"`
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalePaymentModel) TableName() string {
	return "sale_payments"
}

// ToDomain converts the model to a sales.Payment
func (m *SalePaymentModel) ToDomain() sales.Payment {
	return sales.Payment{
		ID:            m.ID,
		Method:        sales.PaymentMethod(m.Method),
		AmountCents:   m.AmountCents,
		TenderedCents: m.TenderedCents,
		Reference:     m.Reference,
	}
}

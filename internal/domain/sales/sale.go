package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared/valueobject"
)

// MaxIdempotencyKeyLength is the longest Idempotency-Key a sale accepts
const MaxIdempotencyKeyLength = 100

// LineInput is one cart line as submitted by the till
type LineInput struct {
	VariantID      uuid.UUID
	Quantity       int64
	UnitPriceCents int64
	DiscountCents  int64
}

// SaleLine is a committed line of a sale
type SaleLine struct {
	ID             uuid.UUID
	VariantID      uuid.UUID
	Quantity       int64
	UnitPriceCents int64
	// DiscountCents is the applied line discount, capped at the line amount
	DiscountCents  int64
	LineTotalCents int64
}

// Sale is a completed, immutable checkout
type Sale struct {
	shared.BaseAggregateRoot
	ReceiptNumber     string
	Lines             []SaleLine
	Payments          []Payment
	SubtotalCents     int64
	SaleDiscountCents int64
	DiscountCents     int64 // line discounts + sale discount
	TaxCents          int64
	TotalCents        int64
	PaidCents         int64
	ChangeDueCents    int64
	CashierID         *uuid.UUID
	IdempotencyKey    string
}

// ValidateCart checks the cart's shape before any stock is consulted
func ValidateCart(lines []LineInput) error {
	if len(lines) == 0 {
		return shared.ErrEmptyCart
	}
	for i, l := range lines {
		if l.VariantID == uuid.Nil {
			return shared.NewValidationError("line %d: variant id is required", i+1)
		}
		if l.Quantity <= 0 {
			return shared.NewValidationError("line %d: quantity must be positive", i+1)
		}
		if l.UnitPriceCents < 0 {
			return shared.NewValidationError("line %d: unit price cannot be negative", i+1)
		}
		if l.DiscountCents < 0 {
			return shared.NewValidationError("line %d: discount cannot be negative", i+1)
		}
	}
	return nil
}

// RequestedQuantities sums quantities per variant, so a variant that
// appears on several lines is checked against its combined demand.
func RequestedQuantities(lines []LineInput) map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64, len(lines))
	for _, l := range lines {
		out[l.VariantID] += l.Quantity
	}
	return out
}

// Totals is the money breakdown of a cart
type Totals struct {
	SubtotalCents int64
	DiscountCents int64
	TaxCents      int64
	TotalCents    int64
}

// ComputeTotals prices the cart. Line discounts never exceed their line.
func ComputeTotals(lines []LineInput, saleDiscountCents, taxCents int64) (Totals, []SaleLine, error) {
	if saleDiscountCents < 0 {
		return Totals{}, nil, shared.NewValidationError("sale discount cannot be negative")
	}
	if taxCents < 0 {
		return Totals{}, nil, shared.NewValidationError("tax cannot be negative")
	}

	var subtotal, discount valueobject.Cents
	saleLines := make([]SaleLine, 0, len(lines))
	for _, l := range lines {
		amount := valueobject.Cents(l.UnitPriceCents).Mul(l.Quantity)
		lineDiscount := valueobject.Cents(l.DiscountCents).Min(amount)
		subtotal += amount
		discount += lineDiscount
		saleLines = append(saleLines, SaleLine{
			ID:             uuid.New(),
			VariantID:      l.VariantID,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			DiscountCents:  lineDiscount.Int64(),
			LineTotalCents: (amount - lineDiscount).Int64(),
		})
	}
	discount += valueobject.Cents(saleDiscountCents)

	total := subtotal - discount + valueobject.Cents(taxCents)
	if total < 0 {
		return Totals{}, nil, shared.NewValidationError("sale total cannot be negative (subtotal %s, discount %s)", subtotal, discount)
	}

	return Totals{
		SubtotalCents: subtotal.Int64(),
		DiscountCents: discount.Int64(),
		TaxCents:      taxCents,
		TotalCents:    total.Int64(),
	}, saleLines, nil
}

// NewSale prices the cart, checks the payments cover the total, and returns
// the sale ready to persist under receiptNumber. Stock sufficiency is the
// caller's concern and must already have been established under lock.
func NewSale(receiptNumber string, lines []LineInput, payments []PaymentInput, saleDiscountCents, taxCents int64, cashierID *uuid.UUID, idempotencyKey string) (*Sale, error) {
	if err := ValidateCart(lines); err != nil {
		return nil, err
	}
	receiptNumber = strings.TrimSpace(receiptNumber)
	if receiptNumber == "" {
		return nil, shared.NewValidationError("receipt number is required")
	}
	totals, saleLines, err := ComputeTotals(lines, saleDiscountCents, taxCents)
	if err != nil {
		return nil, err
	}

	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if len(idempotencyKey) > MaxIdempotencyKeyLength {
		return nil, shared.NewValidationError("idempotency key cannot exceed %d characters", MaxIdempotencyKeyLength)
	}

	var paid int64
	committed := make([]Payment, 0, len(payments))
	for _, in := range payments {
		p, err := newPayment(in)
		if err != nil {
			return nil, err
		}
		paid += p.AmountCents
		committed = append(committed, p)
	}
	if paid < totals.TotalCents {
		return nil, shared.ErrInsufficientPayment.
			WithDetail("total_cents", totals.TotalCents).
			WithDetail("paid_cents", paid)
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Lines:             saleLines,
		Payments:          committed,
		SubtotalCents:     totals.SubtotalCents,
		SaleDiscountCents: saleDiscountCents,
		DiscountCents:     totals.DiscountCents,
		TaxCents:          totals.TaxCents,
		TotalCents:        totals.TotalCents,
		PaidCents:         paid,
		ChangeDueCents:    paid - totals.TotalCents,
		CashierID:         cashierID,
		IdempotencyKey:    idempotencyKey,
	}
	sale.ReceiptNumber = receiptNumber
	sale.AddDomainEvent(NewSaleCompletedEvent(sale))
	return sale, nil
}

// UnitsSold is the total quantity across all lines
func (s *Sale) UnitsSold() int64 {
	var n int64
	for _, l := range s.Lines {
		n += l.Quantity
	}
	return n
}

// CashTenderedCents sums tendered cash, falling back to the payment amount
// when no tendered figure was captured.
func (s *Sale) CashTenderedCents() int64 {
	var n int64
	for _, p := range s.Payments {
		if p.Method != PaymentMethodCash {
			continue
		}
		if p.TenderedCents != nil {
			n += *p.TenderedCents
		} else {
			n += p.AmountCents
		}
	}
	return n
}

// FormatReceiptNumber renders the seq-th receipt issued on day, e.g.
// S-20260101-000042. Days are taken in UTC.
func FormatReceiptNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("S-%s-%06d", day.UTC().Format("20060102"), seq)
}

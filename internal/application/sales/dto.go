package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/sales"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared/valueobject"
)

// CompleteSaleRequest is a cart submitted for settlement
type CompleteSaleRequest struct {
	Lines             []LineRequest
	Payments          []PaymentRequest
	SaleDiscountCents int64
	TaxCents          int64
	CashierID         *uuid.UUID
	IdempotencyKey    string
}

// LineRequest is one cart line
type LineRequest struct {
	VariantID      uuid.UUID
	Quantity       int64
	UnitPriceCents int64
	DiscountCents  int64
}

// PaymentRequest is one tender
type PaymentRequest struct {
	Method        string
	AmountCents   int64
	TenderedCents *int64
	Reference     string
}

// SaleListFilter narrows sale listings
type SaleListFilter struct {
	Page      int
	PageSize  int
	DateFrom  *time.Time
	DateTo    *time.Time
	CashierID *uuid.UUID
}

// SaleResponse is the outward view of a sale
type SaleResponse struct {
	ID                uuid.UUID         `json:"id"`
	ReceiptNumber     string            `json:"receipt_number"`
	Lines             []LineResponse    `json:"lines"`
	Payments          []PaymentResponse `json:"payments"`
	SubtotalCents     int64             `json:"subtotal_cents"`
	SaleDiscountCents int64             `json:"sale_discount_cents"`
	DiscountCents     int64             `json:"discount_cents"`
	TaxCents          int64             `json:"tax_cents"`
	TotalCents        int64             `json:"total_cents"`
	PaidCents         int64             `json:"paid_cents"`
	ChangeDueCents    int64             `json:"change_due_cents"`
	CashierID         *uuid.UUID        `json:"cashier_id,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// LineResponse is one committed sale line
type LineResponse struct {
	ID             uuid.UUID `json:"id"`
	VariantID      uuid.UUID `json:"variant_id"`
	Quantity       int64     `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	DiscountCents  int64     `json:"discount_cents"`
	LineTotalCents int64     `json:"line_total_cents"`
}

// PaymentResponse is one committed payment
type PaymentResponse struct {
	ID            uuid.UUID `json:"id"`
	Method        string    `json:"method"`
	AmountCents   int64     `json:"amount_cents"`
	TenderedCents *int64    `json:"tendered_cents,omitempty"`
	Reference     string    `json:"reference,omitempty"`
}

// ReceiptResponse is a printable rendering of a sale
type ReceiptResponse struct {
	ReceiptNumber string                `json:"receipt_number"`
	IssuedAt      time.Time             `json:"issued_at"`
	Currency      string                `json:"currency"`
	Lines         []ReceiptLineResponse `json:"lines"`
	Subtotal      string                `json:"subtotal"`
	Discount      string                `json:"discount"`
	Tax           string                `json:"tax"`
	Total         string                `json:"total"`
	Paid          string                `json:"paid"`
	CashTendered  string                `json:"cash_tendered,omitempty"`
	ChangeDue     string                `json:"change_due"`
	Payments      []ReceiptPaymentLine  `json:"payments"`
}

// ReceiptLineResponse is one line on a receipt
type ReceiptLineResponse struct {
	SKU       string `json:"sku"`
	Label     string `json:"label"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Discount  string `json:"discount,omitempty"`
	LineTotal string `json:"line_total"`
}

// ReceiptPaymentLine is one tender on a receipt
type ReceiptPaymentLine struct {
	Method string `json:"method"`
	Amount string `json:"amount"`
}

// SummaryResponse aggregates sales over a period
type SummaryResponse struct {
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	SaleCount     int64     `json:"sale_count"`
	UnitsSold     int64     `json:"units_sold"`
	GrossCents    int64     `json:"gross_cents"`
	DiscountCents int64     `json:"discount_cents"`
	TaxCents      int64     `json:"tax_cents"`
	NetCents      int64     `json:"net_cents"`
	Net           string    `json:"net"`
}

// ToSaleResponse converts a domain sale
func ToSaleResponse(s *sales.Sale) SaleResponse {
	lines := make([]LineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = LineResponse{
			ID:             l.ID,
			VariantID:      l.VariantID,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			DiscountCents:  l.DiscountCents,
			LineTotalCents: l.LineTotalCents,
		}
	}
	payments := make([]PaymentResponse, len(s.Payments))
	for i, p := range s.Payments {
		payments[i] = PaymentResponse{
			ID:            p.ID,
			Method:        string(p.Method),
			AmountCents:   p.AmountCents,
			TenderedCents: p.TenderedCents,
			Reference:     p.Reference,
		}
	}
	return SaleResponse{
		ID:                s.ID,
		ReceiptNumber:     s.ReceiptNumber,
		Lines:             lines,
		Payments:          payments,
		SubtotalCents:     s.SubtotalCents,
		SaleDiscountCents: s.SaleDiscountCents,
		DiscountCents:     s.DiscountCents,
		TaxCents:          s.TaxCents,
		TotalCents:        s.TotalCents,
		PaidCents:         s.PaidCents,
		ChangeDueCents:    s.ChangeDueCents,
		CashierID:         s.CashierID,
		CreatedAt:         s.CreatedAt,
	}
}

func (r CompleteSaleRequest) lineInputs() []sales.LineInput {
	out := make([]sales.LineInput, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = sales.LineInput{
			VariantID:      l.VariantID,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			DiscountCents:  l.DiscountCents,
		}
	}
	return out
}

func (r CompleteSaleRequest) paymentInputs() ([]sales.PaymentInput, error) {
	out := make([]sales.PaymentInput, len(r.Payments))
	for i, p := range r.Payments {
		method, err := sales.ParsePaymentMethod(p.Method)
		if err != nil {
			return nil, err
		}
		out[i] = sales.PaymentInput{
			Method:        method,
			AmountCents:   p.AmountCents,
			TenderedCents: p.TenderedCents,
			Reference:     p.Reference,
		}
	}
	return out, nil
}

func money(c int64) string {
	return valueobject.Cents(c).Format(valueobject.DefaultCurrency)
}

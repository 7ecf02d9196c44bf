package sales

import (
	"strings"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

// PaymentMethod is how a customer settled (part of) a sale
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodQRIS     PaymentMethod = "QRIS"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)

// IsValid returns true for a known payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodQRIS, PaymentMethodTransfer:
		return true
	}
	return false
}

// ParsePaymentMethod parses a case-insensitive payment method
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", shared.NewValidationError("unknown payment method %q", s)
	}
	return m, nil
}

// Payment is one tender applied to a sale
type Payment struct {
	ID          uuid.UUID
	Method      PaymentMethod
	AmountCents int64
	// TenderedCents is the cash physically handed over; only set for CASH
	TenderedCents *int64
	Reference     string
}

// PaymentInput is the caller-supplied shape of a payment
type PaymentInput struct {
	Method        PaymentMethod
	AmountCents   int64
	TenderedCents *int64
	Reference     string
}

func newPayment(in PaymentInput) (Payment, error) {
	if !in.Method.IsValid() {
		return Payment{}, shared.NewValidationError("unknown payment method %q", in.Method)
	}
	if in.AmountCents <= 0 {
		return Payment{}, shared.NewValidationError("payment amount must be positive")
	}
	if in.TenderedCents != nil {
		if in.Method != PaymentMethodCash {
			return Payment{}, shared.NewValidationError("tendered amount is only recorded for cash payments")
		}
		if *in.TenderedCents < in.AmountCents {
			return Payment{}, shared.NewValidationError("tendered amount cannot be less than the payment amount")
		}
	}
	return Payment{
		ID:            uuid.New(),
		Method:        in.Method,
		AmountCents:   in.AmountCents,
		TenderedCents: in.TenderedCents,
		Reference:     strings.TrimSpace(in.Reference),
	}, nil
}

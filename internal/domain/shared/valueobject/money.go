package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	IDR Currency = "IDR"
	USD Currency = "USD"
)

// DefaultCurrency is the store's trading currency
const DefaultCurrency = IDR

// Cents is a monetary amount in minor units. All pricing, cost and payment
// arithmetic is done on Cents; decimal is only used for presentation.
type Cents int64

// Int64 returns the raw minor-unit value
func (c Cents) Int64() int64 {
	return int64(c)
}

// Mul multiplies the amount by a quantity
func (c Cents) Mul(qty int64) Cents {
	return Cents(int64(c) * qty)
}

// Min returns the smaller of two amounts
func (c Cents) Min(other Cents) Cents {
	if other < c {
		return other
	}
	return c
}

// Decimal returns the amount in major units
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount with two fraction digits, e.g. "1250.00"
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Format renders the amount with its currency code, e.g. "IDR 1250.00"
func (c Cents) Format(currency Currency) string {
	return fmt.Sprintf("%s %s", currency, c.String())
}

// ParseCents converts a major-unit string like "12.50" into Cents.
// More than two fraction digits are rejected rather than rounded.
func ParseCents(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	scaled := d.Shift(2)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("invalid amount %q: more than two decimal places", s)
	}
	return Cents(scaled.IntPart()), nil
}

package ledger

import (
	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

// EnsureAvailable fails with an insufficient-stock error naming the variant
// when removing requested units would take on-hand below zero.
func EnsureAvailable(variantID uuid.UUID, onHand, requested int64) error {
	if requested > onHand {
		return shared.NewInsufficientStockError(variantID, requested, onHand)
	}
	return nil
}

// IsIntegrityViolation reports a computed on-hand that can only come from a
// writer bypassing the decrement guard. It is reported, never clamped.
func IsIntegrityViolation(onHand int64) bool {
	return onHand < 0
}

// StockLevel is the derived on-hand of one variant
type StockLevel struct {
	VariantID uuid.UUID
	SKU       string
	OnHand    int64
}

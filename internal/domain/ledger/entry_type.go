package ledger

import (
	"strings"

	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

// EntryType is the typed cause of a ledger entry
type EntryType string

const (
	// EntryTypeInitialCount records the opening (or recounted) quantity of a variant
	EntryTypeInitialCount EntryType = "INITIAL_COUNT"
	// EntryTypeAdjustment records a manual correction such as damaged or lost goods
	EntryTypeAdjustment EntryType = "ADJUSTMENT"
	// EntryTypeReceipt records goods received against a purchase order
	EntryTypeReceipt EntryType = "RECEIPT"
	// EntryTypeSale records units leaving stock through a completed sale
	EntryTypeSale EntryType = "SALE"
)

// AllEntryTypes lists every valid entry type
var AllEntryTypes = []EntryType{
	EntryTypeInitialCount,
	EntryTypeAdjustment,
	EntryTypeReceipt,
	EntryTypeSale,
}

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// IsValid returns true if the entry type is one of the four known kinds
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeInitialCount,
		EntryTypeAdjustment,
		EntryTypeReceipt,
		EntryTypeSale:
		return true
	}
	return false
}

// checkSign enforces the direction implied by the type. Adjustments may go
// either way.
func (t EntryType) checkSign(quantityChange int64) error {
	switch t {
	case EntryTypeInitialCount, EntryTypeReceipt:
		if quantityChange < 0 {
			return shared.NewValidationError("%s entries must increase stock", t)
		}
	case EntryTypeSale:
		if quantityChange > 0 {
			return shared.NewValidationError("%s entries must decrease stock", t)
		}
	}
	return nil
}

// ParseEntryType parses a case-insensitive entry type
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidType, "unknown ledger entry type: "+s)
	}
	return t, nil
}

// AdjustmentReason is the closed set of reasons a manual decrement may cite
type AdjustmentReason string

const (
	AdjustmentReasonDamaged AdjustmentReason = "damaged"
	AdjustmentReasonLost    AdjustmentReason = "lost"
)

// IsValid returns true for a known adjustment reason
func (r AdjustmentReason) IsValid() bool {
	return r == AdjustmentReasonDamaged || r == AdjustmentReasonLost
}

// ParseAdjustmentReason parses a case-insensitive adjustment reason
func ParseAdjustmentReason(s string) (AdjustmentReason, error) {
	r := AdjustmentReason(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", shared.NewValidationError("adjustment reason must be one of damaged, lost; got %q", s)
	}
	return r, nil
}

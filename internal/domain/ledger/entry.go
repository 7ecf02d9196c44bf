package ledger

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

const (
	maxReasonLength    = 255
	maxReferenceLength = 100
)

// Entry is an immutable stock movement. Entries are never updated or
// deleted; corrections are made by appending a compensating entry.
type Entry struct {
	ID             uuid.UUID
	Seq            int64 // insertion order, assigned by the store
	VariantID      uuid.UUID
	QuantityChange int64
	Type           EntryType
	Reason         string
	Reference      string
	ActorID        *uuid.UUID
	CreatedAt      time.Time
}

// NewEntry validates and builds a ledger entry ready to append
func NewEntry(variantID uuid.UUID, quantityChange int64, entryType EntryType, reason, reference string, actorID *uuid.UUID) (*Entry, error) {
	if !entryType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidType, "unknown ledger entry type: "+string(entryType))
	}
	if variantID == uuid.Nil {
		return nil, shared.NewValidationError("variant id is required")
	}
	if quantityChange == 0 {
		return nil, shared.NewValidationError("quantity change cannot be zero")
	}
	if err := entryType.checkSign(quantityChange); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(reason) > maxReasonLength {
		return nil, shared.NewValidationError("reason cannot exceed %d characters", maxReasonLength)
	}
	if utf8.RuneCountInString(reference) > maxReferenceLength {
		return nil, shared.NewValidationError("reference cannot exceed %d characters", maxReferenceLength)
	}

	return &Entry{
		ID:             uuid.New(),
		VariantID:      variantID,
		QuantityChange: quantityChange,
		Type:           entryType,
		Reason:         reason,
		Reference:      reference,
		ActorID:        actorID,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// IsIncrease reports whether the entry adds stock
func (e *Entry) IsIncrease() bool {
	return e.QuantityChange > 0
}

// SaleReference builds the reference stored on SALE entries
func SaleReference(saleID uuid.UUID) string {
	return "sale:" + saleID.String()
}

// ReceiptReference builds the reference stored on RECEIPT entries
func ReceiptReference(receiptID uuid.UUID) string {
	return "goods_receipt:" + receiptID.String()
}

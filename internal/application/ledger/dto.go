package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

// AppendEntryRequest is the raw ledger append
type AppendEntryRequest struct {
	VariantID      uuid.UUID
	QuantityChange int64
	Type           string
	Reason         string
	Reference      string
	ActorID        *uuid.UUID
}

// AdjustmentRequest removes damaged or lost units
type AdjustmentRequest struct {
	VariantID  uuid.UUID
	ReasonCode string
	Quantity   int64
	Note       string
	ActorID    *uuid.UUID
}

// InitialStockRequest records a counted quantity
type InitialStockRequest struct {
	VariantID uuid.UUID
	Quantity  int64
	Reason    string
	ActorID   *uuid.UUID
}

// EntryListFilter is the application-level listing filter
type EntryListFilter struct {
	Page     int
	PageSize int
	Type     string
	Reason   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// EntryResponse is the outward view of a ledger entry
type EntryResponse struct {
	ID             uuid.UUID  `json:"id"`
	VariantID      uuid.UUID  `json:"variant_id"`
	QuantityChange int64      `json:"quantity_change"`
	Type           string     `json:"type"`
	Reason         string     `json:"reason,omitempty"`
	Reference      string     `json:"reference,omitempty"`
	ActorID        *uuid.UUID `json:"actor_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// AppendResult pairs the new entry with the on-hand computed in the same transaction
type AppendResult struct {
	Entry       EntryResponse `json:"entry"`
	OnHandAfter int64         `json:"on_hand_after"`
}

// EntryListResult is a page of entries plus current on-hand
type EntryListResult struct {
	Entries []EntryResponse `json:"entries"`
	Total   int64           `json:"total"`
	OnHand  int64           `json:"on_hand"`
}

// OnHandResponse is the derived quantity of one variant
type OnHandResponse struct {
	VariantID uuid.UUID `json:"variant_id"`
	SKU       string    `json:"sku"`
	OnHand    int64     `json:"on_hand"`
}

// StockLevelFilter narrows the stock-level report
type StockLevelFilter struct {
	Page     int
	PageSize int
	Search   string
	Below    *int64
}

// ToEntryResponse converts a domain entry
func ToEntryResponse(e *ledger.Entry) EntryResponse {
	return EntryResponse{
		ID:             e.ID,
		VariantID:      e.VariantID,
		QuantityChange: e.QuantityChange,
		Type:           e.Type.String(),
		Reason:         e.Reason,
		Reference:      e.Reference,
		ActorID:        e.ActorID,
		CreatedAt:      e.CreatedAt,
	}
}

// ToEntryResponses converts a slice of entries
func ToEntryResponses(entries []ledger.Entry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i := range entries {
		out[i] = ToEntryResponse(&entries[i])
	}
	return out
}

func (f EntryListFilter) toDomain() (ledger.EntryFilter, error) {
	filter := ledger.EntryFilter{
		Filter:   shared.Filter{Page: f.Page, PageSize: f.PageSize}.Normalize(),
		Reason:   f.Reason,
		DateFrom: f.DateFrom,
		DateTo:   f.DateTo,
	}
	if f.Type != "" {
		t, err := ledger.ParseEntryType(f.Type)
		if err != nil {
			return filter, err
		}
		filter.Type = &t
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return filter, shared.NewValidationError("date_to must not be before date_from")
	}
	return filter, nil
}

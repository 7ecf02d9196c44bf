package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

// EntryFilter narrows a ledger listing
type EntryFilter struct {
	shared.Filter
	Type     *EntryType
	Reason   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// StockLevelFilter narrows the stock-level listing
type StockLevelFilter struct {
	shared.Filter
	// Below keeps only variants whose on-hand is strictly below the value
	Below *int64
}

// EntryRepository is the append-only store of ledger entries.
// It exposes no Update or Delete.
type EntryRepository interface {
	// Append inserts one immutable entry and fills in its Seq
	Append(ctx context.Context, entry *Entry) error

	// SumByVariant returns the sum of quantity_change for the variant (0 if none)
	SumByVariant(ctx context.Context, variantID uuid.UUID) (int64, error)

	// SumByVariants returns on-hand for several variants; absent variants map to 0
	SumByVariants(ctx context.Context, variantIDs []uuid.UUID) (map[uuid.UUID]int64, error)

	// FindByVariant lists entries newest first together with the total match count
	FindByVariant(ctx context.Context, variantID uuid.UUID, filter EntryFilter) ([]Entry, int64, error)

	// FindByReference lists entries carrying the given reference, oldest first
	FindByReference(ctx context.Context, reference string) ([]Entry, error)

	// ListStockLevels returns derived on-hand per variant
	ListStockLevels(ctx context.Context, filter StockLevelFilter) ([]StockLevel, int64, error)
}

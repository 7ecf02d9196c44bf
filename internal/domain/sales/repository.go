package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

// SaleFilter narrows a sale listing
type SaleFilter struct {
	shared.Filter
	DateFrom  *time.Time
	DateTo    *time.Time
	CashierID *uuid.UUID
}

// Summary aggregates sales over a period
type Summary struct {
	SaleCount     int64
	UnitsSold     int64
	SubtotalCents int64
	DiscountCents int64
	TaxCents      int64
	TotalCents    int64
}

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// Create inserts the sale with its lines and payments
	Create(ctx context.Context, sale *Sale) error

	// FindByID loads a sale with lines and payments
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByIdempotencyKey loads the sale created under a client key
	FindByIdempotencyKey(ctx context.Context, key string) (*Sale, error)

	// FindAll lists sales newest first (lines and payments included)
	FindAll(ctx context.Context, filter SaleFilter) ([]Sale, int64, error)

	// Summarize aggregates sales created in [from, to)
	Summarize(ctx context.Context, from, to time.Time) (*Summary, error)

	// NextReceiptNumber issues the next receipt number for day. Numbers are
	// never reused; a sale that fails after taking one leaves a gap.
	NextReceiptNumber(ctx context.Context, day time.Time) (string, error)
}

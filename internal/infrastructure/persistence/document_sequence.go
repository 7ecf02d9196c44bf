package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Document kinds numbered from document_sequences
const (
	sequenceScopeSale          = "sale"
	sequenceScopePurchaseOrder = "purchase_order"
)

// One statement both creates the day's counter and bumps an existing one, so
// concurrent callers always get distinct values. Callers run it outside the
// stock transaction; the counter row stays locked only for this statement.
const nextSequenceSQL = `INSERT INTO document_sequences (scope, day, last_value) VALUES (?, ?, 1)
ON CONFLICT (scope, day) DO UPDATE SET last_value = document_sequences.last_value + 1
RETURNING last_value`

func nextSequence(ctx context.Context, db *gorm.DB, scope string, day time.Time) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Raw(nextSequenceSQL, scope, day.UTC().Format("20060102")).Scan(&n).Error
	if err != nil {
		return 0, translateError(err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("document sequence %s returned %d", scope, n)
	}
	return n, nil
}

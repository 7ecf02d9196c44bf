package ledger

import (
	"bytes"
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/catalog"
	"github.com/realmfikri/pos-shoestore/internal/domain/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/purchasing"
	"github.com/realmfikri/pos-shoestore/internal/domain/sales"
)

// TransactionScope provides transactional access to the repositories that
// take part in stock movements. Every stock-sufficiency check and the ledger
// inserts it guards run inside one Execute call.
type TransactionScope interface {
	// Execute runs fn within a database transaction. If fn returns an error
	// the transaction is rolled back, otherwise it is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes repositories bound to the current
// transaction. Variant rows locked through Variants() stay locked until the
// transaction ends.
type TransactionalRepositories interface {
	Variants() catalog.VariantRepository
	Entries() ledger.EntryRepository
	Sales() sales.SaleRepository
	PurchaseOrders() purchasing.PurchaseOrderRepository
	GoodsReceipts() purchasing.GoodsReceiptRepository
}

// LockOnHand row-locks the variants (ascending ID order) and returns their
// on-hand as seen under the lock.
func LockOnHand(ctx context.Context, repos TransactionalRepositories, variantIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	if _, err := repos.Variants().LockForUpdate(ctx, variantIDs); err != nil {
		return nil, err
	}
	return repos.Entries().SumByVariants(ctx, variantIDs)
}

// SortedIDs returns the keys of a quantity map in lock order
func SortedIDs(quantities map[uuid.UUID]int64) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return ids
}

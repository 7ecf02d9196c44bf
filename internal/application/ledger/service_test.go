package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/catalog"
	"github.com/realmfikri/pos-shoestore/internal/domain/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	svc       *Service
	variants  *MockVariantRepository
	entries   *MockEntryRepository
	publisher *recordingPublisher
	reporter  *recordingReporter
	variant   *catalog.Variant
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	variant, err := catalog.NewVariant(uuid.New(), "run-42-blk", "42", "Black", 89900, 45000)
	require.NoError(t, err)

	variants := new(MockVariantRepository)
	entries := new(MockEntryRepository)
	svc := NewService(&fakeScope{variants: variants, entries: entries}, entries, variants, nil)
	publisher := &recordingPublisher{}
	reporter := &recordingReporter{}
	svc.SetEventPublisher(publisher)
	svc.SetIntegrityReporter(reporter)

	return &serviceFixture{svc: svc, variants: variants, entries: entries, publisher: publisher, reporter: reporter, variant: variant}
}

func (f *serviceFixture) expectLock(onHand int64) {
	ids := []uuid.UUID{f.variant.ID}
	f.variants.On("LockForUpdate", mock.Anything, ids).Return([]catalog.Variant{*f.variant}, nil).Once()
	f.entries.On("SumByVariants", mock.Anything, ids).Return(map[uuid.UUID]int64{f.variant.ID: onHand}, nil).Once()
}

func TestService_RecordAdjustment(t *testing.T) {
	ctx := context.Background()

	t.Run("damaged units reduce on-hand", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectLock(7)
		f.entries.On("Append", mock.Anything, mock.MatchedBy(func(e *ledger.Entry) bool {
			return e.Type == ledger.EntryTypeAdjustment && e.QuantityChange == -2 && e.Reason == "damaged: sole split"
		})).Return(nil).Once()
		f.entries.On("SumByVariant", mock.Anything, f.variant.ID).Return(int64(5), nil).Once()

		result, err := f.svc.RecordAdjustment(ctx, AdjustmentRequest{
			VariantID:  f.variant.ID,
			ReasonCode: "damaged",
			Quantity:   2,
			Note:       "sole split",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(5), result.OnHandAfter)
		assert.Equal(t, int64(-2), result.Entry.QuantityChange)
		assert.Equal(t, "ADJUSTMENT", result.Entry.Type)
		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, ledger.EventTypeStockAdjusted, f.publisher.events[0].EventType())
		f.entries.AssertExpectations(t)
		f.variants.AssertExpectations(t)
	})

	t.Run("refuses to go negative", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectLock(1)

		_, err := f.svc.RecordAdjustment(ctx, AdjustmentRequest{VariantID: f.variant.ID, ReasonCode: "lost", Quantity: 2})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		f.entries.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.events)
	})

	t.Run("rejects unknown reason and non-positive quantity", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.svc.RecordAdjustment(ctx, AdjustmentRequest{VariantID: f.variant.ID, ReasonCode: "stolen", Quantity: 1})
		assert.ErrorIs(t, err, shared.ErrValidation)

		_, err = f.svc.RecordAdjustment(ctx, AdjustmentRequest{VariantID: f.variant.ID, ReasonCode: "lost", Quantity: 0})
		assert.ErrorIs(t, err, shared.ErrValidation)
		f.variants.AssertNotCalled(t, "LockForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("unknown variant", func(t *testing.T) {
		f := newServiceFixture(t)
		f.variants.On("LockForUpdate", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		_, err := f.svc.RecordAdjustment(ctx, AdjustmentRequest{VariantID: uuid.New(), ReasonCode: "lost", Quantity: 1})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_RecordInitialStock(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults the reason", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectLock(0)
		f.entries.On("Append", mock.Anything, mock.MatchedBy(func(e *ledger.Entry) bool {
			return e.Type == ledger.EntryTypeInitialCount && e.QuantityChange == 10 && e.Reason == DefaultInitialCountReason
		})).Return(nil).Once()
		f.entries.On("SumByVariant", mock.Anything, f.variant.ID).Return(int64(10), nil).Once()

		result, err := f.svc.RecordInitialStock(ctx, InitialStockRequest{VariantID: f.variant.ID, Quantity: 10})

		require.NoError(t, err)
		assert.Equal(t, int64(10), result.OnHandAfter)
		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, ledger.EventTypeStockInitialized, f.publisher.events[0].EventType())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.svc.RecordInitialStock(ctx, InitialStockRequest{VariantID: f.variant.ID, Quantity: -3})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestService_AppendEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("zero quantity is a validation error", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.svc.AppendEntry(ctx, AppendEntryRequest{VariantID: f.variant.ID, QuantityChange: 0, Type: "RECEIPT"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("unknown type is an invalid type error", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.svc.AppendEntry(ctx, AppendEntryRequest{VariantID: f.variant.ID, QuantityChange: 1, Type: "GIFT"})
		assert.ErrorIs(t, err, shared.ErrInvalidType)
	})

	t.Run("receipt does not publish a stock event", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectLock(3)
		f.entries.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
		f.entries.On("SumByVariant", mock.Anything, f.variant.ID).Return(int64(8), nil).Once()

		result, err := f.svc.AppendEntry(ctx, AppendEntryRequest{VariantID: f.variant.ID, QuantityChange: 5, Type: "receipt", Reference: "manual"})

		require.NoError(t, err)
		assert.Equal(t, int64(8), result.OnHandAfter)
		assert.Empty(t, f.publisher.events)
	})
}

func TestService_ComputeOnHand(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the ledger sum", func(t *testing.T) {
		f := newServiceFixture(t)
		f.variants.On("FindByID", mock.Anything, f.variant.ID).Return(f.variant, nil)
		f.entries.On("SumByVariant", mock.Anything, f.variant.ID).Return(int64(7), nil)

		onHand, err := f.svc.ComputeOnHand(ctx, f.variant.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(7), onHand)
		assert.Empty(t, f.reporter.calls)
	})

	t.Run("negative sum raises alarm and is not clamped", func(t *testing.T) {
		f := newServiceFixture(t)
		f.variants.On("FindByID", mock.Anything, f.variant.ID).Return(f.variant, nil)
		f.entries.On("SumByVariant", mock.Anything, f.variant.ID).Return(int64(-2), nil)

		onHand, err := f.svc.ComputeOnHand(ctx, f.variant.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(-2), onHand)
		assert.Equal(t, []int64{-2}, f.reporter.calls)
	})

	t.Run("unknown variant", func(t *testing.T) {
		f := newServiceFixture(t)
		f.variants.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		_, err := f.svc.ComputeOnHand(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_ListEntries(t *testing.T) {
	ctx := context.Background()

	t.Run("returns entries and on-hand", func(t *testing.T) {
		f := newServiceFixture(t)
		entry, err := ledger.NewEntry(f.variant.ID, 10, ledger.EntryTypeInitialCount, "initial count", "", nil)
		require.NoError(t, err)

		f.variants.On("FindByID", mock.Anything, f.variant.ID).Return(f.variant, nil)
		f.entries.On("FindByVariant", mock.Anything, f.variant.ID, mock.MatchedBy(func(filter ledger.EntryFilter) bool {
			return filter.Type != nil && *filter.Type == ledger.EntryTypeInitialCount && filter.Page == 1 && filter.PageSize == 20
		})).Return([]ledger.Entry{*entry}, int64(1), nil)
		f.entries.On("SumByVariant", mock.Anything, f.variant.ID).Return(int64(10), nil)

		result, err := f.svc.ListEntries(ctx, f.variant.ID, EntryListFilter{Type: "initial_count"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
		assert.Equal(t, int64(10), result.OnHand)
		require.Len(t, result.Entries, 1)
		assert.Equal(t, entry.ID, result.Entries[0].ID)
	})

	t.Run("invalid type filter", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.svc.ListEntries(ctx, f.variant.ID, EntryListFilter{Type: "bogus"})
		assert.ErrorIs(t, err, shared.ErrInvalidType)
	})
}

func TestService_StockLevels(t *testing.T) {
	f := newServiceFixture(t)
	below := int64(3)
	f.entries.On("ListStockLevels", mock.Anything, mock.MatchedBy(func(filter ledger.StockLevelFilter) bool {
		return filter.Below != nil && *filter.Below == 3
	})).Return([]ledger.StockLevel{{VariantID: f.variant.ID, SKU: f.variant.SKU, OnHand: 1}}, int64(1), nil)

	levels, total, err := f.svc.StockLevels(context.Background(), StockLevelFilter{Below: &below})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, levels, 1)
	assert.Equal(t, "RUN-42-BLK", levels[0].SKU)
}

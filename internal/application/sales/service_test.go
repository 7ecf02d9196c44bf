package sales

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/catalog"
	"github.com/realmfikri/pos-shoestore/internal/domain/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/sales"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const fixtureReceipt = "S-20260101-000001"

type saleFixture struct {
	svc       *Service
	scope     *fakeScope
	sales     *MockSaleRepository
	variants  *MockVariantRepository
	entries   *MockEntryRepository
	publisher *recordingPublisher
	variant   *catalog.Variant
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	variant, err := catalog.NewVariant(uuid.New(), "SNK-42-WHT", "42", "White", 50000, 30000)
	require.NoError(t, err)

	f := &saleFixture{
		sales:     new(MockSaleRepository),
		variants:  new(MockVariantRepository),
		entries:   new(MockEntryRepository),
		publisher: &recordingPublisher{},
		variant:   variant,
	}
	f.scope = &fakeScope{variants: f.variants, entries: f.entries, sales: f.sales}
	f.sales.On("NextReceiptNumber", mock.Anything, mock.Anything).Return(fixtureReceipt, nil).Maybe()
	f.svc = NewService(f.scope, f.sales, f.variants, nil)
	f.svc.SetEventPublisher(f.publisher)
	return f
}

func (f *saleFixture) expectStock(onHand int64) {
	ids := []uuid.UUID{f.variant.ID}
	f.variants.On("LockForUpdate", mock.Anything, ids).Return([]catalog.Variant{*f.variant}, nil).Once()
	f.entries.On("SumByVariants", mock.Anything, ids).Return(map[uuid.UUID]int64{f.variant.ID: onHand}, nil).Once()
}

func (f *saleFixture) cart(qty int64, paid int64) CompleteSaleRequest {
	return CompleteSaleRequest{
		Lines:    []LineRequest{{VariantID: f.variant.ID, Quantity: qty, UnitPriceCents: 50000}},
		Payments: []PaymentRequest{{Method: "CASH", AmountCents: paid}},
	}
}

func TestService_CompleteSale(t *testing.T) {
	ctx := context.Background()

	t.Run("sale of three units writes one SALE entry", func(t *testing.T) {
		f := newSaleFixture(t)
		f.expectStock(10)
		f.sales.On("Create", mock.Anything, mock.AnythingOfType("*sales.Sale")).Return(nil).Once()
		f.entries.On("Append", mock.Anything, mock.MatchedBy(func(e *ledger.Entry) bool {
			return e.Type == ledger.EntryTypeSale && e.QuantityChange == -3 && e.VariantID == f.variant.ID
		})).Return(nil).Once()

		resp, err := f.svc.CompleteSale(ctx, f.cart(3, 160000))

		require.NoError(t, err)
		assert.Equal(t, int64(150000), resp.TotalCents)
		assert.Equal(t, int64(10000), resp.ChangeDueCents)
		assert.Equal(t, fixtureReceipt, resp.ReceiptNumber)
		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, sales.EventTypeSaleCompleted, f.publisher.events[0].EventType())
		f.sales.AssertExpectations(t)
		f.entries.AssertExpectations(t)
	})

	t.Run("receipt number failure writes nothing", func(t *testing.T) {
		f := newSaleFixture(t)
		f.sales.ExpectedCalls = nil
		f.sales.On("NextReceiptNumber", mock.Anything, mock.Anything).Return("", errors.New("connection reset")).Once()

		_, err := f.svc.CompleteSale(ctx, f.cart(1, 50000))

		require.Error(t, err)
		assert.Zero(t, f.scope.calls)
		f.sales.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("insufficient stock writes nothing", func(t *testing.T) {
		f := newSaleFixture(t)
		f.expectStock(2)

		_, err := f.svc.CompleteSale(ctx, f.cart(3, 150000))

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, f.variant.ID.String(), de.Details["variant_id"])
		f.sales.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.entries.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("repeated variant lines are checked together", func(t *testing.T) {
		f := newSaleFixture(t)
		f.expectStock(3)
		req := f.cart(2, 200000)
		req.Lines = append(req.Lines, LineRequest{VariantID: f.variant.ID, Quantity: 2, UnitPriceCents: 50000})

		_, err := f.svc.CompleteSale(ctx, req)

		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, shared.CodeInsufficientStock, de.Code)
		assert.Equal(t, int64(4), de.Details["requested"])
	})

	t.Run("stock is checked before payment", func(t *testing.T) {
		f := newSaleFixture(t)
		f.expectStock(1)

		_, err := f.svc.CompleteSale(ctx, f.cart(2, 1))
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("insufficient payment", func(t *testing.T) {
		f := newSaleFixture(t)
		f.expectStock(10)

		_, err := f.svc.CompleteSale(ctx, f.cart(2, 99999))

		assert.ErrorIs(t, err, shared.ErrInsufficientPayment)
		f.entries.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("empty cart never opens a transaction", func(t *testing.T) {
		f := newSaleFixture(t)

		_, err := f.svc.CompleteSale(ctx, CompleteSaleRequest{})

		assert.ErrorIs(t, err, shared.ErrEmptyCart)
		assert.Zero(t, f.scope.calls)
	})

	t.Run("inactive variant", func(t *testing.T) {
		f := newSaleFixture(t)
		f.variant.Active = false
		f.expectStock(10)

		_, err := f.svc.CompleteSale(ctx, f.cart(1, 50000))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestService_CompleteSale_Idempotency(t *testing.T) {
	ctx := context.Background()

	t.Run("replay after success returns original sale", func(t *testing.T) {
		f := newSaleFixture(t)
		store := newMemoryStore()
		f.svc.SetIdempotencyStore(store, time.Hour)

		f.expectStock(10)
		var created *sales.Sale
		f.sales.On("Create", mock.Anything, mock.AnythingOfType("*sales.Sale")).Run(func(args mock.Arguments) {
			created = args.Get(1).(*sales.Sale)
		}).Return(nil).Once()
		f.entries.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

		req := f.cart(1, 50000)
		req.IdempotencyKey = "till-1-0001"
		first, err := f.svc.CompleteSale(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "till-1-0001", created.IdempotencyKey)

		f.sales.On("FindByID", mock.Anything, first.ID).Return(created, nil).Once()
		second, err := f.svc.CompleteSale(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, f.scope.calls)
	})

	t.Run("in-flight key is rejected", func(t *testing.T) {
		f := newSaleFixture(t)
		store := newMemoryStore()
		store.values[idempotencyKeyPrefix+"busy"] = shared.IdempotencyPending
		f.svc.SetIdempotencyStore(store, 0)

		req := f.cart(1, 50000)
		req.IdempotencyKey = "busy"
		_, err := f.svc.CompleteSale(ctx, req)

		assert.ErrorIs(t, err, shared.ErrIdempotencyInProgress)
		assert.Zero(t, f.scope.calls)
	})

	t.Run("overlong key is rejected before reserving", func(t *testing.T) {
		f := newSaleFixture(t)
		store := newMemoryStore()
		f.svc.SetIdempotencyStore(store, 0)

		req := f.cart(1, 50000)
		req.IdempotencyKey = strings.Repeat("k", sales.MaxIdempotencyKeyLength+1)
		_, err := f.svc.CompleteSale(ctx, req)

		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Empty(t, store.values)
		assert.Zero(t, f.scope.calls)
	})

	t.Run("failure releases the key", func(t *testing.T) {
		f := newSaleFixture(t)
		store := newMemoryStore()
		f.svc.SetIdempotencyStore(store, 0)
		f.expectStock(0)

		req := f.cart(1, 50000)
		req.IdempotencyKey = "retry-me"
		_, err := f.svc.CompleteSale(ctx, req)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, []string{idempotencyKeyPrefix + "retry-me"}, store.released)
		assert.Empty(t, store.values)
	})

	t.Run("without a store the database key is consulted", func(t *testing.T) {
		f := newSaleFixture(t)
		existing, err := sales.NewSale(fixtureReceipt,
			[]sales.LineInput{{VariantID: f.variant.ID, Quantity: 1, UnitPriceCents: 50000}},
			[]sales.PaymentInput{{Method: sales.PaymentMethodCard, AmountCents: 50000}},
			0, 0, nil, "db-key",
		)
		require.NoError(t, err)
		f.sales.On("FindByIdempotencyKey", mock.Anything, "db-key").Return(existing, nil).Once()

		req := f.cart(1, 50000)
		req.IdempotencyKey = "db-key"
		resp, err := f.svc.CompleteSale(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, existing.ID, resp.ID)
		assert.Zero(t, f.scope.calls)
	})
}

func TestService_Receipt(t *testing.T) {
	f := newSaleFixture(t)
	tendered := int64(200000)
	sale, err := sales.NewSale(fixtureReceipt,
		[]sales.LineInput{{VariantID: f.variant.ID, Quantity: 3, UnitPriceCents: 50000, DiscountCents: 5000}},
		[]sales.PaymentInput{{Method: sales.PaymentMethodCash, AmountCents: 145000, TenderedCents: &tendered}},
		0, 0, nil, "",
	)
	require.NoError(t, err)
	f.sales.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
	f.variants.On("FindByIDs", mock.Anything, []uuid.UUID{f.variant.ID}).Return([]catalog.Variant{*f.variant}, nil)

	receipt, err := f.svc.Receipt(context.Background(), sale.ID)

	require.NoError(t, err)
	assert.Equal(t, "IDR 1450.00", receipt.Total)
	assert.Equal(t, "IDR 2000.00", receipt.CashTendered)
	assert.Equal(t, "IDR 0.00", receipt.ChangeDue)
	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, "SNK-42-WHT", receipt.Lines[0].SKU)
	assert.Equal(t, "IDR 50.00", receipt.Lines[0].Discount)
}

func TestService_Summary(t *testing.T) {
	f := newSaleFixture(t)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	f.sales.On("Summarize", mock.Anything, from, to).Return(&sales.Summary{
		SaleCount: 4, UnitsSold: 9, SubtotalCents: 450000, DiscountCents: 10000, TaxCents: 0, TotalCents: 440000,
	}, nil)

	sum, err := f.svc.Summary(context.Background(), from, time.Time{})

	require.NoError(t, err)
	assert.Equal(t, int64(440000), sum.NetCents)
	assert.Equal(t, "IDR 4400.00", sum.Net)

	_, err = f.svc.Summary(context.Background(), to, from)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

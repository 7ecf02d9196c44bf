package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/catalog"
	"github.com/realmfikri/pos-shoestore/internal/domain/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/purchasing"
	"github.com/realmfikri/pos-shoestore/internal/domain/sales"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Variant, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Variant, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Variant, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Variant), args.Get(1).(int64), args.Error(2)
}

func (m *MockVariantRepository) LockForUpdate(ctx context.Context, ids []uuid.UUID) ([]catalog.Variant, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) Save(ctx context.Context, variant *catalog.Variant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Append(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) SumByVariant(ctx context.Context, variantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, variantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntryRepository) SumByVariants(ctx context.Context, variantIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	args := m.Called(ctx, variantIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int64), args.Error(1)
}

func (m *MockEntryRepository) FindByVariant(ctx context.Context, variantID uuid.UUID, filter ledger.EntryFilter) ([]ledger.Entry, int64, error) {
	args := m.Called(ctx, variantID, filter)
	return args.Get(0).([]ledger.Entry), args.Get(1).(int64), args.Error(2)
}

func (m *MockEntryRepository) FindByReference(ctx context.Context, reference string) ([]ledger.Entry, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).([]ledger.Entry), args.Error(1)
}

func (m *MockEntryRepository) ListStockLevels(ctx context.Context, filter ledger.StockLevelFilter) ([]ledger.StockLevel, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ledger.StockLevel), args.Get(1).(int64), args.Error(2)
}

// fakeScope runs fn directly against the mocks
type fakeScope struct {
	variants *MockVariantRepository
	entries  *MockEntryRepository
}

func (s *fakeScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *fakeScope) Variants() catalog.VariantRepository { return s.variants }
func (s *fakeScope) Entries() ledger.EntryRepository { return s.entries }
func (s *fakeScope) Sales() sales.SaleRepository { return nil }
func (s *fakeScope) PurchaseOrders() purchasing.PurchaseOrderRepository { return nil }
func (s *fakeScope) GoodsReceipts() purchasing.GoodsReceiptRepository { return nil }

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

type recordingReporter struct {
	calls []int64
}

func (r *recordingReporter) ReportNegativeOnHand(_ context.Context, _ uuid.UUID, onHand int64) {
	r.calls = append(r.calls, onHand)
}

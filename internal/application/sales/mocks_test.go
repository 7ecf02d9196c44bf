package sales

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	ledgerapp "github.com/realmfikri/pos-shoestore/internal/application/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/catalog"
	"github.com/realmfikri/pos-shoestore/internal/domain/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/purchasing"
	"github.com/realmfikri/pos-shoestore/internal/domain/sales"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Create(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIdempotencyKey(ctx context.Context, key string) (*sales.Sale, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter sales.SaleFilter) ([]sales.Sale, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.Sale), args.Get(1).(int64), args.Error(2)
}

func (m *MockSaleRepository) Summarize(ctx context.Context, from, to time.Time) (*sales.Summary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Summary), args.Error(1)
}

func (m *MockSaleRepository) NextReceiptNumber(ctx context.Context, day time.Time) (string, error) {
	args := m.Called(ctx, day)
	return args.String(0), args.Error(1)
}

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

type fakeScope struct {
	variants *MockVariantRepository
	entries  *MockEntryRepository
	sales    *MockSaleRepository
	calls    int
}

func (s *fakeScope) Execute(_ context.Context, fn func(repos ledgerapp.TransactionalRepositories) error) error {
	s.calls++
	return fn(s)
}

func (s *fakeScope) Variants() catalog.VariantRepository { return s.variants }
func (s *fakeScope) Entries() ledger.EntryRepository { return s.entries }
func (s *fakeScope) Sales() sales.SaleRepository { return s.sales }
func (s *fakeScope) PurchaseOrders() purchasing.PurchaseOrderRepository { return nil }
func (s *fakeScope) GoodsReceipts() purchasing.GoodsReceiptRepository { return nil }

// memoryStore is a map-backed IdempotencyStore
type memoryStore struct {
	mu       sync.Mutex
	values   map[string]string
	released []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]string)}
}

func (s *memoryStore) Reserve(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.values[key] = shared.IdempotencyPending
	return true, nil
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *memoryStore) Complete(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	s.released = append(s.released, key)
	return nil
}

func (s *memoryStore) Close() error { return nil }

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

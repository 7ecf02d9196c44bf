package purchasing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	ledgerapp "github.com/realmfikri/pos-shoestore/internal/application/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/catalog"
	"github.com/realmfikri/pos-shoestore/internal/domain/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/partner"
	"github.com/realmfikri/pos-shoestore/internal/domain/purchasing"
	"github.com/realmfikri/pos-shoestore/internal/domain/sales"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *purchasing.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter purchasing.OrderFilter) ([]purchasing.PurchaseOrder, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]purchasing.PurchaseOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *purchasing.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) NextOrderNumber(ctx context.Context, day time.Time) (string, error) {
	args := m.Called(ctx, day)
	return args.String(0), args.Error(1)
}

type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) Create(ctx context.Context, receipt *purchasing.GoodsReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]purchasing.GoodsReceipt, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]purchasing.GoodsReceipt), args.Error(1)
}

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Supplier), args.Get(1).(int64), args.Error(2)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
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
	orders   *MockOrderRepository
	receipts *MockReceiptRepository
	variants *MockVariantRepository
	entries  *MockEntryRepository
}

func (s *fakeScope) Execute(_ context.Context, fn func(repos ledgerapp.TransactionalRepositories) error) error {
	return fn(s)
}

func (s *fakeScope) Variants() catalog.VariantRepository { return s.variants }
func (s *fakeScope) Entries() ledger.EntryRepository { return s.entries }
func (s *fakeScope) Sales() sales.SaleRepository { return nil }
func (s *fakeScope) PurchaseOrders() purchasing.PurchaseOrderRepository { return s.orders }
func (s *fakeScope) GoodsReceipts() purchasing.GoodsReceiptRepository { return s.receipts }

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

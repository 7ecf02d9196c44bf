package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcatalog "github.com/realmfikri/pos-shoestore/internal/application/catalog"
	appledger "github.com/realmfikri/pos-shoestore/internal/application/ledger"
	"github.com/realmfikri/pos-shoestore/internal/application/partner"
	apppurchasing "github.com/realmfikri/pos-shoestore/internal/application/purchasing"
	appsales "github.com/realmfikri/pos-shoestore/internal/application/sales"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/dto"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

type registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

func newTestEngine(h registrar) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.ActorAuth(middleware.DefaultActorConfig(false, nil, nil)))
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func doJSON(engine *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decode(w *httptest.ResponseRecorder) envelope {
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return env
}

// MockCatalogService mocks CatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, req appcatalog.CreateProductRequest) (*appcatalog.ProductResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcatalog.ProductResponse), args.Error(1)
}

func (m *MockCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*appcatalog.ProductResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcatalog.ProductResponse), args.Error(1)
}

func (m *MockCatalogService) ListProducts(ctx context.Context, filter shared.Filter) ([]appcatalog.ProductResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]appcatalog.ProductResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogService) CreateVariant(ctx context.Context, req appcatalog.CreateVariantRequest) (*appcatalog.VariantResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcatalog.VariantResponse), args.Error(1)
}

func (m *MockCatalogService) UpdateVariant(ctx context.Context, id uuid.UUID, req appcatalog.UpdateVariantRequest) (*appcatalog.VariantResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcatalog.VariantResponse), args.Error(1)
}

func (m *MockCatalogService) GetVariant(ctx context.Context, id uuid.UUID) (*appcatalog.VariantResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcatalog.VariantResponse), args.Error(1)
}

func (m *MockCatalogService) ListVariants(ctx context.Context, filter appcatalog.VariantListFilter) ([]appcatalog.VariantResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]appcatalog.VariantResponse), args.Get(1).(int64), args.Error(2)
}

// MockSupplierService mocks SupplierService
type MockSupplierService struct {
	mock.Mock
}

func (m *MockSupplierService) Create(ctx context.Context, req partner.CreateSupplierRequest) (*partner.SupplierResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.SupplierResponse), args.Error(1)
}

func (m *MockSupplierService) GetByID(ctx context.Context, id uuid.UUID) (*partner.SupplierResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.SupplierResponse), args.Error(1)
}

func (m *MockSupplierService) List(ctx context.Context, filter shared.Filter) ([]partner.SupplierResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.SupplierResponse), args.Get(1).(int64), args.Error(2)
}

// MockLedgerService mocks LedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetOnHand(ctx context.Context, variantID uuid.UUID) (*appledger.OnHandResponse, error) {
	args := m.Called(ctx, variantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appledger.OnHandResponse), args.Error(1)
}

func (m *MockLedgerService) RecordAdjustment(ctx context.Context, req appledger.AdjustmentRequest) (*appledger.AppendResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appledger.AppendResult), args.Error(1)
}

func (m *MockLedgerService) RecordInitialStock(ctx context.Context, req appledger.InitialStockRequest) (*appledger.AppendResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appledger.AppendResult), args.Error(1)
}

func (m *MockLedgerService) ListEntries(ctx context.Context, variantID uuid.UUID, filter appledger.EntryListFilter) (*appledger.EntryListResult, error) {
	args := m.Called(ctx, variantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appledger.EntryListResult), args.Error(1)
}

func (m *MockLedgerService) StockLevels(ctx context.Context, filter appledger.StockLevelFilter) ([]appledger.OnHandResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]appledger.OnHandResponse), args.Get(1).(int64), args.Error(2)
}

// MockSaleService mocks SaleService
type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) CompleteSale(ctx context.Context, req appsales.CompleteSaleRequest) (*appsales.SaleResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appsales.SaleResponse), args.Error(1)
}

func (m *MockSaleService) GetByID(ctx context.Context, id uuid.UUID) (*appsales.SaleResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appsales.SaleResponse), args.Error(1)
}

func (m *MockSaleService) List(ctx context.Context, filter appsales.SaleListFilter) ([]appsales.SaleResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]appsales.SaleResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockSaleService) Receipt(ctx context.Context, id uuid.UUID) (*appsales.ReceiptResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appsales.ReceiptResponse), args.Error(1)
}

func (m *MockSaleService) Summary(ctx context.Context, from, to time.Time) (*appsales.SummaryResponse, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appsales.SummaryResponse), args.Error(1)
}

// MockPurchaseOrderService mocks PurchaseOrderService
type MockPurchaseOrderService struct {
	mock.Mock
}

func (m *MockPurchaseOrderService) Create(ctx context.Context, req apppurchasing.CreateOrderRequest) (*apppurchasing.OrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppurchasing.OrderResponse), args.Error(1)
}

func (m *MockPurchaseOrderService) GetByID(ctx context.Context, id uuid.UUID) (*apppurchasing.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppurchasing.OrderResponse), args.Error(1)
}

func (m *MockPurchaseOrderService) List(ctx context.Context, filter apppurchasing.OrderListFilter) ([]apppurchasing.OrderResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]apppurchasing.OrderResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseOrderService) Receipts(ctx context.Context, orderID uuid.UUID) ([]apppurchasing.ReceiptResponse, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]apppurchasing.ReceiptResponse), args.Error(1)
}

func (m *MockPurchaseOrderService) Receive(ctx context.Context, orderID uuid.UUID, req apppurchasing.ReceiveRequest) (*apppurchasing.ReceiveResponse, error) {
	args := m.Called(ctx, orderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppurchasing.ReceiveResponse), args.Error(1)
}

func (m *MockPurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*apppurchasing.OrderResponse, error) {
	args := m.Called(ctx, orderID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppurchasing.OrderResponse), args.Error(1)
}

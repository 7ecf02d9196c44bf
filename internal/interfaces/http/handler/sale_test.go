package handler

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	appsales "github.com/realmfikri/pos-shoestore/internal/application/sales"
	domainsales "github.com/realmfikri/pos-shoestore/internal/domain/sales"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/dto"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSaleHandler_Complete(t *testing.T) {
	svc := new(MockSaleService)
	engine := newTestEngine(NewSaleHandler(svc))
	variantID := uuid.New()
	cashier := uuid.New()
	tendered := int64(20000)

	svc.On("CompleteSale", mock.Anything, mock.MatchedBy(func(req appsales.CompleteSaleRequest) bool {
		return len(req.Lines) == 1 &&
			req.Lines[0].VariantID == variantID &&
			req.Lines[0].Quantity == 2 &&
			req.Payments[0].Method == "cash" &&
			*req.Payments[0].TenderedCents == tendered &&
			req.CashierID != nil && *req.CashierID == cashier &&
			req.IdempotencyKey == "till-1-0001"
	})).Return(&appsales.SaleResponse{ID: uuid.New(), ReceiptNumber: "R-1", TotalCents: 15000, ChangeDueCents: 5000}, nil)

	w := doJSON(engine, http.MethodPost, "/api/v1/sales", map[string]any{
		"lines":    []map[string]any{{"variant_id": variantID.String(), "quantity": 2, "unit_price_cents": 7500}},
		"payments": []map[string]any{{"method": "cash", "amount_cents": 15000, "tendered_cents": tendered}},
	}, map[string]string{
		middleware.IdempotencyKeyHeader: "till-1-0001",
		middleware.ActorIDHeader:        cashier.String(),
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	env := decode(w)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"change_due_cents":5000`)
	svc.AssertExpectations(t)
}

func TestSaleHandler_Complete_InsufficientStock(t *testing.T) {
	svc := new(MockSaleService)
	engine := newTestEngine(NewSaleHandler(svc))
	variantID := uuid.New()

	svc.On("CompleteSale", mock.Anything, mock.Anything).
		Return(nil, shared.NewInsufficientStockError(variantID, 3, 1))

	w := doJSON(engine, http.MethodPost, "/api/v1/sales", map[string]any{
		"lines":    []map[string]any{{"variant_id": variantID.String(), "quantity": 3, "unit_price_cents": 100}},
		"payments": []map[string]any{{"method": "CARD", "amount_cents": 300}},
	}, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(w)
	require.NotNil(t, env.Error)
	assert.Equal(t, shared.CodeInsufficientStock, env.Error.Code)
	assert.Equal(t, variantID.String(), env.Error.Details["variant_id"])
	assert.EqualValues(t, 1, env.Error.Details["on_hand"])
	assert.NotEmpty(t, env.Error.RequestID)
}

func TestSaleHandler_Complete_EmptyCartReachesService(t *testing.T) {
	svc := new(MockSaleService)
	engine := newTestEngine(NewSaleHandler(svc))
	svc.On("CompleteSale", mock.Anything, mock.Anything).Return(nil, shared.ErrEmptyCart)

	w := doJSON(engine, http.MethodPost, "/api/v1/sales", map[string]any{"lines": []any{}}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, shared.CodeEmptyCart, decode(w).Error.Code)
}

func TestSaleHandler_Complete_Validation(t *testing.T) {
	svc := new(MockSaleService)
	engine := newTestEngine(NewSaleHandler(svc))

	w := doJSON(engine, http.MethodPost, "/api/v1/sales", map[string]any{
		"lines":    []map[string]any{{"variant_id": "not-a-uuid", "quantity": 1}},
		"payments": []map[string]any{{"method": "BARTER", "amount_cents": 1}},
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, shared.CodeValidation, decode(w).Error.Code)
	svc.AssertNotCalled(t, "CompleteSale", mock.Anything, mock.Anything)
}

func TestSaleHandler_Complete_IdempotencyKeyLength(t *testing.T) {
	svc := new(MockSaleService)
	engine := newTestEngine(NewSaleHandler(svc))
	body := map[string]any{
		"lines":    []map[string]any{{"variant_id": uuid.NewString(), "quantity": 1, "unit_price_cents": 100}},
		"payments": []map[string]any{{"method": "CARD", "amount_cents": 100}},
	}

	longest := strings.Repeat("k", domainsales.MaxIdempotencyKeyLength)
	svc.On("CompleteSale", mock.Anything, mock.MatchedBy(func(req appsales.CompleteSaleRequest) bool {
		return req.IdempotencyKey == longest
	})).Return(&appsales.SaleResponse{ID: uuid.New(), ReceiptNumber: "S-20260101-000001"}, nil).Once()

	w := doJSON(engine, http.MethodPost, "/api/v1/sales", body, map[string]string{middleware.IdempotencyKeyHeader: longest})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(engine, http.MethodPost, "/api/v1/sales", body, map[string]string{middleware.IdempotencyKeyHeader: longest + "k"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(w)
	assert.Equal(t, shared.CodeValidation, env.Error.Code)
	assert.Contains(t, env.Error.Message, "100")
	svc.AssertNumberOfCalls(t, "CompleteSale", 1)
}

func TestSaleHandler_Complete_IdempotencyInProgress(t *testing.T) {
	svc := new(MockSaleService)
	engine := newTestEngine(NewSaleHandler(svc))
	svc.On("CompleteSale", mock.Anything, mock.Anything).Return(nil, shared.ErrIdempotencyInProgress)

	w := doJSON(engine, http.MethodPost, "/api/v1/sales", map[string]any{
		"lines":    []map[string]any{{"variant_id": uuid.NewString(), "quantity": 1, "unit_price_cents": 100}},
		"payments": []map[string]any{{"method": "QRIS", "amount_cents": 100}},
	}, map[string]string{middleware.IdempotencyKeyHeader: "dup"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, shared.CodeIdempotencyInProgress, decode(w).Error.Code)
}

func TestSaleHandler_UnexpectedErrorIsHidden(t *testing.T) {
	svc := new(MockSaleService)
	engine := newTestEngine(NewSaleHandler(svc))
	id := uuid.New()
	svc.On("GetByID", mock.Anything, id).Return(nil, errors.New("pq: password authentication failed"))

	w := doJSON(engine, http.MethodGet, "/api/v1/sales/"+id.String(), nil, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode(w)
	assert.Equal(t, dto.ErrCodeInternal, env.Error.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestSaleHandler_List(t *testing.T) {
	svc := new(MockSaleService)
	engine := newTestEngine(NewSaleHandler(svc))

	svc.On("List", mock.Anything, mock.MatchedBy(func(f appsales.SaleListFilter) bool {
		return f.Page == 2 && f.PageSize == 10 &&
			f.DateFrom != nil && f.DateFrom.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) &&
			f.DateTo != nil && f.DateTo.Day() == 1 && f.DateTo.Hour() == 23
	})).Return([]appsales.SaleResponse{{ID: uuid.New()}}, int64(11), nil)

	w := doJSON(engine, http.MethodGet, "/api/v1/sales?page=2&page_size=10&date_from=2026-03-01&date_to=2026-03-01", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(11), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.TotalPages)
}

func TestSaleHandler_List_BadDate(t *testing.T) {
	svc := new(MockSaleService)
	engine := newTestEngine(NewSaleHandler(svc))

	w := doJSON(engine, http.MethodGet, "/api/v1/sales?date_from=yesterday", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, shared.CodeValidation, decode(w).Error.Code)
}

func TestSaleHandler_Receipt_NotFound(t *testing.T) {
	svc := new(MockSaleService)
	engine := newTestEngine(NewSaleHandler(svc))
	id := uuid.New()
	svc.On("Receipt", mock.Anything, id).Return(nil, shared.ErrNotFound)

	w := doJSON(engine, http.MethodGet, "/api/v1/sales/"+id.String()+"/receipt", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaleHandler_Summary_BareDateCoversWholeDay(t *testing.T) {
	svc := new(MockSaleService)
	engine := newTestEngine(NewSaleHandler(svc))
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	svc.On("Summary", mock.Anything, from, to).Return(&appsales.SummaryResponse{SaleCount: 4, NetCents: 1000}, nil)

	w := doJSON(engine, http.MethodGet, "/api/v1/reports/sales-summary?date_from=2026-03-01&date_to=2026-03-02", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(w).Data), `"sale_count":4`)
	svc.AssertExpectations(t)
}

func TestSaleHandler_InvalidID(t *testing.T) {
	svc := new(MockSaleService)
	engine := newTestEngine(NewSaleHandler(svc))

	w := doJSON(engine, http.MethodGet, "/api/v1/sales/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, shared.CodeValidation, decode(w).Error.Code)
}

package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appsales "github.com/realmfikri/pos-shoestore/internal/application/sales"
	domainsales "github.com/realmfikri/pos-shoestore/internal/domain/sales"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/dto"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/middleware"
)

// SaleService is the sale settlement surface the handler needs
type SaleService interface {
	CompleteSale(ctx context.Context, req appsales.CompleteSaleRequest) (*appsales.SaleResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*appsales.SaleResponse, error)
	List(ctx context.Context, filter appsales.SaleListFilter) ([]appsales.SaleResponse, int64, error)
	Receipt(ctx context.Context, id uuid.UUID) (*appsales.ReceiptResponse, error)
	Summary(ctx context.Context, from, to time.Time) (*appsales.SummaryResponse, error)
}

// SaleHandler serves checkout, sale history and the sales summary
type SaleHandler struct {
	BaseHandler
	service SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(service SaleService) *SaleHandler {
	return &SaleHandler{service: service}
}

// SaleLineBody is one cart line
type SaleLineBody struct {
	VariantID      string `json:"variant_id" binding:"required,uuid"`
	Quantity       int64  `json:"quantity" binding:"required,gt=0"`
	UnitPriceCents int64  `json:"unit_price_cents" binding:"gte=0"`
	DiscountCents  int64  `json:"discount_cents" binding:"gte=0"`
}

// SalePaymentBody is one tender
type SalePaymentBody struct {
	Method        string `json:"method" binding:"required,payment_method"`
	AmountCents   int64  `json:"amount_cents" binding:"required,gt=0"`
	TenderedCents *int64 `json:"tendered_cents" binding:"omitempty,gt=0"`
	Reference     string `json:"reference" binding:"omitempty,max=100"`
}

// CompleteSaleBody is the request body for POST /sales. Empty carts are
// rejected by the sale itself with EMPTY_CART.
type CompleteSaleBody struct {
	Lines             []SaleLineBody    `json:"lines" binding:"dive"`
	Payments          []SalePaymentBody `json:"payments" binding:"dive"`
	SaleDiscountCents int64             `json:"sale_discount_cents" binding:"gte=0"`
	TaxCents          int64             `json:"tax_cents" binding:"gte=0"`
}

// SaleListQuery binds GET /sales
type SaleListQuery struct {
	dto.ListRequest
	DateFrom  string `form:"date_from"`
	DateTo    string `form:"date_to"`
	CashierID string `form:"cashier_id" binding:"omitempty,uuid"`
}

// SummaryQuery binds GET /reports/sales-summary
type SummaryQuery struct {
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

// Complete handles POST /sales
func (h *SaleHandler) Complete(c *gin.Context) {
	key := strings.TrimSpace(c.GetHeader(middleware.IdempotencyKeyHeader))
	if len(key) > domainsales.MaxIdempotencyKeyLength {
		h.Error(c, shared.CodeValidation, fmt.Sprintf("Idempotency-Key must be at most %d characters", domainsales.MaxIdempotencyKeyLength), nil)
		return
	}

	var body CompleteSaleBody
	if !h.BindJSON(c, &body) {
		return
	}

	req := appsales.CompleteSaleRequest{
		Lines:             make([]appsales.LineRequest, len(body.Lines)),
		Payments:          make([]appsales.PaymentRequest, len(body.Payments)),
		SaleDiscountCents: body.SaleDiscountCents,
		TaxCents:          body.TaxCents,
		CashierID:         actorID(c),
		IdempotencyKey:    key,
	}
	for i, l := range body.Lines {
		req.Lines[i] = appsales.LineRequest{
			VariantID:      uuid.MustParse(l.VariantID),
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			DiscountCents:  l.DiscountCents,
		}
	}
	for i, p := range body.Payments {
		req.Payments[i] = appsales.PaymentRequest{
			Method:        p.Method,
			AmountCents:   p.AmountCents,
			TenderedCents: p.TenderedCents,
			Reference:     p.Reference,
		}
	}

	sale, err := h.service.CompleteSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// GetByID handles GET /sales/:id
func (h *SaleHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	sale, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Receipt handles GET /sales/:id/receipt
func (h *SaleHandler) Receipt(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	receipt, err := h.service.Receipt(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// List handles GET /sales
func (h *SaleHandler) List(c *gin.Context) {
	var query SaleListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	page := query.ListRequest.Normalize()
	from, err := parseDateFrom(query.DateFrom)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	to, err := parseDateTo(query.DateTo)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	cashier, err := parseOptionalUUID(query.CashierID, "cashier_id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	sales, total, err := h.service.List(c.Request.Context(), appsales.SaleListFilter{
		Page:      page.Page,
		PageSize:  page.PageSize,
		DateFrom:  from,
		DateTo:    to,
		CashierID: cashier,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, sales, total, page.Page, page.PageSize)
}

// Summary handles GET /reports/sales-summary. A bare date_to covers that
// whole day.
func (h *SaleHandler) Summary(c *gin.Context) {
	var query SummaryQuery
	if !h.BindQuery(c, &query) {
		return
	}
	from, err := parseDateFrom(query.DateFrom)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	to, err := parseDateTo(query.DateTo)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var fromT, toT time.Time
	if from != nil {
		fromT = *from
	}
	if to != nil {
		// summary bounds are half-open
		toT = to.Add(time.Nanosecond)
	}
	summary, err := h.service.Summary(c.Request.Context(), fromT, toT)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// RegisterRoutes mounts the sale and report routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	sales.POST("", h.Complete)
	sales.GET("", h.List)
	sales.GET("/:id", h.GetByID)
	sales.GET("/:id/receipt", h.Receipt)

	rg.GET("/reports/sales-summary", h.Summary)
}

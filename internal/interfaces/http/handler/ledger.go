package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appledger "github.com/realmfikri/pos-shoestore/internal/application/ledger"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/dto"
)

// LedgerService is the stock ledger surface the handler needs
type LedgerService interface {
	GetOnHand(ctx context.Context, variantID uuid.UUID) (*appledger.OnHandResponse, error)
	RecordAdjustment(ctx context.Context, req appledger.AdjustmentRequest) (*appledger.AppendResult, error)
	RecordInitialStock(ctx context.Context, req appledger.InitialStockRequest) (*appledger.AppendResult, error)
	ListEntries(ctx context.Context, variantID uuid.UUID, filter appledger.EntryListFilter) (*appledger.EntryListResult, error)
	StockLevels(ctx context.Context, filter appledger.StockLevelFilter) ([]appledger.OnHandResponse, int64, error)
}

// LedgerHandler serves stock movements and on-hand queries
type LedgerHandler struct {
	BaseHandler
	service LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(service LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// AdjustmentBody is the request body for POST /variants/:id/adjustments
type AdjustmentBody struct {
	Reason   string `json:"reason" binding:"required,adjust_reason"`
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
	Note     string `json:"note" binding:"omitempty,max=200"`
}

// InitialStockBody is the request body for POST /variants/:id/initial-stock
type InitialStockBody struct {
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
	Reason   string `json:"reason" binding:"omitempty,max=255"`
}

// LedgerQuery binds GET /variants/:id/ledger
type LedgerQuery struct {
	dto.ListRequest
	Type     string `form:"type" binding:"omitempty,ledger_type"`
	Reason   string `form:"reason" binding:"omitempty,max=255"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

// StockLevelQuery binds GET /inventory/stock-levels
type StockLevelQuery struct {
	dto.ListRequest
	Below *int64 `form:"below" binding:"omitempty,gte=0"`
}

// Adjust handles POST /variants/:id/adjustments
func (h *LedgerHandler) Adjust(c *gin.Context) {
	variantID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var body AdjustmentBody
	if !h.BindJSON(c, &body) {
		return
	}
	result, err := h.service.RecordAdjustment(c.Request.Context(), appledger.AdjustmentRequest{
		VariantID:  variantID,
		ReasonCode: body.Reason,
		Quantity:   body.Quantity,
		Note:       body.Note,
		ActorID:    actorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// InitialStock handles POST /variants/:id/initial-stock
func (h *LedgerHandler) InitialStock(c *gin.Context) {
	variantID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var body InitialStockBody
	if !h.BindJSON(c, &body) {
		return
	}
	result, err := h.service.RecordInitialStock(c.Request.Context(), appledger.InitialStockRequest{
		VariantID: variantID,
		Quantity:  body.Quantity,
		Reason:    body.Reason,
		ActorID:   actorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// OnHand handles GET /variants/:id/on-hand
func (h *LedgerHandler) OnHand(c *gin.Context) {
	variantID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	onHand, err := h.service.GetOnHand(c.Request.Context(), variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, onHand)
}

// History handles GET /variants/:id/ledger
func (h *LedgerHandler) History(c *gin.Context) {
	variantID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var query LedgerQuery
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

	result, err := h.service.ListEntries(c.Request.Context(), variantID, appledger.EntryListFilter{
		Page:     page.Page,
		PageSize: page.PageSize,
		Type:     query.Type,
		Reason:   query.Reason,
		DateFrom: from,
		DateTo:   to,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result, result.Total, page.Page, page.PageSize)
}

// StockLevels handles GET /inventory/stock-levels
func (h *LedgerHandler) StockLevels(c *gin.Context) {
	var query StockLevelQuery
	if !h.BindQuery(c, &query) {
		return
	}
	page := query.ListRequest.Normalize()
	levels, total, err := h.service.StockLevels(c.Request.Context(), appledger.StockLevelFilter{
		Page:     page.Page,
		PageSize: page.PageSize,
		Search:   page.Search,
		Below:    query.Below,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, levels, total, page.Page, page.PageSize)
}

// RegisterRoutes mounts the ledger routes
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	variants := rg.Group("/variants")
	variants.GET("/:id/ledger", h.History)
	variants.GET("/:id/on-hand", h.OnHand)
	variants.POST("/:id/adjustments", h.Adjust)
	variants.POST("/:id/initial-stock", h.InitialStock)

	rg.GET("/inventory/stock-levels", h.StockLevels)
}

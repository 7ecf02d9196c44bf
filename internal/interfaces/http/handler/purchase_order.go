package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apppurchasing "github.com/realmfikri/pos-shoestore/internal/application/purchasing"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/dto"
)

// PurchaseOrderService is the purchasing surface the handler needs
type PurchaseOrderService interface {
	Create(ctx context.Context, req apppurchasing.CreateOrderRequest) (*apppurchasing.OrderResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*apppurchasing.OrderResponse, error)
	List(ctx context.Context, filter apppurchasing.OrderListFilter) ([]apppurchasing.OrderResponse, int64, error)
	Receipts(ctx context.Context, orderID uuid.UUID) ([]apppurchasing.ReceiptResponse, error)
	Receive(ctx context.Context, orderID uuid.UUID, req apppurchasing.ReceiveRequest) (*apppurchasing.ReceiveResponse, error)
	Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*apppurchasing.OrderResponse, error)
}

// PurchaseOrderHandler serves purchase orders and goods receiving
type PurchaseOrderHandler struct {
	BaseHandler
	service PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(service PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{service: service}
}

// OrderItemBody is one ordered variant
type OrderItemBody struct {
	VariantID       string `json:"variant_id" binding:"required,uuid"`
	QuantityOrdered int64  `json:"quantity_ordered" binding:"required,gt=0"`
	CostCents       *int64 `json:"cost_cents" binding:"omitempty,gte=0"`
}

// CreateOrderBody is the request body for POST /purchase-orders
type CreateOrderBody struct {
	SupplierID string          `json:"supplier_id" binding:"required,uuid"`
	Items      []OrderItemBody `json:"items" binding:"required,min=1,dive"`
	Note       string          `json:"note" binding:"omitempty,max=2000"`
}

// ReceiveEntryBody is one received item line. Non-positive quantities are
// skipped by the order.
type ReceiveEntryBody struct {
	ItemID           string `json:"item_id" binding:"required,uuid"`
	QuantityReceived int64  `json:"quantity_received"`
	CostCents        *int64 `json:"cost_cents" binding:"omitempty,gte=0"`
}

// ReceiveBody is the request body for POST /purchase-orders/:id/receive
type ReceiveBody struct {
	Entries []ReceiveEntryBody `json:"entries" binding:"dive"`
	Note    string             `json:"note" binding:"omitempty,max=2000"`
}

// CancelBody is the optional request body for POST /purchase-orders/:id/cancel
type CancelBody struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// OrderListQuery binds GET /purchase-orders
type OrderListQuery struct {
	dto.ListRequest
	Status     string `form:"status" binding:"omitempty,po_status"`
	SupplierID string `form:"supplier_id" binding:"omitempty,uuid"`
}

// Create handles POST /purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var body CreateOrderBody
	if !h.BindJSON(c, &body) {
		return
	}
	req := apppurchasing.CreateOrderRequest{
		SupplierID: uuid.MustParse(body.SupplierID),
		Items:      make([]apppurchasing.CreateItemRequest, len(body.Items)),
		Note:       body.Note,
		CreatedBy:  actorID(c),
	}
	for i, it := range body.Items {
		req.Items[i] = apppurchasing.CreateItemRequest{
			VariantID:       uuid.MustParse(it.VariantID),
			QuantityOrdered: it.QuantityOrdered,
			CostCents:       it.CostCents,
		}
	}

	order, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	order, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var query OrderListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	page := query.ListRequest.Normalize()
	supplierID, err := parseOptionalUUID(query.SupplierID, "supplier_id")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	orders, total, err := h.service.List(c.Request.Context(), apppurchasing.OrderListFilter{
		Page:       page.Page,
		PageSize:   page.PageSize,
		Status:     strings.ToUpper(query.Status),
		SupplierID: supplierID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, page.Page, page.PageSize)
}

// Receipts handles GET /purchase-orders/:id/receipts
func (h *PurchaseOrderHandler) Receipts(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	receipts, err := h.service.Receipts(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipts)
}

// Receive handles POST /purchase-orders/:id/receive
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var body ReceiveBody
	if !h.BindJSON(c, &body) {
		return
	}
	req := apppurchasing.ReceiveRequest{
		Entries:    make([]apppurchasing.ReceiveEntryRequest, len(body.Entries)),
		Note:       body.Note,
		ReceivedBy: actorID(c),
	}
	for i, e := range body.Entries {
		req.Entries[i] = apppurchasing.ReceiveEntryRequest{
			ItemID:           uuid.MustParse(e.ItemID),
			QuantityReceived: e.QuantityReceived,
			CostCents:        e.CostCents,
		}
	}

	result, err := h.service.Receive(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Cancel handles POST /purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var body CancelBody
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &body) {
		return
	}
	order, err := h.service.Cancel(c.Request.Context(), id, body.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// RegisterRoutes mounts the purchasing routes
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	orders.POST("", h.Create)
	orders.GET("", h.List)
	orders.GET("/:id", h.GetByID)
	orders.GET("/:id/receipts", h.Receipts)
	orders.POST("/:id/receive", h.Receive)
	orders.POST("/:id/cancel", h.Cancel)
}

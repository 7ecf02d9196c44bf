package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/application/partner"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/dto"
)

// SupplierService is the supplier use-case surface the handler needs
type SupplierService interface {
	Create(ctx context.Context, req partner.CreateSupplierRequest) (*partner.SupplierResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*partner.SupplierResponse, error)
	List(ctx context.Context, filter shared.Filter) ([]partner.SupplierResponse, int64, error)
}

// SupplierHandler serves suppliers
type SupplierHandler struct {
	BaseHandler
	service SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(service SupplierService) *SupplierHandler {
	return &SupplierHandler{service: service}
}

// CreateSupplierBody is the request body for POST /suppliers
type CreateSupplierBody struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	ContactName string `json:"contact_name" binding:"omitempty,max=100"`
	Phone       string `json:"phone" binding:"omitempty,max=50"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Notes       string `json:"notes" binding:"omitempty,max=2000"`
}

// Create handles POST /suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	var body CreateSupplierBody
	if !h.BindJSON(c, &body) {
		return
	}
	supplier, err := h.service.Create(c.Request.Context(), partner.CreateSupplierRequest{
		Name:        body.Name,
		ContactName: body.ContactName,
		Phone:       body.Phone,
		Email:       body.Email,
		Notes:       body.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// GetByID handles GET /suppliers/:id
func (h *SupplierHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// List handles GET /suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	var query dto.ListRequest
	if !h.BindQuery(c, &query) {
		return
	}
	query = query.Normalize()
	suppliers, total, err := h.service.List(c.Request.Context(), shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Search:   query.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, suppliers, total, query.Page, query.PageSize)
}

// RegisterRoutes mounts the supplier routes
func (h *SupplierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	suppliers := rg.Group("/suppliers")
	suppliers.POST("", h.Create)
	suppliers.GET("", h.List)
	suppliers.GET("/:id", h.GetByID)
}

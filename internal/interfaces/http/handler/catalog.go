package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcatalog "github.com/realmfikri/pos-shoestore/internal/application/catalog"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/dto"
)

// CatalogService is the catalog use-case surface the handler needs
type CatalogService interface {
	CreateProduct(ctx context.Context, req appcatalog.CreateProductRequest) (*appcatalog.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*appcatalog.ProductResponse, error)
	ListProducts(ctx context.Context, filter shared.Filter) ([]appcatalog.ProductResponse, int64, error)
	CreateVariant(ctx context.Context, req appcatalog.CreateVariantRequest) (*appcatalog.VariantResponse, error)
	UpdateVariant(ctx context.Context, id uuid.UUID, req appcatalog.UpdateVariantRequest) (*appcatalog.VariantResponse, error)
	GetVariant(ctx context.Context, id uuid.UUID) (*appcatalog.VariantResponse, error)
	ListVariants(ctx context.Context, filter appcatalog.VariantListFilter) ([]appcatalog.VariantResponse, int64, error)
}

// CatalogHandler serves products and variants
type CatalogHandler struct {
	BaseHandler
	service CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(service CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// CreateProductBody is the request body for POST /products
type CreateProductBody struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Brand       string `json:"brand" binding:"omitempty,max=100"`
	Category    string `json:"category" binding:"omitempty,max=100"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// CreateVariantBody is the request body for POST /products/:id/variants
type CreateVariantBody struct {
	SKU        string `json:"sku" binding:"required,min=1,max=64"`
	Size       string `json:"size" binding:"required,max=20"`
	Color      string `json:"color" binding:"omitempty,max=50"`
	PriceCents int64  `json:"price_cents" binding:"gte=0"`
	CostCents  int64  `json:"cost_cents" binding:"gte=0"`
}

// UpdateVariantBody is the request body for PATCH /variants/:id. There is
// deliberately no quantity field.
type UpdateVariantBody struct {
	Size       *string `json:"size" binding:"omitempty,max=20"`
	Color      *string `json:"color" binding:"omitempty,max=50"`
	PriceCents *int64  `json:"price_cents" binding:"omitempty,gte=0"`
	CostCents  *int64  `json:"cost_cents" binding:"omitempty,gte=0"`
	Active     *bool   `json:"active"`
}

// VariantListQuery binds GET /variants
type VariantListQuery struct {
	dto.ListRequest
	ProductID string `form:"product_id" binding:"omitempty,uuid"`
	Active    string `form:"active" binding:"omitempty,oneof=true false"`
}

// CreateProduct handles POST /products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var body CreateProductBody
	if !h.BindJSON(c, &body) {
		return
	}
	product, err := h.service.CreateProduct(c.Request.Context(), appcatalog.CreateProductRequest{
		Name:        body.Name,
		Brand:       body.Brand,
		Category:    body.Category,
		Description: body.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var query dto.ListRequest
	if !h.BindQuery(c, &query) {
		return
	}
	query = query.Normalize()
	products, total, err := h.service.ListProducts(c.Request.Context(), shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Search:   query.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, query.Page, query.PageSize)
}

// CreateVariant handles POST /products/:id/variants
func (h *CatalogHandler) CreateVariant(c *gin.Context) {
	productID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var body CreateVariantBody
	if !h.BindJSON(c, &body) {
		return
	}
	variant, err := h.service.CreateVariant(c.Request.Context(), appcatalog.CreateVariantRequest{
		ProductID:  productID,
		SKU:        body.SKU,
		Size:       body.Size,
		Color:      body.Color,
		PriceCents: body.PriceCents,
		CostCents:  body.CostCents,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, variant)
}

// UpdateVariant handles PATCH /variants/:id
func (h *CatalogHandler) UpdateVariant(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var body UpdateVariantBody
	if !h.BindJSON(c, &body) {
		return
	}
	variant, err := h.service.UpdateVariant(c.Request.Context(), id, appcatalog.UpdateVariantRequest{
		Size:       body.Size,
		Color:      body.Color,
		PriceCents: body.PriceCents,
		CostCents:  body.CostCents,
		Active:     body.Active,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, variant)
}

// GetVariant handles GET /variants/:id
func (h *CatalogHandler) GetVariant(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	variant, err := h.service.GetVariant(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, variant)
}

// ListVariants handles GET /variants
func (h *CatalogHandler) ListVariants(c *gin.Context) {
	var query VariantListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	page := query.ListRequest.Normalize()
	productID, err := parseOptionalUUID(query.ProductID, "product_id")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	active, err := parseOptionalBool(query.Active, "active")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	variants, total, err := h.service.ListVariants(c.Request.Context(), appcatalog.VariantListFilter{
		Page:      page.Page,
		PageSize:  page.PageSize,
		Search:    page.Search,
		ProductID: productID,
		Active:    active,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, variants, total, page.Page, page.PageSize)
}

// RegisterRoutes mounts the catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.POST("", h.CreateProduct)
	products.GET("", h.ListProducts)
	products.GET("/:id", h.GetProduct)
	products.POST("/:id/variants", h.CreateVariant)

	variants := rg.Group("/variants")
	variants.GET("", h.ListVariants)
	variants.GET("/:id", h.GetVariant)
	variants.PATCH("/:id", h.UpdateVariant)
}

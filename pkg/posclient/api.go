package posclient

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

// Meta is list pagination
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// Product is a catalog product
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Category string `json:"category,omitempty"`
}

// CreateProductRequest creates a product
type CreateProductRequest struct {
	Name     string `json:"name"`
	Brand    string `json:"brand,omitempty"`
	Category string `json:"category,omitempty"`
}

// Variant is a sellable SKU with its on-hand
type Variant struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	SKU        string `json:"sku"`
	Size       string `json:"size,omitempty"`
	Color      string `json:"color,omitempty"`
	PriceCents int64  `json:"price_cents"`
	CostCents  int64  `json:"cost_cents"`
	Active     bool   `json:"active"`
	OnHand     int64  `json:"on_hand"`
}

// CreateVariantRequest creates a variant under a product
type CreateVariantRequest struct {
	SKU        string `json:"sku"`
	Size       string `json:"size"`
	Color      string `json:"color,omitempty"`
	PriceCents int64  `json:"price_cents"`
	CostCents  int64  `json:"cost_cents"`
}

// OnHand is a variant's derived stock level
type OnHand struct {
	VariantID string `json:"variant_id"`
	SKU       string `json:"sku"`
	OnHand    int64  `json:"on_hand"`
}

// LedgerEntry is one stock movement
type LedgerEntry struct {
	ID             string    `json:"id"`
	VariantID      string    `json:"variant_id"`
	Type           string    `json:"type"`
	QuantityChange int64     `json:"quantity_change"`
	Reason         string    `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// AppendResult is a new entry plus the on-hand it produced
type AppendResult struct {
	Entry       LedgerEntry `json:"entry"`
	OnHandAfter int64       `json:"on_hand_after"`
}

// SaleLine is one cart line
type SaleLine struct {
	VariantID      string `json:"variant_id"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	DiscountCents  int64  `json:"discount_cents,omitempty"`
}

// Payment is one tender
type Payment struct {
	Method        string `json:"method"`
	AmountCents   int64  `json:"amount_cents"`
	TenderedCents *int64 `json:"tendered_cents,omitempty"`
	Reference     string `json:"reference,omitempty"`
}

// SaleRequest is a cart submitted for settlement
type SaleRequest struct {
	Lines             []SaleLine `json:"lines"`
	Payments          []Payment  `json:"payments"`
	SaleDiscountCents int64      `json:"sale_discount_cents,omitempty"`
	TaxCents          int64      `json:"tax_cents,omitempty"`
}

// Sale is a committed sale
type Sale struct {
	ID             string     `json:"id"`
	ReceiptNumber  string     `json:"receipt_number"`
	Lines          []SaleLine `json:"lines"`
	Payments       []Payment  `json:"payments"`
	SubtotalCents  int64      `json:"subtotal_cents"`
	TotalCents     int64      `json:"total_cents"`
	PaidCents      int64      `json:"paid_cents"`
	ChangeDueCents int64      `json:"change_due_cents"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CreateProduct handles POST /products
func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	var out Product
	if _, err := c.do(ctx, call{method: http.MethodPost, path: "/products", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateVariant handles POST /products/:id/variants
func (c *Client) CreateVariant(ctx context.Context, productID string, req CreateVariantRequest) (*Variant, error) {
	var out Variant
	if _, err := c.do(ctx, call{method: http.MethodPost, path: "/products/" + productID + "/variants", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetVariant handles GET /variants/:id
func (c *Client) GetVariant(ctx context.Context, variantID string) (*Variant, error) {
	var out Variant
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/variants/" + variantID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOnHand handles GET /variants/:id/on-hand
func (c *Client) GetOnHand(ctx context.Context, variantID string) (*OnHand, error) {
	var out OnHand
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/variants/" + variantID + "/on-hand"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecordInitialStock handles POST /variants/:id/initial-stock
func (c *Client) RecordInitialStock(ctx context.Context, variantID string, quantity int64, reason string) (*AppendResult, error) {
	body := map[string]any{"quantity": quantity}
	if reason != "" {
		body["reason"] = reason
	}
	var out AppendResult
	if _, err := c.do(ctx, call{method: http.MethodPost, path: "/variants/" + variantID + "/initial-stock", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecordAdjustment handles POST /variants/:id/adjustments
func (c *Client) RecordAdjustment(ctx context.Context, variantID, reason string, quantity int64) (*AppendResult, error) {
	body := map[string]any{"reason": reason, "quantity": quantity}
	var out AppendResult
	if _, err := c.do(ctx, call{method: http.MethodPost, path: "/variants/" + variantID + "/adjustments", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteSale handles POST /sales. A non-empty idempotencyKey is sent as
// the Idempotency-Key header.
func (c *Client) CompleteSale(ctx context.Context, idempotencyKey string, req SaleRequest) (*Sale, error) {
	cl := call{method: http.MethodPost, path: "/sales", body: req}
	if idempotencyKey != "" {
		cl.headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	var out Sale
	if _, err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSales handles GET /sales
func (c *Client) ListSales(ctx context.Context, page, pageSize int) ([]Sale, *Meta, error) {
	var out []Sale
	meta, err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/sales",
		query:  map[string]string{"page": positive(page), "page_size": positive(pageSize)},
	}, &out)
	if err != nil {
		return nil, nil, err
	}
	return out, meta, nil
}

func positive(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Barcode       *string          `json:"barcode"        validate:"omitempty,min=8,max=18"`
	Name          string           `json:"name"           validate:"required,min=2,max=120"`
	Description   *string          `json:"description"`
	Category      string           `json:"category"       validate:"required"`
	CostPrice     decimal.Decimal  `json:"cost_price"     validate:"required"`
	Price         decimal.Decimal  `json:"price"          validate:"required"`
	Stock         int              `json:"stock"          validate:"min=0"`
	IsFractioned  bool             `json:"is_fractioned"`
	TotalVolume   *decimal.Decimal `json:"total_volume"`
	ServingVolume *decimal.Decimal `json:"serving_volume"`
	SupplierID    *string          `json:"supplier_id"    validate:"omitempty,uuid"`
}

type UpdateProductRequest struct {
	Barcode       *string          `json:"barcode"        validate:"omitempty,min=8,max=18"`
	Name          *string          `json:"name"           validate:"omitempty,min=2,max=120"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	Price         *decimal.Decimal `json:"price"`
	IsFractioned  *bool            `json:"is_fractioned"`
	TotalVolume   *decimal.Decimal `json:"total_volume"`
	ServingVolume *decimal.Decimal `json:"serving_volume"`
	SupplierID    *string          `json:"supplier_id"    validate:"omitempty,uuid"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	Status   string `form:"status"`
	Active   string `form:"active"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            string           `json:"id"`
	Barcode       *string          `json:"barcode"`
	Name          string           `json:"name"`
	Description   *string          `json:"description"`
	Category      string           `json:"category"`
	CostPrice     decimal.Decimal  `json:"cost_price"`
	Price         decimal.Decimal  `json:"price"`
	MarginPct     decimal.Decimal  `json:"margin_pct"`
	Stock         int              `json:"stock"`
	IsFractioned  bool             `json:"is_fractioned"`
	TotalVolume   *decimal.Decimal `json:"total_volume"`
	ServingVolume *decimal.Decimal `json:"serving_volume"`
	StockStatus   string           `json:"stock_status"`
	ImageURL      *string          `json:"image_url"`
	SupplierID    *string          `json:"supplier_id"`
	Active        bool             `json:"active"`
}

// StorefrontProductResponse hides cost/margin fields from public listings.
type StorefrontProductResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Category    string           `json:"category"`
	Price       decimal.Decimal  `json:"price"`
	PromoPrice  *decimal.Decimal `json:"promo_price"`
	StockStatus string           `json:"stock_status"`
	ImageURL    *string          `json:"image_url"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type StorefrontListResponse struct {
	Data  []StorefrontProductResponse `json:"data"`
	Total int64                       `json:"total"`
	Page  int                         `json:"page"`
	Limit int                         `json:"limit"`
}

package dto

import "github.com/shopspring/decimal"

// ─── Combos ──────────────────────────────────────────────────────────────────

type ComboItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type CreateComboRequest struct {
	Name        string             `json:"name"        validate:"required,min=2,max=120"`
	Description *string            `json:"description"`
	Price       decimal.Decimal    `json:"price"       validate:"required"`
	Items       []ComboItemRequest `json:"items"       validate:"required,min=1,dive"`
}

type UpdateComboRequest struct {
	Name        *string            `json:"name"        validate:"omitempty,min=2,max=120"`
	Description *string            `json:"description"`
	Price       *decimal.Decimal   `json:"price"`
	Items       []ComboItemRequest `json:"items"       validate:"omitempty,min=1,dive"`
}

type ComboItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type ComboResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description *string             `json:"description"`
	Price       decimal.Decimal     `json:"price"`
	ImageURL    *string             `json:"image_url"`
	Active      bool                `json:"active"`
	Items       []ComboItemResponse `json:"items"`
}

// ─── Promotions ──────────────────────────────────────────────────────────────

type CreatePromotionRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Price     decimal.Decimal `json:"price"      validate:"required"`
	StartsAt  string          `json:"starts_at"  validate:"required"` // RFC 3339
	EndsAt    string          `json:"ends_at"    validate:"required"`
}

type PromotionResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Price       decimal.Decimal `json:"price"`
	StartsAt    string          `json:"starts_at"`
	EndsAt      string          `json:"ends_at"`
	Active      bool            `json:"active"`
}

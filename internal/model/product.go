package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockStatus classifies product availability. It is always derived from
// (Stock, IsFractioned, TotalVolume) — never set directly by handlers.
type StockStatus string

const (
	StatusInStock    StockStatus = "IN_STOCK"
	StatusLowStock   StockStatus = "LOW_STOCK"
	StatusOutOfStock StockStatus = "OUT_OF_STOCK"
)

// LowStockThreshold is the stock count at or below which a product is
// flagged LOW_STOCK.
const LowStockThreshold = 5

// DeriveStockStatus classifies a product into one of the three stock
// statuses. Rules are evaluated in order, first match wins:
//
//  1. Fractioned products with no remaining volume are out of stock,
//     regardless of the unit counter.
//  2. Stock <= 0 is out of stock.
//  3. Stock <= LowStockThreshold is low stock.
//  4. Everything else is in stock.
//
// Pure function — no side effects, no failure modes.
func DeriveStockStatus(stock int, isFractioned bool, totalVolume *decimal.Decimal) StockStatus {
	if isFractioned && (totalVolume == nil || !totalVolume.IsPositive()) {
		return StatusOutOfStock
	}
	if stock <= 0 {
		return StatusOutOfStock
	}
	if stock <= LowStockThreshold {
		return StatusLowStock
	}
	return StatusInStock
}

// Product is a storefront item. Fractioned products (IsFractioned=true) are
// sold by the dose: availability tracks TotalVolume instead of Stock, and
// each sold unit consumes ServingVolume from TotalVolume.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Barcode     *string   `gorm:"uniqueIndex"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Category    string          `gorm:"not null"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// MarginPct is derived from (Price - CostPrice) / CostPrice * 100
	MarginPct    decimal.Decimal  `gorm:"type:decimal(5,2)"`
	Stock        int              `gorm:"not null;default:0"`
	IsFractioned bool             `gorm:"not null;default:false"`
	TotalVolume  *decimal.Decimal `gorm:"type:decimal(10,2)"`
	// ServingVolume is the volume consumed per sold unit of a fractioned
	// product (e.g. 50ml per dose). Ignored for whole-unit products.
	ServingVolume *decimal.Decimal `gorm:"type:decimal(10,2)"`
	StockStatus   StockStatus      `gorm:"type:varchar(20);not null;default:'OUT_OF_STOCK'"`
	ImagePath     *string
	SupplierID    *uuid.UUID `gorm:"type:uuid;index"`
	Active        bool       `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

// CurrentStockStatus derives the status from the product's own fields.
func (p *Product) CurrentStockStatus() StockStatus {
	return DeriveStockStatus(p.Stock, p.IsFractioned, p.TotalVolume)
}

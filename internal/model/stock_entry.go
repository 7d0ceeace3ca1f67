package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockEntry is an append-only ledger record of an inbound stock purchase,
// distinct from the live Product.Stock counter. Entries are never modified
// or deleted.
type StockEntry struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	SupplierID *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity   int             `gorm:"not null"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalCost  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// VolumeAdded is the volume credited to a fractioned product's
	// TotalVolume by this entry; nil for whole-unit products.
	VolumeAdded *decimal.Decimal `gorm:"type:decimal(10,2)"`
	InvoiceRef  *string
	CreatedAt   time.Time

	Product  *Product  `gorm:"foreignKey:ProductID"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

// TableName overrides GORM's default pluralization (stock_entrys → stock_entries).
func (StockEntry) TableName() string { return "stock_entries" }

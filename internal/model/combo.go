package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Combo bundles several products under a single price (e.g. bottle + ice + cups).
type Combo struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"not null"`
	Description *string
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ImagePath   *string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []ComboItem `gorm:"foreignKey:ComboID"`
}

// ComboItem links one product (with quantity) into a combo.
type ComboItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComboID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_combo_product;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_combo_product;not null"`
	Quantity  int       `gorm:"not null;default:1"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Promotion overrides a product's price inside a time window.
type Promotion struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StartsAt  time.Time       `gorm:"not null"`
	EndsAt    time.Time       `gorm:"not null"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// Covers reports whether the promotion applies at t.
func (p *Promotion) Covers(t time.Time) bool {
	return p.Active && !t.Before(p.StartsAt) && t.Before(p.EndsAt)
}

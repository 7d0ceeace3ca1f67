package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the delivery lifecycle of an order.
type OrderStatus string

const (
	OrderPending        OrderStatus = "PENDING"
	OrderConfirmed      OrderStatus = "CONFIRMED"
	OrderOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderDelivered      OrderStatus = "DELIVERED"
	OrderCanceled       OrderStatus = "CANCELED"
)

// CanTransition reports whether an order may move from its current status to
// next. The lifecycle only moves forward; cancellation is allowed until the
// order leaves for delivery.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	switch s {
	case OrderPending:
		return next == OrderConfirmed || next == OrderCanceled
	case OrderConfirmed:
		return next == OrderOutForDelivery || next == OrderCanceled
	case OrderOutForDelivery:
		return next == OrderDelivered
	}
	return false
}

// Order is a customer purchase. Items capture price and cost snapshots at
// checkout time, independent of later product changes.
type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DeliveryFee   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"` // pix | cartao | dinheiro
	Address       string          `gorm:"not null"`
	Complement    *string
	Notes         *string
	MotoboyID     *uuid.UUID `gorm:"type:uuid;index"`
	DeliveredAt   *time.Time
	CanceledAt    *time.Time
	CancelReason  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items   []OrderItem `gorm:"foreignKey:OrderID"`
	User    *User       `gorm:"foreignKey:UserID"`
	Motoboy *User       `gorm:"foreignKey:MotoboyID"`
}

// OrderItem is one line of an order. Name, UnitPrice, CostPrice and
// ConsumedVolume are snapshots taken at checkout. ConsumedVolume is set only
// for fractioned products and records the volume debited in ml, so a later
// cancellation restores exactly that amount even if serving_volume changed
// in the meantime.
type OrderItem struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID        uuid.UUID        `gorm:"type:uuid;index;not null"`
	ProductID      uuid.UUID        `gorm:"type:uuid;index;not null"`
	Name           string           `gorm:"not null"`
	Quantity       int              `gorm:"not null"`
	UnitPrice      decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	CostPrice      decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	ConsumedVolume *decimal.Decimal `gorm:"type:decimal(12,2)"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

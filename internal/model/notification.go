package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a message created server-side for a single user and pushed
// live to their websocket session when connected.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	OrderID   *uuid.UUID `gorm:"type:uuid;index"`
	Message   string     `gorm:"not null"`
	Read      bool       `gorm:"not null;default:false"`
	CreatedAt time.Time
}

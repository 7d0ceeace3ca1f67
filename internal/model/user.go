package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of access levels. Authorization decisions compare
// Role values, never raw strings — tokens carrying anything outside this set
// are rejected at authentication time.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleVendedor Role = "VENDEDOR"
	RoleMotoboy  Role = "MOTOBOY"
	RoleUser     Role = "USER"
)

// ParseRole normalizes and validates a role string. Case folding happens
// here, once, so downstream comparisons are exact.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleVendedor:
		return RoleVendedor, nil
	case RoleMotoboy:
		return RoleMotoboy, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User stores every account in the system: customers, sellers, couriers and
// administrators, discriminated solely by Role.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Phone        *string
	Role         Role `gorm:"type:varchar(20);not null;default:'USER'"`
	// Delivery address — only meaningful for customers
	Address    *string
	Complement *string
	Active     bool `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values assigned at registration and carried in the session token.
const (
	RoleAnalyst = "analyst"
	RoleAdmin   = "admin"
)

// User represents a dashboard user stored in the warehouse credential table
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // SHA-256 hex digest, never the plaintext
	Role         string         `gorm:"not null;default:'analyst'" json:"role"` // "analyst" or "admin"
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity. Billing fields are written
// back after every successful checkout so the next one can default to them.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`

	BillingName       *string `gorm:"column:billing_name"`
	BillingPhone      *string `gorm:"column:billing_phone"`
	PersonalCode      *string `gorm:"column:personal_code"`
	BillingCity       *string `gorm:"column:billing_city"`
	BillingAddress    *string `gorm:"column:billing_address"`
	BillingPostalCode *string `gorm:"column:billing_postal_code"`
	BillingEmail      *string `gorm:"column:billing_email"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
	PaymentStatusExpired = "expired"
)

// Payment tracks one checkout session for a paid certification. OrderID is
// the external gateway order reference; the attempt is created only once the
// payment settles.
type Payment struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	OrderID         string         `json:"order_id" gorm:"not null;uniqueIndex"`
	UserID          string         `json:"user_id" gorm:"not null;index"`
	CertificationID uint           `json:"certification_id" gorm:"not null;index"`
	AmountCents     int64          `json:"amount_cents" gorm:"not null"`
	Status          string         `json:"status" gorm:"not null;default:'pending'"`
	AttemptID       *uint          `json:"attempt_id,omitempty"` // set once the settled payment produced an attempt
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is the issued proof of passing. The unique index on AttemptID
// is the concurrency guard against duplicate issuance.
type Certificate struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	AttemptID     uint           `json:"attempt_id" gorm:"not null;uniqueIndex"`
	Attempt       Attempt        `json:"attempt,omitempty" gorm:"foreignKey:AttemptID"`
	RecipientName string         `json:"recipient_name"`
	DocumentURL   string         `json:"document_url" gorm:"not null"`
	SHA256Hash    string         `json:"sha256_hash" gorm:"not null;uniqueIndex"`
	IssuedAt      time.Time      `json:"issued_at" gorm:"autoCreateTime"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Subscription mirrors billing-provider subscription state. Informational
// only; it plays no part in the exam lifecycle.
type Subscription struct {
	ID                     uint           `gorm:"primarykey" json:"id"`
	UserID                 string         `json:"user_id" gorm:"not null;index"`
	ExternalSubscriptionID string         `json:"external_subscription_id" gorm:"not null;uniqueIndex"`
	ExternalCustomerID     string         `json:"external_customer_id"`
	Status                 string         `json:"status"`
	PlanID                 string         `json:"plan_id"`
	CurrentPeriodEnd       *time.Time     `json:"current_period_end,omitempty"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`
}

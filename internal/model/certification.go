package model

import (
	"time"

	"gorm.io/gorm"
)

type Certification struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `json:"title" gorm:"not null"`
	Slug        string         `json:"slug" gorm:"not null;uniqueIndex"` // lowercase-kebab, e.g. "frontend-developer"
	Description string         `json:"description,omitempty" gorm:"type:text"`
	PriceCents  int64          `json:"price_cents" gorm:"not null;default:0"` // 0 = free
	Level       string         `json:"level,omitempty"`                       // "junior", "mid", "senior"
	ImageURL    string         `json:"image_url,omitempty"`
	Exams       []Exam         `json:"exams,omitempty" gorm:"foreignKey:CertificationID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Certification) Free() bool {
	return c.PriceCents == 0
}

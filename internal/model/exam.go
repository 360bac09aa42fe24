package model

import (
	"time"

	"gorm.io/gorm"
)

// Exam is one immutable version of a certification's question set. New
// content means a new row with a higher version, never an in-place edit.
type Exam struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	CertificationID  uint           `json:"certification_id" gorm:"not null;index;uniqueIndex:idx_exam_cert_version"`
	Version          int            `json:"version" gorm:"not null;uniqueIndex:idx_exam_cert_version"`
	TimeLimitMinutes int            `json:"time_limit_minutes" gorm:"not null;default:60"`
	PassingScore     float64        `json:"passing_score" gorm:"not null;default:70"` // percentage 0-100
	Questions        []Question     `json:"questions,omitempty" gorm:"foreignKey:ExamID"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

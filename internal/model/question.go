package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuestionTypeMCQ    = "mcq"
	QuestionTypeFree   = "free"
	QuestionTypeCoding = "coding"
)

type Question struct {
	ID            uint                           `gorm:"primarykey" json:"id"`
	ExamID        uint                           `json:"exam_id" gorm:"not null;index"`
	Body          string                         `json:"body" gorm:"type:text;not null"`
	Type          string                         `json:"type" gorm:"not null"` // "mcq", "free", "coding"
	Options       datatypes.JSONSlice[string]    `json:"options,omitempty"`    // mcq only
	CorrectAnswer string                         `json:"-" gorm:"type:text"`   // mcq option index, or reference solution; never sent to candidates
	Category      string                         `json:"category,omitempty"`
	Difficulty    int                            `json:"difficulty" gorm:"not null;default:1"` // 1 easy, 2 medium, 3 hard
	CreatedAt     time.Time                      `json:"created_at"`
	UpdatedAt     time.Time                      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt                 `gorm:"index" json:"-"`
}

// Weight is the point value of the question when graded. Open-ended and
// coding questions are worth double their difficulty.
func (q *Question) Weight() float64 {
	d := q.Difficulty
	if d <= 0 {
		d = 1
	}
	if q.Type == QuestionTypeMCQ {
		return float64(d)
	}
	return float64(d) * 2
}

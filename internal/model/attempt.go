package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AttemptStatusPending = "pending"
	AttemptStatusStarted = "started"
	AttemptStatusPassed  = "passed"
	AttemptStatusFailed  = "failed"
)

const (
	RankTop = "top"
	RankMid = "mid"
	RankLow = "low"
)

// Attempt is one user's run through an exam. Status only ever advances
// pending -> started -> passed|failed; grading moves a started attempt
// straight to its terminal outcome.
type Attempt struct {
	ID            uint                                 `gorm:"primarykey" json:"id"`
	UserID        string                               `json:"user_id" gorm:"not null;index"`
	ExamID        uint                                 `json:"exam_id" gorm:"not null;index"`
	Exam          Exam                                 `json:"exam,omitempty" gorm:"foreignKey:ExamID"`
	Status        string                               `json:"status" gorm:"not null;default:'pending'"`
	PaymentBypass bool                                 `json:"payment_bypass" gorm:"not null;default:false"` // true only for free certifications
	StartedAt     *time.Time                           `json:"started_at,omitempty"`
	Deadline      *time.Time                           `json:"deadline,omitempty"` // started_at + time limit, enforced at submit
	CompletedAt   *time.Time                           `json:"completed_at,omitempty"`
	Answers       datatypes.JSONType[AnswerSet]        `json:"answers,omitempty"`
	Score         *datatypes.JSONType[ScorePayload]    `json:"score,omitempty"`
	Rank          string                               `json:"rank,omitempty"` // "top", "mid", "low", or empty when not passed
	CreatedAt     time.Time                            `json:"created_at"`
	UpdatedAt     time.Time                            `json:"updated_at"`
	DeletedAt     gorm.DeletedAt                       `gorm:"index" json:"-"`
}

// Terminal reports whether the attempt has been graded.
func (a *Attempt) Terminal() bool {
	return a.Status == AttemptStatusPassed || a.Status == AttemptStatusFailed
}

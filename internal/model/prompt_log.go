package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PromptTypeExamGeneration = "exam_generation"
	PromptTypeAnswerGrading  = "answer_grading"
	PromptTypeFeedbackSummary = "feedback_summary"
)

// PromptLog is the audit trail of every model prompt/response pair.
type PromptLog struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Type      string         `json:"type" gorm:"not null;index"`
	Prompt    string         `json:"prompt" gorm:"type:text;not null"`
	Response  string         `json:"response" gorm:"type:text"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

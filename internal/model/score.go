package model

// QuestionScore is the graded outcome of a single question.
type QuestionScore struct {
	Score    float64 `json:"score"`
	Max      float64 `json:"max"`
	Feedback string  `json:"feedback"`
}

// ScorePayload is the full grading result persisted on a completed attempt.
// The percentage is always recomputed from points, never user-supplied.
type ScorePayload struct {
	Percentage   float64                `json:"percentage"`
	PointsEarned float64                `json:"points_earned"`
	TotalPoints  float64                `json:"total_points"`
	PerQuestion  map[uint]QuestionScore `json:"per_question"`
	Feedback     string                 `json:"feedback"`
}

// AnswerSet maps question id to the submitted answer. MCQ answers hold the
// selected option index as a string; free and coding answers hold raw text.
type AnswerSet map[uint]string

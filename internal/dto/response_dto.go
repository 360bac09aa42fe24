package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type CertificationResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Level       string    `json:"level,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// QuestionResponse is the candidate-facing question view. Correct answers
// are stripped before the exam payload leaves the server.
type QuestionResponse struct {
	ID         uint     `json:"id"`
	ExamID     uint     `json:"exam_id"`
	Body       string   `json:"body"`
	Type       string   `json:"type"`
	Options    []string `json:"options,omitempty"`
	Category   string   `json:"category,omitempty"`
	Difficulty int      `json:"difficulty"`
}

// AdminQuestionResponse additionally exposes the stored correct answer.
type AdminQuestionResponse struct {
	QuestionResponse
	CorrectAnswer string `json:"correct_answer,omitempty"`
}

type ExamResponse struct {
	ID               uint               `json:"id"`
	CertificationID  uint               `json:"certification_id"`
	Version          int                `json:"version"`
	TimeLimitMinutes int                `json:"time_limit_minutes"`
	PassingScore     float64            `json:"passing_score"`
	Questions        []QuestionResponse `json:"questions,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

type AttemptResponse struct {
	ID            uint       `json:"id"`
	UserID        string     `json:"user_id"`
	ExamID        uint       `json:"exam_id"`
	Status        string     `json:"status"`
	PaymentBypass bool       `json:"payment_bypass"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Rank          string     `json:"rank,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// StartAttemptResponse bundles everything the exam screen needs in one read.
type StartAttemptResponse struct {
	Attempt   AttemptResponse    `json:"attempt"`
	Exam      ExamResponse       `json:"exam"`
	Questions []QuestionResponse `json:"questions"`
}

type QuestionScoreResponse struct {
	Score    float64 `json:"score"`
	Max      float64 `json:"max"`
	Feedback string  `json:"feedback"`
}

// ResultResponse is the derived view over a completed attempt.
type ResultResponse struct {
	AttemptID    uint                           `json:"attempt_id"`
	ExamID       uint                           `json:"exam_id"`
	Score        float64                        `json:"score"` // percentage
	PointsEarned float64                        `json:"points_earned"`
	TotalPoints  float64                        `json:"total_points"`
	Passed       bool                           `json:"passed"`
	Rank         string                         `json:"rank,omitempty"`
	Feedback     string                         `json:"feedback,omitempty"`
	Details      map[uint]QuestionScoreResponse `json:"details,omitempty"`
	CompletedAt  *time.Time                     `json:"completed_at,omitempty"`
}

// CheckoutResponse: free certifications return AttemptID, paid ones return
// the order reference plus the gateway session and redirect URL. OrderID is
// what the client sends back to /checkout/verify after paying.
type CheckoutResponse struct {
	Free        bool   `json:"free"`
	AttemptID   uint   `json:"attempt_id,omitempty"`
	OrderID     string `json:"order_id,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

type VerifyCheckoutResponse struct {
	Verified  bool `json:"verified"`
	AttemptID uint `json:"attempt_id,omitempty"`
}

type CertificateResponse struct {
	DocumentURL string `json:"document_url"`
}

type CertificateVerifyResponse struct {
	Verified      bool      `json:"verified"`
	RecipientName string    `json:"recipient_name,omitempty"`
	Certification string    `json:"certification,omitempty"`
	Score         float64   `json:"score,omitempty"`
	Level         string    `json:"level,omitempty"`
	IssuedAt      time.Time `json:"issued_at,omitempty"`
}

type SubscriptionResponse struct {
	UserID           string     `json:"user_id"`
	Status           string     `json:"status"`
	PlanID           string     `json:"plan_id"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}

type PaymentResponse struct {
	OrderID         string    `json:"order_id"`
	UserID          string    `json:"user_id"`
	CertificationID uint      `json:"certification_id"`
	AmountCents     int64     `json:"amount_cents"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

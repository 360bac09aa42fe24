package dto

// CertificationCreateDTO is for admins creating a new certification track.
type CertificationCreateDTO struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents" binding:"min=0"`
	Level       string `json:"level"`
	ImageURL    string `json:"image_url"`
}

// CertificationUpdateDTO mutates descriptive fields only; identity and slug
// stay fixed after creation.
type CertificationUpdateDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	Level       *string `json:"level"`
	ImageURL    *string `json:"image_url"`
}

// ExamCreateDTO creates a fresh exam version for a certification. The
// version number is assigned server-side.
type ExamCreateDTO struct {
	CertificationID  uint    `json:"certification_id" binding:"required"`
	TimeLimitMinutes int     `json:"time_limit_minutes" binding:"required,min=1"`
	PassingScore     float64 `json:"passing_score" binding:"required,min=0,max=100"`
}

type QuestionCreateDTO struct {
	ExamID        uint     `json:"exam_id" binding:"required"`
	Body          string   `json:"body" binding:"required"`
	Type          string   `json:"type" binding:"required,oneof=mcq free coding"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Category      string   `json:"category"`
	Difficulty    int      `json:"difficulty" binding:"omitempty,min=1,max=3"`
}

type QuestionUpdateDTO struct {
	Body          *string   `json:"body"`
	Options       *[]string `json:"options"`
	CorrectAnswer *string   `json:"correct_answer"`
	Category      *string   `json:"category"`
	Difficulty    *int      `json:"difficulty"`
}

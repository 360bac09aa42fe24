package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"github.com/skillcert/skillcert/config"
	"github.com/skillcert/skillcert/internal/model"
	"github.com/skillcert/skillcert/internal/repository"
	"google.golang.org/api/option"
)

// GeminiLLMService wraps every call to the hosted model: exam generation,
// per-answer grading, and the result summary. Every exchange is recorded in
// prompt_logs.
type GeminiLLMService interface {
	GenerateQuestions(ctx context.Context, cert *model.Certification, examID uint) ([]model.Question, error)
	GradeAnswer(ctx context.Context, question *model.Question, userAnswer string, maxPoints float64, attemptID uint) (score float64, feedback string, err error)
	SummarizeResult(ctx context.Context, attemptID uint, percentage, passingScore float64, passed bool, details string) (string, error)
}

type geminiLLMService struct {
	jsonModel *genai.GenerativeModel // responds with application/json
	textModel *genai.GenerativeModel
	promptLogRepo repository.PromptLogRepository
	cfg       *config.Config
}

func NewGeminiLLMService(cfg *config.Config, promptLogRepo repository.PromptLogRepository) (GeminiLLMService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeminiLLMService will be non-functional.")
		return &geminiLLMService{cfg: cfg, promptLogRepo: promptLogRepo}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	jsonModel := client.GenerativeModel("gemini-1.5-flash")
	jsonModel.ResponseMIMEType = "application/json"
	textModel := client.GenerativeModel("gemini-1.5-flash")

	return &geminiLLMService{
		jsonModel:     jsonModel,
		textModel:     textModel,
		promptLogRepo: promptLogRepo,
		cfg:           cfg,
	}, nil
}

// generatedQuestion is the JSON shape the model is asked to produce for each
// exam question.
type generatedQuestion struct {
	Body          string   `json:"body"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Category      string   `json:"category"`
	Difficulty    int      `json:"difficulty"`
}

func (s *geminiLLMService) GenerateQuestions(ctx context.Context, cert *model.Certification, examID uint) ([]model.Question, error) {
	if s.jsonModel == nil {
		return nil, fmt.Errorf("gemini client not initialized")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Generate a certification exam for a %s role.\n", cert.Title))
	if cert.Description != "" {
		b.WriteString(fmt.Sprintf("Role description: %s\n", cert.Description))
	}
	b.WriteString(`The exam must include:
- 5 multiple choice questions (type: "mcq")
- 2 coding questions (type: "coding")
- 3 free response questions (type: "free")

For multiple choice questions, provide exactly 4 options and the zero-based index of the correct option as a string in correct_answer.
For coding questions, provide a problem statement in body and an example solution in correct_answer.
For free response questions, provide the question prompt in body and leave correct_answer empty.

Respond with a JSON object: {"questions": [...]} where each question has these fields:
- body: the question text
- type: "mcq", "coding", or "free"
- options: array of 4 strings for mcq, otherwise an empty array
- correct_answer: as described above
- category: technical category of the question (e.g. "HTML", "JavaScript", "Databases")
- difficulty: 1 (easy), 2 (medium), or 3 (hard)`)
	prompt := b.String()

	raw, err := s.generate(ctx, s.jsonModel, prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Questions []generatedQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Error().Err(err).Str("raw", raw).Msg("Failed to parse generated questions")
		return nil, fmt.Errorf("failed to parse generated questions: %w", err)
	}
	if len(parsed.Questions) == 0 {
		return nil, fmt.Errorf("model returned no questions")
	}

	questions := make([]model.Question, 0, len(parsed.Questions))
	for _, gq := range parsed.Questions {
		q := model.Question{
			ExamID:        examID,
			Body:          gq.Body,
			Type:          gq.Type,
			CorrectAnswer: gq.CorrectAnswer,
			Category:      gq.Category,
			Difficulty:    gq.Difficulty,
		}
		if q.Difficulty < 1 || q.Difficulty > 3 {
			q.Difficulty = 1
		}
		if q.Type == model.QuestionTypeMCQ {
			q.Options = gq.Options
		}
		questions = append(questions, q)
	}

	s.logPrompt(model.PromptTypeExamGeneration, prompt, raw, map[string]any{
		"exam_id":          examID,
		"certification_id": cert.ID,
	})
	return questions, nil
}

func (s *geminiLLMService) GradeAnswer(ctx context.Context, question *model.Question, userAnswer string, maxPoints float64, attemptID uint) (float64, string, error) {
	if s.jsonModel == nil {
		return 0, "", fmt.Errorf("gemini client not initialized")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Grade this %s question answer:\n\n", question.Type))
	b.WriteString(fmt.Sprintf("Question: %s\n\n", question.Body))
	if question.CorrectAnswer != "" {
		b.WriteString(fmt.Sprintf("Correct answer or example solution: %s\n\n", question.CorrectAnswer))
	}
	b.WriteString(fmt.Sprintf("User's answer: %s\n\n", userAnswer))
	b.WriteString(fmt.Sprintf(`Evaluate the answer on a scale of 0 to %.1f points. Provide brief, specific feedback explaining the score.
Respond with a JSON object with these fields:
- score: number (0-%.1f)
- feedback: string (brief explanation)`, maxPoints, maxPoints))
	prompt := b.String()

	raw, err := s.generate(ctx, s.jsonModel, prompt)
	if err != nil {
		return 0, "", err
	}

	var grading struct {
		Score    float64 `json:"score"`
		Feedback string  `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(raw), &grading); err != nil {
		log.Warn().Err(err).Str("raw", raw).Uint("questionID", question.ID).Msg("Unparseable grading response")
		return 0, "", fmt.Errorf("failed to parse grading response: %w", err)
	}

	if grading.Score < 0 {
		grading.Score = 0
	}
	if grading.Score > maxPoints {
		grading.Score = maxPoints
	}

	s.logPrompt(model.PromptTypeAnswerGrading, prompt, raw, map[string]any{
		"question_id": question.ID,
		"attempt_id":  attemptID,
	})
	return grading.Score, strings.TrimSpace(grading.Feedback), nil
}

func (s *geminiLLMService) SummarizeResult(ctx context.Context, attemptID uint, percentage, passingScore float64, passed bool, details string) (string, error) {
	if s.textModel == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	result := "FAILED"
	if passed {
		result = "PASSED"
	}
	prompt := fmt.Sprintf(`Based on the exam results below, provide a brief encouraging feedback summary for the candidate:

Score: %.1f%%
Passing Score: %.1f%%
Result: %s

Detailed feedback:
%s

Keep the feedback under 150 words. Be encouraging but honest.`, percentage, passingScore, result, details)

	raw, err := s.generate(ctx, s.textModel, prompt)
	if err != nil {
		return "", err
	}

	s.logPrompt(model.PromptTypeFeedbackSummary, prompt, raw, map[string]any{
		"attempt_id": attemptID,
	})
	return strings.TrimSpace(raw), nil
}

// generate runs one prompt and concatenates the text parts of the first
// candidate.
func (s *geminiLLMService) generate(ctx context.Context, m *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error")
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text += string(txt)
		}
	}
	if text == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return text, nil
}

func (s *geminiLLMService) logPrompt(promptType, prompt, response string, metadata map[string]any) {
	if s.promptLogRepo == nil {
		return
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		meta = nil
	}
	entry := &model.PromptLog{
		Type:     promptType,
		Prompt:   prompt,
		Response: response,
		Metadata: meta,
	}
	if err := s.promptLogRepo.Create(entry); err != nil {
		// Audit trail only; a failed insert must not fail the exam flow.
		log.Error().Err(err).Str("type", promptType).Msg("Failed to persist prompt log")
	}
}

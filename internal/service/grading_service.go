package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/skillcert/skillcert/internal/model"
)

// GradingService scores a full answer set against an exam's question set.
// Fixed-choice questions are scored locally; open-ended and coding questions
// are delegated to the model. A failing model call degrades that one
// question to zero instead of aborting the whole pass.
type GradingService interface {
	Grade(ctx context.Context, attemptID uint, exam *model.Exam, questions []model.Question, answers model.AnswerSet) (*GradeOutcome, error)
}

type GradeOutcome struct {
	Payload model.ScorePayload
	Passed  bool
	Rank    string
}

type gradingService struct {
	llm GeminiLLMService
}

func NewGradingService(llm GeminiLLMService) GradingService {
	return &gradingService{llm: llm}
}

func (s *gradingService) Grade(ctx context.Context, attemptID uint, exam *model.Exam, questions []model.Question, answers model.AnswerSet) (*GradeOutcome, error) {
	if exam == nil {
		return nil, fmt.Errorf("exam is required: %w", ErrNotFound)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("exam %d has no questions: %w", exam.ID, ErrNotFound)
	}

	payload := model.ScorePayload{
		PerQuestion: make(map[uint]model.QuestionScore, len(questions)),
	}

	for i := range questions {
		q := &questions[i]
		weight := q.Weight()
		payload.TotalPoints += weight

		if q.Type == model.QuestionTypeMCQ {
			payload.PerQuestion[q.ID] = scoreChoice(q, answers[q.ID], weight)
			continue
		}

		userAnswer, ok := answers[q.ID]
		if !ok || strings.TrimSpace(userAnswer) == "" {
			payload.PerQuestion[q.ID] = model.QuestionScore{Score: 0, Max: weight, Feedback: "No answer provided"}
			continue
		}

		score, feedback, err := s.llm.GradeAnswer(ctx, q, userAnswer, weight, attemptID)
		if err != nil {
			log.Warn().Err(err).Uint("questionID", q.ID).Uint("attemptID", attemptID).
				Msg("Model grading failed, degrading to zero score")
			payload.PerQuestion[q.ID] = model.QuestionScore{Score: 0, Max: weight, Feedback: "Error grading response"}
			continue
		}
		payload.PerQuestion[q.ID] = model.QuestionScore{Score: score, Max: weight, Feedback: feedback}
	}

	for _, qs := range payload.PerQuestion {
		payload.PointsEarned += qs.Score
	}
	payload.Percentage = percentage(payload.PointsEarned, payload.TotalPoints)

	passed := payload.Percentage >= exam.PassingScore
	rank := rankFor(passed, payload.Percentage)

	payload.Feedback = s.summarize(ctx, attemptID, exam, questions, &payload, passed)

	return &GradeOutcome{Payload: payload, Passed: passed, Rank: rank}, nil
}

// scoreChoice awards full weight iff the normalized submitted answer equals
// the stored correct answer. No partial credit.
func scoreChoice(q *model.Question, userAnswer string, weight float64) model.QuestionScore {
	if userAnswer != "" && answersEqual(userAnswer, q.CorrectAnswer) {
		return model.QuestionScore{Score: weight, Max: weight, Feedback: "Correct"}
	}
	return model.QuestionScore{Score: 0, Max: weight, Feedback: "Incorrect"}
}

func answersEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// percentage is round(points/total*100, 1), clamped to [0,100].
func percentage(earned, total float64) float64 {
	if total <= 0 {
		return 0
	}
	pct := math.Round(earned/total*100*10) / 10
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// rankFor buckets passers into tiers. Not passed means no rank.
func rankFor(passed bool, pct float64) string {
	if !passed {
		return ""
	}
	switch {
	case pct >= 90:
		return model.RankTop
	case pct >= 80:
		return model.RankMid
	default:
		return model.RankLow
	}
}

// summarize asks the model for a short feedback summary; on any failure it
// substitutes a templated message so grading always completes.
func (s *gradingService) summarize(ctx context.Context, attemptID uint, exam *model.Exam, questions []model.Question, payload *model.ScorePayload, passed bool) string {
	bodies := make(map[uint]string, len(questions))
	ids := make([]uint, 0, len(questions))
	for _, q := range questions {
		bodies[q.ID] = q.Body
		ids = append(ids, q.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	for _, id := range ids {
		qs, ok := payload.PerQuestion[id]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("- %s: %.1f/%.1f - %s\n", bodies[id], qs.Score, qs.Max, qs.Feedback))
	}

	summary, err := s.llm.SummarizeResult(ctx, attemptID, payload.Percentage, exam.PassingScore, passed, b.String())
	if err != nil || strings.TrimSpace(summary) == "" {
		log.Warn().Err(err).Uint("attemptID", attemptID).Msg("Summary feedback call failed, using fallback")
		return fallbackSummary(payload.Percentage, exam.PassingScore, passed)
	}
	return summary
}

func fallbackSummary(pct, passing float64, passed bool) string {
	if passed {
		return fmt.Sprintf("Thank you for completing the exam. You scored %.1f%%, above the %.1f%% pass mark. Congratulations on passing!", pct, passing)
	}
	return fmt.Sprintf("Thank you for completing the exam. You scored %.1f%%; the pass mark is %.1f%%. Review the per-question feedback and try again.", pct, passing)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/skillcert/skillcert/internal/dto"
	"github.com/skillcert/skillcert/internal/model"
	"github.com/skillcert/skillcert/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// submitGrace absorbs clock skew and network latency between the client's
// countdown hitting zero and the submit request landing.
const submitGrace = 30 * time.Second

// AttemptService drives the attempt lifecycle: creation after payment (or
// free bypass), starting the timer, submitting answers for grading, and
// reading back results.
type AttemptService interface {
	CreateAttempt(certificationID uint, userID string, paymentBypass bool) (*dto.AttemptResponse, error)
	StartAttempt(ctx context.Context, attemptID uint, userID string) (*dto.StartAttemptResponse, error)
	SubmitAnswers(ctx context.Context, attemptID uint, userID string, answers map[uint]string) (*dto.ResultResponse, error)
	GetResult(attemptID uint, userID string) (*dto.ResultResponse, error)
	ListResults(userID string, examID *uint) ([]dto.ResultResponse, error)
}

type attemptService struct {
	certRepo    repository.CertificationRepository
	examRepo    repository.ExamRepository
	attemptRepo repository.AttemptRepository
	examService ExamService
	grading     GradingService
}

func NewAttemptService(
	certRepo repository.CertificationRepository,
	examRepo repository.ExamRepository,
	attemptRepo repository.AttemptRepository,
	examService ExamService,
	grading GradingService,
) AttemptService {
	return &attemptService{
		certRepo:    certRepo,
		examRepo:    examRepo,
		attemptRepo: attemptRepo,
		examService: examService,
		grading:     grading,
	}
}

func (s *attemptService) CreateAttempt(certificationID uint, userID string, paymentBypass bool) (*dto.AttemptResponse, error) {
	cert, err := s.certRepo.FindByID(certificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("certification %d: %w", certificationID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load certification %d: %w", certificationID, err)
	}

	// The bypass flag is only honored for free certifications; paid ones
	// get their attempts created by checkout verification.
	if paymentBypass && !cert.Free() {
		return nil, fmt.Errorf("certification %d is not free: %w", certificationID, ErrPaymentRequired)
	}
	if !paymentBypass && !cert.Free() {
		return nil, fmt.Errorf("certification %d requires checkout: %w", certificationID, ErrPaymentRequired)
	}

	exam, err := s.examService.GetOrCreateCurrent(certificationID)
	if err != nil {
		return nil, err
	}

	attempt := &model.Attempt{
		UserID:        userID,
		ExamID:        exam.ID,
		Status:        model.AttemptStatusPending,
		PaymentBypass: paymentBypass,
	}
	if err := s.attemptRepo.Create(attempt); err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}
	log.Info().Uint("attemptID", attempt.ID).Str("userID", userID).Uint("examID", exam.ID).Msg("Created attempt")
	return attemptResponse(attempt), nil
}

func (s *attemptService) StartAttempt(ctx context.Context, attemptID uint, userID string) (*dto.StartAttemptResponse, error) {
	attempt, err := s.findOwned(attemptID, userID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.AttemptStatusPending {
		return nil, fmt.Errorf("attempt %d is %s, not pending: %w", attemptID, attempt.Status, ErrConflict)
	}

	exam, err := s.examRepo.FindByIDWithQuestions(attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exam %d: %w", attempt.ExamID, err)
	}
	if len(exam.Questions) == 0 {
		// First start for this exam version triggers generation. The
		// attempt stays pinned to its own version even when a newer one
		// exists, so generation targets this exam, not the current one.
		questions, err := s.examService.EnsureQuestions(ctx, exam)
		if err != nil {
			return nil, err
		}
		exam.Questions = questions
	}

	now := time.Now().UTC()
	deadline := now.Add(time.Duration(exam.TimeLimitMinutes) * time.Minute)
	attempt.Status = model.AttemptStatusStarted
	attempt.StartedAt = &now
	attempt.Deadline = &deadline
	if err := s.attemptRepo.Update(attempt); err != nil {
		return nil, fmt.Errorf("failed to start attempt %d: %w", attemptID, err)
	}
	log.Info().Uint("attemptID", attempt.ID).Time("deadline", deadline).Msg("Started attempt")

	var examResp dto.ExamResponse
	copier.Copy(&examResp, exam)
	examResp.Questions = nil
	return &dto.StartAttemptResponse{
		Attempt:   *attemptResponse(attempt),
		Exam:      examResp,
		Questions: questionResponses(exam.Questions),
	}, nil
}

func (s *attemptService) SubmitAnswers(ctx context.Context, attemptID uint, userID string, answers map[uint]string) (*dto.ResultResponse, error) {
	attempt, err := s.findOwned(attemptID, userID)
	if err != nil {
		return nil, err
	}
	if attempt.Status != model.AttemptStatusStarted {
		// Terminal attempts keep their first graded result; a second
		// submit is rejected rather than silently regraded.
		return nil, fmt.Errorf("attempt %d is %s, not started: %w", attemptID, attempt.Status, ErrConflict)
	}

	now := time.Now().UTC()
	if attempt.Deadline != nil && now.After(attempt.Deadline.Add(submitGrace)) {
		attempt.Status = model.AttemptStatusFailed
		attempt.CompletedAt = &now
		if err := s.attemptRepo.Update(attempt); err != nil {
			log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to expire overdue attempt")
		}
		return nil, fmt.Errorf("attempt %d deadline passed: %w", attemptID, ErrDeadlineExceeded)
	}

	exam, err := s.examRepo.FindByIDWithQuestions(attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exam %d: %w", attempt.ExamID, err)
	}

	answerSet := model.AnswerSet(answers)
	outcome, err := s.grading.Grade(ctx, attempt.ID, exam, exam.Questions, answerSet)
	if err != nil {
		return nil, fmt.Errorf("failed to grade attempt %d: %w", attemptID, err)
	}

	score := datatypes.NewJSONType(outcome.Payload)
	attempt.Answers = datatypes.NewJSONType(answerSet)
	attempt.Score = &score
	attempt.CompletedAt = &now
	attempt.Rank = outcome.Rank
	if outcome.Passed {
		attempt.Status = model.AttemptStatusPassed
	} else {
		attempt.Status = model.AttemptStatusFailed
	}
	if err := s.attemptRepo.Update(attempt); err != nil {
		return nil, fmt.Errorf("failed to persist grades for attempt %d: %w", attemptID, err)
	}
	log.Info().
		Uint("attemptID", attempt.ID).
		Float64("percentage", outcome.Payload.Percentage).
		Bool("passed", outcome.Passed).
		Msg("Graded attempt")
	return resultResponse(attempt), nil
}

func (s *attemptService) GetResult(attemptID uint, userID string) (*dto.ResultResponse, error) {
	attempt, err := s.findOwned(attemptID, userID)
	if err != nil {
		return nil, err
	}
	if !attempt.Terminal() {
		return nil, fmt.Errorf("attempt %d has no result yet: %w", attemptID, ErrConflict)
	}
	return resultResponse(attempt), nil
}

func (s *attemptService) ListResults(userID string, examID *uint) ([]dto.ResultResponse, error) {
	attempts, err := s.attemptRepo.FindCompletedByUser(userID, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results for user %s: %w", userID, err)
	}
	out := make([]dto.ResultResponse, 0, len(attempts))
	for i := range attempts {
		out = append(out, *resultResponse(&attempts[i]))
	}
	return out, nil
}

func (s *attemptService) findOwned(attemptID uint, userID string) (*model.Attempt, error) {
	attempt, err := s.attemptRepo.FindByIDAndUser(attemptID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Not distinguishing "missing" from "someone else's" keeps
			// attempt IDs unguessable.
			return nil, fmt.Errorf("attempt %d: %w", attemptID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load attempt %d: %w", attemptID, err)
	}
	return attempt, nil
}

func attemptResponse(a *model.Attempt) *dto.AttemptResponse {
	var resp dto.AttemptResponse
	copier.Copy(&resp, a)
	return &resp
}

func resultResponse(a *model.Attempt) *dto.ResultResponse {
	resp := &dto.ResultResponse{
		AttemptID:   a.ID,
		ExamID:      a.ExamID,
		Passed:      a.Status == model.AttemptStatusPassed,
		Rank:        a.Rank,
		CompletedAt: a.CompletedAt,
	}
	if a.Score != nil {
		payload := a.Score.Data()
		resp.Score = payload.Percentage
		resp.PointsEarned = payload.PointsEarned
		resp.TotalPoints = payload.TotalPoints
		resp.Feedback = payload.Feedback
		resp.Details = make(map[uint]dto.QuestionScoreResponse, len(payload.PerQuestion))
		for id, qs := range payload.PerQuestion {
			resp.Details[id] = dto.QuestionScoreResponse{Score: qs.Score, Max: qs.Max, Feedback: qs.Feedback}
		}
	}
	return resp
}

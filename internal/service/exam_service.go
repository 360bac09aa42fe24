package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/skillcert/skillcert/internal/dto"
	"github.com/skillcert/skillcert/internal/model"
	"github.com/skillcert/skillcert/internal/repository"
	"gorm.io/gorm"
)

// Defaults applied when a certification gets its first exam implicitly.
const (
	DefaultTimeLimitMinutes = 60
	DefaultPassingScore     = 70
)

// ExamService resolves the current exam version for a certification and
// fills empty exams with generated questions.
type ExamService interface {
	// GetOrCreateCurrent returns the highest exam version for the
	// certification, creating version 1 with defaults if none exists.
	GetOrCreateCurrent(certificationID uint) (*model.Exam, error)
	// GenerateExam is idempotent: existing questions are returned as-is,
	// otherwise a fresh set is generated and persisted. It targets the
	// certification's current version.
	GenerateExam(ctx context.Context, certificationID uint) ([]dto.QuestionResponse, error)
	// EnsureQuestions fills the given exam with generated questions when
	// it has none, and returns the exam's questions either way. Unlike
	// GenerateExam it targets the exam it is handed, not the current version.
	EnsureQuestions(ctx context.Context, exam *model.Exam) ([]model.Question, error)
}

type examService struct {
	certRepo     repository.CertificationRepository
	examRepo     repository.ExamRepository
	questionRepo repository.QuestionRepository
	llm          GeminiLLMService
}

func NewExamService(
	certRepo repository.CertificationRepository,
	examRepo repository.ExamRepository,
	questionRepo repository.QuestionRepository,
	llm GeminiLLMService,
) ExamService {
	return &examService{
		certRepo:     certRepo,
		examRepo:     examRepo,
		questionRepo: questionRepo,
		llm:          llm,
	}
}

func (s *examService) GetOrCreateCurrent(certificationID uint) (*model.Exam, error) {
	exam, err := s.examRepo.FindCurrentByCertification(certificationID)
	if err == nil {
		return exam, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to resolve current exam for certification %d: %w", certificationID, err)
	}

	newExam := &model.Exam{
		CertificationID:  certificationID,
		TimeLimitMinutes: DefaultTimeLimitMinutes,
		PassingScore:     DefaultPassingScore,
	}
	if err := s.examRepo.CreateVersion(newExam); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent creation; the winner's row is ours.
			return s.examRepo.FindCurrentByCertification(certificationID)
		}
		return nil, fmt.Errorf("failed to create exam for certification %d: %w", certificationID, err)
	}
	log.Info().Uint("certificationID", certificationID).Int("version", newExam.Version).Msg("Created new exam version")
	return newExam, nil
}

func (s *examService) GenerateExam(ctx context.Context, certificationID uint) ([]dto.QuestionResponse, error) {
	if _, err := s.certRepo.FindByID(certificationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("certification %d: %w", certificationID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load certification %d: %w", certificationID, err)
	}

	exam, err := s.GetOrCreateCurrent(certificationID)
	if err != nil {
		return nil, err
	}

	questions, err := s.EnsureQuestions(ctx, exam)
	if err != nil {
		return nil, err
	}
	return questionResponses(questions), nil
}

func (s *examService) EnsureQuestions(ctx context.Context, exam *model.Exam) ([]model.Question, error) {
	existing, err := s.questionRepo.FindByExamID(exam.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for exam %d: %w", exam.ID, err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	cert, err := s.certRepo.FindByID(exam.CertificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("certification %d: %w", exam.CertificationID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load certification %d: %w", exam.CertificationID, err)
	}

	generated, err := s.llm.GenerateQuestions(ctx, cert, exam.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate questions for exam %d: %w", exam.ID, err)
	}
	if err := s.questionRepo.CreateBatch(generated); err != nil {
		return nil, fmt.Errorf("failed to save generated questions for exam %d: %w", exam.ID, err)
	}
	log.Info().Uint("examID", exam.ID).Int("count", len(generated)).Msg("Generated and persisted exam questions")
	return generated, nil
}

func questionResponses(questions []model.Question) []dto.QuestionResponse {
	out := make([]dto.QuestionResponse, len(questions))
	for i, q := range questions {
		// copier won't copy CorrectAnswer: the response type has no such
		// field, which is what strips answers from candidate payloads.
		copier.Copy(&out[i], &q)
		out[i].Options = q.Options
	}
	return out
}

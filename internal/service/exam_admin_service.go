package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/skillcert/skillcert/internal/dto"
	"github.com/skillcert/skillcert/internal/model"
	"github.com/skillcert/skillcert/internal/repository"
	"gorm.io/gorm"
)

// ExamAdminService is the authoring surface: new exam versions and manual
// question management, correct answers included.
type ExamAdminService interface {
	CreateVersion(req *dto.ExamCreateDTO) (*dto.ExamResponse, error)
	ListByCertification(certificationID uint) ([]dto.ExamResponse, error)
	GetWithQuestions(examID uint) (*dto.ExamResponse, []dto.AdminQuestionResponse, error)
	AddQuestion(req *dto.QuestionCreateDTO) (*dto.AdminQuestionResponse, error)
	UpdateQuestion(questionID uint, req *dto.QuestionUpdateDTO) (*dto.AdminQuestionResponse, error)
	DeleteQuestion(questionID uint) error
}

type examAdminService struct {
	certRepo     repository.CertificationRepository
	examRepo     repository.ExamRepository
	questionRepo repository.QuestionRepository
}

func NewExamAdminService(
	certRepo repository.CertificationRepository,
	examRepo repository.ExamRepository,
	questionRepo repository.QuestionRepository,
) ExamAdminService {
	return &examAdminService{
		certRepo:     certRepo,
		examRepo:     examRepo,
		questionRepo: questionRepo,
	}
}

func (s *examAdminService) CreateVersion(req *dto.ExamCreateDTO) (*dto.ExamResponse, error) {
	if _, err := s.certRepo.FindByID(req.CertificationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("certification %d: %w", req.CertificationID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load certification %d: %w", req.CertificationID, err)
	}

	exam := &model.Exam{
		CertificationID:  req.CertificationID,
		TimeLimitMinutes: req.TimeLimitMinutes,
		PassingScore:     req.PassingScore,
	}
	if err := s.examRepo.CreateVersion(exam); err != nil {
		return nil, fmt.Errorf("failed to create exam version: %w", err)
	}
	log.Info().Uint("certificationID", req.CertificationID).Int("version", exam.Version).Msg("Created exam version")
	return examResponse(exam), nil
}

func (s *examAdminService) ListByCertification(certificationID uint) ([]dto.ExamResponse, error) {
	exams, err := s.examRepo.FindAllByCertification(certificationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams for certification %d: %w", certificationID, err)
	}
	out := make([]dto.ExamResponse, len(exams))
	for i := range exams {
		copier.Copy(&out[i], &exams[i])
	}
	return out, nil
}

func (s *examAdminService) GetWithQuestions(examID uint) (*dto.ExamResponse, []dto.AdminQuestionResponse, error) {
	exam, err := s.examRepo.FindByIDWithQuestions(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("exam %d: %w", examID, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to load exam %d: %w", examID, err)
	}

	questions := make([]dto.AdminQuestionResponse, len(exam.Questions))
	for i := range exam.Questions {
		questions[i] = adminQuestionResponse(&exam.Questions[i])
	}
	resp := examResponse(exam)
	resp.Questions = nil
	return resp, questions, nil
}

func (s *examAdminService) AddQuestion(req *dto.QuestionCreateDTO) (*dto.AdminQuestionResponse, error) {
	if _, err := s.examRepo.FindByID(req.ExamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("exam %d: %w", req.ExamID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load exam %d: %w", req.ExamID, err)
	}
	if err := validateQuestion(req.Type, req.Options, req.CorrectAnswer); err != nil {
		return nil, err
	}

	difficulty := req.Difficulty
	if difficulty == 0 {
		difficulty = 1
	}
	question := &model.Question{
		ExamID:        req.ExamID,
		Body:          req.Body,
		Type:          req.Type,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Category:      req.Category,
		Difficulty:    difficulty,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	resp := adminQuestionResponse(question)
	return &resp, nil
}

func (s *examAdminService) UpdateQuestion(questionID uint, req *dto.QuestionUpdateDTO) (*dto.AdminQuestionResponse, error) {
	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %d: %w", questionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load question %d: %w", questionID, err)
	}

	if req.Body != nil {
		question.Body = *req.Body
	}
	if req.Options != nil {
		question.Options = *req.Options
	}
	if req.CorrectAnswer != nil {
		question.CorrectAnswer = *req.CorrectAnswer
	}
	if req.Category != nil {
		question.Category = *req.Category
	}
	if req.Difficulty != nil {
		if *req.Difficulty < 1 || *req.Difficulty > 3 {
			return nil, fmt.Errorf("difficulty must be 1..3: %w", ErrValidation)
		}
		question.Difficulty = *req.Difficulty
	}
	if err := validateQuestion(question.Type, question.Options, question.CorrectAnswer); err != nil {
		return nil, err
	}
	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("failed to update question %d: %w", questionID, err)
	}
	resp := adminQuestionResponse(question)
	return &resp, nil
}

func (s *examAdminService) DeleteQuestion(questionID uint) error {
	if _, err := s.questionRepo.FindByID(questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("question %d: %w", questionID, ErrNotFound)
		}
		return fmt.Errorf("failed to load question %d: %w", questionID, err)
	}
	if err := s.questionRepo.Delete(questionID); err != nil {
		return fmt.Errorf("failed to delete question %d: %w", questionID, err)
	}
	return nil
}

// validateQuestion enforces the per-type shape: mcq needs options containing
// the correct answer, free and coding need a non-empty reference answer.
func validateQuestion(qType string, options []string, correctAnswer string) error {
	switch qType {
	case model.QuestionTypeMCQ:
		if len(options) < 2 {
			return fmt.Errorf("mcq questions need at least two options: %w", ErrValidation)
		}
		found := false
		for _, opt := range options {
			if opt == correctAnswer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("mcq correct answer must be one of the options: %w", ErrValidation)
		}
	case model.QuestionTypeFree, model.QuestionTypeCoding:
		if correctAnswer == "" {
			return fmt.Errorf("%s questions need a reference answer: %w", qType, ErrValidation)
		}
	default:
		return fmt.Errorf("unknown question type %q: %w", qType, ErrValidation)
	}
	return nil
}

func examResponse(exam *model.Exam) *dto.ExamResponse {
	var resp dto.ExamResponse
	copier.Copy(&resp, exam)
	return &resp
}

func adminQuestionResponse(q *model.Question) dto.AdminQuestionResponse {
	var resp dto.AdminQuestionResponse
	copier.Copy(&resp.QuestionResponse, q)
	resp.Options = q.Options
	resp.CorrectAnswer = q.CorrectAnswer
	return resp
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/skillcert/skillcert/internal/model"
)

func TestGetOrCreateCurrentCreatesVersionOne(t *testing.T) {
	certRepo := newFakeCertificationRepo()
	questionRepo := newFakeQuestionRepo()
	examRepo := newFakeExamRepo(questionRepo)
	certRepo.Create(&model.Certification{Title: "Go Basics", Slug: "go-basics"})

	svc := NewExamService(certRepo, examRepo, questionRepo, &fakeLLM{})

	exam, err := svc.GetOrCreateCurrent(1)
	if err != nil {
		t.Fatalf("GetOrCreateCurrent: %v", err)
	}
	if exam.Version != 1 {
		t.Errorf("Version = %d, want 1", exam.Version)
	}
	if exam.TimeLimitMinutes != DefaultTimeLimitMinutes || exam.PassingScore != DefaultPassingScore {
		t.Errorf("defaults = %dmin %.0f%%, want %dmin %.0f%%",
			exam.TimeLimitMinutes, exam.PassingScore, DefaultTimeLimitMinutes, float64(DefaultPassingScore))
	}

	// a second call returns the same exam, not a new version
	again, err := svc.GetOrCreateCurrent(1)
	if err != nil {
		t.Fatalf("second GetOrCreateCurrent: %v", err)
	}
	if again.ID != exam.ID {
		t.Errorf("second call created exam %d, want existing %d", again.ID, exam.ID)
	}
}

func TestGetOrCreateCurrentPicksHighestVersion(t *testing.T) {
	certRepo := newFakeCertificationRepo()
	questionRepo := newFakeQuestionRepo()
	examRepo := newFakeExamRepo(questionRepo)
	certRepo.Create(&model.Certification{Title: "Go Basics", Slug: "go-basics"})
	examRepo.CreateVersion(&model.Exam{CertificationID: 1, TimeLimitMinutes: 60, PassingScore: 70})
	examRepo.CreateVersion(&model.Exam{CertificationID: 1, TimeLimitMinutes: 45, PassingScore: 75})

	svc := NewExamService(certRepo, examRepo, questionRepo, &fakeLLM{})

	exam, err := svc.GetOrCreateCurrent(1)
	if err != nil {
		t.Fatalf("GetOrCreateCurrent: %v", err)
	}
	if exam.Version != 2 {
		t.Errorf("Version = %d, want 2 (the newest)", exam.Version)
	}
}

func TestGenerateExamIdempotent(t *testing.T) {
	certRepo := newFakeCertificationRepo()
	questionRepo := newFakeQuestionRepo()
	examRepo := newFakeExamRepo(questionRepo)
	certRepo.Create(&model.Certification{Title: "Go Basics", Slug: "go-basics", Description: "desc"})

	llm := &fakeLLM{
		generateFn: func(ctx context.Context, cert *model.Certification, examID uint) ([]model.Question, error) {
			return []model.Question{
				{ExamID: examID, Type: model.QuestionTypeMCQ, Body: "Q1", Options: []string{"A", "B"}, CorrectAnswer: "A", Difficulty: 1},
				{ExamID: examID, Type: model.QuestionTypeCoding, Body: "Q2", CorrectAnswer: "ref", Difficulty: 3},
			}, nil
		},
	}
	svc := NewExamService(certRepo, examRepo, questionRepo, llm)

	first, err := svc.GenerateExam(context.Background(), 1)
	if err != nil {
		t.Fatalf("GenerateExam: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("got %d questions, want 2", len(first))
	}

	second, err := svc.GenerateExam(context.Background(), 1)
	if err != nil {
		t.Fatalf("second GenerateExam: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("second call got %d questions, want 2", len(second))
	}
	if llm.generateCalls != 1 {
		t.Errorf("generateCalls = %d, want 1 (existing questions are reused)", llm.generateCalls)
	}
}

func TestGenerateExamStripsCorrectAnswers(t *testing.T) {
	certRepo := newFakeCertificationRepo()
	questionRepo := newFakeQuestionRepo()
	examRepo := newFakeExamRepo(questionRepo)
	certRepo.Create(&model.Certification{Title: "Go Basics", Slug: "go-basics"})

	llm := &fakeLLM{
		generateFn: func(ctx context.Context, cert *model.Certification, examID uint) ([]model.Question, error) {
			return []model.Question{
				{ExamID: examID, Type: model.QuestionTypeMCQ, Body: "Q1", Options: []string{"A", "B"}, CorrectAnswer: "A", Difficulty: 1},
			}, nil
		},
	}
	svc := NewExamService(certRepo, examRepo, questionRepo, llm)

	questions, err := svc.GenerateExam(context.Background(), 1)
	if err != nil {
		t.Fatalf("GenerateExam: %v", err)
	}
	// the response type carries no correct answer field; the stored model does
	stored, _ := questionRepo.FindByExamID(questions[0].ExamID)
	if stored[0].CorrectAnswer != "A" {
		t.Errorf("stored CorrectAnswer = %q, want %q", stored[0].CorrectAnswer, "A")
	}
	if len(questions[0].Options) != 2 {
		t.Errorf("Options = %v, want both options", questions[0].Options)
	}
}

func TestGenerateExamUnknownCertification(t *testing.T) {
	questionRepo := newFakeQuestionRepo()
	svc := NewExamService(newFakeCertificationRepo(), newFakeExamRepo(questionRepo), questionRepo, &fakeLLM{})

	_, err := svc.GenerateExam(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

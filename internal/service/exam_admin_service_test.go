package service

import (
	"errors"
	"testing"

	"github.com/skillcert/skillcert/internal/dto"
	"github.com/skillcert/skillcert/internal/model"
)

func newExamAdminFixture(t *testing.T) (ExamAdminService, *fakeExamRepo) {
	t.Helper()
	certRepo := newFakeCertificationRepo()
	questionRepo := newFakeQuestionRepo()
	examRepo := newFakeExamRepo(questionRepo)
	certRepo.Create(&model.Certification{Title: "Go Basics", Slug: "go-basics"})
	return NewExamAdminService(certRepo, examRepo, questionRepo), examRepo
}

func TestCreateVersionIncrements(t *testing.T) {
	svc, _ := newExamAdminFixture(t)

	first, err := svc.CreateVersion(&dto.ExamCreateDTO{CertificationID: 1, TimeLimitMinutes: 45, PassingScore: 75})
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}
	second, err := svc.CreateVersion(&dto.ExamCreateDTO{CertificationID: 1, TimeLimitMinutes: 60, PassingScore: 80})
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}
	if first.Version != 1 || second.Version != 2 {
		t.Errorf("versions = %d, %d; want 1, 2", first.Version, second.Version)
	}
	if second.TimeLimitMinutes != 60 || second.PassingScore != 80 {
		t.Errorf("second version = %+v", second)
	}
}

func TestCreateVersionUnknownCertification(t *testing.T) {
	svc, _ := newExamAdminFixture(t)
	if _, err := svc.CreateVersion(&dto.ExamCreateDTO{CertificationID: 99, TimeLimitMinutes: 60, PassingScore: 70}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestValidateQuestion(t *testing.T) {
	tests := []struct {
		name    string
		qType   string
		options []string
		answer  string
		ok      bool
	}{
		{"mcq valid", model.QuestionTypeMCQ, []string{"A", "B", "C"}, "B", true},
		{"mcq answer not an option", model.QuestionTypeMCQ, []string{"A", "B"}, "C", false},
		{"mcq one option", model.QuestionTypeMCQ, []string{"A"}, "A", false},
		{"mcq no options", model.QuestionTypeMCQ, nil, "A", false},
		{"free valid", model.QuestionTypeFree, nil, "reference answer", true},
		{"free empty answer", model.QuestionTypeFree, nil, "", false},
		{"coding valid", model.QuestionTypeCoding, nil, "func main() {}", true},
		{"coding empty answer", model.QuestionTypeCoding, nil, "", false},
		{"unknown type", "essay", nil, "x", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateQuestion(tc.qType, tc.options, tc.answer)
			if tc.ok && err != nil {
				t.Fatalf("validateQuestion: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestAddQuestionDefaultsDifficulty(t *testing.T) {
	svc, _ := newExamAdminFixture(t)
	exam, err := svc.CreateVersion(&dto.ExamCreateDTO{CertificationID: 1, TimeLimitMinutes: 60, PassingScore: 70})
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}

	q, err := svc.AddQuestion(&dto.QuestionCreateDTO{
		ExamID: exam.ID, Body: "What is a goroutine?", Type: model.QuestionTypeFree, CorrectAnswer: "a lightweight thread",
	})
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	if q.Difficulty != 1 {
		t.Errorf("Difficulty = %d, want default 1", q.Difficulty)
	}
	if q.CorrectAnswer != "a lightweight thread" {
		t.Errorf("admin response must carry the correct answer, got %q", q.CorrectAnswer)
	}
}

func TestUpdateQuestionRevalidates(t *testing.T) {
	svc, _ := newExamAdminFixture(t)
	exam, _ := svc.CreateVersion(&dto.ExamCreateDTO{CertificationID: 1, TimeLimitMinutes: 60, PassingScore: 70})
	q, err := svc.AddQuestion(&dto.QuestionCreateDTO{
		ExamID: exam.ID, Body: "Pick one", Type: model.QuestionTypeMCQ,
		Options: []string{"A", "B"}, CorrectAnswer: "A", Difficulty: 2,
	})
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}

	// swapping the answer to something outside the options must fail
	bad := "Z"
	if _, err := svc.UpdateQuestion(q.ID, &dto.QuestionUpdateDTO{CorrectAnswer: &bad}); !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}

	good := "B"
	updated, err := svc.UpdateQuestion(q.ID, &dto.QuestionUpdateDTO{CorrectAnswer: &good})
	if err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	if updated.CorrectAnswer != "B" || updated.Difficulty != 2 {
		t.Errorf("updated = %+v", updated)
	}

	outOfRange := 5
	if _, err := svc.UpdateQuestion(q.ID, &dto.QuestionUpdateDTO{Difficulty: &outOfRange}); !errors.Is(err, ErrValidation) {
		t.Errorf("difficulty 5: err = %v, want ErrValidation", err)
	}
}

func TestGetWithQuestionsIncludesAnswers(t *testing.T) {
	svc, _ := newExamAdminFixture(t)
	exam, _ := svc.CreateVersion(&dto.ExamCreateDTO{CertificationID: 1, TimeLimitMinutes: 60, PassingScore: 70})
	svc.AddQuestion(&dto.QuestionCreateDTO{
		ExamID: exam.ID, Body: "Pick one", Type: model.QuestionTypeMCQ,
		Options: []string{"A", "B"}, CorrectAnswer: "A",
	})

	got, questions, err := svc.GetWithQuestions(exam.ID)
	if err != nil {
		t.Fatalf("GetWithQuestions: %v", err)
	}
	if got.ID != exam.ID {
		t.Errorf("exam ID = %d", got.ID)
	}
	if len(questions) != 1 || questions[0].CorrectAnswer != "A" {
		t.Errorf("questions = %+v", questions)
	}
}

func TestDeleteQuestion(t *testing.T) {
	svc, _ := newExamAdminFixture(t)
	exam, _ := svc.CreateVersion(&dto.ExamCreateDTO{CertificationID: 1, TimeLimitMinutes: 60, PassingScore: 70})
	q, _ := svc.AddQuestion(&dto.QuestionCreateDTO{
		ExamID: exam.ID, Body: "Explain defer", Type: model.QuestionTypeFree, CorrectAnswer: "runs at return",
	})

	if err := svc.DeleteQuestion(q.ID); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}
	if err := svc.DeleteQuestion(q.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}
}

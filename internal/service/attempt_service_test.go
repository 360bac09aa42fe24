package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skillcert/skillcert/internal/model"
)

type attemptFixture struct {
	certRepo    *fakeCertificationRepo
	examRepo    *fakeExamRepo
	attemptRepo *fakeAttemptRepo
	llm         *fakeLLM
	svc         AttemptService
}

func newAttemptFixture(t *testing.T) *attemptFixture {
	t.Helper()
	certRepo := newFakeCertificationRepo()
	questionRepo := newFakeQuestionRepo()
	examRepo := newFakeExamRepo(questionRepo)
	attemptRepo := newFakeAttemptRepo()

	llm := &fakeLLM{
		generateFn: func(ctx context.Context, cert *model.Certification, examID uint) ([]model.Question, error) {
			return []model.Question{
				{ExamID: examID, Type: model.QuestionTypeMCQ, Body: "Pick", Options: []string{"A", "B"}, CorrectAnswer: "A", Difficulty: 1},
				{ExamID: examID, Type: model.QuestionTypeFree, Body: "Explain", CorrectAnswer: "ref", Difficulty: 2},
			}, nil
		},
		summarizeFn: func(ctx context.Context, attemptID uint, pct, passing float64, passed bool, details string) (string, error) {
			return "summary", nil
		},
	}

	examSvc := NewExamService(certRepo, examRepo, questionRepo, llm)
	grading := NewGradingService(llm)
	svc := NewAttemptService(certRepo, examRepo, attemptRepo, examSvc, grading)

	certRepo.Create(&model.Certification{Title: "Go Basics", Slug: "go-basics", PriceCents: 0})
	certRepo.Create(&model.Certification{Title: "Go Pro", Slug: "go-pro", PriceCents: 4900})

	return &attemptFixture{
		certRepo:    certRepo,
		examRepo:    examRepo,
		attemptRepo: attemptRepo,
		llm:         llm,
		svc:         svc,
	}
}

func TestCreateAttemptFreeCertification(t *testing.T) {
	f := newAttemptFixture(t)

	attempt, err := f.svc.CreateAttempt(1, "user-1", true)
	if err != nil {
		t.Fatalf("CreateAttempt: %v", err)
	}
	if attempt.Status != model.AttemptStatusPending {
		t.Errorf("Status = %q, want pending", attempt.Status)
	}
	if !attempt.PaymentBypass {
		t.Error("expected payment bypass on free certification")
	}

	// version 1 with defaults was created implicitly
	exam, err := f.examRepo.FindCurrentByCertification(1)
	if err != nil {
		t.Fatalf("no exam created: %v", err)
	}
	if exam.Version != 1 || exam.TimeLimitMinutes != DefaultTimeLimitMinutes || exam.PassingScore != DefaultPassingScore {
		t.Errorf("exam = v%d %dmin %.0f%%, want v1 with defaults", exam.Version, exam.TimeLimitMinutes, exam.PassingScore)
	}
}

func TestCreateAttemptPaidCertification(t *testing.T) {
	f := newAttemptFixture(t)

	tests := []struct {
		name   string
		bypass bool
	}{
		{"bypass refused", true},
		{"no bypass requires checkout", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateAttempt(2, "user-1", tc.bypass)
			if !errors.Is(err, ErrPaymentRequired) {
				t.Errorf("err = %v, want ErrPaymentRequired", err)
			}
		})
	}
}

func TestCreateAttemptUnknownCertification(t *testing.T) {
	f := newAttemptFixture(t)
	_, err := f.svc.CreateAttempt(99, "user-1", true)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStartAttemptLifecycle(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateAttempt(1, "user-1", true)
	if err != nil {
		t.Fatalf("CreateAttempt: %v", err)
	}

	resp, err := f.svc.StartAttempt(ctx, created.ID, "user-1")
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if resp.Attempt.Status != model.AttemptStatusStarted {
		t.Errorf("Status = %q, want started", resp.Attempt.Status)
	}
	if resp.Attempt.StartedAt == nil || resp.Attempt.Deadline == nil {
		t.Fatal("StartedAt and Deadline must be set")
	}
	wantDeadline := resp.Attempt.StartedAt.Add(time.Duration(resp.Exam.TimeLimitMinutes) * time.Minute)
	if !resp.Attempt.Deadline.Equal(wantDeadline) {
		t.Errorf("Deadline = %v, want %v", resp.Attempt.Deadline, wantDeadline)
	}
	if len(resp.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(resp.Questions))
	}
	if f.llm.generateCalls != 1 {
		t.Errorf("generateCalls = %d, want 1", f.llm.generateCalls)
	}

	// a started attempt cannot be started again
	if _, err := f.svc.StartAttempt(ctx, created.ID, "user-1"); !errors.Is(err, ErrConflict) {
		t.Errorf("second start: err = %v, want ErrConflict", err)
	}
}

func TestStartAttemptPinnedToOwnExamVersion(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	// attempt on version 1, still empty
	created, err := f.svc.CreateAttempt(1, "user-1", true)
	if err != nil {
		t.Fatalf("CreateAttempt: %v", err)
	}

	// a newer version appears before the attempt starts
	v2 := &model.Exam{CertificationID: 1, TimeLimitMinutes: 45, PassingScore: 80}
	if err := f.examRepo.CreateVersion(v2); err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}

	resp, err := f.svc.StartAttempt(ctx, created.ID, "user-1")
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if resp.Exam.ID != created.ExamID {
		t.Fatalf("started exam %d, want the attempt's own exam %d", resp.Exam.ID, created.ExamID)
	}
	if len(resp.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(resp.Questions))
	}
	for _, q := range resp.Questions {
		if q.ExamID != created.ExamID {
			t.Errorf("question %d generated into exam %d, want %d", q.ID, q.ExamID, created.ExamID)
		}
	}

	// the newer version stays untouched
	current, err := f.examRepo.FindByIDWithQuestions(v2.ID)
	if err != nil {
		t.Fatalf("reload v2: %v", err)
	}
	if len(current.Questions) != 0 {
		t.Errorf("version 2 has %d questions, want 0", len(current.Questions))
	}
}

func TestStartAttemptOwnership(t *testing.T) {
	f := newAttemptFixture(t)
	created, _ := f.svc.CreateAttempt(1, "user-1", true)

	_, err := f.svc.StartAttempt(context.Background(), created.ID, "someone-else")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound (foreign attempts look missing)", err)
	}
}

func TestSubmitAnswersGradesAndFinishes(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	created, _ := f.svc.CreateAttempt(1, "user-1", true)
	if _, err := f.svc.StartAttempt(ctx, created.ID, "user-1"); err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	result, err := f.svc.SubmitAnswers(ctx, created.ID, "user-1", map[uint]string{1: "A", 2: "long answer"})
	if err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}
	if !result.Passed {
		t.Error("expected passed with full marks")
	}
	if result.Score != 100 {
		t.Errorf("Score = %v, want 100", result.Score)
	}
	if result.Rank != model.RankTop {
		t.Errorf("Rank = %q, want top", result.Rank)
	}
	if result.CompletedAt == nil {
		t.Error("CompletedAt must be set")
	}

	stored, _ := f.attemptRepo.FindByID(created.ID)
	if stored.Status != model.AttemptStatusPassed {
		t.Errorf("stored status = %q, want passed", stored.Status)
	}

	// a graded attempt rejects a second submission outright
	_, err = f.svc.SubmitAnswers(ctx, created.ID, "user-1", map[uint]string{1: "B"})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("second submit: err = %v, want ErrConflict", err)
	}
	if result.Score != 100 {
		t.Error("first result must be unchanged")
	}
}

func TestSubmitAnswersBeforeStart(t *testing.T) {
	f := newAttemptFixture(t)
	created, _ := f.svc.CreateAttempt(1, "user-1", true)

	_, err := f.svc.SubmitAnswers(context.Background(), created.ID, "user-1", map[uint]string{1: "A"})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestSubmitAnswersAfterDeadline(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	created, _ := f.svc.CreateAttempt(1, "user-1", true)
	if _, err := f.svc.StartAttempt(ctx, created.ID, "user-1"); err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	// push the deadline past the grace window
	stored, _ := f.attemptRepo.FindByID(created.ID)
	expired := time.Now().UTC().Add(-submitGrace - time.Minute)
	stored.Deadline = &expired

	_, err := f.svc.SubmitAnswers(ctx, created.ID, "user-1", map[uint]string{1: "A"})
	if !errors.Is(err, ErrDeadlineExceeded) {
		t.Fatalf("err = %v, want ErrDeadlineExceeded", err)
	}

	stored, _ = f.attemptRepo.FindByID(created.ID)
	if stored.Status != model.AttemptStatusFailed {
		t.Errorf("overdue attempt status = %q, want failed", stored.Status)
	}
}

func TestSubmitWithinGraceWindow(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	created, _ := f.svc.CreateAttempt(1, "user-1", true)
	if _, err := f.svc.StartAttempt(ctx, created.ID, "user-1"); err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	// deadline just passed but still inside the grace margin
	stored, _ := f.attemptRepo.FindByID(created.ID)
	justPassed := time.Now().UTC().Add(-submitGrace / 2)
	stored.Deadline = &justPassed

	if _, err := f.svc.SubmitAnswers(ctx, created.ID, "user-1", map[uint]string{1: "A", 2: "x"}); err != nil {
		t.Fatalf("submit within grace: %v", err)
	}
}

func TestListResults(t *testing.T) {
	f := newAttemptFixture(t)
	ctx := context.Background()

	created, _ := f.svc.CreateAttempt(1, "user-1", true)
	f.svc.StartAttempt(ctx, created.ID, "user-1")
	f.svc.SubmitAnswers(ctx, created.ID, "user-1", map[uint]string{1: "A", 2: "x"})

	pending, _ := f.svc.CreateAttempt(1, "user-1", true)
	_ = pending // never started; must not appear in results

	results, err := f.svc.ListResults("user-1", nil)
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].AttemptID != created.ID {
		t.Errorf("AttemptID = %d, want %d", results[0].AttemptID, created.ID)
	}

	other, err := f.svc.ListResults("user-2", nil)
	if err != nil {
		t.Fatalf("ListResults other user: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("foreign user sees %d results, want 0", len(other))
	}
}

func TestGetResultBeforeGrading(t *testing.T) {
	f := newAttemptFixture(t)
	created, _ := f.svc.CreateAttempt(1, "user-1", true)

	_, err := f.svc.GetResult(created.ID, "user-1")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

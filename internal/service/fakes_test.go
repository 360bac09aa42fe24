package service

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/skillcert/skillcert/internal/model"
	"gorm.io/gorm"
)

// In-memory fakes for the repository and provider interfaces. IDs are
// assigned sequentially the way the database would.

type fakeLLM struct {
	generateFn  func(ctx context.Context, cert *model.Certification, examID uint) ([]model.Question, error)
	gradeFn     func(ctx context.Context, q *model.Question, answer string, maxPoints float64, attemptID uint) (float64, string, error)
	summarizeFn func(ctx context.Context, attemptID uint, percentage, passingScore float64, passed bool, details string) (string, error)

	generateCalls int
	gradeCalls    int
}

func (f *fakeLLM) GenerateQuestions(ctx context.Context, cert *model.Certification, examID uint) ([]model.Question, error) {
	f.generateCalls++
	if f.generateFn == nil {
		return nil, errors.New("generate not configured")
	}
	return f.generateFn(ctx, cert, examID)
}

func (f *fakeLLM) GradeAnswer(ctx context.Context, q *model.Question, answer string, maxPoints float64, attemptID uint) (float64, string, error) {
	f.gradeCalls++
	if f.gradeFn == nil {
		return maxPoints, "Good answer", nil
	}
	return f.gradeFn(ctx, q, answer, maxPoints, attemptID)
}

func (f *fakeLLM) SummarizeResult(ctx context.Context, attemptID uint, percentage, passingScore float64, passed bool, details string) (string, error) {
	if f.summarizeFn == nil {
		return "", errors.New("summarize not configured")
	}
	return f.summarizeFn(ctx, attemptID, percentage, passingScore, passed, details)
}

type fakeCertificationRepo struct {
	nextID uint
	certs  map[uint]*model.Certification
}

func newFakeCertificationRepo() *fakeCertificationRepo {
	return &fakeCertificationRepo{certs: make(map[uint]*model.Certification)}
}

func (f *fakeCertificationRepo) Create(cert *model.Certification) error {
	for _, c := range f.certs {
		if c.Slug == cert.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	cert.ID = f.nextID
	f.certs[cert.ID] = cert
	return nil
}

func (f *fakeCertificationRepo) FindByID(id uint) (*model.Certification, error) {
	cert, ok := f.certs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cert, nil
}

func (f *fakeCertificationRepo) FindBySlug(slug string) (*model.Certification, error) {
	for _, cert := range f.certs {
		if cert.Slug == slug {
			return cert, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCertificationRepo) FindAll() ([]model.Certification, error) {
	out := make([]model.Certification, 0, len(f.certs))
	for _, cert := range f.certs {
		out = append(out, *cert)
	}
	return out, nil
}

func (f *fakeCertificationRepo) Update(cert *model.Certification) error {
	if _, ok := f.certs[cert.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.certs[cert.ID] = cert
	return nil
}

func (f *fakeCertificationRepo) Delete(id uint) error {
	delete(f.certs, id)
	return nil
}

type fakeExamRepo struct {
	nextID    uint
	exams     map[uint]*model.Exam
	questions *fakeQuestionRepo // nil-safe; used to emulate the Questions preload
}

func newFakeExamRepo(questions *fakeQuestionRepo) *fakeExamRepo {
	return &fakeExamRepo{exams: make(map[uint]*model.Exam), questions: questions}
}

func (f *fakeExamRepo) CreateVersion(exam *model.Exam) error {
	maxVersion := 0
	for _, e := range f.exams {
		if e.CertificationID == exam.CertificationID && e.Version > maxVersion {
			maxVersion = e.Version
		}
	}
	exam.Version = maxVersion + 1
	f.nextID++
	exam.ID = f.nextID
	f.exams[exam.ID] = exam
	return nil
}

func (f *fakeExamRepo) FindByID(id uint) (*model.Exam, error) {
	exam, ok := f.exams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return exam, nil
}

func (f *fakeExamRepo) FindByIDWithQuestions(id uint) (*model.Exam, error) {
	exam, err := f.FindByID(id)
	if err != nil {
		return nil, err
	}
	loaded := *exam
	if f.questions != nil {
		loaded.Questions, _ = f.questions.FindByExamID(id)
	}
	return &loaded, nil
}

func (f *fakeExamRepo) FindCurrentByCertification(certificationID uint) (*model.Exam, error) {
	var current *model.Exam
	for _, e := range f.exams {
		if e.CertificationID != certificationID {
			continue
		}
		if current == nil || e.Version > current.Version {
			current = e
		}
	}
	if current == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return current, nil
}

func (f *fakeExamRepo) FindAllByCertification(certificationID uint) ([]model.Exam, error) {
	var out []model.Exam
	for _, e := range f.exams {
		if e.CertificationID == certificationID {
			out = append(out, *e)
		}
	}
	return out, nil
}

type fakeQuestionRepo struct {
	nextID    uint
	questions []*model.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{}
}

func (f *fakeQuestionRepo) Create(q *model.Question) error {
	f.nextID++
	q.ID = f.nextID
	f.questions = append(f.questions, q)
	return nil
}

func (f *fakeQuestionRepo) CreateBatch(questions []model.Question) error {
	for i := range questions {
		f.nextID++
		questions[i].ID = f.nextID
		stored := questions[i]
		f.questions = append(f.questions, &stored)
	}
	return nil
}

func (f *fakeQuestionRepo) FindByID(id uint) (*model.Question, error) {
	for _, q := range f.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepo) FindByExamID(examID uint) ([]model.Question, error) {
	var out []model.Question
	for _, q := range f.questions {
		if q.ExamID == examID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) Update(q *model.Question) error {
	for i, existing := range f.questions {
		if existing.ID == q.ID {
			f.questions[i] = q
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepo) Delete(id uint) error {
	for i, q := range f.questions {
		if q.ID == id {
			f.questions = append(f.questions[:i], f.questions[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeAttemptRepo struct {
	nextID   uint
	attempts map[uint]*model.Attempt
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{attempts: make(map[uint]*model.Attempt)}
}

func (f *fakeAttemptRepo) Create(a *model.Attempt) error {
	f.nextID++
	a.ID = f.nextID
	f.attempts[a.ID] = a
	return nil
}

func (f *fakeAttemptRepo) Update(a *model.Attempt) error {
	if _, ok := f.attempts[a.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.attempts[a.ID] = a
	return nil
}

func (f *fakeAttemptRepo) FindByID(id uint) (*model.Attempt, error) {
	a, ok := f.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (f *fakeAttemptRepo) FindByIDAndUser(id uint, userID string) (*model.Attempt, error) {
	a, ok := f.attempts[id]
	if !ok || a.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (f *fakeAttemptRepo) FindCompletedByUser(userID string, examID *uint) ([]model.Attempt, error) {
	var out []model.Attempt
	for _, a := range f.attempts {
		if a.UserID != userID || !a.Terminal() {
			continue
		}
		if examID != nil && a.ExamID != *examID {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

type fakeCertificateRepo struct {
	nextID   uint
	certs    map[uint]*model.Certificate // keyed by attempt id
	attempts *fakeAttemptRepo            // nil-safe; emulates the Attempt preload
}

func newFakeCertificateRepo(attempts *fakeAttemptRepo) *fakeCertificateRepo {
	return &fakeCertificateRepo{certs: make(map[uint]*model.Certificate), attempts: attempts}
}

func (f *fakeCertificateRepo) Create(cert *model.Certificate) error {
	if _, ok := f.certs[cert.AttemptID]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.nextID++
	cert.ID = f.nextID
	f.certs[cert.AttemptID] = cert
	return nil
}

func (f *fakeCertificateRepo) FindByAttemptID(attemptID uint) (*model.Certificate, error) {
	cert, ok := f.certs[attemptID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cert, nil
}

func (f *fakeCertificateRepo) FindByHash(hash string) (*model.Certificate, error) {
	for _, cert := range f.certs {
		if cert.SHA256Hash == hash {
			loaded := *cert
			if f.attempts != nil {
				if attempt, err := f.attempts.FindByID(cert.AttemptID); err == nil {
					loaded.Attempt = *attempt
				}
			}
			return &loaded, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakePaymentRepo struct {
	nextID   uint
	payments map[string]*model.Payment // keyed by order id
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*model.Payment)}
}

func (f *fakePaymentRepo) Create(p *model.Payment) error {
	if _, ok := f.payments[p.OrderID]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.nextID++
	p.ID = f.nextID
	f.payments[p.OrderID] = p
	return nil
}

func (f *fakePaymentRepo) Update(p *model.Payment) error {
	if _, ok := f.payments[p.OrderID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.payments[p.OrderID] = p
	return nil
}

func (f *fakePaymentRepo) FindByOrderID(orderID string) (*model.Payment, error) {
	p, ok := f.payments[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakePaymentRepo) FindAllByUser(userID string) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range f.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) FindAll() ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range f.payments {
		out = append(out, *p)
	}
	return out, nil
}

type fakeGateway struct {
	createFn      func(orderID string, amountCents int64, itemName, customerName, finishURL string) (*CheckoutSession, error)
	statusFn      func(orderID string) (string, error)
	validSig      string
	lastFinishURL string
}

func (f *fakeGateway) CreateSession(orderID string, amountCents int64, itemName, customerName, finishURL string) (*CheckoutSession, error) {
	f.lastFinishURL = finishURL
	if f.createFn == nil {
		return &CheckoutSession{SessionID: "tok-" + orderID, RedirectURL: "https://pay.example/" + orderID}, nil
	}
	return f.createFn(orderID, amountCents, itemName, customerName, finishURL)
}

func (f *fakeGateway) Status(orderID string) (string, error) {
	if f.statusFn == nil {
		return model.PaymentStatusPending, nil
	}
	return f.statusFn(orderID)
}

func (f *fakeGateway) VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool {
	return signatureKey == f.validSig
}

type fakeStorage struct {
	uploads map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", err
	}
	f.uploads[filename] = buf.Bytes()
	return f.URL(filename), nil
}

func (f *fakeStorage) URL(filename string) string {
	return "mem://" + filename
}

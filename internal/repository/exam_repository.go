package repository

import (
	"github.com/skillcert/skillcert/internal/model"
	"gorm.io/gorm"
)

type ExamRepository interface {
	// CreateVersion inserts the exam with version = max(existing)+1 for its
	// certification. The unique index on (certification_id, version) rejects
	// concurrent creations that raced to the same number.
	CreateVersion(exam *model.Exam) error
	FindByID(id uint) (*model.Exam, error)
	FindByIDWithQuestions(id uint) (*model.Exam, error)
	// FindCurrentByCertification returns the highest version for the
	// certification, or gorm.ErrRecordNotFound if none exists.
	FindCurrentByCertification(certificationID uint) (*model.Exam, error)
	FindAllByCertification(certificationID uint) ([]model.Exam, error)
}

type examRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) CreateVersion(exam *model.Exam) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var maxVersion int
		err := tx.Model(&model.Exam{}).
			Where("certification_id = ?", exam.CertificationID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error
		if err != nil {
			return err
		}
		exam.Version = maxVersion + 1
		return tx.Create(exam).Error
	})
}

func (r *examRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	if err := r.db.First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindByIDWithQuestions(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.id ASC")
	}).First(&exam, id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindCurrentByCertification(certificationID uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.Where("certification_id = ?", certificationID).
		Order("version desc").
		First(&exam).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindAllByCertification(certificationID uint) ([]model.Exam, error) {
	var exams []model.Exam
	err := r.db.Where("certification_id = ?", certificationID).
		Order("version desc").
		Find(&exams).Error
	if err != nil {
		return nil, err
	}
	return exams, nil
}

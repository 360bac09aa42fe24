package repository

import (
	"github.com/skillcert/skillcert/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(attempt *model.Attempt) error
	Update(attempt *model.Attempt) error
	FindByID(id uint) (*model.Attempt, error)
	// FindByIDAndUser scopes the lookup to the owner; a foreign attempt id
	// yields gorm.ErrRecordNotFound, which doubles as the authorization check.
	FindByIDAndUser(id uint, userID string) (*model.Attempt, error)
	FindCompletedByUser(userID string, examID *uint) ([]model.Attempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.Attempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) Update(attempt *model.Attempt) error {
	return r.db.Save(attempt).Error
}

func (r *attemptRepository) FindByID(id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	if err := r.db.Preload("Exam").First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDAndUser(id uint, userID string) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.db.Preload("Exam").
		Where("id = ? AND user_id = ?", id, userID).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindCompletedByUser(userID string, examID *uint) ([]model.Attempt, error) {
	query := r.db.Where("user_id = ? AND status IN ?", userID,
		[]string{model.AttemptStatusPassed, model.AttemptStatusFailed})
	if examID != nil {
		query = query.Where("exam_id = ?", *examID)
	}
	var attempts []model.Attempt
	if err := query.Order("completed_at desc").Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

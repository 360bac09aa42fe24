package repository

import (
	"github.com/skillcert/skillcert/internal/model"
	"gorm.io/gorm"
)

type CertificateRepository interface {
	// Create relies on the unique index on attempt_id; a concurrent duplicate
	// surfaces as gorm.ErrDuplicatedKey for the caller to resolve by re-read.
	Create(cert *model.Certificate) error
	FindByAttemptID(attemptID uint) (*model.Certificate, error)
	FindByHash(hash string) (*model.Certificate, error)
}

type certificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) Create(cert *model.Certificate) error {
	return r.db.Create(cert).Error
}

func (r *certificateRepository) FindByAttemptID(attemptID uint) (*model.Certificate, error) {
	var cert model.Certificate
	if err := r.db.Where("attempt_id = ?", attemptID).First(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *certificateRepository) FindByHash(hash string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.db.Preload("Attempt").Preload("Attempt.Exam").
		Where("sha256_hash = ?", hash).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

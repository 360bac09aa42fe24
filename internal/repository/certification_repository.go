package repository

import (
	"github.com/skillcert/skillcert/internal/model"
	"gorm.io/gorm"
)

type CertificationRepository interface {
	Create(cert *model.Certification) error
	FindByID(id uint) (*model.Certification, error)
	FindBySlug(slug string) (*model.Certification, error)
	FindAll() ([]model.Certification, error)
	Update(cert *model.Certification) error
	Delete(id uint) error
}

type certificationRepository struct {
	db *gorm.DB
}

func NewCertificationRepository(db *gorm.DB) CertificationRepository {
	return &certificationRepository{db: db}
}

func (r *certificationRepository) Create(cert *model.Certification) error {
	return r.db.Create(cert).Error
}

func (r *certificationRepository) FindByID(id uint) (*model.Certification, error) {
	var cert model.Certification
	if err := r.db.First(&cert, id).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *certificationRepository) FindBySlug(slug string) (*model.Certification, error) {
	var cert model.Certification
	if err := r.db.Where("slug = ?", slug).First(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *certificationRepository) FindAll() ([]model.Certification, error) {
	var certs []model.Certification
	if err := r.db.Order("created_at desc").Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}

func (r *certificationRepository) Update(cert *model.Certification) error {
	return r.db.Save(cert).Error
}

func (r *certificationRepository) Delete(id uint) error {
	// Historical attempts keep their exam references; deletion is not cascaded.
	return r.db.Delete(&model.Certification{}, id).Error
}

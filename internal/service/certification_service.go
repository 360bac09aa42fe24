package service

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/skillcert/skillcert/internal/dto"
	"github.com/skillcert/skillcert/internal/model"
	"github.com/skillcert/skillcert/internal/repository"
	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// CertificationService serves the public catalog and the admin CRUD surface.
type CertificationService interface {
	List() ([]dto.CertificationResponse, error)
	GetBySlug(slug string) (*dto.CertificationResponse, error)
	GetByID(id uint) (*dto.CertificationResponse, error)
	Create(req *dto.CertificationCreateDTO) (*dto.CertificationResponse, error)
	Update(id uint, req *dto.CertificationUpdateDTO) (*dto.CertificationResponse, error)
	Delete(id uint) error
}

type certificationService struct {
	certRepo repository.CertificationRepository
}

func NewCertificationService(certRepo repository.CertificationRepository) CertificationService {
	return &certificationService{certRepo: certRepo}
}

func (s *certificationService) List() ([]dto.CertificationResponse, error) {
	certs, err := s.certRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list certifications: %w", err)
	}
	out := make([]dto.CertificationResponse, len(certs))
	for i := range certs {
		copier.Copy(&out[i], &certs[i])
	}
	return out, nil
}

func (s *certificationService) GetBySlug(slug string) (*dto.CertificationResponse, error) {
	cert, err := s.certRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("certification %q: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load certification %q: %w", slug, err)
	}
	return certificationResponse(cert), nil
}

func (s *certificationService) GetByID(id uint) (*dto.CertificationResponse, error) {
	cert, err := s.certRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("certification %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load certification %d: %w", id, err)
	}
	return certificationResponse(cert), nil
}

func (s *certificationService) Create(req *dto.CertificationCreateDTO) (*dto.CertificationResponse, error) {
	if !slugPattern.MatchString(req.Slug) {
		return nil, fmt.Errorf("slug %q must be lowercase kebab-case: %w", req.Slug, ErrValidation)
	}

	cert := &model.Certification{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Level:       req.Level,
		ImageURL:    req.ImageURL,
	}
	if err := s.certRepo.Create(cert); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("slug %q already exists: %w", req.Slug, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create certification: %w", err)
	}
	log.Info().Uint("certificationID", cert.ID).Str("slug", cert.Slug).Msg("Created certification")
	return certificationResponse(cert), nil
}

func (s *certificationService) Update(id uint, req *dto.CertificationUpdateDTO) (*dto.CertificationResponse, error) {
	cert, err := s.certRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("certification %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load certification %d: %w", id, err)
	}

	if req.Title != nil {
		cert.Title = *req.Title
	}
	if req.Description != nil {
		cert.Description = *req.Description
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return nil, fmt.Errorf("price must not be negative: %w", ErrValidation)
		}
		cert.PriceCents = *req.PriceCents
	}
	if req.Level != nil {
		cert.Level = *req.Level
	}
	if req.ImageURL != nil {
		cert.ImageURL = *req.ImageURL
	}
	if err := s.certRepo.Update(cert); err != nil {
		return nil, fmt.Errorf("failed to update certification %d: %w", id, err)
	}
	return certificationResponse(cert), nil
}

func (s *certificationService) Delete(id uint) error {
	if _, err := s.certRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("certification %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to load certification %d: %w", id, err)
	}
	if err := s.certRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete certification %d: %w", id, err)
	}
	log.Info().Uint("certificationID", id).Msg("Deleted certification")
	return nil
}

func certificationResponse(cert *model.Certification) *dto.CertificationResponse {
	var resp dto.CertificationResponse
	copier.Copy(&resp, cert)
	return &resp
}

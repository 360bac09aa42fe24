package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/skillcert/skillcert/internal/dto"
	"github.com/skillcert/skillcert/internal/model"
	"github.com/skillcert/skillcert/internal/repository"
	"gorm.io/gorm"
)

var certificateTemplate = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Certificate of Achievement</title>
<style>
body { font-family: Georgia, serif; text-align: center; margin: 0; padding: 60px; background: #fdfbf7; }
.frame { border: 6px double #1f3c58; padding: 60px; max-width: 720px; margin: 0 auto; }
h1 { color: #1f3c58; letter-spacing: 2px; }
.name { font-size: 2em; margin: 24px 0; }
.meta { color: #555; margin-top: 40px; }
.hash { font-family: monospace; font-size: 0.75em; color: #999; margin-top: 24px; word-break: break-all; }
</style>
</head>
<body>
<div class="frame">
<h1>Certificate of Achievement</h1>
<p>This certifies that</p>
<div class="name">{{.RecipientName}}</div>
<p>has successfully passed the examination for</p>
<h2>{{.CertificationTitle}}</h2>
<p>with a score of <strong>{{printf "%.1f" .Score}}%</strong>{{if .Rank}} ({{.Rank}} tier){{end}}</p>
<div class="meta">Completed on {{.CompletedAt.Format "January 2, 2006"}}</div>
<div class="hash">Verification code: {{.Hash}}</div>
</div>
</body>
</html>
`))

type certificateData struct {
	RecipientName      string
	CertificationTitle string
	Score              float64
	Rank               string
	CompletedAt        time.Time
	Hash               string
}

// CertificateService issues and verifies certificates for passed attempts.
// Issuance is idempotent: repeat requests return the first document.
type CertificateService interface {
	EnsureCertificate(ctx context.Context, attemptID uint, userID, userName string) (*dto.CertificateResponse, error)
	Verify(hash string) (*dto.CertificateVerifyResponse, error)
}

type certificateService struct {
	certificateRepo repository.CertificateRepository
	attemptRepo     repository.AttemptRepository
	certRepo        repository.CertificationRepository
	storage         StorageProvider
}

func NewCertificateService(
	certificateRepo repository.CertificateRepository,
	attemptRepo repository.AttemptRepository,
	certRepo repository.CertificationRepository,
	storage StorageProvider,
) CertificateService {
	return &certificateService{
		certificateRepo: certificateRepo,
		attemptRepo:     attemptRepo,
		certRepo:        certRepo,
		storage:         storage,
	}
}

func (s *certificateService) EnsureCertificate(ctx context.Context, attemptID uint, userID, userName string) (*dto.CertificateResponse, error) {
	attempt, err := s.attemptRepo.FindByIDAndUser(attemptID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("attempt %d: %w", attemptID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load attempt %d: %w", attemptID, err)
	}
	if attempt.Status != model.AttemptStatusPassed {
		return nil, fmt.Errorf("attempt %d was not passed: %w", attemptID, ErrConflict)
	}

	if existing, err := s.certificateRepo.FindByAttemptID(attemptID); err == nil {
		return &dto.CertificateResponse{DocumentURL: existing.DocumentURL}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up certificate for attempt %d: %w", attemptID, err)
	}

	certification, err := s.certRepo.FindByID(attempt.Exam.CertificationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load certification %d: %w", attempt.Exam.CertificationID, err)
	}

	hash := certificateHash(attempt.ID, *attempt.CompletedAt)
	var score float64
	if attempt.Score != nil {
		score = attempt.Score.Data().Percentage
	}

	var buf bytes.Buffer
	err = certificateTemplate.Execute(&buf, certificateData{
		RecipientName:      userName,
		CertificationTitle: certification.Title,
		Score:              score,
		Rank:               attempt.Rank,
		CompletedAt:        *attempt.CompletedAt,
		Hash:               hash,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render certificate for attempt %d: %w", attemptID, err)
	}

	filename := fmt.Sprintf("certificate-%s.html", hash)
	url, err := s.storage.Upload(ctx, filename, &buf, int64(buf.Len()), "text/html")
	if err != nil {
		return nil, fmt.Errorf("failed to store certificate for attempt %d: %w", attemptID, err)
	}

	cert := &model.Certificate{
		AttemptID:     attempt.ID,
		RecipientName: userName,
		DocumentURL:   url,
		SHA256Hash:    hash,
	}
	if err := s.certificateRepo.Create(cert); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent issuance; serve the winner's.
			existing, ferr := s.certificateRepo.FindByAttemptID(attemptID)
			if ferr != nil {
				return nil, fmt.Errorf("failed to re-read certificate for attempt %d: %w", attemptID, ferr)
			}
			return &dto.CertificateResponse{DocumentURL: existing.DocumentURL}, nil
		}
		return nil, fmt.Errorf("failed to save certificate for attempt %d: %w", attemptID, err)
	}
	log.Info().Uint("attemptID", attemptID).Str("hash", hash).Msg("Issued certificate")
	return &dto.CertificateResponse{DocumentURL: cert.DocumentURL}, nil
}

func (s *certificateService) Verify(hash string) (*dto.CertificateVerifyResponse, error) {
	cert, err := s.certificateRepo.FindByHash(hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.CertificateVerifyResponse{Verified: false}, nil
		}
		return nil, fmt.Errorf("failed to look up certificate: %w", err)
	}

	resp := &dto.CertificateVerifyResponse{
		Verified:      true,
		RecipientName: cert.RecipientName,
		IssuedAt:      cert.IssuedAt,
	}
	if cert.Attempt.Score != nil {
		resp.Score = cert.Attempt.Score.Data().Percentage
	}
	if certification, err := s.certRepo.FindByID(cert.Attempt.Exam.CertificationID); err == nil {
		resp.Certification = certification.Title
		resp.Level = certification.Level
	}
	return resp, nil
}

// certificateHash derives a stable verification code from the attempt and
// its completion instant.
func certificateHash(attemptID uint, completedAt time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%s", attemptID, completedAt.UTC().Format(time.RFC3339))))
	return hex.EncodeToString(sum[:])
}

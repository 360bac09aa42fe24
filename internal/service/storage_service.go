package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
	"github.com/skillcert/skillcert/config"
)

// StorageProvider abstracts where certificate documents live. Returned URLs
// are what gets handed to clients.
type StorageProvider interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	URL(filename string) string
}

// NewStorageProvider picks the backend from config, falling back to local
// disk when the object store is unreachable or unconfigured.
func NewStorageProvider(cfg *config.Config) StorageProvider {
	if cfg.Storage.Provider == "minio" {
		p, err := NewMinioStorageProvider(cfg)
		if err == nil {
			return p
		}
		log.Warn().Err(err).Msg("MinIO unavailable, falling back to local storage")
	}
	return &LocalStorageProvider{basePath: cfg.Storage.LocalPath, baseURL: cfg.PublicBaseURL}
}

type LocalStorageProvider struct {
	basePath string
	baseURL  string
}

func (p *LocalStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.basePath, filename)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}
	return p.URL(filename), nil
}

func (p *LocalStorageProvider) URL(filename string) string {
	return strings.TrimRight(p.baseURL, "/") + "/certificates/files/" + filename
}

type MinioStorageProvider struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

func NewMinioStorageProvider(cfg *config.Config) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.Storage.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.MinioAccessID, cfg.Storage.MinioSecret, ""),
		Secure: cfg.Storage.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{
		client:   client,
		bucket:   cfg.Storage.MinioBucket,
		endpoint: cfg.Storage.MinioEndpoint,
		useSSL:   cfg.Storage.MinioUseSSL,
	}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.client.PutObject(ctx, p.bucket, filename, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.URL(filename), nil
}

func (p *MinioStorageProvider) URL(filename string) string {
	scheme := "http"
	if p.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, p.endpoint, p.bucket, filename)
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	// PresignedURLTTL is how long archived report links stay valid.
	PresignedURLTTL = 24 * time.Hour

	pdfContentType = "application/pdf"
)

// MinIOArchive implements ReportArchive using MinIO.
type MinIOArchive struct {
	client *minio.Client
	bucket string
}

// NewMinIOArchive creates the archive client. Call EnsureBucketExists
// before the first upload.
func NewMinIOArchive(cfg Config) (*MinIOArchive, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOArchive{client: client, bucket: cfg.GetMinioBucketReports()}, nil
}

// EnsureBucketExists creates the report bucket if it doesn't exist.
func (s *MinIOArchive) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}

	return nil
}

// PutReport uploads the document and returns its key.
func (s *MinIOArchive) PutReport(ctx context.Context, leadID uuid.UUID, pdf []byte) (string, error) {
	key := ReportKey(leadID)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(pdf), int64(len(pdf)), minio.PutObjectOptions{
		ContentType:        pdfContentType,
		ContentDisposition: `attachment; filename="diagnostico-maturidade-vendas.pdf"`,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", key, err)
	}
	return key, nil
}

// ReportURL presigns a download link for an archived document.
func (s *MinIOArchive) ReportURL(ctx context.Context, leadID uuid.UUID) (*PresignedURL, error) {
	key := ReportKey(leadID)
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotArchived
		}
		return nil, fmt.Errorf("failed to stat report %s: %w", key, err)
	}

	expiresAt := time.Now().Add(PresignedURLTTL)
	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucket, key, PresignedURLTTL, make(url.Values))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned download URL: %w", err)
	}

	return &PresignedURL{
		URL:       presignedURL.String(),
		FileKey:   key,
		ExpiresAt: expiresAt,
	}, nil
}

var _ ReportArchive = (*MinIOArchive)(nil)

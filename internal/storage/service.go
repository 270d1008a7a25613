// Package storage archives rendered report documents in S3-compatible
// object storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotArchived is returned when a lead has no archived document.
var ErrNotArchived = errors.New("report not archived")

// PresignedURL contains a time-limited download link.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ReportArchive stores one PDF per lead.
type ReportArchive interface {
	// PutReport stores pdf under the lead's key, replacing any earlier copy.
	PutReport(ctx context.Context, leadID uuid.UUID, pdf []byte) (string, error)

	// ReportURL returns a presigned download link, or ErrNotArchived.
	ReportURL(ctx context.Context, leadID uuid.UUID) (*PresignedURL, error)
}

// ReportKey is where the document of a lead lives in the bucket.
func ReportKey(leadID uuid.UUID) string {
	return leadID.String() + "/diagnostico.pdf"
}

// Config defines the configuration interface for storage.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketReports() string
	IsMinIOEnabled() bool
}

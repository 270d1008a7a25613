package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestReportKey(t *testing.T) {
	id := uuid.MustParse("6f1c1f6e-8f4a-4c1e-9a43-2a3c1d0e9b10")
	if got := ReportKey(id); got != "6f1c1f6e-8f4a-4c1e-9a43-2a3c1d0e9b10/diagnostico.pdf" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestMemoryArchive(t *testing.T) {
	a := NewMemoryArchive()
	id := uuid.New()
	ctx := context.Background()

	if _, err := a.ReportURL(ctx, id); !errors.Is(err, ErrNotArchived) {
		t.Fatalf("expected ErrNotArchived, got %v", err)
	}
	key, err := a.PutReport(ctx, id, []byte("%PDF-1.3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b, ok := a.Object(key); !ok || string(b) != "%PDF-1.3" {
		t.Fatalf("expected stored document, got %q", b)
	}
	link, err := a.ReportURL(ctx, id)
	if err != nil || link.FileKey != key {
		t.Fatalf("expected link for %s, got %+v %v", key, link, err)
	}
}

func TestNewMinIOArchiveRequiresConfig(t *testing.T) {
	if _, err := NewMinIOArchive(disabledConfig{}); err == nil {
		t.Fatalf("expected error when MinIO is not configured")
	}
}

type disabledConfig struct{}

func (disabledConfig) GetMinIOEndpoint() string      { return "" }
func (disabledConfig) GetMinIOAccessKey() string     { return "" }
func (disabledConfig) GetMinIOSecretKey() string     { return "" }
func (disabledConfig) GetMinIOUseSSL() bool          { return false }
func (disabledConfig) GetMinioBucketReports() string { return "" }
func (disabledConfig) IsMinIOEnabled() bool          { return false }

package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryArchive keeps documents in process memory. It backs local runs
// without MinIO and tests.
type MemoryArchive struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{objects: make(map[string][]byte)}
}

func (m *MemoryArchive) PutReport(_ context.Context, leadID uuid.UUID, pdf []byte) (string, error) {
	key := ReportKey(leadID)
	m.mu.Lock()
	m.objects[key] = append([]byte(nil), pdf...)
	m.mu.Unlock()
	return key, nil
}

func (m *MemoryArchive) ReportURL(_ context.Context, leadID uuid.UUID) (*PresignedURL, error) {
	key := ReportKey(leadID)
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotArchived
	}
	return &PresignedURL{URL: "memory://" + key, FileKey: key, ExpiresAt: time.Now().Add(PresignedURLTTL)}, nil
}

// Object returns a stored document.
func (m *MemoryArchive) Object(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.objects[key]
	return b, ok
}

var _ ReportArchive = (*MemoryArchive)(nil)

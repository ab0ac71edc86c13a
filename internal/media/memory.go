package media

import (
	"context"
	"path"
	"sync"

	"github.com/google/uuid"
)

// MemoryUploader keeps objects in process memory. Used in development and tests.
type MemoryUploader struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryUploader constructs an empty in-memory media host.
func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{objects: make(map[string][]byte)}
}

func (m *MemoryUploader) Upload(_ context.Context, folder string, data []byte, contentType string) (Object, error) {
	key := path.Join(folder, uuid.NewString()+extensionFor(contentType))
	m.mu.Lock()
	m.objects[key] = append([]byte(nil), data...)
	m.mu.Unlock()
	return Object{Key: key, URL: "memory://" + key}, nil
}

func (m *MemoryUploader) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// Has reports whether key is stored.
func (m *MemoryUploader) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

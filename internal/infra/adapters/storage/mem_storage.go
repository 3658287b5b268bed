package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/ports/adapter"
)

var _ adapter.ObjectStorage = (*MemStorage)(nil)

// MemStorage keeps objects in memory. It backs local runs without a bucket and tests.
type MemStorage struct {
	mu      sync.RWMutex
	base    string
	objects map[string]MemObject
}

type MemObject struct {
	Body        []byte
	ContentType string
}

func NewMemStorage(publicBase string) *MemStorage {
	if publicBase == "" {
		publicBase = "memory://ebooks"
	}
	return &MemStorage{base: publicBase, objects: make(map[string]MemObject)}
}

func (m *MemStorage) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if key == "" {
		return "", domain.Invalid("object key is required")
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	m.mu.Lock()
	m.objects[key] = MemObject{Body: buf.Bytes(), ContentType: contentType}
	m.mu.Unlock()
	return m.PublicURL(key), nil
}

func (m *MemStorage) PublicURL(key string) string {
	return m.base + "/" + escapeKey(key)
}

// Object returns a stored object.
func (m *MemStorage) Object(key string) (MemObject, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	return o, ok
}

package storage

import (
	"context"
	"errors"
	"io"
	"sync"
)

// Memory is an in-memory Storage for dev mode and tests. It keeps the
// uploaded bytes so tests can assert on them, and can be told to fail.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailUploads makes every Upload return an error (test hook).
	FailUploads bool
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Upload(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	if m.FailUploads {
		return "", errors.New("storage unavailable")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.objects[objectName] = b
	m.mu.Unlock()
	return objectName, nil
}

func (m *Memory) PublicURL(objectName string) string {
	return "https://storage.local/attestations/" + objectName
}

// Object returns the stored bytes for a name, if any.
func (m *Memory) Object(objectName string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[objectName]
	return b, ok
}

var _ Storage = (*Memory)(nil)

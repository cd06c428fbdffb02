package storage

import (
	"context"
	"io"
	"strings"
	"sync"
)

// MemoryRemote is an in-process Remote for tests.
type MemoryRemote struct {
	mu    sync.Mutex
	files map[string][]byte
}

var _ Remote = (*MemoryRemote)(nil)

// NewMemoryRemote returns an empty MemoryRemote.
func NewMemoryRemote() *MemoryRemote {
	return &MemoryRemote{
		files: make(map[string][]byte),
	}
}

// Upload implements Remote.
func (m *MemoryRemote) Upload(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[key] = append([]byte(nil), data...)

	return nil
}

// Download implements Remote.
func (m *MemoryRemote) Download(_ context.Context, key string, w io.Writer) error {
	m.mu.Lock()
	data, ok := m.files[key]
	m.mu.Unlock()

	if !ok {
		return ErrRemoteNotFound
	}

	_, err := w.Write(data)

	return err
}

// Delete implements Remote.
func (m *MemoryRemote) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := strings.TrimSuffix(key, "/") + "/"
	for name := range m.files {
		if name == key || strings.HasPrefix(name, prefix) {
			delete(m.files, name)
		}
	}

	return nil
}

// Has reports whether key is stored.
func (m *MemoryRemote) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.files[key]

	return ok
}

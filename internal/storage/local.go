package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/oshokin/photo-frame/internal/config"
	"github.com/oshokin/photo-frame/internal/domain/frame"
)

// Local stores files on the local filesystem under a documents root.
type Local struct {
	// root is the cleaned absolute documents directory.
	root string
}

var _ Backend = (*Local)(nil)

// NewLocal creates a local backend rooted at documentsDir.
func NewLocal(documentsDir string) (*Local, error) {
	root, err := filepath.Abs(documentsDir)
	if err != nil {
		return nil, fmt.Errorf("resolve documents dir: %w", err)
	}

	return &Local{root: root}, nil
}

// Kind implements Backend.
func (*Local) Kind() frame.StorageKind {
	return frame.StorageLocal
}

// DocumentsDir implements Backend.
func (l *Local) DocumentsDir() string {
	return l.root
}

// JoinPath implements Backend.
func (*Local) JoinPath(elem ...string) string {
	return filepath.Join(elem...)
}

// MkdirAll implements Backend.
func (l *Local) MkdirAll(_ context.Context, path string) error {
	if err := l.check(path); err != nil {
		return err
	}

	return os.MkdirAll(path, config.DefaultDirPermissions)
}

// Exists implements Backend.
func (l *Local) Exists(_ context.Context, path string) (bool, error) {
	if err := l.check(path); err != nil {
		return false, err
	}

	_, err := os.Stat(path)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// ReadFile implements Backend.
func (l *Local) ReadFile(_ context.Context, path string) ([]byte, error) {
	if err := l.check(path); err != nil {
		return nil, err
	}

	return os.ReadFile(filepath.Clean(path))
}

// WriteFile writes through a temporary file in the same directory and renames
// it over path, so readers never observe a partially written file.
func (l *Local) WriteFile(_ context.Context, path string, data []byte) error {
	if err := l.check(path); err != nil {
		return err
	}

	return atomic.WriteFile(path, bytes.NewReader(data))
}

// RemoveAll implements Backend.
func (l *Local) RemoveAll(_ context.Context, path string) error {
	if err := l.check(path); err != nil {
		return err
	}

	return os.RemoveAll(path)
}

// EnsureLocal is a no-op: local files are always materialized.
func (*Local) EnsureLocal(context.Context, string) error {
	return nil
}

// rel returns path relative to the documents root in slash form.
func (l *Local) rel(path string) (string, error) {
	rel, err := filepath.Rel(l.root, filepath.Clean(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", path, ErrOutsideDocuments)
	}

	return filepath.ToSlash(rel), nil
}

func (l *Local) check(path string) error {
	_, err := l.rel(path)

	return err
}

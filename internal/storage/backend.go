package storage

import (
	"context"
	"errors"

	"github.com/oshokin/photo-frame/internal/domain/frame"
)

// Backend is the storage surface the resource cache depends on.
type Backend interface {
	// Kind reports which variant the backend is.
	Kind() frame.StorageKind
	// DocumentsDir is the root every other path lives under.
	DocumentsDir() string
	// JoinPath joins path elements the way the backend expects.
	JoinPath(elem ...string) string
	// MkdirAll creates path and any missing parents. Existing directories are fine.
	MkdirAll(ctx context.Context, path string) error
	// Exists reports whether path exists locally.
	Exists(ctx context.Context, path string) (bool, error)
	// ReadFile returns the contents of a local file.
	ReadFile(ctx context.Context, path string) ([]byte, error)
	// WriteFile replaces the contents of path.
	WriteFile(ctx context.Context, path string, data []byte) error
	// RemoveAll removes path recursively. Removing a missing path is not an error.
	RemoveAll(ctx context.Context, path string) error
	// EnsureLocal blocks until path is materialized locally or fails.
	EnsureLocal(ctx context.Context, path string) error
}

var (
	// ErrOutsideDocuments is returned for paths that escape the documents root.
	ErrOutsideDocuments = errors.New("path is outside the documents directory")
	// ErrRemoteNotFound is returned by a Remote when the key does not exist.
	ErrRemoteNotFound = errors.New("remote file not found")
)

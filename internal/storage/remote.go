package storage

import (
	"context"
	"io"
)

// Remote is the remote side of synced storage. Keys are slash-separated paths
// relative to the documents root.
type Remote interface {
	// Upload stores data under key, replacing any previous value.
	Upload(ctx context.Context, key string, data []byte) error
	// Download writes the value of key to w, or returns ErrRemoteNotFound.
	Download(ctx context.Context, key string, w io.Writer) error
	// Delete removes key and every key below it. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/natefinch/atomic"

	"github.com/oshokin/photo-frame/internal/config"
	"github.com/oshokin/photo-frame/internal/domain/frame"
	"github.com/oshokin/photo-frame/internal/logger"
)

// pendingSuffix marks a local file whose latest content has not reached the remote.
const pendingSuffix = ".pending"

// Synced is local-first storage mirrored to a Remote.
//
// Writes land on disk immediately and are then uploaded; reads see only the
// local copy until EnsureLocal has pulled the remote one. A write whose upload
// failed is marked pending: EnsureLocal pushes it again instead of replacing
// it with the older remote copy.
type Synced struct {
	*Local

	// remote holds the mirrored copy of the documents root.
	remote Remote
}

var _ Backend = (*Synced)(nil)

// errRemoteRequired is returned when synced storage is built without a remote.
var errRemoteRequired = errors.New("remote store is required for synced storage")

// NewSynced creates a synced backend rooted at documentsDir.
func NewSynced(documentsDir string, remote Remote) (*Synced, error) {
	if remote == nil {
		return nil, errRemoteRequired
	}

	local, err := NewLocal(documentsDir)
	if err != nil {
		return nil, err
	}

	return &Synced{
		Local:  local,
		remote: remote,
	}, nil
}

// Kind implements Backend.
func (*Synced) Kind() frame.StorageKind {
	return frame.StorageSynced
}

// WriteFile writes locally, then uploads. A failed upload is returned and the
// local copy stays, marked pending until a later EnsureLocal uploads it.
func (s *Synced) WriteFile(ctx context.Context, path string, data []byte) error {
	key, err := s.rel(path)
	if err != nil {
		return err
	}

	if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return err
	}

	if err = s.remote.Upload(ctx, key, data); err != nil {
		if markErr := atomic.WriteFile(pendingPath(path), bytes.NewReader(nil)); markErr != nil {
			logger.WarnKV(ctx, "Failed to mark file as pending upload", "key", key, "error", markErr)
		}

		return fault.Wrap(err, fmsg.With("sync upload"), fctx.With(ctx))
	}

	s.clearPending(ctx, path)
	logger.DebugKV(ctx, "Uploaded file to remote", "key", key, "bytes", len(data))

	return nil
}

// RemoveAll removes path locally and on the remote.
func (s *Synced) RemoveAll(ctx context.Context, path string) error {
	key, err := s.rel(path)
	if err != nil {
		return err
	}

	if err = os.RemoveAll(path); err != nil {
		return err
	}

	s.clearPending(ctx, path)

	if err = s.remote.Delete(ctx, key); err != nil {
		return fault.Wrap(err, fmsg.With("sync delete"), fctx.With(ctx))
	}

	return nil
}

// EnsureLocal downloads the remote copy of path and replaces the local file.
// When the remote has no such key the local state is left as is. A pending
// local write is uploaded instead; if that fails again the local copy is kept.
func (s *Synced) EnsureLocal(ctx context.Context, path string) error {
	key, err := s.rel(path)
	if err != nil {
		return err
	}

	pushed, err := s.pushPending(ctx, key, path)
	if err != nil || pushed {
		return err
	}

	var buf bytes.Buffer

	err = s.remote.Download(ctx, key, &buf)

	switch {
	case err == nil:
	case errors.Is(err, ErrRemoteNotFound):
		logger.DebugKV(ctx, "Nothing to materialize", "key", key)
		return nil
	default:
		return fault.Wrap(err, fmsg.With(fmt.Sprintf("materialize %s", key)), fctx.With(ctx))
	}

	if err = os.MkdirAll(filepath.Dir(path), config.DefaultDirPermissions); err != nil {
		return err
	}

	if err = atomic.WriteFile(path, &buf); err != nil {
		return err
	}

	logger.DebugKV(ctx, "Materialized remote file", "key", key, "bytes", buf.Len())

	return nil
}

// pushPending uploads path when it carries a pending mark. It reports whether
// the local copy is authoritative, so the caller must not download.
func (s *Synced) pushPending(ctx context.Context, key, path string) (bool, error) {
	if _, err := os.Stat(pendingPath(path)); err != nil {
		return false, nil //nolint:nilerr // No mark, nothing pending.
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		s.clearPending(ctx, path)
		return false, nil
	}

	if err != nil {
		return false, err
	}

	if err = s.remote.Upload(ctx, key, data); err != nil {
		logger.WarnKV(ctx, "Pending upload failed again, keeping local copy", "key", key, "error", err)
		return true, nil
	}

	s.clearPending(ctx, path)
	logger.InfoKV(ctx, "Uploaded pending file", "key", key, "bytes", len(data))

	return true, nil
}

func (*Synced) clearPending(ctx context.Context, path string) {
	if err := os.Remove(pendingPath(path)); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WarnKV(ctx, "Failed to clear pending mark", "path", path, "error", err)
	}
}

func pendingPath(path string) string {
	return path + pendingSuffix
}

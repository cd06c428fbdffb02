package storage

import (
	"context"

	"github.com/oshokin/photo-frame/internal/config"
	"github.com/oshokin/photo-frame/internal/logger"
)

// New builds the backend selected by cfg.Storage.
//
//nolint:ireturn // Callers only need the Backend surface.
func New(ctx context.Context, cfg *config.Config) (Backend, error) {
	if !cfg.Storage.IsSynced() {
		return NewLocal(cfg.DocumentsDir)
	}

	opts := []HTTPRemoteOption{
		WithToken(cfg.SyncToken),
		WithTimeout(cfg.Timeout),
	}

	device, err := DetectDevice()
	if err != nil {
		logger.WarnKV(ctx, "Could not identify this device to the sync server", "error", err)
	} else {
		opts = append(opts, WithDevice(device))
	}

	remote, err := NewHTTPRemote(cfg.SyncURL, opts...)
	if err != nil {
		return nil, err
	}

	return NewSynced(cfg.DocumentsDir, remote)
}

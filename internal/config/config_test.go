package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/photo-frame/internal/domain/frame"
)

// TestValidate checks defaults and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))

	// Empty settings are filled with defaults.
	cfg := new(Config)
	require.NoError(t, Validate(cfg))
	require.Equal(t, frame.StorageLocal, cfg.Storage)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultProgramName, cfg.ProgramName)
	require.NotEmpty(t, cfg.DocumentsDir)

	// Synced storage needs a server.
	cfg = &Config{Storage: frame.StorageSynced}
	require.ErrorIs(t, Validate(cfg), errSyncURLRequired)

	cfg = &Config{Storage: frame.StorageSynced, SyncURL: "http://127.0.0.1:8080"}
	require.NoError(t, Validate(cfg))

	// Unknown storage kind.
	cfg = &Config{Storage: "icloud"}
	require.ErrorIs(t, Validate(cfg), frame.ErrUnknownStorageKind)

	// Program name must not be a path.
	cfg = &Config{ProgramName: "../evil"}
	require.ErrorIs(t, Validate(cfg), errInvalidProgramName)

	// Bad log level.
	cfg = &Config{LogLevel: "loud"}
	require.ErrorIs(t, Validate(cfg), errUnknownLogLevel)

	// Bad version URL.
	cfg = &Config{VersionURL: "not a url"}
	require.Error(t, Validate(cfg))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	settings := &Config{
		DocumentsDir: filepath.Join(dir, "docs"),
		Storage:      frame.StorageSynced,
		SyncURL:      "http://sync.local:8080",
		VersionURL:   "https://updates.local/version",
		ProgramURL:   "https://updates.local/photo-frame",
		Timeout:      3 * time.Second,
		LargeScreen:  true,
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings.DocumentsDir, loaded.DocumentsDir)
	require.Equal(t, settings.Storage, loaded.Storage)
	require.Equal(t, settings.SyncURL, loaded.SyncURL)
	require.Equal(t, settings.Timeout, loaded.Timeout)
	require.True(t, loaded.LargeScreen)
	require.Equal(t, filepath.Join(settings.DocumentsDir, DefaultProgramName), loaded.ProgramPath())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(DefaultFilePermissions), info.Mode().Perm())
}

// TestLoadMissingExplicitFile rejects a settings path that does not exist.
func TestLoadMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestLoadEnvOverrides verifies PHOTO_FRAME_* variables win over the file.
func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	require.NoError(t, Save(path, &Config{DocumentsDir: dir}))

	t.Setenv("PHOTO_FRAME_STORAGE", "synced")
	t.Setenv("PHOTO_FRAME_SYNC_URL", "http://127.0.0.1:9999")
	t.Setenv("PHOTO_FRAME_TIMEOUT", "2s")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, frame.StorageSynced, cfg.Storage)
	require.Equal(t, "http://127.0.0.1:9999", cfg.SyncURL)
	require.Equal(t, 2*time.Second, cfg.Timeout)
	require.Equal(t, dir, cfg.DocumentsDir)
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/photo-frame/internal/domain/frame"
	"github.com/oshokin/photo-frame/internal/logger"
)

// Config holds the settings shared by every photo-frame command.
type Config struct {
	// DocumentsDir is the documents root holding the cache and the program file.
	DocumentsDir string `yaml:"documents_dir" env:"PHOTO_FRAME_DOCUMENTS_DIR"`
	// Storage selects the storage backend (local or synced).
	Storage frame.StorageKind `yaml:"storage" env:"PHOTO_FRAME_STORAGE"`
	// SyncURL is the base URL of the sync server used by synced storage.
	SyncURL string `yaml:"sync_url,omitempty" env:"PHOTO_FRAME_SYNC_URL"`
	// SyncToken is the optional bearer token presented to the sync server.
	SyncToken string `yaml:"sync_token,omitempty" env:"PHOTO_FRAME_SYNC_TOKEN"`
	// VersionURL returns the latest release token as plain text.
	VersionURL string `yaml:"version_url" env:"PHOTO_FRAME_VERSION_URL"`
	// ProgramURL returns the latest program body as plain text.
	ProgramURL string `yaml:"program_url" env:"PHOTO_FRAME_PROGRAM_URL"`
	// ProgramName is the file name of the program inside DocumentsDir.
	ProgramName string `yaml:"program_name" env:"PHOTO_FRAME_PROGRAM_NAME"`
	// Timeout bounds every network call.
	Timeout time.Duration `yaml:"timeout" env:"PHOTO_FRAME_TIMEOUT"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty" env:"PHOTO_FRAME_LOG_LEVEL"`
	// LargeScreen offers the ExtraLarge widget family.
	LargeScreen bool `yaml:"large_screen" env:"PHOTO_FRAME_LARGE_SCREEN"`
	// NumericVersionCompare orders version components numerically instead of
	// comparing the stripped tokens as strings.
	NumericVersionCompare bool `yaml:"numeric_version_compare" env:"PHOTO_FRAME_NUMERIC_VERSION_COMPARE"`
}

const (
	// DefaultConfigFilename is the default settings file name.
	DefaultConfigFilename = "photo-frame-settings.yaml"

	// DefaultProgramName is the default program file name inside the documents root.
	DefaultProgramName = "photo-frame"

	// DefaultVersionURL serves the latest release token.
	DefaultVersionURL = "https://raw.githubusercontent.com/oshokin/photo-frame/main/version"

	// DefaultProgramURL serves the latest program body.
	DefaultProgramURL = "https://raw.githubusercontent.com/oshokin/photo-frame/main/photo-frame"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 10 * time.Second

	// DefaultFilePermissions is used for settings and cached files.
	DefaultFilePermissions = 0o600

	// DefaultDirPermissions is used for directories created by photo-frame.
	DefaultDirPermissions = 0o700
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errSyncURLRequired is returned when synced storage has no server.
	errSyncURLRequired = errors.New("sync_url must be provided for synced storage")
	// errInvalidProgramName is returned when the program name is a path.
	errInvalidProgramName = errors.New("program_name must be a plain file name")
	// errUnknownLogLevel is returned for unsupported log levels.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns settings for a fresh installation.
func Default() *Config {
	return &Config{
		DocumentsDir: defaultDocumentsDir(),
		Storage:      frame.StorageLocal,
		VersionURL:   DefaultVersionURL,
		ProgramURL:   DefaultProgramURL,
		ProgramName:  DefaultProgramName,
		Timeout:      DefaultTimeout,
		LogLevel:     "info",
	}
}

// Load reads configuration from path, applies environment overrides and
// validates the result. A missing file at the default location yields the
// defaults; a missing file elsewhere is an error.
func Load(path string) (*Config, error) {
	explicit := path != "" && path != DefaultConfigFilename
	if path == "" {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// Fresh install, keep defaults.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions, the file may carry the sync token.
	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks the settings for consistency.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	kind, err := frame.ParseStorageKind(cfg.Storage.String())
	if err != nil {
		return err
	}

	cfg.Storage = kind

	if cfg.DocumentsDir == "" {
		cfg.DocumentsDir = defaultDocumentsDir()
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.ProgramName == "" {
		cfg.ProgramName = DefaultProgramName
	}

	if strings.ContainsAny(cfg.ProgramName, `/\`) || cfg.ProgramName == "." || cfg.ProgramName == ".." {
		return fmt.Errorf("%q: %w", cfg.ProgramName, errInvalidProgramName)
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%q: %w", cfg.LogLevel, errUnknownLogLevel)
	}

	if cfg.VersionURL == "" {
		cfg.VersionURL = DefaultVersionURL
	}

	if cfg.ProgramURL == "" {
		cfg.ProgramURL = DefaultProgramURL
	}

	if _, err = url.ParseRequestURI(cfg.VersionURL); err != nil {
		return fmt.Errorf("invalid version URL: %w", err)
	}

	if _, err = url.ParseRequestURI(cfg.ProgramURL); err != nil {
		return fmt.Errorf("invalid program URL: %w", err)
	}

	if !kind.IsSynced() {
		return nil
	}

	if cfg.SyncURL == "" {
		return errSyncURLRequired
	}

	if _, err = url.ParseRequestURI(cfg.SyncURL); err != nil {
		return fmt.Errorf("invalid sync URL: %w", err)
	}

	return nil
}

// ProgramPath is the self-update target inside the documents root.
func (c *Config) ProgramPath() string {
	return filepath.Join(c.DocumentsDir, c.ProgramName)
}

// defaultDocumentsDir resolves <user config dir>/photo-frame, falling back to
// the working directory when the platform has no config dir.
func defaultDocumentsDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "photo-frame"
	}

	return filepath.Join(dir, "photo-frame")
}

// ApplyLogLevel sets the level of the global logger from LogLevel.
func (c *Config) ApplyLogLevel() {
	if level, ok := logger.ParseLogLevel(c.LogLevel); ok {
		logger.SetLevel(level)
	}
}

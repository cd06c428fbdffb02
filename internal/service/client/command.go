package client

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoding for source photos.
	_ "image/jpeg" // Register JPEG decoding for source photos.
	_ "image/png"  // Register PNG decoding for source photos.
	"io"

	"github.com/oshokin/photo-frame/internal/config"
	"github.com/oshokin/photo-frame/internal/domain/frame"
	"github.com/oshokin/photo-frame/internal/logger"
	"github.com/oshokin/photo-frame/internal/presenter"
	"github.com/oshokin/photo-frame/internal/repository/resource"
	"github.com/oshokin/photo-frame/internal/service/widget"
	"github.com/oshokin/photo-frame/internal/storage"
)

const (
	// previewTitle is the message of the preview size picker.
	previewTitle = "Preview Widget"
	// cancelAction closes the preview size picker.
	cancelAction = "Cancel"
)

// ErrCanceled is returned by Preview when the operator picks Cancel.
var ErrCanceled = errors.New("preview canceled")

// Session holds what every photo-frame command needs.
type Session struct {
	// cfg is the loaded configuration.
	cfg *config.Config
	// cache is the initialized resource cache.
	cache *resource.Cache
}

// Open loads the settings, selects the storage backend and initializes the
// resource cache.
func Open(ctx context.Context, configPath string) (*Session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	cfg.ApplyLogLevel()

	return NewSession(ctx, cfg)
}

// NewSession builds a session from already loaded settings.
func NewSession(ctx context.Context, cfg *config.Config) (*Session, error) {
	backend, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create storage: %w", err)
	}

	ctx = logger.WithKV(ctx, "storage", backend.Kind().String())

	cache := resource.New(backend)
	cache.Initialize(ctx)

	return &Session{
		cfg:   cfg,
		cache: cache,
	}, nil
}

// Cache returns the resource cache of the session.
func (s *Session) Cache() *resource.Cache {
	return s.cache
}

// Families returns the widget sizes offered on this device.
func (s *Session) Families() []frame.Family {
	return frame.Families(s.cfg.LargeScreen)
}

// SetPhoto decodes a photo from r, caches it as the widget background and
// writes a large preview of the widget to preview.
func (s *Session) SetPhoto(ctx context.Context, r io.Reader, preview io.Writer) error {
	img, format, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("decode photo: %w", err)
	}

	logger.InfoKV(ctx, "Setting widget photo", "format", format, "bounds", img.Bounds().String())

	if err = s.cache.Set(ctx, img); err != nil {
		return fmt.Errorf("cache photo: %w", err)
	}

	return s.Render(ctx, frame.FamilyLarge, preview)
}

// Preview asks which widget size to show and renders it to out.
// It returns the chosen family, or ErrCanceled.
func (s *Session) Preview(ctx context.Context, p presenter.Presenter, out io.Writer) (frame.Family, error) {
	families := s.Families()

	actions := make([]string, 0, len(families)+1)
	for _, family := range families {
		actions = append(actions, family.String())
	}

	actions = append(actions, cancelAction)

	choice, err := p.Alert(ctx, previewTitle, actions...)
	if err != nil {
		return "", fmt.Errorf("choose widget size: %w", err)
	}

	if choice < 0 || choice >= len(families) {
		logger.Debug(ctx, "Preview canceled")
		return "", ErrCanceled
	}

	family := families[choice]

	return family, s.Render(ctx, family, out)
}

// Render builds the widget from the cached photo and writes it as PNG at
// the size of family.
func (s *Session) Render(ctx context.Context, family frame.Family, out io.Writer) error {
	w, err := widget.Build(ctx, s.cache)
	if err != nil {
		return err
	}

	if err = w.Render(family, out); err != nil {
		return err
	}

	logger.DebugKV(ctx, "Widget rendered", "family", family.String(), "placeholder", w.Background == nil)

	return nil
}

// Clear removes every cached file.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	logger.Info(ctx, "Cache cleared")

	return nil
}

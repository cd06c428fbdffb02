package resource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/oshokin/photo-frame/internal/logger"
	"github.com/oshokin/photo-frame/internal/storage"
)

const (
	// cacheDir is the cache root relative to the documents directory.
	cacheDir = "cache"
	// cacheName is the directory of this widget inside cacheDir.
	cacheName = "photoFrame"
	// artifactName is the cached image file name.
	artifactName = "picture.png"
)

var (
	// ErrNotFound is returned by Get when no image is cached.
	ErrNotFound = errors.New("cached resource not found")
	// errNoImage is returned by Set for a nil image.
	errNoImage = errors.New("image is required")
)

// Cache owns the single cached widget image.
type Cache struct {
	// backend is the storage the cache lives on.
	backend storage.Backend
	// root is the cache directory, empty until paths are resolved.
	root string
	// artifact is the cached image path inside root.
	artifact string
	// ready is set once the cache directory is known to exist.
	ready bool
	// mu serializes operations on the cache directory.
	mu sync.Mutex
}

// New creates a cache on backend. Call Initialize before use.
func New(backend storage.Backend) *Cache {
	return &Cache{
		backend: backend,
	}
}

// Initialize resolves the cache paths and creates the cache directory.
// It is idempotent. Failures are logged and swallowed: until the directory
// exists every read reports ErrNotFound and Set retries the provisioning.
func (c *Cache) Initialize(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.provision(ctx); err != nil {
		logger.ErrorKV(ctx, "Failed to initialize resource cache", "error", err)
		return
	}

	logger.DebugKV(ctx, "Resource cache initialized",
		"root", c.root, "storage", c.backend.Kind().String())
}

// Set encodes img as PNG and replaces the cached image.
// The cache directory is recreated first if a Clear removed it.
func (c *Cache) Set(ctx context.Context, img image.Image) error {
	if img == nil {
		return errNoImage
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode image: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.provision(ctx); err != nil {
		return err
	}

	if err := c.backend.WriteFile(ctx, c.artifact, buf.Bytes()); err != nil {
		return fmt.Errorf("write cached image: %w", err)
	}

	logger.InfoKV(ctx, "Cached image updated", "path", c.artifact, "bytes", buf.Len())

	return nil
}

// Get returns the cached image or ErrNotFound.
func (c *Cache) Get(ctx context.Context) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ready {
		return nil, ErrNotFound
	}

	if c.backend.Kind().IsSynced() {
		if err := c.backend.EnsureLocal(ctx, c.artifact); err != nil {
			return nil, fmt.Errorf("materialize cached image: %w", err)
		}
	}

	exists, err := c.backend.Exists(ctx, c.artifact)
	if err != nil {
		return nil, fmt.Errorf("stat cached image: %w", err)
	}

	if !exists {
		return nil, ErrNotFound
	}

	data, err := c.backend.ReadFile(ctx, c.artifact)
	if err != nil {
		return nil, fmt.Errorf("read cached image: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode cached image: %w", err)
	}

	return img, nil
}

// Clear removes the cache directory with the cached image. Clearing an empty
// cache is not an error.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resolvePaths()

	if err := c.backend.RemoveAll(ctx, c.root); err != nil {
		return fmt.Errorf("remove cache directory: %w", err)
	}

	c.ready = false

	logger.InfoKV(ctx, "Resource cache cleared", "root", c.root)

	return nil
}

// Root returns the cache directory.
func (c *Cache) Root() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.root
}

// provision resolves paths and makes sure the cache directory exists.
func (c *Cache) provision(ctx context.Context) error {
	c.resolvePaths()

	if err := c.backend.MkdirAll(ctx, c.root); err != nil {
		c.ready = false

		return fmt.Errorf("create cache directory: %w", err)
	}

	c.ready = true

	return nil
}

func (c *Cache) resolvePaths() {
	if c.root != "" {
		return
	}

	c.root = c.backend.JoinPath(c.backend.DocumentsDir(), cacheDir, cacheName)
	c.artifact = c.backend.JoinPath(c.root, artifactName)
}

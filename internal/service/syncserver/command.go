package syncserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/oshokin/photo-frame/internal/config"
	"github.com/oshokin/photo-frame/internal/logger"
)

// Options controls the sync-server process.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress overrides the port taken from sync_url.
	ListenAddress string
	// DataDir holds the synced files.
	DataDir string
	// ReleaseDir optionally publishes release files under /release/.
	ReleaseDir string
}

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

var (
	// ErrNoListenAddress indicates that neither sync_url nor an override is set.
	ErrNoListenAddress = errors.New("no listen address configured")
	// ErrNoDataDir indicates a missing data directory.
	ErrNoDataDir = errors.New("no data directory configured")
)

// Run serves synced files until ctx is canceled.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sync-server")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	settings.ApplyLogLevel()

	if opts.DataDir == "" {
		return ErrNoDataDir
	}

	listenAddress, err := resolveListenAddress(settings.SyncURL, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	if err = os.MkdirAll(opts.DataDir, config.DefaultDirPermissions); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	srvOpts := []Option{
		WithToken(settings.SyncToken),
		WithLogger(logger.FromContext(ctx)),
	}

	if opts.ReleaseDir != "" {
		srvOpts = append(srvOpts, WithReleaseDir(opts.ReleaseDir))
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	httpServer := &http.Server{
		Handler:           NewServer(opts.DataDir, srvOpts...).Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logger.InfoKV(ctx, "Sync server listening",
		"listen_address", listenAddress,
		"data_dir", opts.DataDir,
		"release_dir", opts.ReleaseDir)

	if err = serve(ctx, httpServer, lis); err != nil {
		return err
	}

	logger.Info(ctx, "Sync server stopped")

	return nil
}

// serve runs httpServer on lis until ctx is canceled or Serve fails, and
// returns only after the server has been shut down.
func serve(ctx context.Context, httpServer *http.Server, lis net.Listener) error {
	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})

	go func() {
		defer close(done)

		<-serveCtx.Done()
		logger.Info(ctx, "Shutting down sync server")

		shutdownCtx, stop := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer stop()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.ErrorKV(ctx, "Shutdown failed", "error", err)
		}
	}()

	err := httpServer.Serve(lis)

	cancel()
	<-done

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

// resolveListenAddress returns override when set, otherwise ":<port>" taken
// from the configured sync URL.
func resolveListenAddress(syncURL, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if syncURL == "" {
		return "", ErrNoListenAddress
	}

	u, err := url.Parse(syncURL)
	if err != nil {
		return "", fmt.Errorf("invalid sync URL %q: %w", syncURL, err)
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}

	return net.JoinHostPort("", port), nil
}

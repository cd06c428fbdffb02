package integration

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/photo-frame/internal/config"
	"github.com/oshokin/photo-frame/internal/domain/frame"
	"github.com/oshokin/photo-frame/internal/service/syncserver"
)

const syncToken = "integration-token"

// reservePort returns a free localhost address.
func reservePort(t *testing.T) string {
	t.Helper()

	lc := net.ListenConfig{}

	l, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// startSyncServer runs the sync server until the test ends and returns its base URL.
func startSyncServer(t *testing.T, releaseDir string) string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	addr := reservePort(t)
	baseURL := "http://" + addr

	cfg := config.Default()
	cfg.DocumentsDir = t.TempDir()
	cfg.SyncURL = baseURL
	cfg.SyncToken = syncToken

	cfgPath := filepath.Join(t.TempDir(), "server-settings.yaml")
	require.NoError(t, config.Save(cfgPath, cfg))

	done := make(chan error, 1)

	go func() {
		done <- syncserver.Run(ctx, &syncserver.Options{
			ConfigPath:    cfgPath,
			ListenAddress: addr,
			DataDir:       filepath.Join(t.TempDir(), "data"),
			ReleaseDir:    releaseDir,
		})
	}()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	require.Eventually(t, func() bool {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/v1/status", http.NoBody)
		if err != nil {
			return false
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return false
		}

		_ = resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	return baseURL
}

// deviceConfig returns settings of a device whose cache is synced through baseURL.
func deviceConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.DocumentsDir = t.TempDir()
	cfg.Storage = frame.StorageSynced
	cfg.SyncURL = baseURL
	cfg.SyncToken = syncToken
	cfg.Timeout = 5 * time.Second
	require.NoError(t, config.Validate(cfg))

	return cfg
}

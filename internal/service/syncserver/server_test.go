package syncserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, method, url, token, body string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, reader)
	require.NoError(t, err)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(data)
}

// TestFileLifecycle covers upload, existence, download and delete of a key.
func TestFileLifecycle(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	srv := httptest.NewServer(NewServer(dataDir).Handler())
	t.Cleanup(srv.Close)

	key := srv.URL + "/v1/files/cache/photoFrame/picture.png"

	status, _ := doRequest(t, http.MethodHead, key, "", "")
	require.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(t, http.MethodPut, key, "", "image-bytes")
	require.Equal(t, http.StatusNoContent, status)

	stored, err := os.ReadFile(filepath.Join(dataDir, "cache", "photoFrame", "picture.png"))
	require.NoError(t, err)
	require.Equal(t, "image-bytes", string(stored))

	status, _ = doRequest(t, http.MethodHead, key, "", "")
	require.Equal(t, http.StatusOK, status)

	// A second upload replaces the file without leaving temp files behind.
	status, _ = doRequest(t, http.MethodPut, key, "", "newer-bytes")
	require.Equal(t, http.StatusNoContent, status)

	entries, err := os.ReadDir(filepath.Join(dataDir, "cache", "photoFrame"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	status, body := doRequest(t, http.MethodGet, key, "", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "newer-bytes", body)

	// Deleting the parent removes everything below it.
	status, _ = doRequest(t, http.MethodDelete, srv.URL+"/v1/files/cache/photoFrame", "", "")
	require.Equal(t, http.StatusNoContent, status)

	status, _ = doRequest(t, http.MethodGet, key, "", "")
	require.Equal(t, http.StatusNotFound, status)

	// Deleting again is fine.
	status, _ = doRequest(t, http.MethodDelete, srv.URL+"/v1/files/cache/photoFrame", "", "")
	require.Equal(t, http.StatusNoContent, status)
}

// TestDirectoryIsNotAFile ensures directories are reported as absent.
func TestDirectoryIsNotAFile(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "cache"), 0o700))

	srv := httptest.NewServer(NewServer(dataDir).Handler())
	t.Cleanup(srv.Close)

	status, _ := doRequest(t, http.MethodGet, srv.URL+"/v1/files/cache", "", "")
	require.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(t, http.MethodHead, srv.URL+"/v1/files/cache", "", "")
	require.Equal(t, http.StatusNotFound, status)
}

// TestTokenRequired rejects requests without the configured bearer token.
func TestTokenRequired(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewServer(t.TempDir(), WithToken("secret")).Handler())
	t.Cleanup(srv.Close)

	key := srv.URL + "/v1/files/picture.png"

	status, _ := doRequest(t, http.MethodPut, key, "", "x")
	require.Equal(t, http.StatusForbidden, status)

	status, _ = doRequest(t, http.MethodPut, key, "wrong", "x")
	require.Equal(t, http.StatusForbidden, status)

	status, _ = doRequest(t, http.MethodPut, key, "secret", "x")
	require.Equal(t, http.StatusNoContent, status)

	// Status stays public.
	status, body := doRequest(t, http.MethodGet, srv.URL+"/v1/status", "", "")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"status":"ok"}`, body)
}

// TestReleaseFiles serves release files only when a release dir is set.
func TestReleaseFiles(t *testing.T) {
	t.Parallel()

	releaseDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(releaseDir, "version"), []byte("1.0.2\n"), 0o600))

	srv := httptest.NewServer(NewServer(t.TempDir(), WithReleaseDir(releaseDir)).Handler())
	t.Cleanup(srv.Close)

	status, body := doRequest(t, http.MethodGet, srv.URL+"/release/version", "", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "1.0.2\n", body)

	status, _ = doRequest(t, http.MethodGet, srv.URL+"/release/missing", "", "")
	require.Equal(t, http.StatusNotFound, status)

	plain := httptest.NewServer(NewServer(t.TempDir()).Handler())
	t.Cleanup(plain.Close)

	status, _ = doRequest(t, http.MethodGet, plain.URL+"/release/version", "", "")
	require.Equal(t, http.StatusNotFound, status)
}

func TestCleanKey(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"cache/photoFrame/picture.png": "cache/photoFrame/picture.png",
		"../../etc/passwd":             "etc/passwd",
		"a/./b/../c":                   "a/c",
		"/leading":                     "leading",
	}
	for in, want := range cases {
		got, err := cleanKey(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	for _, in := range []string{"", ".", "..", "/"} {
		_, err := cleanKey(in)
		require.ErrorIs(t, err, errInvalidKey, in)
	}
}

func TestResolveListenAddress(t *testing.T) {
	t.Parallel()

	addr, err := resolveListenAddress("http://sync.example.com:8087", "")
	require.NoError(t, err)
	require.Equal(t, ":8087", addr)

	addr, err = resolveListenAddress("https://sync.example.com", "")
	require.NoError(t, err)
	require.Equal(t, ":443", addr)

	addr, err = resolveListenAddress("", "127.0.0.1:9000")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", addr)

	_, err = resolveListenAddress("", "")
	require.ErrorIs(t, err, ErrNoListenAddress)
}

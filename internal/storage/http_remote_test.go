package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHTTPRemote_RoundTrip uploads, downloads and deletes a key against a fake sync server.
func TestHTTPRemote_RoundTrip(t *testing.T) {
	t.Parallel()

	var (
		stored []byte
		auth   string
		reqID  string
		device string
	)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sync/v1/files/cache/picture.png" {
			http.Error(w, "unexpected path", http.StatusBadRequest)
			return
		}

		auth = r.Header.Get("Authorization")
		reqID = r.Header.Get("X-Request-ID")
		device = r.Header.Get(DeviceHeader)

		switch r.Method {
		case http.MethodPut:
			stored, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			if stored == nil {
				http.NotFound(w, r)
				return
			}

			_, _ = w.Write(stored)
		case http.MethodDelete:
			stored = nil
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer ts.Close()

	remote, err := NewHTTPRemote(ts.URL+"/sync", WithToken("secret"), WithRetryMax(0),
		WithDevice(Device{Hostname: "tablet", Username: "frame"}))
	require.NoError(t, err)

	ctx := context.Background()

	var buf bytes.Buffer
	require.ErrorIs(t, remote.Download(ctx, "cache/picture.png", &buf), ErrRemoteNotFound)

	require.NoError(t, remote.Upload(ctx, "cache/picture.png", []byte("png")))
	require.Equal(t, "Bearer secret", auth)
	require.NotEmpty(t, reqID)
	require.Equal(t, "frame@tablet", device)

	require.NoError(t, remote.Download(ctx, "cache/picture.png", &buf))
	require.Equal(t, "png", buf.String())

	require.NoError(t, remote.Delete(ctx, "cache/picture.png"))
	require.Nil(t, stored)
}

// TestHTTPRemote_RetriesServerErrors checks transient 5xx responses are retried.
func TestHTTPRemote_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	remote, err := NewHTTPRemote(ts.URL, WithRetryMax(2))
	require.NoError(t, err)

	require.NoError(t, remote.Upload(context.Background(), "k", []byte("v")))
	require.Equal(t, int32(2), calls.Load())
}

// TestHTTPRemote_UnexpectedStatus reports non-retryable failures.
func TestHTTPRemote_UnexpectedStatus(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	remote, err := NewHTTPRemote(ts.URL, WithRetryMax(0))
	require.NoError(t, err)

	ctx := context.Background()

	require.Error(t, remote.Upload(ctx, "k", []byte("v")))
	require.Error(t, remote.Delete(ctx, "k"))

	var buf bytes.Buffer

	err = remote.Download(ctx, "k", &buf)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrRemoteNotFound)
}

// TestNewHTTPRemote_InvalidURL rejects malformed base URLs.
func TestNewHTTPRemote_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := NewHTTPRemote("not a url")
	require.Error(t, err)
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/oshokin/photo-frame/internal/logger"
)

const (
	// filesPrefix is the sync server route holding synced files.
	filesPrefix = "/v1/files"

	defaultRetryMax     = 3
	defaultRetryWaitMin = 200 * time.Millisecond
	defaultRetryWaitMax = 2 * time.Second
)

// HTTPRemote talks to a sync server over HTTP, retrying transient failures.
type HTTPRemote struct {
	// base is the sync server base URL.
	base *url.URL
	// token is sent as a bearer token when set.
	token string
	// device identifies this installation, sent when set.
	device string
	// client retries connection errors and 5xx responses.
	client *retryablehttp.Client
}

var _ Remote = (*HTTPRemote)(nil)

// HTTPRemoteOption configures an HTTPRemote.
type HTTPRemoteOption func(*HTTPRemote)

// WithToken sets the bearer token presented to the sync server.
func WithToken(token string) HTTPRemoteOption {
	return func(r *HTTPRemote) {
		r.token = token
	}
}

// WithDevice sets the device identity reported to the sync server.
func WithDevice(device Device) HTTPRemoteOption {
	return func(r *HTTPRemote) {
		r.device = device.String()
	}
}

// WithTimeout bounds every single HTTP attempt.
func WithTimeout(timeout time.Duration) HTTPRemoteOption {
	return func(r *HTTPRemote) {
		if timeout > 0 {
			r.client.HTTPClient.Timeout = timeout
		}
	}
}

// WithRetryMax overrides the number of retries after the first attempt.
func WithRetryMax(retries int) HTTPRemoteOption {
	return func(r *HTTPRemote) {
		if retries >= 0 {
			r.client.RetryMax = retries
		}
	}
}

// NewHTTPRemote creates a Remote for the sync server at baseURL.
func NewHTTPRemote(baseURL string, opts ...HTTPRemoteOption) (*HTTPRemote, error) {
	base, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("invalid sync server URL"))
	}

	client := retryablehttp.NewClient()
	client.RetryMax = defaultRetryMax
	client.RetryWaitMin = defaultRetryWaitMin
	client.RetryWaitMax = defaultRetryWaitMax
	client.Logger = leveledLogger{logger.Logger().Named("sync-client")}

	r := &HTTPRemote{
		base:   base,
		client: client,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Upload implements Remote.
func (r *HTTPRemote) Upload(ctx context.Context, key string, data []byte) error {
	resp, err := r.do(ctx, http.MethodPut, key, data)
	if err != nil {
		return fault.Wrap(err, fmsg.With("upload failed"), fctx.With(ctx))
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		return fault.New(fmt.Sprintf("upload %s: unexpected status %s", key, resp.Status), fctx.With(ctx))
	}

	return nil
}

// Download implements Remote.
func (r *HTTPRemote) Download(ctx context.Context, key string, w io.Writer) error {
	resp, err := r.do(ctx, http.MethodGet, key, nil)
	if err != nil {
		return fault.Wrap(err, fmsg.With("download failed"), fctx.With(ctx))
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrRemoteNotFound
	default:
		return fault.New(fmt.Sprintf("download %s: unexpected status %s", key, resp.Status), fctx.With(ctx))
	}

	if _, err = io.Copy(w, resp.Body); err != nil {
		return fault.Wrap(err, fmsg.With("error reading download body"), fctx.With(ctx))
	}

	return nil
}

// Delete implements Remote.
func (r *HTTPRemote) Delete(ctx context.Context, key string) error {
	resp, err := r.do(ctx, http.MethodDelete, key, nil)
	if err != nil {
		return fault.Wrap(err, fmsg.With("delete failed"), fctx.With(ctx))
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return fault.New(fmt.Sprintf("delete %s: unexpected status %s", key, resp.Status), fctx.With(ctx))
	}
}

func (r *HTTPRemote) do(ctx context.Context, method, key string, body []byte) (*http.Response, error) {
	target := *r.base
	target.Path = path.Join(target.Path, filesPrefix, key)

	var rawBody any
	if body != nil {
		rawBody = bytes.NewReader(body)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, target.String(), rawBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("X-Request-ID", uuid.NewString())

	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	if r.device != "" {
		req.Header.Set(DeviceHeader, r.device)
	}

	return r.client.Do(req)
}

// leveledLogger adapts zap to retryablehttp.LeveledLogger.
type leveledLogger struct {
	l *zap.SugaredLogger
}

var _ retryablehttp.LeveledLogger = leveledLogger{}

func (l leveledLogger) Error(msg string, kvs ...any) { l.l.Errorw(msg, kvs...) }
func (l leveledLogger) Info(msg string, kvs ...any)  { l.l.Debugw(msg, kvs...) }
func (l leveledLogger) Debug(msg string, kvs ...any) { l.l.Debugw(msg, kvs...) }
func (l leveledLogger) Warn(msg string, kvs ...any)  { l.l.Warnw(msg, kvs...) }

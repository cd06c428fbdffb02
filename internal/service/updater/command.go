package updater

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/photo-frame/internal/config"
	"github.com/oshokin/photo-frame/internal/logger"
	"github.com/oshokin/photo-frame/internal/presenter"
	"github.com/oshokin/photo-frame/internal/version"
)

var (
	// ErrFetchVersion is returned when the remote version token cannot be fetched.
	ErrFetchVersion = errors.New("fetch remote version")
	// ErrFetchProgram is returned when the program body cannot be fetched.
	ErrFetchProgram = errors.New("fetch program body")
	// ErrWriteProgram is returned when the program file cannot be replaced.
	ErrWriteProgram = errors.New("write program body")
	// ErrNotify is returned when the operator could not be notified.
	ErrNotify = errors.New("notify operator")

	errBadHTTPStatus      = errors.New("unexpected http status")
	errPresenterRequired  = errors.New("presenter is required")
	errEmptyProgramBody   = errors.New("program body is empty")
	errProgramPathMissing = errors.New("program path is not set")
)

// Options are inputs accepted by the check-update entry point.
type Options struct {
	// ConfigPath is the optional path to settings YAML file.
	ConfigPath string
	// Presenter reports the outcome to the operator.
	Presenter presenter.Presenter
}

// Result describes what a single update check did.
type Result struct {
	// Current is the running release token.
	Current string
	// Latest is the token served by the version endpoint, trimmed.
	Latest string
	// Comparison is the outcome of comparing Current with Latest.
	Comparison Comparison
	// Updated is true once the program file was replaced.
	Updated bool
	// RunningInstances lists other running processes of the program that
	// keep the old version until relaunched.
	RunningInstances []int
}

// Checker fetches the latest release token and replaces the program file
// when a newer release is published.
type Checker struct {
	// versionURL returns the latest release token.
	versionURL string
	// programURL returns the latest program body.
	programURL string
	// programPath is the program file that gets replaced.
	programPath string
	// current is the running release token.
	current string
	// compare decides whether the remote token is newer.
	compare CompareFunc
	// client performs the two GET requests, without retries.
	client *http.Client
	// presenter reports the outcome.
	presenter presenter.Presenter
	// instances lists other running processes of the program.
	instances func(name string) ([]int, error)
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithHTTPClient sets the HTTP client used for both fetches.
func WithHTTPClient(client *http.Client) CheckerOption {
	return func(c *Checker) {
		if client != nil {
			c.client = client
		}
	}
}

// WithCurrentVersion overrides the running release token.
func WithCurrentVersion(token string) CheckerOption {
	return func(c *Checker) {
		c.current = token
	}
}

// WithCompare overrides the comparison rule.
func WithCompare(compare CompareFunc) CheckerOption {
	return func(c *Checker) {
		if compare != nil {
			c.compare = compare
		}
	}
}

// NewChecker builds a Checker from the settings.
func NewChecker(cfg *config.Config, p presenter.Presenter, opts ...CheckerOption) (*Checker, error) {
	if p == nil {
		return nil, errPresenterRequired
	}

	compare := CompareLexical
	if cfg.NumericVersionCompare {
		compare = CompareNumeric
	}

	c := &Checker{
		versionURL:  cfg.VersionURL,
		programURL:  cfg.ProgramURL,
		programPath: cfg.ProgramPath(),
		current:     version.Short(),
		compare:     compare,
		client:      &http.Client{Timeout: cfg.Timeout},
		presenter:   p,
		instances:   RunningInstances,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.programPath == "" {
		return nil, errProgramPathMissing
	}

	return c, nil
}

// Run loads the settings and performs one update check.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "check-update")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	cfg.ApplyLogLevel()

	checker, err := NewChecker(cfg, opts.Presenter)
	if err != nil {
		return err
	}

	_, err = checker.Check(ctx)

	return err
}

// Check fetches the remote token, compares it with the running one and, when
// it is newer, replaces the program file and asks the operator to relaunch.
// Every stage fails with its own sentinel error; nothing is written unless
// the token was fetched and compared as newer.
func (c *Checker) Check(ctx context.Context) (*Result, error) {
	result := &Result{Current: c.current}

	logger.InfoKV(ctx, "Checking for updates", "current", c.current, "url", c.versionURL)

	latest, err := c.fetch(ctx, c.versionURL)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrFetchVersion, err)
		logger.ErrorKV(ctx, "Update check failed", "stage", "fetch_version", "error", err)

		return result, err
	}

	result.Latest = strings.TrimSpace(string(latest))
	result.Comparison = c.compare(c.current, result.Latest)

	logger.InfoKV(ctx, "Compared versions",
		"current", c.current, "latest", result.Latest, "comparison", result.Comparison.String())

	if result.Comparison != Newer {
		if result.Comparison == Indeterminate {
			logger.WarnKV(ctx, "Version token is not comparable, assuming no update",
				"current", c.current, "latest", result.Latest)
		}

		return result, c.notify(ctx, fmt.Sprintf("version %s is currently the newest version available.", c.current))
	}

	if err = c.apply(ctx); err != nil {
		return result, err
	}

	result.Updated = true
	result.RunningInstances = c.runningInstances(ctx)

	message := fmt.Sprintf("Update to version %s\nPlease launch the app again.", result.Latest)
	if n := len(result.RunningInstances); n > 0 {
		message += fmt.Sprintf("\n%d running instance(s) still use version %s.", n, c.current)
	}

	return result, c.notify(ctx, message)
}

// apply downloads the program body and replaces the program file.
func (c *Checker) apply(ctx context.Context) error {
	logger.InfoKV(ctx, "Downloading program body", "url", c.programURL)

	body, err := c.fetch(ctx, c.programURL)
	if err == nil && len(body) == 0 {
		err = errEmptyProgramBody
	}

	if err != nil {
		err = fmt.Errorf("%w: %w", ErrFetchProgram, err)
		logger.ErrorKV(ctx, "Update failed", "stage", "fetch_program", "error", err)

		return err
	}

	if err = writeProgram(c.programPath, body); err != nil {
		err = fmt.Errorf("%w: %w", ErrWriteProgram, err)
		logger.ErrorKV(ctx, "Update failed", "stage", "write_program", "error", err)

		return err
	}

	logger.InfoKV(ctx, "Program replaced", "path", c.programPath, "bytes", len(body))

	return nil
}

// notify shows a single-action alert.
func (c *Checker) notify(ctx context.Context, message string) error {
	if _, err := c.presenter.Alert(ctx, message, presenter.DefaultAction); err != nil {
		err = fmt.Errorf("%w: %w", ErrNotify, err)
		logger.ErrorKV(ctx, "Update check failed", "stage", "notify", "error", err)

		return err
	}

	return nil
}

// runningInstances lists other processes of the program; failures only log.
func (c *Checker) runningInstances(ctx context.Context) []int {
	if c.instances == nil {
		return nil
	}

	pids, err := c.instances(filepath.Base(c.programPath))
	if err != nil {
		logger.WarnKV(ctx, "Could not list running instances", "error", err)
		return nil
	}

	return pids
}

// fetch GETs url and returns the body.
func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "photo-frame/"+c.current)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s, %s: %w", url, resp.Status, errBadHTTPStatus)
	}

	return io.ReadAll(resp.Body)
}

// writeProgram replaces path with body verbatim. go-update renames the new
// file into place, so a failed write leaves the previous program intact and
// a fresh install leaves no program file at all.
func writeProgram(path string, body []byte) (err error) {
	if _, err = os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err = createPlaceholder(path); err != nil {
			return err
		}

		defer func() {
			if err != nil {
				_ = os.Remove(path)
			}
		}()
	} else if err != nil {
		return err
	}

	options := goupdate.Options{
		TargetPath: path,
		TargetMode: DefaultProgramMode,
	}

	return goupdate.Apply(bytes.NewReader(body), options)
}

// createPlaceholder creates an empty program file, go-update renames the old
// file away first, so it has to exist.
func createPlaceholder(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), config.DefaultDirPermissions); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY, DefaultProgramMode)
	if err != nil {
		return err
	}

	return f.Close()
}

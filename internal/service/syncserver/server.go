package syncserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"github.com/oshokin/photo-frame/internal/config"
	"github.com/oshokin/photo-frame/internal/logger"
	"github.com/oshokin/photo-frame/internal/storage"
)

// Server stores synced files under a data directory.
type Server struct {
	// dataDir holds the synced files.
	dataDir string
	// releaseDir holds published release files, empty to disable.
	releaseDir string
	// token is the expected bearer token, empty to disable auth.
	token string
	// log is the base request logger.
	log *zap.SugaredLogger
	// mu keeps writes and removals from interleaving with reads.
	mu sync.RWMutex
}

// Option configures a Server.
type Option func(*Server)

// WithReleaseDir publishes the files of dir under /release/.
func WithReleaseDir(dir string) Option {
	return func(s *Server) {
		s.releaseDir = dir
	}
}

// WithToken requires "Authorization: Bearer <token>" on file routes.
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = token
	}
}

// WithLogger sets the base request logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

var errInvalidKey = errors.New("invalid key")

// NewServer creates a server storing files under dataDir.
func NewServer(dataDir string, opts ...Option) *Server {
	s := &Server{
		dataDir: dataDir,
		log:     logger.Logger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	r.HandleFunc("/v1/status", s.statusHandler).Methods(http.MethodGet)

	files := r.PathPrefix("/v1/files").Subrouter()
	files.Use(s.authorize)
	files.HandleFunc("/{key:.+}", s.uploadHandler).Methods(http.MethodPut)
	files.HandleFunc("/{key:.+}", s.existsHandler).Methods(http.MethodHead)
	files.HandleFunc("/{key:.+}", s.downloadHandler).Methods(http.MethodGet)
	files.HandleFunc("/{key:.+}", s.deleteHandler).Methods(http.MethodDelete)

	if s.releaseDir != "" {
		r.HandleFunc("/release/{name}", s.releaseHandler).Methods(http.MethodGet)
	}

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		l := s.log.With("request_id", requestID)
		if device := r.Header.Get(storage.DeviceHeader); device != "" {
			l = l.With("device", device)
		}

		ctx := logger.ToContext(r.Context(), l)
		logger.DebugKV(ctx, "Request", "method", r.Method, "path", r.URL.Path)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) authorize(next http.Handler) http.Handler {
	if s.token == "" {
		return next
	}

	expected := "Bearer " + s.token

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != expected {
			logger.Warn(r.Context(), "Authorization failed")
			http.Error(w, "Forbidden", http.StatusForbidden)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (*Server) statusHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Status string `json:"status"`
	}{
		Status: "ok",
	})
}

func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := s.resolve(w, r)
	if !ok {
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.fail(w, r, "read upload", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = os.MkdirAll(filepath.Dir(target), config.DefaultDirPermissions); err != nil {
		s.fail(w, r, "create directory", err)
		return
	}

	if err = atomic.WriteFile(target, bytes.NewReader(data)); err != nil {
		s.fail(w, r, "store upload", err)
		return
	}

	logger.InfoKV(r.Context(), "Stored file", "key", mux.Vars(r)["key"], "bytes", len(data))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) existsHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := s.resolve(w, r)
	if !ok {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if info, err := os.Stat(target); err != nil || info.IsDir() {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) downloadHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := s.resolve(w, r)
	if !ok {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	s.serveFile(w, r, target)
}

func (s *Server) deleteHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := s.resolve(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(target); err != nil {
		s.fail(w, r, "remove file", err)
		return
	}

	logger.InfoKV(r.Context(), "Removed file", "key", mux.Vars(r)["key"])
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) releaseHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}

	s.serveFile(w, r, filepath.Join(s.releaseDir, name))
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, target string) {
	f, err := os.Open(filepath.Clean(target))
	if errors.Is(err, os.ErrNotExist) {
		http.NotFound(w, r)
		return
	}

	if err != nil {
		s.fail(w, r, "open file", err)
		return
	}

	defer func() {
		_ = f.Close()
	}()

	if info, statErr := f.Stat(); statErr != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")

	if _, err = io.Copy(w, f); err != nil {
		logger.ErrorKV(r.Context(), "Failed to send file", "error", err)
	}
}

// resolve maps the {key} route variable to a path inside the data directory.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) (string, bool) {
	key, err := cleanKey(mux.Vars(r)["key"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", false
	}

	return filepath.Join(s.dataDir, filepath.FromSlash(key)), true
}

func (*Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger.ErrorKV(r.Context(), "Request failed", "stage", msg, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// cleanKey normalizes a slash-separated key so it cannot leave the data directory.
func cleanKey(key string) (string, error) {
	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" || cleaned == "." {
		return "", errInvalidKey
	}

	return cleaned, nil
}

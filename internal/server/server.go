// Package server implements the sidecar HTTP API: an editor front end posts
// a diagram model once, then streams viewport changes and drag releases
// against it and reads back region states and constraint actions.
//
// Models are held in memory, keyed by a server-assigned UUID. All routes of
// one model are serialized by a per-model mutex; different models process
// concurrently.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/lennartvogel/foldview/pkg/errors"
	"github.com/lennartvogel/foldview/pkg/kgraph"
	"github.com/lennartvogel/foldview/pkg/pipeline"
	"github.com/lennartvogel/foldview/pkg/store"
)

// Config tunes the server.
type Config struct {
	// Addr is the listen address, e.g. ":8460".
	Addr string

	// Defaults applies to requests that omit fold or direction parameters.
	Defaults pipeline.Options

	// MaxBodyBytes caps request body size. Zero means 8 MiB.
	MaxBodyBytes int64
}

const defaultMaxBody = 8 << 20

// model is one registered diagram and its processing state.
type model struct {
	mu     sync.Mutex
	id     string
	root   *kgraph.Node
	runner *pipeline.Runner
}

// Server is the sidecar HTTP server. Create with New.
type Server struct {
	cfg    Config
	logger *log.Logger
	store  store.Store

	mu     sync.RWMutex
	models map[string]*model
}

// New creates a server. st may be nil to disable constraint persistence; a
// nil logger falls back to log.Default().
func New(cfg Config, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBody
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		store:  st,
		models: make(map[string]*model),
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/models", func(r chi.Router) {
		r.Post("/", s.handleCreateModel)
		r.Route("/{modelID}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteModel)
			r.Get("/regions", s.handleRegions)
			r.Post("/viewport", s.handleViewport)
			r.Post("/moves", s.handleMove)
			r.Get("/constraints", s.handleConstraints)
		})
	})
	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully with a 10 second drain window.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("sidecar listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// lookup returns the registered model or nil.
func (s *Server) lookup(id string) *model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.models[id]
}

// ----------------------------------------------------------------------------
// Response helpers
// ----------------------------------------------------------------------------

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// writeError maps an error to a status code by its error code and writes
// the standard error body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidModel,
		errors.ErrCodeInvalidViewport, errors.ErrCodeInvalidDirection,
		errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeModelNotFound,
		errors.ErrCodeNodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeStoreUnavailable:
		status = http.StatusServiceUnavailable
	}
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: code})
}

func newModelID() string {
	return uuid.NewString()
}

// Package server exposes a bucket over a local HTTP gateway.
//
// The gateway is a thin translation layer: each request maps to exactly one
// operator call, and storage failures surface as JSON error envelopes with
// the appropriate status code.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/skyloom/r2ops/pkg/r2"
)

// ObjectService is the slice of the operator the gateway needs.
// *r2.Operator satisfies it.
type ObjectService interface {
	UploadBinary(ctx context.Context, key, mimeType string, data []byte, opts ...r2.UploadOption) error
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	ListObjects(ctx context.Context) ([]string, error)
	Stat(ctx context.Context, key string) (*r2.ObjectMeta, error)
}

// Server serves object operations over HTTP.
type Server struct {
	svc    ObjectService
	log    *zap.Logger
	host   string
	port   int
	router chi.Router
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the machine-readable code and human message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListResponse is the JSON body for object listings.
type ListResponse struct {
	Keys []string `json:"keys"`
}

// New creates a Server bound to host:port.
func New(svc ObjectService, log *zap.Logger, host string, port int) *Server {
	s := &Server{
		svc:  svc,
		log:  log,
		host: host,
		port: port,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.host, s.port)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.Addr(),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("gateway listening", zap.String("addr", s.Addr()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/objects", s.handleList)
	r.Get("/v1/objects/*", s.handleGet)
	r.Put("/v1/objects/*", s.handlePut)
	r.Delete("/v1/objects/*", s.handleDelete)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	keys, err := s.svc.ListObjects(r.Context())
	if err != nil {
		s.writeStorageError(w, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	s.writeJSON(w, http.StatusOK, ListResponse{Keys: keys})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	// Metadata first so the response carries the stored content type and
	// cache directive, matching what the object was uploaded with.
	meta, err := s.svc.Stat(r.Context(), key)
	if err != nil {
		s.writeStorageError(w, err)
		return
	}

	data, err := s.svc.Download(r.Context(), key)
	if err != nil {
		s.writeStorageError(w, err)
		return
	}

	if meta.ContentType != "" {
		w.Header().Set("Content-Type", meta.ContentType)
	}
	if meta.CacheControl != "" {
		w.Header().Set("Cache-Control", meta.CacheControl)
	}
	if meta.ETag != "" {
		w.Header().Set("ETag", `"`+meta.ETag+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "BAD_REQUEST", "failed to read request body")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var opts []r2.UploadOption
	if cc := r.Header.Get("Cache-Control"); cc != "" {
		opts = append(opts, r2.WithCacheControl(cc))
	}

	if err := s.svc.UploadBinary(r.Context(), key, contentType, data, opts...); err != nil {
		s.writeStorageError(w, err)
		return
	}

	s.log.Info("object stored", zap.String("key", key), zap.Int("bytes", len(data)))
	s.writeJSON(w, http.StatusCreated, map[string]string{"key": key})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")

	if err := s.svc.Delete(r.Context(), key); err != nil {
		s.writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeStorageError maps operator failures onto HTTP statuses.
func (s *Server) writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case r2.IsNotFound(err):
		s.writeError(w, http.StatusNotFound, "NOT_FOUND", "object not found")
	case r2.IsAccessDenied(err):
		s.writeError(w, http.StatusForbidden, "ACCESS_DENIED", "access denied")
	case r2.IsInvalidCredentials(err):
		s.writeError(w, http.StatusForbidden, "INVALID_CREDENTIALS", "invalid credentials")
	case r2.IsBucketNotFound(err):
		s.writeError(w, http.StatusBadGateway, "BUCKET_NOT_FOUND", "bucket not found")
	default:
		s.log.Error("storage call failed", zap.Error(err))
		var opErr *r2.OperationError
		if errors.As(err, &opErr) {
			s.writeError(w, http.StatusBadGateway, "UPSTREAM_ERROR", opErr.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

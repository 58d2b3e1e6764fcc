// Package server serves a storage directory over the small HTTP API the
// file browser consumes: listing, raw files, uploads and delete-to-trash,
// optionally behind a shared password.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"quicktransfer/internal/config"
	"quicktransfer/internal/log"

	"github.com/gorilla/mux"
)

// shutdownTimeout bounds how long in-flight requests get on shutdown.
const shutdownTimeout = 5 * time.Second

// Server is the file server.
type Server struct {
	addr     string
	storage  *Storage
	sessions *sessions
	router   *mux.Router
}

// New creates a server for the server section of cfg.
func New(cfg *config.Config) (*Server, error) {
	storage, err := NewStorage(cfg.FilesDir(), cfg.DeletedDir())
	if err != nil {
		return nil, err
	}

	s := &Server{
		addr:     net.JoinHostPort(cfg.Server.Host, fmt.Sprint(cfg.Server.Port)),
		storage:  storage,
		sessions: newSessions(cfg.Server.Password),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(requestLogger)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/list", s.sessions.require(s.handleList)).Methods(http.MethodGet)
	r.HandleFunc("/files/{path:.+}", s.sessions.require(s.handleFile)).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/upload", s.sessions.require(s.handleUpload)).Methods(http.MethodPost)
	r.HandleFunc("/delete/{path:.+}", s.sessions.require(s.handleDelete)).Methods(http.MethodPost)

	s.router = r
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Run listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Serving %s on http://%s", s.storage.Root(), ln.Addr())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	}
}

// statusRecorder captures the status written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.LogWithFields(
			log.F("method", r.Method),
			log.F("path", r.URL.Path),
			log.F("status", rec.status),
			log.F("duration", time.Since(start)),
		).Debug("request")
	})
}

// Package server exposes a [view.GraphView] over HTTP.
//
// The view is single-threaded; the server serializes every request that
// touches it through one mutex. Frames are driven by clients: POST /input
// runs one frame with the posted pointer state and returns the frame
// together with the changes and events it produced.
//
// # Routes
//
//	GET    /healthz
//	GET    /frame?width=&height=
//	POST   /input
//	POST   /fit
//	GET    /layout/state
//	PUT    /layout/state
//	POST   /layout/reset
//	POST   /layout/fast-forward
//	POST   /nodes
//	DELETE /nodes/{id}?cascade=true
//	POST   /edges
//	DELETE /edges/{id}
//	GET    /snapshot.dot
//	GET    /snapshot.svg
//
// Errors are JSON objects {"code": ..., "error": ...}. INVALID_OPERATION
// maps to 409, NOT_FOUND to 404, CONFIGURATION_ERROR and INVALID_INPUT to
// 400, everything else to 500.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/graphview/pkg/view"
)

// Server is the HTTP host of one view.
type Server struct {
	mu     sync.Mutex
	view   *view.GraphView
	router chi.Router
	logger *log.Logger
	addr   string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithAddr sets the listen address used by ListenAndServe.
func WithAddr(addr string) Option { return func(s *Server) { s.addr = addr } }

// New creates a server for v.
func New(v *view.GraphView, opts ...Option) *Server {
	s := &Server{
		view:   v,
		logger: log.New(io.Discard),
		addr:   "127.0.0.1:8080",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/frame", s.handleFrame)
	r.Post("/input", s.handleInput)
	r.Post("/fit", s.handleFit)

	r.Route("/layout", func(r chi.Router) {
		r.Get("/state", s.handleGetState)
		r.Put("/state", s.handlePutState)
		r.Post("/reset", s.handleReset)
		r.Post("/fast-forward", s.handleFastForward)
	})

	r.Post("/nodes", s.handleAddNode)
	r.Delete("/nodes/{id}", s.handleDeleteNode)
	r.Post("/edges", s.handleAddEdge)
	r.Delete("/edges/{id}", s.handleDeleteEdge)

	r.Get("/snapshot.dot", s.handleSnapshotDOT)
	r.Get("/snapshot.svg", s.handleSnapshotSVG)
	return r
}

// ServeHTTP delegates to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Update runs fn with exclusive access to the view, for hosts that mutate
// it outside of requests, such as a file watcher reloading the graph.
func (s *Server) Update(fn func(v *view.GraphView)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.view)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", s.addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

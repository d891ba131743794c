// Package server exposes sync status, archives, run history and digest RSS over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/postsync/pkg/domain"
	"github.com/umputun/postsync/pkg/scheduler"
)

//go:generate moq -out mocks/scheduler.go -pkg mocks -skip-ensure -fmt goimports . Scheduler
//go:generate moq -out mocks/archive.go -pkg mocks -skip-ensure -fmt goimports . Archive
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// Server represents HTTP server instance
type Server struct {
	Params
	now func() time.Time

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Params for New
type Params struct {
	Listen  string
	Timeout time.Duration
	BaseURL string // public url of the server, used for feed self links
	PostURL string // permalink prefix for posts
	Version string
	Debug   bool

	Feeds        []domain.Feed // enabled feeds
	DigestTopN   int
	DigestWindow time.Duration

	Scheduler Scheduler
	Archive   Archive
	Store     Store
	Metrics   http.Handler // served on /metrics if set
}

// Scheduler runs feed syncs on demand and reports its state
type Scheduler interface {
	SyncNow(ctx context.Context, feeds ...domain.Feed) ([]domain.SyncResult, error)
	Status() scheduler.Status
}

// Archive reads the archive of a feed
type Archive interface {
	Load(feed domain.Feed) ([]domain.ClassifiedItem, error)
}

// Store provides read access to pushed records, run history and pending candidates
type Store interface {
	Count(ctx context.Context, feed domain.Feed) (int, error)
	Recent(ctx context.Context, limit int) ([]domain.SyncResult, error)
	List(ctx context.Context, status domain.CandidateStatus) ([]domain.Candidate, error)
}

// New initializes a new server instance
func New(p Params) *Server {
	if len(p.Feeds) == 0 {
		p.Feeds = domain.AllFeeds
	}
	if p.Timeout == 0 {
		p.Timeout = 30 * time.Second
	}
	s := &Server{
		Params: p,
		now:    time.Now,
		router: routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	lgr.Printf("[INFO] starting server on %s", s.Listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              s.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: s.Timeout,
		WriteTimeout:      s.Timeout,
		IdleTimeout:       s.Timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// ServeHTTP makes Server a http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("postsync", "umputun", s.Version))
	s.router.Use(rest.Ping)

	if s.Debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024))
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /archive/{feed}", s.archiveHandler)
		r.HandleFunc("GET /runs", s.runsHandler)
		r.HandleFunc("GET /pending", s.pendingHandler)
		r.HandleFunc("POST /sync/{feed}", s.syncHandler)
	})

	s.router.HandleFunc("GET /rss/{feed}", s.rssHandler)

	if s.Metrics != nil {
		s.router.Handle("GET /metrics", s.Metrics)
	}
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}

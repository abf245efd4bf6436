// Package server exposes the scheduling backend over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/javiermolinar/planboard/internal/planning"
	"github.com/javiermolinar/planboard/internal/slot"
	"github.com/javiermolinar/planboard/internal/task"
)

// Seeder produces the snapshot loaded by the reload route.
type Seeder func(ctx context.Context) (*task.Snapshot, error)

// Options configures a Server.
type Options struct {
	Geometry slot.Geometry
	Seed     Seeder
	Logger   *log.Logger
}

// Server is the scheduling backend.
// Mutations are serialized: each one reads the board, applies, and saves under one lock.
type Server struct {
	repo     task.Repository
	geometry slot.Geometry
	seed     Seeder
	logger   *log.Logger
	router   *gin.Engine

	mu sync.Mutex
}

// New creates a backend server over a repository.
func New(repo task.Repository, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Geometry.TotalSlots == 0 {
		opts.Geometry = slot.New(0, 0, time.Time{})
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(opts.Logger.Writer()), gin.Recovery())

	s := &Server{
		repo:     repo,
		geometry: opts.Geometry,
		seed:     opts.Seed,
		logger:   opts.Logger,
		router:   router,
	}

	router.POST(planning.RouteMove, s.handleMove)
	router.POST(planning.RouteResize, s.handleResize)
	router.POST(planning.RouteResizeAndMove, s.handleResizeAndMove)
	router.POST(planning.RouteKeyboardMove, s.handleKeyboardMove)
	router.GET(planning.RouteSnapshot, s.handleSnapshot)
	router.GET("/debug_tasks", s.handleDebugTasks)

	api := router.Group("/api")
	{
		api.POST("/reload-data", s.handleReload)
	}

	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("planboard backend listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Printf("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

// Reload replaces the stored board with a fresh seed.
func (s *Server) Reload(ctx context.Context) (int, error) {
	if s.seed == nil {
		return 0, errors.New("no seed source configured")
	}

	snap, err := s.seed(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading seed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Replace(ctx, snap); err != nil {
		return 0, fmt.Errorf("replacing data: %w", err)
	}
	return len(snap.Tasks), nil
}

// Package server serves the task store HTTP contract on top of a
// storage.Store. It is the backend the client talks to in development and
// in contract tests.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"tasklist/internal/logging"
	"tasklist/internal/storage"
)

// Routes served by the task API.
const (
	RouteCreate = "/add-task"
	RouteList   = "/get-task"
	RouteUpdate = "/update-task/:id"
	RouteDelete = "/delete-task/:id"
	RouteHealth = "/healthz"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// Server provides HTTP handlers for the task API.
type Server struct {
	engine *gin.Engine
	store  storage.Store
	logger *log.Logger
}

// New constructs the HTTP server with routes and middleware configured.
func New(store storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(logger))

	srv := &Server{
		engine: router,
		store:  store,
		logger: logger,
	}
	srv.registerRoutes()
	return srv
}

// Handler exposes the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.GET(RouteHealth, s.handleHealth)
	s.engine.POST(RouteCreate, s.handleCreateTask)
	s.engine.GET(RouteList, s.handleListTasks)
	s.engine.PUT(RouteUpdate, s.handleUpdateTask)
	s.engine.DELETE(RouteDelete, s.handleDeleteTask)
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     slog.NewLogLogger(logging.Slog(s.logger).Handler(), slog.LevelError),
	}

	s.logger.Info("server starting", "addr", ln.Addr().String())
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped gracefully")
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError logs server-side failures and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "request_id", c.GetString(requestIDKey), "err", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

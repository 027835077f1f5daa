// File: internal/server/server.go
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/internal/config"
)

const shutdownTimeout = 30 * time.Second

// Server exposes the report trigger and metrics over HTTP.
type Server struct {
	cfg        config.ServerConfig
	handlers   *Handlers
	gatherer   prometheus.Gatherer
	logger     *zap.Logger
	httpServer *http.Server
}

// New creates a Server. gatherer may be nil to disable /metrics.
func New(cfg config.ServerConfig, runner ReportRunner, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		handlers: NewHandlers(logger, runner),
		gatherer: gatherer,
		logger:   logger.Named("http_server"),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return s
}

// Router builds the chi router with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	var apiMiddleware []func(http.Handler) http.Handler
	if s.cfg.AuthSecret != "" {
		apiMiddleware = append(apiMiddleware, RequireAdminToken([]byte(s.cfg.AuthSecret), s.logger))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Logger)
		s.handlers.RegisterRoutes(r, apiMiddleware...)
	})
	return r
}

// Serve listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.serveListener(ctx, ln)
}

func (s *Server) serveListener(ctx context.Context, ln net.Listener) error {
	if s.cfg.AuthSecret == "" {
		s.logger.Warn("server.auth_secret is empty; the report API accepts unauthenticated requests")
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Report server starting", zap.String("address", ln.Addr().String()))
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		s.logger.Error("HTTP server Serve error", zap.Error(err))
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Received shutdown signal, shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}
	<-errCh
	s.logger.Info("Report server stopped.")
	return nil
}

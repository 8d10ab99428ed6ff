// Package http provides the JSON API for specd.
//
// Every response uses one envelope shape {success, data?, error?, details?,
// meta?}. All handler failures funnel through a single translator that maps
// domain error kinds to status codes; anything unrecognized becomes an
// opaque 500 with the cause logged server-side only.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/specd/internal/genai"
	"github.com/fyrsmithlabs/specd/internal/spec"
)

// Store is the persistence surface the server depends on.
type Store interface {
	CreateFromAI(ctx context.Context, ai *spec.AIOutput, req *spec.GenerateRequest) (*spec.Spec, error)
	GetSpec(ctx context.Context, id string) (*spec.Spec, error)
	ListSpecs(ctx context.Context, opts spec.ListOptions) ([]spec.ListItem, spec.Pagination, error)
	UpdateSpec(ctx context.Context, id string, p *spec.UpdatePayload) (*spec.Spec, error)
	DeleteSpec(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Server provides the specd HTTP endpoints.
type Server struct {
	echo      *echo.Echo
	store     Store
	generator genai.Generator
	logger    *zap.Logger
	config    *Config
	metrics   *Metrics
	registry  *prometheus.Registry
}

// NewServer creates a new HTTP server wired to the given store and generator.
func NewServer(st Store, gen genai.Generator, logger *zap.Logger, cfg *Config) (*Server, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if gen == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8080}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	s := &Server{
		echo:      e,
		store:     st,
		generator: gen,
		logger:    logger,
		config:    cfg,
		metrics:   metrics,
		registry:  registry,
	}

	e.HTTPErrorHandler = s.httpErrorHandler

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", statusFor(c, err)),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s.registerRoutes()
	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	api := s.echo.Group("/api")
	api.POST("/generate", s.handleGenerate)
	api.GET("/specs", s.handleList)
	api.GET("/specs/:id", s.handleGet)
	api.PATCH("/specs/:id", s.handlePatch)
	api.DELETE("/specs/:id", s.handleDelete)
	api.GET("/specs/:id/export", s.handleExport)
	api.GET("/status", s.handleStatus)

	s.echo.GET("/metrics", echo.WrapHandler(
		promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
}

// statusFor reports the status a request resolves to. An error still
// travelling up to httpErrorHandler has not been written yet, so the
// response status would read as 200; take the code from the error instead.
func statusFor(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return http.StatusInternalServerError
}

// httpErrorHandler renders routing-level failures (unknown routes, method
// mismatches, malformed bodies rejected by echo) in the standard envelope.
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if he, ok := err.(*echo.HTTPError); ok {
		msg := fmt.Sprintf("%v", he.Message)
		if he.Code == http.StatusNotFound {
			msg = "Route not found"
		}
		_ = c.JSON(he.Code, Response{Success: false, Error: msg})
		return
	}

	s.logger.Error("unhandled http error", zap.Error(err))
	_ = c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Error:   "Internal server error",
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

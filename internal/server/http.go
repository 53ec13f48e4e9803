// Package server exposes the region hierarchy service over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"goregion/internal/metrics"
	"goregion/internal/region"
)

// Server wraps the Echo server.
type Server struct {
	echo    *echo.Echo
	handler *Handler
}

// Config holds server configuration options.
type Config struct {
	// MasterKey guards the mutating admin routes (cache invalidation,
	// mirror override). Lookup routes stay public.
	MasterKey string
	// MetricsEnabled exposes Prometheus metrics on /metrics.
	MetricsEnabled bool
}

// New creates the HTTP server around svc.
func New(svc *region.Service, cfg *Config) *Server {
	e := echo.New()
	e.HideBanner = true

	handler := NewHandler(svc)

	e.Use(middleware.Recover())

	e.GET("/health", handler.Health)
	if cfg != nil && cfg.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	// Lookup routes. These never fail outright: worst case is an empty
	// data array, or the static dataset at the province level.
	e.GET("/v1/regions/provinces", handler.Provinces)
	e.GET("/v1/regions/provinces/:code/regencies", handler.Regencies)
	e.GET("/v1/regions/regencies/:code/districts", handler.Districts)
	e.GET("/v1/regions/districts/:code/villages", handler.Villages)
	e.GET("/v1/regions/chain", handler.Chain)

	// Admin routes.
	var masterKey string
	if cfg != nil {
		masterKey = cfg.MasterKey
	}
	e.DELETE("/v1/regions/cache", handler.ClearCache, AuthMiddleware(masterKey))
	e.PUT("/v1/regions/mirror", handler.SetMirror, AuthMiddleware(masterKey))

	return &Server{echo: e, handler: handler}
}

// Start starts the HTTP server on the given address.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP implements http.Handler so the server works with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Package main is the entry point for the region lookup server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goregion/config"
	"goregion/internal/cache"
	"goregion/internal/httpclient"
	"goregion/internal/logging"
	"goregion/internal/race"
	"goregion/internal/region"
	"goregion/internal/server"
	"goregion/internal/sources"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := newStore(cfg)
	if err != nil {
		slog.Error("failed to open cache store", "backend", cfg.CacheBackend, "error", err)
		os.Exit(1)
	}
	slog.Info("cache store ready", "backend", cfg.CacheBackend, "ttl", cfg.CacheTTL)

	client := httpclient.New(nil)

	mirror := sources.NewMirror(cfg.MirrorBaseURL, client)
	srcs := []sources.Source{
		mirror,
		sources.NewDirect(cfg.CanonicalBaseURL, client),
	}
	if cfg.ProxyBaseURL != "" && cfg.ProxyToken != "" {
		srcs = append(srcs, sources.NewProxy(cfg.ProxyBaseURL, cfg.ProxyToken, client))
	}
	prefixes := cfg.RelayPrefixes
	if len(prefixes) == 0 {
		prefixes = sources.DefaultRelayPrefixes
	}
	for i, prefix := range prefixes {
		name := fmt.Sprintf("relay-%d", i+1)
		srcs = append(srcs, sources.NewRelay(name, prefix, cfg.CanonicalBaseURL, client))
	}
	for _, src := range srcs {
		slog.Info("region source registered", "source", src.Name())
	}

	orchestrator := race.New(srcs, cfg.RaceDeadline)
	svc := region.New(context.Background(), region.Config{
		Store:    store,
		Resolver: orchestrator,
		Mirror:   mirror,
	})
	defer svc.Close()

	if cfg.MasterKey == "" {
		slog.Warn("GOREGION_MASTER_KEY not set - admin routes are unauthenticated")
	}

	srv := server.New(svc, &server.Config{
		MasterKey:      cfg.MasterKey,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	addr := ":" + cfg.Port
	slog.Info("starting server", "address", addr)

	if err := srv.Start(addr); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			slog.Info("server stopped gracefully")
		} else {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}
}

func newStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.CacheBackend {
	case config.BackendSQLite:
		return cache.NewSQLiteStore(cfg.CachePath, cfg.CacheTTL)
	case config.BackendRedis:
		return cache.NewRedisStore(cfg.RedisURL, cfg.CacheTTL)
	default:
		return cache.NewFileStore(cfg.CachePath, cfg.CacheTTL)
	}
}

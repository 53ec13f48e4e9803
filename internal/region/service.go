// Package region provides the public hierarchy service consumed by
// address-entry forms: cache-first lookups per level, whole-chain preloads,
// and cache invalidation.
package region

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"golang.org/x/sync/errgroup"

	"goregion/internal/cache"
	"goregion/internal/core"
	"goregion/internal/metrics"
)

// Resolver races the retrieval sources for one lookup. Implemented by
// *race.Orchestrator; an interface here so tests can substitute fakes.
type Resolver interface {
	Resolve(ctx context.Context, kind core.Kind, parentCode string) ([]core.Region, error)
}

// MirrorEndpoint is the runtime-configurable handle on the primary mirror.
// Implemented by *sources.Mirror.
type MirrorEndpoint interface {
	SetBaseURL(url string)
	BaseURL() string
}

// Config holds the service dependencies.
type Config struct {
	// Store is the durable cache. It is wrapped so storage failures
	// degrade to cache misses and never surface to callers.
	Store cache.Store

	// Resolver races the sources on a cache miss.
	Resolver Resolver

	// Mirror, if set, is restored from a persisted administrator override
	// at construction and updated by SetMirrorBaseURL.
	Mirror MirrorEndpoint
}

// Service resolves hierarchical region lookups. Its operations never return
// errors to callers: the worst case is an empty result set, or the embedded
// static dataset at the province level.
type Service struct {
	store    cache.Store
	resolver Resolver
	mirror   MirrorEndpoint
}

// New creates the service and restores any persisted mirror override.
func New(ctx context.Context, cfg Config) *Service {
	s := &Service{
		store:    cache.NewResilient(cfg.Store),
		resolver: cfg.Resolver,
		mirror:   cfg.Mirror,
	}
	if s.mirror != nil {
		if override, ok, _ := s.store.GetConfig(ctx, cache.ConfigMirrorBaseURL); ok && override != "" {
			s.mirror.SetBaseURL(override)
			slog.Info("restored mirror override", "base_url", override)
		}
	}
	return s
}

// Provinces returns the top-level province list. It cannot come back empty:
// on exhaustion the embedded static dataset is served instead.
func (s *Service) Provinces(ctx context.Context) []core.Region {
	return s.lookup(ctx, core.KindProvince, "")
}

// Regencies returns the regencies of one province.
func (s *Service) Regencies(ctx context.Context, provinceCode string) []core.Region {
	return s.lookup(ctx, core.KindRegency, provinceCode)
}

// Districts returns the districts of one regency.
func (s *Service) Districts(ctx context.Context, regencyCode string) []core.Region {
	return s.lookup(ctx, core.KindDistrict, regencyCode)
}

// Villages returns the villages of one district.
func (s *Service) Villages(ctx context.Context, districtCode string) []core.Region {
	return s.lookup(ctx, core.KindVillage, districtCode)
}

// lookup is the shared cache-or-race path. Only race winners are written
// back; exhaustion and fallbacks never touch the cache.
func (s *Service) lookup(ctx context.Context, kind core.Kind, parentCode string) []core.Region {
	// Cheap guard, not a failure: child lookups without a parent code do
	// no network work at all.
	if kind.RequiresParent() && parentCode == "" {
		return []core.Region{}
	}

	key := core.Key{Kind: kind, ParentCode: parentCode}.String()
	if regions, ok, _ := s.store.Get(ctx, key); ok {
		metrics.CacheHitsTotal.Inc()
		return regions
	}
	metrics.CacheMissesTotal.Inc()

	regions, err := s.resolver.Resolve(ctx, kind, parentCode)
	if err != nil {
		if !errors.Is(err, core.ErrAllSourcesExhausted) {
			slog.Warn("region resolve failed", "kind", kind, "parent", parentCode, "error", err)
		}
		if kind == core.KindProvince {
			metrics.StaticFallbackTotal.Inc()
			slog.Warn("province race exhausted, serving static dataset",
				"dataset_version", StaticDatasetVersion)
			return StaticProvinces()
		}
		// An empty child list is a recoverable UI state; an empty
		// province list is not.
		return []core.Region{}
	}

	_ = s.store.Put(ctx, key, regions)
	return core.CloneRegions(regions)
}

// ChainResult holds the four result sets of a whole-chain preload.
type ChainResult struct {
	Provinces []core.Region `json:"provinces"`
	Regencies []core.Region `json:"regencies"`
	Districts []core.Region `json:"districts"`
	Villages  []core.Region `json:"villages"`
}

// PreloadChain fetches all four levels of an existing address concurrently,
// each as an independent cache-or-resolve operation. A child fetch does not
// require its parent to be cached first; every key is resolvable given its
// code.
func (s *Service) PreloadChain(ctx context.Context, provinceCode, regencyCode, districtCode string) *ChainResult {
	var result ChainResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.Provinces = s.Provinces(gctx)
		return nil
	})
	g.Go(func() error {
		result.Regencies = s.Regencies(gctx, provinceCode)
		return nil
	})
	g.Go(func() error {
		result.Districts = s.Districts(gctx, regencyCode)
		return nil
	})
	g.Go(func() error {
		result.Villages = s.Villages(gctx, districtCode)
		return nil
	})
	_ = g.Wait() // lookups never error
	return &result
}

// ClearCache invalidates every cached entry across all kinds. Idempotent.
// The persisted mirror override is configuration, not lookup data, and
// survives.
func (s *Service) ClearCache(ctx context.Context) {
	_ = s.store.Clear(ctx, cache.MatchAll)
	slog.Info("region cache cleared")
}

// SetMirrorBaseURL updates the primary mirror endpoint at runtime and
// persists the override. An empty raw URL removes the override and restores
// the hardcoded default.
func (s *Service) SetMirrorBaseURL(ctx context.Context, raw string) error {
	if s.mirror == nil {
		return fmt.Errorf("no mirror configured")
	}
	if raw != "" {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid mirror base URL: %q", raw)
		}
	}
	s.mirror.SetBaseURL(raw)
	_ = s.store.SetConfig(ctx, cache.ConfigMirrorBaseURL, raw)
	slog.Info("mirror base URL updated", "base_url", s.mirror.BaseURL())
	return nil
}

// MirrorBaseURL returns the mirror endpoint currently in effect.
func (s *Service) MirrorBaseURL() string {
	if s.mirror == nil {
		return ""
	}
	return s.mirror.BaseURL()
}

// Close releases the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}

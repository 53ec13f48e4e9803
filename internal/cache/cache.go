// Package cache provides the durable store for resolved region lookups.
// Backends exist for local files (single instance), SQLite, and Redis
// (multi-instance deployments); all share the same key namespace and
// {data, stored_at} record layout.
package cache

import (
	"context"
	"time"

	"goregion/internal/core"
)

const (
	// DefaultTTL is how long a cached lookup stays valid (24 hours).
	DefaultTTL = 24 * time.Hour

	// ConfigMirrorBaseURL is the reserved key holding the administrator
	// override for the primary mirror's base URL.
	ConfigMirrorBaseURL = core.KeyNamespace + "config:mirror_base_url"

	configPrefix = core.KeyNamespace + "config:"
)

// Entry is the persisted record for one lookup key.
// An entry is valid for reads iff now - StoredAt < TTL; expired entries are
// treated as absent and purged lazily on the access that finds them.
type Entry struct {
	Data     []core.Region `json:"data"`
	StoredAt time.Time     `json:"stored_at"`
}

// Expired reports whether the entry has outlived ttl at the given instant.
func (e Entry) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.StoredAt) >= ttl
}

// Predicate selects keys for Clear.
type Predicate func(key string) bool

// MatchAll selects every lookup entry (full invalidation).
func MatchAll(string) bool { return true }

// MatchKind selects entries of a single lookup kind, for partial
// invalidation.
func MatchKind(kind core.Kind) Predicate {
	prefix := core.Key{Kind: kind}.String()
	return func(key string) bool {
		if key == prefix {
			return true
		}
		return len(key) > len(prefix) && key[:len(prefix)+1] == prefix+":"
	}
}

// Store is the durable cache contract. Implementations must be safe for
// concurrent use and must make individual key reads and writes atomic;
// no cross-key transactionality is required.
//
// Clear never touches reserved config keys: the mirror override survives a
// full cache invalidation.
type Store interface {
	// Get returns the cached regions for key if present and unexpired.
	// A stale entry is removed as a side effect and reported as absent.
	Get(ctx context.Context, key string) ([]core.Region, bool, error)

	// Put unconditionally replaces the whole value for key, stamped with
	// the current time. Callers must not Put empty slices; the store does
	// not enforce this (service-layer responsibility).
	Put(ctx context.Context, key string, regions []core.Region) error

	// Clear removes every lookup entry whose key matches.
	Clear(ctx context.Context, match Predicate) error

	// GetConfig reads a reserved configuration value.
	GetConfig(ctx context.Context, key string) (string, bool, error)

	// SetConfig writes a reserved configuration value. An empty value
	// removes the key.
	SetConfig(ctx context.Context, key, value string) error

	// Close releases any resources held by the store.
	Close() error
}

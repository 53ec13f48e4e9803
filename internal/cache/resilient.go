package cache

import (
	"context"
	"log/slog"

	"goregion/internal/core"
)

// Resilient wraps a Store and absorbs every storage failure: reads degrade
// to misses, writes to no-ops, with a warning logged. Address lookups must
// never hard-fail because local storage is full or corrupted.
type Resilient struct {
	inner Store
}

// NewResilient wraps store. Wrapping an already-resilient store returns it
// unchanged.
func NewResilient(store Store) *Resilient {
	if r, ok := store.(*Resilient); ok {
		return r
	}
	return &Resilient{inner: store}
}

func (r *Resilient) Get(ctx context.Context, key string) ([]core.Region, bool, error) {
	regions, ok, err := r.inner.Get(ctx, key)
	if err != nil {
		slog.Warn("region cache read failed, treating as miss", "key", key, "error", err)
		return nil, false, nil
	}
	return regions, ok, nil
}

func (r *Resilient) Put(ctx context.Context, key string, regions []core.Region) error {
	if err := r.inner.Put(ctx, key, regions); err != nil {
		slog.Warn("region cache write failed, result not cached", "key", key, "error", err)
	}
	return nil
}

func (r *Resilient) Clear(ctx context.Context, match Predicate) error {
	if err := r.inner.Clear(ctx, match); err != nil {
		slog.Warn("region cache clear failed", "error", err)
	}
	return nil
}

func (r *Resilient) GetConfig(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := r.inner.GetConfig(ctx, key)
	if err != nil {
		slog.Warn("region config read failed", "key", key, "error", err)
		return "", false, nil
	}
	return value, ok, nil
}

func (r *Resilient) SetConfig(ctx context.Context, key, value string) error {
	if err := r.inner.SetConfig(ctx, key, value); err != nil {
		slog.Warn("region config write failed", "key", key, "error", err)
	}
	return nil
}

func (r *Resilient) Close() error { return r.inner.Close() }

package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"goregion/internal/core"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "regions.db"), time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	key := core.Key{Kind: core.KindRegency, ParentCode: "32"}.String()

	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	want := []core.Region{{Code: "3201", Name: "Kab. Bogor"}}
	if err := store.Put(ctx, key, want); err != nil {
		t.Fatalf("unexpected error on put: %v", err)
	}

	got, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	// Put replaces the whole value.
	if err := store.Put(ctx, key, []core.Region{{Code: "3202", Name: "Kab. Sukabumi"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _, _ = store.Get(ctx, key)
	if len(got) != 1 || got[0].Code != "3202" {
		t.Fatalf("expected replacement, got %+v", got)
	}
}

func TestSQLiteStoreExpiryPurgeIsPermanent(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	key := core.Key{Kind: core.KindDistrict, ParentCode: "3201"}.String()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	store.now = func() time.Time { return now }

	if err := store.Put(ctx, key, []core.Region{{Code: "3201010", Name: "Cibinong"}}); err != nil {
		t.Fatalf("unexpected error on put: %v", err)
	}

	now = base.Add(time.Hour - time.Second)
	if _, ok, _ := store.Get(ctx, key); !ok {
		t.Fatal("expected hit inside TTL window")
	}

	now = base.Add(time.Hour)
	if _, ok, _ := store.Get(ctx, key); ok {
		t.Fatal("expected miss after TTL elapsed")
	}

	// Rolling the clock back must not resurrect the purged row.
	now = base
	if _, ok, _ := store.Get(ctx, key); ok {
		t.Fatal("lazy purge must be permanent even if the clock rolls back")
	}
}

func TestSQLiteStoreClearPreservesConfig(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	provinces := core.Key{Kind: core.KindProvince}.String()
	regencies := core.Key{Kind: core.KindRegency, ParentCode: "32"}.String()
	if err := store.Put(ctx, provinces, []core.Region{{Code: "32", Name: "Jawa Barat"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Put(ctx, regencies, []core.Region{{Code: "3201", Name: "Kab. Bogor"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SetConfig(ctx, ConfigMirrorBaseURL, "https://mirror.example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Clear(ctx, MatchKind(core.KindRegency)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, regencies); ok {
		t.Error("regency row should be gone after partial clear")
	}
	if _, ok, _ := store.Get(ctx, provinces); !ok {
		t.Error("province row should survive partial clear")
	}

	if err := store.Clear(ctx, MatchAll); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, provinces); ok {
		t.Error("cache should be empty after full clear")
	}
	if v, ok, _ := store.GetConfig(ctx, ConfigMirrorBaseURL); !ok || v != "https://mirror.example.com" {
		t.Error("mirror override must survive a full cache clear")
	}
}

func TestSQLiteStoreConfigRoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	if _, ok, _ := store.GetConfig(ctx, ConfigMirrorBaseURL); ok {
		t.Fatal("expected no config value initially")
	}
	if err := store.SetConfig(ctx, ConfigMirrorBaseURL, "https://alt.example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok, _ := store.GetConfig(ctx, ConfigMirrorBaseURL); !ok || v != "https://alt.example.com" {
		t.Fatalf("got %q ok=%v", v, ok)
	}
	if err := store.SetConfig(ctx, ConfigMirrorBaseURL, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := store.GetConfig(ctx, ConfigMirrorBaseURL); ok {
		t.Fatal("expected config value removed")
	}
}

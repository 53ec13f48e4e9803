package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"goregion/internal/core"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "regions.json"), time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return store
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()
	key := core.Key{Kind: core.KindRegency, ParentCode: "32"}.String()

	// Initially absent
	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	want := []core.Region{
		{Code: "3201", Name: "Kab. Bogor"},
		{Code: "3202", Name: "Kab. Sukabumi"},
	}
	if err := store.Put(ctx, key, want); err != nil {
		t.Fatalf("unexpected error on put: %v", err)
	}

	got, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d regions, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("region %d mismatch: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.json")
	ctx := context.Background()
	key := core.Key{Kind: core.KindProvince}.String()

	store, err := NewFileStore(path, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Put(ctx, key, []core.Region{{Code: "32", Name: "Jawa Barat"}}); err != nil {
		t.Fatalf("unexpected error on put: %v", err)
	}

	reopened, err := NewFileStore(path, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error on reopen: %v", err)
	}
	got, ok, err := reopened.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit after reopen, got ok=%v err=%v", ok, err)
	}
	if got[0].Name != "Jawa Barat" {
		t.Errorf("got %q, want %q", got[0].Name, "Jawa Barat")
	}
}

func TestFileStoreExpiryPurgeIsPermanent(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()
	key := core.Key{Kind: core.KindDistrict, ParentCode: "3201"}.String()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	store.now = func() time.Time { return now }

	if err := store.Put(ctx, key, []core.Region{{Code: "3201010", Name: "Cibinong"}}); err != nil {
		t.Fatalf("unexpected error on put: %v", err)
	}

	// Just inside the TTL window: still a hit.
	now = base.Add(time.Hour - time.Second)
	if _, ok, _ := store.Get(ctx, key); !ok {
		t.Fatal("expected hit inside TTL window")
	}

	// Past the window: absent, and the entry is purged.
	now = base.Add(time.Hour)
	if _, ok, _ := store.Get(ctx, key); ok {
		t.Fatal("expected miss after TTL elapsed")
	}

	// Rolling the clock back must not resurrect the purged entry.
	now = base
	if _, ok, _ := store.Get(ctx, key); ok {
		t.Fatal("lazy purge must be permanent even if the clock rolls back")
	}
}

func TestFileStorePutReplacesWholeValue(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()
	key := core.Key{Kind: core.KindVillage, ParentCode: "3201010"}.String()

	if err := store.Put(ctx, key, []core.Region{{Code: "1", Name: "A"}, {Code: "2", Name: "B"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Put(ctx, key, []core.Region{{Code: "3", Name: "C"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, _ := store.Get(ctx, key)
	if !ok || len(got) != 1 || got[0].Code != "3" {
		t.Fatalf("expected second write to replace the first, got %+v", got)
	}
}

func TestFileStoreClear(t *testing.T) {
	store := newTestFileStore(t)
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

	// Partial invalidation leaves other kinds alone.
	if err := store.Clear(ctx, MatchKind(core.KindRegency)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, regencies); ok {
		t.Error("regency entry should be gone after partial clear")
	}
	if _, ok, _ := store.Get(ctx, provinces); !ok {
		t.Error("province entry should survive partial clear")
	}

	// Full invalidation is idempotent and never touches config.
	for i := 0; i < 2; i++ {
		if err := store.Clear(ctx, MatchAll); err != nil {
			t.Fatalf("unexpected error on clear #%d: %v", i+1, err)
		}
		if _, ok, _ := store.Get(ctx, provinces); ok {
			t.Fatalf("cache should be empty after clear #%d", i+1)
		}
	}
	if v, ok, _ := store.GetConfig(ctx, ConfigMirrorBaseURL); !ok || v != "https://mirror.example.com" {
		t.Error("mirror override must survive a full cache clear")
	}
}

func TestFileStoreConfigRoundTrip(t *testing.T) {
	store := newTestFileStore(t)
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
	// Empty value removes the key.
	if err := store.SetConfig(ctx, ConfigMirrorBaseURL, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := store.GetConfig(ctx, ConfigMirrorBaseURL); ok {
		t.Fatal("expected config value removed")
	}

	// Keys outside the reserved namespace are rejected.
	if err := store.SetConfig(ctx, "region:v1:province", "nope"); err == nil {
		t.Fatal("expected error for non-config key")
	}
}

package cache

import (
	"context"
	"errors"
	"testing"

	"goregion/internal/core"
)

// failingStore errors on every operation, simulating quota exhaustion or a
// corrupted backing file.
type failingStore struct{}

var errBroken = errors.New("storage broken")

func (failingStore) Get(context.Context, string) ([]core.Region, bool, error) {
	return nil, false, errBroken
}
func (failingStore) Put(context.Context, string, []core.Region) error { return errBroken }
func (failingStore) Clear(context.Context, Predicate) error           { return errBroken }
func (failingStore) GetConfig(context.Context, string) (string, bool, error) {
	return "", false, errBroken
}
func (failingStore) SetConfig(context.Context, string, string) error { return errBroken }
func (failingStore) Close() error                                    { return nil }

func TestResilientAbsorbsStorageFailures(t *testing.T) {
	store := NewResilient(failingStore{})
	ctx := context.Background()
	key := core.Key{Kind: core.KindProvince}.String()

	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Errorf("read failure should degrade to a miss, got ok=%v err=%v", ok, err)
	}
	if err := store.Put(ctx, key, []core.Region{{Code: "32", Name: "Jawa Barat"}}); err != nil {
		t.Errorf("write failure should be absorbed, got %v", err)
	}
	if err := store.Clear(ctx, MatchAll); err != nil {
		t.Errorf("clear failure should be absorbed, got %v", err)
	}
	if _, ok, err := store.GetConfig(ctx, ConfigMirrorBaseURL); err != nil || ok {
		t.Errorf("config read failure should degrade to absent, got ok=%v err=%v", ok, err)
	}
	if err := store.SetConfig(ctx, ConfigMirrorBaseURL, "x"); err != nil {
		t.Errorf("config write failure should be absorbed, got %v", err)
	}
}

func TestResilientIsIdempotentWrap(t *testing.T) {
	inner := NewResilient(failingStore{})
	if NewResilient(inner) != inner {
		t.Error("double wrap should return the same store")
	}
}

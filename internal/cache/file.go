package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"goregion/internal/core"
)

// fileState is the on-disk layout of the file store: all lookup entries and
// reserved config values in one JSON document.
type fileState struct {
	Entries map[string]Entry  `json:"entries"`
	Config  map[string]string `json:"config,omitempty"`
}

// FileStore implements Store on a local JSON file. This is the default
// backend: durable across process restarts, suitable for single-instance
// deployments. Writes go through a temp file + rename so a crash never
// leaves a partially written cache.
type FileStore struct {
	mu    sync.Mutex
	path  string
	ttl   time.Duration
	now   func() time.Time
	state fileState
}

// NewFileStore opens (or creates) the cache file at path.
func NewFileStore(path string, ttl time.Duration) (*FileStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &FileStore{
		path:  path,
		ttl:   ttl,
		now:   time.Now,
		state: fileState{Entries: map[string]Entry{}, Config: map[string]string{}},
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil // no cache file yet, not an error
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if s.state.Entries == nil {
		s.state.Entries = map[string]Entry{}
	}
	if s.state.Config == nil {
		s.state.Config = map[string]string{}
	}
	return s, nil
}

// Get returns the cached regions for key, lazily purging a stale entry.
func (s *FileStore) Get(_ context.Context, key string) ([]core.Region, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.state.Entries[key]
	if !ok {
		return nil, false, nil
	}
	if entry.Expired(s.now(), s.ttl) {
		delete(s.state.Entries, key)
		if err := s.persistLocked(); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}
	return core.CloneRegions(entry.Data), true, nil
}

// Put replaces the entry for key atomically.
func (s *FileStore) Put(_ context.Context, key string, regions []core.Region) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Entries[key] = Entry{Data: core.CloneRegions(regions), StoredAt: s.now()}
	return s.persistLocked()
}

// Clear removes all lookup entries matching the predicate. Config values
// are kept regardless.
func (s *FileStore) Clear(_ context.Context, match Predicate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.state.Entries {
		if match(key) {
			delete(s.state.Entries, key)
		}
	}
	return s.persistLocked()
}

// GetConfig reads a reserved config value.
func (s *FileStore) GetConfig(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.state.Config[key]
	return v, ok, nil
}

// SetConfig writes (or, for empty values, removes) a reserved config value.
func (s *FileStore) SetConfig(_ context.Context, key, value string) error {
	if !strings.HasPrefix(key, configPrefix) {
		return fmt.Errorf("config key %q outside reserved namespace", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if value == "" {
		delete(s.state.Config, key)
	} else {
		s.state.Config[key] = value
	}
	return s.persistLocked()
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error { return nil }

// persistLocked writes the whole state atomically. Callers hold s.mu.
func (s *FileStore) persistLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("failed to marshal cache state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}
	return nil
}

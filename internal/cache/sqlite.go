package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"goregion/internal/core"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS region_cache (
	key       TEXT PRIMARY KEY,
	data      TEXT NOT NULL,
	stored_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS region_config (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// SQLiteStore implements Store on a local SQLite database. It keeps the
// same record layout as the file store but scales to larger village-level
// caches without rewriting one big JSON document per Put.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database at path.
// WAL mode allows concurrent reads while writing.
func NewSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	dsn := fmt.Sprintf("%s?_journal=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite serializes writes anyway; one connection avoids lock churn.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &SQLiteStore{db: db, ttl: ttl, now: time.Now}, nil
}

// Get returns the cached regions for key, lazily purging a stale row.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]core.Region, bool, error) {
	var data string
	var storedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT data, stored_at FROM region_cache WHERE key = ?`, key,
	).Scan(&data, &storedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache row: %w", err)
	}

	entry := Entry{StoredAt: time.Unix(storedAt, 0)}
	if entry.Expired(s.now(), s.ttl) {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM region_cache WHERE key = ?`, key); err != nil {
			return nil, false, fmt.Errorf("failed to purge stale row: %w", err)
		}
		return nil, false, nil
	}

	var regions []core.Region
	if err := json.Unmarshal([]byte(data), &regions); err != nil {
		return nil, false, fmt.Errorf("failed to parse cache row: %w", err)
	}
	return regions, true, nil
}

// Put replaces the row for key atomically.
func (s *SQLiteStore) Put(ctx context.Context, key string, regions []core.Region) error {
	data, err := json.Marshal(regions)
	if err != nil {
		return fmt.Errorf("failed to marshal regions: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO region_cache (key, data, stored_at) VALUES (?, ?, ?)`,
		key, string(data), s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache row: %w", err)
	}
	return nil
}

// Clear removes all lookup rows matching the predicate.
func (s *SQLiteStore) Clear(ctx context.Context, match Predicate) error {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM region_cache`)
	if err != nil {
		return fmt.Errorf("failed to list cache keys: %w", err)
	}
	var doomed []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan cache key: %w", err)
		}
		if match(key) {
			doomed = append(doomed, key)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to iterate cache keys: %w", err)
	}
	rows.Close()

	for _, key := range doomed {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM region_cache WHERE key = ?`, key); err != nil {
			return fmt.Errorf("failed to delete cache row: %w", err)
		}
	}
	return nil
}

// GetConfig reads a reserved config value.
func (s *SQLiteStore) GetConfig(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM region_config WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read config row: %w", err)
	}
	return value, true, nil
}

// SetConfig writes (or, for empty values, removes) a reserved config value.
func (s *SQLiteStore) SetConfig(ctx context.Context, key, value string) error {
	if value == "" {
		_, err := s.db.ExecContext(ctx, `DELETE FROM region_config WHERE key = ?`, key)
		if err != nil {
			return fmt.Errorf("failed to delete config row: %w", err)
		}
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO region_config (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write config row: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

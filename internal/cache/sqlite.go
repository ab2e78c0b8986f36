package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/megamenu/internal/menu"
)

// cacheKey identifies the single menu slot. The original stored the entry
// under one fixed key in browser-local storage; the table mirrors that.
const cacheKey = "mega_menu_cache"

// SQLite is a persistent single-key cache backed by SQLite.
// Use ":memory:" for an in-memory database, or a file path for persistence
// across process restarts.
type SQLite struct {
	db  *sql.DB
	mu  sync.Mutex
	ttl time.Duration
	now clock
}

// NewSQLite opens (and if needed initializes) the cache database.
func NewSQLite(dbPath string, ttl time.Duration, now clock) (*SQLite, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &SQLite{db: db, ttl: ttl, now: orSystemClock(now)}
	if err := s.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS menu_cache (
		key TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		timestamp INTEGER NOT NULL,
		expiry INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Read returns the cached menu if present and unexpired. Expired entries and
// entries whose payload fails to deserialize (corruption) are evicted and
// reported as a miss.
func (s *SQLite) Read(ctx context.Context) (menu.MenuData, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payload []byte
	var expiry int64
	row := s.db.QueryRowContext(ctx,
		"SELECT data, expiry FROM menu_cache WHERE key = ?", cacheKey)
	if err := row.Scan(&payload, &expiry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return menu.MenuData{}, false, nil
		}
		return menu.MenuData{}, false, fmt.Errorf("read cache entry: %w", err)
	}

	if s.now().After(time.Unix(expiry, 0)) {
		_ = s.evictLocked(ctx)
		return menu.MenuData{}, false, nil
	}

	var data menu.MenuData
	if err := json.Unmarshal(payload, &data); err != nil || data.Validate() != nil {
		// Corrupt entry: evict and treat as a miss, never surface the error.
		slog.Warn("Evicting corrupt menu cache entry", "error", err)
		_ = s.evictLocked(ctx)
		return menu.MenuData{}, false, nil
	}
	return data, true, nil
}

// Write stores the menu with a fresh expiry of now+TTL, replacing any
// previous entry.
func (s *SQLite) Write(ctx context.Context, data menu.MenuData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO menu_cache (key, data, timestamp, expiry) VALUES (?, ?, ?, ?)",
		cacheKey, payload, now.Unix(), now.Add(s.ttl).Unix())
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Evict drops the cached entry.
func (s *SQLite) Evict(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictLocked(ctx)
}

func (s *SQLite) evictLocked(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM menu_cache WHERE key = ?", cacheKey)
	if err != nil {
		return fmt.Errorf("evict cache entry: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

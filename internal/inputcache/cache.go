// Package inputcache persists previously entered bookmark summaries so
// interactive sessions can recall them across process runs.
package inputcache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// retention is how long an entry survives without being rewritten.
// The sweep in Open deletes anything older.
const retention = 30 * 24 * time.Hour

// ErrNotFound indicates no summary is stored for the URL.
var ErrNotFound = errors.New("summary not found")

// Cache is a durable URL -> summary map backed by a local SQLite file.
// One process at a time; callers hold the foxtail lockfile around it.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache at path, then sweeps every
// entry last written more than 30 days ago. The sweep is unconditional
// and completes before the cache is usable.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening input cache: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	c := &Cache{db: db}
	if err := c.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := c.sweep(time.Now()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS input (
			url        TEXT PRIMARY KEY,
			summary    TEXT NOT NULL DEFAULT '',
			time_added INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Cache) sweep(now time.Time) error {
	cutoff := now.Add(-retention).Unix()
	if _, err := c.db.Exec(`DELETE FROM input WHERE time_added < ?`, cutoff); err != nil {
		return fmt.Errorf("sweeping expired entries: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Contains reports whether a summary is stored for url.
func (c *Cache) Contains(url string) (bool, error) {
	var one int
	err := c.db.QueryRow(`SELECT 1 FROM input WHERE url = ?`, url).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking cache for %q: %w", url, err)
	}
	return true, nil
}

// Get returns the stored summary for url, or ErrNotFound.
func (c *Cache) Get(url string) (string, error) {
	var summary string
	err := c.db.QueryRow(`SELECT summary FROM input WHERE url = ?`, url).Scan(&summary)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading cache for %q: %w", url, err)
	}
	return summary, nil
}

// GetOrDefault returns the stored summary for url, or fallback when absent.
// Unexpected storage errors also yield the fallback.
func (c *Cache) GetOrDefault(url, fallback string) string {
	summary, err := c.Get(url)
	if err != nil {
		return fallback
	}
	return summary
}

// Set upserts the summary for url, refreshing its write timestamp. The
// upsert is a single statement so an interrupted process never leaves a
// half-written entry.
func (c *Cache) Set(url, summary string) error {
	_, err := c.db.Exec(`
		INSERT INTO input (url, summary, time_added) VALUES (?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			summary = excluded.summary,
			time_added = excluded.time_added
	`, url, summary, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("storing summary for %q: %w", url, err)
	}
	return nil
}

// Package cache provides the SQLite-backed scan cache.
// The cache is stored in .rsfix/cache.db and remembers which files a scan
// found nothing to rewrite in, so unchanged files are not parsed again.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// FileName is the cache database file inside the config directory.
const FileName = "cache.db"

// Cache manages the .rsfix/cache.db SQLite database.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the cache database in dir, usually the .rsfix
// directory. It initializes the schema if the database is new.
func Open(dir string) (*Cache, error) {
	dbPath := filepath.Join(dir, FileName)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	// Scans write from many goroutines; one connection serializes them.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	cache := &Cache{db: db, dbPath: dbPath}
	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return cache, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Clear removes all cached data.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM clean_files"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.dbPath
}

// Stats summarizes the cache contents.
type Stats struct {
	Path  string
	Files int64
	Hits  int64
}

// GetStats returns statistics about the cache contents.
func (c *Cache) GetStats() (*Stats, error) {
	stats := Stats{Path: c.dbPath}
	err := c.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM clean_files").
		Scan(&stats.Files, &stats.Hits)
	if err != nil {
		return nil, fmt.Errorf("cache stats: %w", err)
	}
	return &stats, nil
}

// Hash fingerprints file content scanned with a given set of assists. A
// change to either invalidates the cached entry.
func Hash(content []byte, assists string) string {
	h := sha256.New()
	h.Write([]byte(assists))
	h.Write([]byte{0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Entry is one file recorded clean.
type Entry struct {
	Path        string
	Fingerprint string
	RecordedAt  time.Time
	// Hits counts the scans that skipped the file since it was recorded.
	Hits int64
}

// MarkClean records that path, with content fingerprint fp, needs no
// rewrite. Recording a new fingerprint resets the hit count.
func (c *Cache) MarkClean(path, fp string) error {
	_, err := c.db.Exec(`
		INSERT INTO clean_files (path, fingerprint, recorded_at, hits)
		VALUES (?, ?, ?, 0)
		ON CONFLICT(path) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			recorded_at = excluded.recorded_at,
			hits = 0`,
		path, fp, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("mark clean %s: %w", path, err)
	}
	return nil
}

// IsClean reports whether path was recorded clean with fingerprint fp,
// counting a hit when it was.
func (c *Cache) IsClean(path, fp string) (bool, error) {
	res, err := c.db.Exec(
		"UPDATE clean_files SET hits = hits + 1 WHERE path = ? AND fingerprint = ?",
		path, fp,
	)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check %s: %w", path, err)
	}
	return n == 1, nil
}

// Forget removes path from the index.
func (c *Cache) Forget(path string) error {
	if _, err := c.db.Exec("DELETE FROM clean_files WHERE path = ?", path); err != nil {
		return fmt.Errorf("forget %s: %w", path, err)
	}
	return nil
}

// Entry returns the entry for path, or sql.ErrNoRows.
func (c *Cache) Entry(path string) (*Entry, error) {
	row := c.db.QueryRow(
		"SELECT path, fingerprint, recorded_at, hits FROM clean_files WHERE path = ?", path)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", path, err)
	}
	return e, nil
}

// Entries returns every entry ordered by path.
func (c *Cache) Entries() ([]Entry, error) {
	rows, err := c.db.Query(
		"SELECT path, fingerprint, recorded_at, hits FROM clean_files ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Prune removes the entries whose path keep rejects and returns how many
// were removed.
func (c *Cache) Prune(keep func(path string) bool) (int, error) {
	entries, err := c.Entries()
	if err != nil {
		return 0, err
	}

	tx, err := c.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	pruned := 0
	for _, e := range entries {
		if keep(e.Path) {
			continue
		}
		if _, err := tx.Exec("DELETE FROM clean_files WHERE path = ?", e.Path); err != nil {
			return 0, fmt.Errorf("prune %s: %w", e.Path, err)
		}
		pruned++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("prune: %w", err)
	}
	return pruned, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(r rowScanner) (*Entry, error) {
	var (
		e        Entry
		recorded int64
	)
	if err := r.Scan(&e.Path, &e.Fingerprint, &recorded, &e.Hits); err != nil {
		return nil, err
	}
	e.RecordedAt = time.Unix(recorded, 0)
	return &e, nil
}

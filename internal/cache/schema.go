package cache

import "fmt"

// schemaVersion is stored in PRAGMA user_version. A database written by
// another version is rebuilt; its entries are only an optimization.
const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS clean_files (
    path        TEXT PRIMARY KEY,
    fingerprint TEXT NOT NULL,
    recorded_at INTEGER NOT NULL,
    hits        INTEGER NOT NULL DEFAULT 0
);
`

func (c *Cache) initSchema() error {
	var version int
	if err := c.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version == schemaVersion {
		return nil
	}

	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DROP TABLE IF EXISTS clean_files"); err != nil {
		return err
	}
	if _, err := tx.Exec(schemaSQL); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

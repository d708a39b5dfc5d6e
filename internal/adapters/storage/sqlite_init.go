package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite database schema.
func InitSqliteSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createKVStoreQuery := `
	CREATE TABLE IF NOT EXISTS kv_store (
        namespace TEXT NOT NULL,
        key TEXT NOT NULL,
        value TEXT NOT NULL,
        PRIMARY KEY (namespace, key)
    );
	`

	createOverridesQuery := `
	CREATE TABLE IF NOT EXISTS coord_overrides (
        namespace TEXT NOT NULL,
        poi_id TEXT NOT NULL,
        lat REAL NOT NULL,
        lon REAL NOT NULL,
        source TEXT NOT NULL,
        PRIMARY KEY (namespace, poi_id)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_kv_store_namespace
    ON kv_store(namespace);
	`

	statements := []string{
		createKVStoreQuery,
		createOverridesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

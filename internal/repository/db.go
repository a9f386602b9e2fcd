package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB connection and provides access to stores.
type DB struct {
	*sql.DB
	Runs *RunStore
}

// Open opens the embedded database and initializes stores.
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	database := &DB{
		DB:   db,
		Runs: NewRunStore(db),
	}
	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return database, nil
}

func (db *DB) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	created_at      TEXT NOT NULL,
	mode            TEXT NOT NULL,
	success         INTEGER NOT NULL,
	input_length    INTEGER NOT NULL,
	parsed_count    INTEGER NOT NULL,
	processed_count INTEGER NOT NULL,
	output_file     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`
	_, err := db.Exec(schema)
	return err
}

// IsHealthy reports whether the database connection is usable.
func (db *DB) IsHealthy() error {
	return db.Ping()
}

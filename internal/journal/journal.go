// Package journal is an append-only SQLite log of completed pomodoro sessions.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Journal struct {
	db *sql.DB
}

// New opens (or creates) the journal at dbPath and runs migrations.
func New(dbPath string) (*Journal, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return j, nil
}

// NewMemory creates an in-memory journal for testing.
func NewMemory() (*Journal, error) {
	return New(":memory:")
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) migrate() error {
	var version int
	err := j.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := j.migrateV1(); err != nil {
			return err
		}
	}

	_, err = j.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (j *Journal) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS timesheets (
		id           TEXT PRIMARY KEY,
		database_id  TEXT NOT NULL,
		project_id   TEXT NOT NULL,
		project_name TEXT NOT NULL DEFAULT '',
		timer_value  INTEGER NOT NULL,
		created_at   TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_timesheets_project ON timesheets(project_id);
	CREATE INDEX IF NOT EXISTS idx_timesheets_created ON timesheets(created_at);
	`
	_, err := j.db.Exec(ddl)
	return err
}

package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Single writer: the recorder and HTTP admin routes share one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

// "case" and "current" are SQL keywords, hence case_temp and current_a.
const schemaHistory = `
CREATE TABLE IF NOT EXISTS history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp_ms INTEGER NOT NULL,
    mode TEXT NOT NULL DEFAULT '',
    pump BOOLEAN NOT NULL,
    case_temp REAL NOT NULL,
    water REAL NOT NULL,
    outlet REAL NOT NULL,
    inlet REAL NOT NULL,
    discharge REAL NOT NULL,
    suction REAL NOT NULL,
    evaporator REAL NOT NULL,
    ambient REAL NOT NULL,
    compspeed INTEGER NOT NULL,
    waterspeed INTEGER NOT NULL,
    fanspeed INTEGER NOT NULL,
    power INTEGER NOT NULL,
    current_a REAL NOT NULL,
    hours REAL NOT NULL,
    starts REAL NOT NULL,
    boost BOOLEAN NOT NULL
);
`

const schemaHistoryIndex = `CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history (timestamp_ms);`

const schemaBoostEvents = `
CREATE TABLE IF NOT EXISTS boost_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaHistory,
		schemaHistoryIndex,
		schemaBoostEvents,
		schemaUsers,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}

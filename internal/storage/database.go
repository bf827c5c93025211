// Package storage holds the optional SQLite audit log of classification calls.
package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" database/sql driver
)

const schema = `
CREATE TABLE IF NOT EXISTS classification_calls (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    prompt      TEXT NOT NULL,
    provider    TEXT NOT NULL,
    model       TEXT NOT NULL,
    strategy    TEXT,
    success     BOOLEAN NOT NULL DEFAULT 0,
    duration_ms INTEGER,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_classification_calls_strategy ON classification_calls(strategy);
CREATE INDEX IF NOT EXISTS idx_classification_calls_created_at ON classification_calls(created_at);
`

// NewDatabase creates a new SQLite connection and runs migrations.
// The constructor creates the resource AND validates it (Ping); if anything
// fails, the caller gets an error and no open handle.
func NewDatabase(dbPath string) (*sqlx.DB, error) {
	// WAL lets readers proceed while the request path writes; busy_timeout
	// waits on lock contention instead of failing.
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", dbPath)

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Ping actually opens the connection (Open is lazy in database/sql)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// SQLite performs best with a single writer connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

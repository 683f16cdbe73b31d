package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// TimeFormat is the canonical format for datetime values bound to queries.
// It matches what SQLite's CURRENT_TIMESTAMP produces, so string comparison
// of datetime columns orders correctly.
const TimeFormat = "2006-01-02 15:04:05"

// FormatTime renders t in UTC in the canonical datetime format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// Open opens a SQLite database connection and configures pragmas.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set pragmas for performance and correctness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	return db, nil
}

package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS classrooms (
    id         INTEGER PRIMARY KEY,
    handle     TEXT NOT NULL UNIQUE,
    code       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS students (
    id           INTEGER PRIMARY KEY,
    classroom_id INTEGER NOT NULL REFERENCES classrooms(id),
    name         TEXT NOT NULL,
    code         TEXT NOT NULL,
    one_time     INTEGER NOT NULL DEFAULT 0,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (classroom_id, code)
);

CREATE TABLE IF NOT EXISTS items (
    id           INTEGER PRIMARY KEY,
    classroom_id INTEGER NOT NULL REFERENCES classrooms(id),
    code         TEXT NOT NULL,
    name         TEXT NOT NULL,
    status       TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'out', 'pending')),
    holder_name  TEXT,
    holder_id    INTEGER REFERENCES students(id) ON DELETE SET NULL,
    one_time     INTEGER NOT NULL DEFAULT 0,
    image        BLOB,
    image_mime   TEXT,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (classroom_id, code),
    CHECK ((status = 'available') = (holder_name IS NULL OR holder_name = ''))
);

CREATE INDEX IF NOT EXISTS idx_items_classroom_status
    ON items(classroom_id, status);

CREATE TABLE IF NOT EXISTS logs (
    id           INTEGER PRIMARY KEY,
    classroom_id INTEGER NOT NULL REFERENCES classrooms(id),
    item         TEXT NOT NULL,
    student      TEXT NOT NULL,
    action       TEXT NOT NULL,
    logged_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_logs_classroom_time
    ON logs(classroom_id, logged_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: case-insensitive lookups by student name for the one-time
	// checkout flow and the sweep.
	`CREATE INDEX IF NOT EXISTS idx_students_classroom_name
	     ON students(classroom_id, name COLLATE NOCASE)`,
}

// EnsureSchema creates all tables and indexes if they don't already exist and
// applies pending migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}

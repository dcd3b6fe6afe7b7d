// Package store implements the durable, embedded relational index that
// backs the whole scan/dedup pipeline: directories, files, and
// priority rules. It is the only stateful component in the system; every
// other package holds no persistent state of its own between invocations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // registers the "sqlite" driver for database/sql
)

// Store wraps a single SQLite database handle, opened in WAL mode with
// foreign keys enforced so that deleting a directory row cascades to its
// files.
type Store struct {
	db *sql.DB
}

// pragmas applied on every open, mirroring the pragma-then-schema sequence
// used throughout the retrieval pack's own embedded-SQLite wiring.
var pragmas = []string{
	"PRAGMA journal_mode=WAL;",
	"PRAGMA foreign_keys=ON;",
	"PRAGMA synchronous=NORMAL;",
}

const schema = `
CREATE TABLE IF NOT EXISTS directories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	canonical_path TEXT NOT NULL UNIQUE,
	last_scanned INTEGER
);

CREATE TABLE IF NOT EXISTS files (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	directory_id INTEGER NOT NULL REFERENCES directories(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	canonical_path TEXT NOT NULL UNIQUE,
	size INTEGER NOT NULL,
	modified_at INTEGER NOT NULL,
	fast_hash TEXT,
	full_hash TEXT,
	UNIQUE(directory_id, name)
);

CREATE TABLE IF NOT EXISTS rules (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	pattern TEXT NOT NULL,
	priority INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_files_size_fast_hash ON files(size, fast_hash);
CREATE INDEX IF NOT EXISTS idx_files_full_hash ON files(full_hash);
CREATE INDEX IF NOT EXISTS idx_files_directory_id ON files(directory_id);
`

// Open opens (creating if necessary) the SQLite database at path, applies
// the required pragmas, and ensures the schema exists. Any failure here is
// store-fatal: the caller should abort the subcommand.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open store")
	}

	// SQLite only tolerates a single writer; avoid cross-connection
	// contention within this single process by pinning the pool to one
	// connection.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "unable to apply pragma %q", pragma)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "unable to create schema")
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// escapeLike escapes the SQL LIKE metacharacters \, %, and _ in value so
// that a LIKE pattern built from an arbitrary path only ever matches that
// path literally, never as a glob. The metacharacter chosen as the escape
// character is backslash, supplied to LIKE via "ESCAPE '\'" at every call
// site that uses this.
func escapeLike(value string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`%`, `\%`,
		`_`, `\_`,
	)
	return replacer.Replace(value)
}

// likeDescendantPattern builds the escaped LIKE pattern matching any path
// strictly under prefix (i.e. prefix followed by a slash and anything).
func likeDescendantPattern(prefix string) string {
	return fmt.Sprintf("%s/%%", escapeLike(prefix))
}

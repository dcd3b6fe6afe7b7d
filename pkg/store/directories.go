package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
)

// GetDirectory returns the directory row for canonical, or nil if none
// exists.
func (s *Store) GetDirectory(canonical string) (*Directory, error) {
	row := s.db.QueryRowContext(context.Background(),
		`SELECT id, canonical_path, last_scanned FROM directories WHERE canonical_path = ?`,
		canonical,
	)
	d, err := scanDirectory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "unable to query directory")
	}
	return d, nil
}

// UpsertDirectory idempotently records canonical, returning its id. If the
// directory already exists, its last_scanned value is left untouched.
func (s *Store) UpsertDirectory(canonical string) (int64, error) {
	ctx := context.Background()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO directories (canonical_path) VALUES (?)
		 ON CONFLICT(canonical_path) DO NOTHING`,
		canonical,
	); err != nil {
		return 0, errors.Wrap(err, "unable to upsert directory")
	}

	var id int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT id FROM directories WHERE canonical_path = ?`, canonical,
	).Scan(&id); err != nil {
		return 0, errors.Wrap(err, "unable to read back directory id")
	}
	return id, nil
}

// SetDirectoryScanned records a scan checkpoint for the directory with the
// given id. Called only after every other step of a directory's scan has
// succeeded, so that a crash mid-scan leaves the directory eligible for a
// full re-scan on the next run.
func (s *Store) SetDirectoryScanned(id int64, ts int64) error {
	_, err := s.db.ExecContext(context.Background(),
		`UPDATE directories SET last_scanned = ? WHERE id = ?`, ts, id,
	)
	return errors.Wrap(err, "unable to record scan checkpoint")
}

// ChildDirectories returns the direct children of parent: directories whose
// canonical path starts with parent + "/" and contains no further "/"
// after that prefix.
func (s *Store) ChildDirectories(parent string) ([]Directory, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT id, canonical_path, last_scanned FROM directories
		 WHERE canonical_path LIKE ? ESCAPE '\'`,
		likeDescendantPattern(parent),
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query child directories")
	}
	defer rows.Close()

	prefix := parent + "/"
	var children []Directory
	for rows.Next() {
		d, err := scanDirectory(rows)
		if err != nil {
			return nil, errors.Wrap(err, "unable to scan directory row")
		}
		rest := strings.TrimPrefix(d.CanonicalPath, prefix)
		if strings.Contains(rest, "/") {
			// A descendant of a deeper level, not a direct child; the LIKE
			// pattern can't express "no further slash" on its own.
			continue
		}
		children = append(children, *d)
	}
	return children, errors.Wrap(rows.Err(), "error iterating child directories")
}

// DeleteDirectoryTree removes the directory at canonical and every
// directory nested under it, along with their files (via the files table's
// ON DELETE CASCADE foreign key).
func (s *Store) DeleteDirectoryTree(canonical string) error {
	_, err := s.db.ExecContext(context.Background(),
		`DELETE FROM directories WHERE canonical_path = ? OR canonical_path LIKE ? ESCAPE '\'`,
		canonical, likeDescendantPattern(canonical),
	)
	return errors.Wrap(err, "unable to delete directory tree")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDirectory(row rowScanner) (*Directory, error) {
	var d Directory
	var lastScanned sql.NullInt64
	if err := row.Scan(&d.ID, &d.CanonicalPath, &lastScanned); err != nil {
		return nil, err
	}
	if lastScanned.Valid {
		v := lastScanned.Int64
		d.LastScanned = &v
	}
	return &d, nil
}

package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// FilesInDirectory returns every file row owned by the directory with the
// given id.
func (s *Store) FilesInDirectory(directoryID int64) ([]File, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT id, directory_id, name, canonical_path, size, modified_at, fast_hash, full_hash
		 FROM files WHERE directory_id = ?`,
		directoryID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query files in directory")
	}
	defer rows.Close()
	return scanFiles(rows)
}

// UpsertFile records the file at canonical, keyed on its canonical path: a
// conflicting row has every non-identity field overwritten. Returns the
// row's id.
func (s *Store) UpsertFile(directoryID int64, name, canonical string, size, modifiedAt int64, fastHash, fullHash *string) (int64, error) {
	ctx := context.Background()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO files (directory_id, name, canonical_path, size, modified_at, fast_hash, full_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(canonical_path) DO UPDATE SET
			directory_id = excluded.directory_id,
			name = excluded.name,
			size = excluded.size,
			modified_at = excluded.modified_at,
			fast_hash = excluded.fast_hash,
			full_hash = excluded.full_hash`,
		directoryID, name, canonical, size, modifiedAt, fastHash, fullHash,
	); err != nil {
		return 0, errors.Wrap(err, "unable to upsert file")
	}

	var id int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT id FROM files WHERE canonical_path = ?`, canonical,
	).Scan(&id); err != nil {
		return 0, errors.Wrap(err, "unable to read back file id")
	}
	return id, nil
}

// UpdateFastHash sets the fast hash for the file with the given id and
// clears its full hash: a changed fast hash means the file's first prefix
// differs, so any previous full-content verdict can no longer be trusted.
func (s *Store) UpdateFastHash(id int64, digest string) error {
	_, err := s.db.ExecContext(context.Background(),
		`UPDATE files SET fast_hash = ?, full_hash = NULL WHERE id = ?`, digest, id,
	)
	return errors.Wrap(err, "unable to update fast hash")
}

// UpdateFullHash sets the full hash for the file with the given id.
func (s *Store) UpdateFullHash(id int64, digest string) error {
	_, err := s.db.ExecContext(context.Background(),
		`UPDATE files SET full_hash = ? WHERE id = ?`, digest, id,
	)
	return errors.Wrap(err, "unable to update full hash")
}

// DeleteFile removes the file row with the given id.
func (s *Store) DeleteFile(id int64) error {
	_, err := s.db.ExecContext(context.Background(), `DELETE FROM files WHERE id = ?`, id)
	return errors.Wrap(err, "unable to delete file")
}

// DeleteFileByPath removes the file row at the given canonical path.
func (s *Store) DeleteFileByPath(canonical string) error {
	_, err := s.db.ExecContext(context.Background(), `DELETE FROM files WHERE canonical_path = ?`, canonical)
	return errors.Wrap(err, "unable to delete file by path")
}

// CandidatesNeedingFullHash returns every file row for which full_hash is
// absent, fast_hash is present, size is nonzero, and at least one other row
// shares the same (size, fast_hash) pair: the exact working set for stage 2
// of the scan pipeline. This query is deliberately not scoped to any one
// directory, so that a later directory's scan can discover that an earlier
// directory's file now has a potential duplicate and complete its full
// hash.
func (s *Store) CandidatesNeedingFullHash() ([]File, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT id, directory_id, name, canonical_path, size, modified_at, fast_hash, full_hash
		 FROM files f
		 WHERE f.full_hash IS NULL
		   AND f.fast_hash IS NOT NULL
		   AND f.size > 0
		   AND EXISTS (
		       SELECT 1 FROM files f2
		       WHERE f2.size = f.size AND f2.fast_hash = f.fast_hash AND f2.id != f.id
		   )`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query stage-2 candidates")
	}
	defer rows.Close()
	return scanFiles(rows)
}

func scanFiles(rows *sql.Rows) ([]File, error) {
	var files []File
	for rows.Next() {
		var f File
		var fastHash, fullHash sql.NullString
		if err := rows.Scan(&f.ID, &f.DirectoryID, &f.Name, &f.CanonicalPath, &f.Size, &f.ModifiedAt, &fastHash, &fullHash); err != nil {
			return nil, errors.Wrap(err, "unable to scan file row")
		}
		if fastHash.Valid {
			v := fastHash.String
			f.FastHash = &v
		}
		if fullHash.Valid {
			v := fullHash.String
			f.FullHash = &v
		}
		files = append(files, f)
	}
	return files, errors.Wrap(rows.Err(), "error iterating file rows")
}

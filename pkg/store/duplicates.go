package store

import (
	"context"

	"github.com/pkg/errors"
)

// FilesWithFullHash returns every file row sharing the given full hash.
func (s *Store) FilesWithFullHash(digest string) ([]File, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT id, directory_id, name, canonical_path, size, modified_at, fast_hash, full_hash
		 FROM files WHERE full_hash = ?`,
		digest,
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query files by full hash")
	}
	defer rows.Close()
	return scanFiles(rows)
}

// DuplicateGroups returns every full_hash value shared by two or more file
// rows, each expanded to its member files.
func (s *Store) DuplicateGroups() ([]DuplicateGroup, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT full_hash FROM files WHERE full_hash IS NOT NULL
		 GROUP BY full_hash HAVING COUNT(*) >= 2`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query duplicate groups")
	}

	var digests []string
	for rows.Next() {
		var digest string
		if err := rows.Scan(&digest); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "unable to scan full hash")
		}
		digests = append(digests, digest)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, errors.Wrap(err, "error iterating duplicate groups")
	}
	rows.Close()

	groups := make([]DuplicateGroup, 0, len(digests))
	for _, digest := range digests {
		files, err := s.FilesWithFullHash(digest)
		if err != nil {
			return nil, err
		}
		groups = append(groups, DuplicateGroup{FullHash: digest, Files: files})
	}
	return groups, nil
}

// DuplicateStatsUnder counts files whose canonical path lies at or under
// prefix and whose full hash is shared by at least one other row anywhere
// in the store. The "shared globally" predicate is intentional: a file
// under prefix still counts as reclaimable even when its twin lives
// outside prefix.
func (s *Store) DuplicateStatsUnder(prefix string) (count int, totalSize int64, err error) {
	row := s.db.QueryRowContext(context.Background(),
		`SELECT COUNT(*), COALESCE(SUM(size), 0)
		 FROM files f
		 WHERE (f.canonical_path = ? OR f.canonical_path LIKE ? ESCAPE '\')
		   AND f.full_hash IS NOT NULL
		   AND EXISTS (
		       SELECT 1 FROM files f2 WHERE f2.full_hash = f.full_hash AND f2.id != f.id
		   )`,
		prefix, likeDescendantPattern(prefix),
	)
	if scanErr := row.Scan(&count, &totalSize); scanErr != nil {
		return 0, 0, errors.Wrap(scanErr, "unable to query duplicate stats")
	}
	return count, totalSize, nil
}

// DuplicateFilesInDir returns the files directly inside the directory with
// the given id (not descendants) whose full hash is shared globally.
func (s *Store) DuplicateFilesInDir(directoryID int64) ([]File, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT id, directory_id, name, canonical_path, size, modified_at, fast_hash, full_hash
		 FROM files f
		 WHERE f.directory_id = ?
		   AND f.full_hash IS NOT NULL
		   AND EXISTS (
		       SELECT 1 FROM files f2 WHERE f2.full_hash = f.full_hash AND f2.id != f.id
		   )`,
		directoryID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query duplicate files in directory")
	}
	defer rows.Close()
	return scanFiles(rows)
}

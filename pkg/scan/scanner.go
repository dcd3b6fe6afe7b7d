// Package scan implements the scanner: the component that reconciles a
// live filesystem tree against the persisted store, driving the two-stage
// hashing strategy described in spec.md §4.4. It is the core of the whole
// system: it reads the filesystem (directory listings, stat calls, and file
// contents for hashing) and writes what it finds to the store; it never
// modifies the filesystem.
package scan

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/gyorgys/fdedupe/pkg/hash"
	"github.com/gyorgys/fdedupe/pkg/logging"
	"github.com/gyorgys/fdedupe/pkg/store"
	"github.com/gyorgys/fdedupe/pkg/walk"
)

// now is the scanner's clock, overridable in tests so that checkpoint
// values are deterministic.
var now = func() int64 { return time.Now().Unix() }

// Options bundles the scan-wide flags from spec.md §6.
type Options struct {
	Recursive      bool
	Rescan         bool
	FollowSymlinks bool
	Hidden         bool
	Include        []string
	Exclude        []string
}

func (o Options) walkOptions() walk.Options {
	return walk.Options{
		Hidden:         o.Hidden,
		FollowSymlinks: o.FollowSymlinks,
		Include:        o.Include,
		Exclude:        o.Exclude,
	}
}

// Progress receives human-readable status lines as the scan proceeds. A nil
// Progress is valid and simply means no progress is reported.
type Progress interface {
	Print(string)
}

func report(p Progress, format string, args ...interface{}) {
	if p != nil {
		p.Print(fmt.Sprintf(format, args...))
	}
}

func isHiddenName(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

// Run drives the scan pipeline breadth-first over roots. A store error is
// fatal and aborts the run immediately; every other failure (directory
// read, stat, hashing) is logged through logger and the offending
// directory or file is skipped.
func Run(st *store.Store, roots []string, opts Options, logger *logging.Logger, progress Progress) error {
	queue := append([]string(nil), roots...)
	walkOpts := opts.walkOptions()

	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		if err := scanOne(st, dir, opts, walkOpts, logger, progress, &queue); err != nil {
			return err
		}
	}

	return nil
}

// scanOne performs the ten-step reconciliation of a single directory,
// appending any subdirectories it should recurse into to *queue.
func scanOne(st *store.Store, dir string, opts Options, walkOpts walk.Options, logger *logging.Logger, progress Progress, queue *[]string) error {
	report(progress, "scanning %s", dir)

	dirID, err := st.UpsertDirectory(dir)
	if err != nil {
		return errors.Wrapf(err, "store error recording directory %s", dir)
	}
	row, err := st.GetDirectory(dir)
	if err != nil {
		return errors.Wrapf(err, "store error reading directory %s", dir)
	}

	// Step 2: skip decision.
	if row.LastScanned != nil && !opts.Rescan {
		if opts.Recursive {
			_, subdirs, err := walk.Walk(dir, walkOpts, logger)
			if err != nil {
				logger.Warn(errors.Wrapf(err, "unable to enumerate %s", dir))
				return nil
			}
			*queue = append(*queue, subdirs...)
		}
		return nil
	}

	// Step 3: enumerate.
	fsFiles, fsSubdirs, err := walk.Walk(dir, walkOpts, logger)
	if err != nil {
		logger.Warn(errors.Wrapf(err, "unable to enumerate %s", dir))
		return nil
	}

	// Step 4: load stored files.
	dbFiles, err := st.FilesInDirectory(dirID)
	if err != nil {
		return errors.Wrapf(err, "store error reading files in %s", dir)
	}
	dbByName := make(map[string]store.File, len(dbFiles))
	for _, f := range dbFiles {
		dbByName[f.Name] = f
	}

	fsFileNames := make(map[string]bool, len(fsFiles))
	for _, f := range fsFiles {
		fsFileNames[f.Name] = true
	}

	// Step 5: file deletion detection.
	for _, dbFile := range dbFiles {
		if fsFileNames[dbFile.Name] {
			continue
		}
		if !opts.Hidden && isHiddenName(dbFile.Name) {
			// Not enumerated under this policy, so its absence here
			// doesn't mean it was deleted.
			continue
		}
		if err := st.DeleteFile(dbFile.ID); err != nil {
			return errors.Wrapf(err, "store error deleting file %s", dbFile.CanonicalPath)
		}
	}

	// Step 6: subdirectory deletion detection.
	dbChildren, err := st.ChildDirectories(dir)
	if err != nil {
		return errors.Wrapf(err, "store error reading child directories of %s", dir)
	}
	fsSubdirSet := make(map[string]bool, len(fsSubdirs))
	for _, s := range fsSubdirs {
		fsSubdirSet[s] = true
	}
	for _, child := range dbChildren {
		if fsSubdirSet[child.CanonicalPath] {
			continue
		}
		if err := st.DeleteDirectoryTree(child.CanonicalPath); err != nil {
			return errors.Wrapf(err, "store error deleting directory tree %s", child.CanonicalPath)
		}
	}

	// Step 7: per-file upsert.
	for _, f := range fsFiles {
		info, err := os.Stat(f.Path)
		if err != nil {
			logger.Warn(errors.Wrapf(err, "unable to stat %s", f.Path))
			continue
		}
		size := info.Size()
		modifiedAt := info.ModTime().Unix()

		if existing, ok := dbByName[f.Name]; ok && existing.Size == size && existing.ModifiedAt == modifiedAt {
			// Unchanged: no hashing, no write.
			continue
		}

		fast, err := hash.Fast(f.Path)
		if err != nil {
			logger.Warn(errors.Wrapf(err, "unable to hash %s", f.Path))
			continue
		}
		fastDigest := string(fast)
		if _, err := st.UpsertFile(dirID, f.Name, f.Path, size, modifiedAt, &fastDigest, nil); err != nil {
			return errors.Wrapf(err, "store error upserting file %s", f.Path)
		}
	}

	// Step 8: stage-2 hashing. Deliberately global, not scoped to dir: see
	// SPEC_FULL.md §9 on the open question this resolves.
	candidates, err := st.CandidatesNeedingFullHash()
	if err != nil {
		return errors.Wrap(err, "store error reading stage-2 candidates")
	}
	for _, c := range candidates {
		full, err := hash.Full(c.CanonicalPath)
		if err != nil {
			logger.Warn(errors.Wrapf(err, "unable to fully hash %s", c.CanonicalPath))
			continue
		}
		if err := st.UpdateFullHash(c.ID, string(full)); err != nil {
			return errors.Wrapf(err, "store error updating full hash for %s", c.CanonicalPath)
		}
	}

	// Step 9: scan checkpoint, written last so a crash before this point
	// simply causes a full re-scan of dir next run.
	if err := st.SetDirectoryScanned(dirID, now()); err != nil {
		return errors.Wrapf(err, "store error recording scan checkpoint for %s", dir)
	}

	// Step 10: recurse.
	if opts.Recursive {
		*queue = append(*queue, fsSubdirs...)
	}

	return nil
}

// Package walk implements single-directory filesystem enumeration with
// include/exclude, hidden, and symlink policies. It is deliberately shallow:
// unlike the faster path/filepath.Walk replacement it's adapted from (which
// recurses an entire tree in one call), the scan pipeline drives recursion
// itself one directory at a time via its work queue, so Walk here only ever
// lists the immediate contents of a single directory.
package walk

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/gyorgys/fdedupe/pkg/logging"
)

// Options bundles the enumeration policies spec.md §4.3 names.
type Options struct {
	// Hidden includes dot-prefixed names when true; excludes them when
	// false.
	Hidden bool
	// FollowSymlinks classifies symlinked entries by their target's type
	// and resolves the canonical path to the target. When false, symlinks
	// are neither files nor directories and are skipped entirely.
	FollowSymlinks bool
	// Include, if non-empty, restricts files to those whose local name
	// matches at least one of these glob patterns.
	Include []string
	// Exclude drops files whose local name matches any of these glob
	// patterns, applied after Include.
	Exclude []string
}

// File is a regular file discovered directly inside an enumerated
// directory.
type File struct {
	// Name is the local (directory-relative) file name.
	Name string
	// Path is the canonical (absolute, symlink-resolved) path. If
	// canonicalization fails, Path falls back to the as-seen path.
	Path string
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func keepName(opts Options, name string) bool {
	if !opts.Hidden && isHidden(name) {
		return false
	}
	if len(opts.Include) > 0 && !matchesAny(opts.Include, name) {
		return false
	}
	if matchesAny(opts.Exclude, name) {
		return false
	}
	return true
}

// entryKind classifies a directory entry per opts.FollowSymlinks, resolving
// the canonical path for files and directories along the way.
func entryKind(dir, name string, opts Options) (isFile, isDir bool, canonical string) {
	path := filepath.Join(dir, name)

	info, err := os.Lstat(path)
	if err != nil {
		return false, false, path
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if !opts.FollowSymlinks {
			return false, false, path
		}
		target, err := filepath.EvalSymlinks(path)
		if err != nil {
			return false, false, path
		}
		targetInfo, err := os.Stat(target)
		if err != nil {
			return false, false, path
		}
		if targetInfo.IsDir() {
			return false, true, target
		}
		if targetInfo.Mode().IsRegular() {
			return true, false, target
		}
		return false, false, path
	}

	if info.IsDir() {
		return false, true, path
	}
	if info.Mode().IsRegular() {
		return true, false, path
	}
	return false, false, path
}

// Walk enumerates the direct contents of dir, returning regular files
// (subject to the Hidden/Include/Exclude policies, matched against the
// local name only) and subdirectories (subject only to the Hidden policy;
// Include/Exclude never apply to directory traversal itself). All returned
// paths are canonical. Directories that fail to canonicalize are dropped
// (logged); files that fail to canonicalize fall back to their as-seen
// path rather than being dropped, since a file is still hashable and
// storable even if its path can't be fully resolved.
func Walk(dir string, opts Options, logger *logging.Logger) (files []File, subdirs []string, err error) {
	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		return nil, nil, errors.Wrap(readErr, "unable to read directory")
	}

	for _, entry := range entries {
		name := entry.Name()
		if !opts.Hidden && isHidden(name) {
			continue
		}

		isFile, isDir, canonical := entryKind(dir, name, opts)
		switch {
		case isDir:
			resolved, err := filepath.EvalSymlinks(canonical)
			if err != nil {
				if logger != nil {
					logger.Warn(errors.Wrapf(err, "unable to canonicalize subdirectory %s", canonical))
				}
				continue
			}
			subdirs = append(subdirs, resolved)
		case isFile:
			if !keepName(opts, name) {
				continue
			}
			files = append(files, File{Name: name, Path: canonical})
		default:
			// Neither a file nor a directory under the active policy
			// (e.g. an unfollowed symlink, device, or socket): skipped.
		}
	}

	return files, subdirs, nil
}

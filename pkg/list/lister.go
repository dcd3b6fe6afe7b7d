// Package list implements the lister: a pure read path over the store that
// answers prefix queries for presentation. It never modifies the store.
package list

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/gyorgys/fdedupe/pkg/store"
)

// Options bundles the list-wide flags from spec.md §6.
type Options struct {
	Recursive bool
}

// Run prints duplicate information for prefix to w: the prefix's own
// duplicate stats, each direct child directory with a nonzero duplicate
// count, and files directly under prefix that belong to a shared group.
// If opts.Recursive, it then recurses into each direct child directory.
func Run(st *store.Store, prefix string, opts Options, w io.Writer) error {
	return list(st, prefix, opts, w, 0)
}

func list(st *store.Store, prefix string, opts Options, w io.Writer, depth int) error {
	count, size, err := st.DuplicateStatsUnder(prefix)
	if err != nil {
		return errors.Wrapf(err, "unable to compute duplicate stats for %s", prefix)
	}
	fmt.Fprintf(w, "%s%s: %d duplicate file(s), %s reclaimable\n",
		indent(depth), prefix, count, humanize.Bytes(uint64(size)))

	children, err := st.ChildDirectories(prefix)
	if err != nil {
		return errors.Wrapf(err, "unable to list child directories of %s", prefix)
	}
	for _, child := range children {
		childCount, childSize, err := st.DuplicateStatsUnder(child.CanonicalPath)
		if err != nil {
			return errors.Wrapf(err, "unable to compute duplicate stats for %s", child.CanonicalPath)
		}
		if childCount == 0 {
			continue
		}
		fmt.Fprintf(w, "%s  %s/: %d duplicate file(s), %s\n",
			indent(depth), relativeName(prefix, child.CanonicalPath), childCount, humanize.Bytes(uint64(childSize)))
	}

	dir, err := st.GetDirectory(prefix)
	if err != nil {
		return errors.Wrapf(err, "unable to look up directory %s", prefix)
	}
	if dir != nil {
		files, err := st.DuplicateFilesInDir(dir.ID)
		if err != nil {
			return errors.Wrapf(err, "unable to list duplicate files in %s", prefix)
		}
		for _, f := range files {
			fmt.Fprintf(w, "%s  %s (%s)\n", indent(depth), f.Name, humanize.Bytes(uint64(f.Size)))
		}
	}

	if opts.Recursive {
		for _, child := range children {
			if err := list(st, child.CanonicalPath, opts, w, depth+1); err != nil {
				return err
			}
		}
	}

	return nil
}

func relativeName(prefix, path string) string {
	rel := strings.TrimPrefix(path, prefix+"/")
	if rel == path {
		return filepath.Base(path)
	}
	return rel
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

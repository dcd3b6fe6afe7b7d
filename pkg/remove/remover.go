// Package remove implements the remover: the per-group decision model and
// rule-based auto-resolution described in spec.md §4.6, plus the commit
// path that deletes decided files from both the filesystem and the store.
package remove

import (
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/gyorgys/fdedupe/pkg/logging"
	"github.com/gyorgys/fdedupe/pkg/store"
)

// Action is a file's tri-state disposition within a duplicate group.
type Action int

const (
	Undecided Action = iota
	Keep
	Delete
)

// GroupState tracks the per-file action for one duplicate group. Files and
// Actions are parallel slices.
type GroupState struct {
	Files   []store.File
	Actions []Action
}

func newGroupState(files []store.File) *GroupState {
	return &GroupState{
		Files:   files,
		Actions: make([]Action, len(files)),
	}
}

// MarkKeep sets file i to Keep and every other file in the group to
// Delete. This is a deliberate "pick one exception" model: every call
// resets the whole group, so MarkKeep always leaves exactly one copy kept;
// in groups of more than two files, MarkDelete (which deletes exactly one
// copy and keeps the rest) is the only way to keep more than one.
func (g *GroupState) MarkKeep(i int) {
	for j := range g.Actions {
		if j == i {
			g.Actions[j] = Keep
		} else {
			g.Actions[j] = Delete
		}
	}
}

// MarkDelete sets file i to Delete and every other file in the group to
// Keep.
func (g *GroupState) MarkDelete(i int) {
	for j := range g.Actions {
		if j == i {
			g.Actions[j] = Delete
		} else {
			g.Actions[j] = Keep
		}
	}
}

// Decided reports whether the group has at least one Keep and at least one
// Delete. A group can only be committed once this holds.
func (g *GroupState) Decided() bool {
	var hasKeep, hasDelete bool
	for _, a := range g.Actions {
		switch a {
		case Keep:
			hasKeep = true
		case Delete:
			hasDelete = true
		}
	}
	return hasKeep && hasDelete
}

// Remover drives removal over a store's duplicate groups, applying
// priority-rule auto-resolution to each before an operator (or caller)
// overrides anything by hand.
type Remover struct {
	store  *store.Store
	rules  []store.Rule
	logger *logging.Logger
}

// New loads the current rule set and returns a Remover.
func New(st *store.Store, logger *logging.Logger) (*Remover, error) {
	rules, err := st.AllRules()
	if err != nil {
		return nil, errors.Wrap(err, "unable to load rules")
	}
	return &Remover{store: st, rules: rules, logger: logger}, nil
}

// Groups returns every duplicate group currently in the store, in the
// order the store returns them. Reordering across runs is allowed by
// design; nothing depends on a stable group order.
func (r *Remover) Groups() ([]store.DuplicateGroup, error) {
	return r.store.DuplicateGroups()
}

// NewGroupState builds the decision state for files and immediately
// applies rule-based auto-resolution to it.
func (r *Remover) NewGroupState(files []store.File) *GroupState {
	gs := newGroupState(files)
	r.AutoResolve(gs)
	return gs
}

// maxPriority returns the highest priority among rules whose pattern
// matches canonical, and whether any rule matched at all. A pattern is
// matched against the whole canonical path and its wildcards may span
// directory separators, so "*/keepers/*" matches "/data/keepers/dup.txt".
func maxPriority(canonical string, rules []store.Rule) (best int, matched bool) {
	// Swap "/" for NUL, which no path contains, so doublestar has no
	// separators for "*" to stop at.
	name := strings.ReplaceAll(canonical, "/", "\x00")
	for _, rule := range rules {
		ok, err := doublestar.Match(strings.ReplaceAll(rule.Pattern, "/", "\x00"), name)
		if err != nil || !ok {
			continue
		}
		if !matched || rule.Priority > best {
			best = rule.Priority
			matched = true
		}
	}
	return best, matched
}

// AutoResolve evaluates every file's canonical path against the current
// rule set and scores it by the maximum priority of any matching rule (or
// treats it as unmatched, equivalent to a score of negative infinity). If
// exactly one file holds the unique maximum score, that file is marked
// Keep and every other file Delete. Otherwise the group's actions are left
// untouched. Deterministic given the same rules and files.
func (r *Remover) AutoResolve(gs *GroupState) bool {
	scores := make([]int, len(gs.Files))
	matched := make([]bool, len(gs.Files))
	for i, f := range gs.Files {
		scores[i], matched[i] = maxPriority(f.CanonicalPath, r.rules)
	}

	best := 0
	bestIndex := -1
	tie := false
	for i := range gs.Files {
		if !matched[i] {
			continue
		}
		switch {
		case bestIndex == -1 || scores[i] > best:
			best = scores[i]
			bestIndex = i
			tie = false
		case scores[i] == best:
			tie = true
		}
	}

	if bestIndex == -1 || tie {
		return false
	}

	gs.MarkKeep(bestIndex)
	return true
}

// AddRule persists a new priority rule, appends it to the in-memory rule
// list, and re-runs auto-resolution against gs.
func (r *Remover) AddRule(gs *GroupState, pattern string, priority int) error {
	id, err := r.store.InsertRule(pattern, priority)
	if err != nil {
		return errors.Wrap(err, "unable to insert rule")
	}
	r.rules = append(r.rules, store.Rule{ID: id, Pattern: pattern, Priority: priority})
	r.AutoResolve(gs)
	return nil
}

// Commit applies a decided group's deletions. For each file marked
// Delete, the file is removed from the filesystem and then its store row
// is removed; a filesystem removal failure is logged and its store row is
// left in place, so the next scan will find the file again. If dryRun,
// neither the filesystem nor the store is touched, but the group is still
// considered committed by the caller.
func (r *Remover) Commit(gs *GroupState, dryRun bool) error {
	if !gs.Decided() {
		return errors.New("group is not decided: at least one Keep and one Delete are required")
	}

	for i, action := range gs.Actions {
		if action != Delete {
			continue
		}
		file := gs.Files[i]
		if dryRun {
			continue
		}

		if err := os.Remove(file.CanonicalPath); err != nil {
			r.logger.Warn(errors.Wrapf(err, "unable to remove %s", file.CanonicalPath))
			continue
		}
		if err := r.store.DeleteFileByPath(file.CanonicalPath); err != nil {
			return errors.Wrapf(err, "store error deleting file row %s", file.CanonicalPath)
		}
	}

	return nil
}

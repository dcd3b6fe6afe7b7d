package remove

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gyorgys/fdedupe/pkg/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "fdedupe.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestGroupStateMarkKeepFlipsRest(t *testing.T) {
	gs := newGroupState([]store.File{{Name: "a"}, {Name: "b"}, {Name: "c"}})
	gs.MarkKeep(1)

	if gs.Actions[0] != Delete || gs.Actions[1] != Keep || gs.Actions[2] != Delete {
		t.Fatalf("expected [Delete Keep Delete], got %v", gs.Actions)
	}
	if !gs.Decided() {
		t.Fatal("expected the group to be decided after a MarkKeep")
	}
}

func TestGroupStateMarkDeleteFlipsRest(t *testing.T) {
	gs := newGroupState([]store.File{{Name: "a"}, {Name: "b"}})
	gs.MarkDelete(0)

	if gs.Actions[0] != Delete || gs.Actions[1] != Keep {
		t.Fatalf("expected [Delete Keep], got %v", gs.Actions)
	}
}

func TestGroupStateNotDecidedInitially(t *testing.T) {
	gs := newGroupState([]store.File{{Name: "a"}, {Name: "b"}})
	if gs.Decided() {
		t.Fatal("a fresh group state must not be considered decided")
	}
}

func TestAutoResolveUniqueMaximumWins(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.InsertRule("*/keepers/*", 10); err != nil {
		t.Fatal(err)
	}
	if _, err := st.InsertRule("*/scratch/*", 1); err != nil {
		t.Fatal(err)
	}

	remover, err := New(st, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	files := []store.File{
		{CanonicalPath: "/data/scratch/dup.txt"},
		{CanonicalPath: "/data/keepers/dup.txt"},
	}
	gs := remover.NewGroupState(files)

	if !gs.Decided() {
		t.Fatal("expected auto-resolution to decide the group when one file has a unique maximum priority")
	}
	if gs.Actions[1] != Keep || gs.Actions[0] != Delete {
		t.Fatalf("expected the keepers/ file to be kept, got %v", gs.Actions)
	}
}

func TestAutoResolveTieLeavesUndecided(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.InsertRule("*.txt", 5); err != nil {
		t.Fatal(err)
	}

	remover, err := New(st, nil)
	if err != nil {
		t.Fatal(err)
	}

	files := []store.File{
		{CanonicalPath: "/data/a.txt"},
		{CanonicalPath: "/data/b.txt"},
	}
	gs := remover.NewGroupState(files)

	if gs.Decided() {
		t.Fatal("expected a tie between equally-scored files to leave the group undecided")
	}
}

func TestAutoResolveNoRulesLeavesUndecided(t *testing.T) {
	st := openTestStore(t)
	remover, err := New(st, nil)
	if err != nil {
		t.Fatal(err)
	}

	files := []store.File{{CanonicalPath: "/data/a.txt"}, {CanonicalPath: "/data/b.txt"}}
	gs := remover.NewGroupState(files)
	if gs.Decided() {
		t.Fatal("expected no rules to leave the group undecided")
	}
}

func TestAddRuleReResolves(t *testing.T) {
	st := openTestStore(t)
	remover, err := New(st, nil)
	if err != nil {
		t.Fatal(err)
	}

	files := []store.File{
		{CanonicalPath: "/data/a.txt"},
		{CanonicalPath: "/data/important/a.txt"},
	}
	gs := remover.NewGroupState(files)
	if gs.Decided() {
		t.Fatal("expected no decision before any rule exists")
	}

	if err := remover.AddRule(gs, "*/important/*", 5); err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	if !gs.Decided() {
		t.Fatal("expected AddRule to trigger auto-resolution and decide the group")
	}
	if gs.Actions[1] != Keep {
		t.Fatalf("expected the important/ copy to be kept, got %v", gs.Actions)
	}

	rules, err := st.AllRules()
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected the rule to be persisted, got %d rules", len(rules))
	}
}

func TestCommitRequiresDecision(t *testing.T) {
	st := openTestStore(t)
	remover, err := New(st, nil)
	if err != nil {
		t.Fatal(err)
	}
	gs := remover.NewGroupState([]store.File{{CanonicalPath: "/data/a.txt"}, {CanonicalPath: "/data/b.txt"}})

	if err := remover.Commit(gs, false); err == nil {
		t.Fatal("expected Commit to reject an undecided group")
	}
}

func TestCommitDryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	keepPath := filepath.Join(dir, "keep.txt")
	deletePath := filepath.Join(dir, "delete.txt")
	for _, p := range []string{keepPath, deletePath} {
		if err := os.WriteFile(p, []byte("dup"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	st := openTestStore(t)
	dirID, err := st.UpsertDirectory(dir)
	if err != nil {
		t.Fatal(err)
	}
	keepID, err := st.UpsertFile(dirID, "keep.txt", keepPath, 3, 1, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = st.UpsertFile(dirID, "delete.txt", deletePath, 3, 1, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	remover, err := New(st, nil)
	if err != nil {
		t.Fatal(err)
	}
	files, err := st.FilesInDirectory(dirID)
	if err != nil {
		t.Fatal(err)
	}
	gs := remover.NewGroupState(files)
	for i, f := range gs.Files {
		if f.ID == keepID {
			gs.MarkKeep(i)
		}
	}
	if !gs.Decided() {
		t.Fatal("expected the group to be decided after MarkKeep")
	}

	if err := remover.Commit(gs, true); err != nil {
		t.Fatalf("Commit (dry run): %v", err)
	}

	if _, err := os.Stat(deletePath); err != nil {
		t.Fatalf("expected delete.txt to survive a dry run, got stat error: %v", err)
	}
	remaining, err := st.FilesInDirectory(dirID)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected both store rows to survive a dry run, got %d", len(remaining))
	}
}

func TestCommitLiveDeletesFileAndRow(t *testing.T) {
	dir := t.TempDir()
	keepPath := filepath.Join(dir, "keep.txt")
	deletePath := filepath.Join(dir, "delete.txt")
	for _, p := range []string{keepPath, deletePath} {
		if err := os.WriteFile(p, []byte("dup"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	st := openTestStore(t)
	dirID, err := st.UpsertDirectory(dir)
	if err != nil {
		t.Fatal(err)
	}
	keepID, err := st.UpsertFile(dirID, "keep.txt", keepPath, 3, 1, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.UpsertFile(dirID, "delete.txt", deletePath, 3, 1, nil, nil); err != nil {
		t.Fatal(err)
	}

	remover, err := New(st, nil)
	if err != nil {
		t.Fatal(err)
	}
	files, err := st.FilesInDirectory(dirID)
	if err != nil {
		t.Fatal(err)
	}
	gs := remover.NewGroupState(files)
	for i, f := range gs.Files {
		if f.ID == keepID {
			gs.MarkKeep(i)
		}
	}

	if err := remover.Commit(gs, false); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if _, err := os.Stat(deletePath); !os.IsNotExist(err) {
		t.Fatalf("expected delete.txt to be removed from disk, stat error: %v", err)
	}
	if _, err := os.Stat(keepPath); err != nil {
		t.Fatalf("expected keep.txt to survive, got: %v", err)
	}
	remaining, err := st.FilesInDirectory(dirID)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 || remaining[0].CanonicalPath != keepPath {
		t.Fatalf("expected only keep.txt's row to remain, got %+v", remaining)
	}
}

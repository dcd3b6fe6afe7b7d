package walk

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
)

func fileNames(files []File) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	sort.Strings(names)
	return names
}

func TestWalkBasicEnumeration(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, subdirs, err := Walk(dir, Options{}, nil)
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if got := fileNames(files); len(got) != 2 || got[0] != "a.txt" || got[1] != "b.txt" {
		t.Fatalf("expected [a.txt b.txt] without --hidden, got %v", got)
	}
	if len(subdirs) != 1 {
		t.Fatalf("expected one subdirectory, got %v", subdirs)
	}
}

func TestWalkHiddenIncluded(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, _, err := Walk(dir, Options{Hidden: true}, nil)
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if len(files) != 1 || files[0].Name != ".hidden" {
		t.Fatalf("expected .hidden to be included, got %v", files)
	}
}

func TestWalkIncludeExclude(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"report.txt", "report.log", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, _, err := Walk(dir, Options{Include: []string{"*.txt"}, Exclude: []string{"notes.*"}}, nil)
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if got := fileNames(files); len(got) != 1 || got[0] != "report.txt" {
		t.Fatalf("expected only report.txt to survive include+exclude, got %v", got)
	}
}

func TestWalkSymlinkPolicy(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires elevated privileges on windows")
	}

	dir := t.TempDir()
	targetDir := filepath.Join(t.TempDir(), "target")
	if err := os.Mkdir(targetDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(targetDir, "inside.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(targetDir, filepath.Join(dir, "link")); err != nil {
		t.Fatal(err)
	}

	files, subdirs, err := Walk(dir, Options{FollowSymlinks: false}, nil)
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if len(files) != 0 || len(subdirs) != 0 {
		t.Fatalf("expected the symlink to be skipped entirely when FollowSymlinks is false, got files=%v subdirs=%v", files, subdirs)
	}

	files, subdirs, err = Walk(dir, Options{FollowSymlinks: true}, nil)
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no direct files, got %v", files)
	}
	if len(subdirs) != 1 {
		t.Fatalf("expected the symlink to resolve to one subdirectory, got %v", subdirs)
	}
	resolvedTarget, err := filepath.EvalSymlinks(targetDir)
	if err != nil {
		t.Fatal(err)
	}
	if subdirs[0] != resolvedTarget {
		t.Fatalf("expected subdir to be the canonical target %s, got %s", resolvedTarget, subdirs[0])
	}
}

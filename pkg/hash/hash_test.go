package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file.bin")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}
	return path
}

func TestFastAndFullAgreeOnSmallFiles(t *testing.T) {
	path := writeTemp(t, []byte("hello world\n"))

	fast, err := Fast(path)
	if err != nil {
		t.Fatalf("Fast returned error: %v", err)
	}
	full, err := Full(path)
	if err != nil {
		t.Fatalf("Full returned error: %v", err)
	}
	if fast != full {
		t.Fatalf("expected fast and full hashes to agree for a file smaller than the fast-hash prefix, got %s vs %s", fast, full)
	}
}

func TestFastHashesOnlyThePrefix(t *testing.T) {
	small := writeTemp(t, []byte("abc"))
	large := make([]byte, FastPrefixBytes+10)
	copy(large, []byte("abc"))
	largePath := writeTemp(t, large)

	fastSmall, err := Fast(small)
	if err != nil {
		t.Fatalf("Fast(small) error: %v", err)
	}
	fastLarge, err := Fast(largePath)
	if err != nil {
		t.Fatalf("Fast(large) error: %v", err)
	}
	if fastSmall == fastLarge {
		t.Fatalf("expected fast hashes to differ: the large file's first %d bytes are not identical to the 3-byte file's content", FastPrefixBytes)
	}

	fullLarge, err := Full(largePath)
	if err != nil {
		t.Fatalf("Full(large) error: %v", err)
	}
	if fastLarge == fullLarge {
		t.Fatalf("fast hash of a file longer than the prefix must differ from its full hash")
	}
}

func TestEmptyFileHashesEmptyString(t *testing.T) {
	path := writeTemp(t, nil)

	fast, err := Fast(path)
	if err != nil {
		t.Fatalf("Fast returned error: %v", err)
	}
	full, err := Full(path)
	if err != nil {
		t.Fatalf("Full returned error: %v", err)
	}
	if fast != full {
		t.Fatalf("expected empty file to hash identically under both strategies")
	}
	if want := Digest(hex.EncodeToString(sha256.New().Sum(nil))); fast != want {
		t.Fatalf("expected the empty file to hash as the empty string %s, got %s", want, fast)
	}
}

func TestHashMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	if _, err := Fast(missing); err == nil {
		t.Fatal("expected an error hashing a missing file")
	}
	if _, err := Full(missing); err == nil {
		t.Fatal("expected an error hashing a missing file")
	}
}

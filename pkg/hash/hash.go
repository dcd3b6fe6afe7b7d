// Package hash implements the two content fingerprints the scan pipeline
// relies on: a cheap fast hash over a bounded prefix of a file, and a full
// hash over its entire content. The underlying hash primitive itself
// (SHA-256) is treated as an external, assumed collision-resistant hash;
// this package is only responsible for deciding how much of the file to
// feed it and for returning the result as a lowercase hex digest.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/pkg/errors"
)

// FastPrefixBytes is the number of leading bytes fast_hash reads.
const FastPrefixBytes = 65536

// Digest is a lowercase hex-encoded content hash.
type Digest string

// Fast computes a hash over at most the first FastPrefixBytes bytes of the
// file at path. A file shorter than FastPrefixBytes is hashed in full; an
// empty file hashes the empty string.
func Fast(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "unable to open file")
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, io.LimitReader(file, FastPrefixBytes)); err != nil {
		return "", errors.Wrap(err, "unable to read file")
	}

	return Digest(hex.EncodeToString(h.Sum(nil))), nil
}

// Full computes a hash over the entire content of the file at path,
// streaming it through the hash in chunks rather than reading it into
// memory at once.
func Full(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "unable to open file")
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", errors.Wrap(err, "unable to read file")
	}

	return Digest(hex.EncodeToString(h.Sum(nil))), nil
}

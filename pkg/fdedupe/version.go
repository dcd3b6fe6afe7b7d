// Package fdedupe holds identifying information shared across the
// command-line entry points.
package fdedupe

import "fmt"

const (
	VersionMajor = 0
	VersionMinor = 1
	VersionPatch = 0
)

// Version is the dotted version string reported by --version.
var Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)

// DefaultStoreFile is the store path used when neither --db nor the
// configuration file's db key is set.
const DefaultStoreFile = "fdedupe.db"

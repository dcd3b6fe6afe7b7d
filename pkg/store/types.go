package store

// Directory is a scanned directory row. LastScanned is nil if the
// directory has never been scanned.
type Directory struct {
	ID            int64
	CanonicalPath string
	LastScanned   *int64
}

// File is a single file row. FastHash and FullHash are nil when absent.
// Invariant: FullHash != nil implies FastHash != nil (enforced by every
// write path in this package, never by a database constraint).
type File struct {
	ID            int64
	DirectoryID   int64
	Name          string
	CanonicalPath string
	Size          int64
	ModifiedAt    int64
	FastHash      *string
	FullHash      *string
}

// Rule is a glob-pattern priority rule used by the remover's
// auto-resolution pass.
type Rule struct {
	ID       int64
	Pattern  string
	Priority int
}

// DuplicateGroup is the derived set of files sharing a full hash. Only
// groups with two or more members are ever produced by this package.
type DuplicateGroup struct {
	FullHash string
	Files    []File
}

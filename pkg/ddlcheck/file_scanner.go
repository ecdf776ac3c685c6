package ddlcheck

import "time"

// FileScanner discovers SQL scripts.
// Implementations must be safe for concurrent use by multiple goroutines.
type FileScanner interface {
	// ScanDirectory recursively scans a directory for .sql files.
	ScanDirectory(sourcePath string) (FileScanResult, error)
}

// FileScanResult contains the results of scanning a directory.
type FileScanResult struct {
	Files []SourceFile
}

// SourceFile is one discovered script.
// Paths use forward slashes on every platform.
type SourceFile struct {
	Path         string // Path as opened: "/work/sql/shop.sql"
	RelativePath string // Relative to the scanned directory: "shop.sql"
	Name         string // Filename only: "shop.sql"

	Content   string
	SizeBytes int64

	Checksum    string // SHA-256 of normalized content
	ChecksumRaw string // SHA-256 of raw content

	ModifiedAt time.Time
}

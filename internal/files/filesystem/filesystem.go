package filesystem

import "io/fs"

type FileInfo = fs.FileInfo

// File is one entry produced by Directory.Walk.
type File interface {
	Path() string
	// RelativePath is relative to the walked directory, with forward slashes.
	RelativePath() string
	Info() FileInfo
	ReadContent() ([]byte, error)
}

// Directory walks its tree in lexical order. An error returned by fn stops
// the walk and is returned from Walk.
type Directory interface {
	Path() string
	Walk(fn func(File, error) error) error
}

// FileSystemProvider reads SQL scripts and structure files and writes
// structure files and reports. WriteFile creates missing parent directories.
type FileSystemProvider interface {
	Open(path string) (Directory, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	Stat(path string) (FileInfo, error)
}

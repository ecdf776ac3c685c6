package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem is the FileSystemProvider backed by the local disk.
type OSFileSystem struct{}

func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Open resolves path to an absolute directory.
func (OSFileSystem) Open(path string) (Directory, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	return osDirectory(abs), nil
}

func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OSFileSystem) WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func (OSFileSystem) Stat(path string) (FileInfo, error) {
	return os.Stat(path)
}

type osDirectory string

func (d osDirectory) Path() string { return string(d) }

// Walk visits entries with filepath.WalkDir. A panicking callback is
// reported as an error for that entry.
func (d osDirectory) Walk(fn func(File, error) error) error {
	root := string(d)
	return filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("walk callback panicked at %s: %v", p, r)
			}
		}()

		if walkErr != nil {
			return fn(nil, walkErr)
		}
		info, err := entry.Info()
		if err != nil {
			return fn(nil, fmt.Errorf("stat %s: %w", p, err))
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fn(nil, fmt.Errorf("relative path of %s: %w", p, err))
		}
		return fn(osFile{path: p, rel: filepath.ToSlash(rel), info: info}, nil)
	})
}

type osFile struct {
	path string
	rel  string
	info fs.FileInfo
}

func (f osFile) Path() string                 { return f.path }
func (f osFile) RelativePath() string         { return f.rel }
func (f osFile) Info() FileInfo               { return f.info }
func (f osFile) ReadContent() ([]byte, error) { return os.ReadFile(f.path) }

var _ FileSystemProvider = (*OSFileSystem)(nil)

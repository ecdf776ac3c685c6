package filesystem

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryFile struct {
	absPath string
	relPath string
	content []byte
	info    fs.FileInfo
}

func (f *memoryFile) Path() string         { return f.absPath }
func (f *memoryFile) RelativePath() string { return f.relPath }
func (f *memoryFile) Info() FileInfo       { return f.info }

func (f *memoryFile) ReadContent() ([]byte, error) {
	return f.content, nil
}

type memoryDirectory struct {
	absPath string
	fs      *MemoryFileSystem
}

func (d *memoryDirectory) Path() string { return d.absPath }

func (d *memoryDirectory) Walk(fn func(File, error) error) error {
	entries := d.fs.entriesUnder(d.absPath)

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].absPath < entries[j].absPath
	})

	for _, entry := range entries {
		rel := strings.TrimPrefix(strings.TrimPrefix(entry.absPath, d.absPath), "/")
		if rel == "" {
			rel = "."
		}
		view := &memoryFile{absPath: entry.absPath, relPath: rel, content: entry.content, info: entry.info}

		var callbackErr error
		func() {
			defer func() {
				if r := recover(); r != nil {
					callbackErr = fmt.Errorf("walk callback panicked at %s: %v", entry.absPath, r)
				}
			}()
			callbackErr = fn(view, nil)
		}()

		if callbackErr != nil {
			return callbackErr
		}
	}

	return nil
}

// MemoryFileSystem implements FileSystemProvider for in-memory testing.
// It is safe for concurrent use.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string]*memoryFile
	root  string
}

// NewMemoryFileSystem creates a new in-memory filesystem rooted at root.
// Relative paths passed to any method resolve against root.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = path.Clean(filepath.ToSlash(root))

	mfs := &MemoryFileSystem{
		files: make(map[string]*memoryFile),
		root:  root,
	}
	mfs.files[root] = newMemoryDir(root, ".")
	return mfs
}

func newMemoryDir(absPath, relPath string) *memoryFile {
	return &memoryFile{
		absPath: absPath,
		relPath: relPath,
		info: &memoryFileInfo{
			name:    path.Base(absPath),
			mode:    0755 | fs.ModeDir,
			modTime: time.Now(),
			isDir:   true,
		},
	}
}

// AddFile adds a file to the in-memory filesystem
func (mfs *MemoryFileSystem) AddFile(filePath string, content string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.put(mfs.resolve(filePath), []byte(content))
}

func (mfs *MemoryFileSystem) resolve(p string) string {
	p = filepath.ToSlash(p)
	if p == "" || p == "." {
		return mfs.root
	}
	if !path.IsAbs(p) {
		p = path.Join(mfs.root, p)
	}
	return path.Clean(p)
}

func (mfs *MemoryFileSystem) put(absPath string, content []byte) {
	rel := strings.TrimPrefix(absPath, mfs.root+"/")
	mfs.files[absPath] = &memoryFile{
		absPath: absPath,
		relPath: rel,
		content: content,
		info: &memoryFileInfo{
			name:    path.Base(absPath),
			size:    int64(len(content)),
			mode:    0644,
			modTime: time.Now(),
		},
	}

	for dir := path.Dir(absPath); dir != "." && dir != "/" && dir != mfs.root; dir = path.Dir(dir) {
		if _, exists := mfs.files[dir]; exists {
			break
		}
		mfs.files[dir] = newMemoryDir(dir, strings.TrimPrefix(dir, mfs.root+"/"))
	}
}

func (mfs *MemoryFileSystem) entriesUnder(basePath string) []*memoryFile {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	var entries []*memoryFile
	for p, file := range mfs.files {
		if basePath == "/" || p == basePath || strings.HasPrefix(p, basePath+"/") {
			entries = append(entries, file)
		}
	}
	return entries
}

// Open implements FileSystemProvider.Open
func (mfs *MemoryFileSystem) Open(openPath string) (Directory, error) {
	absPath := mfs.resolve(openPath)

	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	file, exists := mfs.files[absPath]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: openPath, Err: fs.ErrNotExist}
	}
	if !file.info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", openPath)
	}
	return &memoryDirectory{absPath: absPath, fs: mfs}, nil
}

// ReadFile implements FileSystemProvider.ReadFile
func (mfs *MemoryFileSystem) ReadFile(filePath string) ([]byte, error) {
	absPath := mfs.resolve(filePath)

	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	file, exists := mfs.files[absPath]
	if !exists {
		return nil, &fs.PathError{Op: "read", Path: filePath, Err: fs.ErrNotExist}
	}
	if file.info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	return file.content, nil
}

// WriteFile implements FileSystemProvider.WriteFile
func (mfs *MemoryFileSystem) WriteFile(filePath string, data []byte) error {
	absPath := mfs.resolve(filePath)

	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	if existing, ok := mfs.files[absPath]; ok && existing.info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	mfs.put(absPath, append([]byte(nil), data...))
	return nil
}

// Stat implements FileSystemProvider.Stat
func (mfs *MemoryFileSystem) Stat(statPath string) (FileInfo, error) {
	absPath := mfs.resolve(statPath)

	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	file, exists := mfs.files[absPath]
	if !exists {
		return nil, &fs.PathError{Op: "stat", Path: statPath, Err: fs.ErrNotExist}
	}
	return file.info, nil
}

var _ FileSystemProvider = (*MemoryFileSystem)(nil)

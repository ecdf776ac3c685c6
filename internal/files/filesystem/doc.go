// Package filesystem abstracts the file access of the parse and check flows.
//
// Key interfaces:
//   - FileSystemProvider: reads SQL scripts and structure files, writes outputs
//   - Directory: a directory that can be traversed
//   - File: an individual file with metadata and content
//
// Implementations:
//   - OSFileSystem: production implementation using the OS filesystem
//   - MemoryFileSystem: in-memory implementation for tests
//
// Missing paths are reported with errors matching fs.ErrNotExist in both
// implementations.
package filesystem
